package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/moldcart/catalog-api/internal/dto"
	"github.com/moldcart/catalog-api/internal/model"
	"github.com/moldcart/catalog-api/internal/repository"
)

var ErrProductNotFound = errors.New("product not found")

// Catalog defaults: every create path (API and bulk import) fills absent
// fields with these instead of rejecting the record.
const (
	defaultProductName        = "No name"
	defaultProductDescription = "No description"
	defaultCurrency           = "MDL"
	defaultCategoryID         = int64(1)
)

type ProductService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

func applyProductDefaults(p *model.Product) {
	if p.Name == "" {
		p.Name = defaultProductName
	}
	if p.Description == "" {
		p.Description = defaultProductDescription
	}
	if p.Currency == "" {
		p.Currency = defaultCurrency
	}
	if p.CategoryID == 0 {
		p.CategoryID = defaultCategoryID
	}
	if p.ImageURL == nil {
		p.ImageURL = []string{}
	}
}

func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error) {
	product := &model.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Currency:      req.Currency,
		ImageURL:      req.ImageURL,
		Stock:         req.Stock,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		Discount:      req.Discount,
		NameRo:        req.NameRo,
		DescriptionRo: req.DescriptionRo,
	}
	applyProductDefaults(product)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, req dto.UpdateProductRequest) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Currency != nil {
		product.Currency = *req.Currency
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.SubCategoryID != nil {
		product.SubCategoryID = req.SubCategoryID
	}
	if req.Discount != nil {
		product.Discount = *req.Discount
	}
	if req.NameRo != nil {
		product.NameRo = req.NameRo
	}
	if req.DescriptionRo != nil {
		product.DescriptionRo = req.DescriptionRo
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	// Detail responses embed relations; strip them from the write path result.
	product.Category = nil
	product.SubCategory = nil
	product.Reviews = nil
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
