package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/moldcart/catalog-api/internal/model"
	"github.com/moldcart/catalog-api/internal/repository"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubCategoryNotFound = errors.New("subcategory not found")
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	category := &model.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Rename addresses the category by its current name; an unknown name is
// reported before any write happens.
func (s *CategoryService) Rename(ctx context.Context, name, newName string) (*model.Category, error) {
	category, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	if err := s.categoryRepo.Rename(ctx, category.ID, newName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("rename category: %w", err)
	}
	category.Name = newName
	return category, nil
}

// Delete removes the category addressed by name. Products referencing it are
// reassigned to the sentinel category in the same transaction as the delete.
func (s *CategoryService) Delete(ctx context.Context, name string) error {
	category, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	if err := s.categoryRepo.DeleteWithReassign(ctx, category.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *CategoryService) CreateSub(ctx context.Context, categoryID int64, name string) (*model.SubCategory, error) {
	sub := &model.SubCategory{Name: name, CategoryID: categoryID}
	if err := s.categoryRepo.CreateSub(ctx, sub); err != nil {
		return nil, fmt.Errorf("create subcategory: %w", err)
	}
	return sub, nil
}

func (s *CategoryService) ListSub(ctx context.Context, categoryID int64) ([]model.SubCategory, error) {
	subs, err := s.categoryRepo.ListSub(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	return subs, nil
}

func (s *CategoryService) UpdateSub(ctx context.Context, categoryID, subID int64, name string) (*model.SubCategory, error) {
	if err := s.categoryRepo.UpdateSub(ctx, categoryID, subID, name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubCategoryNotFound
		}
		return nil, fmt.Errorf("update subcategory: %w", err)
	}
	return &model.SubCategory{ID: subID, Name: name, CategoryID: categoryID}, nil
}

func (s *CategoryService) DeleteSub(ctx context.Context, categoryID, subID int64) error {
	if err := s.categoryRepo.DeleteSub(ctx, categoryID, subID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSubCategoryNotFound
		}
		return fmt.Errorf("delete subcategory: %w", err)
	}
	return nil
}
