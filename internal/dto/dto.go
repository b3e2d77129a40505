package dto

import (
	"github.com/shopspring/decimal"
)

// --- Auth ---

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// --- Product ---

// CreateProductRequest carries no required fields: absent values fall back to
// the catalog defaults (name "No name", price "0", currency "MDL", category 1).
type CreateProductRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	ImageURL      []string        `json:"imageUrl"`
	Stock         int             `json:"stock"`
	CategoryID    int64           `json:"categoryId"`
	SubCategoryID *int64          `json:"subCategoryId"`
	Discount      float64         `json:"discount"`
	NameRo        *string         `json:"nameRo"`
	DescriptionRo *string         `json:"descriptionRo"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	Currency      *string          `json:"currency"`
	ImageURL      []string         `json:"imageUrl"`
	Stock         *int             `json:"stock"`
	CategoryID    *int64           `json:"categoryId"`
	SubCategoryID *int64           `json:"subCategoryId"`
	Discount      *float64         `json:"discount"`
	NameRo        *string          `json:"nameRo"`
	DescriptionRo *string          `json:"descriptionRo"`
}

// --- Category ---

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameCategoryRequest addresses the category by its current name.
type RenameCategoryRequest struct {
	Name    string `json:"name" binding:"required"`
	NewName string `json:"newName" binding:"required"`
}

type DeleteCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type SubCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// --- Order ---

type CreateOrderRequest struct {
	Address    string             `json:"address" binding:"required"`
	OrderItems []OrderItemRequest `json:"orderItems" binding:"required,min=1,dive"`
}

type OrderItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- Import ---

type ImportResponse struct {
	Imported int `json:"imported"`
}
