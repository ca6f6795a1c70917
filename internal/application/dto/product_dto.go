package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto junto con su registro de stock.
// SKU vacío se genera automáticamente; MinimumStock nil usa el mínimo por defecto.
type CreateProductRequest struct {
	SKU             string          `json:"sku" validate:"omitempty,max=100"`
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	Description     string          `json:"description" validate:"max=1000"`
	Price           decimal.Decimal `json:"price"`
	CategoryID      string          `json:"category_id" validate:"required"`
	SupplierID      string          `json:"supplier_id" validate:"required"`
	InitialQuantity int64           `json:"initial_quantity" validate:"min=0"`
	MinimumStock    *int64          `json:"minimum_stock" validate:"omitempty,min=0"`
}

// UpdateProductRequest entrada para actualizar un producto (la existencia se modifica por /api/stocks).
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,min=1"`
	SupplierID  *string          `json:"supplier_id" validate:"omitempty,min=1"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   string          `json:"category_id"`
	SupplierID   string          `json:"supplier_id"`
	Quantity     *int64          `json:"quantity,omitempty"`
	MinimumStock *int64          `json:"minimum_stock,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListQuery filtros de GET /api/products.
type ProductListQuery struct {
	Name       string `query:"name"`
	CategoryID string `query:"category_id"`
	SupplierID string `query:"supplier_id"`
}
