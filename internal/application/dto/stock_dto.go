package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReplaceStockRequest body de PUT /api/stocks/:id (corrección administrativa).
type ReplaceStockRequest struct {
	Quantity     *int64 `json:"quantity" validate:"required,min=0"`
	MinimumStock *int64 `json:"minimum_stock" validate:"required,min=0"`
}

// StockResponse salida de un registro de stock con datos del producto.
type StockResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name,omitempty"`
	ProductSKU    string          `json:"product_sku,omitempty"`
	CategoryName  string          `json:"category_name,omitempty"`
	Quantity      int64           `json:"quantity"`
	MinimumStock  int64           `json:"minimum_stock"`
	LowStock      bool            `json:"low_stock"`
	OutOfStock    bool            `json:"out_of_stock"`
	StockValue    decimal.Decimal `json:"stock_value"`
	LastRestockAt *time.Time      `json:"last_restock_at,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// StockSummaryResponse totales del inventario.
type StockSummaryResponse struct {
	TotalItems      int `json:"total_items"`
	LowStockItems   int `json:"low_stock_items"`
	OutOfStockItems int `json:"out_of_stock_items"`
}

// LowStockEvent evento publicado cuando un consumo deja un producto en stock bajo.
type LowStockEvent struct {
	StockID      string    `json:"stock_id"`
	ProductID    string    `json:"product_id"`
	Quantity     int64     `json:"quantity"`
	MinimumStock int64     `json:"minimum_stock"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// LowStockReportRow fila del reporte PDF de stock bajo.
type LowStockReportRow struct {
	SKU          string
	ProductName  string
	CategoryName string
	Quantity     int64
	MinimumStock int64
	Shortfall    int64
	Price        decimal.Decimal
}
