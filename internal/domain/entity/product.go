package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario. Su existencia vive en Stock (relación 1:1).
type Product struct {
	ID          string
	SKU         string // código único; se genera PRD-<millis> si llega vacío
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  string
	SupplierID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
