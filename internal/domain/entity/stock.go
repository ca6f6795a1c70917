package entity

import "time"

// DefaultMinimumStock umbral por defecto para considerar un producto en stock bajo.
const DefaultMinimumStock int64 = 10

// Stock representa la existencia de un producto (exactamente un registro por producto).
// Quantity nunca es negativa; solo se modifica vía el ledger (domain/inventory).
type Stock struct {
	ID            string
	ProductID     string
	Quantity      int64
	MinimumStock  int64
	LastRestockAt *time.Time // nil si nunca se reabasteció
	UpdatedAt     time.Time
}
