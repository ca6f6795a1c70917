package entity

import "time"

// Supplier representa un proveedor de productos.
type Supplier struct {
	ID          string
	Name        string
	Address     string
	PhoneNumber string
	Email       string // único
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
