package inventory

import "github.com/shopspring/decimal"

// StockValue valor de la existencia a precio de venta: Quantity * Price.
func StockValue(quantity int64, price decimal.Decimal) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return price.Mul(decimal.NewFromInt(quantity))
}

// Shortfall unidades que faltan para salir de stock bajo (quantity > minimum).
// Cero si el registro no está en stock bajo.
func Shortfall(quantity, minimum int64) int64 {
	if quantity > minimum {
		return 0
	}
	return minimum - quantity + 1
}
