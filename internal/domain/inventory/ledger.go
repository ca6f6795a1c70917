// Package inventory contiene las reglas puras del ledger de stock: reabastecer, consumir,
// reemplazar y derivar el estado de stock bajo. Las funciones no mutan el registro recibido;
// devuelven una copia actualizada que el caller persiste en la misma transacción en la que
// leyó la fila (SELECT ... FOR UPDATE).
package inventory

import (
	"math"
	"time"

	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

// Restock suma amount a la existencia y marca la fecha de reabastecimiento.
// amount = 0 es legal (solo actualiza las fechas). Si la suma excede math.MaxInt64 devuelve
// ErrQuantityOverflow sin modificar nada.
func Restock(s entity.Stock, amount int64, now time.Time) (entity.Stock, error) {
	if amount < 0 {
		return s, domain.ErrInvalidInput
	}
	if s.Quantity > math.MaxInt64-amount {
		return s, domain.ErrQuantityOverflow
	}
	s.Quantity += amount
	restockAt := now
	s.LastRestockAt = &restockAt
	s.UpdatedAt = now
	return s, nil
}

// Consume descuenta amount de la existencia. Si no alcanza devuelve ErrInsufficientQuantity
// y el registro original queda intacto. amount == Quantity deja la existencia en 0.
// LastRestockAt no se toca.
func Consume(s entity.Stock, amount int64, now time.Time) (entity.Stock, error) {
	if amount < 0 {
		return s, domain.ErrInvalidInput
	}
	if s.Quantity < amount {
		return s, domain.ErrInsufficientQuantity
	}
	s.Quantity -= amount
	s.UpdatedAt = now
	return s, nil
}

// Replace sobrescribe cantidad y mínimo (corrección administrativa).
// No se exige relación entre ambos: minimum > quantity simplemente arranca en stock bajo.
func Replace(s entity.Stock, quantity, minimum int64, now time.Time) (entity.Stock, error) {
	if quantity < 0 || minimum < 0 {
		return s, domain.ErrInvalidInput
	}
	s.Quantity = quantity
	s.MinimumStock = minimum
	s.UpdatedAt = now
	return s, nil
}

// IsLowStock indica si la existencia está en o por debajo del mínimo (la igualdad cuenta como baja).
func IsLowStock(s entity.Stock) bool {
	return s.Quantity <= s.MinimumStock
}

// IsOutOfStock indica existencia en cero.
func IsOutOfStock(s entity.Stock) bool {
	return s.Quantity == 0
}
