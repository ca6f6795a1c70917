package inventory_test

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/inventory"
)

var (
	t0 = time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
)

func newStock(qty, min int64) entity.Stock {
	return entity.Stock{ID: "s-1", ProductID: "p-1", Quantity: qty, MinimumStock: min, UpdatedAt: t0}
}

func TestRestock_SumaYMarcaFechas(t *testing.T) {
	s, err := inventory.Restock(newStock(3, 10), 7, t1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), s.Quantity)
	require.NotNil(t, s.LastRestockAt)
	assert.Equal(t, t1, *s.LastRestockAt)
	assert.Equal(t, t1, s.UpdatedAt)
}

func TestRestock_CeroEsLegal(t *testing.T) {
	s, err := inventory.Restock(newStock(5, 10), 0, t1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), s.Quantity)
	require.NotNil(t, s.LastRestockAt)
	assert.Equal(t, t1, s.UpdatedAt)
}

func TestRestock_NegativoRechazado(t *testing.T) {
	orig := newStock(5, 10)
	s, err := inventory.Restock(orig, -1, t1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, orig, s)
}

func TestRestock_Overflow(t *testing.T) {
	orig := newStock(math.MaxInt64-2, 10)
	s, err := inventory.Restock(orig, 3, t1)
	assert.ErrorIs(t, err, domain.ErrQuantityOverflow)
	assert.Equal(t, orig, s, "el registro no debe cambiar ante overflow")

	s, err = inventory.Restock(orig, 2, t1)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), s.Quantity)
}

func TestConsume_Boundaries(t *testing.T) {
	orig := newStock(8, 10)

	s, err := inventory.Consume(orig, 8, t1)
	require.NoError(t, err, "consumir exactamente la existencia es legal")
	assert.Equal(t, int64(0), s.Quantity)
	assert.Equal(t, t1, s.UpdatedAt)
	assert.Nil(t, s.LastRestockAt, "consumir no toca la fecha de reabastecimiento")

	s, err = inventory.Consume(orig, 9, t1)
	assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)
	assert.Equal(t, int64(8), s.Quantity)
	assert.Equal(t, t0, s.UpdatedAt)
}

func TestConsume_NoTocaLastRestock(t *testing.T) {
	s, err := inventory.Restock(newStock(0, 1), 4, t0)
	require.NoError(t, err)
	s, err = inventory.Consume(s, 1, t1)
	require.NoError(t, err)
	require.NotNil(t, s.LastRestockAt)
	assert.Equal(t, t0, *s.LastRestockAt)
	assert.Equal(t, t1, s.UpdatedAt)
}

func TestConsume_NegativoRechazado(t *testing.T) {
	_, err := inventory.Consume(newStock(5, 1), -3, t1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIsLowStock_Boundaries(t *testing.T) {
	assert.True(t, inventory.IsLowStock(newStock(10, 10)), "igual al mínimo es bajo")
	assert.False(t, inventory.IsLowStock(newStock(11, 10)), "mínimo + 1 no es bajo")
	assert.True(t, inventory.IsLowStock(newStock(0, 0)))
	assert.True(t, inventory.IsOutOfStock(newStock(0, 0)))
	assert.False(t, inventory.IsOutOfStock(newStock(1, 0)))
}

func TestReplace(t *testing.T) {
	s, err := inventory.Replace(newStock(50, 10), 2, 20, t1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.Quantity)
	assert.Equal(t, int64(20), s.MinimumStock)
	assert.True(t, inventory.IsLowStock(s), "minimum > quantity arranca en stock bajo")
	assert.Nil(t, s.LastRestockAt)

	_, err = inventory.Replace(newStock(50, 10), -1, 20, t1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = inventory.Replace(newStock(50, 10), 1, -20, t1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Escenario: {10,10} → restock(5) = 15 no bajo → consume(20) rechazado, sigue en 15.
func TestLedger_EscenarioRestockLuegoConsumoExcesivo(t *testing.T) {
	s := newStock(10, 10)
	require.True(t, inventory.IsLowStock(s))

	s, err := inventory.Restock(s, 5, t1)
	require.NoError(t, err)
	assert.Equal(t, int64(15), s.Quantity)
	assert.False(t, inventory.IsLowStock(s))

	after, err := inventory.Consume(s, 20, t1.Add(time.Minute))
	assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)
	assert.Equal(t, int64(15), after.Quantity)
	assert.Equal(t, s, after)
}

// Para cualquier secuencia de operaciones la existencia nunca es negativa y un consumo
// rechazado no deja mutaciones parciales.
func TestLedger_SecuenciasAleatoriasNuncaNegativas(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := newStock(0, 10)
	now := t0
	for i := 0; i < 5000; i++ {
		now = now.Add(time.Second)
		amount := rng.Int63n(40)
		before := s
		var err error
		switch rng.Intn(3) {
		case 0:
			s, err = inventory.Restock(s, amount, now)
			require.NoError(t, err)
			assert.Equal(t, before.Quantity+amount, s.Quantity)
		case 1:
			s, err = inventory.Consume(s, amount, now)
			if before.Quantity < amount {
				require.ErrorIs(t, err, domain.ErrInsufficientQuantity)
				require.Equal(t, before, s)
			} else {
				require.NoError(t, err)
				assert.Equal(t, before.Quantity-amount, s.Quantity)
			}
		case 2:
			s, err = inventory.Replace(s, amount, rng.Int63n(20), now)
			require.NoError(t, err)
		}
		require.GreaterOrEqual(t, s.Quantity, int64(0))
		assert.Equal(t, s.Quantity <= s.MinimumStock, inventory.IsLowStock(s))
	}
}

func TestStockValueYShortfall(t *testing.T) {
	price := decimal.RequireFromString("12500.50")
	assert.True(t, inventory.StockValue(4, price).Equal(decimal.RequireFromString("50002")))
	assert.True(t, inventory.StockValue(0, price).IsZero())

	assert.Equal(t, int64(0), inventory.Shortfall(11, 10))
	assert.Equal(t, int64(1), inventory.Shortfall(10, 10))
	assert.Equal(t, int64(11), inventory.Shortfall(0, 10))
}
