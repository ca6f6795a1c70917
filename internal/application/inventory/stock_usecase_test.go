package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/application/inventory"
	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-admin/pkg/logger"
)

var ctx = context.Background()

type recordingNotifier struct {
	mu     sync.Mutex
	events []dto.LowStockEvent
	err    error
}

func (n *recordingNotifier) NotifyLowStock(_ context.Context, ev dto.LowStockEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return n.err
}

type fakeReport struct {
	rows []dto.LowStockReportRow
}

func (f *fakeReport) LowStockReport(rows []dto.LowStockReportRow, _ time.Time) ([]byte, error) {
	f.rows = rows
	return []byte("%PDF-fake"), nil
}

type fixture struct {
	store    *memory.Store
	uc       *inventory.StockUseCase
	notifier *recordingNotifier
	report   *fakeReport
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	n := &recordingNotifier{}
	r := &fakeReport{}
	uc := inventory.NewStockUseCase(store, store.Stocks(), store.Products(), n, r, logger.Nop())
	return &fixture{store: store, uc: uc, notifier: n, report: r}
}

// seedProduct crea categoría, proveedor, producto y su stock.
func (f *fixture) seedProduct(t *testing.T, sku string, qty, minimum int64) entity.Stock {
	t.Helper()
	now := time.Now()
	catID, supID := "cat-"+sku, "sup-"+sku
	require.NoError(t, f.store.Categories().Create(ctx, &entity.Category{ID: catID, Name: "Cat " + sku, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, f.store.Suppliers().Create(ctx, &entity.Supplier{ID: supID, Name: "Sup", Email: sku + "@prov.com", CreatedAt: now, UpdatedAt: now}))
	p := &entity.Product{ID: "p-" + sku, SKU: sku, Name: "Producto " + sku, Price: decimal.NewFromInt(1000), CategoryID: catID, SupplierID: supID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.store.Products().Create(ctx, p))
	s := entity.Stock{ID: "s-" + sku, ProductID: p.ID, Quantity: qty, MinimumStock: minimum, UpdatedAt: now}
	require.NoError(t, f.store.Stocks().Create(ctx, &s))
	return s
}

func TestStock_RestockLuegoConsumoExcesivo(t *testing.T) {
	f := newFixture(t)
	s := f.seedProduct(t, "A", 10, 10)

	got, err := f.uc.Restock(ctx, s.ProductID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), got.Quantity)
	assert.False(t, got.LowStock)
	assert.NotNil(t, got.LastRestockAt)
	assert.Equal(t, "Producto A", got.ProductName)
	assert.True(t, got.StockValue.Equal(decimal.NewFromInt(15000)))

	_, err = f.uc.Consume(ctx, s.ProductID, 20)
	assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)

	after, err := f.uc.GetByProductID(ctx, s.ProductID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), after.Quantity)
	assert.Empty(t, f.notifier.events)
}

func TestStock_ConsumoQueDejaBajoNotifica(t *testing.T) {
	f := newFixture(t)
	s := f.seedProduct(t, "B", 12, 10)

	got, err := f.uc.Consume(ctx, s.ProductID, 1)
	require.NoError(t, err)
	assert.False(t, got.LowStock)
	assert.Empty(t, f.notifier.events)

	got, err = f.uc.Consume(ctx, s.ProductID, 1)
	require.NoError(t, err)
	assert.True(t, got.LowStock, "igual al mínimo es bajo")
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, int64(10), f.notifier.events[0].Quantity)
	assert.Equal(t, s.ProductID, f.notifier.events[0].ProductID)
}

func TestStock_FalloDelNotificadorNoRevierte(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("broker caído")
	s := f.seedProduct(t, "C", 5, 10)

	got, err := f.uc.Consume(ctx, s.ProductID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Quantity)
	assert.True(t, got.OutOfStock)

	stored, err := f.store.Stocks().GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.Quantity)
}

func TestStock_ConsumosConcurrentesNuncaNegativos(t *testing.T) {
	f := newFixture(t)
	s := f.seedProduct(t, "D", 50, 0)

	var wg sync.WaitGroup
	var mu sync.Mutex
	okCount := 0
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.uc.Consume(ctx, s.ProductID, 3); err == nil {
				mu.Lock()
				okCount++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)
			}
		}()
	}
	wg.Wait()

	stored, err := f.store.Stocks().GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 16, okCount)
	assert.Equal(t, int64(2), stored.Quantity)
}

func TestStock_ReplaceYValidaciones(t *testing.T) {
	f := newFixture(t)
	s := f.seedProduct(t, "E", 50, 10)

	got, err := f.uc.Replace(ctx, s.ID, 3, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Quantity)
	assert.Equal(t, int64(20), got.MinimumStock)
	assert.True(t, got.LowStock)

	_, err = f.uc.Replace(ctx, s.ID, -1, 20)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.Restock(ctx, s.ProductID, -5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.Replace(ctx, "nope", 1, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.Consume(ctx, "nope", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStock_ListadosYResumen(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "F1", 0, 5)   // agotado y bajo
	f.seedProduct(t, "F2", 5, 5)   // bajo
	f.seedProduct(t, "F3", 100, 5) // normal

	all, err := f.uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "Cat F1", all[0].CategoryName)

	low, err := f.uc.ListLowStock(ctx)
	require.NoError(t, err)
	assert.Len(t, low, 2)

	out, err := f.uc.ListOutOfStock(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "p-F1", out[0].ProductID)

	sum, err := f.uc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.StockSummaryResponse{TotalItems: 3, LowStockItems: 2, OutOfStockItems: 1}, *sum)
}

func TestStock_LowStockReport(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "G1", 2, 5)
	f.seedProduct(t, "G2", 50, 5)

	pdf, err := f.uc.LowStockReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(pdf))
	require.Len(t, f.report.rows, 1)
	assert.Equal(t, "G1", f.report.rows[0].SKU)
	assert.Equal(t, int64(4), f.report.rows[0].Shortfall)
}
