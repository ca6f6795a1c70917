package inventory

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/inventory"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
	"github.com/jhoicas/inventario-admin/pkg/logger"
)

// StockUseCase opera el ledger de stock. Cada mutación bloquea la fila (SELECT FOR UPDATE),
// aplica la regla pura del ledger y persiste en la misma transacción: si la regla rechaza,
// no se escribe nada.
type StockUseCase struct {
	tx       TxRunner
	stocks   repository.StockRepository
	products repository.ProductRepository
	notifier LowStockNotifier
	report   ReportGenerator
	log      *logger.Logger
	now      func() time.Time
}

// NewStockUseCase construye el caso de uso. notifier nil equivale a NopNotifier.
func NewStockUseCase(
	tx TxRunner,
	stocks repository.StockRepository,
	products repository.ProductRepository,
	notifier LowStockNotifier,
	report ReportGenerator,
	log *logger.Logger,
) *StockUseCase {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StockUseCase{
		tx:       tx,
		stocks:   stocks,
		products: products,
		notifier: notifier,
		report:   report,
		log:      log,
		now:      time.Now,
	}
}

// Restock suma amount a la existencia del producto.
func (uc *StockUseCase) Restock(ctx context.Context, productID string, amount int64) (*dto.StockResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.mutateByProduct(ctx, productID, func(s entity.Stock, now time.Time) (entity.Stock, error) {
		return inventory.Restock(s, amount, now)
	})
}

// Consume descuenta amount de la existencia del producto. Si tras el commit el producto
// queda en stock bajo se notifica (best effort).
func (uc *StockUseCase) Consume(ctx context.Context, productID string, amount int64) (*dto.StockResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	resp, err := uc.mutateByProduct(ctx, productID, func(s entity.Stock, now time.Time) (entity.Stock, error) {
		return inventory.Consume(s, amount, now)
	})
	if err != nil {
		return nil, err
	}
	if resp.LowStock {
		ev := dto.LowStockEvent{
			StockID:      resp.ID,
			ProductID:    resp.ProductID,
			Quantity:     resp.Quantity,
			MinimumStock: resp.MinimumStock,
			OccurredAt:   resp.UpdatedAt,
		}
		if err := uc.notifier.NotifyLowStock(ctx, ev); err != nil {
			uc.log.Warn().Err(err).Str("product_id", productID).Msg("no se pudo notificar stock bajo")
		}
	}
	return resp, nil
}

// Replace sobrescribe cantidad y mínimo de un registro de stock (corrección administrativa).
func (uc *StockUseCase) Replace(ctx context.Context, stockID string, quantity, minimum int64) (*dto.StockResponse, error) {
	if stockID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.StockResponse
	err := uc.tx.Run(ctx, func(stockRepo repository.StockRepository, productRepo repository.ProductRepository) error {
		s, err := stockRepo.GetByIDForUpdate(ctx, stockID)
		if err != nil {
			return err
		}
		updated, err := inventory.Replace(*s, quantity, minimum, uc.now())
		if err != nil {
			return err
		}
		if err := stockRepo.Update(ctx, &updated); err != nil {
			return err
		}
		out, err = withProduct(ctx, productRepo, updated)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *StockUseCase) mutateByProduct(
	ctx context.Context,
	productID string,
	apply func(entity.Stock, time.Time) (entity.Stock, error),
) (*dto.StockResponse, error) {
	var out *dto.StockResponse
	err := uc.tx.Run(ctx, func(stockRepo repository.StockRepository, productRepo repository.ProductRepository) error {
		s, err := stockRepo.GetByProductIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		updated, err := apply(*s, uc.now())
		if err != nil {
			return err
		}
		if err := stockRepo.Update(ctx, &updated); err != nil {
			return err
		}
		out, err = withProduct(ctx, productRepo, updated)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID obtiene un registro de stock por su ID.
func (uc *StockUseCase) GetByID(ctx context.Context, id string) (*dto.StockResponse, error) {
	s, err := uc.stocks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return withProduct(ctx, uc.products, *s)
}

// GetByProductID obtiene el registro de stock de un producto.
func (uc *StockUseCase) GetByProductID(ctx context.Context, productID string) (*dto.StockResponse, error) {
	s, err := uc.stocks.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return withProduct(ctx, uc.products, *s)
}

// List devuelve todos los registros de stock.
func (uc *StockUseCase) List(ctx context.Context) ([]dto.StockResponse, error) {
	return uc.list(ctx, repository.StockFilter{})
}

// ListLowStock devuelve los registros con quantity <= minimum_stock.
func (uc *StockUseCase) ListLowStock(ctx context.Context) ([]dto.StockResponse, error) {
	return uc.list(ctx, repository.StockFilter{LowOnly: true})
}

// ListOutOfStock devuelve los registros con quantity = 0.
func (uc *StockUseCase) ListOutOfStock(ctx context.Context) ([]dto.StockResponse, error) {
	return uc.list(ctx, repository.StockFilter{OutOfStockOnly: true})
}

// Summary cuenta total, bajo y agotado en paralelo.
func (uc *StockUseCase) Summary(ctx context.Context) (*dto.StockSummaryResponse, error) {
	var out dto.StockSummaryResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := uc.stocks.Count(gctx, repository.StockFilter{})
		out.TotalItems = n
		return err
	})
	g.Go(func() error {
		n, err := uc.stocks.Count(gctx, repository.StockFilter{LowOnly: true})
		out.LowStockItems = n
		return err
	})
	g.Go(func() error {
		n, err := uc.stocks.Count(gctx, repository.StockFilter{OutOfStockOnly: true})
		out.OutOfStockItems = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// LowStockReport genera el PDF con los productos en stock bajo y las unidades faltantes.
func (uc *StockUseCase) LowStockReport(ctx context.Context) ([]byte, error) {
	if uc.report == nil {
		return nil, errors.New("inventory: generador de reportes no configurado")
	}
	items, err := uc.stocks.List(ctx, repository.StockFilter{LowOnly: true})
	if err != nil {
		return nil, err
	}
	rows := make([]dto.LowStockReportRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, dto.LowStockReportRow{
			SKU:          it.ProductSKU,
			ProductName:  it.ProductName,
			CategoryName: it.CategoryName,
			Quantity:     it.Stock.Quantity,
			MinimumStock: it.Stock.MinimumStock,
			Shortfall:    inventory.Shortfall(it.Stock.Quantity, it.Stock.MinimumStock),
			Price:        it.Price,
		})
	}
	return uc.report.LowStockReport(rows, uc.now())
}

func (uc *StockUseCase) list(ctx context.Context, f repository.StockFilter) ([]dto.StockResponse, error) {
	items, err := uc.stocks.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ToStockResponse(it))
	}
	return out, nil
}

func withProduct(ctx context.Context, productRepo repository.ProductRepository, s entity.Stock) (*dto.StockResponse, error) {
	item := repository.StockItem{Stock: s}
	p, err := productRepo.GetByID(ctx, s.ProductID)
	switch {
	case err == nil:
		item.ProductName = p.Name
		item.ProductSKU = p.SKU
		item.Price = p.Price
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	resp := ToStockResponse(item)
	return &resp, nil
}

// ToStockResponse mapea un StockItem a su DTO con los estados derivados.
func ToStockResponse(it repository.StockItem) dto.StockResponse {
	s := it.Stock
	return dto.StockResponse{
		ID:            s.ID,
		ProductID:     s.ProductID,
		ProductName:   it.ProductName,
		ProductSKU:    it.ProductSKU,
		CategoryName:  it.CategoryName,
		Quantity:      s.Quantity,
		MinimumStock:  s.MinimumStock,
		LowStock:      inventory.IsLowStock(s),
		OutOfStock:    inventory.IsOutOfStock(s),
		StockValue:    inventory.StockValue(s.Quantity, it.Price),
		LastRestockAt: s.LastRestockAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
