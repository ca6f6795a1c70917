package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el ledger de stock y el alta de productos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// LowStockNotifier recibe el aviso de que un consumo dejó un producto en stock bajo.
// Se invoca después del commit; un error no revierte el consumo.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, event dto.LowStockEvent) error
}

// ReportGenerator genera el PDF de productos en stock bajo.
type ReportGenerator interface {
	LowStockReport(rows []dto.LowStockReportRow, generatedAt time.Time) ([]byte, error)
}

// NopNotifier descarta los avisos (sin broker configurado).
type NopNotifier struct{}

// NotifyLowStock no hace nada.
func (NopNotifier) NotifyLowStock(context.Context, dto.LowStockEvent) error { return nil }
