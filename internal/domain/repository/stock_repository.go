package repository

import (
	"context"

	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockFilter filtros para listar/contar registros de stock.
type StockFilter struct {
	LowOnly        bool // quantity <= minimum_stock
	OutOfStockOnly bool // quantity = 0
}

// StockItem fila de stock unida con los datos del producto (para listados y reportes).
type StockItem struct {
	Stock        entity.Stock
	ProductName  string
	ProductSKU   string
	CategoryName string
	Price        decimal.Decimal
}

// StockRepository define el puerto para consultar/actualizar stock por producto.
// Las mutaciones se hacen dentro de transacciones tras GetFor...Update para garantizar consistencia.
type StockRepository interface {
	Create(ctx context.Context, stock *entity.Stock) error
	GetByID(ctx context.Context, id string) (*entity.Stock, error)
	GetByProductID(ctx context.Context, productID string) (*entity.Stock, error)
	// GetByIDForUpdate / GetByProductIDForUpdate bloquean la fila (SELECT FOR UPDATE).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Stock, error)
	GetByProductIDForUpdate(ctx context.Context, productID string) (*entity.Stock, error)
	Update(ctx context.Context, stock *entity.Stock) error
	DeleteByProductID(ctx context.Context, productID string) error
	List(ctx context.Context, filter StockFilter) ([]StockItem, error)
	Count(ctx context.Context, filter StockFilter) (int, error)
}
