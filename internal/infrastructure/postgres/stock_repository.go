package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `s.id, s.product_id, s.quantity, s.minimum_stock, s.last_restock_at, s.updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Create inserta el registro de stock de un producto (uno por producto).
func (r *StockRepo) Create(ctx context.Context, stock *entity.Stock) error {
	query := `
		INSERT INTO stocks (id, product_id, quantity, minimum_stock, last_restock_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		stock.ID, stock.ProductID, stock.Quantity, stock.MinimumStock, stock.LastRestockAt, stock.UpdatedAt,
	)
	if err != nil {
		if mapped := mapWriteErr(err, "product_id"); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// GetByID obtiene un registro de stock por ID.
func (r *StockRepo) GetByID(ctx context.Context, id string) (*entity.Stock, error) {
	return r.getOne(ctx, `SELECT `+stockColumns+` FROM stocks s WHERE s.id = $1`, id)
}

// GetByProductID obtiene el registro de stock de un producto.
func (r *StockRepo) GetByProductID(ctx context.Context, productID string) (*entity.Stock, error) {
	return r.getOne(ctx, `SELECT `+stockColumns+` FROM stocks s WHERE s.product_id = $1`, productID)
}

// GetByIDForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Stock, error) {
	return r.getOne(ctx, `SELECT `+stockColumns+` FROM stocks s WHERE s.id = $1 FOR UPDATE`, id)
}

// GetByProductIDForUpdate bloquea la fila del producto para serializar restock/consume.
func (r *StockRepo) GetByProductIDForUpdate(ctx context.Context, productID string) (*entity.Stock, error) {
	return r.getOne(ctx, `SELECT `+stockColumns+` FROM stocks s WHERE s.product_id = $1 FOR UPDATE`, productID)
}

// Update persiste cantidad, mínimo y fechas.
func (r *StockRepo) Update(ctx context.Context, stock *entity.Stock) error {
	query := `
		UPDATE stocks SET quantity = $2, minimum_stock = $3, last_restock_at = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, stock.ID, stock.Quantity, stock.MinimumStock, stock.LastRestockAt, stock.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return requireAffected(tag)
}

// DeleteByProductID elimina el registro de stock del producto (no falla si no existe).
func (r *StockRepo) DeleteByProductID(ctx context.Context, productID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stocks WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	return nil
}

// List devuelve el stock unido con producto y categoría, ordenado por nombre de producto.
func (r *StockRepo) List(ctx context.Context, filter repository.StockFilter) ([]repository.StockItem, error) {
	query := `
		SELECT ` + stockColumns + `, p.name, p.sku, COALESCE(c.name, ''), p.price
		FROM stocks s
		JOIN products p ON p.id = s.product_id
		LEFT JOIN categories c ON c.id = p.category_id` + stockWhere(filter) + `
		ORDER BY p.name, s.id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var out []repository.StockItem
	for rows.Next() {
		var it repository.StockItem
		s := &it.Stock
		if err := rows.Scan(
			&s.ID, &s.ProductID, &s.Quantity, &s.MinimumStock, &s.LastRestockAt, &s.UpdatedAt,
			&it.ProductName, &it.ProductSKU, &it.CategoryName, &it.Price,
		); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Count cuenta registros con el filtro dado.
func (r *StockRepo) Count(ctx context.Context, filter repository.StockFilter) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM stocks s`+stockWhere(filter)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stock: %w", err)
	}
	return n, nil
}

func (r *StockRepo) getOne(ctx context.Context, query, arg string) (*entity.Stock, error) {
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&s.ID, &s.ProductID, &s.Quantity, &s.MinimumStock, &s.LastRestockAt, &s.UpdatedAt,
	)
	if err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// stockWhere arma el WHERE a partir de filtros fijos (sin parámetros del usuario).
func stockWhere(f repository.StockFilter) string {
	var conds []string
	if f.LowOnly {
		conds = append(conds, "s.quantity <= s.minimum_stock")
	}
	if f.OutOfStockOnly {
		conds = append(conds, "s.quantity = 0")
	}
	if len(conds) == 0 {
		return ""
	}
	return "\n\t\tWHERE " + strings.Join(conds, " AND ")
}
