package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/inventory"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepository)(nil)

// StockRepository implementación en memoria de repository.StockRepository.
type StockRepository struct {
	sc scope
}

func (r *StockRepository) Create(_ context.Context, stock *entity.Stock) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.products[stock.ProductID]; !ok {
			return domain.NewConflict("product_id")
		}
		for _, s := range st.stocks {
			if s.ProductID == stock.ProductID {
				return domain.NewConflict("product_id")
			}
		}
		st.stocks[stock.ID] = *stock
		return nil
	})
}

func (r *StockRepository) GetByID(_ context.Context, id string) (*entity.Stock, error) {
	var out *entity.Stock
	err := r.sc.read(func(st *state) error {
		s, ok := st.stocks[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &s
		return nil
	})
	return out, err
}

func (r *StockRepository) GetByProductID(_ context.Context, productID string) (*entity.Stock, error) {
	var out *entity.Stock
	err := r.sc.read(func(st *state) error {
		for _, s := range st.stocks {
			if s.ProductID == productID {
				s := s
				out = &s
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *StockRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Stock, error) {
	return r.GetByID(ctx, id)
}

func (r *StockRepository) GetByProductIDForUpdate(ctx context.Context, productID string) (*entity.Stock, error) {
	return r.GetByProductID(ctx, productID)
}

func (r *StockRepository) Update(_ context.Context, stock *entity.Stock) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.stocks[stock.ID]; !ok {
			return domain.ErrNotFound
		}
		st.stocks[stock.ID] = *stock
		return nil
	})
}

func (r *StockRepository) DeleteByProductID(_ context.Context, productID string) error {
	return r.sc.write(func(st *state) error {
		for id, s := range st.stocks {
			if s.ProductID == productID {
				delete(st.stocks, id)
			}
		}
		return nil
	})
}

func (r *StockRepository) List(_ context.Context, filter repository.StockFilter) ([]repository.StockItem, error) {
	var out []repository.StockItem
	err := r.sc.read(func(st *state) error {
		for _, s := range st.stocks {
			if !matches(s, filter) {
				continue
			}
			item := repository.StockItem{Stock: s}
			if p, ok := st.products[s.ProductID]; ok {
				item.ProductName = p.Name
				item.ProductSKU = p.SKU
				item.Price = p.Price
				if c, ok := st.categories[p.CategoryID]; ok {
					item.CategoryName = c.Name
				}
			}
			out = append(out, item)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductName == out[j].ProductName {
			return out[i].Stock.ID < out[j].Stock.ID
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out, err
}

func (r *StockRepository) Count(_ context.Context, filter repository.StockFilter) (int, error) {
	var n int
	err := r.sc.read(func(st *state) error {
		for _, s := range st.stocks {
			if matches(s, filter) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func matches(s entity.Stock, f repository.StockFilter) bool {
	if f.LowOnly && !inventory.IsLowStock(s) {
		return false
	}
	if f.OutOfStockOnly && !inventory.IsOutOfStock(s) {
		return false
	}
	return true
}
