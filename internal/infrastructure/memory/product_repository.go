package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepository)(nil)

// ProductRepository implementación en memoria de repository.ProductRepository.
type ProductRepository struct {
	sc scope
}

func (r *ProductRepository) Create(_ context.Context, product *entity.Product) error {
	return r.sc.write(func(st *state) error {
		for _, p := range st.products {
			if strings.EqualFold(p.SKU, product.SKU) {
				return domain.NewConflict("sku")
			}
		}
		if err := checkRefs(st, product); err != nil {
			return err
		}
		st.products[product.ID] = *product
		return nil
	})
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.sc.read(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *ProductRepository) ExistsBySKU(_ context.Context, sku string) (bool, error) {
	var found bool
	err := r.sc.read(func(st *state) error {
		for _, p := range st.products {
			if strings.EqualFold(p.SKU, sku) {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *ProductRepository) Update(_ context.Context, product *entity.Product) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.products[product.ID]; !ok {
			return domain.ErrNotFound
		}
		if err := checkRefs(st, product); err != nil {
			return err
		}
		st.products[product.ID] = *product
		return nil
	})
}

// Delete elimina el producto y su registro de stock (ON DELETE CASCADE en PostgreSQL).
func (r *ProductRepository) Delete(_ context.Context, id string) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.products, id)
		for sid, s := range st.stocks {
			if s.ProductID == id {
				delete(st.stocks, sid)
			}
		}
		return nil
	})
}

func (r *ProductRepository) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	name := strings.ToLower(strings.TrimSpace(filter.Name))
	err := r.sc.read(func(st *state) error {
		for _, p := range st.products {
			if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
				continue
			}
			if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
				continue
			}
			if filter.SupplierID != "" && p.SupplierID != filter.SupplierID {
				continue
			}
			p := p
			out = append(out, &p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// checkRefs emula las foreign keys de products.
func checkRefs(st *state, p *entity.Product) error {
	if _, ok := st.categories[p.CategoryID]; !ok {
		return domain.NewConflict("category_id")
	}
	if _, ok := st.suppliers[p.SupplierID]; !ok {
		return domain.NewConflict("supplier_id")
	}
	return nil
}
