package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepository)(nil)

// SupplierRepository implementación en memoria de repository.SupplierRepository.
type SupplierRepository struct {
	sc scope
}

func (r *SupplierRepository) Create(_ context.Context, supplier *entity.Supplier) error {
	return r.sc.write(func(st *state) error {
		for _, s := range st.suppliers {
			if strings.EqualFold(s.Email, supplier.Email) {
				return domain.NewConflict("email")
			}
		}
		st.suppliers[supplier.ID] = *supplier
		return nil
	})
}

func (r *SupplierRepository) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.sc.read(func(st *state) error {
		s, ok := st.suppliers[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &s
		return nil
	})
	return out, err
}

func (r *SupplierRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	var found bool
	err := r.sc.read(func(st *state) error {
		for _, s := range st.suppliers {
			if strings.EqualFold(s.Email, email) {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *SupplierRepository) Update(_ context.Context, supplier *entity.Supplier) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.suppliers[supplier.ID]; !ok {
			return domain.ErrNotFound
		}
		for id, s := range st.suppliers {
			if id != supplier.ID && strings.EqualFold(s.Email, supplier.Email) {
				return domain.NewConflict("email")
			}
		}
		st.suppliers[supplier.ID] = *supplier
		return nil
	})
}

func (r *SupplierRepository) Delete(_ context.Context, id string) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.suppliers[id]; !ok {
			return domain.ErrNotFound
		}
		for _, p := range st.products {
			if p.SupplierID == id {
				return domain.NewConflict("supplier")
			}
		}
		delete(st.suppliers, id)
		return nil
	})
}

func (r *SupplierRepository) List(_ context.Context, name string) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	needle := strings.ToLower(strings.TrimSpace(name))
	err := r.sc.read(func(st *state) error {
		for _, s := range st.suppliers {
			if needle != "" && !strings.Contains(strings.ToLower(s.Name), needle) {
				continue
			}
			s := s
			out = append(out, &s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}
