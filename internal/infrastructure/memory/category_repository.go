package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository implementación en memoria de repository.CategoryRepository.
type CategoryRepository struct {
	sc scope
}

func (r *CategoryRepository) Create(_ context.Context, category *entity.Category) error {
	return r.sc.write(func(st *state) error {
		for _, c := range st.categories {
			if strings.EqualFold(c.Name, category.Name) {
				return domain.NewConflict("name")
			}
		}
		st.categories[category.ID] = *category
		return nil
	})
}

func (r *CategoryRepository) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.sc.read(func(st *state) error {
		c, ok := st.categories[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *CategoryRepository) ExistsByName(_ context.Context, name string) (bool, error) {
	var found bool
	err := r.sc.read(func(st *state) error {
		for _, c := range st.categories {
			if strings.EqualFold(c.Name, name) {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *CategoryRepository) Update(_ context.Context, category *entity.Category) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.categories[category.ID]; !ok {
			return domain.ErrNotFound
		}
		for id, c := range st.categories {
			if id != category.ID && strings.EqualFold(c.Name, category.Name) {
				return domain.NewConflict("name")
			}
		}
		st.categories[category.ID] = *category
		return nil
	})
}

func (r *CategoryRepository) Delete(_ context.Context, id string) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.categories[id]; !ok {
			return domain.ErrNotFound
		}
		for _, p := range st.products {
			if p.CategoryID == id {
				return domain.NewConflict("category")
			}
		}
		delete(st.categories, id)
		return nil
	})
}

func (r *CategoryRepository) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.sc.read(func(st *state) error {
		for _, c := range st.categories {
			c := c
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}
