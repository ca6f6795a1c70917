package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository implementación en memoria de repository.UserRepository.
type UserRepository struct {
	sc scope
}

func (r *UserRepository) Create(_ context.Context, user *entity.User) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.users[user.ID]; ok {
			return domain.NewConflict("id")
		}
		for _, u := range st.users {
			if strings.EqualFold(u.Username, user.Username) {
				return domain.NewConflict("username")
			}
			if strings.EqualFold(u.Email, user.Email) {
				return domain.NewConflict("email")
			}
		}
		st.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.sc.read(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

// GetByIDForUpdate en memoria equivale a GetByID: la transacción ya tiene el store en exclusiva.
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	err := r.sc.read(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Username, username) {
				u := u
				out = &u
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return existsResult(err)
}

func (r *UserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	var found bool
	err := r.sc.read(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *UserRepository) CountByRole(_ context.Context, role entity.Role) (int, error) {
	var n int
	err := r.sc.read(func(st *state) error {
		for _, u := range st.users {
			if u.Role == role {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *UserRepository) Update(_ context.Context, user *entity.User) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.users[user.ID]; !ok {
			return domain.ErrNotFound
		}
		for id, u := range st.users {
			if id == user.ID {
				continue
			}
			if strings.EqualFold(u.Username, user.Username) {
				return domain.NewConflict("username")
			}
			if strings.EqualFold(u.Email, user.Email) {
				return domain.NewConflict("email")
			}
		}
		st.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.users, id)
		return nil
	})
}

func (r *UserRepository) List(_ context.Context) ([]*entity.User, error) {
	return r.list(func(entity.User) bool { return true })
}

func (r *UserRepository) ListByRole(_ context.Context, role entity.Role) ([]*entity.User, error) {
	return r.list(func(u entity.User) bool { return u.Role == role })
}

// LockAccounts no hace nada: las transacciones en memoria ya están serializadas.
func (r *UserRepository) LockAccounts(context.Context) error { return nil }

func (r *UserRepository) list(keep func(entity.User) bool) ([]*entity.User, error) {
	var out []*entity.User
	err := r.sc.read(func(st *state) error {
		for _, u := range st.users {
			if keep(u) {
				u := u
				out = append(out, &u)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, err
}

func existsResult(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
