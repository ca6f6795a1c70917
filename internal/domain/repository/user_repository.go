package repository

import (
	"context"

	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para cuentas (DIP).
// Las búsquedas por ID devuelven domain.ErrNotFound si la cuenta no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// CountByRole cuenta exacta, leída dentro de la transacción del caller.
	CountByRole(ctx context.Context, role entity.Role) (int, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	// List ordena por updated_at descendente.
	List(ctx context.Context) ([]*entity.User, error)
	ListByRole(ctx context.Context, role entity.Role) ([]*entity.User, error)
	// LockAccounts serializa las mutaciones de cuentas dentro de la transacción actual
	// (advisory lock transaccional); evita dos promociones concurrentes a SUPER_ADMIN.
	LockAccounts(ctx context.Context) error
}
