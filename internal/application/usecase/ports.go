package usecase

import (
	"context"

	"github.com/jhoicas/inventario-admin/internal/domain/repository"
)

// AccountTxRunner ejecuta fn dentro de una transacción con el repositorio de cuentas atado a ella.
// Las decisiones de autorización que dependen de conteos (super admin existente, último admin)
// se evalúan con lecturas hechas dentro de fn.
type AccountTxRunner interface {
	RunAccounts(ctx context.Context, fn func(users repository.UserRepository) error) error
}

// PasswordHasher hashea y verifica contraseñas (implementado por pkg/password).
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}
