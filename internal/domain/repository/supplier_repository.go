package repository

import (
	"context"

	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier (DIP).
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	// Delete devuelve domain.ErrConflict si hay productos que lo referencian.
	Delete(ctx context.Context, id string) error
	// List filtra por nombre (contiene) si name no está vacío.
	List(ctx context.Context, name string) ([]*entity.Supplier, error)
}
