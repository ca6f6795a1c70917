package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Todos son resultados esperados que el caller traduce a una respuesta; ninguno es fatal.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// Jerarquía de roles.
	ErrDuplicateSuperAdmin   = errors.New("ya existe un super admin en el sistema")
	ErrInsufficientPrivilege = errors.New("el rol del solicitante no permite la operación")
	ErrProtectedAccount      = errors.New("la cuenta super admin está protegida")
	ErrLastAdminGuard        = errors.New("el sistema debe conservar al menos un administrador")

	// Ledger de stock.
	ErrInsufficientQuantity = errors.New("stock insuficiente")
	ErrQuantityOverflow     = errors.New("la cantidad excede el máximo representable")
)

// ConflictError indica una violación de unicidad sobre un campo concreto (username, email, sku...).
// errors.Is(err, ErrConflict) es verdadero para cualquier ConflictError.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s ya está en uso", e.Field)
}

// Is permite comparar con ErrConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NewConflict construye un ConflictError para el campo indicado.
func NewConflict(field string) error {
	return &ConflictError{Field: field}
}
