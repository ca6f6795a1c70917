package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-admin/internal/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{domain.NewConflict("email"), fiber.StatusConflict, "CONFLICT"},
		{domain.ErrDuplicateSuperAdmin, fiber.StatusConflict, "DUPLICATE_SUPER_ADMIN"},
		{domain.ErrInsufficientPrivilege, fiber.StatusForbidden, "INSUFFICIENT_PRIVILEGE"},
		{domain.ErrProtectedAccount, fiber.StatusForbidden, "PROTECTED_ACCOUNT"},
		{domain.ErrLastAdminGuard, fiber.StatusConflict, "LAST_ADMIN"},
		{domain.ErrInsufficientQuantity, fiber.StatusConflict, "INSUFFICIENT_QUANTITY"},
		{domain.ErrQuantityOverflow, fiber.StatusUnprocessableEntity, "QUANTITY_OVERFLOW"},
		{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("stock: %w", domain.ErrInsufficientQuantity), fiber.StatusConflict, "INSUFFICIENT_QUANTITY"},
		{errors.New("conexión rechazada"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, body := mapError(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, body.Code, tc.err.Error())
	}
}

func TestMapError_NoFiltraDetalleInterno(t *testing.T) {
	_, body := mapError(errors.New("pq: password authentication failed"))
	assert.NotContains(t, body.Message, "password")
}
