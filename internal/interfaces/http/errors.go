package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/domain"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// Orden relevante: los errores específicos antes que los genéricos.
var errorMappings = []errorMapping{
	{domain.ErrDuplicateSuperAdmin, fiber.StatusConflict, "DUPLICATE_SUPER_ADMIN"},
	{domain.ErrInsufficientPrivilege, fiber.StatusForbidden, "INSUFFICIENT_PRIVILEGE"},
	{domain.ErrProtectedAccount, fiber.StatusForbidden, "PROTECTED_ACCOUNT"},
	{domain.ErrLastAdminGuard, fiber.StatusConflict, "LAST_ADMIN"},
	{domain.ErrInsufficientQuantity, fiber.StatusConflict, "INSUFFICIENT_QUANTITY"},
	{domain.ErrQuantityOverflow, fiber.StatusUnprocessableEntity, "QUANTITY_OVERFLOW"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// writeError traduce un error de dominio a la respuesta HTTP. Lo no reconocido es 500.
func writeError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, dto.ErrorResponse{Code: m.code, Message: err.Error()}
		}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"}
}

// fiberErrorHandler respuesta uniforme para errores que escapan de los handlers (404 de ruta, panics recuperados).
func fiberErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}
	return writeError(c, err)
}
