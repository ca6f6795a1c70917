package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/application/inventory"
)

// StockHandler expone el ledger de stock.
type StockHandler struct {
	uc *inventory.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// List godoc
// @Summary      Listar stock
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.StockResponse]
// @Router       /api/stocks [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewListResponse(out))
}

// ListLowStock godoc
// @Summary      Productos en o bajo el mínimo
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.StockResponse]
// @Router       /api/stocks/low-stock [get]
func (h *StockHandler) ListLowStock(c *fiber.Ctx) error {
	out, err := h.uc.ListLowStock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewListResponse(out))
}

// ListOutOfStock godoc
// @Summary      Productos agotados
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.StockResponse]
// @Router       /api/stocks/out-of-stock [get]
func (h *StockHandler) ListOutOfStock(c *fiber.Ctx) error {
	out, err := h.uc.ListOutOfStock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewListResponse(out))
}

// Summary godoc
// @Summary      Totales del inventario
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockSummaryResponse
// @Router       /api/stocks/summary [get]
func (h *StockHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LowStockReport godoc
// @Summary      Reporte PDF de stock bajo
// @Tags         stocks
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/stocks/low-stock/report [get]
func (h *StockHandler) LowStockReport(c *fiber.Ctx) error {
	pdf, err := h.uc.LowStockReport(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock-bajo.pdf"`)
	return c.Send(pdf)
}

// GetByID godoc
// @Summary      Obtener registro de stock
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del stock"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stocks/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByProductID godoc
// @Summary      Stock de un producto
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stocks/product/{productId} [get]
func (h *StockHandler) GetByProductID(c *fiber.Ctx) error {
	out, err := h.uc.GetByProductID(c.UserContext(), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Add godoc
// @Summary      Reabastecer
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true  "ID del producto"
// @Param        quantity   query  int     true  "Unidades a sumar"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/stocks/product/{productId}/add [post]
func (h *StockHandler) Add(c *fiber.Ctx) error {
	qty, ok, err := quantityParam(c)
	if !ok {
		return err
	}
	out, err := h.uc.Restock(c.UserContext(), c.Params("productId"), qty)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reduce godoc
// @Summary      Consumir
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true  "ID del producto"
// @Param        quantity   query  int     true  "Unidades a descontar"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stocks/product/{productId}/reduce [post]
func (h *StockHandler) Reduce(c *fiber.Ctx) error {
	qty, ok, err := quantityParam(c)
	if !ok {
		return err
	}
	out, err := h.uc.Consume(c.UserContext(), c.Params("productId"), qty)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Replace godoc
// @Summary      Corregir cantidad y mínimo
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del stock"
// @Param        body  body  dto.ReplaceStockRequest  true  "quantity, minimum_stock"
// @Success      200   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stocks/{id} [put]
func (h *StockHandler) Replace(c *fiber.Ctx) error {
	var in dto.ReplaceStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Replace(c.UserContext(), c.Params("id"), *in.Quantity, *in.MinimumStock)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func quantityParam(c *fiber.Ctx) (int64, bool, error) {
	raw := c.Query("quantity")
	if raw == "" {
		return 0, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity es requerido"})
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser un entero"})
	}
	return n, true, nil
}
