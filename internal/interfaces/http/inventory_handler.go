package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/chemflo-api/internal/application/dto"
	"github.com/jhoicas/chemflo-api/internal/application/inventory"
	"github.com/jhoicas/chemflo-api/pkg/logger"
)

// InventoryHandler libro de stock: mutaciones, consultas y reporte (protegido).
type InventoryHandler struct {
	uc  *inventory.StockUseCase
	log *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.StockUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, log: log}
}

// UpdateStock godoc
// @Summary      Registrar entrada (IN) o salida (OUT) de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string                  true  "ID del producto"
// @Param        body       body  dto.UpdateStockRequest  true  "type, quantity, notes"
// @Success      201   {object}  dto.StockUpdateResponse
// @Failure      400   {object}  dto.ErrorResponse  "validación o stock insuficiente"
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId}/stock [post]
func (h *InventoryHandler) UpdateStock(c *fiber.Ctx) error {
	var in dto.UpdateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateStock(c.Context(), c.Params("productId"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByProductID godoc
// @Summary      Entrada del libro de stock de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.InventoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId} [get]
func (h *InventoryHandler) GetByProductID(c *fiber.Ctx) error {
	out, err := h.uc.GetByProductID(c.Context(), c.Params("productId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar libro de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        categoryId    query  string  false  "UUID de categoría"
// @Param        lowStockOnly  query  bool    false  "solo stock bajo"
// @Param        page          query  int     false  "página"
// @Param        limit         query  int     false  "tamaño de página"
// @Success      200  {object}  dto.InventoryListResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	q := dto.InventoryQuery{
		CategoryID:   c.Query("categoryId"),
		LowStockOnly: c.Query("lowStockOnly") == "true",
		PageRequest:  pageRequest(c),
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos (más reciente primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  query  string  false  "UUID del producto"
// @Param        type       query  string  false  "IN|OUT"
// @Param        startDate  query  string  false  "YYYY-MM-DD o RFC 3339"
// @Param        endDate    query  string  false  "YYYY-MM-DD (día completo) o RFC 3339"
// @Param        page       query  int     false  "página"
// @Param        limit      query  int     false  "tamaño de página (por defecto 20)"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	q := dto.MovementQuery{
		ProductID:   c.Query("productId"),
		Type:        c.Query("type"),
		StartDate:   c.Query("startDate"),
		EndDate:     c.Query("endDate"),
		PageRequest: pageRequest(c),
	}
	out, err := h.uc.ListMovements(c.Context(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Agregados del dashboard
// @Description  totalStockValue es la suma cruda de stock sin convertir unidades.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardStatsResponse
// @Router       /api/inventory/stats [get]
func (h *InventoryHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.GetStats(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliar stock contra el historial de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId}/reconcile [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.uc.Reconcile(c.Context(), c.Params("productId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ReportPDF godoc
// @Summary      Reporte de existencias en PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/report.pdf [get]
func (h *InventoryHandler) ReportPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.StockReportPDF(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}
