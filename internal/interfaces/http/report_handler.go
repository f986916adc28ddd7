package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	"github.com/jhoicas/pos-ledger-api/internal/application/reports"
)

// ReportHandler reportes de ventas y alertas de stock (solo manager).
type ReportHandler struct {
	uc *reports.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// parseRange lee from/to del query. Por defecto: el día en curso (UTC).
func parseRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24*time.Hour - time.Nanosecond)

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, err
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, err
		}
		to = t
	}
	return from, to, nil
}

// SalesSummary godoc
// @Summary      Resumen de ventas del rango
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (RFC3339); default hoy 00:00 UTC"
// @Param        to    query  string  false  "Hasta (RFC3339); default fin del día"
// @Success      200  {object}  dto.SalesSummaryResponse
// @Router       /api/reports/sales-summary [get]
func (h *ReportHandler) SalesSummary(c *fiber.Ctx) error {
	from, to, err := parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from/to deben ser RFC3339"})
	}
	out, err := h.uc.SalesSummary(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TopProducts godoc
// @Summary      Productos más vendidos del rango
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Cantidad de productos (default 10)"
// @Success      200  {array}  dto.TopProductResponse
// @Router       /api/reports/top-products [get]
func (h *ReportHandler) TopProducts(c *fiber.Ctx) error {
	from, to, err := parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from/to deben ser RFC3339"})
	}
	out, err := h.uc.TopProducts(c.Context(), from, to, c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// EstimatedProfit godoc
// @Summary      Ganancia estimada del rango (ingreso menos costo de última compra)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProfitResponse
// @Router       /api/reports/profit [get]
func (h *ReportHandler) EstimatedProfit(c *fiber.Ctx) error {
	from, to, err := parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from/to deben ser RFC3339"})
	}
	out, err := h.uc.EstimatedProfit(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos activos en o bajo su umbral de alerta
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockAlertResponse
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStockAlerts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
