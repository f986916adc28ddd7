package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	appledger "github.com/jhoicas/pos-ledger-api/internal/application/ledger"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

// LedgerHandler expone el ledger de stock: consulta de movimientos por
// producto y ajustes manuales.
type LedgerHandler struct {
	engine *appledger.Engine
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(engine *appledger.Engine) *LedgerHandler {
	return &LedgerHandler{engine: engine}
}

// GetLedger godoc
// @Summary      Movimientos de stock de un producto
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del producto"
// @Param        from   query  string  false  "Desde (RFC3339)"
// @Param        to     query  string  false  "Hasta (RFC3339)"
// @Param        type   query  string  false  "Filtrar por tipo de movimiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *LedgerHandler) GetLedger(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()

	filter := repository.MovementFilter{
		Type:   c.Query("type"),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from debe ser RFC3339"})
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to debe ser RFC3339"})
		}
		filter.To = &t
	}

	movements, err := h.engine.GetLedger(c.Context(), c.Params("id"), filter)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajuste manual de stock (solo manager)
// @Description  Registra un movimiento ADJUSTMENT con motivo obligatorio.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "Producto, delta con signo y motivo"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/adjustments [post]
func (h *LedgerHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.engine.AdjustStock(c.Context(), appledger.AdjustmentInput{
		UserID:    GetUserID(c),
		ProductID: in.ProductID,
		QtyChange: in.QtyChange,
		Reason:    in.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "ajuste registrado"})
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		Timestamp:     m.Datetime.UTC().Format(time.RFC3339),
		Type:          m.Type,
		ProductID:     m.ProductID,
		QtyChange:     m.QtyChange,
		NewBalance:    m.NewBalance,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		UserID:        m.UserID,
		Notes:         m.Notes,
	}
}
