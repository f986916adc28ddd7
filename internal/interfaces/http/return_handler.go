package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	"github.com/jhoicas/pos-ledger-api/internal/application/returns"
)

// ReturnHandler maneja las devoluciones de venta (protegido).
type ReturnHandler struct {
	uc *returns.ReturnUseCase
}

// NewReturnHandler construye el handler.
func NewReturnHandler(uc *returns.ReturnUseCase) *ReturnHandler {
	return &ReturnHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar una devolución contra una factura
// @Description  Valida el cupo devolvible (vendido menos ya devuelto), abona
//
//	el reembolso al precio de venta original y restaura stock vía ledger.
//
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnRequest  true  "Factura original, líneas y motivo"
// @Success      201   {object}  dto.SalesReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *ReturnHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateSalesReturn(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
