package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	"github.com/jhoicas/pos-ledger-api/internal/application/sales"
)

// POSHandler maneja el flujo de venta: crear, consultar, anular y el recibo PDF.
type POSHandler struct {
	saleUC    *sales.SaleUseCase
	receiptUC *sales.ReceiptUseCase
}

// NewPOSHandler construye el handler.
func NewPOSHandler(saleUC *sales.SaleUseCase, receiptUC *sales.ReceiptUseCase) *POSHandler {
	return &POSHandler{saleUC: saleUC, receiptUC: receiptUC}
}

// CreateSale godoc
// @Summary      Registrar una venta
// @Description  Crea la factura, descuenta stock vía ledger y asigna número
//
//	consecutivo, todo en una transacción.
//
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Líneas del carrito y método de pago"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *POSHandler) CreateSale(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.saleUC.CreateSale(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetInvoice godoc
// @Summary      Obtener una factura con sus líneas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *POSHandler) GetInvoice(c *fiber.Ctx) error {
	out, err := h.saleUC.GetInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CancelInvoice godoc
// @Summary      Anular una factura
// @Description  Marca la factura como anulada y restaura el stock con
//
//	movimientos ADJUSTMENT de compensación. Idempotente.
//
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.CancelInvoiceRequest  false  "Motivo de anulación"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *POSHandler) CancelInvoice(c *fiber.Ctx) error {
	var in dto.CancelInvoiceRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.saleUC.CancelInvoice(c.Context(), c.Params("id"), GetUserID(c), in.Reason); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "factura anulada"})
}

// GetReceiptPDF godoc
// @Summary      Recibo imprimible de una factura
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *POSHandler) GetReceiptPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.receiptUC.GenerateReceipt(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="recibo.pdf"`)
	return c.Send(pdfBytes)
}
