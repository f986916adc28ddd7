package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos y estados de pago.
const (
	PaymentMethodCASH   = "CASH"
	PaymentMethodCREDIT = "CREDIT"

	PaymentStatusPAID   = "PAID"
	PaymentStatusUNPAID = "UNPAID"
)

// Invoice representa la cabecera de una factura de venta.
// Inmutable una vez creada salvo los campos de anulación
// (única transición de estado: creada → anulada, terminal).
type Invoice struct {
	ID                 string
	Number             string
	Datetime           time.Time
	CashierUserID      string
	Subtotal           decimal.Decimal
	TotalDiscount      decimal.Decimal
	RoundingAdjustment decimal.Decimal // grand_total − total antes de redondeo
	GrandTotal         decimal.Decimal
	PaymentMethod      string
	PaymentStatus      string
	CustomerName       string
	Notes              string
	IsCancelled        bool
	CancelledByUserID  string
	CancelledAt        *time.Time
	DeviceID           string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// InvoiceItem representa una línea de una factura.
type InvoiceItem struct {
	ID        string
	InvoiceID string
	ProductID string
	Qty       decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal // descuento absoluto por línea, ya saneado (≥ 0)
	LineTotal decimal.Decimal // max(0, qty·unit_price − discount)
	CreatedAt time.Time
}
