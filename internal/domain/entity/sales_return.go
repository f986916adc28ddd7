package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesReturn representa la cabecera de una devolución contra una factura original.
type SalesReturn struct {
	ID                string
	Number            string
	OriginalInvoiceID string
	Datetime          time.Time
	ProcessedByUserID string
	TotalRefund       decimal.Decimal
	Reason            string
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SalesReturnItem representa una línea devuelta, valorada al precio unitario
// de la venta original (no al precio de catálogo vigente).
type SalesReturnItem struct {
	ID            string
	SalesReturnID string
	ProductID     string
	Qty           decimal.Decimal
	UnitPrice     decimal.Decimal
	Discount      decimal.Decimal
	LineTotal     decimal.Decimal
	CreatedAt     time.Time
}
