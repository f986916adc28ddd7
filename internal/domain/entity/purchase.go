package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase representa la cabecera de una recepción de mercancía de proveedor.
type Purchase struct {
	ID               string
	Number           string
	SupplierName     string
	Datetime         time.Time
	ReceivedByUserID string
	TotalCost        decimal.Decimal
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PurchaseItem representa una línea de compra con cantidad y costo unitario.
type PurchaseItem struct {
	ID         string
	PurchaseID string
	ProductID  string
	Qty        decimal.Decimal
	CostPrice  decimal.Decimal
	LineTotal  decimal.Decimal // qty·cost_price
	CreatedAt  time.Time
}
