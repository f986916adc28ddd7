package dto

import "github.com/shopspring/decimal"

// CartLineRequest línea de carrito para una venta. UnitPrice nulo usa el
// precio de catálogo; Discount es absoluto por línea.
type CartLineRequest struct {
	ProductID string           `json:"product_id"`
	Qty       decimal.Decimal  `json:"qty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Discount  *decimal.Decimal `json:"discount,omitempty"`
}

// CreateSaleRequest entrada de POST /api/sales.
// AllowManagerOverride llega ya autorizado (la UI verificó la clave del
// gerente); permite que la venta deje el stock en negativo.
type CreateSaleRequest struct {
	Items                []CartLineRequest `json:"items"`
	PaymentMethod        string            `json:"payment_method"`
	CustomerName         string            `json:"customer_name,omitempty"`
	Notes                string            `json:"notes,omitempty"`
	DeviceID             string            `json:"device_id,omitempty"`
	AllowManagerOverride bool              `json:"allow_manager_override,omitempty"`
}

// CancelInvoiceRequest entrada de POST /api/sales/:id/cancel.
type CancelInvoiceRequest struct {
	Reason string `json:"reason,omitempty"`
}

// InvoiceItemResponse línea de factura en respuestas.
type InvoiceItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Qty       decimal.Decimal `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// InvoiceResponse factura persistida con sus totales calculados.
type InvoiceResponse struct {
	ID                 string                `json:"id"`
	Number             string                `json:"number"`
	Datetime           string                `json:"datetime"` // RFC3339 UTC
	CashierUserID      string                `json:"cashier_user_id"`
	Subtotal           decimal.Decimal       `json:"subtotal"`
	TotalDiscount      decimal.Decimal       `json:"total_discount"`
	RoundingAdjustment decimal.Decimal       `json:"rounding_adjustment"`
	GrandTotal         decimal.Decimal       `json:"grand_total"`
	PaymentMethod      string                `json:"payment_method"`
	PaymentStatus      string                `json:"payment_status"`
	CustomerName       string                `json:"customer_name,omitempty"`
	IsCancelled        bool                  `json:"is_cancelled"`
	Items              []InvoiceItemResponse `json:"items"`
}

// PurchaseLineRequest línea de compra a proveedor.
type PurchaseLineRequest struct {
	ProductID string          `json:"product_id"`
	Qty       decimal.Decimal `json:"qty"`
	CostPrice decimal.Decimal `json:"cost_price"`
}

// CreatePurchaseRequest entrada de POST /api/purchases.
type CreatePurchaseRequest struct {
	SupplierName string                `json:"supplier_name"`
	Items        []PurchaseLineRequest `json:"items"`
	Notes        string                `json:"notes,omitempty"`
}

// PurchaseResponse compra persistida.
type PurchaseResponse struct {
	ID           string          `json:"id"`
	Number       string          `json:"number"`
	SupplierName string          `json:"supplier_name"`
	Datetime     string          `json:"datetime"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// ReturnLineRequest línea solicitada en una devolución.
type ReturnLineRequest struct {
	ProductID string          `json:"product_id"`
	Qty       decimal.Decimal `json:"qty"`
}

// CreateReturnRequest entrada de POST /api/returns.
type CreateReturnRequest struct {
	OriginalInvoiceID string              `json:"original_invoice_id"`
	Items             []ReturnLineRequest `json:"items"`
	Reason            string              `json:"reason"`
	Notes             string              `json:"notes,omitempty"`
}

// SalesReturnResponse devolución persistida.
type SalesReturnResponse struct {
	ID                string          `json:"id"`
	Number            string          `json:"number"`
	OriginalInvoiceID string          `json:"original_invoice_id"`
	Datetime          string          `json:"datetime"`
	TotalRefund       decimal.Decimal `json:"total_refund"`
	Reason            string          `json:"reason"`
}

// AdjustmentRequest entrada de POST /api/adjustments.
type AdjustmentRequest struct {
	ProductID string          `json:"product_id"`
	QtyChange decimal.Decimal `json:"qty_change"`
	Reason    string          `json:"reason"`
}

// MovementResponse registro del ledger tal como sale por la API.
type MovementResponse struct {
	ID            string          `json:"id"`
	Timestamp     string          `json:"timestamp"` // ISO-8601 UTC
	Type          string          `json:"type"`
	ProductID     string          `json:"product_id"`
	QtyChange     decimal.Decimal `json:"qty_change"`
	NewBalance    decimal.Decimal `json:"new_balance"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	UserID        string          `json:"user_id"`
	Notes         string          `json:"notes,omitempty"`
}
