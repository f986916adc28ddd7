package dto

import "github.com/shopspring/decimal"

// SalesSummaryResponse resumen de ventas de un rango (facturas no anuladas).
type SalesSummaryResponse struct {
	TotalSales    decimal.Decimal `json:"total_sales"`
	InvoicesCount int             `json:"invoices_count"`
	AvgInvoice    decimal.Decimal `json:"avg_invoice"`
}

// TopProductResponse producto más vendido en un rango.
type TopProductResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Qty       decimal.Decimal `json:"qty"`
	Value     decimal.Decimal `json:"value"`
}

// ProfitResponse ganancia estimada sobre el costo de última compra.
type ProfitResponse struct {
	EstimatedProfit decimal.Decimal `json:"estimated_profit"`
	Revenue         decimal.Decimal `json:"revenue"`
	CostBasis       decimal.Decimal `json:"cost_basis"`
}

// LowStockAlertResponse producto activo en o bajo su umbral de alerta.
type LowStockAlertResponse struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	StockQty      decimal.Decimal `json:"stock_qty"`
	MinStockAlert decimal.Decimal `json:"min_stock_alert"`
}
