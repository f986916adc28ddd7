package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Umbral de alerta de stock por defecto cuando el producto no define uno.
const DefaultMinStockAlert = 5

// Product representa un producto del catálogo de la tienda.
// StockQty solo se muta a través del motor de ledger (movimientos con saldo
// resultante); el resto de campos se editan por catálogo.
type Product struct {
	ID            string
	Name          string
	Barcode       string // vacío = sin código de barras; único cuando existe
	CategoryID    string
	Unit          string          // unidad de venta: "unidad", "kg", etc.
	SalePrice     decimal.Decimal // precio de venta
	CostPrice     decimal.Decimal // costo según última compra (last purchase cost)
	StockQty      decimal.Decimal // saldo actual; igual a la suma de movimientos
	MinStockAlert decimal.Decimal
	MaxDiscount   decimal.Decimal // tope de descuento por línea; cero = sin tope
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
