// Package ledger contiene los servicios de dominio puros del ledger de stock:
// cálculo de totales de factura y política de redondeo. Sin I/O ni estado.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
)

// Line es una línea de carrito/factura para el cálculo de totales.
type Line struct {
	Qty       decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal // descuento absoluto por línea; valores negativos se tratan como 0
}

// Totals agrupa los agregados de una factura antes de redondeo.
type Totals struct {
	Subtotal         decimal.Decimal // Σ qty·unit_price
	TotalDiscount    decimal.Decimal // Σ descuentos saneados
	GrandBeforeRound decimal.Decimal // Σ max(0, qty·unit_price − discount)
}

// Rounding es el resultado de aplicar la política de redondeo.
type Rounding struct {
	Rounded    decimal.Decimal
	Adjustment decimal.Decimal // rounded − amount
}

// CalcInvoiceTotals calcula subtotal, descuento total y total antes de redondeo.
// Regla por línea: discount = max(0, discount); line = max(0, qty·unit_price − discount).
// El descuento se recorta: una línea nunca aporta un total negativo.
func CalcInvoiceTotals(lines []Line) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, domain.Validationf("la factura debe tener al menos una línea")
	}

	var t Totals
	for _, l := range lines {
		if !l.Qty.IsPositive() {
			return Totals{}, domain.Validationf("la cantidad debe ser mayor que 0")
		}
		if l.UnitPrice.IsNegative() {
			return Totals{}, domain.Validationf("el precio unitario no puede ser negativo")
		}
		disc := l.Discount
		if disc.IsNegative() {
			disc = decimal.Zero
		}
		raw := l.Qty.Mul(l.UnitPrice)
		line := raw.Sub(disc)
		if line.IsNegative() {
			line = decimal.Zero
		}
		t.Subtotal = t.Subtotal.Add(raw)
		t.TotalDiscount = t.TotalDiscount.Add(disc)
		t.GrandBeforeRound = t.GrandBeforeRound.Add(line)
	}
	return t, nil
}

// ApplyRounding aplica el modo de redondeo configurado al total de la factura.
// NONE devuelve el monto tal cual; NEAREST redondea al entero más cercano
// (mitades alejándose de cero) con adjustment = rounded − amount.
// CUSTOM no tiene política definida: se rechaza explícitamente en lugar de
// comportarse en silencio como NONE.
func ApplyRounding(amount decimal.Decimal, mode string) (Rounding, error) {
	switch mode {
	case entity.RoundingNone:
		return Rounding{Rounded: amount, Adjustment: decimal.Zero}, nil
	case entity.RoundingNearest:
		rounded := amount.Round(0)
		return Rounding{Rounded: rounded, Adjustment: rounded.Sub(amount)}, nil
	case entity.RoundingCustom:
		return Rounding{}, domain.Validationf("modo de redondeo CUSTOM no soportado")
	default:
		return Rounding{}, domain.Validationf("modo de redondeo desconocido: %s", mode)
	}
}

// LineTotal calcula el total de una línea individual con la misma regla de
// recorte que CalcInvoiceTotals.
func LineTotal(qty, unitPrice, discount decimal.Decimal) decimal.Decimal {
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	total := qty.Mul(unitPrice).Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}
