// Package pdf implementa la representación imprimible del recibo de venta.
//
// Layout de la página:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la tienda  │  N° Factura + Fecha         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Desc. | Total            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / Redondeo / TOTAL           │
//	│  FOOTER: método de pago + leyenda de anulación si aplica    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/pos-ledger-api/internal/application/sales"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 30, Green: 30, Blue: 30}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ sales.ReceiptPDFGenerator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implementa sales.ReceiptPDFGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// GenerateReceiptPDF genera el PDF del recibo y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceiptPDF(
	invoice *entity.Invoice,
	lines []sales.ReceiptLine,
	settings *entity.Settings,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de venta", true).
		WithAuthor(settings.StoreName, true).
		Build()

	m := maroto.New(cfg)
	money := newMoneyFormatter(settings.CurrencyCode)

	m.AddRows(headerRow(invoice, settings))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(lines, money) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice, money))
	for _, r := range footerRows(invoice) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la tienda (izq) y N° de factura + fecha (der).
func headerRow(invoice *entity.Invoice, settings *entity.Settings) core.Row {
	fecha := invoice.Datetime.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(settings.StoreName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Recibo de venta", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(invoice.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 2,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("P.Unit.", 2, align.Right),
		h("Desc.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableLineRows: una fila por línea del recibo.
func tableLineRows(lines []sales.ReceiptLine, money *moneyFormatter) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				l.Qty.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				l.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				money.format(l.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				money.format(l.Discount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				money.format(l.LineTotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha. La fila de redondeo
// solo aparece cuando el ajuste no es cero.
func totalsRow(invoice *entity.Invoice, money *moneyFormatter) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	labels := []core.Component{label("Subtotal:"), label("Descuento:")}
	values := []core.Component{
		value(money.format(invoice.Subtotal)),
		value(money.format(invoice.TotalDiscount)),
	}
	if !invoice.RoundingAdjustment.IsZero() {
		labels = append(labels, label("Redondeo:"))
		values = append(values, value(money.format(invoice.RoundingAdjustment)))
	}
	labels = append(labels, grandLabel("TOTAL:"))
	values = append(values, grandValue(money.format(invoice.GrandTotal)))

	return row.New(28).Add(
		col.New(4),
		col.New(4).Add(labels...),
		col.New(4).Add(values...),
	)
}

// footerRows: método de pago y, si aplica, la marca de anulación.
func footerRows(invoice *entity.Invoice) []core.Row {
	pago := "Pago: " + invoice.PaymentMethod
	if invoice.PaymentStatus == entity.PaymentStatusUNPAID {
		pago += " (pendiente de pago)"
	}
	rows := []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New(pago, props.Text{Size: 8, Color: colorGray, Top: 2}),
		)),
	}
	if invoice.IsCancelled {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("FACTURA ANULADA", props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Center,
				Color: colorAlert, Top: 2,
			}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New("Gracias por su compra. Conserve este recibo para cambios y devoluciones.",
			props.Text{Size: 7, Color: colorGray, Top: 2, Align: align.Center}),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// moneyFormatter formatea montos con el símbolo y agrupación de miles de la
// moneda configurada. Si el código ISO no se reconoce, cae a un formato plano.
type moneyFormatter struct {
	printer *message.Printer
	unit    currency.Unit
	valid   bool
}

func newMoneyFormatter(code string) *moneyFormatter {
	f := &moneyFormatter{printer: message.NewPrinter(language.Spanish)}
	unit, err := currency.ParseISO(code)
	if err == nil {
		f.unit = unit
		f.valid = true
	}
	return f
}

func (f *moneyFormatter) format(amount decimal.Decimal) string {
	v, _ := amount.Float64()
	if !f.valid {
		return f.printer.Sprintf("%.2f", v)
	}
	return f.printer.Sprintf("%v", currency.Symbol(f.unit.Amount(v)))
}
