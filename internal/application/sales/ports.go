package sales

import (
	"time"

	"github.com/shopspring/decimal"

	appledger "github.com/jhoicas/pos-ledger-api/internal/application/ledger"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

// LedgerEngine interfaz para registrar los efectos de stock de una venta
// dentro de la transacción del caller. Si devuelve error (ej. producto
// inexistente) el caller hace rollback.
type LedgerEngine interface {
	ApplyBatch(tx *repository.Atomic, entries []appledger.MovementRequest, now time.Time) ([]*entity.StockMovement, error)
}

// ReceiptLine línea de factura enriquecida con el nombre del producto,
// lista para imprimir.
type ReceiptLine struct {
	ProductName string
	Qty         decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	LineTotal   decimal.Decimal
}

// ReceiptPDFGenerator genera la representación imprimible de una factura.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(invoice *entity.Invoice, lines []ReceiptLine, settings *entity.Settings) ([]byte, error)
}
