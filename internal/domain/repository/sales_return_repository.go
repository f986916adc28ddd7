package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
)

// SalesReturnRepository define el puerto de persistencia para devoluciones.
type SalesReturnRepository interface {
	Create(ret *entity.SalesReturn) error
	CreateItem(item *entity.SalesReturnItem) error
	GetByID(id string) (*entity.SalesReturn, error)
	GetItems(returnID string) ([]*entity.SalesReturnItem, error)
	// ReturnedQtyByInvoice agrega, por producto, las cantidades ya devueltas
	// contra una factura a través de todas sus devoluciones previas. La
	// validación de cupo de devolución vive en el core y depende de esta suma.
	ReturnedQtyByInvoice(invoiceID string) (map[string]decimal.Decimal, error)
}
