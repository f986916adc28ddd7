package repository

import (
	"time"

	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para facturas y sus líneas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	GetByID(id string) (*entity.Invoice, error)
	GetItems(invoiceID string) ([]*entity.InvoiceItem, error)
	// MarkCancelled marca la factura como anulada con actor y timestamp.
	// La cabecera no admite ninguna otra mutación.
	MarkCancelled(invoiceID, cancelledByUserID string, cancelledAt time.Time) error
	ListByDateRange(from, to time.Time) ([]*entity.Invoice, error)
}
