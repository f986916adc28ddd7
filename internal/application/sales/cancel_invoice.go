package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	appledger "github.com/jhoicas/pos-ledger-api/internal/application/ledger"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

// CancelInvoice anula una factura y repone el stock con un movimiento
// ADJUSTMENT por línea (qty positiva, referencia a la factura). Idempotente:
// si la factura ya está anulada no hace nada, en particular no repone dos
// veces. La anulación es terminal.
func (uc *SaleUseCase) CancelInvoice(ctx context.Context, invoiceID, cancelledByUserID, reason string) error {
	if invoiceID == "" {
		return domain.Validationf("invoice_id requerido")
	}

	return uc.txRunner.Run(ctx, func(tx *repository.Atomic) error {
		inv, err := tx.Invoices.GetByID(invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.NotFoundf("factura %s", invoiceID)
		}
		if inv.IsCancelled {
			return nil // ya anulada: no-op
		}

		items, err := tx.Invoices.GetItems(inv.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.Validationf("la factura no tiene líneas")
		}

		now := time.Now().UTC()
		if err := tx.Invoices.MarkCancelled(inv.ID, cancelledByUserID, now); err != nil {
			return err
		}

		note := fmt.Sprintf("Anulación de factura (%s)", inv.Number)
		if r := strings.TrimSpace(reason); r != "" {
			note += ": " + r
		}

		entries := make([]appledger.MovementRequest, len(items))
		for i, it := range items {
			entries[i] = appledger.MovementRequest{
				Type:          entity.MovementTypeADJUSTMENT,
				ProductID:     it.ProductID,
				QtyChange:     it.Qty, // reponer la cantidad vendida
				ReferenceType: entity.ReferenceTypeINVOICE,
				ReferenceID:   inv.ID,
				UserID:        cancelledByUserID,
				Notes:         note,
			}
		}
		_, err = uc.ledger.ApplyBatch(tx, entries, now)
		return err
	})
}
