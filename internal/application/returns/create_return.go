// Package returns implementa las devoluciones de venta contra una factura
// original: validación de cupo por línea (descontando devoluciones previas),
// reembolso al precio de la venta original y movimientos SALES_RETURN.
package returns

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	appledger "github.com/jhoicas/pos-ledger-api/internal/application/ledger"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

// LedgerEngine interfaz para registrar las entradas de stock de la devolución
// dentro de la transacción del caller.
type LedgerEngine interface {
	ApplyBatch(tx *repository.Atomic, entries []appledger.MovementRequest, now time.Time) ([]*entity.StockMovement, error)
}

// ReturnUseCase registra devoluciones de venta.
type ReturnUseCase struct {
	txRunner   repository.TxRunner
	returnRepo repository.SalesReturnRepository
	ledger     LedgerEngine
}

// NewReturnUseCase construye el caso de uso.
func NewReturnUseCase(txRunner repository.TxRunner, returnRepo repository.SalesReturnRepository, ledger LedgerEngine) *ReturnUseCase {
	return &ReturnUseCase{txRunner: txRunner, returnRepo: returnRepo, ledger: ledger}
}

// CreateSalesReturn crea una devolución contra una factura original. El cupo
// de cada línea es la cantidad vendida menos lo ya devuelto contra esa línea
// en devoluciones anteriores; la validación vive aquí, no depende del caller.
// El reembolso se valora al precio unitario de la venta original, nunca al
// precio de catálogo vigente.
func (uc *ReturnUseCase) CreateSalesReturn(ctx context.Context, processedByUserID string, in dto.CreateReturnRequest) (*dto.SalesReturnResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.Validationf("la devolución no tiene líneas")
	}
	if in.Reason == "" {
		return nil, domain.Validationf("el motivo de la devolución es obligatorio")
	}

	now := time.Now().UTC()
	var ret *entity.SalesReturn

	err := uc.txRunner.Run(ctx, func(tx *repository.Atomic) error {
		inv, err := tx.Invoices.GetByID(in.OriginalInvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.NotFoundf("factura %s", in.OriginalInvoiceID)
		}
		if inv.IsCancelled {
			return domain.Validationf("no se puede devolver contra una factura anulada")
		}

		invItems, err := tx.Invoices.GetItems(inv.ID)
		if err != nil {
			return err
		}
		if len(invItems) == 0 {
			return domain.Validationf("la factura original no tiene líneas")
		}
		soldByProduct := make(map[string]*entity.InvoiceItem, len(invItems))
		for _, it := range invItems {
			soldByProduct[it.ProductID] = it
		}

		// Lo ya devuelto contra esta factura, acumulado por producto a través
		// de todas las devoluciones previas.
		returned, err := tx.Returns.ReturnedQtyByInvoice(inv.ID)
		if err != nil {
			return err
		}

		type refundLine struct {
			productID string
			qty       decimal.Decimal
			unitPrice decimal.Decimal
			lineTotal decimal.Decimal
		}
		lines := make([]refundLine, 0, len(in.Items))
		for _, item := range in.Items {
			sold := soldByProduct[item.ProductID]
			if sold == nil {
				return domain.Validationf("el producto %s no está en la factura original", item.ProductID)
			}
			if !item.Qty.IsPositive() {
				return domain.Validationf("la cantidad debe ser mayor que 0")
			}
			available := sold.Qty.Sub(returned[item.ProductID])
			if item.Qty.GreaterThan(available) {
				return domain.Validationf("la cantidad a devolver supera lo disponible: vendido %s, ya devuelto %s",
					sold.Qty.String(), returned[item.ProductID].String())
			}
			lines = append(lines, refundLine{
				productID: item.ProductID,
				qty:       item.Qty,
				unitPrice: sold.UnitPrice,
				lineTotal: item.Qty.Mul(sold.UnitPrice),
			})
		}

		seq, err := tx.Sequences.Next(repository.SequenceReturn)
		if err != nil {
			return err
		}

		ret = &entity.SalesReturn{
			ID:                uuid.New().String(),
			Number:            fmt.Sprintf("%s-%06d", repository.SequenceReturn, seq),
			OriginalInvoiceID: inv.ID,
			Datetime:          now,
			ProcessedByUserID: processedByUserID,
			Reason:            in.Reason,
			Notes:             in.Notes,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		for _, l := range lines {
			ret.TotalRefund = ret.TotalRefund.Add(l.lineTotal)
		}
		if err := tx.Returns.Create(ret); err != nil {
			return err
		}
		for _, l := range lines {
			item := &entity.SalesReturnItem{
				ID:            uuid.New().String(),
				SalesReturnID: ret.ID,
				ProductID:     l.productID,
				Qty:           l.qty,
				UnitPrice:     l.unitPrice,
				Discount:      decimal.Zero,
				LineTotal:     l.lineTotal,
				CreatedAt:     now,
			}
			if err := tx.Returns.CreateItem(item); err != nil {
				return err
			}
		}

		entries := make([]appledger.MovementRequest, len(lines))
		for i, l := range lines {
			entries[i] = appledger.MovementRequest{
				Type:          entity.MovementTypeSALESRETURN,
				ProductID:     l.productID,
				QtyChange:     l.qty,
				ReferenceType: entity.ReferenceTypeSALESRETURN,
				ReferenceID:   ret.ID,
				UserID:        processedByUserID,
				Notes:         "Devolución de factura " + inv.Number,
			}
		}
		_, err = uc.ledger.ApplyBatch(tx, entries, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &dto.SalesReturnResponse{
		ID:                ret.ID,
		Number:            ret.Number,
		OriginalInvoiceID: ret.OriginalInvoiceID,
		Datetime:          ret.Datetime.UTC().Format(time.RFC3339),
		TotalRefund:       ret.TotalRefund,
		Reason:            ret.Reason,
	}, nil
}
