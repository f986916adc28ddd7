// Package sales implementa las operaciones de venta del POS: creación de
// facturas, anulación idempotente y recibo imprimible.
package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	appledger "github.com/jhoicas/pos-ledger-api/internal/application/ledger"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	domledger "github.com/jhoicas/pos-ledger-api/internal/domain/ledger"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

// SaleUseCase crea y anula facturas de venta. Cabecera, líneas y movimientos
// SALE se confirman en una sola transacción.
type SaleUseCase struct {
	txRunner     repository.TxRunner
	settingsRepo repository.SettingsRepository
	invoiceRepo  repository.InvoiceRepository
	ledger       LedgerEngine
}

// NewSaleUseCase construye el caso de uso. invoiceRepo es el repo atado al
// pool para las lecturas fuera de transacción.
func NewSaleUseCase(
	txRunner repository.TxRunner,
	settingsRepo repository.SettingsRepository,
	invoiceRepo repository.InvoiceRepository,
	ledger LedgerEngine,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:     txRunner,
		settingsRepo: settingsRepo,
		invoiceRepo:  invoiceRepo,
		ledger:       ledger,
	}
}

// saleLine línea saneada con su producto cargado.
type saleLine struct {
	product   *entity.Product
	qty       decimal.Decimal
	unitPrice decimal.Decimal
	discount  decimal.Decimal
}

// CreateSale crea una factura completa: valida productos y stock, calcula
// totales con la política de redondeo configurada, persiste cabecera y líneas
// y registra un movimiento SALE por línea. Todo dentro de una transacción.
func (uc *SaleUseCase) CreateSale(ctx context.Context, cashierUserID string, in dto.CreateSaleRequest) (*dto.InvoiceResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.Validationf("la venta no tiene líneas")
	}
	if in.PaymentMethod != entity.PaymentMethodCASH && in.PaymentMethod != entity.PaymentMethodCREDIT {
		return nil, domain.Validationf("método de pago desconocido: %s", in.PaymentMethod)
	}

	// Modo de redondeo vigente; la tienda debe estar configurada.
	settings, err := uc.settingsRepo.Get()
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, domain.Validationf("la tienda no está configurada")
	}

	now := time.Now().UTC()
	var inv *entity.Invoice
	var items []*entity.InvoiceItem

	err = uc.txRunner.Run(ctx, func(tx *repository.Atomic) error {
		// Cargar y bloquear los productos una sola vez, en orden estable.
		ids := distinctProductIDs(in.Items)
		products, err := tx.Products.GetByIDsForUpdate(ids)
		if err != nil {
			return err
		}

		lines := make([]saleLine, 0, len(in.Items))
		for _, item := range in.Items {
			p := products[item.ProductID]
			if p == nil {
				return domain.NotFoundf("producto %s", item.ProductID)
			}
			if !p.IsActive {
				return domain.Validationf("producto inactivo: %s", p.Name)
			}
			if !item.Qty.IsPositive() {
				return domain.Validationf("la cantidad debe ser mayor que 0")
			}
			unitPrice := p.SalePrice
			if item.UnitPrice != nil {
				unitPrice = *item.UnitPrice
			}
			discount := decimal.Zero
			if item.Discount != nil && item.Discount.IsPositive() {
				discount = *item.Discount
			}
			lines = append(lines, saleLine{product: p, qty: item.Qty, unitPrice: unitPrice, discount: discount})
		}

		// Guardia de stock acumulada por producto: varias líneas del mismo
		// producto no pueden, entre todas, dejar el saldo en negativo sin
		// autorización de gerente.
		remaining := make(map[string]decimal.Decimal, len(products))
		for id, p := range products {
			remaining[id] = p.StockQty
		}
		for _, l := range lines {
			left := remaining[l.product.ID].Sub(l.qty)
			if left.IsNegative() && !in.AllowManagerOverride {
				return domain.Stockf("stock insuficiente para %s: disponible %s",
					l.product.Name, remaining[l.product.ID].String())
			}
			remaining[l.product.ID] = left
		}

		calcLines := make([]domledger.Line, len(lines))
		for i, l := range lines {
			calcLines[i] = domledger.Line{Qty: l.qty, UnitPrice: l.unitPrice, Discount: l.discount}
		}
		totals, err := domledger.CalcInvoiceTotals(calcLines)
		if err != nil {
			return err
		}
		rounding, err := domledger.ApplyRounding(totals.GrandBeforeRound, settings.RoundingMode)
		if err != nil {
			return err
		}

		seq, err := tx.Sequences.Next(repository.SequenceInvoice)
		if err != nil {
			return err
		}

		paymentStatus := entity.PaymentStatusPAID
		if in.PaymentMethod == entity.PaymentMethodCREDIT {
			paymentStatus = entity.PaymentStatusUNPAID
		}

		inv = &entity.Invoice{
			ID:                 uuid.New().String(),
			Number:             formatNumber(repository.SequenceInvoice, seq),
			Datetime:           now,
			CashierUserID:      cashierUserID,
			Subtotal:           totals.Subtotal,
			TotalDiscount:      totals.TotalDiscount,
			RoundingAdjustment: rounding.Adjustment,
			GrandTotal:         rounding.Rounded,
			PaymentMethod:      in.PaymentMethod,
			PaymentStatus:      paymentStatus,
			CustomerName:       in.CustomerName,
			Notes:              in.Notes,
			DeviceID:           in.DeviceID,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := tx.Invoices.Create(inv); err != nil {
			return err
		}

		items = make([]*entity.InvoiceItem, 0, len(lines))
		for _, l := range lines {
			item := &entity.InvoiceItem{
				ID:        uuid.New().String(),
				InvoiceID: inv.ID,
				ProductID: l.product.ID,
				Qty:       l.qty,
				UnitPrice: l.unitPrice,
				Discount:  l.discount,
				LineTotal: domledger.LineTotal(l.qty, l.unitPrice, l.discount),
				CreatedAt: now,
			}
			if err := tx.Invoices.CreateItem(item); err != nil {
				return err
			}
			items = append(items, item)
		}

		// Efectos de stock: un movimiento SALE por línea, referencia a la factura.
		entries := make([]appledger.MovementRequest, len(lines))
		for i, l := range lines {
			notes := ""
			if in.AllowManagerOverride {
				notes = "Venta con autorización de gerente"
			}
			entries[i] = appledger.MovementRequest{
				Type:          entity.MovementTypeSALE,
				ProductID:     l.product.ID,
				QtyChange:     l.qty.Neg(),
				ReferenceType: entity.ReferenceTypeINVOICE,
				ReferenceID:   inv.ID,
				UserID:        cashierUserID,
				Notes:         notes,
			}
		}
		_, err = uc.ledger.ApplyBatch(tx, entries, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	return toInvoiceResponse(inv, items), nil
}

// GetInvoice devuelve una factura con sus líneas.
func (uc *SaleUseCase) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFoundf("factura %s", id)
	}
	items, err := uc.invoiceRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

func distinctProductIDs(items []dto.CartLineRequest) []string {
	seen := make(map[string]bool, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	sort.Strings(ids)
	return ids
}

func formatNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%06d", prefix, seq)
}

func toInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:                 inv.ID,
		Number:             inv.Number,
		Datetime:           inv.Datetime.UTC().Format(time.RFC3339),
		CashierUserID:      inv.CashierUserID,
		Subtotal:           inv.Subtotal,
		TotalDiscount:      inv.TotalDiscount,
		RoundingAdjustment: inv.RoundingAdjustment,
		GrandTotal:         inv.GrandTotal,
		PaymentMethod:      inv.PaymentMethod,
		PaymentStatus:      inv.PaymentStatus,
		CustomerName:       inv.CustomerName,
		IsCancelled:        inv.IsCancelled,
		Items:              make([]dto.InvoiceItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
			LineTotal: it.LineTotal,
		})
	}
	return resp
}
