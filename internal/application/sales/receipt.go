package sales

import (
	"context"

	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

// ReceiptUseCase genera el recibo imprimible de una factura.
type ReceiptUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
	generator    ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	settingsRepo repository.SettingsRepository,
	generator ReceiptPDFGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		invoiceRepo:  invoiceRepo,
		productRepo:  productRepo,
		settingsRepo: settingsRepo,
		generator:    generator,
	}
}

// GenerateReceipt genera el PDF del recibo de una factura.
func (uc *ReceiptUseCase) GenerateReceipt(ctx context.Context, invoiceID string) ([]byte, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFoundf("factura %s", invoiceID)
	}
	items, err := uc.invoiceRepo.GetItems(inv.ID)
	if err != nil {
		return nil, err
	}
	settings, err := uc.settingsRepo.Get()
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, domain.Validationf("la tienda no está configurada")
	}

	lines := make([]ReceiptLine, 0, len(items))
	for _, it := range items {
		name := it.ProductID
		if p, err := uc.productRepo.GetByID(it.ProductID); err == nil && p != nil {
			name = p.Name
		}
		lines = append(lines, ReceiptLine{
			ProductName: name,
			Qty:         it.Qty,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			LineTotal:   it.LineTotal,
		})
	}
	return uc.generator.GenerateReceiptPDF(inv, lines, settings)
}
