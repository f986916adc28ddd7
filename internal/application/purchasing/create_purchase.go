// Package purchasing implementa la recepción de mercancía de proveedores:
// cabecera + líneas, actualización del costo por última compra y movimientos
// PURCHASE en el ledger, todo en una transacción.
package purchasing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	appledger "github.com/jhoicas/pos-ledger-api/internal/application/ledger"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

// LedgerEngine interfaz para registrar las entradas de stock de la compra
// dentro de la transacción del caller.
type LedgerEngine interface {
	ApplyBatch(tx *repository.Atomic, entries []appledger.MovementRequest, now time.Time) ([]*entity.StockMovement, error)
}

// PurchaseUseCase registra compras a proveedor.
type PurchaseUseCase struct {
	txRunner     repository.TxRunner
	purchaseRepo repository.PurchaseRepository
	ledger       LedgerEngine
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(txRunner repository.TxRunner, purchaseRepo repository.PurchaseRepository, ledger LedgerEngine) *PurchaseUseCase {
	return &PurchaseUseCase{txRunner: txRunner, purchaseRepo: purchaseRepo, ledger: ledger}
}

// CreatePurchase valida y persiste la compra, sobreescribe el costo de cada
// producto con el costo unitario de su línea (política de última compra, no
// promedio ponderado) y registra un movimiento PURCHASE por línea.
func (uc *PurchaseUseCase) CreatePurchase(ctx context.Context, receivedByUserID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	supplier := strings.TrimSpace(in.SupplierName)
	if supplier == "" {
		return nil, domain.Validationf("el nombre del proveedor es obligatorio")
	}
	if len(in.Items) == 0 {
		return nil, domain.Validationf("la compra no tiene líneas")
	}
	for _, item := range in.Items {
		if !item.Qty.IsPositive() {
			return nil, domain.Validationf("la cantidad debe ser mayor que 0")
		}
		if item.CostPrice.IsNegative() {
			return nil, domain.Validationf("el costo unitario no puede ser negativo")
		}
	}

	now := time.Now().UTC()
	var purchase *entity.Purchase

	err := uc.txRunner.Run(ctx, func(tx *repository.Atomic) error {
		ids := make([]string, 0, len(in.Items))
		seen := make(map[string]bool, len(in.Items))
		for _, item := range in.Items {
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				ids = append(ids, item.ProductID)
			}
		}
		sort.Strings(ids)

		products, err := tx.Products.GetByIDsForUpdate(ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if products[id] == nil {
				return domain.NotFoundf("producto %s", id)
			}
		}

		seq, err := tx.Sequences.Next(repository.SequencePurchase)
		if err != nil {
			return err
		}

		purchase = &entity.Purchase{
			ID:               uuid.New().String(),
			Number:           fmt.Sprintf("%s-%06d", repository.SequencePurchase, seq),
			SupplierName:     supplier,
			Datetime:         now,
			ReceivedByUserID: receivedByUserID,
			Notes:            in.Notes,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		for _, item := range in.Items {
			purchase.TotalCost = purchase.TotalCost.Add(item.Qty.Mul(item.CostPrice))
		}
		if err := tx.Purchases.Create(purchase); err != nil {
			return err
		}

		for _, item := range in.Items {
			line := &entity.PurchaseItem{
				ID:         uuid.New().String(),
				PurchaseID: purchase.ID,
				ProductID:  item.ProductID,
				Qty:        item.Qty,
				CostPrice:  item.CostPrice,
				LineTotal:  item.Qty.Mul(item.CostPrice),
				CreatedAt:  now,
			}
			if err := tx.Purchases.CreateItem(line); err != nil {
				return err
			}
			// Última compra manda: el costo del producto se sobreescribe.
			if err := tx.Products.UpdateCost(item.ProductID, item.CostPrice, now); err != nil {
				return err
			}
		}

		entries := make([]appledger.MovementRequest, len(in.Items))
		for i, item := range in.Items {
			entries[i] = appledger.MovementRequest{
				Type:          entity.MovementTypePURCHASE,
				ProductID:     item.ProductID,
				QtyChange:     item.Qty,
				ReferenceType: entity.ReferenceTypePURCHASE,
				ReferenceID:   purchase.ID,
				UserID:        receivedByUserID,
				Notes:         "Proveedor: " + supplier,
			}
		}
		_, err = uc.ledger.ApplyBatch(tx, entries, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &dto.PurchaseResponse{
		ID:           purchase.ID,
		Number:       purchase.Number,
		SupplierName: purchase.SupplierName,
		Datetime:     purchase.Datetime.UTC().Format(time.RFC3339),
		TotalCost:    purchase.TotalCost,
	}, nil
}
