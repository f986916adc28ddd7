// Package catalog implementa el CRUD de productos. El stock no se edita por
// catálogo: el stock inicial entra como movimiento OPENING_BALANCE y de ahí
// en adelante solo cambia a través del ledger.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	appledger "github.com/jhoicas/pos-ledger-api/internal/application/ledger"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

// LedgerEngine interfaz para registrar el saldo inicial dentro de la
// transacción de alta del producto.
type LedgerEngine interface {
	ApplyBatch(tx *repository.Atomic, entries []appledger.MovementRequest, now time.Time) ([]*entity.StockMovement, error)
}

// ProductUseCase gestiona el catálogo de productos.
type ProductUseCase struct {
	txRunner    repository.TxRunner
	productRepo repository.ProductRepository
	ledger      LedgerEngine
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner repository.TxRunner, productRepo repository.ProductRepository, ledger LedgerEngine) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, productRepo: productRepo, ledger: ledger}
}

// Create da de alta un producto. Si trae stock inicial, el alta y el
// movimiento OPENING_BALANCE se confirman en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Validationf("el nombre del producto es obligatorio")
	}
	if !in.SalePrice.IsPositive() {
		return nil, domain.Validationf("el precio de venta debe ser mayor que 0")
	}
	barcode := strings.TrimSpace(in.Barcode)
	if barcode != "" {
		existing, err := uc.productRepo.GetByBarcode(barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.Duplicatef("código de barras ya registrado: %s", barcode)
		}
	}

	now := time.Now().UTC()
	p := &entity.Product{
		ID:            uuid.New().String(),
		Name:          name,
		Barcode:       barcode,
		CategoryID:    in.CategoryID,
		Unit:          in.Unit,
		SalePrice:     in.SalePrice,
		MinStockAlert: decimal.NewFromInt(entity.DefaultMinStockAlert),
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.CostPrice != nil {
		p.CostPrice = *in.CostPrice
	}
	if in.MinStockAlert != nil {
		p.MinStockAlert = *in.MinStockAlert
	}
	if in.MaxDiscount != nil {
		p.MaxDiscount = *in.MaxDiscount
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	err := uc.txRunner.Run(ctx, func(tx *repository.Atomic) error {
		if err := tx.Products.Create(p); err != nil {
			return err
		}
		if in.InitialStock != nil && !in.InitialStock.IsZero() {
			_, err := uc.ledger.ApplyBatch(tx, []appledger.MovementRequest{{
				Type:      entity.MovementTypeOPENINGBALANCE,
				ProductID: p.ID,
				QtyChange: *in.InitialStock,
				UserID:    userID,
				Notes:     "Saldo inicial",
			}}, now)
			if err != nil {
				return err
			}
			p.StockQty = *in.InitialStock
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(p), nil
}

// Update edita los campos de catálogo de un producto.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFoundf("producto %s", id)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Validationf("el nombre del producto es obligatorio")
		}
		p.Name = name
	}
	if in.Barcode != nil {
		barcode := strings.TrimSpace(*in.Barcode)
		if barcode != "" && barcode != p.Barcode {
			existing, err := uc.productRepo.GetByBarcode(barcode)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != p.ID {
				return nil, domain.Duplicatef("código de barras ya registrado: %s", barcode)
			}
		}
		p.Barcode = barcode
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.Unit != nil {
		p.Unit = *in.Unit
	}
	if in.SalePrice != nil {
		if !in.SalePrice.IsPositive() {
			return nil, domain.Validationf("el precio de venta debe ser mayor que 0")
		}
		p.SalePrice = *in.SalePrice
	}
	if in.CostPrice != nil {
		p.CostPrice = *in.CostPrice
	}
	if in.MinStockAlert != nil {
		p.MinStockAlert = *in.MinStockAlert
	}
	if in.MaxDiscount != nil {
		p.MaxDiscount = *in.MaxDiscount
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	p.UpdatedAt = time.Now().UTC()

	if err := uc.productRepo.Update(p); err != nil {
		return nil, err
	}
	return toResponse(p), nil
}

// GetByID devuelve un producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFoundf("producto %s", id)
	}
	return toResponse(p), nil
}

// List lista productos del catálogo con filtros.
func (uc *ProductUseCase) List(ctx context.Context, filter repository.ProductFilter) ([]*dto.ProductResponse, error) {
	products, err := uc.productRepo.List(filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toResponse(p))
	}
	return out, nil
}

func toResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Barcode:       p.Barcode,
		CategoryID:    p.CategoryID,
		Unit:          p.Unit,
		SalePrice:     p.SalePrice,
		CostPrice:     p.CostPrice,
		StockQty:      p.StockQty,
		MinStockAlert: p.MinStockAlert,
		MaxDiscount:   p.MaxDiscount,
		IsActive:      p.IsActive,
	}
}
