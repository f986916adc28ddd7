package repository

import "github.com/jhoicas/pos-ledger-api/internal/domain/entity"

// PurchaseRepository define el puerto de persistencia para compras a proveedor.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	CreateItem(item *entity.PurchaseItem) error
	GetByID(id string) (*entity.Purchase, error)
	GetItems(purchaseID string) ([]*entity.PurchaseItem, error)
}
