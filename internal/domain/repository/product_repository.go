package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
)

// ProductFilter filtros para listar productos de catálogo.
type ProductFilter struct {
	Name       string
	Barcode    string
	CategoryID string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByIDsForUpdate bloquea las filas (SELECT FOR UPDATE en PostgreSQL) para
// garantizar exclusión mutua por producto dentro de la transacción del caller.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByBarcode(barcode string) (*entity.Product, error)
	// GetByIDsForUpdate carga y bloquea los productos indicados, en orden de id
	// estable para evitar deadlocks. Ids desconocidos simplemente no aparecen
	// en el mapa resultante.
	GetByIDsForUpdate(ids []string) (map[string]*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(productID string, stockQty decimal.Decimal, updatedAt time.Time) error
	UpdateCost(productID string, costPrice decimal.Decimal, updatedAt time.Time) error
	List(filter ProductFilter) ([]*entity.Product, error)
}
