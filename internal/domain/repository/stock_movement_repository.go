package repository

import (
	"time"

	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
)

// MovementFilter acota la consulta del ledger de un producto.
type MovementFilter struct {
	From   *time.Time
	To     *time.Time
	Type   string // vacío = todos los tipos
	Limit  int
	Offset int
}

// StockMovementRepository define el puerto de persistencia del ledger.
// Los movimientos son append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// ListByProduct devuelve los movimientos del producto, más recientes primero.
	ListByProduct(productID string, filter MovementFilter) ([]*entity.StockMovement, error)
}
