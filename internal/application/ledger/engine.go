// Package ledger implementa el motor del ledger de stock: aplicación atómica
// de lotes de movimientos con saldo corrido, consulta del historial y
// correcciones manuales.
package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

// MovementRequest es una entrada del lote a aplicar sobre el ledger.
type MovementRequest struct {
	Type          string
	ProductID     string
	QtyChange     decimal.Decimal // con signo: negativo en SALE
	ReferenceType string
	ReferenceID   string
	UserID        string
	Notes         string
}

// Engine aplica movimientos de stock manteniendo el invariante
// stock_qty == Σ qty_change de los movimientos del producto.
type Engine struct {
	txRunner  repository.TxRunner
	movements repository.StockMovementRepository
}

// NewEngine construye el motor. movements es el repo atado al pool para la
// lectura del ledger fuera de transacción.
func NewEngine(txRunner repository.TxRunner, movements repository.StockMovementRepository) *Engine {
	return &Engine{txRunner: txRunner, movements: movements}
}

// ApplyBatch aplica un lote de movimientos dentro de la transacción del caller:
// carga y bloquea una sola vez el conjunto de productos tocados, agrega el
// delta neto por producto y persiste un movimiento por entrada más el saldo
// actualizado de cada producto.
//
// Simplificación documentada: si el lote trae varias entradas para el mismo
// producto, todas registran el saldo final del lote, no saldos intermedios
// secuenciales. El invariante de suma se conserva igual.
func (e *Engine) ApplyBatch(tx *repository.Atomic, entries []MovementRequest, now time.Time) ([]*entity.StockMovement, error) {
	if len(entries) == 0 {
		return nil, domain.Validationf("el lote de movimientos está vacío")
	}
	for _, in := range entries {
		if !entity.ValidMovementType(in.Type) {
			return nil, domain.Validationf("tipo de movimiento desconocido: %s", in.Type)
		}
	}

	// Conjunto de productos tocados, en orden estable para el bloqueo de filas.
	seen := make(map[string]bool, len(entries))
	ids := make([]string, 0, len(entries))
	for _, in := range entries {
		if !seen[in.ProductID] {
			seen[in.ProductID] = true
			ids = append(ids, in.ProductID)
		}
	}
	sort.Strings(ids)

	products, err := tx.Products.GetByIDsForUpdate(ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if products[id] == nil {
			return nil, domain.NotFoundf("producto %s", id)
		}
	}

	// Delta neto por producto a través de todo el lote.
	delta := make(map[string]decimal.Decimal, len(ids))
	for _, in := range entries {
		delta[in.ProductID] = delta[in.ProductID].Add(in.QtyChange)
	}

	newBalance := make(map[string]decimal.Decimal, len(ids))
	for id, dq := range delta {
		newBalance[id] = products[id].StockQty.Add(dq)
	}

	movements := make([]*entity.StockMovement, 0, len(entries))
	for _, in := range entries {
		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			Datetime:      now,
			Type:          in.Type,
			ProductID:     in.ProductID,
			QtyChange:     in.QtyChange,
			NewBalance:    newBalance[in.ProductID],
			ReferenceType: in.ReferenceType,
			ReferenceID:   in.ReferenceID,
			UserID:        in.UserID,
			Notes:         in.Notes,
			CreatedAt:     now,
		}
		if err := tx.Movements.Create(mov); err != nil {
			return nil, err
		}
		movements = append(movements, mov)
	}

	for _, id := range ids {
		if err := tx.Products.UpdateStock(id, newBalance[id], now); err != nil {
			return nil, err
		}
	}
	return movements, nil
}

// GetLedger devuelve el historial de movimientos de un producto, más
// recientes primero, con filtros opcionales de rango y tipo.
func (e *Engine) GetLedger(ctx context.Context, productID string, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	if productID == "" {
		return nil, domain.Validationf("product_id requerido")
	}
	if filter.Type != "" && !entity.ValidMovementType(filter.Type) {
		return nil, domain.Validationf("tipo de movimiento desconocido: %s", filter.Type)
	}
	return e.movements.ListByProduct(productID, filter)
}
