package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only: no hay UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento del ledger.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, datetime, type, product_id, qty_change, new_balance, reference_type, reference_id, user_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	refType := (*string)(nil)
	if movement.ReferenceType != "" {
		refType = &movement.ReferenceType
	}
	refID := (*string)(nil)
	if movement.ReferenceID != "" {
		refID = &movement.ReferenceID
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.Datetime, movement.Type, movement.ProductID,
		movement.QtyChange, movement.NewBalance, refType, refID,
		movement.UserID, movement.Notes, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByProduct lista los movimientos de un producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(productID string, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, datetime, type, product_id, qty_change, new_balance, reference_type, reference_id, user_id, notes, created_at
		FROM stock_movements WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if filter.From != nil {
		query += fmt.Sprintf(" AND datetime >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND datetime <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	query += " ORDER BY datetime DESC, created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var refType, refID *string
		if err := rows.Scan(&m.ID, &m.Datetime, &m.Type, &m.ProductID, &m.QtyChange,
			&m.NewBalance, &refType, &refID, &m.UserID, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if refType != nil {
			m.ReferenceType = *refType
		}
		if refID != nil {
			m.ReferenceID = *refID
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
