package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste la cabecera de la compra.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	if purchase.ID == "" {
		purchase.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchases (id, number, supplier_name, datetime, received_by_user_id, total_cost, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.Number, purchase.SupplierName, purchase.Datetime,
		purchase.ReceivedByUserID, purchase.TotalCost, purchase.Notes,
		purchase.CreatedAt, purchase.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicatef("número de compra ya existe: %s", purchase.Number)
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de compra.
func (r *PurchaseRepo) CreateItem(item *entity.PurchaseItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_items (id, purchase_id, product_id, qty, cost_price, line_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.PurchaseID, item.ProductID, item.Qty, item.CostPrice,
		item.LineTotal, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase item: %w", err)
	}
	return nil
}

// GetByID obtiene una compra por ID.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := `
		SELECT id, number, supplier_name, datetime, received_by_user_id, total_cost, notes, created_at, updated_at
		FROM purchases WHERE id = $1`
	var p entity.Purchase
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Number, &p.SupplierName, &p.Datetime, &p.ReceivedByUserID,
		&p.TotalCost, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return &p, nil
}

// GetItems obtiene las líneas de una compra en orden de inserción.
func (r *PurchaseRepo) GetItems(purchaseID string) ([]*entity.PurchaseItem, error) {
	query := `
		SELECT id, purchase_id, product_id, qty, cost_price, line_total, created_at
		FROM purchase_items WHERE purchase_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("get purchase items: %w", err)
	}
	defer rows.Close()
	var items []*entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.Qty,
			&it.CostPrice, &it.LineTotal, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}
