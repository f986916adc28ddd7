package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

var _ repository.SalesReturnRepository = (*SalesReturnRepo)(nil)

// SalesReturnRepo implementación de SalesReturnRepository (usable con pool o tx).
type SalesReturnRepo struct {
	q Querier
}

// NewSalesReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesReturnRepository(q Querier) *SalesReturnRepo {
	return &SalesReturnRepo{q: q}
}

// Create persiste la cabecera de la devolución.
func (r *SalesReturnRepo) Create(ret *entity.SalesReturn) error {
	if ret.ID == "" {
		ret.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sales_returns (id, number, original_invoice_id, datetime, processed_by_user_id, total_refund, reason, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		ret.ID, ret.Number, ret.OriginalInvoiceID, ret.Datetime, ret.ProcessedByUserID,
		ret.TotalRefund, ret.Reason, ret.Notes, ret.CreatedAt, ret.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicatef("número de devolución ya existe: %s", ret.Number)
		}
		return fmt.Errorf("insert sales return: %w", err)
	}
	return nil
}

// CreateItem persiste una línea devuelta.
func (r *SalesReturnRepo) CreateItem(item *entity.SalesReturnItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sales_return_items (id, sales_return_id, product_id, qty, unit_price, discount, line_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SalesReturnID, item.ProductID, item.Qty, item.UnitPrice,
		item.Discount, item.LineTotal, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sales return item: %w", err)
	}
	return nil
}

// GetByID obtiene una devolución por ID.
func (r *SalesReturnRepo) GetByID(id string) (*entity.SalesReturn, error) {
	query := `
		SELECT id, number, original_invoice_id, datetime, processed_by_user_id, total_refund, reason, notes, created_at, updated_at
		FROM sales_returns WHERE id = $1`
	var ret entity.SalesReturn
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&ret.ID, &ret.Number, &ret.OriginalInvoiceID, &ret.Datetime, &ret.ProcessedByUserID,
		&ret.TotalRefund, &ret.Reason, &ret.Notes, &ret.CreatedAt, &ret.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales return: %w", err)
	}
	return &ret, nil
}

// GetItems obtiene las líneas de una devolución en orden de inserción.
func (r *SalesReturnRepo) GetItems(returnID string) ([]*entity.SalesReturnItem, error) {
	query := `
		SELECT id, sales_return_id, product_id, qty, unit_price, discount, line_total, created_at
		FROM sales_return_items WHERE sales_return_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, returnID)
	if err != nil {
		return nil, fmt.Errorf("get sales return items: %w", err)
	}
	defer rows.Close()
	var items []*entity.SalesReturnItem
	for rows.Next() {
		var it entity.SalesReturnItem
		if err := rows.Scan(&it.ID, &it.SalesReturnID, &it.ProductID, &it.Qty,
			&it.UnitPrice, &it.Discount, &it.LineTotal, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sales return item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// ReturnedQtyByInvoice agrega por producto las cantidades ya devueltas contra
// una factura. El cupo de devolución del core se calcula contra esta suma.
func (r *SalesReturnRepo) ReturnedQtyByInvoice(invoiceID string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT i.product_id, COALESCE(SUM(i.qty), 0)
		FROM sales_return_items i
		JOIN sales_returns sr ON sr.id = i.sales_return_id
		WHERE sr.original_invoice_id = $1
		GROUP BY i.product_id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("sum returned qty: %w", err)
	}
	defer rows.Close()
	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var productID string
		var qty decimal.Decimal
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, fmt.Errorf("scan returned qty: %w", err)
		}
		out[productID] = qty
	}
	return out, rows.Err()
}
