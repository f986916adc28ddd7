package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, number, datetime, cashier_user_id, subtotal, total_discount, rounding_adjustment, grand_total, payment_method, payment_status, customer_name, notes, is_cancelled, cancelled_by_user_id, cancelled_at, device_id, created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Number, invoice.Datetime, invoice.CashierUserID,
		invoice.Subtotal, invoice.TotalDiscount, invoice.RoundingAdjustment, invoice.GrandTotal,
		invoice.PaymentMethod, invoice.PaymentStatus, nullIfEmpty(invoice.CustomerName), invoice.Notes,
		invoice.IsCancelled, nullIfEmpty(invoice.CancelledByUserID), invoice.CancelledAt,
		nullIfEmpty(invoice.DeviceID), invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicatef("número de factura ya existe: %s", invoice.Number)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la factura.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_items (id, invoice_id, product_id, qty, unit_price, discount, line_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.ProductID, item.Qty, item.UnitPrice,
		item.Discount, item.LineTotal, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var customerName, cancelledBy, deviceID *string
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.Datetime, &inv.CashierUserID,
		&inv.Subtotal, &inv.TotalDiscount, &inv.RoundingAdjustment, &inv.GrandTotal,
		&inv.PaymentMethod, &inv.PaymentStatus, &customerName, &inv.Notes,
		&inv.IsCancelled, &cancelledBy, &inv.CancelledAt, &deviceID,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if customerName != nil {
		inv.CustomerName = *customerName
	}
	if cancelledBy != nil {
		inv.CancelledByUserID = *cancelledBy
	}
	if deviceID != nil {
		inv.DeviceID = *deviceID
	}
	return &inv, nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(context.Background(),
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetItems obtiene las líneas de una factura en orden de inserción.
func (r *InvoiceRepo) GetItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, product_id, qty, unit_price, discount, line_total, created_at
		FROM invoice_items WHERE invoice_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	defer rows.Close()
	var items []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.Qty,
			&it.UnitPrice, &it.Discount, &it.LineTotal, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// MarkCancelled marca la factura como anulada. Única mutación permitida
// sobre la cabecera.
func (r *InvoiceRepo) MarkCancelled(invoiceID, cancelledByUserID string, cancelledAt time.Time) error {
	query := `
		UPDATE invoices
		SET is_cancelled = TRUE, cancelled_by_user_id = $2, cancelled_at = $3, updated_at = $3
		WHERE id = $1 AND NOT is_cancelled`
	_, err := r.q.Exec(context.Background(), query, invoiceID, cancelledByUserID, cancelledAt)
	if err != nil {
		return fmt.Errorf("mark invoice cancelled: %w", err)
	}
	return nil
}

// ListByDateRange lista facturas emitidas en el rango, más recientes primero.
func (r *InvoiceRepo) ListByDateRange(from, to time.Time) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE datetime >= $1 AND datetime <= $2 ORDER BY datetime DESC`
	rows, err := r.q.Query(context.Background(), query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
