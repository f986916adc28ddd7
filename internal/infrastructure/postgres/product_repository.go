package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, barcode, category_id, unit, sale_price, cost_price, stock_qty, min_stock_alert, max_discount, is_active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var barcode *string
	err := row.Scan(
		&p.ID, &p.Name, &barcode, &p.CategoryID, &p.Unit, &p.SalePrice, &p.CostPrice,
		&p.StockQty, &p.MinStockAlert, &p.MaxDiscount, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if barcode != nil {
		p.Barcode = *barcode
	}
	return &p, nil
}

// Create persiste un nuevo producto. Barcode vacío se guarda como NULL para
// que el índice único no choque entre productos sin código.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	barcode := (*string)(nil)
	if product.Barcode != "" {
		barcode = &product.Barcode
	}
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, barcode, product.CategoryID, product.Unit,
		product.SalePrice, product.CostPrice, product.StockQty, product.MinStockAlert,
		product.MaxDiscount, product.IsActive, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicatef("código de barras ya registrado: %s", product.Barcode)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByBarcode obtiene un producto por código de barras.
func (r *ProductRepo) GetByBarcode(barcode string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE barcode = $1`, barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by barcode: %w", err)
	}
	return p, nil
}

// GetByIDsForUpdate carga y bloquea las filas de los productos indicados
// (SELECT FOR UPDATE). El ORDER BY id mantiene un orden de adquisición de
// locks estable entre transacciones concurrentes y evita deadlocks.
func (r *ProductRepo) GetByIDsForUpdate(ids []string) (map[string]*entity.Product, error) {
	if len(ids) == 0 {
		return map[string]*entity.Product{}, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	defer rows.Close()
	out := make(map[string]*entity.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// Update actualiza los campos de catálogo. No toca stock_qty ni cost_price:
// esos se mutan con UpdateStock/UpdateCost desde el motor de ledger.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, barcode = $3, category_id = $4, unit = $5, sale_price = $6,
			cost_price = $7, min_stock_alert = $8, max_discount = $9, is_active = $10, updated_at = $11
		WHERE id = $1`
	barcode := (*string)(nil)
	if product.Barcode != "" {
		barcode = &product.Barcode
	}
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, barcode, product.CategoryID, product.Unit, product.SalePrice,
		product.CostPrice, product.MinStockAlert, product.MaxDiscount, product.IsActive, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicatef("código de barras ya registrado: %s", product.Barcode)
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock actualiza solo el saldo del producto (usado por el motor de ledger).
func (r *ProductRepo) UpdateStock(productID string, stockQty decimal.Decimal, updatedAt time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET stock_qty = $2, updated_at = $3 WHERE id = $1`,
		productID, stockQty, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// UpdateCost actualiza solo el costo del producto (política de última compra).
func (r *ProductRepo) UpdateCost(productID string, costPrice decimal.Decimal, updatedAt time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET cost_price = $2, updated_at = $3 WHERE id = $1`,
		productID, costPrice, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	return nil
}

// List lista productos del catálogo con filtros y paginación.
func (r *ProductRepo) List(filter repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	var args []any
	pos := 1
	if filter.Name != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", pos)
		args = append(args, "%"+filter.Name+"%")
		pos++
	}
	if filter.Barcode != "" {
		query += fmt.Sprintf(" AND barcode = $%d", pos)
		args = append(args, filter.Barcode)
		pos++
	}
	if filter.CategoryID != "" {
		query += fmt.Sprintf(" AND category_id = $%d", pos)
		args = append(args, filter.CategoryID)
		pos++
	}
	if filter.ActiveOnly {
		query += " AND is_active"
	}
	query += " ORDER BY name"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
