package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos atados a la tx y hace
// Commit si fn devuelve nil o Rollback en caso contrario.
func (r *TxRunner) Run(ctx context.Context, fn func(tx *repository.Atomic) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	atomic := &repository.Atomic{
		Products:  NewProductRepository(tx),
		Movements: NewStockMovementRepository(tx),
		Invoices:  NewInvoiceRepository(tx),
		Purchases: NewPurchaseRepository(tx),
		Returns:   NewSalesReturnRepository(tx),
		Sequences: NewSequenceRepository(tx),
	}

	if err := fn(atomic); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
