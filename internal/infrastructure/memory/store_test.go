package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
	"github.com/jhoicas/pos-ledger-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func seedProduct(t *testing.T, store *memory.Store, stock decimal.Decimal) *entity.Product {
	t.Helper()
	now := time.Now().UTC()
	p := &entity.Product{
		ID:        uuid.New().String(),
		Name:      "Producto de prueba",
		SalePrice: d("10"),
		StockQty:  stock,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.Products().Create(p))
	return p
}

// Si fn devuelve error, ninguna escritura de la transacción queda visible:
// ni stock, ni movimientos, ni consecutivos consumidos.
func TestRun_ErrorRevierteTodo(t *testing.T) {
	store := memory.NewStore()
	p := seedProduct(t, store, d("10"))
	boom := errors.New("boom")

	now := time.Now().UTC()
	err := store.Run(context.Background(), func(tx *repository.Atomic) error {
		if err := tx.Products.UpdateStock(p.ID, d("99"), now); err != nil {
			return err
		}
		if err := tx.Movements.Create(&entity.StockMovement{
			ID:        uuid.New().String(),
			Datetime:  now,
			Type:      entity.MovementTypeADJUSTMENT,
			ProductID: p.ID,
			QtyChange: d("89"),
			UserID:    "u1",
			CreatedAt: now,
		}); err != nil {
			return err
		}
		if _, err := tx.Sequences.Next(repository.SequenceInvoice); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Products().GetByID(p.ID)
	require.NoError(t, err)
	assert.True(t, got.StockQty.Equal(d("10")), "el stock vuelve al valor previo")

	movs, err := store.Movements().ListByProduct(p.ID, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs, "el movimiento no sobrevive al rollback")

	// El consecutivo no quedó consumido: la próxima transacción emite el 1.
	err = store.Run(context.Background(), func(tx *repository.Atomic) error {
		seq, err := tx.Sequences.Next(repository.SequenceInvoice)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(1), seq)
		return nil
	})
	require.NoError(t, err)
}

func TestRun_CommitDejaLasEscriturasVisibles(t *testing.T) {
	store := memory.NewStore()
	p := seedProduct(t, store, d("5"))

	now := time.Now().UTC()
	err := store.Run(context.Background(), func(tx *repository.Atomic) error {
		return tx.Products.UpdateStock(p.ID, d("8"), now)
	})
	require.NoError(t, err)

	got, err := store.Products().GetByID(p.ID)
	require.NoError(t, err)
	assert.True(t, got.StockQty.Equal(d("8")))
}

// Las lecturas fuera de transacción devuelven copias: mutarlas no contamina
// el estado del store.
func TestGetByID_DevuelveCopia(t *testing.T) {
	store := memory.NewStore()
	p := seedProduct(t, store, d("5"))

	copia, err := store.Products().GetByID(p.ID)
	require.NoError(t, err)
	copia.StockQty = d("1000")

	fresco, err := store.Products().GetByID(p.ID)
	require.NoError(t, err)
	assert.True(t, fresco.StockQty.Equal(d("5")))
}

func TestMarkCancelled_EsIdempotente(t *testing.T) {
	store := memory.NewStore()
	now := time.Now().UTC()
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		Number:        "INV-000001",
		Datetime:      now,
		CashierUserID: "u1",
		PaymentMethod: entity.PaymentMethodCASH,
		PaymentStatus: entity.PaymentStatusPAID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, store.Invoices().Create(inv))

	require.NoError(t, store.Invoices().MarkCancelled(inv.ID, "manager-1", now))
	require.NoError(t, store.Invoices().MarkCancelled(inv.ID, "manager-2", now.Add(time.Minute)))

	got, err := store.Invoices().GetByID(inv.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsCancelled)
	assert.Equal(t, "manager-1", got.CancelledByUserID, "la segunda anulación no pisa a la primera")
}
