package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	appledger "github.com/jhoicas/pos-ledger-api/internal/application/ledger"
	"github.com/jhoicas/pos-ledger-api/internal/application/sales"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
	"github.com/jhoicas/pos-ledger-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testCashier = "cashier-1"

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// saleEnv agrupa el store en memoria y el caso de uso bajo prueba.
type saleEnv struct {
	store *memory.Store
	uc    *sales.SaleUseCase
}

func newSaleEnv(t *testing.T, roundingMode string) *saleEnv {
	t.Helper()
	store := memory.NewStore()
	now := time.Now().UTC()
	require.NoError(t, store.Settings().Save(&entity.Settings{
		StoreName:    "Bodega Central",
		CurrencyCode: "PEN",
		RoundingMode: roundingMode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
	engine := appledger.NewEngine(store, store.Movements())
	return &saleEnv{
		store: store,
		uc:    sales.NewSaleUseCase(store, store.Settings(), store.Invoices(), engine),
	}
}

func (e *saleEnv) seedProduct(t *testing.T, name string, price, stock decimal.Decimal) *entity.Product {
	t.Helper()
	now := time.Now().UTC()
	p := &entity.Product{
		ID:            uuid.New().String(),
		Name:          name,
		SalePrice:     price,
		CostPrice:     price.Div(d("2")),
		StockQty:      stock,
		MinStockAlert: d("2"),
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, e.store.Products().Create(p))
	return p
}

func (e *saleEnv) stockOf(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	p, err := e.store.Products().GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.StockQty
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateSale
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_CaminoFeliz(t *testing.T) {
	env := newSaleEnv(t, entity.RoundingNone)
	a := env.seedProduct(t, "Gaseosa 500ml", d("10"), d("20"))
	b := env.seedProduct(t, "Galletas", d("5"), d("20"))
	descuento := d("1")

	inv, err := env.uc.CreateSale(context.Background(), testCashier, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCASH,
		Items: []dto.CartLineRequest{
			{ProductID: a.ID, Qty: d("2")},
			{ProductID: b.ID, Qty: d("1"), Discount: &descuento},
		},
	})
	require.NoError(t, err)

	// Totales: 2·10 + 1·5 = 25 de subtotal, 1 de descuento, 24 a pagar.
	assert.True(t, inv.Subtotal.Equal(d("25")), "subtotal: %s", inv.Subtotal)
	assert.True(t, inv.TotalDiscount.Equal(d("1")))
	assert.True(t, inv.RoundingAdjustment.IsZero())
	assert.True(t, inv.GrandTotal.Equal(d("24")))
	assert.Equal(t, "INV-000001", inv.Number)
	assert.Equal(t, entity.PaymentStatusPAID, inv.PaymentStatus)
	assert.Equal(t, testCashier, inv.CashierUserID)
	require.Len(t, inv.Items, 2)

	// Efectos de stock y ledger.
	assert.True(t, env.stockOf(t, a.ID).Equal(d("18")))
	assert.True(t, env.stockOf(t, b.ID).Equal(d("19")))

	movs, err := env.store.Movements().ListByProduct(a.ID, repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeSALE, movs[0].Type)
	assert.True(t, movs[0].QtyChange.Equal(d("-2")))
	assert.Equal(t, entity.ReferenceTypeINVOICE, movs[0].ReferenceType)
	assert.Equal(t, inv.ID, movs[0].ReferenceID)
}

func TestCreateSale_NumeracionConsecutiva(t *testing.T) {
	env := newSaleEnv(t, entity.RoundingNone)
	p := env.seedProduct(t, "Pan", d("2"), d("50"))

	for i, want := range []string{"INV-000001", "INV-000002", "INV-000003"} {
		inv, err := env.uc.CreateSale(context.Background(), testCashier, dto.CreateSaleRequest{
			PaymentMethod: entity.PaymentMethodCASH,
			Items:         []dto.CartLineRequest{{ProductID: p.ID, Qty: d("1")}},
		})
		require.NoError(t, err, "venta %d", i+1)
		assert.Equal(t, want, inv.Number)
	}
}

func TestCreateSale_RedondeoNearest(t *testing.T) {
	env := newSaleEnv(t, entity.RoundingNearest)
	p := env.seedProduct(t, "Detergente", d("12.20"), d("10"))

	inv, err := env.uc.CreateSale(context.Background(), testCashier, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCASH,
		Items:         []dto.CartLineRequest{{ProductID: p.ID, Qty: d("2")}},
	})
	require.NoError(t, err)

	// 24.40 → 24 con ajuste −0.40.
	assert.True(t, inv.Subtotal.Equal(d("24.40")))
	assert.True(t, inv.GrandTotal.Equal(d("24")), "grand_total: %s", inv.GrandTotal)
	assert.True(t, inv.RoundingAdjustment.Equal(d("-0.40")), "ajuste: %s", inv.RoundingAdjustment)
}

func TestCreateSale_RedondeoCustom_RetornaValidation(t *testing.T) {
	env := newSaleEnv(t, entity.RoundingCustom)
	p := env.seedProduct(t, "Yogurt", d("4"), d("10"))

	_, err := env.uc.CreateSale(context.Background(), testCashier, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCASH,
		Items:         []dto.CartLineRequest{{ProductID: p.ID, Qty: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// La venta no debe dejar rastro: ni stock descontado ni movimientos.
	assert.True(t, env.stockOf(t, p.ID).Equal(d("10")))
	movs, _ := env.store.Movements().ListByProduct(p.ID, repository.MovementFilter{})
	assert.Empty(t, movs)
}

func TestCreateSale_TiendaSinConfigurar_RetornaValidation(t *testing.T) {
	store := memory.NewStore() // sin settings
	engine := appledger.NewEngine(store, store.Movements())
	uc := sales.NewSaleUseCase(store, store.Settings(), store.Invoices(), engine)

	now := time.Now().UTC()
	p := &entity.Product{ID: uuid.New().String(), Name: "Leche", SalePrice: d("3"), StockQty: d("5"), IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Products().Create(p))

	_, err := uc.CreateSale(context.Background(), testCashier, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCASH,
		Items:         []dto.CartLineRequest{{ProductID: p.ID, Qty: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateSale_SinLineas_RetornaValidation(t *testing.T) {
	env := newSaleEnv(t, entity.RoundingNone)

	_, err := env.uc.CreateSale(context.Background(), testCashier, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCASH,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateSale_MetodoPagoDesconocido_RetornaValidation(t *testing.T) {
	env := newSaleEnv(t, entity.RoundingNone)
	p := env.seedProduct(t, "Atún", d("6"), d("10"))

	_, err := env.uc.CreateSale(context.Background(), testCashier, dto.CreateSaleRequest{
		PaymentMethod: "TRUEQUE",
		Items:         []dto.CartLineRequest{{ProductID: p.ID, Qty: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateSale_ProductoInactivo_RetornaValidation(t *testing.T) {
	env := newSaleEnv(t, entity.RoundingNone)
	p := env.seedProduct(t, "Descontinuado", d("9"), d("10"))
	p.IsActive = false
	require.NoError(t, env.store.Products().Update(p))

	_, err := env.uc.CreateSale(context.Background(), testCashier, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCASH,
		Items:         []dto.CartLineRequest{{ProductID: p.ID, Qty: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateSale_ProductoInexistente_RetornaNotFound(t *testing.T) {
	env := newSaleEnv(t, entity.RoundingNone)

	_, err := env.uc.CreateSale(context.Background(), testCashier, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCASH,
		Items:         []dto.CartLineRequest{{ProductID: uuid.New().String(), Qty: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardia de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_StockInsuficiente_RetornaStock(t *testing.T) {
	env := newSaleEnv(t, entity.RoundingNone)
	p := env.seedProduct(t, "Cerveza", d("8"), d("3"))

	_, err := env.uc.CreateSale(context.Background(), testCashier, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCASH,
		Items:         []dto.CartLineRequest{{ProductID: p.ID, Qty: d("4")}},
	})
	assert.ErrorIs(t, err, domain.ErrStock)
	assert.True(t, env.stockOf(t, p.ID).Equal(d("3")), "la venta rechazada no toca el stock")
}

// Dos líneas del mismo producto se acumulan contra el saldo disponible: cada
// una cabe por separado pero juntas exceden el stock.
func TestCreateSale_LineasDuplicadas_GuardiaAcumulada(t *testing.T) {
	env := newSaleEnv(t, entity.RoundingNone)
	p := env.seedProduct(t, "Chocolate", d("7"), d("5"))

	_, err := env.uc.CreateSale(context.Background(), testCashier, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCASH,
		Items: []dto.CartLineRequest{
			{ProductID: p.ID, Qty: d("3")},
			{ProductID: p.ID, Qty: d("3")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrStock)
}

func TestCreateSale_OverrideDeGerente_PermiteStockNegativo(t *testing.T) {
	env := newSaleEnv(t, entity.RoundingNone)
	p := env.seedProduct(t, "Hielo", d("2"), d("1"))

	inv, err := env.uc.CreateSale(context.Background(), testCashier, dto.CreateSaleRequest{
		PaymentMethod:        entity.PaymentMethodCASH,
		AllowManagerOverride: true,
		Items:                []dto.CartLineRequest{{ProductID: p.ID, Qty: d("3")}},
	})
	require.NoError(t, err)
	assert.True(t, env.stockOf(t, p.ID).Equal(d("-2")))

	movs, err := env.store.Movements().ListByProduct(p.ID, repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Contains(t, movs[0].Notes, "autorización de gerente")
	assert.Equal(t, inv.ID, movs[0].ReferenceID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pago a crédito y precio manual
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_Credito_QuedaUnpaid(t *testing.T) {
	env := newSaleEnv(t, entity.RoundingNone)
	p := env.seedProduct(t, "Aceite", d("15"), d("10"))

	inv, err := env.uc.CreateSale(context.Background(), testCashier, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCREDIT,
		CustomerName:  "María Quispe",
		Items:         []dto.CartLineRequest{{ProductID: p.ID, Qty: d("1")}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusUNPAID, inv.PaymentStatus)
	assert.Equal(t, "María Quispe", inv.CustomerName)
}

func TestCreateSale_PrecioManualSobreescribeCatalogo(t *testing.T) {
	env := newSaleEnv(t, entity.RoundingNone)
	p := env.seedProduct(t, "Promoción", d("10"), d("10"))
	manual := d("8.50")

	inv, err := env.uc.CreateSale(context.Background(), testCashier, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCASH,
		Items:         []dto.CartLineRequest{{ProductID: p.ID, Qty: d("2"), UnitPrice: &manual}},
	})
	require.NoError(t, err)
	assert.True(t, inv.GrandTotal.Equal(d("17")))
	require.Len(t, inv.Items, 1)
	assert.True(t, inv.Items[0].UnitPrice.Equal(d("8.50")))
}

// ──────────────────────────────────────────────────────────────────────────────
// CancelInvoice
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelInvoice_ReponeStockYEsIdempotente(t *testing.T) {
	env := newSaleEnv(t, entity.RoundingNone)
	p := env.seedProduct(t, "Vino", d("30"), d("10"))

	inv, err := env.uc.CreateSale(context.Background(), testCashier, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCASH,
		Items:         []dto.CartLineRequest{{ProductID: p.ID, Qty: d("4")}},
	})
	require.NoError(t, err)
	require.True(t, env.stockOf(t, p.ID).Equal(d("6")))

	require.NoError(t, env.uc.CancelInvoice(context.Background(), inv.ID, "manager-1", "cliente se arrepintió"))
	assert.True(t, env.stockOf(t, p.ID).Equal(d("10")), "la anulación repone lo vendido")

	got, err := env.uc.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCancelled)

	// La reposición queda como ADJUSTMENT positivo referenciando la factura.
	movs, err := env.store.Movements().ListByProduct(p.ID, repository.MovementFilter{Type: entity.MovementTypeADJUSTMENT})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.True(t, movs[0].QtyChange.Equal(d("4")))
	assert.Equal(t, inv.ID, movs[0].ReferenceID)

	// Segunda anulación: no-op, el stock no se repone dos veces.
	require.NoError(t, env.uc.CancelInvoice(context.Background(), inv.ID, "manager-1", "doble clic"))
	assert.True(t, env.stockOf(t, p.ID).Equal(d("10")))
	movs, _ = env.store.Movements().ListByProduct(p.ID, repository.MovementFilter{Type: entity.MovementTypeADJUSTMENT})
	assert.Len(t, movs, 1)
}

func TestCancelInvoice_FacturaInexistente_RetornaNotFound(t *testing.T) {
	env := newSaleEnv(t, entity.RoundingNone)
	err := env.uc.CancelInvoice(context.Background(), uuid.New().String(), "manager-1", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetInvoice_Inexistente_RetornaNotFound(t *testing.T) {
	env := newSaleEnv(t, entity.RoundingNone)
	_, err := env.uc.GetInvoice(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
