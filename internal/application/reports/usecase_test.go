package reports_test

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
	"github.com/jhoicas/pos-ledger-api/internal/application/reports"
	"github.com/jhoicas/pos-ledger-api/internal/application/sales"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
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

type reportEnv struct {
	store  *memory.Store
	saleUC *sales.SaleUseCase
	uc     *reports.UseCase
}

func newReportEnv(t *testing.T) *reportEnv {
	t.Helper()
	store := memory.NewStore()
	now := time.Now().UTC()
	require.NoError(t, store.Settings().Save(&entity.Settings{
		StoreName:    "Bodega Central",
		CurrencyCode: "PEN",
		RoundingMode: entity.RoundingNone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
	engine := appledger.NewEngine(store, store.Movements())
	return &reportEnv{
		store:  store,
		saleUC: sales.NewSaleUseCase(store, store.Settings(), store.Invoices(), engine),
		uc:     reports.NewUseCase(store.Invoices(), store.Products()),
	}
}

func (e *reportEnv) seedProduct(t *testing.T, name string, price, cost, stock, minAlert decimal.Decimal) *entity.Product {
	t.Helper()
	now := time.Now().UTC()
	p := &entity.Product{
		ID:            uuid.New().String(),
		Name:          name,
		SalePrice:     price,
		CostPrice:     cost,
		StockQty:      stock,
		MinStockAlert: minAlert,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, e.store.Products().Create(p))
	return p
}

func (e *reportEnv) sell(t *testing.T, lines ...dto.CartLineRequest) *dto.InvoiceResponse {
	t.Helper()
	inv, err := e.saleUC.CreateSale(context.Background(), testCashier, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCASH,
		Items:         lines,
	})
	require.NoError(t, err)
	return inv
}

// rango amplio que cubre todas las ventas del test
func wideRange() (time.Time, time.Time) {
	now := time.Now().UTC()
	return now.Add(-time.Hour), now.Add(time.Hour)
}

// ──────────────────────────────────────────────────────────────────────────────
// SalesSummary
// ──────────────────────────────────────────────────────────────────────────────

func TestSalesSummary_IgnoraFacturasAnuladas(t *testing.T) {
	env := newReportEnv(t)
	p := env.seedProduct(t, "Gaseosa", d("10"), d("6"), d("100"), d("5"))

	env.sell(t, dto.CartLineRequest{ProductID: p.ID, Qty: d("2")})  // 20
	env.sell(t, dto.CartLineRequest{ProductID: p.ID, Qty: d("4")})  // 40
	anulada := env.sell(t, dto.CartLineRequest{ProductID: p.ID, Qty: d("10")})
	require.NoError(t, env.saleUC.CancelInvoice(context.Background(), anulada.ID, "manager-1", "prueba"))

	from, to := wideRange()
	sum, err := env.uc.SalesSummary(context.Background(), from, to)
	require.NoError(t, err)
	assert.True(t, sum.TotalSales.Equal(d("60")), "total: %s", sum.TotalSales)
	assert.Equal(t, 2, sum.InvoicesCount)
	assert.True(t, sum.AvgInvoice.Equal(d("30")))
}

func TestSalesSummary_SinVentas(t *testing.T) {
	env := newReportEnv(t)
	from, to := wideRange()

	sum, err := env.uc.SalesSummary(context.Background(), from, to)
	require.NoError(t, err)
	assert.True(t, sum.TotalSales.IsZero())
	assert.Equal(t, 0, sum.InvoicesCount)
	assert.True(t, sum.AvgInvoice.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// TopProducts
// ──────────────────────────────────────────────────────────────────────────────

func TestTopProducts_OrdenaPorCantidad(t *testing.T) {
	env := newReportEnv(t)
	a := env.seedProduct(t, "Agua", d("2"), d("1"), d("100"), d("5"))
	b := env.seedProduct(t, "Cerveza", d("8"), d("5"), d("100"), d("5"))

	env.sell(t,
		dto.CartLineRequest{ProductID: a.ID, Qty: d("10")},
		dto.CartLineRequest{ProductID: b.ID, Qty: d("3")},
	)
	env.sell(t, dto.CartLineRequest{ProductID: b.ID, Qty: d("2")})

	from, to := wideRange()
	top, err := env.uc.TopProducts(context.Background(), from, to, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Agua", top[0].Name)
	assert.True(t, top[0].Qty.Equal(d("10")))
	assert.Equal(t, "Cerveza", top[1].Name)
	assert.True(t, top[1].Qty.Equal(d("5")), "las ventas del mismo producto se acumulan")
	assert.True(t, top[1].Value.Equal(d("40")))
}

func TestTopProducts_RespetaTopN(t *testing.T) {
	env := newReportEnv(t)
	for i, name := range []string{"Uno", "Dos", "Tres"} {
		p := env.seedProduct(t, name, d("5"), d("3"), d("100"), d("5"))
		env.sell(t, dto.CartLineRequest{ProductID: p.ID, Qty: decimal.NewFromInt(int64(i + 1))})
	}

	from, to := wideRange()
	top, err := env.uc.TopProducts(context.Background(), from, to, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Tres", top[0].Name)
	assert.Equal(t, "Dos", top[1].Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// EstimatedProfit
// ──────────────────────────────────────────────────────────────────────────────

func TestEstimatedProfit_IngresoMenosCostoDeUltimaCompra(t *testing.T) {
	env := newReportEnv(t)
	p := env.seedProduct(t, "Chocolate", d("10"), d("6"), d("100"), d("5"))

	env.sell(t, dto.CartLineRequest{ProductID: p.ID, Qty: d("5")}) // ingreso 50, costo 30

	from, to := wideRange()
	profit, err := env.uc.EstimatedProfit(context.Background(), from, to)
	require.NoError(t, err)
	assert.True(t, profit.Revenue.Equal(d("50")))
	assert.True(t, profit.CostBasis.Equal(d("30")))
	assert.True(t, profit.EstimatedProfit.Equal(d("20")))
}

// ──────────────────────────────────────────────────────────────────────────────
// LowStockAlerts
// ──────────────────────────────────────────────────────────────────────────────

func TestLowStockAlerts_UmbralInclusivo(t *testing.T) {
	env := newReportEnv(t)
	bajo := env.seedProduct(t, "Casi agotado", d("5"), d("3"), d("2"), d("5"))
	enUmbral := env.seedProduct(t, "Justo en umbral", d("5"), d("3"), d("5"), d("5"))
	env.seedProduct(t, "Con stock", d("5"), d("3"), d("50"), d("5"))

	// Un producto inactivo por debajo del umbral no alerta.
	inactivo := env.seedProduct(t, "Descontinuado", d("5"), d("3"), d("0"), d("5"))
	inactivo.IsActive = false
	require.NoError(t, env.store.Products().Update(inactivo))

	alerts, err := env.uc.LowStockAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	ids := map[string]bool{}
	for _, a := range alerts {
		ids[a.ProductID] = true
	}
	assert.True(t, ids[bajo.ID])
	assert.True(t, ids[enUmbral.ID], "el umbral es inclusivo (<=)")
}
