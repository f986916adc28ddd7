package catalog_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger-api/internal/application/catalog"
	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	appledger "github.com/jhoicas/pos-ledger-api/internal/application/ledger"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
	"github.com/jhoicas/pos-ledger-api/internal/infrastructure/memory"
)

const testUserID = "manager-1"

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func newCatalogEnv() (*memory.Store, *catalog.ProductUseCase) {
	store := memory.NewStore()
	engine := appledger.NewEngine(store, store.Movements())
	return store, catalog.NewProductUseCase(store, store.Products(), engine)
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ConStockInicial_RegistraOpeningBalance(t *testing.T) {
	store, uc := newCatalogEnv()

	resp, err := uc.Create(context.Background(), testUserID, dto.CreateProductRequest{
		Name:         "Café pasado",
		Barcode:      "7750001000011",
		SalePrice:    d("6.50"),
		CostPrice:    dp("4.00"),
		InitialStock: dp("12"),
	})
	require.NoError(t, err)
	assert.True(t, resp.StockQty.Equal(d("12")))
	assert.True(t, resp.IsActive)

	movs, err := store.Movements().ListByProduct(resp.ID, repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeOPENINGBALANCE, movs[0].Type)
	assert.True(t, movs[0].QtyChange.Equal(d("12")))
	assert.True(t, movs[0].NewBalance.Equal(d("12")))
	assert.Equal(t, testUserID, movs[0].UserID)
}

func TestCreate_SinStockInicial_NoGeneraMovimiento(t *testing.T) {
	store, uc := newCatalogEnv()

	resp, err := uc.Create(context.Background(), testUserID, dto.CreateProductRequest{
		Name:      "Té verde",
		SalePrice: d("4"),
	})
	require.NoError(t, err)
	assert.True(t, resp.StockQty.IsZero())

	movs, err := store.Movements().ListByProduct(resp.ID, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestCreate_CodigoDeBarrasDuplicado_RetornaDuplicate(t *testing.T) {
	_, uc := newCatalogEnv()

	_, err := uc.Create(context.Background(), testUserID, dto.CreateProductRequest{
		Name:      "Original",
		Barcode:   "123456789",
		SalePrice: d("5"),
	})
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), testUserID, dto.CreateProductRequest{
		Name:      "Clon",
		Barcode:   "123456789",
		SalePrice: d("5"),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_NombreVacio_RetornaValidation(t *testing.T) {
	_, uc := newCatalogEnv()

	_, err := uc.Create(context.Background(), testUserID, dto.CreateProductRequest{
		Name:      "  ",
		SalePrice: d("5"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_PrecioNoPositivo_RetornaValidation(t *testing.T) {
	_, uc := newCatalogEnv()

	_, err := uc.Create(context.Background(), testUserID, dto.CreateProductRequest{
		Name:      "Gratis",
		SalePrice: d("0"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_NoTocaElStock(t *testing.T) {
	store, uc := newCatalogEnv()

	created, err := uc.Create(context.Background(), testUserID, dto.CreateProductRequest{
		Name:         "Mermelada",
		SalePrice:    d("8"),
		InitialStock: dp("7"),
	})
	require.NoError(t, err)

	nuevoNombre := "Mermelada de fresa"
	nuevoPrecio := d("9")
	resp, err := uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{
		Name:      &nuevoNombre,
		SalePrice: &nuevoPrecio,
	})
	require.NoError(t, err)
	assert.Equal(t, "Mermelada de fresa", resp.Name)
	assert.True(t, resp.SalePrice.Equal(d("9")))

	got, err := store.Products().GetByID(created.ID)
	require.NoError(t, err)
	assert.True(t, got.StockQty.Equal(d("7")), "editar catálogo no muta el saldo")
}

func TestUpdate_BarcodeDeOtroProducto_RetornaDuplicate(t *testing.T) {
	_, uc := newCatalogEnv()

	_, err := uc.Create(context.Background(), testUserID, dto.CreateProductRequest{
		Name:      "Uno",
		Barcode:   "111",
		SalePrice: d("5"),
	})
	require.NoError(t, err)
	dos, err := uc.Create(context.Background(), testUserID, dto.CreateProductRequest{
		Name:      "Dos",
		Barcode:   "222",
		SalePrice: d("5"),
	})
	require.NoError(t, err)

	ajeno := "111"
	_, err = uc.Update(context.Background(), dos.ID, dto.UpdateProductRequest{Barcode: &ajeno})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUpdate_ProductoInexistente_RetornaNotFound(t *testing.T) {
	_, uc := newCatalogEnv()

	nombre := "Fantasma"
	_, err := uc.Update(context.Background(), uuid.New().String(), dto.UpdateProductRequest{Name: &nombre})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// List
// ──────────────────────────────────────────────────────────────────────────────

func TestList_FiltraPorActivos(t *testing.T) {
	_, uc := newCatalogEnv()

	activo, err := uc.Create(context.Background(), testUserID, dto.CreateProductRequest{Name: "Activo", SalePrice: d("5")})
	require.NoError(t, err)
	inactivo := false
	_, err = uc.Create(context.Background(), testUserID, dto.CreateProductRequest{Name: "Inactivo", SalePrice: d("5"), IsActive: &inactivo})
	require.NoError(t, err)

	list, err := uc.List(context.Background(), repository.ProductFilter{ActiveOnly: true, Limit: 50})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, activo.ID, list[0].ID)
}
