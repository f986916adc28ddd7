package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger-api/internal/application/auth"
	"github.com/jhoicas/pos-ledger-api/internal/application/catalog"
	appledger "github.com/jhoicas/pos-ledger-api/internal/application/ledger"
	"github.com/jhoicas/pos-ledger-api/internal/application/purchasing"
	"github.com/jhoicas/pos-ledger-api/internal/application/reports"
	"github.com/jhoicas/pos-ledger-api/internal/application/returns"
	"github.com/jhoicas/pos-ledger-api/internal/application/sales"
	"github.com/jhoicas/pos-ledger-api/internal/application/settings"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.UseCase
	CatalogUC  *catalog.ProductUseCase
	SaleUC     *sales.SaleUseCase
	ReceiptUC  *sales.ReceiptUseCase
	PurchaseUC *purchasing.PurchaseUseCase
	ReturnUC   *returns.ReturnUseCase
	Ledger     *appledger.Engine
	ReportsUC  *reports.UseCase
	SettingsUC *settings.UseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	managerOnly := RequireRole(entity.RoleManager)

	// Catálogo de productos
	products := protected.Group("/products")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	products.Post("/", catalogHandler.Create)
	products.Get("/", catalogHandler.List)
	products.Get("/:id", catalogHandler.GetByID)
	products.Put("/:id", catalogHandler.Update)

	// Ledger de stock
	ledgerHandler := NewLedgerHandler(deps.Ledger)
	products.Get("/:id/movements", ledgerHandler.GetLedger)
	protected.Post("/adjustments", managerOnly, ledgerHandler.Adjust)

	// Ventas
	salesGroup := protected.Group("/sales")
	posHandler := NewPOSHandler(deps.SaleUC, deps.ReceiptUC)
	salesGroup.Post("/", posHandler.CreateSale)
	salesGroup.Get("/:id", posHandler.GetInvoice)
	salesGroup.Get("/:id/receipt", posHandler.GetReceiptPDF)
	salesGroup.Post("/:id/cancel", managerOnly, posHandler.CancelInvoice)

	// Compras a proveedor
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	protected.Post("/purchases", purchaseHandler.Create)

	// Devoluciones
	returnHandler := NewReturnHandler(deps.ReturnUC)
	protected.Post("/returns", returnHandler.Create)

	// Reportes (solo manager)
	reportsGroup := protected.Group("/reports", managerOnly)
	reportHandler := NewReportHandler(deps.ReportsUC)
	reportsGroup.Get("/sales-summary", reportHandler.SalesSummary)
	reportsGroup.Get("/top-products", reportHandler.TopProducts)
	reportsGroup.Get("/profit", reportHandler.EstimatedProfit)
	reportsGroup.Get("/low-stock", reportHandler.LowStock)

	// Configuración de la tienda
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	protected.Get("/settings", settingsHandler.Get)
	protected.Put("/settings", managerOnly, settingsHandler.Save)
}
