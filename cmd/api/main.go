package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/pos-ledger-api/internal/application/auth"
	"github.com/jhoicas/pos-ledger-api/internal/application/catalog"
	appledger "github.com/jhoicas/pos-ledger-api/internal/application/ledger"
	"github.com/jhoicas/pos-ledger-api/internal/application/purchasing"
	"github.com/jhoicas/pos-ledger-api/internal/application/reports"
	"github.com/jhoicas/pos-ledger-api/internal/application/returns"
	"github.com/jhoicas/pos-ledger-api/internal/application/sales"
	"github.com/jhoicas/pos-ledger-api/internal/application/settings"
	infrapdf "github.com/jhoicas/pos-ledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-ledger-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/pos-ledger-api/pkg/config"
	"github.com/jhoicas/pos-ledger-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	returnRepo := postgres.NewSalesReturnRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerEngine := appledger.NewEngine(txRunner, movementRepo)
	catalogUC := catalog.NewProductUseCase(txRunner, productRepo, ledgerEngine)
	saleUC := sales.NewSaleUseCase(txRunner, settingsRepo, invoiceRepo, ledgerEngine)
	purchaseUC := purchasing.NewPurchaseUseCase(txRunner, purchaseRepo, ledgerEngine)
	returnUC := returns.NewReturnUseCase(txRunner, returnRepo, ledgerEngine)
	reportsUC := reports.NewUseCase(invoiceRepo, productRepo)
	settingsUC := settings.NewUseCase(settingsRepo)

	receiptGenerator := infrapdf.NewMarotoReceiptGenerator()
	receiptUC := sales.NewReceiptUseCase(invoiceRepo, productRepo, settingsRepo, receiptGenerator)

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Siembra el manager inicial si la tabla de usuarios está vacía.
	if cfg.Boot.Password != "" {
		if seeded, err := authUC.EnsureBootstrapManager(cfg.Boot.Username, cfg.Boot.Password); err != nil {
			log.Error().Err(err).Msg("bootstrap del manager inicial")
		} else if seeded != nil {
			log.Info().Str("username", seeded.Username).Msg("manager inicial creado")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CatalogUC:  catalogUC,
		SaleUC:     saleUC,
		ReceiptUC:  receiptUC,
		PurchaseUC: purchaseUC,
		ReturnUC:   returnUC,
		Ledger:     ledgerEngine,
		ReportsUC:  reportsUC,
		SettingsUC: settingsUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
