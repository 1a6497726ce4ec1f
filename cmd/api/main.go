package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/lock"
	infrapdf "github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
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

	// Lock de recepción: Redis si está configurado (varias réplicas), si no en proceso.
	var locker purchasing.Locker
	if cfg.Redis.Enabled() {
		rdb, err := lock.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, cfg.Purchase.ReceiveLockTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("lock de recepción en Redis")
	} else {
		locker = lock.NewLocalLocker()
		log.Warn().Msg("REDIS_ADDR vacío: lock de recepción en proceso, usar una sola réplica")
	}

	stockRepo := postgres.NewStockItemRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	alertRepo := postgres.NewStockAlertRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	zl := log.Zerolog()

	ledgerUC := inventory.NewLedgerUseCase(txRunner, stockRepo, supplierRepo, zl)
	bulkUC := inventory.NewBulkAdjustUseCase(ledgerUC, stockRepo, cfg.Inventory.BatchMaxItems, zl)
	movementsUC := inventory.NewMovementQueryUseCase(stockRepo, movementRepo, xlsx.NewMovementExporter())
	alertUC := inventory.NewAlertUseCase(alertRepo, stockRepo, zl)

	orderUC := purchasing.NewOrderUseCase(txRunner, orderRepo, stockRepo, supplierRepo, cfg.Purchase.NumberPrefix, zl)
	receiveUC := purchasing.NewReceiveUseCase(txRunner, orderRepo, ledgerUC, locker, zl)
	// PDF: orden de compra imprimible para el proveedor
	poPDFUC := purchasing.NewPDFUseCase(orderRepo, supplierRepo, infrapdf.NewMarotoPDFGenerator(cfg.App.Name))
	supplierUC := purchasing.NewSupplierUseCase(supplierRepo, zl)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:      ledgerUC,
		BulkAdjust:  bulkUC,
		Movements:   movementsUC,
		Alerts:      alertUC,
		Orders:      orderUC,
		Receive:     receiveUC,
		PurchasePDF: poPDFUC,
		Suppliers:   supplierUC,
		JWTSecret:   cfg.JWT.Secret,
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
