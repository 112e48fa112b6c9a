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

	_ "github.com/copypoint/copypoint-api/docs"
	"github.com/copypoint/copypoint-api/internal/application/auth"
	"github.com/copypoint/copypoint-api/internal/application/ledger"
	appreports "github.com/copypoint/copypoint-api/internal/application/reports"
	"github.com/copypoint/copypoint-api/internal/application/usecase"
	"github.com/copypoint/copypoint-api/internal/infrastructure/postgres"
	infrareports "github.com/copypoint/copypoint-api/internal/infrastructure/reports"
	httpRouter "github.com/copypoint/copypoint-api/internal/interfaces/http"
	"github.com/copypoint/copypoint-api/pkg/config"
	"github.com/copypoint/copypoint-api/pkg/logger"
)

// @title        Copypoint API
// @version      1.0
// @description  API de inventario y ventas para pequeños comercios: libro de movimientos, stock derivado y alertas de reposición.
// @BasePath     /
// @securityDefinitions.apikey Bearer
// @in    header
// @name  Authorization
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

	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout.Milliseconds())

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	itemUC := usecase.NewItemUseCase(itemRepo)

	registerMovementUC := ledger.NewRegisterMovementUseCase(txRunner)
	stockUC := ledger.NewStockUseCase(txRunner)
	queryUC := ledger.NewMovementQueryUseCase(txRunner, ledger.QueryConfig{
		MaxSpanDays:  cfg.Ledger.QueryMaxSpanDays,
		DefaultLimit: cfg.Ledger.QueryDefaultLimit,
		MaxLimit:     cfg.Ledger.QueryMaxLimit,
	})
	lowStockUC := ledger.NewLowStockUseCase(txRunner, cfg.Ledger.ConsumptionWindowDays)

	pdfGenerator := infrareports.NewMarotoReportGenerator(cfg.App.Name)
	sheetGenerator := infrareports.NewExcelReportGenerator()
	exportUC := appreports.NewExportUseCase(queryUC, lowStockUC, itemRepo, pdfGenerator, sheetGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Copypoint API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		ItemUC:           itemUC,
		RegisterMovement: registerMovementUC,
		StockUC:          stockUC,
		QueryUC:          queryUC,
		LowStockUC:       lowStockUC,
		ExportUC:         exportUC,
		JWTSecret:        cfg.JWT.Secret,
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
