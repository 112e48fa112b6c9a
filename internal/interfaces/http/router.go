package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/copypoint/copypoint-api/internal/application/auth"
	"github.com/copypoint/copypoint-api/internal/application/ledger"
	"github.com/copypoint/copypoint-api/internal/application/reports"
	"github.com/copypoint/copypoint-api/internal/application/usecase"
	"github.com/copypoint/copypoint-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	ItemUC           *usecase.ItemUseCase
	RegisterMovement *ledger.RegisterMovementUseCase
	StockUC          *ledger.StockUseCase
	QueryUC          *ledger.MovementQueryUseCase
	LowStockUC       *ledger.LowStockUseCase
	ExportUC         *reports.ExportUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de artículos. Crear/modificar requiere admin o bodeguero.
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	manageItems := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	items.Post("/", manageItems, itemHandler.Create)
	items.Put("/:id", manageItems, itemHandler.Update)
	items.Get("/", itemHandler.List)
	items.Get("/search", itemHandler.Search)
	items.Get("/:id", itemHandler.GetByID)

	// Libro de movimientos. Cualquier rol autenticado puede registrar entradas
	// y ventas; los ajustes manuales tienen ruta propia restringida a admin
	// (el caso de uso vuelve a verificar el privilegio).
	ledgerGroup := protected.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.RegisterMovement, deps.StockUC, deps.QueryUC, deps.LowStockUC)
	ledgerGroup.Post("/movements", ledgerHandler.RegisterMovement)
	ledgerGroup.Post("/movements/batch", ledgerHandler.RegisterMovementBatch)
	ledgerGroup.Post("/adjustments", RequireRole(entity.RoleAdmin), ledgerHandler.RegisterAdjustment)
	ledgerGroup.Get("/movements", ledgerHandler.QueryMovements)
	ledgerGroup.Get("/summary", ledgerHandler.MovementSummary)
	ledgerGroup.Get("/low-stock", ledgerHandler.LowStock)

	// Stock derivado por artículo.
	items.Get("/:id/stock", ledgerHandler.GetStock)

	// Reportes descargables.
	reportsGroup := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ExportUC)
	reportsGroup.Get("/movements.pdf", reportHandler.MovementsPDF)
	reportsGroup.Get("/movements.xlsx", reportHandler.MovementsXLSX)
	reportsGroup.Get("/low-stock.xlsx", reportHandler.LowStockXLSX)
}
