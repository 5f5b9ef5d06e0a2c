package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	"github.com/jhoicas/Ventas-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger      *ledger.Service
	CompanyUC   *usecase.CompanyUseCase
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	SettingsUC  *usecase.SettingsUseCase
	QueryUC     *usecase.LedgerQueryUseCase
	JWTSecret   string
	JWTIssuer   string
	Log         zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	log := deps.Log

	// Companies: el alta es pública para poder crear el primer tenant.
	companyHandler := NewCompanyHandler(deps.CompanyUC, log)
	api.Post("/companies", companyHandler.Create)

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	protected.Get("/companies/:id", companyHandler.GetByID)

	admin := RequireRole(jwt.RoleAdmin)
	sellers := RequireRole(jwt.RoleAdmin, jwt.RoleSeller)
	stockKeepers := RequireRole(jwt.RoleAdmin, jwt.RoleWarehouse)

	// Sales / returns
	saleHandler := NewSaleHandler(deps.Ledger, deps.SettingsUC, deps.QueryUC, log)
	protected.Post("/sales", sellers, saleHandler.Create)
	protected.Get("/sales/:id", saleHandler.GetByID)

	returnHandler := NewReturnHandler(deps.Ledger, deps.SettingsUC, deps.QueryUC, log)
	protected.Post("/returns", sellers, returnHandler.Create)
	protected.Get("/returns/:id", returnHandler.GetByID)

	// Inventory
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.SettingsUC, deps.QueryUC, log)
	protected.Post("/inventory/transfers", stockKeepers, inventoryHandler.Transfer)
	protected.Get("/inventory/transfers", inventoryHandler.ListTransfers)
	protected.Post("/inventory/allocations", stockKeepers, inventoryHandler.Allocate)
	protected.Post("/purchases", stockKeepers, inventoryHandler.Purchase)

	// Products
	productHandler := NewProductHandler(deps.ProductUC, deps.Ledger, log)
	protected.Post("/products", stockKeepers, productHandler.Create)
	protected.Get("/products", productHandler.List)
	protected.Get("/products/:id", productHandler.GetByID)
	protected.Put("/products/:id", stockKeepers, productHandler.Update)
	protected.Delete("/products/:id", admin, productHandler.Delete)
	protected.Get("/products/:id/stock", productHandler.Stock)
	protected.Get("/products/:id/movements", inventoryHandler.Movements)

	// Warehouses
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, deps.Ledger, log)
	protected.Post("/warehouses", admin, warehouseHandler.Create)
	protected.Get("/warehouses", warehouseHandler.List)
	protected.Get("/warehouses/:id", warehouseHandler.GetByID)
	protected.Put("/warehouses/:id", admin, warehouseHandler.Update)
	protected.Post("/warehouses/:id/primary", admin, warehouseHandler.SetPrimary)
	protected.Delete("/warehouses/:id", admin, warehouseHandler.Delete)

	// Settings
	settingsHandler := NewSettingsHandler(deps.SettingsUC, log)
	protected.Get("/settings/ledger", settingsHandler.Get)
	protected.Put("/settings/ledger", admin, settingsHandler.Update)
}
