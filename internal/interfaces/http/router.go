package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/chemflo-api/internal/application/auth"
	"github.com/jhoicas/chemflo-api/internal/application/inventory"
	"github.com/jhoicas/chemflo-api/internal/application/usecase"
	"github.com/jhoicas/chemflo-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CategoryUC *usecase.CategoryUseCase
	ProductUC  *usecase.ProductUseCase
	StockUC    *inventory.StockUseCase
	JWTSecret  string
	AppName    string
	Log        *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	// Auth: login público, perfil protegido
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/profile", authHandler.Profile)

	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.Log)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.StockUC, deps.Log)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/low-stock", productHandler.LowStock) // antes de /:id
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.Log)
	inv.Get("/", inventoryHandler.List)
	inv.Get("/stats", inventoryHandler.Stats)
	inv.Get("/movements", inventoryHandler.ListMovements)
	inv.Get("/report.pdf", inventoryHandler.ReportPDF)
	inv.Get("/:productId", inventoryHandler.GetByProductID)
	inv.Get("/:productId/reconcile", inventoryHandler.Reconcile)
	inv.Post("/:productId/stock", inventoryHandler.UpdateStock)
}
