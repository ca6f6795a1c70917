package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventario-admin/internal/application/auth"
	"github.com/jhoicas/inventario-admin/internal/application/inventory"
	"github.com/jhoicas/inventario-admin/internal/application/usecase"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	StockUC    *inventory.StockUseCase
	ProductUC  *usecase.ProductUseCase
	CategoryUC *usecase.CategoryUseCase
	SupplierUC *usecase.SupplierUseCase
	JWTSecret  string
	// LoginLimiter nil desactiva el rate limiting del login.
	LoginLimiter tokenTaker
	Log          *logger.Logger
}

// NewApp construye la aplicación Fiber con los middlewares comunes y /health.
func NewApp(appName string, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: fiberErrorHandler,
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": appName})
	})
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	api := app.Group("/api")
	authn := AccountMiddleware(deps.JWTSecret, deps.UserUC)
	adminOnly := RequireRole(entity.RoleSuperAdmin, entity.RoleAdmin)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup := api.Group("/auth")
	if deps.LoginLimiter != nil {
		authGroup.Post("/login", RateLimit(deps.LoginLimiter, deps.Log), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Get("/me", authn, authHandler.Me)
	authGroup.Put("/profile", authn, authHandler.UpdateProfile)

	// Users (ADMIN y SUPER_ADMIN; la jerarquía fina la decide el caso de uso)
	users := api.Group("/users", authn, adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/stats", userHandler.Stats)
	users.Get("/role/:role", userHandler.ListByRole)
	users.Get("/:id", userHandler.GetByID)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Patch("/:id/role", userHandler.ChangeRole)
	users.Patch("/:id/status", userHandler.ToggleStatus)
	users.Patch("/:id/reset-password", userHandler.ResetPassword)
	users.Delete("/:id", userHandler.Delete)

	// Stocks (todos los roles leen, reabastecen y consumen; corrección solo ADMIN+)
	stocks := api.Group("/stocks", authn)
	stockHandler := NewStockHandler(deps.StockUC)
	stocks.Get("/", stockHandler.List)
	stocks.Get("/low-stock", stockHandler.ListLowStock)
	stocks.Get("/low-stock/report", stockHandler.LowStockReport)
	stocks.Get("/out-of-stock", stockHandler.ListOutOfStock)
	stocks.Get("/summary", stockHandler.Summary)
	stocks.Get("/product/:productId", stockHandler.GetByProductID)
	stocks.Post("/product/:productId/add", stockHandler.Add)
	stocks.Post("/product/:productId/reduce", stockHandler.Reduce)
	stocks.Get("/:id", stockHandler.GetByID)
	stocks.Put("/:id", adminOnly, stockHandler.Replace)

	// Catálogo: lectura para todos, escritura ADMIN+
	products := api.Group("/products", authn)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	categories := api.Group("/categories", authn)
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", adminOnly, categoryHandler.Create)
	categories.Put("/:id", adminOnly, categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	suppliers := api.Group("/suppliers", authn)
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", adminOnly, supplierHandler.Create)
	suppliers.Put("/:id", adminOnly, supplierHandler.Update)
	suppliers.Delete("/:id", adminOnly, supplierHandler.Delete)
}
