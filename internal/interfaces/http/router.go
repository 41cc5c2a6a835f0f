package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/Mutesi02/product-marketplace/internal/application/analytics"
	"github.com/Mutesi02/product-marketplace/internal/application/auth"
	"github.com/Mutesi02/product-marketplace/internal/application/usecase"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	CatalogUC   *usecase.CatalogUseCase
	UserUC      *usecase.UserUseCase
	BusinessUC  *usecase.BusinessUseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
	Cookies     CookieConfig
	Logger      *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger.Component("http")
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.JWTSecret, deps.Cookies, log)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/session", authHandler.Session)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret, deps.AuthUC), authHandler.Me)

	// Catálogo público
	public := api.Group("/public")
	publicHandler := NewPublicHandler(deps.ProductUC, deps.CatalogUC, log)
	public.Get("/products", publicHandler.Products)
	public.Get("/catalog.pdf", publicHandler.CatalogPDF)

	// Rutas protegidas (Bearer o cookie auth_token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.AuthUC), RequireRole(entity.Roles...))

	// Products: el gate de lifecycle decide cada acción; aquí solo se filtra la creación.
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, log)
	products.Post("/", RequireRole(entity.RoleEditor, entity.RoleAdmin), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Patch("/:id", productHandler.Transition)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/history", productHandler.History)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC, log)
	protected.Get("/dashboard", dashboardHandler.Get)
	protected.Get("/dashboard/activities", RequireRole(entity.RoleAdmin, entity.RoleApprover), dashboardHandler.Activities)
	protected.Get("/business", NewBusinessHandler(deps.BusinessUC, log).Current)

	// Users (solo admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC, log)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Patch("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
}
