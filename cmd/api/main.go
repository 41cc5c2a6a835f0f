// @title        Product Marketplace API
// @version      1.0
// @description  Catálogo de productos con flujo de aprobación por roles.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization

//go:generate swag init -g main.go -d ./,../../internal/interfaces/http,../../internal/application/dto -o ../../docs --outputTypes json

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

	appanalytics "github.com/Mutesi02/product-marketplace/internal/application/analytics"
	"github.com/Mutesi02/product-marketplace/internal/application/auth"
	"github.com/Mutesi02/product-marketplace/internal/application/seed"
	"github.com/Mutesi02/product-marketplace/internal/application/usecase"
	infrapdf "github.com/Mutesi02/product-marketplace/internal/infrastructure/pdf"
	"github.com/Mutesi02/product-marketplace/internal/infrastructure/storage"
	httpRouter "github.com/Mutesi02/product-marketplace/internal/interfaces/http"
	"github.com/Mutesi02/product-marketplace/pkg/config"
	"github.com/Mutesi02/product-marketplace/pkg/logger"
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
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	backend, err := storage.Open(ctx, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer backend.Close()

	if cfg.App.SeedDemo {
		res, err := seed.Run(ctx, backend.Tx, log)
		if err != nil {
			log.Fatal().Err(err).Msg("usuarios demo")
		}
		log.Info().Str("business_id", res.BusinessID).Int("created", res.CreatedUsers).Msg("usuarios demo listos")
	}

	authUC := auth.NewAuthUseCase(backend.Users, backend.Businesses, backend.Tx, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	productUC := usecase.NewProductUseCase(backend.Products, backend.Events, backend.Tx, log)
	catalogUC := usecase.NewCatalogUseCase(
		backend.Products, backend.Businesses, infrapdf.NewMarotoCatalogRenderer(),
		cfg.App.Name, cfg.App.PublicURL,
	)
	userUC := usecase.NewUserUseCase(backend.Users, backend.Products, log)
	businessUC := usecase.NewBusinessUseCase(backend.Businesses)
	dashboardUC := appanalytics.NewDashboardUseCase(backend.Products, backend.Users, backend.Events)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("access")))

	// Swagger UI: http://localhost:<port>/docs (solo si existe el swagger.json)
	if _, err := os.Stat(cfg.App.DocsPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.DocsPath,
			Path:     "docs",
			Title:    "Product Marketplace API",
		}))
	} else {
		log.Warn().Str("path", cfg.App.DocsPath).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": backend.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		CatalogUC:   catalogUC,
		UserUC:      userUC,
		BusinessUC:  businessUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
		Cookies: httpRouter.CookieConfig{
			TTL:    cfg.Session.TTL(),
			Secure: cfg.Session.CookieSecure,
		},
		Logger: log,
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
