package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/chemflo-api/internal/application/auth"
	"github.com/jhoicas/chemflo-api/internal/application/inventory"
	"github.com/jhoicas/chemflo-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/chemflo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/chemflo-api/internal/infrastructure/store"
	httpRouter "github.com/jhoicas/chemflo-api/internal/interfaces/http"
	"github.com/jhoicas/chemflo-api/internal/scheduler"
	"github.com/jhoicas/chemflo-api/pkg/config"
	"github.com/jhoicas/chemflo-api/pkg/logger"
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
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	// Cantidades como números JSON (no strings)
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	db, err := store.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("conexión a la base de datos")
	}
	defer db.Close()

	stockUC := inventory.NewStockUseCase(db.TxRunner, infrapdf.NewStockReportGenerator(), log)
	productUC := usecase.NewProductUseCase(db.TxRunner, db.Products, log)
	categoryUC := usecase.NewCategoryUseCase(db.Categories)
	authUC := auth.NewAuthUseCase(db.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Alerta diaria de stock bajo
	sched := scheduler.New(cfg.Scheduler.LowStockAlertCron, stockUC, log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("iniciar scheduler")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "ChemFlo API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CategoryUC: categoryUC,
		ProductUC:  productUC,
		StockUC:    stockUC,
		JWTSecret:  cfg.JWT.Secret,
		AppName:    cfg.App.Name,
		Log:        log,
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
	sched.Stop()

	log.Info().Msg("aplicación detenida")
}
