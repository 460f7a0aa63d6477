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
	appanalytics "github.com/tu-usuario/almacen-escolar/internal/application/analytics"
	"github.com/tu-usuario/almacen-escolar/internal/application/auth"
	"github.com/tu-usuario/almacen-escolar/internal/application/requisition"
	"github.com/tu-usuario/almacen-escolar/internal/application/stock"
	"github.com/tu-usuario/almacen-escolar/internal/application/usecase"
	"github.com/tu-usuario/almacen-escolar/internal/infrastructure/cache"
	infrapdf "github.com/tu-usuario/almacen-escolar/internal/infrastructure/pdf"
	"github.com/tu-usuario/almacen-escolar/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/almacen-escolar/internal/interfaces/http"
	"github.com/tu-usuario/almacen-escolar/pkg/config"
	"github.com/tu-usuario/almacen-escolar/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
		App:   cfg.App.Name,
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
	materialRepo := postgres.NewMaterialRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	requisitionRepo := postgres.NewRequisitionRepository(pool)
	departmentRepo := postgres.NewDepartmentRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché Redis del dashboard — opcional: sin REDIS_ADDR se sirve directo de DB.
	var statsCache appanalytics.StatsCache
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewStatsCache(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisCache.Close()
		statsCache = redisCache
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché Redis habilitado")
	}

	authUC := auth.New(userRepo, cfg.JWT, log)
	materialUC := usecase.NewMaterialUsecase(txRunner, materialRepo, requisitionRepo, log)
	departmentUC := usecase.NewDepartmentUsecase(departmentRepo, log)
	userUC := usecase.NewUserUsecase(userRepo, log)
	stockUC := stock.New(txRunner, materialRepo, movementRepo, log)
	requisitionUC := requisition.New(txRunner, requisitionRepo, materialRepo, log)
	dashboardUC := appanalytics.NewDashboardUseCase(materialRepo, movementRepo, requisitionRepo, statsCache, log)

	// PDF: comprobante imprimible de la requisición
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)

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
		Title:    "Almacén Escolar API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		MaterialUC:    materialUC,
		DepartmentUC:  departmentUC,
		UserUC:        userUC,
		StockUC:       stockUC,
		RequisitionUC: requisitionUC,
		DashboardUC:   dashboardUC,
		VoucherPDF:    pdfGenerator,
		JWTSecret:     cfg.JWT.Secret,
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
