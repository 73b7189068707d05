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

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/notification"
	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain/access"
	stockrules "github.com/jhoicas/estoque-api/internal/domain/inventory"
	"github.com/jhoicas/estoque-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/estoque-api/internal/interfaces/http"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/jwt"
	"github.com/jhoicas/estoque-api/pkg/logger"
	"github.com/jhoicas/estoque-api/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("stock_policy", cfg.Stock.Policy).
		Msg("iniciando aplicación")

	if cfg.Auth.JWTSecret == "" {
		log.Fatal().Msg("AUTH_JWT_SECRET es requerido")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	v, err := validator.NewDefaultValidator()
	if err != nil {
		log.Fatal().Err(err).Msg("validador")
	}

	loc := cfg.App.Location()
	policy := stockrules.PolicyFromConfig(cfg.Stock.Policy, int64(cfg.Stock.AbsoluteThreshold))

	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	unitRepo := postgres.NewUnitRepository(pool)
	unitStockRepo := postgres.NewUnitStockRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Un único LISTEN alimenta todos los streams SSE.
	broker := notification.NewBroker(0)
	listenCtx, stopListener := context.WithCancel(ctx)
	defer stopListener()
	go postgres.NewNotificationListener(pool, broker, log.Component("notification-listener")).Run(listenCtx)

	ledger := inventory.NewRegisterMovementUseCase(txRunner, unitRepo)
	movementQuery := inventory.NewMovementQueryUseCase(movementRepo, loc)
	profileUC := usecase.NewProfileUseCase(profileRepo, access.Owners(cfg.Auth.OwnerEmails))
	movementUC := usecase.NewMovementUseCase(ledger, movementQuery, loc)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		// Sin WriteTimeout: el stream SSE mantiene la respuesta abierta.
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.NewErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Estoque API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Auth: httpRouter.AuthConfig{
			Secret:   cfg.Auth.JWTSecret,
			Verify:   jwt.VerifyOptions{Issuer: cfg.Auth.Issuer, Audience: cfg.Auth.Audience},
			Profiles: profileUC,
		},
		ProductUC:   usecase.NewProductUseCase(productRepo, categoryRepo, ledger, policy),
		CategoryUC:  usecase.NewCategoryUseCase(categoryRepo),
		MovementUC:  movementUC,
		UnitUC:      usecase.NewUnitUseCase(unitRepo, unitStockRepo),
		ProfileUC:   profileUC,
		DashboardUC: usecase.NewDashboardUseCase(productRepo, movementQuery, policy),
		ReportUC:    report.NewUseCase(productRepo, movementRepo, policy, loc),
		Inbox:       notification.NewInboxUseCase(notificationRepo),
		Reconciler:  notification.NewReconciler(productRepo, notificationRepo, profileRepo, policy, log.Zerolog()),
		Feed:        broker,
		Validator:   v,
		Log:         log.Zerolog(),
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
	stopListener()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
