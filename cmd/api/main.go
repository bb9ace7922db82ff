package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	"github.com/Stiven2023/vio-app-sub001/internal/application/conversion"
	"github.com/Stiven2023/vio-app-sub001/internal/application/orders"
	"github.com/Stiven2023/vio-app-sub001/internal/application/policy"
	"github.com/Stiven2023/vio-app-sub001/internal/application/thirdparty"
	"github.com/Stiven2023/vio-app-sub001/internal/infrastructure/notify"
	"github.com/Stiven2023/vio-app-sub001/internal/infrastructure/postgres"
	httpRouter "github.com/Stiven2023/vio-app-sub001/internal/interfaces/http"
	"github.com/Stiven2023/vio-app-sub001/pkg/config"
	"github.com/Stiven2023/vio-app-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.MigrateOnStart {
		migrator, err := postgres.NewMigrator(pool, log.Component("migrate"))
		if err != nil {
			log.Fatal().Err(err).Msg("preparar migraciones")
		}
		if err := migrator.Up(ctx); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		_ = migrator.Close()
	}

	dispatcher, err := notify.New(ctx, cfg.Notify, log.Component("notify"))
	if err != nil {
		log.Fatal().Err(err).Msg("notificaciones")
	}
	defer dispatcher.Close()

	txRunner := postgres.NewTxRunner(pool)
	orderUC := orders.NewOrderUseCase(
		txRunner, policy.DefaultItemTransitions(), policy.DefaultOrderTransitions(),
		dispatcher, log.Component("orders"),
	)
	conversionUC := conversion.NewUseCase(txRunner, dispatcher, log.Component("conversion"))
	clientUC := thirdparty.NewClientUseCase(txRunner, dispatcher, log.Component("thirdparty"))

	app := httpRouter.NewApp(cfg.App.Name)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Vio API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "notify": dispatcher.Driver()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		OrderUC:      orderUC,
		ConversionUC: conversionUC,
		ClientUC:     clientUC,
		Permissions:  policy.DefaultPermissions(),
		JWTSecret:    cfg.JWT.Secret,
		Log:          log.Component("http"),
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
