package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/inventario-bot/internal/application/bot"
	"github.com/jhoicas/inventario-bot/internal/domain/repository"
	"github.com/jhoicas/inventario-bot/internal/infrastructure/line"
	"github.com/jhoicas/inventario-bot/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/inventario-bot/internal/infrastructure/redis"
	"github.com/jhoicas/inventario-bot/internal/infrastructure/sheets"
	httpRouter "github.com/jhoicas/inventario-bot/internal/interfaces/http"
	"github.com/jhoicas/inventario-bot/internal/migrate"
	"github.com/jhoicas/inventario-bot/pkg/config"
	"github.com/jhoicas/inventario-bot/pkg/logger"
	"github.com/jhoicas/inventario-bot/pkg/metrics"
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
		Str("selection_store", cfg.Bot.SelectionStore).
		Msg("iniciando aplicación")

	ctx := context.Background()
	if cfg.DB.AutoMigrate {
		log.Info().Msg("aplicando migraciones embebidas")
		if err := migrate.Up(ctx, cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	healthChecks := map[string]httpRouter.Pinger{"postgres": pool}

	var selections repository.SelectionRepository = postgres.NewSelectionRepository(pool)
	if cfg.Bot.SelectionStore == "redis" {
		store, err := infraredis.NewSelectionStore(ctx, cfg.Redis, cfg.Bot.SelectionTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer store.Close()
		selections = store
		healthChecks["redis"] = store
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	botMetrics := metrics.NewBotMetrics(reg)

	sheetLoc, err := sheets.LoadLocation(cfg.Sheet.TimeZone)
	if err != nil {
		log.Warn().Err(err).Msg("SHEET_TIMEZONE no disponible, se usa UTC+8")
	}
	notifier := sheets.NewNotifier(sheets.Config{
		WebhookURL: cfg.Sheet.WebhookURL,
		Secret:     cfg.Sheet.Secret,
		Location:   sheetLoc,
		Timeout:    cfg.Sheet.Timeout,
	}, postgres.NewSettingsRepository(pool), botMetrics, log)

	botUC := bot.NewBotUseCase(bot.Deps{
		Users:      postgres.NewUserRepository(pool),
		Products:   postgres.NewProductRepository(pool),
		Stock:      postgres.NewStockRepository(pool),
		Mutations:  postgres.NewStockMutationRepository(pool),
		Warehouses: postgres.NewWarehouseRepository(pool),
		Selections: selections,
		Sender:     line.NewClient(cfg.LINE.APIBaseURL, cfg.LINE.ChannelToken),
		Notifier:   notifier,
		Metrics:    botMetrics,
		Log:        log,
		SourceTag:  cfg.Bot.SourceTag,
	})

	if cfg.LINE.ChannelSecret == "" {
		log.Warn().Msg("LINE_CHANNEL_SECRET vacío: el webhook no verifica firmas")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Bot:              botUC,
		ChannelSecret:    cfg.LINE.ChannelSecret,
		RequireSignature: cfg.App.IsProduction(),
		Gatherer:         reg,
		HealthChecks:     healthChecks,
		Log:              log,
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

	// Notificaciones a la hoja de cálculo que siguen en vuelo.
	notifier.Wait()

	log.Info().Msg("aplicación detenida")
}
