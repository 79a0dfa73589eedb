package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpcenter-api/internal/api/http"
	"github.com/spec-kit/helpcenter-api/internal/api/http/handlers"
	"github.com/spec-kit/helpcenter-api/internal/config"
	"github.com/spec-kit/helpcenter-api/internal/domain"
	"github.com/spec-kit/helpcenter-api/internal/events"
	"github.com/spec-kit/helpcenter-api/internal/observability"
	"github.com/spec-kit/helpcenter-api/internal/persistence"
	"github.com/spec-kit/helpcenter-api/internal/service"
	"github.com/spec-kit/helpcenter-api/internal/store"
	"github.com/spec-kit/helpcenter-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthDeps := map[string]handlers.Pinger{}

	var ticketStore store.TicketStore
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		healthDeps["postgres"] = pg
		ticketStore = store.NewPostgresStore(pg.PoolHandle())

	case config.BackendMemory:
		memory := store.NewMemoryStore(200 * time.Millisecond)
		if cfg.App.Env == "development" {
			memory.Seed(domain.Ticket{
				TicketID:    "DEMO-001",
				Timestamp:   time.Now().UTC().Format(time.RFC3339),
				RequestType: domain.RequestTypeBugReport,
				Summary:     "Example ticket",
				Description: "Seeded ticket for local development.",
				Priority:    domain.TicketPriorityMedium,
				Status:      domain.TicketStatusOpen,
			})
		}
		ticketStore = memory

	default:
		ticketStore = store.NewSheetStore(cfg.Store.SheetURL, cfg.Store.SheetToken, cfg.Store.SheetTimeout(), logger)
	}

	if cfg.Redis.Enabled && cfg.Store.CacheTTL() > 0 {
		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		healthDeps["redis"] = redis
		ticketStore = store.NewCachedStore(ticketStore, redis.Client, cfg.Store.CacheTTL(), logger)
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(logger, cfg.Notification)
	notificationWorker := worker.NewNotificationWorker(notificationService, logger)
	notificationWorker.Start(dispatcher)
	defer notificationWorker.Stop()

	ticketService := service.NewTicketService(ticketStore, dispatcher)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, healthDeps)
	supportHandler := handlers.NewSupportHandler(ticketService, logger, cfg.App.AdminDisplayName)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  healthHandler,
		Support: supportHandler,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
