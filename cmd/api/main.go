package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/print-expert/repair-service/internal/api/http"
	"github.com/print-expert/repair-service/internal/api/http/handlers"
	"github.com/print-expert/repair-service/internal/auth"
	"github.com/print-expert/repair-service/internal/config"
	"github.com/print-expert/repair-service/internal/diagnosis"
	"github.com/print-expert/repair-service/internal/events"
	"github.com/print-expert/repair-service/internal/observability"
	"github.com/print-expert/repair-service/internal/service"
	"github.com/print-expert/repair-service/internal/storage"
	"github.com/print-expert/repair-service/internal/store"
	"github.com/print-expert/repair-service/internal/worker"
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

	slot, err := newSlot(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init storage backend", zap.Error(err))
	}
	defer slot.Close()

	ticketStore := store.NewTicketStore(slot, cfg.Storage.TicketSlotKey, store.SeedTickets(), logger)
	tickets := ticketStore.Load(ctx)
	logger.Info("ticket store initialized", zap.Int("tickets", len(tickets)))

	dispatcher := events.NewInMemoryDispatcher()
	diagnosisClient := diagnosis.NewClient(cfg.Diagnosis, logger)

	authService, err := service.NewAuthService(*cfg, slot, logger)
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	repairService := service.NewRepairService(service.RepairDependencies{
		Store:      ticketStore,
		Diagnosis:  diagnosisClient,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), authService)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, slot),
		Auth:           handlers.NewAuthHandler(authService),
		Repairs:        handlers.NewRepairsHandler(repairService),
		Transfer:       handlers.NewTransferHandler(repairService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// newSlot selects the durable slot backend. Postgres gets its migrations
// applied; an unknown backend falls back to process memory with a warning.
func newSlot(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Slot, error) {
	switch cfg.Storage.Backend {
	case "redis":
		return storage.NewRedisSlot(cfg.Redis, logger), nil
	case "postgres":
		pg, err := storage.NewPostgresSlot(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := storage.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return pg, nil
	case "memory":
		return storage.NewMemorySlot(), nil
	default:
		logger.Warn("unknown storage backend, using memory", zap.String("backend", cfg.Storage.Backend))
		return storage.NewMemorySlot(), nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
