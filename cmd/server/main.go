// Package main is the entry point for the Better Me progression server.
//
// The architecture follows Clean Architecture and DDD:
//   - Domain: habit/goal/journal ledgers, progression math, achievements
//   - Application: commands, queries, and the reward flow saga
//   - Infrastructure: persistence backends, event bus
//   - Interface: REST API
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/better-me-app/better-me-core/config"
	"github.com/better-me-app/better-me-core/internal/application/command"
	"github.com/better-me-app/better-me-core/internal/application/eventhandler"
	"github.com/better-me-app/better-me-core/internal/application/query"
	"github.com/better-me-app/better-me-core/internal/application/saga"
	"github.com/better-me-app/better-me-core/internal/domain/notification"
	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
	"github.com/better-me-app/better-me-core/internal/infrastructure/messaging"
	"github.com/better-me-app/better-me-core/internal/infrastructure/persistence/file"
	"github.com/better-me-app/better-me-core/internal/infrastructure/persistence/memory"
	"github.com/better-me-app/better-me-core/internal/infrastructure/persistence/postgres"
	redicache "github.com/better-me-app/better-me-core/internal/infrastructure/persistence/redis"
	httpserver "github.com/better-me-app/better-me-core/internal/interface/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("starting",
		"app", cfg.App.Name,
		"version", cfg.App.Version,
		"env", string(cfg.App.Environment),
		"storage", string(cfg.Storage.Backend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─────────────────────────────────────────────────────────────────────
	// Persistence
	// ─────────────────────────────────────────────────────────────────────
	var repo profile.Repository
	var pgConn *postgres.Connection

	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		pgConn, err = connectPostgres(ctx, cfg)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pgConn.Close()

		if err := postgres.NewMigrator(pgConn).Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		repo = postgres.NewProfileRepository(pgConn)

	case config.StorageFile:
		store, err := file.NewSnapshotStore(cfg.Storage.DataDir)
		if err != nil {
			return err
		}
		repo = store

	default:
		logger.Warn("using in-memory storage, data is lost on exit")
		repo = memory.NewProfileRepository()
	}

	// ─────────────────────────────────────────────────────────────────────
	// Redis (cache + cross-instance events)
	// ─────────────────────────────────────────────────────────────────────
	var cache *redicache.Cache
	if !cfg.Redis.Disabled {
		cache, err = redicache.NewCache(redicache.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			logger.Warn("redis unavailable, continuing without cache", "error", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	// ─────────────────────────────────────────────────────────────────────
	// Event bus
	// ─────────────────────────────────────────────────────────────────────
	localBusConfig := messaging.InMemoryEventBusConfig{Logger: logger}

	var bus interface {
		shared.EventPublisher
		Subscribe(shared.EventType, shared.EventHandler) error
		SubscribeAll(shared.EventHandler) error
		Close() error
	}
	if cache != nil {
		redisBus, err := messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
			Client:         cache.Client(),
			LocalBusConfig: localBusConfig,
			Logger:         logger,
		})
		if err != nil {
			return fmt.Errorf("event bus: %w", err)
		}
		bus = redisBus
	} else {
		bus = messaging.NewInMemoryEventBus(localBusConfig)
	}
	defer bus.Close()

	// ─────────────────────────────────────────────────────────────────────
	// Application layer
	// ─────────────────────────────────────────────────────────────────────
	clock := shared.SystemClock{}
	rewards := saga.NewRewardFlow(bus, logger, saga.RewardConfig{
		HabitCompletionXP: cfg.Gamification.HabitCompletionXP,
		GoalProgressXP:    cfg.Gamification.GoalProgressXP,
		JournalEntryXP:    cfg.Gamification.JournalEntryXP,
		MaxGrantsPerRun:   cfg.Gamification.MaxBadgesPerAction,
	})

	var statsCache query.StatsCache
	if cache != nil {
		sc := redicache.NewStatsCache(cache)
		statsCache = sc
		// Any state change drops the stale entry.
		if err := bus.SubscribeAll(sc.Handle); err != nil {
			return err
		}
	}

	if pgConn != nil {
		eventLog := postgres.NewEventLog(pgConn, logger)
		if err := bus.SubscribeAll(eventLog.Handle); err != nil {
			return err
		}
	}

	sender := notification.LogSender{Logger: logger}
	onLevelUp := eventhandler.NewOnLevelUpHandler(repo, sender, logger)
	if err := bus.Subscribe(shared.EventLevelUp, onLevelUp.Handle); err != nil {
		return err
	}
	onBadge := eventhandler.NewOnAchievementGrantedHandler(repo, sender, logger)
	if err := bus.Subscribe(shared.EventAchievementGranted, onBadge.Handle); err != nil {
		return err
	}

	// ─────────────────────────────────────────────────────────────────────
	// HTTP server
	// ─────────────────────────────────────────────────────────────────────
	server := httpserver.NewServer(httpserver.Config{
		Host:               cfg.HTTP.Host,
		Port:               cfg.HTTP.Port,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		MaxHeaderBytes:     1 << 20,
		EnableCORS:         cfg.HTTP.EnableCORS,
		AllowedOrigins:     cfg.HTTP.AllowedOrigins,
		RateLimitPerMinute: cfg.HTTP.RateLimitPerMinute,
	}, httpserver.Dependencies{
		CreateProfile:        command.NewCreateProfileHandler(repo, bus, clock),
		DeleteProfile:        command.NewDeleteProfileHandler(repo),
		ManageHabits:         command.NewManageHabitsHandler(repo, clock),
		CompleteHabit:        command.NewCompleteHabitHandler(repo, rewards, clock),
		ManageGoals:          command.NewManageGoalsHandler(repo, clock),
		RecordGoalProgress:   command.NewRecordGoalProgressHandler(repo, rewards, clock),
		ManageMilestones:     command.NewManageMilestonesHandler(repo, rewards, clock),
		WriteJournal:         command.NewWriteJournalHandler(repo, rewards, clock),
		AddXP:                command.NewAddXPHandler(repo, rewards, clock),
		UpdateSettings:       command.NewUpdateSettingsHandler(repo, bus, clock),
		EvaluateAchievements: command.NewEvaluateAchievementsHandler(repo, rewards, clock),

		GetDashboard:   query.NewGetDashboardHandler(repo, clock),
		GetStats:       query.NewGetStatsHandler(repo, statsCache),
		GetMoodSummary: query.NewGetMoodSummaryHandler(repo, clock),
		List:           query.NewListHandler(repo),

		Repo:   repo,
		Logger: logger,
		HealthCheck: func(ctx context.Context) error {
			if pgConn != nil {
				return pgConn.Ping(ctx)
			}
			return nil
		},
	})

	errCh := server.StartAsync()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}

func connectPostgres(ctx context.Context, cfg *config.Config) (*postgres.Connection, error) {
	if cfg.Database.URL != "" {
		return postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	}
	return postgres.NewConnection(ctx, postgres.Config{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		Database:       cfg.Database.Name,
		User:           cfg.Database.User,
		Password:       cfg.Database.Password,
		SSLMode:        cfg.Database.SSLMode,
		MaxConns:       int32(cfg.Database.MaxConns),
		MinConns:       int32(cfg.Database.MinConns),
		ConnectTimeout: cfg.Database.ConnectTimeout,
	})
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Observability.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Observability.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
