package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eventfold/bids-go/internal/config"
	"github.com/eventfold/bids-go/internal/postgres"
	"github.com/eventfold/bids-go/internal/redis"
	postgresrepo "github.com/eventfold/bids-go/internal/repository/postgres"
	redisrepo "github.com/eventfold/bids-go/internal/repository/redis"
	"github.com/eventfold/bids-go/internal/service"
	"github.com/eventfold/bids-go/internal/service/bids"
	httpgin "github.com/eventfold/bids-go/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pubsub     *redisrepo.BidsPubSub
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redis.New(context.Background(), redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisrepo.NewBidsPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, redisrepo.RateLimitPrefix("mutations"), 30, 1*time.Minute)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)

	if err := store.Events().EnsureSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	// Services
	services := service.NewServices(store, cache, pubsub, service.Config{
		Bids: bids.Config{ShortlistLimit: cfg.Bids.ShortlistLimit},
	})

	// Gin router
	router := httpgin.NewRouter(services, idempotencyStore, limiter, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		pubsub: pubsub,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Mirror committed bid transitions into the log; external consumers
	// subscribe to the same channel for realtime updates.
	g.Go(func() error {
		err := a.pubsub.Subscribe(gCtx, func(ctx context.Context, eventID string) {
			a.logger.Info("bids changed", "event_id", eventID)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
