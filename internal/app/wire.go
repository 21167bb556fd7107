package app

import (
	"context"
	"fmt"
	"os"

	account "auction-marketplace/internal/accountService"
	"auction-marketplace/internal/auth"
	bidding "auction-marketplace/internal/biddingService"
	"auction-marketplace/internal/clock"
	"auction-marketplace/internal/config"
	dispatch "auction-marketplace/internal/dispatcher"
	fulfillment "auction-marketplace/internal/fulfillmentService"
	"auction-marketplace/internal/notification"
	"auction-marketplace/internal/observability"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/repository/postgres"
	"auction-marketplace/internal/retry"
	"auction-marketplace/internal/scheduler"
	"auction-marketplace/internal/server"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// Deps holds every wired component of the marketplace
type Deps struct {
	Repo        repository.AuctionDB
	Bidding     *bidding.BiddingService
	Fulfillment *fulfillment.FulfillmentService
	Accounts    *account.AccountService
	Dispatcher  *dispatch.Dispatcher
	Tokens      *auth.TokenManager
	Scheduler   *scheduler.Scheduler
	Hub         *notification.Hub
	Redis       *notification.RedisNotifier
	Router      *gin.Engine
}

// Wire builds the dependency graph described by cfg. The returned cleanup releases
// everything Wire opened and must be called even when Wire later fails.
func Wire(ctx context.Context, cfg config.Config, clk clock.Clock) (*Deps, func(), error) {
	if clk == nil {
		clk = clock.System{}
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Tracing.Environment,
		SampleRatio: cfg.Tracing.SampleRatio,
		Output:      os.Stdout,
	})
	if err != nil {
		return nil, cleanup, fmt.Errorf("app: init tracing: %w", err)
	}
	closers = append(closers, func() {
		if err := shutdownTracing(context.Background()); err != nil {
			utils.Warn("app: tracing shutdown failed", map[string]any{"error": err.Error()})
		}
	})

	repo, closeRepo, err := openRepository(ctx, cfg.Storage)
	if err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, closeRepo)

	deps := &Deps{Repo: repo}

	sinks := notification.Multi{}
	if cfg.Notifications.Log {
		sinks = append(sinks, notification.LogNotifier{})
	}
	if cfg.Redis.Enabled {
		rdb, err := notification.NewRedisClient(ctx, notification.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, cleanup, fmt.Errorf("app: connect redis: %w", err)
		}
		closers = append(closers, func() { _ = rdb.Close() })
		deps.Redis = notification.NewRedisNotifier(rdb, cfg.Redis.ChannelPrefix, cfg.Redis.InboxLength)
		sinks = append(sinks, deps.Redis)
	}
	if cfg.Notifications.WebSocket {
		deps.Hub = notification.NewHub(nil)
		closers = append(closers, deps.Hub.Close)
		sinks = append(sinks, deps.Hub)
	}

	policy := retry.Policy{
		MaxAttempts:     cfg.Retry.MaxAttempts,
		InitialInterval: cfg.Retry.InitialInterval,
		MaxInterval:     cfg.Retry.MaxInterval,
	}

	deps.Dispatcher = dispatch.NewDispatcher(sinks, repo, repo, clk, policy)
	deps.Bidding = bidding.NewBiddingService(repo, clk, policy, deps.Dispatcher)
	deps.Fulfillment = fulfillment.NewFulfillmentService(repo, repo, clk, policy, deps.Dispatcher)
	deps.Accounts = account.NewAccountService(repo, clk)
	deps.Tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL, clk)
	deps.Scheduler = scheduler.New(repo, deps.Bidding, clk, scheduler.Config{
		Interval:    cfg.Scheduler.Interval,
		Concurrency: cfg.Scheduler.Concurrency,
		BatchSize:   cfg.Scheduler.BatchSize,
	})

	routes := server.RouterConfig{
		Bidding:     deps.Bidding,
		Fulfillment: deps.Fulfillment,
		Accounts:    deps.Accounts,
		Tokens:      deps.Tokens,
		CORSOrigins: cfg.Server.CORSOrigins,
	}
	if cfg.Tracing.Enabled {
		routes.ServiceName = cfg.Tracing.ServiceName
	}
	if deps.Hub != nil {
		routes.Stream = deps.Hub
	}
	if deps.Redis != nil {
		routes.Inbox = deps.Redis
	}
	deps.Router = server.SetupRouter(routes)

	return deps, cleanup, nil
}

func openRepository(ctx context.Context, cfg config.StorageConfig) (repository.AuctionDB, func(), error) {
	switch cfg.Driver {
	case "postgres":
		client, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.DSN,
			MaxConns: cfg.MaxConns,
			MinConns: cfg.MinConns,
		})
		if err != nil {
			return nil, func() {}, fmt.Errorf("app: connect postgres: %w", err)
		}
		if cfg.RunMigrations {
			if err := client.RunMigrations(ctx); err != nil {
				client.Close()
				return nil, func() {}, fmt.Errorf("app: run migrations: %w", err)
			}
		}
		utils.Info("app: using postgres storage", map[string]any{"max_conns": cfg.MaxConns})
		return postgres.NewStore(client.Pool()), client.Close, nil
	default:
		utils.Info("app: using in-memory storage", nil)
		return repository.NewMemoryRepo(), func() {}, nil
	}
}
