// Package app wires the marketplace together and runs its HTTP server and lifecycle scheduler.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"auction-marketplace/internal/config"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// App is the root application object
type App struct {
	cfg     config.Config
	closers []func()
}

// New creates an App from a validated configuration
func New(cfg config.Config) *App {
	return &App{cfg: cfg}
}

// Run wires all dependencies, serves HTTP and sweeps listings until ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	gin.SetMode(a.cfg.Server.GinMode)

	deps, cleanup, err := Wire(ctx, a.cfg, nil)
	a.closers = append(a.closers, cleanup)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}

	if a.cfg.Seed.Enabled && a.cfg.Storage.Driver == "memory" {
		if err := Seed(ctx, deps); err != nil {
			return fmt.Errorf("app: seed: %w", err)
		}
	}

	srv := &http.Server{
		Addr:    a.cfg.Server.Addr,
		Handler: deps.Router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		utils.Info("app: http server listening", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app: http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		utils.Info("app: shutting down http server", nil)
		return srv.Shutdown(shutdownCtx)
	})

	if a.cfg.Scheduler.Enabled {
		g.Go(func() error {
			return deps.Scheduler.Run(gctx)
		})
	}

	return g.Wait()
}

// Close tears down all resources in reverse registration order. Safe to call more than once.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
