// Package scheduler periodically opens listings whose start time has come and closes those whose end time has passed.
package scheduler

//go:generate mockgen -source=scheduler.go -destination=mock_scheduler.go -package=scheduler

import (
	"context"
	"time"

	"auction-marketplace/internal/clock"
	"auction-marketplace/internal/models"
	"auction-marketplace/utils"

	"golang.org/x/sync/errgroup"
)

// DueLister finds listings that need a lifecycle transition at now
type DueLister interface {
	ListDueListings(ctx context.Context, now time.Time, limit int) ([]models.Listing, error)
}

// Lifecycle applies the time-driven listing transitions
type Lifecycle interface {
	Activate(ctx context.Context, listingID string) (models.Listing, error)
	Close(ctx context.Context, listingID string) (models.Listing, error)
}

// Config tunes the sweep
type Config struct {
	Interval    time.Duration
	Concurrency int
	BatchSize   int
}

// Scheduler sweeps due listings on a fixed interval
type Scheduler struct {
	due       DueLister
	lifecycle Lifecycle
	clock     clock.Clock
	cfg       Config
}

// New creates a Scheduler
func New(due DueLister, lifecycle Lifecycle, clk clock.Clock, cfg Config) *Scheduler {
	if clk == nil {
		clk = clock.System{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Scheduler{due: due, lifecycle: lifecycle, clock: clk, cfg: cfg}
}

// Run sweeps every interval until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) error {
	utils.Info("scheduler: started", map[string]any{
		"interval":    s.cfg.Interval.String(),
		"concurrency": s.cfg.Concurrency,
	})

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			utils.Info("scheduler: stopped", nil)
			return nil
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				utils.Error("scheduler: sweep failed", map[string]any{"error": err.Error()})
			}
		}
	}
}

// Sweep applies one round of due transitions and returns how many listings it processed.
// A failing listing is logged and does not stop the others.
func (s *Scheduler) Sweep(ctx context.Context) (int, error) {
	now := s.clock.Now()
	due, err := s.due.ListDueListings(ctx, now, s.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for _, listing := range due {
		listing := listing
		g.Go(func() error {
			s.advance(gctx, listing)
			return nil
		})
	}
	_ = g.Wait()

	return len(due), nil
}

func (s *Scheduler) advance(ctx context.Context, listing models.Listing) {
	var err error
	switch listing.Status {
	case models.ListingPending:
		_, err = s.lifecycle.Activate(ctx, listing.ListingID)
	case models.ListingActive:
		_, err = s.lifecycle.Close(ctx, listing.ListingID)
	default:
		return
	}
	if err != nil {
		utils.Warn("scheduler: listing transition failed", map[string]any{
			"listing_id": listing.ListingID,
			"status":     string(listing.Status),
			"error":      err.Error(),
		})
	}
}
