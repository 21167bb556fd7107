package perftests

import (
	"context"
	"fmt"
	"time"

	bidding "auction-marketplace/internal/biddingService"
	"auction-marketplace/internal/clock"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/retry"
)

var benchStart = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

// benchPolicy retries version conflicts aggressively so contention shows up as latency rather than errors
var benchPolicy = retry.Policy{MaxAttempts: 1000, InitialInterval: time.Microsecond, MaxInterval: 50 * time.Microsecond}

// setupRepo creates a repository and bidding service holding numListings active auctions
func setupRepo(numListings int) (*repository.MemoryRepo, *bidding.BiddingService, *clock.Fake) {
	repo := repository.NewMemoryRepo()
	clk := clock.NewFake(benchStart)
	svc := bidding.NewBiddingService(repo, clk, benchPolicy, nil)
	for i := 0; i < numListings; i++ {
		addListing(repo, listingID(i))
	}
	return repo, svc, clk
}

func addListing(repo *repository.MemoryRepo, id string) {
	err := repo.CreateListing(context.Background(), model.Listing{
		ListingID:  id,
		SellerID:   "bench_seller",
		Title:      "Benchmark listing " + id,
		StartPrice: 50,
		CurrentBid: 50,
		StartTime:  benchStart.Add(-time.Hour),
		EndTime:    benchStart.Add(24 * time.Hour),
		Status:     model.ListingActive,
		Version:    1,
	})
	if err != nil {
		panic(err)
	}
}

func listingID(i int) string {
	return fmt.Sprintf("listing_%d", i)
}
