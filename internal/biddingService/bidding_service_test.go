package bidding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/clock"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/retry"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	start = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	end   = start.Add(24 * time.Hour)
)

func testPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 50, InitialInterval: time.Microsecond, MaxInterval: time.Millisecond}
}

// seedListing stores an active listing owned by "seller" with the given start price
func seedListing(t *testing.T, repo *repository.MemoryRepo, id string, startPrice float64, status model.ListingStatus) model.Listing {
	t.Helper()
	l := model.Listing{
		ListingID:  id,
		SellerID:   "seller",
		Title:      "Vintage camera",
		StartPrice: startPrice,
		CurrentBid: startPrice,
		StartTime:  start,
		EndTime:    end,
		Status:     status,
		Version:    1,
	}
	require.NoError(t, repo.CreateListing(context.Background(), l))
	return l
}

// The end-to-end bidding scenario: A 150 ok, B 140 too low, B 160 ok, close picks B
func TestBiddingService_Scenario(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	clk := clock.NewFake(start.Add(time.Hour))
	events := NewMockAuctionEvents(ctrl)
	service := NewBiddingService(repo, clk, testPolicy(), events)
	seedListing(t, repo, "l1", 100, model.ListingActive)

	placed, err := service.PlaceBid(ctx, "l1", "A", 150)
	require.NoError(t, err)
	require.Equal(t, 150.0, placed.Listing.CurrentBid)
	require.Equal(t, "A", placed.Listing.HighestBidderID)

	_, err = service.PlaceBid(ctx, "l1", "B", 140)
	require.True(t, errors.Is(err, auctionerrors.ErrBidTooLow), "got %v", err)

	placed, err = service.PlaceBid(ctx, "l1", "B", 160)
	require.NoError(t, err)
	require.Equal(t, 160.0, placed.Listing.CurrentBid)
	require.Equal(t, "B", placed.Listing.HighestBidderID)
	require.Equal(t, 2, placed.Listing.BidCount)

	clk.Set(end)
	events.EXPECT().AuctionClosed(gomock.Any(), gomock.Any()).Do(func(_ context.Context, l model.Listing) {
		require.Equal(t, "B", l.WinnerID)
	}).Times(1)

	closed, err := service.Close(ctx, "l1")
	require.NoError(t, err)
	require.Equal(t, model.ListingEnded, closed.Status)
	require.Equal(t, "B", closed.WinnerID)
	require.Equal(t, 160.0, closed.CurrentBid)

	bids, err := service.GetBidsForListing(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, bids, 2)
	require.Equal(t, 150.0, bids[0].Amount)
	require.Equal(t, 160.0, bids[1].Amount)
}

// Tests PlaceBid rule checks
func TestBiddingService_PlaceBid(t *testing.T) {
	tests := []struct {
		name          string
		status        model.ListingStatus
		now           time.Time
		listingID     string
		bidderID      string
		amount        float64
		expectedError error
	}{
		{name: "valid_bid", status: model.ListingActive, now: start.Add(time.Minute), listingID: "l1", bidderID: "user1", amount: 101},
		{name: "bid_at_start_time", status: model.ListingActive, now: start, listingID: "l1", bidderID: "user1", amount: 101},
		{name: "bid_max_float", status: model.ListingActive, now: start.Add(time.Minute), listingID: "l1", bidderID: "user1", amount: math.MaxFloat64},
		{name: "equal_to_current", status: model.ListingActive, now: start.Add(time.Minute), listingID: "l1", bidderID: "user1", amount: 100, expectedError: auctionerrors.ErrBidTooLow},
		{name: "below_current", status: model.ListingActive, now: start.Add(time.Minute), listingID: "l1", bidderID: "user1", amount: 99.99, expectedError: auctionerrors.ErrBidTooLow},
		{name: "self_bid", status: model.ListingActive, now: start.Add(time.Minute), listingID: "l1", bidderID: "seller", amount: 500, expectedError: auctionerrors.ErrSelfBid},
		{name: "pending_listing", status: model.ListingPending, now: start.Add(time.Minute), listingID: "l1", bidderID: "user1", amount: 500, expectedError: auctionerrors.ErrNotActive},
		{name: "ended_listing", status: model.ListingEnded, now: start.Add(time.Minute), listingID: "l1", bidderID: "user1", amount: 500, expectedError: auctionerrors.ErrNotActive},
		{name: "before_start", status: model.ListingActive, now: start.Add(-time.Second), listingID: "l1", bidderID: "user1", amount: 500, expectedError: auctionerrors.ErrNotActive},
		{name: "at_end_time", status: model.ListingActive, now: end, listingID: "l1", bidderID: "user1", amount: 500, expectedError: auctionerrors.ErrNotActive},
		{name: "not_active_checked_before_self_bid", status: model.ListingEnded, now: start.Add(time.Minute), listingID: "l1", bidderID: "seller", amount: 1, expectedError: auctionerrors.ErrNotActive},
		{name: "unknown_listing", status: model.ListingActive, now: start.Add(time.Minute), listingID: "nope", bidderID: "user1", amount: 500, expectedError: auctionerrors.ErrNotFound},
		{name: "empty_listingID", status: model.ListingActive, now: start.Add(time.Minute), listingID: "", bidderID: "user1", amount: 500, expectedError: auctionerrors.ErrInvalidRequest},
		{name: "empty_bidderID", status: model.ListingActive, now: start.Add(time.Minute), listingID: "l1", bidderID: "", amount: 500, expectedError: auctionerrors.ErrInvalidRequest},
		{name: "zero_amount", status: model.ListingActive, now: start.Add(time.Minute), listingID: "l1", bidderID: "user1", amount: 0, expectedError: auctionerrors.ErrInvalidRequest},
		{name: "negative_amount", status: model.ListingActive, now: start.Add(time.Minute), listingID: "l1", bidderID: "user1", amount: -50, expectedError: auctionerrors.ErrInvalidRequest},
		{name: "nan_amount", status: model.ListingActive, now: start.Add(time.Minute), listingID: "l1", bidderID: "user1", amount: math.NaN(), expectedError: auctionerrors.ErrInvalidRequest},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel() // Run tests concurrently

			repo := repository.NewMemoryRepo()
			seedListing(t, repo, "l1", 100, tc.status)
			service := NewBiddingService(repo, clock.NewFake(tc.now), testPolicy(), nil)

			placed, err := service.PlaceBid(context.Background(), tc.listingID, tc.bidderID, tc.amount)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)

				stored, getErr := repo.GetListing(context.Background(), "l1")
				require.NoError(t, getErr)
				require.Equal(t, 100.0, stored.CurrentBid)
				require.Equal(t, 0, stored.BidCount)
				return
			}

			require.NoError(t, err)
			_, parseErr := uuid.Parse(placed.Bid.BidID)
			require.NoError(t, parseErr, "BidID should be a valid UUID")
			require.Equal(t, tc.amount, placed.Bid.Amount)
			require.Equal(t, tc.bidderID, placed.Bid.BidderID)
			require.Equal(t, tc.now, placed.Bid.CreatedAt)
			require.Equal(t, placed.Listing.Version, placed.Bid.Sequence)
			require.Equal(t, tc.amount, placed.Listing.CurrentBid)
			require.Equal(t, 1, placed.Listing.BidCount)
		})
	}
}

// Concurrent bidders on one listing: accepted history is strictly increasing and ends at currentBid
func TestBiddingService_PlaceBid_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	seedListing(t, repo, "shared", 100, model.ListingActive)
	service := NewBiddingService(repo, clock.NewFake(start.Add(time.Hour)), testPolicy(), nil)

	const bidders = 40
	const bidsEach = 25

	var mu sync.Mutex
	accepted := make([]float64, 0)

	var wg sync.WaitGroup
	for b := 0; b < bidders; b++ {
		wg.Add(1)
		go func(b int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(int64(b)))
			for i := 0; i < bidsEach; i++ {
				amount := float64(100 + r.Intn(5000))
				placed, err := service.PlaceBid(ctx, "shared", fmt.Sprintf("bidder_%d", b), amount)
				if err == nil {
					mu.Lock()
					accepted = append(accepted, placed.Bid.Amount)
					mu.Unlock()
					continue
				}
				if !errors.Is(err, auctionerrors.ErrBidTooLow) && !errors.Is(err, auctionerrors.ErrConflict) {
					t.Errorf("unexpected error: %v", err)
				}
			}
		}(b)
	}
	wg.Wait()

	listing, err := repo.GetListing(ctx, "shared")
	require.NoError(t, err)

	bids, err := service.GetBidsForListing(ctx, "shared")
	require.NoError(t, err)
	require.Len(t, bids, len(accepted))
	require.Equal(t, listing.BidCount, len(bids))

	for i := 1; i < len(bids); i++ {
		require.Greater(t, bids[i].Amount, bids[i-1].Amount, "accepted bids must be strictly increasing")
		require.Greater(t, bids[i].Sequence, bids[i-1].Sequence)
	}
	if len(bids) > 0 {
		last := bids[len(bids)-1]
		require.Equal(t, last.Amount, listing.CurrentBid)
		require.Equal(t, last.BidderID, listing.HighestBidderID)
	}
}

// A lost compare-and-set is re-validated against the fresh listing
func TestBiddingService_PlaceBid_RevalidatesAfterConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository.NewMockListingStore(ctrl)
	service := NewBiddingService(mockRepo, clock.NewFake(start.Add(time.Hour)), testPolicy(), nil)

	stale := model.Listing{ListingID: "l1", SellerID: "seller", CurrentBid: 100, StartTime: start, EndTime: end, Status: model.ListingActive, Version: 1}
	fresh := stale
	fresh.CurrentBid = 200
	fresh.HighestBidderID = "rival"
	fresh.Version = 2

	gomock.InOrder(
		mockRepo.EXPECT().GetListing(gomock.Any(), "l1").Return(stale, nil),
		mockRepo.EXPECT().ConditionalUpdateListing(gomock.Any(), int64(1), gomock.Any()).
			Return(model.Listing{}, fmt.Errorf("update listing l1: %w", auctionerrors.ErrConflict)),
		mockRepo.EXPECT().GetListing(gomock.Any(), "l1").Return(fresh, nil),
	)

	_, err := service.PlaceBid(context.Background(), "l1", "user1", 150)
	require.True(t, errors.Is(err, auctionerrors.ErrBidTooLow), "got %v", err)
}

// Persistent contention surfaces as a conflict once retries run out
func TestBiddingService_PlaceBid_ConflictExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository.NewMockListingStore(ctrl)
	policy := retry.Policy{MaxAttempts: 3, InitialInterval: time.Microsecond, MaxInterval: time.Microsecond}
	service := NewBiddingService(mockRepo, clock.NewFake(start.Add(time.Hour)), policy, nil)

	listing := model.Listing{ListingID: "l1", SellerID: "seller", CurrentBid: 100, StartTime: start, EndTime: end, Status: model.ListingActive, Version: 1}
	mockRepo.EXPECT().GetListing(gomock.Any(), "l1").Return(listing, nil).Times(3)
	mockRepo.EXPECT().ConditionalUpdateListing(gomock.Any(), int64(1), gomock.Any()).Return(model.Listing{}, auctionerrors.ErrConflict).Times(3)

	_, err := service.PlaceBid(context.Background(), "l1", "user1", 150)
	require.True(t, errors.Is(err, auctionerrors.ErrConflict), "got %v", err)
}

// Bid history write failures do not fail an accepted bid
func TestBiddingService_PlaceBid_HistoryFailureIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository.NewMockListingStore(ctrl)
	service := NewBiddingService(mockRepo, clock.NewFake(start.Add(time.Hour)), testPolicy(), nil)

	listing := model.Listing{ListingID: "l1", SellerID: "seller", CurrentBid: 100, StartTime: start, EndTime: end, Status: model.ListingActive, Version: 4}
	updated := listing
	updated.CurrentBid = 150
	updated.HighestBidderID = "user1"
	updated.BidCount = 1
	updated.Version = 5

	mockRepo.EXPECT().GetListing(gomock.Any(), "l1").Return(listing, nil)
	mockRepo.EXPECT().ConditionalUpdateListing(gomock.Any(), int64(4), gomock.Any()).Return(updated, nil)
	mockRepo.EXPECT().RecordBid(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	placed, err := service.PlaceBid(context.Background(), "l1", "user1", 150)
	require.NoError(t, err)
	require.Equal(t, int64(5), placed.Bid.Sequence)
	require.Equal(t, 150.0, placed.Listing.CurrentBid)
}

func TestBiddingService_Close(t *testing.T) {
	tests := []struct {
		name          string
		status        model.ListingStatus
		bidder        string
		now           time.Time
		expectEvent   bool
		expectedError error
		wantStatus    model.ListingStatus
		wantWinner    string
	}{
		{name: "closes_with_winner", status: model.ListingActive, bidder: "buyer", now: end, expectEvent: true, wantStatus: model.ListingEnded, wantWinner: "buyer"},
		{name: "closes_without_bids", status: model.ListingActive, now: end.Add(time.Hour), expectEvent: true, wantStatus: model.ListingEnded},
		{name: "before_end_time", status: model.ListingActive, bidder: "buyer", now: end.Add(-time.Second), expectedError: auctionerrors.ErrAuctionInProgress},
		{name: "already_ended_noop", status: model.ListingEnded, bidder: "buyer", now: end, wantStatus: model.ListingEnded},
		{name: "pending_noop", status: model.ListingPending, now: end, wantStatus: model.ListingPending},
		{name: "completed_noop", status: model.ListingCompleted, now: end, wantStatus: model.ListingCompleted},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := repository.NewMemoryRepo()
			l := seedListing(t, repo, "l1", 100, tc.status)
			if tc.bidder != "" {
				l.HighestBidderID = tc.bidder
				l.CurrentBid = 180
				_, err := repo.ConditionalUpdateListing(context.Background(), 1, l)
				require.NoError(t, err)
			}

			events := NewMockAuctionEvents(ctrl)
			if tc.expectEvent {
				events.EXPECT().AuctionClosed(gomock.Any(), gomock.Any()).Times(1)
			}
			service := NewBiddingService(repo, clock.NewFake(tc.now), testPolicy(), events)

			closed, err := service.Close(context.Background(), "l1")
			if tc.expectedError != nil {
				require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.wantStatus, closed.Status)
			if tc.status == model.ListingActive {
				require.Equal(t, tc.wantWinner, closed.WinnerID)
				require.Equal(t, tc.wantWinner != "", closed.HasWinner())
			}
		})
	}
}

// Close called twice sequentially fixes the winner once and fires side effects once
func TestBiddingService_Close_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	clk := clock.NewFake(start.Add(time.Hour))
	events := NewMockAuctionEvents(ctrl)
	service := NewBiddingService(repo, clk, testPolicy(), events)
	seedListing(t, repo, "l1", 100, model.ListingActive)

	_, err := service.PlaceBid(ctx, "l1", "buyer", 120)
	require.NoError(t, err)

	clk.Set(end)
	events.EXPECT().AuctionClosed(gomock.Any(), gomock.Any()).Times(1)

	first, err := service.Close(ctx, "l1")
	require.NoError(t, err)
	second, err := service.Close(ctx, "l1")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, "buyer", second.WinnerID)
}

// Concurrent close attempts: exactly one transition, every caller sees the same ended listing
func TestBiddingService_Close_Concurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	clk := clock.NewFake(start.Add(time.Hour))
	events := NewMockAuctionEvents(ctrl)
	service := NewBiddingService(repo, clk, testPolicy(), events)
	seedListing(t, repo, "l1", 100, model.ListingActive)

	_, err := service.PlaceBid(ctx, "l1", "buyer", 300)
	require.NoError(t, err)
	clk.Set(end)

	events.EXPECT().AuctionClosed(gomock.Any(), gomock.Any()).Times(1)

	const closers = 32
	results := make([]model.Listing, closers)
	errs := make([]error, closers)
	var wg sync.WaitGroup
	for i := 0; i < closers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = service.Close(ctx, "l1")
		}(i)
	}
	wg.Wait()

	for i := 0; i < closers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, model.ListingEnded, results[i].Status)
		require.Equal(t, "buyer", results[i].WinnerID)
		require.Equal(t, results[0].Version, results[i].Version)
	}
}

// Bids racing a close never land after the listing has ended
func TestBiddingService_BidAfterClose(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	clk := clock.NewFake(end)
	service := NewBiddingService(repo, clk, testPolicy(), nil)
	seedListing(t, repo, "l1", 100, model.ListingActive)

	_, err := service.Close(ctx, "l1")
	require.NoError(t, err)

	clk.Set(start.Add(time.Hour)) // even with a clock inside the window, status gates the bid
	_, err = service.PlaceBid(ctx, "l1", "late", 1000)
	require.True(t, errors.Is(err, auctionerrors.ErrNotActive))
}

func TestBiddingService_Activate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	clk := clock.NewFake(start.Add(-time.Minute))
	service := NewBiddingService(repo, clk, testPolicy(), nil)
	seedListing(t, repo, "l1", 100, model.ListingPending)

	l, err := service.Activate(ctx, "l1")
	require.NoError(t, err)
	require.Equal(t, model.ListingPending, l.Status, "not yet due")

	clk.Set(start)
	l, err = service.Activate(ctx, "l1")
	require.NoError(t, err)
	require.Equal(t, model.ListingActive, l.Status)

	again, err := service.Activate(ctx, "l1")
	require.NoError(t, err)
	require.Equal(t, l.Version, again.Version, "second activation is a no-op")

	_, err = service.Activate(ctx, "missing")
	require.True(t, errors.Is(err, auctionerrors.ErrNotFound))
}

func TestBiddingService_CreateListing(t *testing.T) {
	now := start.Add(-time.Hour)

	valid := NewListing{
		SellerID:   "seller",
		Title:      "Road bike",
		Condition:  "good",
		StartPrice: 250,
		StartTime:  start,
		EndTime:    end,
	}

	tests := []struct {
		name          string
		mutate        func(req *NewListing)
		expectedError error
		wantStatus    model.ListingStatus
	}{
		{name: "future_start_is_pending", mutate: func(req *NewListing) {}, wantStatus: model.ListingPending},
		{name: "past_start_is_active", mutate: func(req *NewListing) { req.StartTime = now.Add(-time.Minute) }, wantStatus: model.ListingActive},
		{name: "missing_seller", mutate: func(req *NewListing) { req.SellerID = "" }, expectedError: auctionerrors.ErrInvalidRequest},
		{name: "blank_title", mutate: func(req *NewListing) { req.Title = "   " }, expectedError: auctionerrors.ErrInvalidRequest},
		{name: "zero_price", mutate: func(req *NewListing) { req.StartPrice = 0 }, expectedError: auctionerrors.ErrInvalidRequest},
		{name: "end_before_start", mutate: func(req *NewListing) { req.EndTime = start.Add(-time.Minute) }, expectedError: auctionerrors.ErrInvalidRequest},
		{name: "end_in_past", mutate: func(req *NewListing) { req.StartTime = now.Add(-2 * time.Hour); req.EndTime = now.Add(-time.Hour) }, expectedError: auctionerrors.ErrInvalidRequest},
		{name: "unknown_condition", mutate: func(req *NewListing) { req.Condition = "mint" }, expectedError: auctionerrors.ErrInvalidRequest},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := repository.NewMemoryRepo()
			service := NewBiddingService(repo, clock.NewFake(now), testPolicy(), nil)

			req := valid
			tc.mutate(&req)
			listing, err := service.CreateListing(context.Background(), req)
			if tc.expectedError != nil {
				require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.wantStatus, listing.Status)
			require.Equal(t, req.StartPrice, listing.CurrentBid)
			require.Equal(t, 0, listing.BidCount)
			require.Equal(t, int64(1), listing.Version)
			require.Empty(t, listing.WinnerID)

			stored, err := repo.GetListing(context.Background(), listing.ListingID)
			require.NoError(t, err)
			require.Equal(t, listing, stored)
		})
	}
}

func TestBiddingService_GetListingsByBidder(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	service := NewBiddingService(repo, clock.NewFake(start.Add(time.Hour)), testPolicy(), nil)
	seedListing(t, repo, "l1", 100, model.ListingActive)
	seedListing(t, repo, "l2", 100, model.ListingActive)

	_, err := service.PlaceBid(ctx, "l1", "user1", 110)
	require.NoError(t, err)
	_, err = service.PlaceBid(ctx, "l2", "user1", 110)
	require.NoError(t, err)
	_, err = service.PlaceBid(ctx, "l1", "user1", 120)
	require.NoError(t, err)

	listings, err := service.GetListingsByBidder(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, listings, 2)

	_, err = service.GetListingsByBidder(ctx, "")
	require.True(t, errors.Is(err, auctionerrors.ErrInvalidRequest))
}
