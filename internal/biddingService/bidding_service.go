package bidding

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/clock"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/observability"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/retry"
	"auction-marketplace/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=bidding_service.go -destination=mock_bidding_service.go -package=bidding

var tracer = otel.Tracer("auction-marketplace/bidding")

// AuctionEvents receives side effects of a listing closing.
// It is called once per listing, by the caller that won the close race.
type AuctionEvents interface {
	AuctionClosed(ctx context.Context, listing models.Listing)
}

// BiddingService owns listing bid state: it accepts bids and closes auctions
type BiddingService struct {
	repo   repository.ListingStore
	clock  clock.Clock
	retry  retry.Policy
	events AuctionEvents
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.ListingStore, clk clock.Clock, policy retry.Policy, events AuctionEvents) *BiddingService {
	if clk == nil {
		clk = clock.System{}
	}
	return &BiddingService{
		repo:   repo,
		clock:  clk,
		retry:  policy,
		events: events,
	}
}

// NewListing carries the seller's input for a new auction
type NewListing struct {
	SellerID    string
	Title       string
	Description string
	Category    string
	Condition   string
	ImageURL    string
	StartPrice  float64
	StartTime   time.Time
	EndTime     time.Time
}

// CreateListing validates and stores a new auction. A listing whose start time has already
// passed is stored active; otherwise it waits in pending until activated.
func (s *BiddingService) CreateListing(ctx context.Context, req NewListing) (models.Listing, error) {
	now := s.clock.Now()
	if err := validateListing(req, now); err != nil {
		return models.Listing{}, err
	}

	status := models.ListingPending
	if !now.Before(req.StartTime) {
		status = models.ListingActive
	}

	listing := models.Listing{
		ListingID:   utils.GenerateID(),
		SellerID:    req.SellerID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		ImageURL:    req.ImageURL,
		StartPrice:  req.StartPrice,
		CurrentBid:  req.StartPrice,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		Status:      status,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateListing(ctx, listing); err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to create listing for seller %s: %w", req.SellerID, err)
	}
	return listing, nil
}

func validateListing(req NewListing, now time.Time) error {
	switch {
	case req.SellerID == "":
		return fmt.Errorf("service: %w - missing seller", auctionerrors.ErrInvalidRequest)
	case strings.TrimSpace(req.Title) == "":
		return fmt.Errorf("service: %w - missing title", auctionerrors.ErrInvalidRequest)
	case !validAmount(req.StartPrice):
		return fmt.Errorf("service: %w - start price must be positive", auctionerrors.ErrInvalidRequest)
	case !req.StartTime.Before(req.EndTime):
		return fmt.Errorf("service: %w - start time must precede end time", auctionerrors.ErrInvalidRequest)
	case !now.Before(req.EndTime):
		return fmt.Errorf("service: %w - end time already passed", auctionerrors.ErrInvalidRequest)
	case req.Condition != "" && !slices.Contains(models.Conditions, req.Condition):
		return fmt.Errorf("service: %w - unknown condition %q", auctionerrors.ErrInvalidRequest, req.Condition)
	}
	return nil
}

func validAmount(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// GetListing returns a listing snapshot
func (s *BiddingService) GetListing(ctx context.Context, listingID string) (models.Listing, error) {
	if listingID == "" {
		return models.Listing{}, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrInvalidRequest)
	}

	listing, err := s.repo.GetListing(ctx, listingID)
	if err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to get listing %s: %w", listingID, err)
	}
	return listing, nil
}

// PlaceBid validates a bid against the listing's current state and applies it with a
// compare-and-set on the listing version. A lost race re-reads the listing and re-validates,
// so a bid is only ever accepted against the bid it actually outbids.
func (s *BiddingService) PlaceBid(ctx context.Context, listingID, bidderID string, amount float64) (placed models.PlacedBid, err error) {
	ctx, span := tracer.Start(ctx, "bidding.PlaceBid", trace.WithAttributes(
		attribute.String("listing.id", listingID),
		attribute.String("bidder.id", bidderID),
		attribute.Float64("bid.amount", amount),
	))
	defer func() { observability.Finish(span, err) }()

	if listingID == "" || bidderID == "" {
		return models.PlacedBid{}, fmt.Errorf("service: %w - missing listingID or bidderID", auctionerrors.ErrInvalidRequest)
	}
	if !validAmount(amount) {
		return models.PlacedBid{}, fmt.Errorf("service: %w - non-positive bid amount", auctionerrors.ErrInvalidRequest)
	}

	var now time.Time
	updated, err := retry.OnConflict(ctx, s.retry, func() (models.Listing, error) {
		listing, err := s.repo.GetListing(ctx, listingID)
		if err != nil {
			return models.Listing{}, err
		}

		now = s.clock.Now()
		if err := checkBid(listing, bidderID, amount, now); err != nil {
			return models.Listing{}, err
		}

		next := listing
		next.CurrentBid = amount
		next.HighestBidderID = bidderID
		next.BidCount++
		next.UpdatedAt = now
		return s.repo.ConditionalUpdateListing(ctx, listing.Version, next)
	})
	if err != nil {
		return models.PlacedBid{}, fmt.Errorf("service: failed to place bid on listing %s by user %s: %w", listingID, bidderID, err)
	}

	bid := models.Bid{
		BidID:     utils.GenerateID(),
		ListingID: listingID,
		BidderID:  bidderID,
		Amount:    amount,
		Sequence:  updated.Version,
		CreatedAt: now,
	}
	if err := s.repo.RecordBid(ctx, bid); err != nil {
		// the listing update is authoritative; history is an audit trail
		utils.Warn("service: failed to record bid history", map[string]any{
			"listing_id": listingID,
			"bid_id":     bid.BidID,
			"error":      err.Error(),
		})
	}

	return models.PlacedBid{Bid: bid, Listing: updated}, nil
}

// checkBid applies the ledger rules in order: timing/status, self-bid, amount
func checkBid(listing models.Listing, bidderID string, amount float64, now time.Time) error {
	if listing.Status != models.ListingActive || now.Before(listing.StartTime) || !now.Before(listing.EndTime) {
		return fmt.Errorf("%w - listing %s is %s", auctionerrors.ErrNotActive, listing.ListingID, listing.Status)
	}
	if bidderID == listing.SellerID {
		return auctionerrors.ErrSelfBid
	}
	if amount <= listing.CurrentBid {
		return fmt.Errorf("%w - current highest bid is %.2f", auctionerrors.ErrBidTooLow, listing.CurrentBid)
	}
	return nil
}

// Activate opens a pending listing for bidding once its start time is reached.
// It is a no-op for listings that are not pending or not yet due.
func (s *BiddingService) Activate(ctx context.Context, listingID string) (models.Listing, error) {
	listing, err := retry.OnConflict(ctx, s.retry, func() (models.Listing, error) {
		listing, err := s.repo.GetListing(ctx, listingID)
		if err != nil {
			return models.Listing{}, err
		}

		now := s.clock.Now()
		if listing.Status != models.ListingPending || now.Before(listing.StartTime) {
			return listing, nil
		}

		next := listing
		next.Status = models.ListingActive
		next.UpdatedAt = now
		return s.repo.ConditionalUpdateListing(ctx, listing.Version, next)
	})
	if err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to activate listing %s: %w", listingID, err)
	}
	return listing, nil
}

// Close ends an active auction whose end time has passed, fixing the winner to the highest bidder.
// Closing a listing that is no longer active returns it unchanged. Only the caller whose
// compare-and-set moves the listing out of active fires the close side effects.
func (s *BiddingService) Close(ctx context.Context, listingID string) (closed models.Listing, err error) {
	ctx, span := tracer.Start(ctx, "bidding.Close", trace.WithAttributes(attribute.String("listing.id", listingID)))
	defer func() { observability.Finish(span, err) }()

	if listingID == "" {
		return models.Listing{}, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrInvalidRequest)
	}

	transitioned := false
	closed, err = retry.OnConflict(ctx, s.retry, func() (models.Listing, error) {
		listing, err := s.repo.GetListing(ctx, listingID)
		if err != nil {
			return models.Listing{}, err
		}
		if listing.Status != models.ListingActive {
			return listing, nil
		}

		now := s.clock.Now()
		if now.Before(listing.EndTime) {
			return models.Listing{}, fmt.Errorf("%w - listing %s ends at %s", auctionerrors.ErrAuctionInProgress,
				listing.ListingID, listing.EndTime.Format(time.RFC3339))
		}

		next := listing
		next.Status = models.ListingEnded
		next.WinnerID = listing.HighestBidderID
		next.UpdatedAt = now

		updated, err := s.repo.ConditionalUpdateListing(ctx, listing.Version, next)
		if err == nil {
			transitioned = true
		}
		return updated, err
	})
	if err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to close listing %s: %w", listingID, err)
	}

	if transitioned {
		utils.Info("service: auction closed", map[string]any{
			"listing_id": closed.ListingID,
			"winner_id":  closed.WinnerID,
			"final_bid":  closed.CurrentBid,
			"bid_count":  closed.BidCount,
		})
		if s.events != nil {
			s.events.AuctionClosed(ctx, closed)
		}
	}
	return closed, nil
}

// GetBidsForListing returns the accepted bids of a listing in acceptance order
func (s *BiddingService) GetBidsForListing(ctx context.Context, listingID string) ([]models.Bid, error) {
	if listingID == "" {
		return nil, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrInvalidRequest)
	}

	bids, err := s.repo.GetBidsByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for listing %s: %w", listingID, err)
	}
	return bids, nil
}

// GetListingsByBidder returns all listings a user has placed bids on
func (s *BiddingService) GetListingsByBidder(ctx context.Context, userID string) ([]models.Listing, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrInvalidRequest)
	}

	listings, err := s.repo.GetListingsByBidder(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get listings for user %s: %w", userID, err)
	}
	return listings, nil
}
