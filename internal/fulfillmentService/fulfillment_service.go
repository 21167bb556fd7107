package fulfillment

import (
	"context"
	"errors"
	"fmt"

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

//go:generate mockgen -source=fulfillment_service.go -destination=mock_fulfillment_service.go -package=fulfillment

var tracer = otel.Tracer("auction-marketplace/fulfillment")

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// TransactionEvents receives the side effects of committed transaction changes
type TransactionEvents interface {
	TransactionCreated(ctx context.Context, tx models.Transaction)
	TransitionApplied(ctx context.Context, tx models.Transaction, actorID string)
}

// FulfillmentService drives a won auction from payment through delivery to completion
type FulfillmentService struct {
	transactions repository.TransactionStore
	listings     repository.ListingStore
	clock        clock.Clock
	retry        retry.Policy
	events       TransactionEvents
}

// NewFulfillmentService creates a new FulfillmentService instance
func NewFulfillmentService(transactions repository.TransactionStore, listings repository.ListingStore, clk clock.Clock, policy retry.Policy, events TransactionEvents) *FulfillmentService {
	if clk == nil {
		clk = clock.System{}
	}
	return &FulfillmentService{
		transactions: transactions,
		listings:     listings,
		clock:        clk,
		retry:        policy,
		events:       events,
	}
}

// CreateTransaction opens fulfillment for the winner of an ended auction.
// The final price is fixed here from the listing's closing bid.
func (s *FulfillmentService) CreateTransaction(ctx context.Context, buyerID, listingID string, shipping *models.ShippingAddress) (created models.Transaction, err error) {
	ctx, span := tracer.Start(ctx, "fulfillment.CreateTransaction", trace.WithAttributes(
		attribute.String("listing.id", listingID),
		attribute.String("buyer.id", buyerID),
	))
	defer func() { observability.Finish(span, err) }()

	if buyerID == "" || listingID == "" {
		return models.Transaction{}, fmt.Errorf("service: %w - missing buyerID or listingID", auctionerrors.ErrInvalidRequest)
	}

	listing, err := s.listings.GetListing(ctx, listingID)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("service: failed to get listing %s: %w", listingID, err)
	}
	if listing.Status != models.ListingEnded && listing.Status != models.ListingCompleted {
		return models.Transaction{}, fmt.Errorf("service: %w - listing %s is %s", auctionerrors.ErrNotEnded, listingID, listing.Status)
	}
	if !listing.HasWinner() || listing.WinnerID != buyerID {
		return models.Transaction{}, fmt.Errorf("service: %w - user %s did not win listing %s", auctionerrors.ErrNotWinner, buyerID, listingID)
	}

	if _, err := s.transactions.FindTransaction(ctx, listingID, buyerID); err == nil {
		return models.Transaction{}, fmt.Errorf("service: %w - transaction for listing %s", auctionerrors.ErrAlreadyExists, listingID)
	} else if !errors.Is(err, auctionerrors.ErrNotFound) {
		return models.Transaction{}, fmt.Errorf("service: failed to look up transaction for listing %s: %w", listingID, err)
	}

	now := s.clock.Now()
	tx := models.Transaction{
		TransactionID:   utils.GenerateID(),
		ListingID:       listingID,
		BuyerID:         buyerID,
		SellerID:        listing.SellerID,
		FinalPrice:      listing.CurrentBid,
		Status:          models.StatusPendingPayment,
		ShippingAddress: shipping,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.transactions.CreateTransaction(ctx, tx); err != nil {
		return models.Transaction{}, fmt.Errorf("service: failed to create transaction for listing %s: %w", listingID, err)
	}

	utils.Info("service: transaction created", map[string]any{
		"transaction_id": tx.TransactionID,
		"listing_id":     listingID,
		"buyer_id":       buyerID,
		"final_price":    tx.FinalPrice,
	})
	if s.events != nil {
		s.events.TransactionCreated(ctx, tx)
	}
	return tx, nil
}

// UpdateStatus moves a transaction along the fulfillment state machine on behalf of actorID.
// Re-issuing completed on a completed transaction returns it unchanged and fires nothing.
func (s *FulfillmentService) UpdateStatus(ctx context.Context, actorID, transactionID string, update StatusUpdate) (result models.Transaction, err error) {
	ctx, span := tracer.Start(ctx, "fulfillment.UpdateStatus", trace.WithAttributes(
		attribute.String("transaction.id", transactionID),
		attribute.String("actor.id", actorID),
		attribute.String("transaction.target_status", string(update.Status)),
	))
	defer func() { observability.Finish(span, err) }()

	if actorID == "" || transactionID == "" {
		return models.Transaction{}, fmt.Errorf("service: %w - missing actorID or transactionID", auctionerrors.ErrInvalidRequest)
	}
	if !update.Status.Valid() {
		return models.Transaction{}, fmt.Errorf("service: %w - unknown status %q", auctionerrors.ErrInvalidRequest, update.Status)
	}

	applied := false
	result, err = retry.OnConflict(ctx, s.retry, func() (models.Transaction, error) {
		tx, err := s.transactions.GetTransaction(ctx, transactionID)
		if err != nil {
			return models.Transaction{}, err
		}

		role := roleOf(tx, actorID)
		if role == 0 {
			return models.Transaction{}, fmt.Errorf("%w - user %s is not a party to transaction %s", auctionerrors.ErrUnauthorized, actorID, transactionID)
		}
		if tx.Status == models.StatusCompleted && update.Status == models.StatusCompleted {
			return tx, nil
		}

		allowed, ok := allowedRoles(tx.Status, update.Status)
		if !ok {
			return models.Transaction{}, fmt.Errorf("%w - %s to %s", auctionerrors.ErrInvalidTransition, tx.Status, update.Status)
		}
		if allowed&role == 0 {
			return models.Transaction{}, fmt.Errorf("%w - only the %s may move a transaction to %s", auctionerrors.ErrUnauthorized, allowed, update.Status)
		}

		next, err := apply(tx, update, s.clock.Now())
		if err != nil {
			return models.Transaction{}, err
		}

		updated, err := s.transactions.ConditionalUpdateTransaction(ctx, tx.Version, next)
		if err == nil {
			applied = true
		}
		return updated, err
	})
	if err != nil {
		return models.Transaction{}, fmt.Errorf("service: failed to move transaction %s to %s: %w", transactionID, update.Status, err)
	}
	if !applied {
		return result, nil
	}

	utils.Info("service: transaction status updated", map[string]any{
		"transaction_id": result.TransactionID,
		"status":         string(result.Status),
		"actor_id":       actorID,
	})
	if s.events != nil {
		s.events.TransitionApplied(ctx, result, actorID)
	}
	if result.Status == models.StatusCompleted {
		s.completeListing(ctx, result.ListingID)
	}
	return result, nil
}

// completeListing moves the sold listing from ended to completed. Failures are logged only.
func (s *FulfillmentService) completeListing(ctx context.Context, listingID string) {
	_, err := retry.OnConflict(ctx, s.retry, func() (models.Listing, error) {
		listing, err := s.listings.GetListing(ctx, listingID)
		if err != nil {
			return models.Listing{}, err
		}
		if listing.Status != models.ListingEnded {
			return listing, nil
		}

		next := listing
		next.Status = models.ListingCompleted
		next.UpdatedAt = s.clock.Now()
		return s.listings.ConditionalUpdateListing(ctx, listing.Version, next)
	})
	if err != nil {
		utils.Error("service: failed to mark listing completed", map[string]any{
			"listing_id": listingID,
			"error":      err.Error(),
		})
	}
}

// GetTransaction returns a transaction visible to userID. Non-parties see ErrNotFound.
func (s *FulfillmentService) GetTransaction(ctx context.Context, userID, transactionID string) (models.Transaction, error) {
	if userID == "" || transactionID == "" {
		return models.Transaction{}, fmt.Errorf("service: %w - missing userID or transactionID", auctionerrors.ErrInvalidRequest)
	}

	tx, err := s.transactions.GetTransaction(ctx, transactionID)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("service: failed to get transaction %s: %w", transactionID, err)
	}
	if roleOf(tx, userID) == 0 {
		return models.Transaction{}, fmt.Errorf("service: %w - transaction %s", auctionerrors.ErrNotFound, transactionID)
	}
	return tx, nil
}

// Page is one page of a user's transactions
type Page struct {
	Transactions []models.Transaction `json:"transactions"`
	Total        int                  `json:"total"`
	Page         int                  `json:"page"`
	Limit        int                  `json:"limit"`
}

// ListTransactions returns userID's transactions, newest first
func (s *FulfillmentService) ListTransactions(ctx context.Context, userID string, filter models.TransactionFilter) (Page, error) {
	if userID == "" {
		return Page{}, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrInvalidRequest)
	}
	switch filter.Role {
	case "", "buying", "selling":
	default:
		return Page{}, fmt.Errorf("service: %w - unknown role %q", auctionerrors.ErrInvalidRequest, filter.Role)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return Page{}, fmt.Errorf("service: %w - unknown status %q", auctionerrors.ErrInvalidRequest, filter.Status)
	}

	filter.UserID = userID
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	txs, total, err := s.transactions.ListTransactions(ctx, filter)
	if err != nil {
		return Page{}, fmt.Errorf("service: failed to list transactions for user %s: %w", userID, err)
	}
	return Page{Transactions: txs, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}
