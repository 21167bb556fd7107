// Package dispatch applies the side effects of auction and fulfillment transitions:
// reputation counters and user notifications. Failures are logged and never
// propagated; the committed state transition is the source of truth.
package dispatch

//go:generate mockgen -source=dispatcher.go -destination=mock_dispatcher.go -package=dispatch

import (
	"context"
	"fmt"

	"auction-marketplace/internal/clock"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/retry"
	"auction-marketplace/utils"
)

// Notifier delivers a notification to its addressee. Delivery is best effort.
type Notifier interface {
	Emit(ctx context.Context, n models.Notification) error
}

// ReputationLedger records a completed transaction against both parties' counters.
// Recording the same transaction twice must not count it twice; the bool reports whether counters changed.
type ReputationLedger interface {
	RecordCompletion(ctx context.Context, transactionID, buyerID, sellerID string) (bool, error)
}

// ListingReader resolves listing titles for notification text
type ListingReader interface {
	GetListing(ctx context.Context, listingID string) (models.Listing, error)
}

// Dispatcher fans transition side effects out to the reputation ledger and the notifier
type Dispatcher struct {
	notifier   Notifier
	reputation ReputationLedger
	listings   ListingReader
	clock      clock.Clock
	retry      retry.Policy
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(notifier Notifier, reputation ReputationLedger, listings ListingReader, clk clock.Clock, policy retry.Policy) *Dispatcher {
	if clk == nil {
		clk = clock.System{}
	}
	return &Dispatcher{
		notifier:   notifier,
		reputation: reputation,
		listings:   listings,
		clock:      clk,
		retry:      policy,
	}
}

// AuctionClosed tells the seller the auction ended and the winner, if any, that they won
func (d *Dispatcher) AuctionClosed(ctx context.Context, listing models.Listing) {
	title := listing.Title
	if !listing.HasWinner() {
		d.emit(ctx, listing.SellerID, models.NotificationAuctionEnded, "Auction Ended",
			fmt.Sprintf("Your auction %q ended without any bids.", title), listing.ListingID, "")
		return
	}

	d.emit(ctx, listing.SellerID, models.NotificationAuctionEnded, "Auction Ended",
		fmt.Sprintf("Your auction %q ended with a winning bid of %.2f.", title, listing.CurrentBid), listing.ListingID, listing.WinnerID)
	d.emit(ctx, listing.WinnerID, models.NotificationAuctionWon, "Auction Won!",
		fmt.Sprintf("You won %q for %.2f. Create the transaction to proceed with payment.", title, listing.CurrentBid), listing.ListingID, listing.SellerID)
}

// TransactionCreated tells the seller payment is pending and asks the buyer to pay
func (d *Dispatcher) TransactionCreated(ctx context.Context, tx models.Transaction) {
	title := d.listingTitle(ctx, tx.ListingID)

	d.emit(ctx, tx.SellerID, models.NotificationAuctionWon, "Auction Won!",
		fmt.Sprintf("Your auction %q has been won. Payment is pending.", title), tx.ListingID, tx.BuyerID)
	d.emit(ctx, tx.BuyerID, models.NotificationPaymentRequired, "Payment Required",
		fmt.Sprintf("Please complete payment for %q to proceed with the transaction.", title), tx.ListingID, tx.SellerID)
}

// TransitionApplied runs the side effects of tx having just entered its current status because of actorID.
// Entering completed records the completion for both parties before notifying.
func (d *Dispatcher) TransitionApplied(ctx context.Context, tx models.Transaction, actorID string) {
	if tx.Status == models.StatusCompleted {
		d.recordCompletion(ctx, tx)
	}

	kind, title, template, ok := transitionNotice(tx.Status)
	if !ok {
		return
	}

	recipient := tx.Counterparty(actorID)
	if recipient == "" {
		utils.Warn("dispatch: actor is not a party to the transaction", map[string]any{
			"transaction_id": tx.TransactionID,
			"actor_id":       actorID,
		})
		return
	}

	message := fmt.Sprintf(template, d.listingTitle(ctx, tx.ListingID))
	d.emit(ctx, recipient, kind, title, message, tx.ListingID, actorID)
}

func transitionNotice(status models.TransactionStatus) (models.NotificationType, string, string, bool) {
	switch status {
	case models.StatusPaid:
		return models.NotificationPaymentReceived, "Payment Received", "Payment has been received for %q. Please ship the item.", true
	case models.StatusShipped:
		return models.NotificationItemShipped, "Item Shipped", "Your item %q has been shipped.", true
	case models.StatusDelivered:
		return models.NotificationItemDelivered, "Item Delivered", "Your item %q has been delivered.", true
	case models.StatusCompleted:
		return models.NotificationTransactionCompleted, "Transaction Completed", "Transaction for %q has been completed successfully.", true
	case models.StatusCancelled:
		return models.NotificationTransactionCancelled, "Transaction Cancelled", "The transaction for %q has been cancelled.", true
	case models.StatusDisputed:
		return models.NotificationTransactionDisputed, "Transaction Disputed", "A dispute has been opened for %q.", true
	case models.StatusRefunded:
		return models.NotificationTransactionRefunded, "Transaction Refunded", "The transaction for %q has been refunded.", true
	default:
		return "", "", "", false
	}
}

func (d *Dispatcher) recordCompletion(ctx context.Context, tx models.Transaction) {
	if d.reputation == nil {
		return
	}

	counted := false
	err := retry.Do(ctx, d.retry, func() error {
		ok, err := d.reputation.RecordCompletion(ctx, tx.TransactionID, tx.BuyerID, tx.SellerID)
		counted = counted || ok
		return err
	})
	if err != nil {
		utils.Error("dispatch: failed to record completion", map[string]any{
			"transaction_id": tx.TransactionID,
			"buyer_id":       tx.BuyerID,
			"seller_id":      tx.SellerID,
			"error":          err.Error(),
		})
		return
	}

	utils.Info("dispatch: completion recorded", map[string]any{
		"transaction_id": tx.TransactionID,
		"counted":        counted,
	})
}

func (d *Dispatcher) listingTitle(ctx context.Context, listingID string) string {
	if d.listings != nil {
		if l, err := d.listings.GetListing(ctx, listingID); err == nil && l.Title != "" {
			return l.Title
		}
	}
	return "your item"
}

func (d *Dispatcher) emit(ctx context.Context, userID string, kind models.NotificationType, title, message, listingID, relatedUser string) {
	if d.notifier == nil || userID == "" {
		return
	}

	n := models.Notification{
		NotificationID: utils.GenerateID(),
		UserID:         userID,
		Type:           kind,
		Title:          title,
		Message:        message,
		RelatedListing: listingID,
		RelatedUser:    relatedUser,
		CreatedAt:      d.clock.Now(),
	}
	if err := d.notifier.Emit(ctx, n); err != nil {
		utils.Error("dispatch: failed to emit notification", map[string]any{
			"notification_id": n.NotificationID,
			"user_id":         userID,
			"type":            string(kind),
			"listing_id":      listingID,
			"error":           err.Error(),
		})
	}
}
