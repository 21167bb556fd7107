package models

import "time"

// User represents a marketplace participant
type User struct {
	UserID                 string    `json:"user_id"`
	Name                   string    `json:"name"`
	Email                  string    `json:"email"`
	CompletedTransactions  int       `json:"completed_transactions"`
	SuccessfulTransactions int       `json:"successful_transactions"`
	JoinedAt               time.Time `json:"joined_at"`
}

// ListingStatus is the lifecycle state of an auction listing
type ListingStatus string

const (
	ListingPending   ListingStatus = "pending"
	ListingActive    ListingStatus = "active"
	ListingEnded     ListingStatus = "ended"
	ListingCompleted ListingStatus = "completed"
)

// Condition values accepted for a listed item
var Conditions = []string{"new", "like-new", "good", "fair", "poor"}

// Listing represents an item under auction.
// Version is bumped by every stored update and is the compare-and-set token.
type Listing struct {
	ListingID       string        `json:"listing_id"`
	SellerID        string        `json:"seller_id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Category        string        `json:"category"`
	Condition       string        `json:"condition"`
	ImageURL        string        `json:"image_url"`
	StartPrice      float64       `json:"start_price"`
	CurrentBid      float64       `json:"current_bid"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         time.Time     `json:"end_time"`
	Status          ListingStatus `json:"status"`
	HighestBidderID string        `json:"highest_bidder_id,omitempty"`
	WinnerID        string        `json:"winner_id,omitempty"`
	BidCount        int           `json:"bid_count"`
	Version         int64         `json:"version"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// HasWinner reports whether the listing closed with a winning bidder
func (l Listing) HasWinner() bool {
	return l.WinnerID != ""
}

// Bid represents an accepted bid on a listing.
// Sequence is the listing version produced by accepting the bid.
type Bid struct {
	BidID     string    `json:"bid_id"`
	ListingID string    `json:"listing_id"`
	BidderID  string    `json:"bidder_id"`
	Amount    float64   `json:"amount"`
	Sequence  int64     `json:"sequence"`
	CreatedAt time.Time `json:"created_at"`
}

// PlacedBid is the outcome of an accepted bid
type PlacedBid struct {
	Bid     Bid     `json:"bid"`
	Listing Listing `json:"listing"`
}

// TransactionStatus is the fulfillment state of a transaction
type TransactionStatus string

const (
	StatusPendingPayment TransactionStatus = "pending_payment"
	StatusPaid           TransactionStatus = "paid"
	StatusShipped        TransactionStatus = "shipped"
	StatusDelivered      TransactionStatus = "delivered"
	StatusCompleted      TransactionStatus = "completed"
	StatusCancelled      TransactionStatus = "cancelled"
	StatusDisputed       TransactionStatus = "disputed"
	StatusRefunded       TransactionStatus = "refunded"
)

var transactionStatuses = map[TransactionStatus]struct{}{
	StatusPendingPayment: {},
	StatusPaid:           {},
	StatusShipped:        {},
	StatusDelivered:      {},
	StatusCompleted:      {},
	StatusCancelled:      {},
	StatusDisputed:       {},
	StatusRefunded:       {},
}

// Valid reports whether s is a known transaction status
func (s TransactionStatus) Valid() bool {
	_, ok := transactionStatuses[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible from s
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRefunded
}

// ShippingAddress is the delivery destination supplied by the buyer
type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// Transaction tracks fulfillment of a won auction.
// BuyerID, SellerID, ListingID and FinalPrice never change after creation.
type Transaction struct {
	TransactionID     string            `json:"transaction_id"`
	ListingID         string            `json:"listing_id"`
	BuyerID           string            `json:"buyer_id"`
	SellerID          string            `json:"seller_id"`
	FinalPrice        float64           `json:"final_price"`
	Status            TransactionStatus `json:"status"`
	PaymentMethod     string            `json:"payment_method,omitempty"`
	PaymentID         string            `json:"payment_id,omitempty"`
	ShippingAddress   *ShippingAddress  `json:"shipping_address,omitempty"`
	TrackingNumber    string            `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time        `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time        `json:"actual_delivery,omitempty"`
	Notes             string            `json:"notes,omitempty"`
	CancelReason      string            `json:"cancel_reason,omitempty"`
	DisputeReason     string            `json:"dispute_reason,omitempty"`
	RefundAmount      float64           `json:"refund_amount,omitempty"`
	RefundReason      string            `json:"refund_reason,omitempty"`
	CompletedAt       *time.Time        `json:"completed_at,omitempty"`
	Version           int64             `json:"version"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// Counterparty returns the other participant of the transaction, or "" when userID is not a party
func (t Transaction) Counterparty(userID string) string {
	switch userID {
	case t.BuyerID:
		return t.SellerID
	case t.SellerID:
		return t.BuyerID
	default:
		return ""
	}
}

// TransactionFilter narrows a participant's transaction listing
type TransactionFilter struct {
	UserID string
	Role   string // "buying", "selling" or "" for both
	Status TransactionStatus
	Page   int
	Limit  int
}

// NotificationType classifies a notification event
type NotificationType string

const (
	NotificationAuctionWon           NotificationType = "auction_won"
	NotificationAuctionEnded         NotificationType = "auction_ended"
	NotificationPaymentRequired      NotificationType = "payment_required"
	NotificationPaymentReceived      NotificationType = "payment_received"
	NotificationItemShipped          NotificationType = "item_shipped"
	NotificationItemDelivered        NotificationType = "item_delivered"
	NotificationTransactionCompleted NotificationType = "transaction_completed"
	NotificationTransactionCancelled NotificationType = "transaction_cancelled"
	NotificationTransactionDisputed  NotificationType = "transaction_disputed"
	NotificationTransactionRefunded  NotificationType = "transaction_refunded"
)

// Notification is an event addressed to a single user
type Notification struct {
	NotificationID string           `json:"notification_id"`
	UserID         string           `json:"user_id"`
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	RelatedListing string           `json:"related_listing,omitempty"`
	RelatedUser    string           `json:"related_user,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}
