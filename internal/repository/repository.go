package repository

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
)

// ListingStore defines listing and bid storage for the auction ledger.
// ConditionalUpdateListing writes listing only if the stored version still equals expectedVersion,
// and returns the stored record with its new version.
type ListingStore interface {
	CreateListing(ctx context.Context, listing model.Listing) error
	GetListing(ctx context.Context, listingID string) (model.Listing, error)
	ConditionalUpdateListing(ctx context.Context, expectedVersion int64, listing model.Listing) (model.Listing, error)
	ListDueListings(ctx context.Context, now time.Time, limit int) ([]model.Listing, error)
	RecordBid(ctx context.Context, bid model.Bid) error
	GetBidsByListing(ctx context.Context, listingID string) ([]model.Bid, error)
	GetListingsByBidder(ctx context.Context, userID string) ([]model.Listing, error)
}

// TransactionStore defines transaction storage for the fulfillment state machine.
// CreateTransaction fails with ErrAlreadyExists when a transaction for the same (listing, buyer) exists.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx model.Transaction) error
	GetTransaction(ctx context.Context, transactionID string) (model.Transaction, error)
	FindTransaction(ctx context.Context, listingID, buyerID string) (model.Transaction, error)
	ConditionalUpdateTransaction(ctx context.Context, expectedVersion int64, tx model.Transaction) (model.Transaction, error)
	ListTransactions(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, int, error)
}

// UserStore defines user storage
type UserStore interface {
	CreateUser(ctx context.Context, user model.User) error
	GetUser(ctx context.Context, userID string) (model.User, error)
}

// AuctionDB is the full storage surface of the marketplace
type AuctionDB interface {
	ListingStore
	TransactionStore
	UserStore
	RecordCompletion(ctx context.Context, transactionID, buyerID, sellerID string) (bool, error)
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu           sync.RWMutex
	listings     map[string]model.Listing     // key: listingID
	bids         map[string][]model.Bid       // key: listingID -> accepted bids
	bidderLots   map[string][]string          // key: userID -> listingIDs the user has bid on
	transactions map[string]model.Transaction // key: transactionID
	txByPair     map[string]string            // key: listingID/buyerID -> transactionID
	users        map[string]model.User        // key: userID
	emails       map[string]string            // key: email -> userID
	completions  map[string]struct{}          // key: transactionID already counted
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		listings:     make(map[string]model.Listing),
		bids:         make(map[string][]model.Bid),
		bidderLots:   make(map[string][]string),
		transactions: make(map[string]model.Transaction),
		txByPair:     make(map[string]string),
		users:        make(map[string]model.User),
		emails:       make(map[string]string),
		completions:  make(map[string]struct{}),
	}
}

func pairKey(listingID, buyerID string) string {
	return listingID + "/" + buyerID
}

// CreateListing stores a new listing
func (r *MemoryRepo) CreateListing(_ context.Context, listing model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[listing.ListingID]; ok {
		return fmt.Errorf("create listing %s: %w", listing.ListingID, auctionerrors.ErrAlreadyExists)
	}
	r.listings[listing.ListingID] = listing
	return nil
}

// GetListing returns a listing by ID
func (r *MemoryRepo) GetListing(_ context.Context, listingID string) (model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[listingID]
	if !ok {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", listingID, auctionerrors.ErrNotFound)
	}
	return listing, nil
}

// ConditionalUpdateListing replaces a listing if its stored version matches expectedVersion
func (r *MemoryRepo) ConditionalUpdateListing(_ context.Context, expectedVersion int64, listing model.Listing) (model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.listings[listing.ListingID]
	if !ok {
		return model.Listing{}, fmt.Errorf("update listing %s: %w", listing.ListingID, auctionerrors.ErrNotFound)
	}
	if stored.Version != expectedVersion {
		return model.Listing{}, fmt.Errorf("update listing %s at version %d: %w", listing.ListingID, expectedVersion, auctionerrors.ErrConflict)
	}

	listing.Version = expectedVersion + 1
	r.listings[listing.ListingID] = listing
	return listing, nil
}

// ListDueListings returns pending listings whose start time has passed and active listings whose end time has passed
func (r *MemoryRepo) ListDueListings(_ context.Context, now time.Time, limit int) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	due := make([]model.Listing, 0)
	for _, l := range r.listings {
		switch {
		case l.Status == model.ListingPending && !now.Before(l.StartTime):
			due = append(due, l)
		case l.Status == model.ListingActive && !now.Before(l.EndTime):
			due = append(due, l)
		}
	}

	sort.Slice(due, func(i, j int) bool { return due[i].EndTime.Before(due[j].EndTime) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// RecordBid appends an accepted bid to the listing's history
func (r *MemoryRepo) RecordBid(_ context.Context, bid model.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[bid.ListingID]; !ok {
		return fmt.Errorf("record bid for listing %s: %w", bid.ListingID, auctionerrors.ErrNotFound)
	}

	r.bids[bid.ListingID] = append(r.bids[bid.ListingID], bid)

	for _, id := range r.bidderLots[bid.BidderID] {
		if id == bid.ListingID {
			return nil
		}
	}
	r.bidderLots[bid.BidderID] = append(r.bidderLots[bid.BidderID], bid.ListingID)

	return nil
}

// GetBidsByListing returns the accepted bids of a listing ordered by sequence
func (r *MemoryRepo) GetBidsByListing(_ context.Context, listingID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.listings[listingID]; !ok {
		return nil, fmt.Errorf("get bids for listing %s: %w", listingID, auctionerrors.ErrNotFound)
	}

	bids := append([]model.Bid{}, r.bids[listingID]...)
	sort.Slice(bids, func(i, j int) bool { return bids[i].Sequence < bids[j].Sequence })
	return bids, nil
}

// GetListingsByBidder returns all listings a user has placed accepted bids on
func (r *MemoryRepo) GetListingsByBidder(_ context.Context, userID string) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.bidderLots[userID]
	listings := make([]model.Listing, 0, len(ids))
	for _, id := range ids {
		if l, ok := r.listings[id]; ok {
			listings = append(listings, l)
		}
	}
	return listings, nil
}

// CreateTransaction stores a new transaction, enforcing one transaction per (listing, buyer)
func (r *MemoryRepo) CreateTransaction(_ context.Context, tx model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(tx.ListingID, tx.BuyerID)
	if _, ok := r.txByPair[key]; ok {
		return fmt.Errorf("create transaction for listing %s: %w", tx.ListingID, auctionerrors.ErrAlreadyExists)
	}
	if _, ok := r.transactions[tx.TransactionID]; ok {
		return fmt.Errorf("create transaction %s: %w", tx.TransactionID, auctionerrors.ErrAlreadyExists)
	}

	r.transactions[tx.TransactionID] = tx
	r.txByPair[key] = tx.TransactionID
	return nil
}

// GetTransaction returns a transaction by ID
func (r *MemoryRepo) GetTransaction(_ context.Context, transactionID string) (model.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.transactions[transactionID]
	if !ok {
		return model.Transaction{}, fmt.Errorf("get transaction %s: %w", transactionID, auctionerrors.ErrNotFound)
	}
	return tx, nil
}

// FindTransaction returns the transaction for a (listing, buyer) pair
func (r *MemoryRepo) FindTransaction(_ context.Context, listingID, buyerID string) (model.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.txByPair[pairKey(listingID, buyerID)]
	if !ok {
		return model.Transaction{}, fmt.Errorf("find transaction for listing %s: %w", listingID, auctionerrors.ErrNotFound)
	}
	return r.transactions[id], nil
}

// ConditionalUpdateTransaction replaces a transaction if its stored version matches expectedVersion
func (r *MemoryRepo) ConditionalUpdateTransaction(_ context.Context, expectedVersion int64, tx model.Transaction) (model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.transactions[tx.TransactionID]
	if !ok {
		return model.Transaction{}, fmt.Errorf("update transaction %s: %w", tx.TransactionID, auctionerrors.ErrNotFound)
	}
	if stored.Version != expectedVersion {
		return model.Transaction{}, fmt.Errorf("update transaction %s at version %d: %w", tx.TransactionID, expectedVersion, auctionerrors.ErrConflict)
	}

	tx.Version = expectedVersion + 1
	r.transactions[tx.TransactionID] = tx
	return tx, nil
}

// ListTransactions returns a page of a user's transactions, newest first, with the total match count
func (r *MemoryRepo) ListTransactions(_ context.Context, filter model.TransactionFilter) ([]model.Transaction, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]model.Transaction, 0)
	for _, tx := range r.transactions {
		switch filter.Role {
		case "buying":
			if tx.BuyerID != filter.UserID {
				continue
			}
		case "selling":
			if tx.SellerID != filter.UserID {
				continue
			}
		default:
			if tx.BuyerID != filter.UserID && tx.SellerID != filter.UserID {
				continue
			}
		}
		if filter.Status != "" && tx.Status != filter.Status {
			continue
		}
		matches = append(matches, tx)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })

	total := len(matches)
	start := (filter.Page - 1) * filter.Limit
	if start < 0 || start >= total {
		return []model.Transaction{}, total, nil
	}
	end := start + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}
	return matches[start:end], total, nil
}

// CreateUser stores a new user; emails are unique
func (r *MemoryRepo) CreateUser(_ context.Context, user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.UserID]; ok {
		return fmt.Errorf("create user %s: %w", user.UserID, auctionerrors.ErrAlreadyExists)
	}
	if _, ok := r.emails[user.Email]; ok {
		return fmt.Errorf("create user with email %s: %w", user.Email, auctionerrors.ErrAlreadyExists)
	}

	r.users[user.UserID] = user
	r.emails[user.Email] = user.UserID
	return nil
}

// GetUser returns a user by ID
func (r *MemoryRepo) GetUser(_ context.Context, userID string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, auctionerrors.ErrNotFound)
	}
	return user, nil
}

// RecordCompletion increments both parties' transaction counters once per transaction.
// It reports false without changing anything when the transaction was already counted.
func (r *MemoryRepo) RecordCompletion(_ context.Context, transactionID, buyerID, sellerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, done := r.completions[transactionID]; done {
		return false, nil
	}

	buyer, ok := r.users[buyerID]
	if !ok {
		return false, fmt.Errorf("record completion for buyer %s: %w", buyerID, auctionerrors.ErrNotFound)
	}
	seller, ok := r.users[sellerID]
	if !ok {
		return false, fmt.Errorf("record completion for seller %s: %w", sellerID, auctionerrors.ErrNotFound)
	}

	buyer.CompletedTransactions++
	buyer.SuccessfulTransactions++
	seller.CompletedTransactions++
	seller.SuccessfulTransactions++
	r.users[buyerID] = buyer
	r.users[sellerID] = seller
	r.completions[transactionID] = struct{}{}
	return true, nil
}
