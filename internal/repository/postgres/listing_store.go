package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/models"

	"github.com/jackc/pgx/v5"
)

const listingCols = `listing_id, seller_id, title, description, category, condition, image_url,
	start_price, current_bid, start_time, end_time, status, highest_bidder_id, winner_id,
	bid_count, version, created_at, updated_at`

func scanListing(row pgx.Row) (models.Listing, error) {
	var l models.Listing
	var status string
	err := row.Scan(
		&l.ListingID, &l.SellerID, &l.Title, &l.Description, &l.Category, &l.Condition, &l.ImageURL,
		&l.StartPrice, &l.CurrentBid, &l.StartTime, &l.EndTime, &status, &l.HighestBidderID, &l.WinnerID,
		&l.BidCount, &l.Version, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return models.Listing{}, err
	}
	l.Status = models.ListingStatus(status)
	l.StartTime = l.StartTime.UTC()
	l.EndTime = l.EndTime.UTC()
	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()
	return l, nil
}

func collectListings(rows pgx.Rows) ([]models.Listing, error) {
	defer rows.Close()

	listings := make([]models.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// CreateListing inserts a new listing
func (s *Store) CreateListing(ctx context.Context, l models.Listing) error {
	const query = `
		INSERT INTO listings (` + listingCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := s.pool.Exec(ctx, query,
		l.ListingID, l.SellerID, l.Title, l.Description, l.Category, l.Condition, l.ImageURL,
		l.StartPrice, l.CurrentBid, l.StartTime, l.EndTime, string(l.Status), l.HighestBidderID, l.WinnerID,
		l.BidCount, l.Version, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create listing %s: %w", l.ListingID, mapError(err))
	}
	return nil
}

// GetListing returns a listing by ID
func (s *Store) GetListing(ctx context.Context, listingID string) (models.Listing, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+listingCols+` FROM listings WHERE listing_id = $1`, listingID)
	l, err := scanListing(row)
	if err != nil {
		return models.Listing{}, fmt.Errorf("postgres: get listing %s: %w", listingID, mapError(err))
	}
	return l, nil
}

// ConditionalUpdateListing writes the mutable listing fields if the stored version equals expectedVersion
func (s *Store) ConditionalUpdateListing(ctx context.Context, expectedVersion int64, l models.Listing) (models.Listing, error) {
	const query = `
		UPDATE listings SET
			title = $3, description = $4, category = $5, condition = $6, image_url = $7,
			current_bid = $8, status = $9, highest_bidder_id = $10, winner_id = $11,
			bid_count = $12, updated_at = $13, version = version + 1
		WHERE listing_id = $1 AND version = $2
		RETURNING ` + listingCols

	row := s.pool.QueryRow(ctx, query,
		l.ListingID, expectedVersion,
		l.Title, l.Description, l.Category, l.Condition, l.ImageURL,
		l.CurrentBid, string(l.Status), l.HighestBidderID, l.WinnerID,
		l.BidCount, l.UpdatedAt,
	)
	updated, err := scanListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Listing{}, s.missOrConflict(ctx, "listings", "listing_id", l.ListingID, expectedVersion)
	}
	if err != nil {
		return models.Listing{}, fmt.Errorf("postgres: update listing %s: %w", l.ListingID, mapError(err))
	}
	return updated, nil
}

// ListDueListings returns pending listings whose start has passed and active listings whose end has passed
func (s *Store) ListDueListings(ctx context.Context, now time.Time, limit int) ([]models.Listing, error) {
	const query = `
		SELECT ` + listingCols + ` FROM listings
		WHERE (status = 'pending' AND start_time <= $1) OR (status = 'active' AND end_time <= $1)
		ORDER BY end_time
		LIMIT $2`

	rows, err := s.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list due listings: %w", err)
	}
	listings, err := collectListings(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan due listings: %w", err)
	}
	return listings, nil
}

// RecordBid appends an accepted bid to the listing's history
func (s *Store) RecordBid(ctx context.Context, b models.Bid) error {
	const query = `
		INSERT INTO bids (bid_id, listing_id, bidder_id, amount, sequence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := s.pool.Exec(ctx, query, b.BidID, b.ListingID, b.BidderID, b.Amount, b.Sequence, b.CreatedAt); err != nil {
		return fmt.Errorf("postgres: record bid %s: %w", b.BidID, mapError(err))
	}
	return nil
}

// GetBidsByListing returns a listing's bids ordered by sequence
func (s *Store) GetBidsByListing(ctx context.Context, listingID string) ([]models.Bid, error) {
	const query = `
		SELECT bid_id, listing_id, bidder_id, amount, sequence, created_at
		FROM bids WHERE listing_id = $1 ORDER BY sequence`

	rows, err := s.pool.Query(ctx, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("postgres: get bids for listing %s: %w", listingID, err)
	}
	defer rows.Close()

	bids := make([]models.Bid, 0)
	for rows.Next() {
		var b models.Bid
		if err := rows.Scan(&b.BidID, &b.ListingID, &b.BidderID, &b.Amount, &b.Sequence, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan bid: %w", err)
		}
		b.CreatedAt = b.CreatedAt.UTC()
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate bids: %w", err)
	}
	return bids, nil
}

// GetListingsByBidder returns the listings userID has bid on, in order of their first bid
func (s *Store) GetListingsByBidder(ctx context.Context, userID string) ([]models.Listing, error) {
	const query = `
		SELECT ` + listingCols + ` FROM listings l
		JOIN (
			SELECT listing_id, MIN(created_at) AS first_bid
			FROM bids WHERE bidder_id = $1 GROUP BY listing_id
		) b USING (listing_id)
		ORDER BY b.first_bid`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: get listings for bidder %s: %w", userID, err)
	}
	listings, err := collectListings(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan listings for bidder %s: %w", userID, err)
	}
	return listings, nil
}

// missOrConflict explains a compare-and-set that matched no row
func (s *Store) missOrConflict(ctx context.Context, table, key, id string, expectedVersion int64) error {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)", table, key)
	if err := s.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return fmt.Errorf("postgres: check %s %s: %w", table, id, err)
	}
	if !exists {
		return fmt.Errorf("postgres: update %s %s: %w", table, id, auctionerrors.ErrNotFound)
	}
	return fmt.Errorf("postgres: update %s %s at version %d: %w", table, id, expectedVersion, auctionerrors.ErrConflict)
}
