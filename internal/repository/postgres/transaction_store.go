package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"auction-marketplace/internal/models"

	"github.com/jackc/pgx/v5"
)

const transactionCols = `transaction_id, listing_id, buyer_id, seller_id, final_price, status,
	payment_method, payment_id, shipping_address, tracking_number, estimated_delivery, actual_delivery,
	notes, cancel_reason, dispute_reason, refund_amount, refund_reason, completed_at,
	version, created_at, updated_at`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var (
		tx       models.Transaction
		status   string
		shipping []byte
	)
	err := row.Scan(
		&tx.TransactionID, &tx.ListingID, &tx.BuyerID, &tx.SellerID, &tx.FinalPrice, &status,
		&tx.PaymentMethod, &tx.PaymentID, &shipping, &tx.TrackingNumber, &tx.EstimatedDelivery, &tx.ActualDelivery,
		&tx.Notes, &tx.CancelReason, &tx.DisputeReason, &tx.RefundAmount, &tx.RefundReason, &tx.CompletedAt,
		&tx.Version, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return models.Transaction{}, err
	}

	tx.Status = models.TransactionStatus(status)
	if len(shipping) > 0 {
		var addr models.ShippingAddress
		if err := json.Unmarshal(shipping, &addr); err != nil {
			return models.Transaction{}, fmt.Errorf("decode shipping address: %w", err)
		}
		tx.ShippingAddress = &addr
	}
	tx.CreatedAt = tx.CreatedAt.UTC()
	tx.UpdatedAt = tx.UpdatedAt.UTC()
	return tx, nil
}

func encodeShipping(addr *models.ShippingAddress) ([]byte, error) {
	if addr == nil {
		return nil, nil
	}
	return json.Marshal(addr)
}

// CreateTransaction inserts a transaction; the (listing, buyer) unique key rejects a second one
func (s *Store) CreateTransaction(ctx context.Context, tx models.Transaction) error {
	shipping, err := encodeShipping(tx.ShippingAddress)
	if err != nil {
		return fmt.Errorf("postgres: encode shipping for transaction %s: %w", tx.TransactionID, err)
	}

	const query = `
		INSERT INTO transactions (` + transactionCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	_, err = s.pool.Exec(ctx, query,
		tx.TransactionID, tx.ListingID, tx.BuyerID, tx.SellerID, tx.FinalPrice, string(tx.Status),
		tx.PaymentMethod, tx.PaymentID, shipping, tx.TrackingNumber, tx.EstimatedDelivery, tx.ActualDelivery,
		tx.Notes, tx.CancelReason, tx.DisputeReason, tx.RefundAmount, tx.RefundReason, tx.CompletedAt,
		tx.Version, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create transaction for listing %s: %w", tx.ListingID, mapError(err))
	}
	return nil
}

// GetTransaction returns a transaction by ID
func (s *Store) GetTransaction(ctx context.Context, transactionID string) (models.Transaction, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+transactionCols+` FROM transactions WHERE transaction_id = $1`, transactionID)
	tx, err := scanTransaction(row)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("postgres: get transaction %s: %w", transactionID, mapError(err))
	}
	return tx, nil
}

// FindTransaction returns the transaction for a (listing, buyer) pair
func (s *Store) FindTransaction(ctx context.Context, listingID, buyerID string) (models.Transaction, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+transactionCols+` FROM transactions WHERE listing_id = $1 AND buyer_id = $2`, listingID, buyerID)
	tx, err := scanTransaction(row)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("postgres: find transaction for listing %s: %w", listingID, mapError(err))
	}
	return tx, nil
}

// ConditionalUpdateTransaction writes the mutable transaction fields if the stored version equals expectedVersion.
// Parties, listing and final price are never rewritten.
func (s *Store) ConditionalUpdateTransaction(ctx context.Context, expectedVersion int64, tx models.Transaction) (models.Transaction, error) {
	shipping, err := encodeShipping(tx.ShippingAddress)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("postgres: encode shipping for transaction %s: %w", tx.TransactionID, err)
	}

	const query = `
		UPDATE transactions SET
			status = $3, payment_method = $4, payment_id = $5, shipping_address = $6,
			tracking_number = $7, estimated_delivery = $8, actual_delivery = $9, notes = $10,
			cancel_reason = $11, dispute_reason = $12, refund_amount = $13, refund_reason = $14,
			completed_at = $15, updated_at = $16, version = version + 1
		WHERE transaction_id = $1 AND version = $2
		RETURNING ` + transactionCols

	row := s.pool.QueryRow(ctx, query,
		tx.TransactionID, expectedVersion,
		string(tx.Status), tx.PaymentMethod, tx.PaymentID, shipping,
		tx.TrackingNumber, tx.EstimatedDelivery, tx.ActualDelivery, tx.Notes,
		tx.CancelReason, tx.DisputeReason, tx.RefundAmount, tx.RefundReason,
		tx.CompletedAt, tx.UpdatedAt,
	)
	updated, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Transaction{}, s.missOrConflict(ctx, "transactions", "transaction_id", tx.TransactionID, expectedVersion)
	}
	if err != nil {
		return models.Transaction{}, fmt.Errorf("postgres: update transaction %s: %w", tx.TransactionID, mapError(err))
	}
	return updated, nil
}

// ListTransactions returns a page of a user's transactions, newest first, with the total match count
func (s *Store) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, int, error) {
	where := []string{}
	args := []any{filter.UserID}
	switch filter.Role {
	case "buying":
		where = append(where, "buyer_id = $1")
	case "selling":
		where = append(where, "seller_id = $1")
	default:
		where = append(where, "(buyer_id = $1 OR seller_id = $1)")
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM transactions WHERE "+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres: count transactions for user %s: %w", filter.UserID, err)
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf("SELECT %s FROM transactions WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		transactionCols, clause, len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: list transactions for user %s: %w", filter.UserID, err)
	}
	defer rows.Close()

	txs := make([]models.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: iterate transactions: %w", err)
	}
	return txs, total, nil
}
