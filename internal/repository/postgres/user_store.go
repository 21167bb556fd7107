package postgres

import (
	"context"
	"fmt"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/models"

	"github.com/jackc/pgx/v5"
)

// CreateUser inserts a user; emails are unique
func (s *Store) CreateUser(ctx context.Context, u models.User) error {
	const query = `
		INSERT INTO users (user_id, name, email, completed_transactions, successful_transactions, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, query, u.UserID, u.Name, u.Email, u.CompletedTransactions, u.SuccessfulTransactions, u.JoinedAt)
	if err != nil {
		return fmt.Errorf("postgres: create user %s: %w", u.UserID, mapError(err))
	}
	return nil
}

// GetUser returns a user by ID
func (s *Store) GetUser(ctx context.Context, userID string) (models.User, error) {
	const query = `
		SELECT user_id, name, email, completed_transactions, successful_transactions, joined_at
		FROM users WHERE user_id = $1`

	var u models.User
	err := s.pool.QueryRow(ctx, query, userID).Scan(&u.UserID, &u.Name, &u.Email, &u.CompletedTransactions, &u.SuccessfulTransactions, &u.JoinedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("postgres: get user %s: %w", userID, mapError(err))
	}
	u.JoinedAt = u.JoinedAt.UTC()
	return u, nil
}

// RecordCompletion increments both parties' counters once per transaction.
// The reputation_events primary key makes a repeated call a no-op that reports false.
func (s *Store) RecordCompletion(ctx context.Context, transactionID, buyerID, sellerID string) (bool, error) {
	counted := false
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO reputation_events (transaction_id, buyer_id, seller_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (transaction_id) DO NOTHING`, transactionID, buyerID, sellerID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		tag, err = tx.Exec(ctx, `
			UPDATE users SET
				completed_transactions = completed_transactions + 1,
				successful_transactions = successful_transactions + 1
			WHERE user_id = $1 OR user_id = $2`, buyerID, sellerID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() != 2 {
			return fmt.Errorf("parties %s/%s: %w", buyerID, sellerID, auctionerrors.ErrNotFound)
		}
		counted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("postgres: record completion of transaction %s: %w", transactionID, err)
	}
	return counted, nil
}
