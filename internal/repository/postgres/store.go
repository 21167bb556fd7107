package postgres

import (
	"auction-marketplace/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements repository.AuctionDB using PostgreSQL
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store backed by the given connection pool
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ repository.AuctionDB = (*Store)(nil)
