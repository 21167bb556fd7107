package helpers

import (
	"time"

	model "auction-marketplace/internal/models"
)

// Request/Response DTOs
type CreateListingRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Condition   string    `json:"condition"`
	ImageURL    string    `json:"image_url"`
	StartPrice  float64   `json:"start_price" binding:"required,gt=0"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
}

type PlaceBidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type BidResponse struct {
	BidID     string  `json:"bid_id"`
	ListingID string  `json:"listing_id"`
	BidderID  string  `json:"bidder_id"`
	Amount    float64 `json:"amount"`
	Sequence  int64   `json:"sequence"`
	CreatedAt string  `json:"created_at"`
}

type PlaceBidResponse struct {
	Bid     BidResponse   `json:"bid"`
	Listing model.Listing `json:"listing"`
}

// ToBidResponse converts a stored bid to its wire form
func ToBidResponse(bid model.Bid) BidResponse {
	return BidResponse{
		BidID:     bid.BidID,
		ListingID: bid.ListingID,
		BidderID:  bid.BidderID,
		Amount:    bid.Amount,
		Sequence:  bid.Sequence,
		CreatedAt: bid.CreatedAt.UTC().Format(time.RFC3339),
	}
}
