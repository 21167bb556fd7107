package handler

import (
	"context"
	"net/http"

	bidding "auction-marketplace/internal/biddingService"
	model "auction-marketplace/internal/models"
	"auction-marketplace/services/bidding/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=bidding_handler.go -destination=mock_bidding_handler.go -package=handler

type BiddingServiceInterface interface {
	CreateListing(ctx context.Context, req bidding.NewListing) (model.Listing, error)
	GetListing(ctx context.Context, listingID string) (model.Listing, error)
	PlaceBid(ctx context.Context, listingID, bidderID string, amount float64) (model.PlacedBid, error)
	Close(ctx context.Context, listingID string) (model.Listing, error)
	GetBidsForListing(ctx context.Context, listingID string) ([]model.Bid, error)
	GetListingsByBidder(ctx context.Context, userID string) ([]model.Listing, error)
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// CreateListingHandler handles POST /listings
func (h *BiddingHandler) CreateListingHandler(c *gin.Context) {
	sellerID, ok := helpers.RequirePrincipal(c, "CreateListingHandler")
	if !ok {
		return
	}

	var req helpers.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateListingHandler", err)
		return
	}

	listing, err := h.service.CreateListing(c.Request.Context(), bidding.NewListing{
		SellerID:    sellerID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		ImageURL:    req.ImageURL,
		StartPrice:  req.StartPrice,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		helpers.HandleServiceError(c, "CreateListingHandler", err, map[string]any{"seller_id": sellerID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, listing, "listing created successfully")
	helpers.LogSuccess("CreateListingHandler", "listing created successfully", map[string]any{
		"listing_id": listing.ListingID,
		"seller_id":  sellerID,
		"status":     string(listing.Status),
	})
}

// GetListingHandler handles GET /listings/:listing_id
func (h *BiddingHandler) GetListingHandler(c *gin.Context) {
	listingID := c.Param("listing_id")
	listing, err := h.service.GetListing(c.Request.Context(), listingID)
	if err != nil {
		helpers.HandleServiceError(c, "GetListingHandler", err, map[string]any{"listing_id": listingID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, listing, "listing retrieved successfully")
}

// PlaceBidHandler handles POST /listings/:listing_id/bids
func (h *BiddingHandler) PlaceBidHandler(c *gin.Context) {
	bidderID, ok := helpers.RequirePrincipal(c, "PlaceBidHandler")
	if !ok {
		return
	}

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	listingID := c.Param("listing_id")
	placed, err := h.service.PlaceBid(c.Request.Context(), listingID, bidderID, req.Amount)
	if err != nil {
		helpers.HandleServiceError(c, "PlaceBidHandler", err, map[string]any{
			"listing_id": listingID,
			"bidder_id":  bidderID,
			"amount":     req.Amount,
		})
		return
	}

	resp := helpers.PlaceBidResponse{
		Bid:     helpers.ToBidResponse(placed.Bid),
		Listing: placed.Listing,
	}

	utils.JSONResponse(c, http.StatusCreated, resp, "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":     placed.Bid.BidID,
		"listing_id": listingID,
		"bidder_id":  bidderID,
		"amount":     placed.Bid.Amount,
		"bid_count":  placed.Listing.BidCount,
	})
}

// GetBidsByListingHandler handles GET /listings/:listing_id/bids
func (h *BiddingHandler) GetBidsByListingHandler(c *gin.Context) {
	listingID := c.Param("listing_id")
	bids, err := h.service.GetBidsForListing(c.Request.Context(), listingID)
	if err != nil {
		helpers.HandleServiceError(c, "GetBidsByListingHandler", err, map[string]any{"listing_id": listingID})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, bid := range bids {
		resp = append(resp, helpers.ToBidResponse(bid))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	helpers.LogSuccess("GetBidsByListingHandler", "bids retrieved successfully", map[string]any{
		"listing_id": listingID,
		"count":      len(resp),
	})
}

// CloseListingHandler handles POST /listings/:listing_id/close
func (h *BiddingHandler) CloseListingHandler(c *gin.Context) {
	if _, ok := helpers.RequirePrincipal(c, "CloseListingHandler"); !ok {
		return
	}

	listingID := c.Param("listing_id")
	listing, err := h.service.Close(c.Request.Context(), listingID)
	if err != nil {
		helpers.HandleServiceError(c, "CloseListingHandler", err, map[string]any{"listing_id": listingID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, listing, "listing closed")
	helpers.LogSuccess("CloseListingHandler", "listing closed", map[string]any{
		"listing_id": listingID,
		"winner_id":  listing.WinnerID,
		"final_bid":  listing.CurrentBid,
	})
}

// GetListingsByBidderHandler handles GET /users/:user_id/listings
func (h *BiddingHandler) GetListingsByBidderHandler(c *gin.Context) {
	userID := c.Param("user_id")
	listings, err := h.service.GetListingsByBidder(c.Request.Context(), userID)
	if err != nil {
		helpers.HandleServiceError(c, "GetListingsByBidderHandler", err, map[string]any{"user_id": userID})
		return
	}

	if listings == nil {
		listings = []model.Listing{}
	}

	utils.JSONResponse(c, http.StatusOK, listings, "listings retrieved successfully")
	helpers.LogSuccess("GetListingsByBidderHandler", "listings retrieved successfully", map[string]any{
		"user_id":        userID,
		"listings_count": len(listings),
	})
}
