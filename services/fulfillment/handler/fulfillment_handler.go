package handler

import (
	"context"
	"net/http"

	fulfillment "auction-marketplace/internal/fulfillmentService"
	model "auction-marketplace/internal/models"
	httphelpers "auction-marketplace/services/bidding/helpers"
	"auction-marketplace/services/fulfillment/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=fulfillment_handler.go -destination=mock_fulfillment_handler.go -package=handler

type FulfillmentServiceInterface interface {
	CreateTransaction(ctx context.Context, buyerID, listingID string, shipping *model.ShippingAddress) (model.Transaction, error)
	UpdateStatus(ctx context.Context, actorID, transactionID string, update fulfillment.StatusUpdate) (model.Transaction, error)
	GetTransaction(ctx context.Context, userID, transactionID string) (model.Transaction, error)
	ListTransactions(ctx context.Context, userID string, filter model.TransactionFilter) (fulfillment.Page, error)
}

type FulfillmentHandler struct {
	service FulfillmentServiceInterface
}

func NewFulfillmentHandler(service FulfillmentServiceInterface) *FulfillmentHandler {
	return &FulfillmentHandler{service: service}
}

// CreateTransactionHandler handles POST /transactions
func (h *FulfillmentHandler) CreateTransactionHandler(c *gin.Context) {
	buyerID, ok := httphelpers.RequirePrincipal(c, "CreateTransactionHandler")
	if !ok {
		return
	}

	var req helpers.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httphelpers.HandleBindError(c, "CreateTransactionHandler", err)
		return
	}

	tx, err := h.service.CreateTransaction(c.Request.Context(), buyerID, req.ListingID, req.ShippingAddress)
	if err != nil {
		httphelpers.HandleServiceError(c, "CreateTransactionHandler", err, map[string]any{
			"listing_id": req.ListingID,
			"buyer_id":   buyerID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, tx, "transaction created successfully")
	httphelpers.LogSuccess("CreateTransactionHandler", "transaction created successfully", map[string]any{
		"transaction_id": tx.TransactionID,
		"listing_id":     tx.ListingID,
		"buyer_id":       buyerID,
	})
}

// GetTransactionHandler handles GET /transactions/:transaction_id
func (h *FulfillmentHandler) GetTransactionHandler(c *gin.Context) {
	userID, ok := httphelpers.RequirePrincipal(c, "GetTransactionHandler")
	if !ok {
		return
	}

	transactionID := c.Param("transaction_id")
	tx, err := h.service.GetTransaction(c.Request.Context(), userID, transactionID)
	if err != nil {
		httphelpers.HandleServiceError(c, "GetTransactionHandler", err, map[string]any{
			"transaction_id": transactionID,
			"user_id":        userID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, tx, "transaction retrieved successfully")
}

// ListTransactionsHandler handles GET /transactions
func (h *FulfillmentHandler) ListTransactionsHandler(c *gin.Context) {
	userID, ok := httphelpers.RequirePrincipal(c, "ListTransactionsHandler")
	if !ok {
		return
	}

	var query helpers.ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httphelpers.HandleBindError(c, "ListTransactionsHandler", err)
		return
	}

	page, err := h.service.ListTransactions(c.Request.Context(), userID, query.ToFilter())
	if err != nil {
		httphelpers.HandleServiceError(c, "ListTransactionsHandler", err, map[string]any{"user_id": userID})
		return
	}
	if page.Transactions == nil {
		page.Transactions = []model.Transaction{}
	}

	utils.JSONResponse(c, http.StatusOK, page, "transactions retrieved successfully")
	httphelpers.LogSuccess("ListTransactionsHandler", "transactions retrieved successfully", map[string]any{
		"user_id": userID,
		"count":   len(page.Transactions),
		"total":   page.Total,
	})
}

// UpdateStatusHandler handles PUT /transactions/:transaction_id/status
func (h *FulfillmentHandler) UpdateStatusHandler(c *gin.Context) {
	actorID, ok := httphelpers.RequirePrincipal(c, "UpdateStatusHandler")
	if !ok {
		return
	}

	var req helpers.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httphelpers.HandleBindError(c, "UpdateStatusHandler", err)
		return
	}

	transactionID := c.Param("transaction_id")
	tx, err := h.service.UpdateStatus(c.Request.Context(), actorID, transactionID, req.ToStatusUpdate())
	if err != nil {
		httphelpers.HandleServiceError(c, "UpdateStatusHandler", err, map[string]any{
			"transaction_id": transactionID,
			"actor_id":       actorID,
			"status":         req.Status,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, tx, "transaction status updated")
	httphelpers.LogSuccess("UpdateStatusHandler", "transaction status updated", map[string]any{
		"transaction_id": transactionID,
		"actor_id":       actorID,
		"status":         string(tx.Status),
	})
}
