package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/auth"
	fulfillment "auction-marketplace/internal/fulfillmentService"
	model "auction-marketplace/internal/models"
	"auction-marketplace/services/fulfillment/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

const testUserHeader = "X-Test-User"

func newTestRouter(h *FulfillmentHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if user := c.GetHeader(testUserHeader); user != "" {
			auth.SetPrincipal(c, user)
		}
		c.Next()
	})
	router.POST("/transactions", h.CreateTransactionHandler)
	router.GET("/transactions", h.ListTransactionsHandler)
	router.GET("/transactions/:transaction_id", h.GetTransactionHandler)
	router.PUT("/transactions/:transaction_id/status", h.UpdateStatusHandler)
	return router
}

type request struct {
	method string
	path   string
	user   string
	body   any
}

func (r request) do(t *testing.T, router *gin.Engine) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var body []byte
	switch v := r.body.(type) {
	case nil:
	case string:
		body = []byte(v)
	default:
		var err error
		body, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(r.method, r.path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if r.user != "" {
		req.Header.Set(testUserHeader, r.user)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

// Test CreateTransactionHandler
func TestCreateTransactionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockFulfillmentServiceInterface(ctrl)
	router := newTestRouter(NewFulfillmentHandler(mockService))

	address := &model.ShippingAddress{Street: "1 Main St", City: "Springfield", ZipCode: "12345", Country: "US"}

	tests := []struct {
		name           string
		req            request
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name: "success",
			req: request{http.MethodPost, "/transactions", "buyer1",
				helpers.CreateTransactionRequest{ListingID: "l1", ShippingAddress: address}},
			mockSetup: func() {
				mockService.EXPECT().
					CreateTransaction(gomock.Any(), "buyer1", "l1", address).
					Return(model.Transaction{
						TransactionID: "tx1", ListingID: "l1", BuyerID: "buyer1", SellerID: "seller1",
						FinalPrice: 160, Status: model.StatusPendingPayment, ShippingAddress: address, Version: 1,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "transaction created successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, "tx1", data["transaction_id"])
				require.Equal(t, "pending_payment", data["status"])
				require.Equal(t, 160.0, data["final_price"])
				shipping := data["shipping_address"].(map[string]any)
				require.Equal(t, "Springfield", shipping["city"])
			},
		},
		{
			name:           "unauthenticated",
			req:            request{http.MethodPost, "/transactions", "", helpers.CreateTransactionRequest{ListingID: "l1"}},
			mockSetup:      func() {},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "authentication required",
		},
		{
			name:           "missing_listing_id",
			req:            request{http.MethodPost, "/transactions", "buyer1", `{}`},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "not_winner",
			req:  request{http.MethodPost, "/transactions", "loser", helpers.CreateTransactionRequest{ListingID: "l2"}},
			mockSetup: func() {
				mockService.EXPECT().
					CreateTransaction(gomock.Any(), "loser", "l2", nil).
					Return(model.Transaction{}, fmt.Errorf("service: %w", auctionerrors.ErrNotWinner))
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "only the auction winner can do this",
		},
		{
			name: "already_exists",
			req:  request{http.MethodPost, "/transactions", "buyer1", helpers.CreateTransactionRequest{ListingID: "l3"}},
			mockSetup: func() {
				mockService.EXPECT().
					CreateTransaction(gomock.Any(), "buyer1", "l3", nil).
					Return(model.Transaction{}, auctionerrors.ErrAlreadyExists)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "resource already exists",
		},
		{
			name: "listing_not_ended",
			req:  request{http.MethodPost, "/transactions", "buyer1", helpers.CreateTransactionRequest{ListingID: "l4"}},
			mockSetup: func() {
				mockService.EXPECT().
					CreateTransaction(gomock.Any(), "buyer1", "l4", nil).
					Return(model.Transaction{}, auctionerrors.ErrNotEnded)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "listing has not ended",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tc.mockSetup()
			w, resp := tc.req.do(t, router)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
			if tc.validateData != nil && w.Code == http.StatusCreated {
				tc.validateData(t, resp["data"].(map[string]any))
			}
		})
	}
}

// Test UpdateStatusHandler
func TestUpdateStatusHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockFulfillmentServiceInterface(ctrl)
	router := newTestRouter(NewFulfillmentHandler(mockService))

	eta := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		req            request
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name: "buyer_pays",
			req: request{http.MethodPut, "/transactions/tx1/status", "buyer1",
				helpers.UpdateStatusRequest{Status: "paid", PaymentID: "pay_1", PaymentMethod: "card"}},
			mockSetup: func() {
				mockService.EXPECT().
					UpdateStatus(gomock.Any(), "buyer1", "tx1", fulfillment.StatusUpdate{
						Status: model.StatusPaid, PaymentID: "pay_1", PaymentMethod: "card",
					}).
					Return(model.Transaction{TransactionID: "tx1", Status: model.StatusPaid, PaymentID: "pay_1", Version: 2}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "transaction status updated",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, "paid", data["status"])
				require.Equal(t, "pay_1", data["payment_id"])
				require.Equal(t, 2.0, data["version"])
			},
		},
		{
			name: "seller_ships",
			req: request{http.MethodPut, "/transactions/tx2/status", "seller1",
				helpers.UpdateStatusRequest{Status: "shipped", TrackingNumber: "1Z999", EstimatedDelivery: &eta}},
			mockSetup: func() {
				mockService.EXPECT().
					UpdateStatus(gomock.Any(), "seller1", "tx2", gomock.Any()).
					DoAndReturn(func(_ any, _, _ string, update fulfillment.StatusUpdate) (model.Transaction, error) {
						require.Equal(t, model.StatusShipped, update.Status)
						require.NotNil(t, update.EstimatedDelivery)
						require.True(t, eta.Equal(*update.EstimatedDelivery))
						return model.Transaction{TransactionID: "tx2", Status: model.StatusShipped, TrackingNumber: "1Z999"}, nil
					})
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "transaction status updated",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, "1Z999", data["tracking_number"])
			},
		},
		{
			name:           "missing_status",
			req:            request{http.MethodPut, "/transactions/tx1/status", "buyer1", `{"payment_id":"x"}`},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "negative_refund",
			req:            request{http.MethodPut, "/transactions/tx1/status", "seller1", helpers.UpdateStatusRequest{Status: "refunded", Reason: "x", RefundAmount: -1}},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "unauthenticated",
			req:            request{http.MethodPut, "/transactions/tx1/status", "", helpers.UpdateStatusRequest{Status: "paid"}},
			mockSetup:      func() {},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "authentication required",
		},
		{
			name: "invalid_transition",
			req:  request{http.MethodPut, "/transactions/tx3/status", "buyer1", helpers.UpdateStatusRequest{Status: "delivered"}},
			mockSetup: func() {
				mockService.EXPECT().
					UpdateStatus(gomock.Any(), "buyer1", "tx3", gomock.Any()).
					Return(model.Transaction{}, fmt.Errorf("service: %w - pending_payment to delivered", auctionerrors.ErrInvalidTransition))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "invalid status transition",
		},
		{
			name: "wrong_role",
			req:  request{http.MethodPut, "/transactions/tx4/status", "seller1", helpers.UpdateStatusRequest{Status: "paid", PaymentID: "p"}},
			mockSetup: func() {
				mockService.EXPECT().
					UpdateStatus(gomock.Any(), "seller1", "tx4", gomock.Any()).
					Return(model.Transaction{}, auctionerrors.ErrUnauthorized)
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "not allowed to perform this action",
		},
		{
			name: "missing_payment_confirmation",
			req:  request{http.MethodPut, "/transactions/tx5/status", "buyer1", helpers.UpdateStatusRequest{Status: "paid"}},
			mockSetup: func() {
				mockService.EXPECT().
					UpdateStatus(gomock.Any(), "buyer1", "tx5", gomock.Any()).
					Return(model.Transaction{}, auctionerrors.ErrInvalidRequest)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request",
		},
		{
			name: "storage_failure",
			req:  request{http.MethodPut, "/transactions/tx6/status", "buyer1", helpers.UpdateStatusRequest{Status: "completed"}},
			mockSetup: func() {
				mockService.EXPECT().
					UpdateStatus(gomock.Any(), "buyer1", "tx6", gomock.Any()).
					Return(model.Transaction{}, errors.New("connection reset"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tc.mockSetup()
			w, resp := tc.req.do(t, router)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
			if tc.validateData != nil && w.Code == http.StatusOK {
				tc.validateData(t, resp["data"].(map[string]any))
			}
		})
	}
}

// Test GetTransactionHandler and ListTransactionsHandler
func TestReadTransactionHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockFulfillmentServiceInterface(ctrl)
	router := newTestRouter(NewFulfillmentHandler(mockService))

	tests := []struct {
		name           string
		req            request
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name: "get_as_party",
			req:  request{http.MethodGet, "/transactions/tx1", "buyer1", nil},
			mockSetup: func() {
				mockService.EXPECT().GetTransaction(gomock.Any(), "buyer1", "tx1").
					Return(model.Transaction{TransactionID: "tx1", BuyerID: "buyer1", Status: model.StatusPaid}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "transaction retrieved successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, "tx1", data["transaction_id"])
			},
		},
		{
			name: "get_as_stranger",
			req:  request{http.MethodGet, "/transactions/tx1", "stranger", nil},
			mockSetup: func() {
				mockService.EXPECT().GetTransaction(gomock.Any(), "stranger", "tx1").
					Return(model.Transaction{}, auctionerrors.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "resource not found",
		},
		{
			name: "list_with_filters",
			req:  request{http.MethodGet, "/transactions?role=selling&status=paid&page=2&limit=5", "seller1", nil},
			mockSetup: func() {
				mockService.EXPECT().
					ListTransactions(gomock.Any(), "seller1", model.TransactionFilter{
						Role: "selling", Status: model.StatusPaid, Page: 2, Limit: 5,
					}).
					Return(fulfillment.Page{
						Transactions: []model.Transaction{{TransactionID: "tx9", SellerID: "seller1"}},
						Total:        6, Page: 2, Limit: 5,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "transactions retrieved successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, 6.0, data["total"])
				require.Equal(t, 2.0, data["page"])
				require.Len(t, data["transactions"], 1)
			},
		},
		{
			name: "list_empty",
			req:  request{http.MethodGet, "/transactions", "newbie", nil},
			mockSetup: func() {
				mockService.EXPECT().
					ListTransactions(gomock.Any(), "newbie", model.TransactionFilter{}).
					Return(fulfillment.Page{Page: 1, Limit: 20}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "transactions retrieved successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, []any{}, data["transactions"])
			},
		},
		{
			name:           "list_bad_role",
			req:            request{http.MethodGet, "/transactions?role=lurking", "seller1", nil},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "list_bad_page",
			req:            request{http.MethodGet, "/transactions?page=abc", "seller1", nil},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "list_unknown_status",
			req:  request{http.MethodGet, "/transactions?status=lost", "seller2", nil},
			mockSetup: func() {
				mockService.EXPECT().
					ListTransactions(gomock.Any(), "seller2", gomock.Any()).
					Return(fulfillment.Page{}, auctionerrors.ErrInvalidRequest)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tc.mockSetup()
			w, resp := tc.req.do(t, router)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
			if tc.validateData != nil && w.Code == http.StatusOK {
				tc.validateData(t, resp["data"].(map[string]any))
			}
		})
	}
}
