package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
	"auction-marketplace/services/account/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

// Test RegisterUserHandler
func TestRegisterUserHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAccountServiceInterface(ctrl)
	mockTokens := NewMockTokenIssuer(ctrl)
	handler := NewAccountHandler(mockService, mockTokens)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/users", handler.RegisterUserHandler)

	expires := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:        "success",
			requestBody: helpers.RegisterUserRequest{Name: "Ada", Email: "ada@example.com"},
			mockSetup: func() {
				mockService.EXPECT().RegisterUser(gomock.Any(), "Ada", "ada@example.com").
					Return(model.User{UserID: "u1", Name: "Ada", Email: "ada@example.com"}, nil)
				mockTokens.EXPECT().Issue("u1").Return("signed.jwt.token", expires, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "user registered successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, "signed.jwt.token", data["access_token"])
				require.Equal(t, "2026-07-01T12:00:00Z", data["expires_at"])
				user := data["user"].(map[string]any)
				require.Equal(t, "u1", user["user_id"])
				require.Equal(t, 0.0, user["completed_transactions"])
			},
		},
		{
			name:           "missing_email",
			requestBody:    `{"name":"Ada"}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "invalid_email",
			requestBody: helpers.RegisterUserRequest{Name: "Bob", Email: "not-an-email"},
			mockSetup: func() {
				mockService.EXPECT().RegisterUser(gomock.Any(), "Bob", "not-an-email").
					Return(model.User{}, auctionerrors.ErrInvalidRequest)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request",
		},
		{
			name:        "duplicate_email",
			requestBody: helpers.RegisterUserRequest{Name: "Cy", Email: "cy@example.com"},
			mockSetup: func() {
				mockService.EXPECT().RegisterUser(gomock.Any(), "Cy", "cy@example.com").
					Return(model.User{}, auctionerrors.ErrAlreadyExists)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "resource already exists",
		},
		{
			name:        "token_failure",
			requestBody: helpers.RegisterUserRequest{Name: "Dee", Email: "dee@example.com"},
			mockSetup: func() {
				mockService.EXPECT().RegisterUser(gomock.Any(), "Dee", "dee@example.com").
					Return(model.User{UserID: "u4"}, nil)
				mockTokens.EXPECT().Issue("u4").Return("", time.Time{}, errors.New("signing failed"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var reqBody []byte
			var err error
			switch v := tc.requestBody.(type) {
			case string:
				reqBody = []byte(v)
			default:
				reqBody, err = json.Marshal(v)
				require.NoError(t, err)
			}

			tc.mockSetup()

			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.validateData != nil && w.Code == http.StatusCreated {
				tc.validateData(t, resp["data"].(map[string]any))
			}
		})
	}
}

// Test GetUserHandler
func TestGetUserHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAccountServiceInterface(ctrl)
	handler := NewAccountHandler(mockService, NewMockTokenIssuer(ctrl))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/users/:user_id", handler.GetUserHandler)

	mockService.EXPECT().GetUser(gomock.Any(), "u1").
		Return(model.User{UserID: "u1", CompletedTransactions: 3, SuccessfulTransactions: 3}, nil)
	mockService.EXPECT().GetUser(gomock.Any(), "ghost").
		Return(model.User{}, auctionerrors.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/users/u1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string     `json:"message"`
		Data    model.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 3, resp.Data.SuccessfulTransactions)

	req = httptest.NewRequest(http.MethodGet, "/users/ghost", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}
