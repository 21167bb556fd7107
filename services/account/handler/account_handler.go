package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	model "auction-marketplace/internal/models"
	"auction-marketplace/services/account/helpers"
	httphelpers "auction-marketplace/services/bidding/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=account_handler.go -destination=mock_account_handler.go -package=handler

type AccountServiceInterface interface {
	RegisterUser(ctx context.Context, name, email string) (model.User, error)
	GetUser(ctx context.Context, userID string) (model.User, error)
}

type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
}

type AccountHandler struct {
	service AccountServiceInterface
	tokens  TokenIssuer
}

func NewAccountHandler(service AccountServiceInterface, tokens TokenIssuer) *AccountHandler {
	return &AccountHandler{service: service, tokens: tokens}
}

// RegisterUserHandler handles POST /users
func (h *AccountHandler) RegisterUserHandler(c *gin.Context) {
	var req helpers.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httphelpers.HandleBindError(c, "RegisterUserHandler", err)
		return
	}

	user, err := h.service.RegisterUser(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		httphelpers.HandleServiceError(c, "RegisterUserHandler", err, map[string]any{"email": req.Email})
		return
	}

	token, expiresAt, err := h.tokens.Issue(user.UserID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, fmt.Errorf("issue token: %w", err), "internal server error")
		utils.Error("RegisterUserHandler: failed to issue token", map[string]any{
			"user_id": user.UserID,
			"error":   err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewRegisterUserResponse(user, token, expiresAt), "user registered successfully")
	httphelpers.LogSuccess("RegisterUserHandler", "user registered successfully", map[string]any{"user_id": user.UserID})
}

// GetUserHandler handles GET /users/:user_id
func (h *AccountHandler) GetUserHandler(c *gin.Context) {
	userID := c.Param("user_id")
	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		httphelpers.HandleServiceError(c, "GetUserHandler", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, user, "user retrieved successfully")
}
