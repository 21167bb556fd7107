package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/auth"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// HandleServiceError maps err to a status, writes the error envelope and logs it with fields
func HandleServiceError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

	logged := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		logged[k] = v
	}
	logged["handler"] = handlerName
	logged["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", logged)
		return
	}
	utils.Warn(handlerName+": request rejected", logged)
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, auctionerrors.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, auctionerrors.ErrSelfBid):
		return http.StatusBadRequest, "sellers cannot bid on their own listing"
	case errors.Is(err, auctionerrors.ErrNotActive):
		return http.StatusConflict, "listing is not accepting bids"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, auctionerrors.ErrAuctionInProgress):
		return http.StatusConflict, "auction has not reached its end time"
	case errors.Is(err, auctionerrors.ErrNotEnded):
		return http.StatusConflict, "listing has not ended"
	case errors.Is(err, auctionerrors.ErrAlreadyExists):
		return http.StatusConflict, "resource already exists"
	case errors.Is(err, auctionerrors.ErrInvalidTransition):
		return http.StatusConflict, "invalid status transition"
	case errors.Is(err, auctionerrors.ErrConflict):
		return http.StatusConflict, "concurrent update, please retry"
	case errors.Is(err, auctionerrors.ErrNotWinner):
		return http.StatusForbidden, "only the auction winner can do this"
	case errors.Is(err, auctionerrors.ErrUnauthorized):
		return http.StatusForbidden, "not allowed to perform this action"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RequirePrincipal returns the authenticated caller, writing a 401 when there is none
func RequirePrincipal(c *gin.Context, handlerName string) (string, bool) {
	userID, ok := auth.Principal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, errors.New("missing principal"), "authentication required")
		utils.Warn(handlerName+": unauthenticated request", map[string]any{"path": c.Request.URL.Path})
	}
	return userID, ok
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
