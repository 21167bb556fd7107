package server

import (
	"context"
	"net/http"
	"strconv"

	"auction-marketplace/internal/auth"
	"auction-marketplace/internal/models"
	"auction-marketplace/services/bidding/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

const defaultInboxLimit = 50

// StreamServer upgrades a request into a live notification stream for one user
type StreamServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, userID string)
}

// InboxReader returns a user's most recent notifications, newest first
type InboxReader interface {
	Inbox(ctx context.Context, userID string, limit int) ([]models.Notification, error)
}

// streamHandler handles GET /notifications/stream
func streamHandler(stream StreamServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := auth.Principal(c)
		stream.ServeWS(c.Writer, c.Request, userID)
	}
}

// inboxHandler handles GET /notifications
func inboxHandler(inbox InboxReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := auth.Principal(c)

		limit := defaultInboxLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				helpers.HandleBindError(c, "inboxHandler", strconv.ErrSyntax)
				return
			}
			limit = n
		}

		notes, err := inbox.Inbox(c.Request.Context(), userID, limit)
		if err != nil {
			helpers.HandleServiceError(c, "inboxHandler", err, map[string]any{"user_id": userID})
			return
		}
		if notes == nil {
			notes = []models.Notification{}
		}
		utils.JSONResponse(c, http.StatusOK, notes, "notifications retrieved successfully")
	}
}
