package auth

import (
	"errors"
	"net/http"
	"strings"

	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

const principalKey = "auth.principal"

// Verifier resolves an access token to a user ID
type Verifier interface {
	Verify(tokenString string) (string, error)
}

// RequireAuth rejects requests without a valid access token and stores the caller's user ID on the context.
// The token is read from the Authorization bearer header, or from the access_token query parameter
// for clients that cannot set headers, such as browser websockets.
func RequireAuth(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			utils.JSONAbort(c, http.StatusUnauthorized, errors.New("missing access token"), "authentication required")
			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			utils.JSONAbort(c, http.StatusUnauthorized, ErrInvalidToken, "authentication required")
			return
		}

		SetPrincipal(c, userID)
		c.Next()
	}
}

// SetPrincipal records userID as the authenticated caller of c
func SetPrincipal(c *gin.Context, userID string) {
	c.Set(principalKey, userID)
}

// Principal returns the authenticated user ID set by RequireAuth
func Principal(c *gin.Context) (string, bool) {
	userID := c.GetString(principalKey)
	return userID, userID != ""
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return c.Query("access_token")
}
