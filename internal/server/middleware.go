package server

import (
	"time"

	"auction-marketplace/internal/auth"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	fields := map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"route":   c.FullPath(),
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	}
	if userID, ok := auth.Principal(c); ok {
		fields["user_id"] = userID
	}
	utils.Info("HTTP Request", fields)
}
