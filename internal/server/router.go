package server

import (
	"net/http"

	"auction-marketplace/internal/auth"
	accounthandler "auction-marketplace/services/account/handler"
	biddinghandler "auction-marketplace/services/bidding/handler"
	fulfillmenthandler "auction-marketplace/services/fulfillment/handler"
	"auction-marketplace/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// TokenService issues and verifies access tokens
type TokenService interface {
	accounthandler.TokenIssuer
	auth.Verifier
}

// RouterConfig holds everything SetupRouter wires into routes
type RouterConfig struct {
	Bidding     biddinghandler.BiddingServiceInterface
	Fulfillment fulfillmenthandler.FulfillmentServiceInterface
	Accounts    accounthandler.AccountServiceInterface
	Tokens      TokenService

	// Stream serves GET /notifications/stream when set
	Stream StreamServer
	// Inbox serves GET /notifications when set
	Inbox InboxReader

	CORSOrigins []string
	ServiceName string
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery()) // recover from panics
	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}
	if cfg.ServiceName != "" {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}
	router.Use(RequestLoggerMiddleware) // custom request logging

	biddingHandler := biddinghandler.NewBiddingHandler(cfg.Bidding)
	fulfillmentHandler := fulfillmenthandler.NewFulfillmentHandler(cfg.Fulfillment)
	accountHandler := accounthandler.NewAccountHandler(cfg.Accounts, cfg.Tokens)
	requireAuth := auth.RequireAuth(cfg.Tokens)

	router.GET("/healthz", func(c *gin.Context) {
		utils.JSONResponse(c, http.StatusOK, nil, "ok")
	})

	users := router.Group("/users")
	{
		users.POST("", accountHandler.RegisterUserHandler)
		users.GET("/:user_id", accountHandler.GetUserHandler)
		users.GET("/:user_id/listings", biddingHandler.GetListingsByBidderHandler)
	}

	listings := router.Group("/listings")
	{
		listings.GET("/:listing_id", biddingHandler.GetListingHandler)
		listings.GET("/:listing_id/bids", biddingHandler.GetBidsByListingHandler)
		listings.POST("", requireAuth, biddingHandler.CreateListingHandler)
		listings.POST("/:listing_id/bids", requireAuth, biddingHandler.PlaceBidHandler)
		listings.POST("/:listing_id/close", requireAuth, biddingHandler.CloseListingHandler)
	}

	transactions := router.Group("/transactions", requireAuth)
	{
		transactions.POST("", fulfillmentHandler.CreateTransactionHandler)
		transactions.GET("", fulfillmentHandler.ListTransactionsHandler)
		transactions.GET("/:transaction_id", fulfillmentHandler.GetTransactionHandler)
		transactions.PUT("/:transaction_id/status", fulfillmentHandler.UpdateStatusHandler)
	}

	notifications := router.Group("/notifications", requireAuth)
	{
		if cfg.Inbox != nil {
			notifications.GET("", inboxHandler(cfg.Inbox))
		}
		if cfg.Stream != nil {
			notifications.GET("/stream", streamHandler(cfg.Stream))
		}
	}

	return router
}
