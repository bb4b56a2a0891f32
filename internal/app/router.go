package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"tableride/internal/handler"
	"tableride/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	OrderHandler  *handler.OrderHandler
	RideHandler   *handler.RideHandler
	CouponHandler *handler.CouponHandler
	QueryHandler  *handler.QueryHandler
	RedisClient   *redis.Client
	NewRelicApp   *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Replay protection for transition posts: a retried request with the
	// same Idempotency-Key gets the original response back.
	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Order routes.
		orders := v1.Group("/orders")
		{
			orders.POST("", deps.OrderHandler.CreateOrder)
			orders.GET("/active", deps.QueryHandler.ListActiveOrders)
			orders.GET("/finalized", deps.QueryHandler.ListFinalizedOrders)
			orders.GET("/:id", deps.OrderHandler.GetOrder)
			orders.GET("/:id/quote", deps.OrderHandler.Quote)
			orders.POST("/:id/status", deps.OrderHandler.UpdateStatus)
		}

		// Ride routes.
		rides := v1.Group("/rides")
		{
			rides.POST("", deps.RideHandler.RequestRide)
			rides.GET("/active", deps.QueryHandler.ListActiveRides)
			rides.GET("/finalized", deps.QueryHandler.ListFinalizedRides)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.POST("/:id/status", deps.RideHandler.UpdateStatus)
		}

		// Coupon routes.
		coupons := v1.Group("/coupons")
		{
			coupons.POST("", deps.CouponHandler.CreateCoupon)
			coupons.GET("/:code", deps.CouponHandler.GetCoupon)
		}
	}

	return router
}
