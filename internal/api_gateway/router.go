package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/property-billing-ledger/internal/api_gateway/handler"
	"github.com/property-billing-ledger/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	billingHandler *handler.BillingHandler,
	recordHandler *handler.RecordHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Billing reports
		billing := v1.Group("/billing")
		{
			billing.GET("/overview", billingHandler.Overview)
			billing.GET("/rollup", billingHandler.Rollup)
		}

		// Per-apartment views
		apartments := v1.Group("/apartments")
		{
			apartments.GET("/:id/ledger", billingHandler.ApartmentLedger)
			apartments.GET("/:id/renter-summary", billingHandler.RenterSummary)
			apartments.GET("/:id/audit", billingHandler.Audit)
		}

		// Record ingestion
		v1.POST("/records", recordHandler.Submit)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
