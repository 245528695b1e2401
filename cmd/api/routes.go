package main

import (
	"database/sql"
	"net/http"
	"time"

	"finance-platform/internal/httpapi"
	"finance-platform/internal/ratelimit"
	"finance-platform/pkg/utils"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, authMW gin.HandlerFunc, loginLimiter *ratelimit.Limiter, db *sql.DB) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), db, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Credential endpoints are public but rate limited per client.
	authGroup := r.Group("/v1/auth")
	authGroup.Use(ratelimit.PerClient(loginLimiter, "login"))
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
	}

	// protected API group: every route below trusts only the bearer token,
	// never a session or an upstream lookup.
	v1 := r.Group("/v1")
	v1.Use(authMW)
	{
		v1.GET("/me", h.Me)

		// BUDGET routes
		categories := v1.Group("/budget/categories")
		{
			categories.POST("", h.CreateCategory)
			categories.GET("", h.ListCategories)
			categories.POST("/:category_id/transactions", h.RecordTransaction)
			categories.GET("/:category_id/balance", h.GetCategoryBalance)
		}
		v1.GET("/budget/summary", h.BudgetSummary)

		// PORTFOLIO routes
		holdings := v1.Group("/portfolio/holdings")
		{
			holdings.POST("", h.UpsertHolding)
			holdings.GET("", h.ListPositions)
			holdings.DELETE("/:holding_id", h.DeleteHolding)
		}

		// NOTIFICATION routes
		notifications := v1.Group("/notifications")
		{
			notifications.PUT("/preferences", h.UpsertPreference)
			notifications.GET("/preferences", h.ListPreferences)
			notifications.POST("/test", h.SendTestNotification)
		}
	}
}
