package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"finance-platform/internal/auth"
	"finance-platform/internal/budget"
	"finance-platform/internal/notification"
	"finance-platform/internal/portfolio"
	"finance-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Auth      *auth.Manager
	Budget    *budget.Service
	Portfolio *portfolio.Service
	Notify    *notification.Service
}

/* ===================== AUTH ===================== */

type loginRequest struct {
	Subject  string `json:"subject"`
	Password string `json:"password"`
}

// Login issues a JWT token pair.
//
// NOTE: Credential validation is delegated to the identity store; this
// endpoint only demonstrates issuance wiring. Real deployments must verify
// the password against stored credentials before minting tokens.
func (h Handlers) Login(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Subject == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "subject required"})
		return
	}

	pair, err := h.Auth.IssuePair(time.Now(), req.Subject)
	if err != nil {
		logger.FromGin(c).Error("token issuance failed", "err", err.Error())
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges a valid refresh token for a fresh pair. An access token
// presented here is rejected exactly like any other invalid credential.
func (h Handlers) Refresh(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.RefreshToken == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "refresh_token required"})
		return
	}

	claims, err := h.Auth.Verify(req.RefreshToken, auth.TokenTypeRefresh, time.Now())
	if err != nil {
		logger.FromGin(c).Debug("refresh rejected", "reason", err.Error())
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	pair, err := h.Auth.IssuePair(time.Now(), claims.Subject)
	if err != nil {
		logger.FromGin(c).Error("token issuance failed", "err", err.Error())
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// Me echoes the authenticated subject. Useful as a smoke check for service
// operators wiring a new downstream service to the shared secret.
func (h Handlers) Me(c *gin.Context) {
	sub, err := auth.Subject(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subject": sub})
}

/* ===================== BUDGET ===================== */

type createCategoryRequest struct {
	Name              string `json:"name"`
	Currency          string `json:"currency"`
	MonthlyLimitMinor int64  `json:"monthly_limit_minor"`
}

func (h Handlers) CreateCategory(c *gin.Context) {
	sub, err := auth.Subject(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	cat, err := h.Budget.CreateCategory(c.Request.Context(), sub, budget.CreateCategoryRequest{
		Name:              req.Name,
		Currency:          req.Currency,
		MonthlyLimitMinor: req.MonthlyLimitMinor,
	})
	if err != nil {
		abortBudgetErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h Handlers) ListCategories(c *gin.Context) {
	sub, err := auth.Subject(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	cats, err := h.Budget.ListCategories(c.Request.Context(), sub)
	if err != nil {
		abortBudgetErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

type recordTransactionRequest struct {
	Type           string    `json:"type"`
	AmountMinor    int64     `json:"amount_minor"`
	Currency       string    `json:"currency"`
	Description    string    `json:"description"`
	IdempotencyKey string    `json:"idempotency_key"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func (h Handlers) RecordTransaction(c *gin.Context) {
	sub, err := auth.Subject(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	categoryID := c.Param("category_id")
	var req recordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	tx, bal, err := h.Budget.RecordTransaction(c.Request.Context(), sub, budget.RecordTransactionRequest{
		CategoryID:     categoryID,
		Type:           budget.TransactionType(req.Type),
		AmountMinor:    req.AmountMinor,
		Currency:       req.Currency,
		Description:    req.Description,
		IdempotencyKey: req.IdempotencyKey,
		OccurredAt:     req.OccurredAt,
	})
	if err != nil {
		abortBudgetErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": tx, "balance": bal})
}

func (h Handlers) GetCategoryBalance(c *gin.Context) {
	sub, err := auth.Subject(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	bal, err := h.Budget.GetBalance(c.Request.Context(), sub, c.Param("category_id"))
	if err != nil {
		abortBudgetErr(c, err)
		return
	}
	c.JSON(http.StatusOK, bal)
}

func (h Handlers) BudgetSummary(c *gin.Context) {
	sub, err := auth.Subject(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "year required"})
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "month required"})
		return
	}

	sum, err := h.Budget.Summary(c.Request.Context(), sub, year, time.Month(month))
	if err != nil {
		abortBudgetErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func abortBudgetErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, budget.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid argument"})
	case errors.Is(err, budget.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		logger.FromGin(c).Error("budget operation failed", "err", err.Error())
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

/* ===================== PORTFOLIO ===================== */

type upsertHoldingRequest struct {
	ID             string `json:"id"`
	Symbol         string `json:"symbol"`
	QuantityMicro  int64  `json:"quantity_micro"`
	CostBasisMinor int64  `json:"cost_basis_minor"`
	Currency       string `json:"currency"`
}

func (h Handlers) UpsertHolding(c *gin.Context) {
	sub, err := auth.Subject(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	var req upsertHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	holding, err := h.Portfolio.UpsertHolding(c.Request.Context(), sub, portfolio.UpsertHoldingRequest{
		ID:             req.ID,
		Symbol:         req.Symbol,
		QuantityMicro:  req.QuantityMicro,
		CostBasisMinor: req.CostBasisMinor,
		Currency:       req.Currency,
	})
	if err != nil {
		abortPortfolioErr(c, err)
		return
	}
	c.JSON(http.StatusOK, holding)
}

func (h Handlers) ListPositions(c *gin.Context) {
	sub, err := auth.Subject(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	positions, err := h.Portfolio.Positions(c.Request.Context(), sub, time.Now())
	if err != nil {
		abortPortfolioErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"positions": positions})
}

func (h Handlers) DeleteHolding(c *gin.Context) {
	sub, err := auth.Subject(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	if err := h.Portfolio.DeleteHolding(c.Request.Context(), sub, c.Param("holding_id")); err != nil {
		abortPortfolioErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func abortPortfolioErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, portfolio.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid argument"})
	case errors.Is(err, portfolio.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		logger.FromGin(c).Error("portfolio operation failed", "err", err.Error())
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

/* ===================== NOTIFICATIONS ===================== */

type upsertPreferenceRequest struct {
	Channel string `json:"channel"`
	Enabled bool   `json:"enabled"`
	Target  string `json:"target"`
}

func (h Handlers) UpsertPreference(c *gin.Context) {
	sub, err := auth.Subject(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	var req upsertPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	pref, err := h.Notify.UpsertPreference(c.Request.Context(), sub, notification.UpsertPreferenceRequest{
		Channel: notification.Channel(req.Channel),
		Enabled: req.Enabled,
		Target:  req.Target,
	})
	if err != nil {
		abortNotifyErr(c, err)
		return
	}
	c.JSON(http.StatusOK, pref)
}

func (h Handlers) ListPreferences(c *gin.Context) {
	sub, err := auth.Subject(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	prefs, err := h.Notify.ListPreferences(c.Request.Context(), sub)
	if err != nil {
		abortNotifyErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

type testNotificationRequest struct {
	Channel string `json:"channel"`
}

// SendTestNotification enqueues a test message so operators can verify a
// channel end to end without waiting for a real alert.
func (h Handlers) SendTestNotification(c *gin.Context) {
	sub, err := auth.Subject(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	var req testNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	msg, err := h.Notify.Enqueue(c.Request.Context(), sub, notification.Channel(req.Channel), "test notification", "this is a test")
	if err != nil {
		abortNotifyErr(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message_id": msg.ID})
}

func abortNotifyErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, notification.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid argument"})
	case errors.Is(err, notification.ErrChannelDisabled):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "channel disabled"})
	default:
		logger.FromGin(c).Error("notification operation failed", "err", err.Error())
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
