package economy

import (
	"errors"
	"net/http"

	"kaizen/internal/auth"
	"kaizen/internal/fulfillment"
	"kaizen/internal/ledger"
	"kaizen/internal/tier"
	"kaizen/internal/wheel"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB, publisher fulfillment.Publisher, opts Options) *Handler {
	return &Handler{
		service: NewService(
			ledger.NewRepository(db),
			tier.NewRepository(db),
			wheel.NewRepository(db),
			publisher,
			opts,
		),
	}
}

type AwardRequest struct {
	UserID int    `json:"user_id" binding:"required"`
	Action string `json:"action" binding:"required"`
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, tier.ErrEmptyCatalog) {
			c.JSON(http.StatusConflict, gin.H{"error": "tier catalog is not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Handler) SpinWheel(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	result, err := h.service.SpinWheel(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, wheel.ErrNoLiveTable):
			c.JSON(http.StatusConflict, gin.H{"error": "no live prize table"})
		case errors.Is(err, ledger.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "not enough JP for a spin"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to spin the wheel"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) PurchaseTier(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	result, err := h.service.PurchaseTier(c.Request.Context(), userID, c.Param("tierName"))
	if err != nil {
		switch {
		case errors.Is(err, tier.ErrTierNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "tier not found"})
		case errors.Is(err, ErrAlreadyUnlocked):
			c.JSON(http.StatusConflict, gin.H{"error": "tier already unlocked"})
		case errors.Is(err, ledger.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "not enough JP to unlock this tier"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to purchase tier"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// Award grants an action reward to a user. Admin-only: rewards for
// normal flows (registration confirm, checkout) are posted by the
// owning service, not through this endpoint.
func (h *Handler) Award(c *gin.Context) {
	var req AwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.service.AwardForAction(c.Request.Context(), req.UserID, req.Action)
	if err != nil {
		if errors.Is(err, ErrUnknownAction) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to award action"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Service exposes the underlying service for wiring into the
// reservation confirm flow.
func (h *Handler) Service() Service {
	return h.service
}
