package tier

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		repo: NewRepository(db),
	}
}

type SaveCatalogRequest struct {
	Tiers []TierRequest `json:"tiers" binding:"required"`
}

type TierRequest struct {
	Name        string  `json:"name" binding:"required"`
	MinXP       int64   `json:"min_xp"`
	Multiplier  float64 `json:"multiplier" binding:"required"`
	UnlockPrice int64   `json:"unlock_price"`
	Perk        string  `json:"perk"`
	Badge       string  `json:"badge"`
}

func (h *Handler) ListTiers(c *gin.Context) {
	tiers, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tiers"})
		return
	}

	c.JSON(http.StatusOK, tiers)
}

// SaveCatalog replaces the whole tier table. Validation gates the
// save so a malformed catalog is never live.
func (h *Handler) SaveCatalog(c *gin.Context) {
	var req SaveCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tiers := make([]Tier, 0, len(req.Tiers))
	for _, t := range req.Tiers {
		tiers = append(tiers, Tier{
			Name:        t.Name,
			MinXP:       t.MinXP,
			Multiplier:  t.Multiplier,
			UnlockPrice: t.UnlockPrice,
			Perk:        t.Perk,
			Badge:       t.Badge,
		})
	}

	if err := Validate(tiers); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.ReplaceAll(c.Request.Context(), tiers); err != nil {
		if errors.Is(err, ErrEmptyCatalog) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save tier catalog"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "tier catalog saved", "count": len(tiers)})
}
