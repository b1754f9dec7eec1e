package wheel

import (
	"errors"
	"net/http"
	"strconv"

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

type SaveTableRequest struct {
	Name   string         `json:"name" binding:"required"`
	Prizes []PrizeRequest `json:"prizes" binding:"required"`
}

type PrizeRequest struct {
	Type        PrizeType `json:"type" binding:"required"`
	Label       string    `json:"label"`
	Value       int64     `json:"value"`
	Probability float64   `json:"probability"`
}

func (h *Handler) GetLiveTable(c *gin.Context) {
	table, err := h.repo.GetLiveTable(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrNoLiveTable) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no live prize table"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load prize table"})
		return
	}

	c.JSON(http.StatusOK, table)
}

func (h *Handler) ListTables(c *gin.Context) {
	tables, err := h.repo.ListTables(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load prize tables"})
		return
	}

	c.JSON(http.StatusOK, tables)
}

// SaveTable validates and stores a new prize table (not live yet).
// The probability check runs here so the admin UI gets a structured
// error before anything is saved.
func (h *Handler) SaveTable(c *gin.Context) {
	var req SaveTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	prizes := make([]Prize, 0, len(req.Prizes))
	for i, p := range req.Prizes {
		prizes = append(prizes, Prize{
			Position:    i,
			Type:        p.Type,
			Label:       p.Label,
			Value:       p.Value,
			Probability: p.Probability,
		})
	}

	if err := ValidateProbabilities(prizes); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	table, err := h.repo.SaveTable(c.Request.Context(), req.Name, prizes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save prize table"})
		return
	}

	c.JSON(http.StatusCreated, table)
}

func (h *Handler) SetLive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("tableID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid table id"})
		return
	}

	// Re-validate before promotion; a table written before a rule
	// change must not slip through.
	table, err := h.repo.GetTable(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTableNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "prize table not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load prize table"})
		return
	}

	if err := ValidateProbabilities(table.Prizes); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.SetLive(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to promote prize table"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "prize table is live"})
}
