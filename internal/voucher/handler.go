package voucher

import (
	"errors"
	"net/http"

	"kaizen/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		repo: NewRepository(db),
	}
}

type ValidateRequest struct {
	Code       string `json:"code" binding:"required"`
	OrderTotal int64  `json:"order_total" binding:"required"`
	Category   string `json:"category"`
}

type CreateVoucherRequest struct {
	Code              string       `json:"code" binding:"required,vouchercode"`
	DiscountType      DiscountType `json:"discount_type" binding:"required"`
	Value             int64        `json:"value" binding:"required"`
	MinOrder          int64        `json:"min_order"`
	MaxDiscount       int64        `json:"max_discount"`
	AllowedCategories []string     `json:"allowed_categories"`
	UsesRemaining     int          `json:"uses_remaining" binding:"required"`
}

// Validate computes the discount without consuming a use; checkout
// calls Redeem separately once payment is confirmed.
func (h *Handler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	v, err := h.repo.GetByCode(c.Request.Context(), req.Code)
	if err != nil {
		if errors.Is(err, ErrVoucherNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "voucher not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load voucher"})
		return
	}

	discount, err := Validate(v, req.OrderTotal, req.Category)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "valid": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "discount": discount})
}

func (h *Handler) Redeem(c *gin.Context) {
	code := c.Param("code")

	err := h.repo.Redeem(c.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, ErrVoucherNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "voucher not found"})
		case errors.Is(err, ErrVoucherExhausted):
			metrics.RecordVoucherRedemption("exhausted")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to redeem voucher"})
		}
		return
	}

	metrics.RecordVoucherRedemption("redeemed")
	c.JSON(http.StatusOK, gin.H{"message": "voucher redeemed"})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.DiscountType != DiscountPercent && req.DiscountType != DiscountFixed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "discount_type must be PERCENT or FIXED"})
		return
	}
	if req.Value <= 0 || req.UsesRemaining <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value and uses_remaining must be positive"})
		return
	}

	v, err := h.repo.Create(c.Request.Context(), Voucher{
		Code:              req.Code,
		DiscountType:      req.DiscountType,
		Value:             req.Value,
		MinOrder:          req.MinOrder,
		MaxDiscount:       req.MaxDiscount,
		AllowedCategories: pq.StringArray(req.AllowedCategories),
		UsesRemaining:     req.UsesRemaining,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create voucher"})
		return
	}

	c.JSON(http.StatusCreated, v)
}

func (h *Handler) List(c *gin.Context) {
	vouchers, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load vouchers"})
		return
	}

	c.JSON(http.StatusOK, vouchers)
}

func (h *Handler) Delete(c *gin.Context) {
	code := c.Param("code")

	if err := h.repo.Delete(c.Request.Context(), code); err != nil {
		if errors.Is(err, ErrVoucherNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "voucher not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete voucher"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "voucher deleted"})
}
