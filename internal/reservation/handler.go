package reservation

import (
	"errors"
	"net/http"
	"strconv"

	"kaizen/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.service.ListEvents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *Handler) GetEvent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("eventID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.service.GetEvent(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event, "available": event.Available()})
}

func (h *Handler) CreateEvent(c *gin.Context) {
	var event Event
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.CreateEvent(c.Request.Context(), &event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *Handler) Reserve(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	eventID, err := strconv.Atoi(c.Param("eventID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	lock, err := h.service.Reserve(c.Request.Context(), eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		case errors.Is(err, ErrCapacityExhausted):
			c.JSON(http.StatusConflict, gin.H{"error": "no seats available"})
		case errors.Is(err, ErrAlreadyRegistered):
			c.JSON(http.StatusConflict, gin.H{"error": "already registered for this event"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reserve seat"})
		}
		return
	}

	c.JSON(http.StatusCreated, lock)
}

func (h *Handler) Confirm(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	reg, err := h.service.Confirm(c.Request.Context(), c.Param("token"), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrLockNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "seat lock not found"})
		case errors.Is(err, ErrLockExpired):
			c.JSON(http.StatusGone, gin.H{"error": "seat lock has expired"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm reservation"})
		}
		return
	}

	c.JSON(http.StatusOK, reg)
}

func (h *Handler) Release(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.service.Release(c.Request.Context(), c.Param("token"), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to release seat lock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "seat lock released"})
}

func (h *Handler) ListRegistrations(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("eventID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	regs, err := h.service.ListRegistrations(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load registrations"})
		return
	}

	c.JSON(http.StatusOK, regs)
}
