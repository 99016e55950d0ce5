package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pricescope/backend/internal/domain"
)

// ComparisonUsecase is what the handler needs from the usecase layer
type ComparisonUsecase interface {
	CompareProducts(ctx context.Context, request *domain.ComparisonRequest) (*domain.ComparisonReport, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparisons ComparisonUsecase
}

// NewHandler creates a new HTTP handler
func NewHandler(comparisons ComparisonUsecase) *Handler {
	return &Handler{comparisons: comparisons}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricescope-backend",
		"version": "1.0.0",
	})
}

// CompareProducts handles a price comparison request
func (h *Handler) CompareProducts(c *gin.Context) {
	if h.comparisons == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "comparison service not configured"})
		return
	}

	var request domain.ComparisonRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productName is required"})
		return
	}

	report, err := h.comparisons.CompareProducts(c.Request.Context(), &request)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// statusForError maps domain errors onto HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoListingsFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMarketplaceUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
