package handler

import (
	"errors"
	"net/http"

	"opina/internal/domain"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondError maps domain errors to HTTP statuses in one place so handlers
// stay thin. Unknown errors become a generic 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSurveyNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAlreadyParticipated),
		errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrIneligibleTier):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStorageConflict):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporary conflict, try again"})
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrSurveyInactive),
		errors.Is(err, domain.ErrSurveyExhausted),
		errors.Is(err, domain.ErrIncompleteAnswers),
		errors.Is(err, domain.ErrProductInactive),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrBelowMinimum),
		errors.Is(err, domain.ErrMonthlyCapExceeded):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
