package handlers

import (
	"errors"
	"net/http"

	"grading-service/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a persistence failure, surfaced as a 500 with the
// underlying message and never retried.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrNotPublished):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrAlreadyCompleted),
		errors.Is(err, service.ErrInsufficientPool),
		errors.Is(err, service.ErrOutOfWindow),
		errors.Is(err, service.ErrMaxAttemptsReached):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
