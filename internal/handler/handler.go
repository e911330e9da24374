// Package handler translates HTTP requests into service calls and service
// errors into statuses: ValidationError 400, NotFound 404, Conflict 409,
// anything else 500.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tably/orders-api/internal/apperr"
)

func respondError(c *gin.Context, err error, notFoundMsg string) {
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation error", "details": ve.Details})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": notFoundMsg})
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": "A user with this email already exists"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "A database error occurred"})
	}
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "Validation error", "details": []string{err.Error()}})
}
