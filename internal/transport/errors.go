package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/devevents-app/devevents/internal/entity"
)

// respondError translates service errors into HTTP responses. Unknown
// errors are logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrValidation),
		errors.Is(err, entity.ErrEmptySlug),
		errors.Is(err, entity.ErrInvalidDate),
		errors.Is(err, entity.ErrInvalidTime),
		errors.Is(err, entity.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrEventNotFound),
		errors.Is(err, entity.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrSlugTaken),
		errors.Is(err, entity.ErrAlreadyRegistered),
		errors.Is(err, entity.ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logrus.Errorf("Unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
