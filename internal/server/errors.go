package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	countrydomain "github.com/geoledger/countrysync/internal/country/domain"
	"github.com/geoledger/countrysync/internal/refresh"
	"gorm.io/gorm"
)

var ErrImageNotFound = errors.New("summary_image_not_found")

// ErrorHandlingMiddleware maps errors recorded on the context to HTTP
// responses. Internal detail never reaches the response body; handlers log
// the cause server-side.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, payload)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, gin.H) {
	var upstream *refresh.UpstreamError
	if errors.As(err, &upstream) {
		return http.StatusServiceUnavailable, gin.H{
			"error":   "External data source unavailable",
			"details": upstream.Error(),
		}
	}

	switch {
	case errors.Is(err, countrydomain.ErrNotFound),
		errors.Is(err, countrydomain.ErrInvalidName),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, gin.H{"error": "Country not found"}
	case errors.Is(err, ErrImageNotFound):
		return http.StatusNotFound, gin.H{"error": "Summary image not found"}
	default:
		return http.StatusInternalServerError, gin.H{"error": "Internal server error"}
	}
}
