package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"riskconsole/internal/backend"
	"riskconsole/internal/console"
	"riskconsole/internal/risk"
	"riskconsole/internal/settings"
)

// abortWithError maps an error to a status code and JSON body.
func abortWithError(c *gin.Context, err error) {
	var (
		fe console.FieldErrors
		se *backend.StatusError
	)
	switch {
	case errors.As(err, &fe):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": fe})
	case errors.Is(err, backend.ErrUnavailable):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "backend unavailable", "banner": true})
	case backend.IsNotFound(err), errors.Is(err, console.ErrUnknownItem), errors.Is(err, settings.ErrUnknownAction):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, risk.ErrMalformedFactors):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": risk.Unavailable})
	case errors.As(err, &se):
		if se.Code == http.StatusBadRequest || se.Code == http.StatusUnprocessableEntity {
			c.AbortWithStatusJSON(se.Code, gin.H{"error": se.Body})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, console.ErrStale):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "request cancelled"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
