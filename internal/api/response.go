package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/conduit-api/internal/apperr"
	"github.com/conduit-api/internal/models"
)

// Context keys set by the identity middleware
const (
	ctxUserKey  = "currentUser"
	ctxTokenKey = "authToken"
)

// respondError flattens every client-caused failure into a single error
// shape: HTTP 422 with the message under errors.body. Unexpected errors
// are logged and hidden behind a generic 500.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	if apperr.IsClient(err) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors": gin.H{"body": []string{err.Error()}},
		})
		return
	}

	log.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"errors": gin.H{"body": []string{"Internal server error"}},
	})
}

// respondBindError reports a request body that could not be decoded
func respondBindError(c *gin.Context) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"errors": gin.H{"body": []string{"Invalid request body"}},
	})
}

// currentUser returns the authenticated user resolved by the identity
// middleware, or nil for anonymous requests
func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// currentToken returns the raw token the identity middleware verified,
// or the empty string
func currentToken(c *gin.Context) string {
	if v, ok := c.Get(ctxTokenKey); ok {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}
