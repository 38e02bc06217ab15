package server

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderAPIKey carries the shared till credential. Every /api/v1 route
// requires it.
const HeaderAPIKey = "X-API-Key"

func (s *Server) APIKeyRequired() gin.HandlerFunc {
	expected := []byte(s.cfg.APIKey)

	return func(c *gin.Context) {
		presented := strings.TrimSpace(c.GetHeader(HeaderAPIKey))
		if presented == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if subtle.ConstantTimeCompare([]byte(presented), expected) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Next()
	}
}
