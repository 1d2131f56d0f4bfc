package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/apperr"
)

// RequireAuth rejects requests that Authenticate left anonymous.
func RequireAuth(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			RenderError(c, log, apperr.NotAuthorized())
			return
		}
		c.Next()
	}
}
