package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/security"
)

const (
	currentUserKey = "current_user"
	sessionKeyKey  = "session_key"
)

type SessionLookup interface {
	Lookup(ctx context.Context, sessionKey string) (string, error)
}

type TokenParser interface {
	Parse(token string) (*security.Claims, error)
}

// Authenticate resolves the session key in header to a verified identity. It
// never rejects: on any failure the request continues anonymously and
// RequireAuth decides.
func Authenticate(header string, sessions SessionLookup, tokens TokenParser, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(header)
		if key == "" {
			c.Next()
			return
		}

		token, err := sessions.Lookup(c.Request.Context(), key)
		if err != nil {
			log.Debug().Err(err).Str("request_id", RequestIDFrom(c)).Msg("session lookup failed")
			c.Next()
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			log.Debug().Err(err).Str("request_id", RequestIDFrom(c)).Msg("session token rejected")
			c.Next()
			return
		}

		if claims.Session != key {
			log.Debug().Str("request_id", RequestIDFrom(c)).Msg("session token bound to another key")
			c.Next()
			return
		}

		c.Set(currentUserKey, *claims)
		c.Set(sessionKeyKey, key)
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (security.Claims, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return security.Claims{}, false
	}
	claims, ok := v.(security.Claims)
	return claims, ok
}

func SessionKey(c *gin.Context) string {
	return c.GetString(sessionKeyKey)
}
