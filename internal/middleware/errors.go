package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/apperr"
)

const genericMessage = "Something went wrong"

type errorResponse struct {
	Errors []apperr.Detail `json:"errors"`
}

// RenderError writes err as the error envelope and aborts the chain. Errors
// without a kind are logged and answered with a generic bad request.
func RenderError(c *gin.Context, log zerolog.Logger, err error) {
	if appErr, ok := apperr.From(err); ok {
		if appErr.Kind == apperr.KindData {
			log.Error().
				Err(err).
				Str("request_id", RequestIDFrom(c)).
				Str("path", c.Request.URL.Path).
				Msg("data error")
		}
		c.AbortWithStatusJSON(appErr.HTTPStatus(), errorResponse{Errors: appErr.Serialize()})
		return
	}

	log.Error().
		Err(err).
		Str("request_id", RequestIDFrom(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("unhandled error")
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Errors: []apperr.Detail{{Message: genericMessage}}})
}

func NotFound(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		RenderError(c, log, apperr.NotFound())
	}
}
