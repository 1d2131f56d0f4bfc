package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/apperr"
)

func TestRenderError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "bad request",
			err:    apperr.BadRequest("Passwords do not match"),
			status: http.StatusBadRequest,
			body:   `{"errors":[{"message":"Passwords do not match"}]}`,
		},
		{
			name:   "validation",
			err:    apperr.Validation(apperr.FieldError{Field: "email", Message: "email must be unique"}),
			status: http.StatusBadRequest,
			body:   `{"errors":[{"message":"email must be unique","field":"email"}]}`,
		},
		{
			name:   "data error with status",
			err:    &apperr.Error{Kind: apperr.KindData, Message: "Upstream down", Status: http.StatusBadGateway},
			status: http.StatusBadGateway,
			body:   `{"errors":[{"message":"Upstream down","statusCode":502}]}`,
		},
		{
			name:   "unclassified",
			err:    errors.New("pq: connection reset"),
			status: http.StatusBadRequest,
			body:   `{"errors":[{"message":"Something went wrong"}]}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) { RenderError(c, zerolog.Nop(), tc.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
		})
	}
}

func TestNotFoundAndRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery(zerolog.Nop()))
	r.NoRoute(NotFound(zerolog.Nop()))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"errors":[{"message":"Route not found"}]}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"errors":[{"message":"Internal server error","statusCode":500}]}`, w.Body.String())
}
