package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/middleware"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/security"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/service"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// respond renders the outcome of a workflow. A nil Data is sent as an empty
// list.
func (h HandlerSet) respond(c *gin.Context, reply service.Reply, err error) {
	if err != nil {
		middleware.RenderError(c, h.log, err)
		return
	}

	data := reply.Data
	if data == nil {
		data = []any{}
	}
	c.JSON(http.StatusOK, envelope{Success: true, Message: reply.Message, Data: data})
}

// currentUser is only called behind RequireAuth.
func currentUser(c *gin.Context) security.Claims {
	user, _ := middleware.CurrentUser(c)
	return user
}
