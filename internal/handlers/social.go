package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/middleware"
)

type sendRequestQuery struct {
	ID int64 `form:"id" binding:"required,gt=0"`
}

func (h HandlerSet) SendRequest(c *gin.Context) {
	var q sendRequestQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.RenderError(c, h.log, bindError(err))
		return
	}

	reply, err := h.friends.Send(c.Request.Context(), currentUser(c).UserClaims.ID, q.ID)
	h.respond(c, reply, err)
}

type respondRequestBody struct {
	FromUserID int64 `json:"from_user_id" form:"from_user_id" binding:"required,gt=0"`
	Accept     *bool `json:"accept" form:"accept" binding:"required"`
}

func (h HandlerSet) RespondRequest(c *gin.Context) {
	var body respondRequestBody
	if err := c.ShouldBind(&body); err != nil {
		middleware.RenderError(c, h.log, bindError(err))
		return
	}

	reply, err := h.friends.Respond(c.Request.Context(), currentUser(c).UserClaims.ID, body.FromUserID, *body.Accept)
	h.respond(c, reply, err)
}

func (h HandlerSet) ListFriends(c *gin.Context) {
	reply, err := h.friends.List(c.Request.Context(), currentUser(c).UserClaims.ID)
	h.respond(c, reply, err)
}

type sendChatBody struct {
	ToUser  int64  `json:"to_user" form:"to_user" binding:"required,gt=0"`
	Message string `json:"message" form:"message" binding:"required"`
}

func (h HandlerSet) SendChat(c *gin.Context) {
	var body sendChatBody
	if err := c.ShouldBind(&body); err != nil {
		middleware.RenderError(c, h.log, bindError(err))
		return
	}

	reply, err := h.chats.Send(c.Request.Context(), currentUser(c).UserClaims.ID, body.ToUser, body.Message)
	h.respond(c, reply, err)
}

type chatQuery struct {
	ID    int64 `form:"id" binding:"required,gt=0"`
	Limit int   `form:"limit" binding:"gte=0"`
	Page  int   `form:"page" binding:"gte=0"`
}

func (h HandlerSet) GetChat(c *gin.Context) {
	var q chatQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.RenderError(c, h.log, bindError(err))
		return
	}

	reply, err := h.chats.Thread(c.Request.Context(), currentUser(c).UserClaims.ID, q.ID, q.Limit, q.Page)
	h.respond(c, reply, err)
}
