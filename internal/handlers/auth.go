package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/middleware"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/service"
)

type signupRequest struct {
	Email           string `json:"email" form:"email" binding:"required,email"`
	Name            string `json:"name" form:"name" binding:"required"`
	Phone           string `json:"phone" form:"phone" binding:"required"`
	Otp             string `json:"otp" form:"otp" binding:"required"`
	Password        string `json:"password" form:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" binding:"required"`
}

func (h HandlerSet) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.RenderError(c, h.log, bindError(err))
		return
	}

	reply, err := h.auth.Signup(c.Request.Context(), service.SignupInput{
		Email:           req.Email,
		Name:            req.Name,
		Phone:           req.Phone,
		Otp:             req.Otp,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	h.respond(c, reply, err)
}

type signupOtpRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
	Phone string `json:"phone" form:"phone" binding:"required"`
}

func (h HandlerSet) SendSignupOtp(c *gin.Context) {
	var req signupOtpRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.RenderError(c, h.log, bindError(err))
		return
	}

	reply, err := h.auth.SendSignupOtp(c.Request.Context(), req.Email, req.Phone)
	h.respond(c, reply, err)
}

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.RenderError(c, h.log, bindError(err))
		return
	}

	reply, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	h.respond(c, reply, err)
}

func (h HandlerSet) Logout(c *gin.Context) {
	reply, err := h.auth.Logout(c.Request.Context(), middleware.SessionKey(c))
	h.respond(c, reply, err)
}
