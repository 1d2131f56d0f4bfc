package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/apperr"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/middleware"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/service"
)

const avatarField = "files"

func (h HandlerSet) GetProfile(c *gin.Context) {
	reply, err := h.profiles.Get(c.Request.Context(), currentUser(c).UserClaims.ID)
	h.respond(c, reply, err)
}

type profileRequest struct {
	Name  string `json:"name" form:"name" binding:"required"`
	Email string `json:"email" form:"email" binding:"required,email"`
	Phone string `json:"phone" form:"phone" binding:"required"`
}

// UpdateProfile accepts the profile fields as JSON, a form, or a multipart
// form carrying at most one avatar under "files".
func (h HandlerSet) UpdateProfile(c *gin.Context) {
	maxBytes := h.cfg.HTTP.MaxUploadMB << 20
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+1<<20)
	}

	var req profileRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.RenderError(c, h.log, avatarTooLarge(h.cfg.HTTP.MaxUploadMB))
			return
		}
		middleware.RenderError(c, h.log, bindError(err))
		return
	}

	in := service.ProfileInput{Name: req.Name, Email: req.Email, Phone: req.Phone}

	if strings.HasPrefix(c.ContentType(), "multipart/") && c.Request.MultipartForm != nil {
		files := c.Request.MultipartForm.File[avatarField]
		if len(files) > 1 {
			middleware.RenderError(c, h.log, apperr.Validation(apperr.FieldError{
				Field:   avatarField,
				Message: "only one avatar can be uploaded",
			}))
			return
		}
		if len(files) == 1 {
			header := files[0]
			if maxBytes > 0 && header.Size > maxBytes {
				middleware.RenderError(c, h.log, avatarTooLarge(h.cfg.HTTP.MaxUploadMB))
				return
			}
			file, err := header.Open()
			if err != nil {
				middleware.RenderError(c, h.log, fmt.Errorf("open avatar: %w", err))
				return
			}
			defer file.Close()

			in.Avatar = &service.Upload{Filename: header.Filename, Size: header.Size, Body: file}
		}
	}

	reply, err := h.profiles.Update(c.Request.Context(), currentUser(c).UserClaims.ID, in)
	h.respond(c, reply, err)
}

func avatarTooLarge(limitMB int64) error {
	return apperr.Validation(apperr.FieldError{
		Field:   avatarField,
		Message: fmt.Sprintf("avatar must be at most %d MB", limitMB),
	})
}
