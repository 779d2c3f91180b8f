package users

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-scorer/internal/session"
	"resume-scorer/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.get)
	rg.POST("/profile/photo", h.uploadPhoto)
}

func (h *Handler) get(c *gin.Context) {
	sc, ok := session.FromGin(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	p, err := h.Svc.GetByID(c.Request.Context(), sc.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	respond.OK(c, p)
}

func (h *Handler) uploadPhoto(c *gin.Context) {
	sc, ok := session.FromGin(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxPhotoBytes+1<<20)

	fh, err := c.FormFile("photo")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "photo file is required", nil)
		return
	}
	photo := Photo{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	}
	if err := ValidatePhoto(photo); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Please upload a JPEG, PNG, WEBP or GIF image under 5MB", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer f.Close()
	if photo.Data, err = io.ReadAll(f); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	p, err := h.Svc.UploadPhoto(c.Request.Context(), sc.UserID, photo)
	switch {
	case err == nil:
		respond.OK(c, p)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "upload_failed", "Failed to upload photo. Please try again.", nil)
	}
}
