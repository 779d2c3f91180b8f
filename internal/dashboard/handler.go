package dashboard

import (
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
	rg.GET("/dashboard", h.get)
}

func (h *Handler) get(c *gin.Context) {
	sc, ok := session.FromGin(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	summary, err := h.Svc.ForOwner(c.Request.Context(), sc.UserID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load dashboard", nil)
		return
	}
	respond.OK(c, summary)
}
