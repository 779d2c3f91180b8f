package identity

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-scorer/internal/session"
	"resume-scorer/internal/shared/server/respond"
	"resume-scorer/internal/shared/telemetry"
)

type Handler struct {
	Svc    *Service
	Google *Google
}

func NewHandler(svc *Service, g *Google) *Handler {
	return &Handler{Svc: svc, Google: g}
}

// RegisterRoutes attaches the sign-up and sign-in routes, which need no token.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", h.signUp)
	rg.POST("/auth/login", h.signIn)
	rg.GET("/auth/google/start", h.googleStart)
	rg.GET("/auth/google/callback", h.googleCallback)
}

// RegisterAuthenticated attaches routes that act on the caller's session.
func (h *Handler) RegisterAuthenticated(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", h.signOut)
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json", nil)
		return
	}
	res, err := h.Svc.SignUp(c.Request.Context(), SignUpInput(req))
	if err != nil {
		writeAuthError(c, err)
		return
	}
	respond.Created(c, res)
}

func (h *Handler) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json", nil)
		return
	}
	res, err := h.Svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) signOut(c *gin.Context) {
	sc, ok := session.FromGin(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	if err := h.Svc.SignOut(c.Request.Context(), sc); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to sign out", nil)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) googleStart(c *gin.Context) {
	if h.Google == nil {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google auth not configured", nil)
		return
	}
	c.Redirect(http.StatusFound, h.Google.AuthURL())
}

func (h *Handler) googleCallback(c *gin.Context) {
	if h.Google == nil {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google auth not configured", nil)
		return
	}
	ctx := c.Request.Context()
	gu, err := h.Google.Exchange(ctx, c.Query("state"), c.Query("code"))
	if err != nil {
		telemetry.Warn("auth.google_exchange_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusBadRequest, "auth_error", "Google sign-in failed", nil)
		return
	}
	res, err := h.Svc.SignInGoogle(ctx, gu)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	redirectURL, err := h.Google.RedirectWithToken(res.Value)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to redirect", nil)
		return
	}
	c.Redirect(http.StatusFound, redirectURL)
}

func writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmailInUse):
		respond.Error(c, http.StatusConflict, "email_in_use", "An account with this email already exists", nil)
	case errors.Is(err, ErrInvalidCredentials):
		respond.Error(c, http.StatusUnauthorized, "auth_error", "Invalid email or password", nil)
	case errors.Is(err, ErrWeakPassword):
		respond.Error(c, http.StatusBadRequest, "auth_error", "Password should be at least 6 characters", nil)
	case errors.Is(err, ErrInvalidEmail):
		respond.Error(c, http.StatusBadRequest, "auth_error", "Please enter a valid email address", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "authentication failed", nil)
	}
}
