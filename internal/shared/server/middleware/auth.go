package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-scorer/internal/session"
	"resume-scorer/internal/shared/server/respond"
	"resume-scorer/internal/shared/telemetry"
)

// TokenVerifier resolves a bearer token to a session context.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (session.Context, error)
}

// Auth requires a valid session token and attaches the session context.
// Browsers cannot set headers on EventSource requests, so GET requests may
// pass the token as the access_token query parameter instead.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		sc, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, session.ErrInvalid) {
				telemetry.Error("auth.verify_failed", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      err,
				})
			}
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		session.Attach(c, sc)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return "", false
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		return token, token != ""
	}
	if c.Request.Method == http.MethodGet {
		if token := strings.TrimSpace(c.Query("access_token")); token != "" {
			return token, true
		}
	}
	return "", false
}

// UserIDFromContext returns the authenticated user id, or "".
func UserIDFromContext(c *gin.Context) string {
	sc, _ := session.FromGin(c)
	return sc.UserID
}
