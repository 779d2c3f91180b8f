package session

import "github.com/gin-gonic/gin"

const (
	ginKey       = "session"
	ginUserIDKey = "userId"
)

// Context is the authenticated identity for one request.
type Context struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
}

// Attach stores sc on the gin context. The user id is also exposed under
// "userId" for request logging.
func Attach(c *gin.Context, sc Context) {
	c.Set(ginKey, sc)
	c.Set(ginUserIDKey, sc.UserID)
}

// FromGin returns the Context attached by the auth middleware.
func FromGin(c *gin.Context) (Context, bool) {
	if c == nil {
		return Context{}, false
	}
	v, ok := c.Get(ginKey)
	if !ok {
		return Context{}, false
	}
	sc, ok := v.(Context)
	if !ok || sc.UserID == "" {
		return Context{}, false
	}
	return sc, true
}
