package session

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-scorer/internal/shared/server/respond"
)

const heartbeatInterval = 25 * time.Second

// Handler exposes the current session and its event stream.
type Handler struct {
	Broker *Broker
}

// NewHandler constructs a Handler.
func NewHandler(broker *Broker) *Handler {
	return &Handler{Broker: broker}
}

// RegisterRoutes attaches session routes to an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/session", h.current)
	rg.GET("/session/events", h.events)
}

func (h *Handler) current(c *gin.Context) {
	sc, ok := FromGin(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	respond.OK(c, sc)
}

// events streams session changes as server-sent events until the client
// disconnects or this session signs out.
func (h *Handler) events(c *gin.Context) {
	sc, ok := FromGin(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	if h.Broker == nil {
		respond.Error(c, http.StatusServiceUnavailable, "unavailable", "session events not enabled", nil)
		return
	}

	ch, cancel := h.Broker.Subscribe(sc)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	done := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-done:
			return false
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Type), ev)
			return !(ev.Type == EventSignedOut && ev.SessionID == sc.SessionID)
		}
	})
}
