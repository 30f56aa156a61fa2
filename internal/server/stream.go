package server

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ngenohkevin/aura-explorer/internal/metrics"
)

const heartbeatInterval = 30 * time.Second

// StreamEvents handles GET /api/events (SSE). The current view is sent
// first, then one event per workspace change.
func (h *Handlers) StreamEvents(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	events, unsubscribe := h.workspace.Subscribe()
	defer unsubscribe()
	defer metrics.SSEConnected()()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()

	c.Status(http.StatusOK)
	c.SSEvent("view", h.workspace.View())
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Type), event)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"time": time.Now().UTC()})
			return true
		case <-ctx.Done():
			return false
		}
	})
}
