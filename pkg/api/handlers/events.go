package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/tled/pkg/api/types"
	"github.com/urmzd/tled/pkg/command"
	"github.com/urmzd/tled/pkg/db"
)

const maxEventLimit = 1000

// EventsHandler handles the command history and live event endpoints
type EventsHandler struct {
	store       db.EventStore
	broadcaster *command.Broadcaster
}

// NewEventsHandler creates a new events handler. store may be nil when no
// history is kept.
func NewEventsHandler(store db.EventStore, broadcaster *command.Broadcaster) *EventsHandler {
	return &EventsHandler{store: store, broadcaster: broadcaster}
}

// List handles GET /events
// @Summary      List recorded commands
// @Description  Returns recorded command outcomes, newest first
// @Tags         events
// @Produce      json
// @Param        command  query     string  false  "Only events of this command"
// @Param        limit    query     int     false  "Maximum number of events (default 100, max 1000)"
// @Success      200      {object}  types.EventsResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid limit"
// @Failure      500      {object}  types.ErrorResponse  "Storage error"
// @Router       /events [get]
func (h *EventsHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxEventLimit {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Error:   "invalid_limit",
				Message: "limit must be between 0 and 1000",
			})
			return
		}
		limit = n
	}

	if h.store == nil {
		c.JSON(http.StatusOK, types.EventsResponse{Events: []*db.DeviceEvent{}})
		return
	}

	events, err := h.store.List(c.Request.Context(), c.Query("command"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "storage_error",
			Message: err.Error(),
		})
		return
	}
	if events == nil {
		events = []*db.DeviceEvent{}
	}

	c.JSON(http.StatusOK, types.EventsResponse{
		Events: events,
		Count:  len(events),
	})
}

// Stream handles GET /events/stream (SSE stream)
// @Summary      Subscribe to command events
// @Description  Server-Sent Events stream of command outcomes with the resulting projection
// @Tags         events
// @Produce      text/event-stream
// @Success      200  {string}  string  "SSE event stream"
// @Router       /events/stream [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	eventChan := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(eventChan)

	sendSSEEvent(c.Writer, "connected", map[string]any{
		"timestamp": time.Now(),
		"message":   "Connected to device event stream",
	})
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-clientGone:
			return

		case event, ok := <-eventChan:
			if !ok {
				return
			}
			sendSSEEvent(c.Writer, event.Command, event)
			c.Writer.Flush()

		case <-ticker.C:
			sendSSEEvent(c.Writer, "heartbeat", map[string]any{
				"timestamp": time.Now(),
			})
			c.Writer.Flush()
		}
	}
}

// sendSSEEvent writes an SSE event to the response
func sendSSEEvent(w io.Writer, eventType string, data any) {
	jsonData, _ := json.Marshal(data)
	io.WriteString(w, "event: "+eventType+"\n")
	io.WriteString(w, "data: "+string(jsonData)+"\n\n")
}
