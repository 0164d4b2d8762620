package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/tled/pkg/api/types"
	"github.com/urmzd/tled/pkg/command"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	surface *command.Surface
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(surface *command.Surface) *HealthHandler {
	return &HealthHandler{surface: surface}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the health of the service and whether a device session exists
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Service is healthy"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	deviceStatus := "uninitialized"
	if h.surface.Get() != nil {
		deviceStatus = "initialized"
	}

	c.JSON(http.StatusOK, types.HealthResponse{
		Status:    "healthy",
		Device:    deviceStatus,
		Timestamp: time.Now(),
	})
}
