package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/tled/pkg/api/types"
	"github.com/urmzd/tled/pkg/command"
	"github.com/urmzd/tled/pkg/device"
	"github.com/urmzd/tled/pkg/device/schema"
)

// DeviceHandler handles the device command endpoints
type DeviceHandler struct {
	dispatcher *command.Dispatcher
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(dispatcher *command.Dispatcher) *DeviceHandler {
	return &DeviceHandler{dispatcher: dispatcher}
}

// Init handles POST /device/init
// @Summary      Initialize the device
// @Description  Connects to the fixture. With force set, an existing session is replaced.
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        request  body      types.InitRequest  false  "Initialization options"
// @Success      200      {object}  types.DeviceResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      502      {object}  types.ErrorResponse  "Connection failed"
// @Router       /device/init [post]
func (h *DeviceHandler) Init(c *gin.Context) {
	h.run(c, schema.CmdInit, true)
}

// Get handles GET /device
// @Summary      Get device state
// @Description  Returns the current projection, or null when no device is initialized
// @Tags         device
// @Produce      json
// @Success      200  {object}  types.DeviceResponse
// @Router       /device [get]
func (h *DeviceHandler) Get(c *gin.Context) {
	h.run(c, schema.CmdGet, false)
}

// Power handles POST /device/power
// @Summary      Power the device on or off
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        request  body      types.PowerRequest  true  "Power state"
// @Success      200      {object}  types.DeviceResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      409      {object}  types.ErrorResponse  "Device not initialized"
// @Failure      502      {object}  types.ErrorResponse  "Device error"
// @Router       /device/power [post]
func (h *DeviceHandler) Power(c *gin.Context) {
	h.run(c, schema.CmdToggle, true)
}

// ChangeOnly handles PATCH /device/color
// @Summary      Change some color channels
// @Description  Changes the supplied channels and brightness; omitted channels keep their value
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        request  body      types.ColorRequest  true  "Channels 0-255, brightness 0-100"
// @Success      200      {object}  types.DeviceResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      409      {object}  types.ErrorResponse  "Device not initialized"
// @Failure      502      {object}  types.ErrorResponse  "Color or brightness change failed"
// @Router       /device/color [patch]
func (h *DeviceHandler) ChangeOnly(c *gin.Context) {
	h.run(c, schema.CmdChangeOnly, true)
}

// ChangeAll handles PUT /device/color
// @Summary      Set color and brightness
// @Description  Sets every color channel and the brightness
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        request  body      types.ColorRequest  true  "Channels 0-255, brightness 0-100, all required"
// @Success      200      {object}  types.DeviceResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      409      {object}  types.ErrorResponse  "Device not initialized"
// @Failure      502      {object}  types.ErrorResponse  "Color or brightness change failed"
// @Router       /device/color [put]
func (h *DeviceHandler) ChangeAll(c *gin.Context) {
	h.run(c, schema.CmdChangeAll, true)
}

// White handles POST /device/white
// @Summary      Switch to white
// @Description  Switches the fixture to white at a color temperature between 2700 and 6500 K
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        request  body      types.WhiteRequest  true  "Color temperature"
// @Success      200      {object}  types.DeviceResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      409      {object}  types.ErrorResponse  "Device not initialized"
// @Failure      422      {object}  types.ErrorResponse  "Not supported by the device"
// @Router       /device/white [post]
func (h *DeviceHandler) White(c *gin.Context) {
	h.run(c, schema.CmdSetWhite, true)
}

// Effect handles POST /device/effect
// @Summary      Change the effect
// @Description  Switches effect and/or sets the effect speed (0-100)
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        request  body      types.EffectRequest  true  "Effect id and speed"
// @Success      200      {object}  types.DeviceResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      409      {object}  types.ErrorResponse  "Device not initialized"
// @Failure      502      {object}  types.ErrorResponse  "Effect change failed"
// @Router       /device/effect [post]
func (h *DeviceHandler) Effect(c *gin.Context) {
	h.run(c, schema.CmdSetEffect, true)
}

// UseAudio handles POST /device/audio
// @Summary      Start audio visualization
// @Description  Creates the audio monitor if needed, applies the settings and starts it
// @Tags         audio
// @Accept       json
// @Produce      json
// @Param        request  body      types.AudioRequest  false  "Mode and sensitivity (0-100)"
// @Success      200      {object}  types.DeviceResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      409      {object}  types.ErrorResponse  "Device not initialized"
// @Failure      503      {object}  types.ErrorResponse  "Audio monitor unavailable"
// @Router       /device/audio [post]
func (h *DeviceHandler) UseAudio(c *gin.Context) {
	h.run(c, schema.CmdUseAudio, true)
}

// StopAudio handles DELETE /device/audio
// @Summary      Stop audio visualization
// @Tags         audio
// @Produce      json
// @Success      200  {object}  types.DeviceResponse
// @Router       /device/audio [delete]
func (h *DeviceHandler) StopAudio(c *gin.Context) {
	h.run(c, schema.CmdStopAudio, false)
}

// DefaultAudio handles GET /device/audio/default
// @Summary      Get the audio configuration
// @Description  Returns the attached monitor's configuration, or the defaults of a new one
// @Tags         audio
// @Produce      json
// @Success      200  {object}  types.AudioConfigResponse
// @Failure      503  {object}  types.ErrorResponse  "Audio monitor unavailable"
// @Router       /device/audio/default [get]
func (h *DeviceHandler) DefaultAudio(c *gin.Context) {
	h.run(c, schema.CmdDefaultAudio, false)
}

// run dispatches cmd with the request body as arguments.
func (h *DeviceHandler) run(c *gin.Context, cmd string, withBody bool) {
	var args json.RawMessage
	if withBody {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Error:   "invalid_request",
				Message: err.Error(),
			})
			return
		}
		args = body
	}

	result, err := h.dispatcher.Dispatch(c.Request.Context(), cmd, args)
	if err != nil {
		writeError(c, err)
		return
	}

	switch v := result.(type) {
	case *device.AudioSnapshot:
		c.JSON(http.StatusOK, types.AudioConfigResponse{Audio: v})
	case *device.Snapshot:
		c.JSON(http.StatusOK, types.DeviceResponse{Device: v})
	default:
		c.JSON(http.StatusOK, result)
	}
}
