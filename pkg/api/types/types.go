package types

import (
	"time"

	"github.com/urmzd/tled/pkg/db"
	"github.com/urmzd/tled/pkg/device"
	"github.com/urmzd/tled/pkg/elk"
)

// --- Request DTOs ---
//
// Request bodies are validated against the command schemas before decoding;
// these types document the payloads.

// InitRequest is the request body for POST /device/init
type InitRequest struct {
	Force bool `json:"force"`
}

// PowerRequest is the request body for POST /device/power
type PowerRequest struct {
	Power bool `json:"power"`
}

// ColorRequest is the request body for PATCH and PUT /device/color.
// Channels are 0-255, brightness (a) is 0-100.
type ColorRequest struct {
	R *uint8 `json:"r,omitempty"`
	G *uint8 `json:"g,omitempty"`
	B *uint8 `json:"b,omitempty"`
	A *uint8 `json:"a,omitempty"`
}

// WhiteRequest is the request body for POST /device/white
type WhiteRequest struct {
	Kelvin uint32 `json:"kelvin"`
}

// EffectRequest is the request body for POST /device/effect
type EffectRequest struct {
	Effect *uint8 `json:"effect,omitempty"`
	Speed  *uint8 `json:"speed,omitempty"`
}

// AudioRequest is the request body for POST /device/audio
type AudioRequest struct {
	Mode        *string `json:"mode,omitempty" enums:"FrequencyColor,EnergyBrightness,BeatEffects,SpectralFlow,EnhancedFrequencyColor,BpmSync"`
	Sensitivity *uint8  `json:"sensitivity,omitempty"`
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Device    string    `json:"device"`
	Timestamp time.Time `json:"timestamp"`
}

// DeviceResponse wraps a projection. Device is null when no device is
// initialized.
type DeviceResponse struct {
	Device *device.Snapshot `json:"device"`
}

// AudioConfigResponse is returned from GET /device/audio/default
type AudioConfigResponse struct {
	Audio *device.AudioSnapshot `json:"audio"`
}

// EffectsResponse is returned from GET /effects
type EffectsResponse struct {
	Effects []elk.Effect `json:"effects"`
	Count   int          `json:"count"`
}

// EventsResponse is returned from GET /events
type EventsResponse struct {
	Events []*db.DeviceEvent `json:"events"`
	Count  int               `json:"count"`
}
