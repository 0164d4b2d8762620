package mcp

import (
	"github.com/urmzd/tled/pkg/db"
	"github.com/urmzd/tled/pkg/device"
	"github.com/urmzd/tled/pkg/elk"
)

// --- Health Tool ---

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status    string `json:"status" jsonschema:"description=Overall health status"`
	Device    string `json:"device" jsonschema:"description=Whether a device session exists (initialized or uninitialized)"`
	Timestamp string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// --- Device Tools ---

// DeviceOutput is the output of the device_* tools that return a projection
type DeviceOutput struct {
	Device *device.Snapshot `json:"device" jsonschema:"description=Current device state; null when no device is initialized"`
}

// AudioConfigOutput is the output for the device_default_audio_configuration tool
type AudioConfigOutput struct {
	Audio *device.AudioSnapshot `json:"audio" jsonschema:"description=Audio monitor configuration"`
}

// --- List Effects Tool ---

// ListEffectsOutput is the output for the list_effects tool
type ListEffectsOutput struct {
	Effects []elk.Effect `json:"effects" jsonschema:"description=Built-in effects"`
	Count   int          `json:"count" jsonschema:"description=Number of effects"`
}

// --- List Events Tool ---

// ListEventsOutput is the output for the list_events tool
type ListEventsOutput struct {
	Events []*db.DeviceEvent `json:"events" jsonschema:"description=Recorded command outcomes, newest first"`
	Count  int               `json:"count" jsonschema:"description=Number of events returned"`
}
