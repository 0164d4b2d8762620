package elk

import (
	"context"
	"encoding/hex"
	"strings"
)

// Publisher is the subset of an MQTT client used by MQTTLink.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte, retained bool) error
}

// MQTTLink hands frames to a BLE proxy (for example an ESP32 running a
// BLE-to-MQTT bridge) that subscribes to <prefix>/write. Frames are sent as
// lowercase hex without separators.
type MQTTLink struct {
	pub   Publisher
	topic string
}

// NewMQTTLink creates a link publishing to prefix + "/write".
func NewMQTTLink(pub Publisher, prefix string) *MQTTLink {
	return &MQTTLink{
		pub:   pub,
		topic: strings.TrimSuffix(prefix, "/") + "/write",
	}
}

// Topic returns the topic frames are published to.
func (l *MQTTLink) Topic() string {
	return l.topic
}

func (l *MQTTLink) Write(ctx context.Context, f Frame) error {
	return l.pub.Publish(ctx, l.topic, []byte(hex.EncodeToString(f[:])), false)
}

// Close is a no-op; the MQTT client is owned by the caller.
func (l *MQTTLink) Close() error {
	return nil
}
