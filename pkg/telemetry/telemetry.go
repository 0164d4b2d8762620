// Package telemetry writes device state and command outcomes to InfluxDB.
// Writes are batched and non-blocking; failures are logged and dropped.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/tled/pkg/command"
	"github.com/urmzd/tled/pkg/device"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultBatchSize      = 50
	defaultFlushMs        = 5000
)

// ErrConnectionFailed indicates the InfluxDB server could not be reached.
var ErrConnectionFailed = errors.New("influxdb connection failed")

// Config describes the InfluxDB target.
type Config struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

type pointWriter interface {
	WritePoint(p *write.Point)
	Flush()
}

// Recorder turns command events into points.
type Recorder struct {
	client influxdb2.Client
	writer pointWriter
}

// Connect pings the server and starts a batching writer.
func Connect(cfg Config) (*Recorder, error) {
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(defaultBatchSize).
			SetFlushInterval(defaultFlushMs))

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()

	healthy, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	writeAPI := client.WriteAPI(cfg.Org, cfg.Bucket)
	go func() {
		for err := range writeAPI.Errors() {
			log.Warn().Err(err).Msg("InfluxDB write failed")
		}
	}()

	log.Info().Str("url", cfg.URL).Str("bucket", cfg.Bucket).Msg("Telemetry enabled")

	return &Recorder{client: client, writer: writeAPI}, nil
}

// Handle is a command.Listener.
func (r *Recorder) Handle(ev command.Event) {
	r.writer.WritePoint(CommandPoint(ev))
	if ev.Snapshot != nil {
		r.writer.WritePoint(StatePoint(*ev.Snapshot, ev.At))
	}
}

// Close flushes pending points and closes the client.
func (r *Recorder) Close() {
	if r.client == nil {
		return
	}
	r.writer.Flush()
	r.client.Close()
}

// CommandPoint records the outcome of one command.
func CommandPoint(ev command.Event) *write.Point {
	fields := map[string]interface{}{
		"ok": ev.OK,
	}
	if ev.Message != "" {
		fields["message"] = ev.Message
	}

	return write.NewPoint(
		"device_command",
		map[string]string{"command": ev.Command},
		fields,
		ev.At,
	)
}

// StatePoint records a projection of the device.
func StatePoint(s device.Snapshot, at time.Time) *write.Point {
	fields := map[string]interface{}{
		"on":         s.IsOn,
		"red":        int64(s.RGBColor[0]),
		"green":      int64(s.RGBColor[1]),
		"blue":       int64(s.RGBColor[2]),
		"brightness": int64(s.Brightness),
	}
	if s.Effect != nil {
		fields["effect"] = int64(*s.Effect)
	}
	if s.EffectSpeed != nil {
		fields["effect_speed"] = int64(*s.EffectSpeed)
	}
	if s.ColorTempKelvin != nil {
		fields["color_temp_kelvin"] = int64(*s.ColorTempKelvin)
	}
	if s.Audio != nil {
		fields["audio_active"] = s.Audio.Active
		fields["audio_sensitivity"] = int64(s.Audio.Sensitivity)
	}

	tags := map[string]string{"device_type": s.DeviceTypeName}
	if s.Audio != nil {
		tags["audio_mode"] = s.Audio.Mode.String()
	}

	return write.NewPoint("device_state", tags, fields, at)
}
