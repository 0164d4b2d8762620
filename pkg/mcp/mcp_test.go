package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/urmzd/tled/pkg/audio"
	"github.com/urmzd/tled/pkg/command"
	"github.com/urmzd/tled/pkg/db"
	"github.com/urmzd/tled/pkg/device"
	"github.com/urmzd/tled/pkg/device/schema"
	"github.com/urmzd/tled/pkg/elk"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := db.OpenAndMigrate(context.Background(), filepath.Join(t.TempDir(), "tled.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })

	manager := device.NewManager(
		elk.NewConnector(elk.StaticOpener(elk.NewSimLink())),
		audio.NewFactory(audio.SilentSource{}),
	)
	surface := command.New(manager, command.AuditListener(store.Events()))
	t.Cleanup(func() { surface.StopAudio() })

	return NewServer(command.NewDispatcher(surface, schema.NewValidator()), store.Events())
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()

	var req mcp.CallToolRequest
	req.Params.Arguments = args

	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content %T", res.Content[0])
	}
	return text.Text, res.IsError
}

func TestHandleCommand(t *testing.T) {
	s := newTestServer(t)

	text, isErr := call(t, s.handleCommand(schema.CmdToggle), map[string]any{"power": true})
	if !isErr || text != "Device not initialized." {
		t.Errorf("toggle before init: %q (error=%v)", text, isErr)
	}

	text, isErr = call(t, s.handleCommand(schema.CmdGet), nil)
	if isErr {
		t.Fatal(text)
	}
	var out DeviceOutput
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatal(err)
	}
	if out.Device != nil {
		t.Errorf("expected null device, got %+v", out.Device)
	}

	if text, isErr = call(t, s.handleCommand(schema.CmdInit), nil); isErr {
		t.Fatal(text)
	}

	// Numbers arrive as float64 from JSON-RPC.
	text, isErr = call(t, s.handleCommand(schema.CmdChangeAll), map[string]any{
		"r": float64(0), "g": float64(255), "b": float64(0), "a": float64(100),
	})
	if isErr {
		t.Fatal(text)
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatal(err)
	}
	if out.Device.RGBColor != [3]uint8{0, 255, 0} || out.Device.Brightness != 100 {
		t.Errorf("unexpected projection: %+v", out.Device)
	}

	text, isErr = call(t, s.handleCommand(schema.CmdChangeOnly), map[string]any{"a": float64(12.5)})
	if !isErr {
		t.Errorf("fractional brightness should be rejected, got %s", text)
	}
}

func TestHandleCommand_Audio(t *testing.T) {
	s := newTestServer(t)

	text, isErr := call(t, s.handleCommand(schema.CmdDefaultAudio), nil)
	if isErr {
		t.Fatal(text)
	}
	var cfg AudioConfigOutput
	if err := json.Unmarshal([]byte(text), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Audio == nil || cfg.Audio.Active {
		t.Errorf("unexpected defaults: %+v", cfg.Audio)
	}

	call(t, s.handleCommand(schema.CmdInit), map[string]any{"force": true})
	text, isErr = call(t, s.handleCommand(schema.CmdUseAudio), map[string]any{"mode": "BeatEffects"})
	if isErr {
		t.Fatal(text)
	}
	var out DeviceOutput
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatal(err)
	}
	if out.Device.Audio == nil || out.Device.Audio.Mode != audio.ModeBeatEffects {
		t.Errorf("unexpected audio projection: %+v", out.Device.Audio)
	}
}

func TestHandleListTools(t *testing.T) {
	s := newTestServer(t)

	text, isErr := call(t, s.handleListEffects, nil)
	var effects ListEffectsOutput
	if isErr || json.Unmarshal([]byte(text), &effects) != nil || effects.Count != len(elk.Effects()) {
		t.Errorf("unexpected effects: %s", text)
	}

	call(t, s.handleCommand(schema.CmdInit), nil)
	call(t, s.handleCommand(schema.CmdToggle), map[string]any{"power": true})

	text, isErr = call(t, s.handleListEvents, map[string]any{"command": schema.CmdToggle})
	var events ListEventsOutput
	if isErr || json.Unmarshal([]byte(text), &events) != nil {
		t.Fatalf("unexpected events: %s", text)
	}
	if events.Count != 1 || events.Events[0].Command != schema.CmdToggle {
		t.Errorf("unexpected events: %+v", events)
	}

	text, _ = call(t, s.handleGetHealth, nil)
	var health GetHealthOutput
	if err := json.Unmarshal([]byte(text), &health); err != nil || health.Device != "initialized" {
		t.Errorf("unexpected health: %s", text)
	}
}
