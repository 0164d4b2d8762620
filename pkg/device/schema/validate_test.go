package schema

import (
	"encoding/json"
	"testing"
)

func TestValidateCommand_ChangeOnly(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		payload map[string]any
		wantErr bool
	}{
		{"empty", map[string]any{}, false},
		{"red only", map[string]any{"r": float64(255)}, false},
		{"all", map[string]any{"r": float64(1), "g": float64(2), "b": float64(3), "a": float64(100)}, false},
		{"brightness above 100", map[string]any{"a": float64(101)}, true},
		{"channel above 255", map[string]any{"g": float64(256)}, true},
		{"negative channel", map[string]any{"b": float64(-1)}, true},
		{"fractional", map[string]any{"r": float64(1.5)}, true},
		{"wrong type", map[string]any{"r": "red"}, true},
		{"unknown property", map[string]any{"w": float64(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateCommand(CmdChangeOnly, tt.payload)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCommand() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCommand_ChangeAllRequiresEveryChannel(t *testing.T) {
	v := NewValidator()

	err := v.ValidateCommand(CmdChangeAll, map[string]any{"r": float64(1), "g": float64(2), "b": float64(3)})
	if err == nil {
		t.Error("expected validation error for missing brightness")
	}

	err = v.ValidateCommand(CmdChangeAll, map[string]any{"r": float64(1), "g": float64(2), "b": float64(3), "a": float64(0)})
	if err != nil {
		t.Errorf("expected valid payload, got: %v", err)
	}
}

func TestValidateCommand_UseAudio(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateCommand(CmdUseAudio, map[string]any{"mode": "BpmSync", "sensitivity": float64(80)}); err != nil {
		t.Errorf("expected valid payload, got: %v", err)
	}
	if err := v.ValidateCommand(CmdUseAudio, map[string]any{"mode": "Disco"}); err == nil {
		t.Error("expected validation error for invalid enum value")
	}
	if err := v.ValidateCommand(CmdUseAudio, map[string]any{"sensitivity": float64(200)}); err == nil {
		t.Error("expected validation error for out-of-range sensitivity")
	}
}

func TestValidateCommand_NoArguments(t *testing.T) {
	v := NewValidator()

	for _, cmd := range []string{CmdGet, CmdStopAudio, CmdDefaultAudio} {
		if err := v.ValidateCommand(cmd, nil); err != nil {
			t.Errorf("%s: nil payload should be valid, got: %v", cmd, err)
		}
		if err := v.ValidateCommand(cmd, map[string]any{"x": true}); err == nil {
			t.Errorf("%s: expected error for unexpected argument", cmd)
		}
	}
}

func TestValidateCommand_Unknown(t *testing.T) {
	v := NewValidator()
	if err := v.ValidateCommand("device_explode", nil); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestCommands_AllRegistered(t *testing.T) {
	want := []string{
		CmdInit, CmdGet, CmdToggle, CmdChangeOnly, CmdChangeAll,
		CmdSetWhite, CmdSetEffect, CmdUseAudio, CmdStopAudio, CmdDefaultAudio,
	}
	if got := len(Commands()); got != len(want) {
		t.Errorf("expected %d commands, got %d", len(want), got)
	}
	for _, name := range want {
		if _, ok := CommandSchema(name); !ok {
			t.Errorf("missing schema for %s", name)
		}
	}
}

func TestDecode(t *testing.T) {
	v := NewValidator()

	var args struct {
		Effect *uint8 `json:"effect"`
		Speed  *uint8 `json:"speed"`
	}
	if err := v.Decode(CmdSetEffect, json.RawMessage(`{"effect":135,"speed":40}`), &args); err != nil {
		t.Fatal(err)
	}
	if args.Effect == nil || *args.Effect != 135 || args.Speed == nil || *args.Speed != 40 {
		t.Errorf("unexpected decode result: %+v", args)
	}

	if err := v.Decode(CmdSetEffect, json.RawMessage(`{"speed":300}`), &args); err == nil {
		t.Error("expected validation error before decoding")
	}

	if err := v.Decode(CmdGet, nil, nil); err != nil {
		t.Errorf("empty arguments should be valid, got: %v", err)
	}
}

func TestValidate_EmptySchema(t *testing.T) {
	v := NewValidator()

	err := v.Validate(json.RawMessage(`{}`), map[string]any{
		"anything": "goes",
	})
	if err != nil {
		t.Errorf("empty schema should skip validation, got: %v", err)
	}
}

func TestValidate_CachesSchema(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateCommand(CmdToggle, map[string]any{"power": true}); err != nil {
		t.Fatal(err)
	}
	if err := v.ValidateCommand(CmdToggle, map[string]any{"power": false}); err != nil {
		t.Fatal(err)
	}

	v.mu.RLock()
	cacheSize := len(v.cache)
	v.mu.RUnlock()
	if cacheSize != 1 {
		t.Errorf("expected 1 cached schema, got %d", cacheSize)
	}
}
