package device

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/urmzd/tled/pkg/audio"
)

func newTestManager(sessions ...*fakeSession) (*Manager, *fakeConnector, *monitorFactory) {
	conn := &fakeConnector{sessions: sessions}
	mf := &monitorFactory{}
	return NewManager(conn, mf.New), conn, mf
}

func TestManager_OperationsBeforeInitialize(t *testing.T) {
	ctx := context.Background()
	m, _, mf := newTestManager()
	mode := audio.ModeBeatEffects

	checks := map[string]error{
		"power":    m.SetPower(ctx, true),
		"color":    m.ChangeColorAndBrightness(ctx, ptr(1), nil, nil, ptr(50)),
		"effect":   m.ChangeEffect(ctx, ptr(0x87), ptr(10)),
		"white":    m.SetWhite(ctx, 4000),
		"audio":    m.EnableAudioVisualization(ctx, &mode, ptr(50)),
		"snapshot": func() error { _, err := m.Snapshot(); return err }(),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrNotInitialized) {
			t.Errorf("%s: expected ErrNotInitialized, got %v", name, err)
		}
	}

	if m.Initialized() {
		t.Error("device slot should remain empty")
	}
	if m.AudioAttached() || len(mf.created) != 0 {
		t.Error("no audio monitor may be created without a device")
	}
}

func TestManager_InitializeFailureFirstAttempt(t *testing.T) {
	m, conn, _ := newTestManager()
	conn.fail = true

	err := m.Initialize(context.Background(), false)
	if !errors.Is(err, ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
	if !errors.Is(err, errLink) {
		t.Errorf("expected underlying cause to be kept, got %v", err)
	}
	if m.Initialized() {
		t.Error("device slot should remain empty after a failed first attempt")
	}
}

func TestManager_ForcedInitializeFailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	first := newFakeSession("first")
	m, conn, _ := newTestManager(first)

	if err := m.Initialize(ctx, false); err != nil {
		t.Fatal(err)
	}

	conn.fail = true
	if err := m.Initialize(ctx, true); !errors.Is(err, ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}

	snap, err := m.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if snap.DeviceTypeName != "first" {
		t.Errorf("session was clobbered: %q", snap.DeviceTypeName)
	}
}

func TestManager_InitializeNotForcedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	first := newFakeSession("first")
	m, conn, _ := newTestManager(first, newFakeSession("second"))

	if err := m.Initialize(ctx, false); err != nil {
		t.Fatal(err)
	}
	if err := m.ChangeColorAndBrightness(ctx, ptr(200), nil, nil, nil); err != nil {
		t.Fatal(err)
	}
	before, _ := m.Snapshot()

	if err := m.Initialize(ctx, false); err != nil {
		t.Fatal(err)
	}
	after, _ := m.Snapshot()

	if conn.calls != 1 {
		t.Errorf("connector called %d times, want 1", conn.calls)
	}
	if before.DeviceTypeName != after.DeviceTypeName || before.RGBColor != after.RGBColor {
		t.Errorf("snapshot changed: %+v -> %+v", before, after)
	}
}

func TestManager_ForcedInitializeReplacesSession(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(newFakeSession("first"), newFakeSession("second"))

	_ = m.Initialize(ctx, false)
	if err := m.Initialize(ctx, true); err != nil {
		t.Fatal(err)
	}

	snap, _ := m.Snapshot()
	if snap.DeviceTypeName != "second" {
		t.Errorf("device type = %q, want second", snap.DeviceTypeName)
	}
}

func TestManager_ChangeColorKeepsUnsetChannels(t *testing.T) {
	ctx := context.Background()
	s := newFakeSession("elk")
	m, _, _ := newTestManager(s)
	_ = m.Initialize(ctx, false)

	if err := m.ChangeColorAndBrightness(ctx, nil, ptr(99), nil, nil); err != nil {
		t.Fatal(err)
	}

	if got := s.State().RGB; got != [3]uint8{10, 99, 30} {
		t.Errorf("rgb = %v, want [10 99 30]", got)
	}
	if s.colorCalls != 1 {
		t.Errorf("color set %d times, want one combined call", s.colorCalls)
	}
	if s.brightCalls != 0 {
		t.Error("brightness should not be touched when a is absent")
	}
}

func TestManager_ChangeBrightnessConvertsToNative(t *testing.T) {
	ctx := context.Background()
	s := newFakeSession("elk")
	m, _, _ := newTestManager(s)
	_ = m.Initialize(ctx, false)

	if err := m.ChangeColorAndBrightness(ctx, nil, nil, nil, ptr(50)); err != nil {
		t.Fatal(err)
	}
	if got := s.State().Brightness; got != 127 {
		t.Errorf("native brightness = %d, want 127", got)
	}
	if s.colorCalls != 0 {
		t.Error("color should not be touched when r/g/b are absent")
	}
}

func TestManager_ChangeNothing(t *testing.T) {
	ctx := context.Background()
	s := newFakeSession("elk")
	m, _, _ := newTestManager(s)
	_ = m.Initialize(ctx, false)

	if err := m.ChangeColorAndBrightness(ctx, nil, nil, nil, nil); err != nil {
		t.Fatal(err)
	}
	if s.colorCalls+s.brightCalls != 0 {
		t.Error("no sub-operation should be attempted")
	}
}

func TestManager_PartialFailure(t *testing.T) {
	tests := []struct {
		name           string
		failColor      bool
		failBrightness bool
		wantMsg        string
	}{
		{
			name:      "color fails",
			failColor: true,
			wantMsg:   "Failed to change device's color.",
		},
		{
			name:           "brightness fails",
			failBrightness: true,
			wantMsg:        "Failed to change device's brightness.",
		},
		{
			name:           "both fail",
			failColor:      true,
			failBrightness: true,
			wantMsg:        "Failed to change device's color and Failed to change device's brightness.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := newFakeSession("elk")
			s.failColor = tt.failColor
			s.failBrightness = tt.failBrightness
			m, _, _ := newTestManager(s)
			_ = m.Initialize(ctx, false)

			err := m.ChangeColorAndBrightness(ctx, ptr(1), ptr(2), ptr(3), ptr(50))

			var attrErr *AttributeSetError
			if !errors.As(err, &attrErr) {
				t.Fatalf("expected AttributeSetError, got %v", err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
			if !errors.Is(err, errLink) {
				t.Error("causes should be reachable through errors.Is")
			}

			// Both groups are always attempted.
			if s.colorCalls != 1 || s.brightCalls != 1 {
				t.Errorf("calls color=%d brightness=%d, want 1 each", s.colorCalls, s.brightCalls)
			}

			st := s.State()
			if !tt.failColor && st.RGB != [3]uint8{1, 2, 3} {
				t.Errorf("successful color not applied: %v", st.RGB)
			}
			if !tt.failBrightness && st.Brightness != 127 {
				t.Errorf("successful brightness not applied: %d", st.Brightness)
			}
		})
	}
}

func TestManager_ChangeEffectPartialFailure(t *testing.T) {
	ctx := context.Background()
	s := newFakeSession("elk")
	s.failEffect = true
	m, _, _ := newTestManager(s)
	_ = m.Initialize(ctx, false)

	err := m.ChangeEffect(ctx, ptr(0x87), ptr(100))
	if err == nil || err.Error() != "Failed to modify device's effect." {
		t.Fatalf("unexpected error: %v", err)
	}
	if sp := s.State().EffectSpeed; sp == nil || *sp != 255 {
		t.Errorf("effect speed should still be applied, got %v", sp)
	}

	s.failEffect = false
	s.failSpeed = true
	err = m.ChangeEffect(ctx, ptr(0x88), ptr(10))
	if err == nil || err.Error() != "Failed to modify device's effect speed." {
		t.Fatalf("unexpected error: %v", err)
	}
	if e := s.State().Effect; e == nil || *e != 0x88 {
		t.Errorf("effect should still be applied, got %v", e)
	}
}

func TestManager_ManagerUsableAfterFailure(t *testing.T) {
	ctx := context.Background()
	s := newFakeSession("elk")
	s.failColor = true
	m, _, _ := newTestManager(s)
	_ = m.Initialize(ctx, false)

	_ = m.ChangeColorAndBrightness(ctx, ptr(1), nil, nil, nil)
	s.failColor = false
	if err := m.ChangeColorAndBrightness(ctx, ptr(1), nil, nil, nil); err != nil {
		t.Fatalf("manager should be usable after failure: %v", err)
	}
}

func TestManager_SetPower(t *testing.T) {
	ctx := context.Background()
	s := newFakeSession("elk")
	m, _, _ := newTestManager(s)
	_ = m.Initialize(ctx, false)

	if err := m.SetPower(ctx, true); err != nil {
		t.Fatal(err)
	}
	if !s.State().IsOn {
		t.Error("device should be on")
	}
	if err := m.SetPower(ctx, false); err != nil {
		t.Fatal(err)
	}
	if s.State().IsOn {
		t.Error("device should be off")
	}
}

func TestManager_SetWhiteUnsupported(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(newFakeSession("elk"))
	_ = m.Initialize(ctx, false)

	if err := m.SetWhite(ctx, 4000); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestManager_EnableAudio(t *testing.T) {
	ctx := context.Background()
	s := newFakeSession("elk")
	m, _, mf := newTestManager(s)
	_ = m.Initialize(ctx, false)

	mode := audio.ModeBeatEffects
	if err := m.EnableAudioVisualization(ctx, &mode, ptr(100)); err != nil {
		t.Fatal(err)
	}

	if len(mf.created) != 1 {
		t.Fatalf("monitors created = %d, want 1", len(mf.created))
	}
	mon := mf.created[0]
	if mon.cfg.Mode != audio.ModeBeatEffects || mon.cfg.Sensitivity != 255 {
		t.Errorf("config not applied: %+v", mon.cfg)
	}
	if mon.target != Session(s) || mon.starts != 1 {
		t.Error("monitor should be started against the current session")
	}

	// A second call reuses the monitor and only overwrites supplied fields.
	if err := m.EnableAudioVisualization(ctx, nil, ptr(0)); err != nil {
		t.Fatal(err)
	}
	if len(mf.created) != 1 {
		t.Error("monitor should be reused")
	}
	if mon.cfg.Mode != audio.ModeBeatEffects || mon.cfg.Sensitivity != 0 {
		t.Errorf("unexpected config: %+v", mon.cfg)
	}
}

func TestManager_EnableStopEnableCreatesFreshMonitor(t *testing.T) {
	ctx := context.Background()
	m, _, mf := newTestManager(newFakeSession("elk"))
	_ = m.Initialize(ctx, false)

	mode := audio.ModeBeatEffects
	if err := m.EnableAudioVisualization(ctx, &mode, ptr(50)); err != nil {
		t.Fatal(err)
	}
	m.StopAudioVisualization()

	if m.AudioAttached() {
		t.Fatal("audio slot should be empty after stop")
	}
	if !mf.created[0].stopped {
		t.Error("monitor should have been stopped")
	}

	if err := m.EnableAudioVisualization(ctx, nil, nil); err != nil {
		t.Fatal(err)
	}
	if len(mf.created) != 2 {
		t.Fatalf("monitors created = %d, want 2", len(mf.created))
	}
	cfg := mf.created[1].cfg
	cfg.Active = false
	if cfg != audio.DefaultConfig() {
		t.Errorf("fresh monitor should have default config, got %+v", cfg)
	}
}

func TestManager_StopAudioIdempotent(t *testing.T) {
	m, _, _ := newTestManager()
	m.StopAudioVisualization()
	m.StopAudioVisualization()
}

func TestManager_EnableAudioFactoryFailure(t *testing.T) {
	ctx := context.Background()
	m, _, mf := newTestManager(newFakeSession("elk"))
	mf.fail = true
	_ = m.Initialize(ctx, false)

	err := m.EnableAudioVisualization(ctx, nil, nil)
	if !errors.Is(err, ErrAudioInit) {
		t.Fatalf("expected ErrAudioInit, got %v", err)
	}
	if m.AudioAttached() {
		t.Error("audio slot should stay empty")
	}
}

func TestManager_ForcedInitializeRestartsMonitor(t *testing.T) {
	ctx := context.Background()
	second := newFakeSession("second")
	m, _, mf := newTestManager(newFakeSession("first"), second)
	_ = m.Initialize(ctx, false)
	_ = m.EnableAudioVisualization(ctx, nil, nil)

	if err := m.Initialize(ctx, true); err != nil {
		t.Fatal(err)
	}

	mon := mf.created[0]
	if mon.target != Session(second) {
		t.Error("monitor should target the new session")
	}
	if mon.starts != 2 {
		t.Errorf("starts = %d, want 2", mon.starts)
	}
}

func TestManager_DefaultAudioConfiguration(t *testing.T) {
	ctx := context.Background()
	m, _, mf := newTestManager(newFakeSession("elk"))

	def, err := m.DefaultAudioConfiguration()
	if err != nil {
		t.Fatal(err)
	}
	if def.Sensitivity != 49 || def.Mode != audio.ModeFrequencyColor || def.Active {
		t.Errorf("unexpected defaults: %+v", def)
	}
	if m.AudioAttached() {
		t.Error("transient monitor must not be attached")
	}

	_ = m.Initialize(ctx, false)
	mode := audio.ModeSpectralFlow
	_ = m.EnableAudioVisualization(ctx, &mode, nil)

	got, err := m.DefaultAudioConfiguration()
	if err != nil {
		t.Fatal(err)
	}
	if got.Mode != audio.ModeSpectralFlow || !got.Active {
		t.Errorf("should project attached monitor, got %+v", got)
	}
	if len(mf.created) != 2 {
		t.Errorf("monitors created = %d, want 2 (one transient)", len(mf.created))
	}

	m.StopAudioVisualization()
	mf.fail = true
	if _, err := m.DefaultAudioConfiguration(); !errors.Is(err, ErrAudioInit) {
		t.Errorf("expected ErrAudioInit, got %v", err)
	}
}

func TestAttributeSetError_Format(t *testing.T) {
	var at attempts
	at.record(failEffect, nil)
	if at.err() != nil {
		t.Fatal("no failures should yield nil")
	}
	at.record(failEffect, errLink)
	at.record(failEffectSpeed, errLink)
	msg := at.err().Error()
	if !strings.HasSuffix(msg, ".") || strings.Count(msg, " and ") != 1 {
		t.Errorf("message = %q", msg)
	}
}
