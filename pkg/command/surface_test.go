package command

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/urmzd/tled/pkg/audio"
	"github.com/urmzd/tled/pkg/device"
	"github.com/urmzd/tled/pkg/device/schema"
)

// stubSession is a device.Session that flags overlapping calls.
type stubSession struct {
	mu    sync.Mutex
	state device.State

	inFlight   atomic.Int32
	overlapped atomic.Bool
	failColor  bool
	delay      time.Duration
}

func (s *stubSession) enter() func() {
	if s.inFlight.Add(1) > 1 {
		s.overlapped.Store(true)
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return func() { s.inFlight.Add(-1) }
}

func (s *stubSession) SetColor(_ context.Context, r, g, b uint8) error {
	defer s.enter()()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failColor {
		return errors.New("write failed")
	}
	s.state.RGB = [3]uint8{r, g, b}
	return nil
}

func (s *stubSession) SetBrightness(_ context.Context, v uint8) error {
	defer s.enter()()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Brightness = v
	return nil
}

func (s *stubSession) SetEffect(_ context.Context, id uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Effect = &id
	return nil
}

func (s *stubSession) SetEffectSpeed(_ context.Context, v uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.EffectSpeed = &v
	return nil
}

func (s *stubSession) PowerOn(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsOn = true
	return nil
}

func (s *stubSession) PowerOff(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsOn = false
	return nil
}

func (s *stubSession) State() device.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

type stubConnector struct {
	session *stubSession
	fail    bool
}

func (c *stubConnector) Connect(context.Context) (device.Session, error) {
	if c.fail {
		return nil, errors.New("adapter not found")
	}
	return c.session, nil
}

type stubMonitor struct {
	cfg audio.Config
}

func (m *stubMonitor) Config() audio.Config { return m.cfg }

func (m *stubMonitor) SetConfig(cfg audio.Config) { m.cfg = cfg }

func (m *stubMonitor) Start(audio.Target) { m.cfg.Active = true }

func (m *stubMonitor) Stop() { m.cfg.Active = false }

func newStubMonitor() (audio.Monitor, error) {
	return &stubMonitor{cfg: audio.DefaultConfig()}, nil
}

func newSurface(t *testing.T) (*Surface, *stubSession, *stubConnector) {
	t.Helper()
	s := &stubSession{state: device.State{DeviceType: "ELK-BLEDOM", Brightness: 255}}
	conn := &stubConnector{session: s}
	return New(device.NewManager(conn, newStubMonitor)), s, conn
}

func TestSurface_GetBeforeInit(t *testing.T) {
	sf, _, _ := newSurface(t)
	if snap := sf.Get(); snap != nil {
		t.Errorf("expected nil projection, got %+v", snap)
	}
}

func TestSurface_CommandsBeforeInit(t *testing.T) {
	ctx := context.Background()
	sf, _, _ := newSurface(t)

	_, err := sf.ChangeOnly(ctx, ColorArgs{})
	var cmdErr *Error
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if cmdErr.Message != "Device not initialized." {
		t.Errorf("message = %q", cmdErr.Message)
	}
	if !errors.Is(err, device.ErrNotInitialized) {
		t.Error("cause should be ErrNotInitialized")
	}

	if _, err := sf.Toggle(ctx, true); err == nil || err.Error() != "Device not initialized." {
		t.Errorf("toggle: unexpected error %v", err)
	}
	if snap := sf.StopAudio(); snap != nil {
		t.Error("stop audio should return no projection before init")
	}
}

func TestSurface_InitFailure(t *testing.T) {
	sf, _, conn := newSurface(t)
	conn.fail = true

	_, err := sf.Init(context.Background(), false)
	if err == nil || err.Error() != "Initialization failed." {
		t.Fatalf("unexpected error: %v", err)
	}
	if !errors.Is(err, device.ErrConnection) {
		t.Error("cause should be ErrConnection")
	}
}

func TestSurface_ChangeFlow(t *testing.T) {
	ctx := context.Background()
	sf, _, _ := newSurface(t)

	snap, err := sf.Init(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if snap.DeviceTypeName != "ELK-BLEDOM" || snap.Brightness != 100 {
		t.Errorf("unexpected projection: %+v", snap)
	}

	snap, err = sf.ChangeAll(ctx, 255, 128, 0, 50)
	if err != nil {
		t.Fatal(err)
	}
	if snap.RGBColor != [3]uint8{255, 128, 0} || snap.Brightness != 49 {
		t.Errorf("unexpected projection: %+v", snap)
	}

	snap, err = sf.Toggle(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if !snap.IsOn {
		t.Error("device should be on")
	}

	effect, speed := uint8(0x87), uint8(100)
	snap, err = sf.SetEffect(ctx, EffectArgs{Effect: &effect, Speed: &speed})
	if err != nil {
		t.Fatal(err)
	}
	if snap.Effect == nil || *snap.Effect != 0x87 || snap.EffectSpeed == nil || *snap.EffectSpeed != 100 {
		t.Errorf("unexpected effect projection: %+v", snap)
	}
}

func TestSurface_PartialFailureMessage(t *testing.T) {
	ctx := context.Background()
	sf, s, _ := newSurface(t)
	_, _ = sf.Init(ctx, false)
	s.failColor = true

	var events []Event
	sf.Subscribe(func(ev Event) { events = append(events, ev) })

	red, half := uint8(255), uint8(50)
	_, err := sf.ChangeOnly(ctx, ColorArgs{R: &red, A: &half})
	if err == nil || err.Error() != "Failed to change device's color." {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.OK || ev.Command != schema.CmdChangeOnly || ev.Message != err.Error() {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.Snapshot == nil || ev.Snapshot.Brightness != 49 {
		t.Error("event should carry the partially applied state")
	}
}

func TestSurface_SetWhiteUnsupported(t *testing.T) {
	ctx := context.Background()
	sf, _, _ := newSurface(t)
	_, _ = sf.Init(ctx, false)

	_, err := sf.SetWhite(ctx, 4000)
	if !errors.Is(err, device.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported cause, got %v", err)
	}
}

func TestSurface_Audio(t *testing.T) {
	ctx := context.Background()
	sf, _, _ := newSurface(t)

	def, err := sf.DefaultAudioConfiguration()
	if err != nil {
		t.Fatal(err)
	}
	if def.Active || def.Mode != audio.ModeFrequencyColor {
		t.Errorf("unexpected defaults: %+v", def)
	}

	_, _ = sf.Init(ctx, false)
	mode, sens := audio.ModeBpmSync, uint8(100)
	snap, err := sf.UseAudio(ctx, AudioArgs{Mode: &mode, Sensitivity: &sens})
	if err != nil {
		t.Fatal(err)
	}
	if snap.Audio == nil || snap.Audio.Mode != audio.ModeBpmSync || snap.Audio.Sensitivity != 100 || !snap.Audio.Active {
		t.Errorf("unexpected audio projection: %+v", snap.Audio)
	}

	snap = sf.StopAudio()
	if snap == nil || snap.Audio != nil {
		t.Errorf("audio should be detached, got %+v", snap)
	}
}

func TestSurface_ListenerRunsOutsideLock(t *testing.T) {
	ctx := context.Background()
	sf, _, _ := newSurface(t)

	done := make(chan *device.Snapshot, 1)
	sf.Subscribe(func(Event) {
		// Would deadlock if the lock were still held.
		done <- sf.Get()
	})

	if _, err := sf.Init(ctx, false); err != nil {
		t.Fatal(err)
	}

	select {
	case snap := <-done:
		if snap == nil {
			t.Error("listener should observe the initialized device")
		}
	case <-time.After(time.Second):
		t.Fatal("listener did not run")
	}
}

func TestSurface_ConcurrentCommandsDoNotInterleave(t *testing.T) {
	ctx := context.Background()
	sf, s, _ := newSurface(t)
	_, _ = sf.Init(ctx, false)
	s.delay = time.Millisecond

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := sf.ChangeAll(ctx, 10, 20, 30, 100)
			if err != nil {
				errs <- err
				return
			}
			if snap.RGBColor != [3]uint8{10, 20, 30} || snap.Brightness != 100 {
				errs <- errors.New("inconsistent projection")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	if s.overlapped.Load() {
		t.Error("manager operations overlapped")
	}
}
