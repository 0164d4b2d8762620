package device

import (
	"context"
	"errors"
	"sync"

	"github.com/urmzd/tled/pkg/audio"
)

var errLink = errors.New("link down")

type fakeSession struct {
	mu    sync.Mutex
	state State

	failColor      bool
	failBrightness bool
	failEffect     bool
	failSpeed      bool
	colorCalls     int
	brightCalls    int
}

func newFakeSession(deviceType string) *fakeSession {
	return &fakeSession{state: State{DeviceType: deviceType, RGB: [3]uint8{10, 20, 30}, Brightness: 255}}
}

func (s *fakeSession) SetColor(_ context.Context, r, g, b uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colorCalls++
	if s.failColor {
		return errLink
	}
	s.state.RGB = [3]uint8{r, g, b}
	return nil
}

func (s *fakeSession) SetBrightness(_ context.Context, native uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brightCalls++
	if s.failBrightness {
		return errLink
	}
	s.state.Brightness = native
	return nil
}

func (s *fakeSession) SetEffect(_ context.Context, id uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failEffect {
		return errLink
	}
	s.state.Effect = &id
	return nil
}

func (s *fakeSession) SetEffectSpeed(_ context.Context, native uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSpeed {
		return errLink
	}
	s.state.EffectSpeed = &native
	return nil
}

func (s *fakeSession) PowerOn(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsOn = true
	return nil
}

func (s *fakeSession) PowerOff(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsOn = false
	return nil
}

func (s *fakeSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// fakeConnector hands out the queued sessions in order, or fails.
type fakeConnector struct {
	sessions []*fakeSession
	fail     bool
	calls    int
}

func (c *fakeConnector) Connect(context.Context) (Session, error) {
	c.calls++
	if c.fail || len(c.sessions) == 0 {
		return nil, errLink
	}
	s := c.sessions[0]
	c.sessions = c.sessions[1:]
	return s, nil
}

type fakeMonitor struct {
	id      int
	cfg     audio.Config
	target  audio.Target
	starts  int
	stopped bool
}

func (m *fakeMonitor) Config() audio.Config { return m.cfg }

func (m *fakeMonitor) SetConfig(cfg audio.Config) { m.cfg = cfg }

func (m *fakeMonitor) Start(target audio.Target) {
	m.target = target
	m.starts++
	m.cfg.Active = true
}

func (m *fakeMonitor) Stop() {
	m.stopped = true
	m.cfg.Active = false
}

// monitorFactory records every monitor it creates.
type monitorFactory struct {
	created []*fakeMonitor
	fail    bool
}

func (f *monitorFactory) New() (audio.Monitor, error) {
	if f.fail {
		return nil, errors.New("no audio backend")
	}
	m := &fakeMonitor{id: len(f.created) + 1, cfg: audio.DefaultConfig()}
	f.created = append(f.created, m)
	return m, nil
}

func ptr(v uint8) *uint8 { return &v }
