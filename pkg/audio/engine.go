package audio

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Engine is the default Monitor. It polls a LevelSource on a ticker and
// writes the rendered output to the target. Writes are skipped when the
// value did not change since the last tick.
type Engine struct {
	source  LevelSource
	effects []uint8

	mu     sync.Mutex
	cfg    Config
	cancel context.CancelFunc
	done   chan struct{}
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEffects sets the effect ids the high-frequency trigger cycles through.
// Without effects the trigger has nothing to switch to and is ignored.
func WithEffects(ids ...uint8) EngineOption {
	return func(e *Engine) {
		e.effects = append([]uint8(nil), ids...)
	}
}

// NewEngine creates an engine with the default configuration.
func NewEngine(source LevelSource, opts ...EngineOption) (*Engine, error) {
	if source == nil {
		return nil, ErrNoSource
	}
	e := &Engine{
		source: source,
		cfg:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewFactory returns a Factory producing engines over source.
func NewFactory(source LevelSource, opts ...EngineOption) Factory {
	return func() (Monitor, error) {
		return NewEngine(source, opts...)
	}
}

// Config returns a copy of the current configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// SetConfig replaces the configuration. The Active flag is owned by the
// engine and is not taken from cfg.
func (e *Engine) SetConfig(cfg Config) {
	if cfg.UpdateIntervalMs < minUpdateIntervalMs {
		cfg.UpdateIntervalMs = minUpdateIntervalMs
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	cfg.Active = e.cfg.Active
	e.cfg = cfg
}

// Start launches the monitoring loop against target and returns at once.
func (e *Engine) Start(target Target) {
	e.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	e.mu.Lock()
	e.cancel = cancel
	e.done = done
	e.cfg.Active = true
	interval := time.Duration(e.cfg.UpdateIntervalMs) * time.Millisecond
	e.mu.Unlock()

	go e.run(ctx, target, interval, done)
}

// Stop cancels the loop and waits for it to exit. Safe to call when the
// engine is not running.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel, done := e.cancel, e.done
	e.cancel, e.done = nil, nil
	e.cfg.Active = false
	e.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (e *Engine) run(ctx context.Context, target Target, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Debug().Dur("interval", interval).Msg("Audio monitor started")

	r := newRenderer(e.effects)
	var last output
	prev := time.Now()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Audio monitor stopped")
			return
		case now := <-ticker.C:
			lv, err := e.source.Levels(ctx)
			if err != nil {
				log.Debug().Err(err).Msg("Failed to read audio levels")
				continue
			}

			out := r.step(e.Config(), lv, now.Sub(prev))
			prev = now
			e.apply(ctx, target, out, &last)
		}
	}
}

// apply writes the changed parts of out and remembers what was written.
func (e *Engine) apply(ctx context.Context, target Target, out output, last *output) {
	if out.color != nil && (last.color == nil || *last.color != *out.color) {
		c := *out.color
		if err := target.SetColor(ctx, c[0], c[1], c[2]); err != nil {
			log.Debug().Err(err).Msg("Audio monitor failed to set color")
		} else {
			last.color = &c
		}
	}

	if out.brightness != nil && (last.brightness == nil || *last.brightness != *out.brightness) {
		b := *out.brightness
		if err := target.SetBrightness(ctx, b); err != nil {
			log.Debug().Err(err).Msg("Audio monitor failed to set brightness")
		} else {
			last.brightness = &b
		}
	}

	if out.effect != nil {
		if err := target.SetEffect(ctx, *out.effect); err != nil {
			log.Debug().Err(err).Msg("Audio monitor failed to set effect")
		}
	}
}
