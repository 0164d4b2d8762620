package elk

import (
	"context"
	"sync"
)

// Link delivers frames to the controller.
type Link interface {
	Write(ctx context.Context, f Frame) error
	Close() error
}

// SimLink is an in-memory Link that records every frame written to it.
// It is used when no hardware is configured and in tests.
type SimLink struct {
	mu     sync.Mutex
	frames []Frame
	fail   error
	closed bool
}

// NewSimLink creates an empty simulator link.
func NewSimLink() *SimLink {
	return &SimLink{}
}

func (l *SimLink) Write(ctx context.Context, f Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrLinkClosed
	}
	if l.fail != nil {
		return l.fail
	}
	l.frames = append(l.frames, f)
	return nil
}

func (l *SimLink) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// Frames returns a copy of the frames written so far.
func (l *SimLink) Frames() []Frame {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Frame(nil), l.frames...)
}

// FailWith makes subsequent writes return err. A nil err clears the failure.
func (l *SimLink) FailWith(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fail = err
}
