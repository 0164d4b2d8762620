package elk

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/tled/pkg/device"
)

// Opener opens the link to the controller.
type Opener func(ctx context.Context) (Link, error)

// Connector implements device.Connector. It opens the link on first use and
// reuses it for later sessions. A link that failed a write is reopened on the
// next Connect, which is how a forced re-initialize recovers a dropped
// bridge. The link lives until Close.
type Connector struct {
	open Opener

	mu     sync.Mutex
	link   *trackedLink
	closed bool
}

var _ device.Connector = (*Connector)(nil)

// NewConnector creates a connector using open to reach the controller.
func NewConnector(open Opener) *Connector {
	return &Connector{open: open}
}

// StaticOpener always returns link.
func StaticOpener(link Link) Opener {
	return func(context.Context) (Link, error) { return link, nil }
}

// Connect returns a fresh session over a healthy link.
func (c *Connector) Connect(ctx context.Context) (device.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrLinkClosed
	}

	if c.link != nil && c.link.failed() {
		log.Warn().Err(c.link.lastErr()).Msg("Link failed, reopening")
		if err := c.link.Close(); err != nil {
			log.Debug().Err(err).Msg("Closing failed link")
		}
		c.link = nil
	}

	if c.link == nil {
		l, err := c.open(ctx)
		if err != nil {
			return nil, fmt.Errorf("open link: %w", err)
		}
		if l == nil {
			return nil, device.ErrNoLink
		}
		c.link = &trackedLink{Link: l}
	}

	return NewSession(c.link), nil
}

// Close closes the link. Later calls to Connect fail.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.link == nil {
		return nil
	}
	err := c.link.Close()
	c.link = nil
	return err
}

// trackedLink remembers the last write error so the connector can tell a
// dead link from a healthy one.
type trackedLink struct {
	Link

	mu  sync.Mutex
	err error
}

func (t *trackedLink) Write(ctx context.Context, f Frame) error {
	err := t.Link.Write(ctx, f)
	// Caller cancellation says nothing about the link.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	t.mu.Lock()
	t.err = err
	t.mu.Unlock()
	return err
}

func (t *trackedLink) failed() bool {
	return t.lastErr() != nil
}

func (t *trackedLink) lastErr() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
