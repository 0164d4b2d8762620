package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/urmzd/tled/pkg/audio"
)

// DefaultStaleAfter is how long a level sample stays valid.
const DefaultStaleAfter = time.Second

// LevelFeed is an audio.LevelSource fed by an external analyser that
// publishes audio.Levels as JSON on <prefix>/audio/levels.
//
// Samples older than the stale window read as silence. A beat is reported
// once per sample so it does not retrigger on every tick.
type LevelFeed struct {
	staleAfter time.Duration
	now        func() time.Time

	mu       sync.Mutex
	levels   audio.Levels
	received time.Time
	beatSeen bool
}

var _ audio.LevelSource = (*LevelFeed)(nil)

// NewLevelFeed creates an empty feed.
func NewLevelFeed(staleAfter time.Duration) *LevelFeed {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &LevelFeed{staleAfter: staleAfter, now: time.Now}
}

// LevelsTopic is the topic the analyser publishes to.
func LevelsTopic(cfg Config) string {
	return cfg.Topic("audio", "levels")
}

// Subscribe attaches the feed to c.
func (f *LevelFeed) Subscribe(ctx context.Context, c *Client) error {
	return c.Subscribe(ctx, LevelsTopic(c.Config()), f.Handle)
}

// Handle decodes one sample. It is a MessageHandler.
func (f *LevelFeed) Handle(_ string, payload []byte) error {
	var lv audio.Levels
	if err := json.Unmarshal(payload, &lv); err != nil {
		return fmt.Errorf("decode levels: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.levels = lv
	f.received = f.now()
	f.beatSeen = false
	return nil
}

// Levels returns the latest sample.
func (f *LevelFeed) Levels(ctx context.Context) (audio.Levels, error) {
	if err := ctx.Err(); err != nil {
		return audio.Levels{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.received.IsZero() || f.now().Sub(f.received) > f.staleAfter {
		return audio.Levels{}, nil
	}

	lv := f.levels
	if f.beatSeen {
		lv.Beat = false
	}
	f.beatSeen = true
	return lv, nil
}
