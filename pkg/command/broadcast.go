package command

import (
	"sync"

	"github.com/rs/zerolog/log"
)

const subscriberBuffer = 16

// Broadcaster fans events out to channel subscribers. Slow subscribers miss
// events rather than stall commands.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewBroadcaster creates a broadcaster with no subscribers.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan Event]struct{})}
}

// Subscribe returns a channel receiving subsequent events.
func (b *Broadcaster) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes ch.
func (b *Broadcaster) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for c := range b.subs {
		if c == ch {
			delete(b.subs, c)
			close(c)
			return
		}
	}
}

// Handle is a Listener.
func (b *Broadcaster) Handle(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for c := range b.subs {
		select {
		case c <- ev:
		default:
			log.Debug().Str("command", ev.Command).Msg("Dropping event for slow subscriber")
		}
	}
}
