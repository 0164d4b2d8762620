package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/tled/pkg/command"
)

// Publisher publishes a payload on a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte, retained bool) error
}

// StatePublisher mirrors device projections to MQTT. The latest projection is
// retained on <prefix>/state; every command outcome goes to <prefix>/events.
type StatePublisher struct {
	pub         Publisher
	stateTopic  string
	eventsTopic string
	timeout     time.Duration
}

// NewStatePublisher creates a publisher below cfg's prefix.
func NewStatePublisher(pub Publisher, cfg Config) *StatePublisher {
	return &StatePublisher{
		pub:         pub,
		stateTopic:  cfg.Topic("state"),
		eventsTopic: cfg.Topic("events"),
		timeout:     defaultPublishTimeout,
	}
}

// Handle is a command.Listener.
func (p *StatePublisher) Handle(ev command.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if ev.Snapshot != nil {
		if data, err := json.Marshal(ev.Snapshot); err == nil {
			if err := p.pub.Publish(ctx, p.stateTopic, data, true); err != nil {
				log.Warn().Err(err).Msg("Failed to publish device state")
			}
		}
	}

	data, err := json.Marshal(ev)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to encode command event")
		return
	}
	if err := p.pub.Publish(ctx, p.eventsTopic, data, false); err != nil {
		log.Warn().Err(err).Msg("Failed to publish command event")
	}
}
