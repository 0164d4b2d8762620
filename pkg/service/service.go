// Package service assembles the fixture stack from the stored configuration:
// the device link, the audio level source, the command surface and its
// listeners. Both binaries build on it.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/tled/pkg/audio"
	"github.com/urmzd/tled/pkg/broker"
	"github.com/urmzd/tled/pkg/command"
	"github.com/urmzd/tled/pkg/db"
	"github.com/urmzd/tled/pkg/device"
	"github.com/urmzd/tled/pkg/device/schema"
	"github.com/urmzd/tled/pkg/elk"
	"github.com/urmzd/tled/pkg/telemetry"
)

// Link kinds.
const (
	LinkSim    = "sim"
	LinkSerial = "serial"
	LinkMQTT   = "mqtt"
	LinkNone   = "none"
)

// ErrBadConfig indicates settings that cannot be turned into a stack.
var ErrBadConfig = errors.New("invalid configuration")

// Service is an assembled stack.
type Service struct {
	Surface     *command.Surface
	Dispatcher  *command.Dispatcher
	Broadcaster *command.Broadcaster

	connector device.Connector
	broker    *broker.Client
	recorder  *telemetry.Recorder
}

// New builds the stack described by cfg. Optional integrations (MQTT state
// publishing, telemetry) that cannot be reached are logged and skipped; a
// link that cannot be configured is an error.
func New(ctx context.Context, cfg *db.Config, store *db.DB) (*Service, error) {
	s := &Service{Broadcaster: command.NewBroadcaster()}

	kind := cfg.String(db.KeyLinkKind, LinkSim)

	if url := cfg.String(db.KeyMQTTURL, ""); url != "" {
		client, err := broker.Connect(brokerConfig(cfg))
		if err != nil {
			if kind == LinkMQTT {
				return nil, fmt.Errorf("mqtt link: %w", err)
			}
			log.Warn().Err(err).Str("url", url).Msg("MQTT broker unavailable, continuing without it")
		} else {
			s.broker = client
		}
	}

	connector, err := s.buildConnector(kind, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.connector = connector

	manager := device.NewManager(connector, audio.NewFactory(s.levelSource(ctx, cfg), audio.WithEffects(elk.EffectIDs()...)))

	listeners := []command.Listener{s.Broadcaster.Handle}
	if store != nil {
		pruneEvents(ctx, store.Events(), cfg.Duration(db.KeyEventsKeep, 0))
		listeners = append(listeners, command.AuditListener(store.Events()))
	}
	if s.broker != nil {
		listeners = append(listeners, broker.NewStatePublisher(s.broker, s.broker.Config()).Handle)
	}
	if url := cfg.String(db.KeyInfluxURL, ""); url != "" {
		rec, err := telemetry.Connect(telemetry.Config{
			URL:    url,
			Token:  cfg.String(db.KeyInfluxToken, ""),
			Org:    cfg.String(db.KeyInfluxOrg, ""),
			Bucket: cfg.String(db.KeyInfluxBucket, "tled"),
		})
		if err != nil {
			log.Warn().Err(err).Str("url", url).Msg("Telemetry unavailable, continuing without it")
		} else {
			s.recorder = rec
			listeners = append(listeners, rec.Handle)
		}
	}

	s.Surface = command.New(manager, listeners...)
	s.Dispatcher = command.NewDispatcher(s.Surface, schema.NewValidator())

	log.Info().Str("link", kind).Int("listeners", len(listeners)).Msg("Device stack ready")
	return s, nil
}

func (s *Service) buildConnector(kind string, cfg *db.Config) (device.Connector, error) {
	switch kind {
	case LinkSim:
		return elk.NewConnector(elk.StaticOpener(elk.NewSimLink())), nil

	case LinkSerial:
		port := cfg.String(db.KeySerialPort, "")
		if port == "" {
			return nil, fmt.Errorf("%w: %s is required for the serial link", ErrBadConfig, db.KeySerialPort)
		}
		baud := cfg.Int(db.KeySerialBaud, elk.DefaultBaud)
		return elk.NewConnector(func(context.Context) (elk.Link, error) {
			return elk.OpenSerial(port, baud)
		}), nil

	case LinkMQTT:
		if s.broker == nil {
			return nil, fmt.Errorf("%w: %s is required for the mqtt link", ErrBadConfig, db.KeyMQTTURL)
		}
		link := elk.NewMQTTLink(s.broker, s.broker.Config().Topic("device"))
		log.Info().Str("topic", link.Topic()).Msg("Using MQTT device link")
		return elk.NewConnector(elk.StaticOpener(link)), nil

	case LinkNone:
		return device.NewNullConnector(), nil
	}

	return nil, fmt.Errorf("%w: unknown link kind %q", ErrBadConfig, kind)
}

func (s *Service) levelSource(ctx context.Context, cfg *db.Config) audio.LevelSource {
	if s.broker == nil || !cfg.Bool(db.KeyMQTTLevels, true) {
		return audio.SilentSource{}
	}

	feed := broker.NewLevelFeed(broker.DefaultStaleAfter)
	if err := feed.Subscribe(ctx, s.broker); err != nil {
		log.Warn().Err(err).Msg("Audio level feed unavailable, visualization will be silent")
		return audio.SilentSource{}
	}
	log.Info().Str("topic", broker.LevelsTopic(s.broker.Config())).Msg("Audio level feed subscribed")
	return feed
}

// Close stops audio visualization and releases the link and integrations.
func (s *Service) Close() {
	if s.Surface != nil {
		s.Surface.StopAudio()
	}
	if c, ok := s.connector.(*elk.Connector); ok {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close device link")
		}
	}
	if s.recorder != nil {
		s.recorder.Close()
	}
	if s.broker != nil {
		if err := s.broker.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close MQTT client")
		}
	}
}

func brokerConfig(cfg *db.Config) broker.Config {
	return broker.Config{
		URL:      cfg.String(db.KeyMQTTURL, ""),
		ClientID: cfg.String(db.KeyMQTTClientID, "tled"),
		Username: cfg.String(db.KeyMQTTUsername, ""),
		Password: cfg.String(db.KeyMQTTPassword, ""),
		Prefix:   cfg.String(db.KeyMQTTPrefix, "tled"),
		QoS:      1,
	}
}

// pruneEvents drops audit entries older than keep. A zero keep disables it.
func pruneEvents(ctx context.Context, events db.EventStore, keep time.Duration) {
	if keep <= 0 {
		return
	}
	n, err := events.Prune(ctx, time.Now().Add(-keep))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to prune command events")
		return
	}
	if n > 0 {
		log.Info().Int64("removed", n).Dur("retention", keep).Msg("Pruned command events")
	}
}
