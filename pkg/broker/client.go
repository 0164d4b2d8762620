// Package broker connects the service to an MQTT broker. It carries frames to
// an MQTT BLE proxy, publishes device state and receives audio levels from an
// external analyser.
package broker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const (
	defaultConnectTimeout    = 10 * time.Second
	defaultPublishTimeout    = 5 * time.Second
	defaultDisconnectQuiesce = 250 // milliseconds
	defaultKeepAlive         = 30 * time.Second
)

// Config describes the broker connection.
type Config struct {
	URL      string // e.g. tcp://localhost:1883
	ClientID string
	Username string
	Password string
	Prefix   string // topic root, e.g. "tled"
	QoS      byte
}

// StatusTopic is where the client announces itself; the broker publishes the
// will message there on unexpected disconnects.
func (c Config) StatusTopic() string {
	return c.Topic("status")
}

// Topic joins parts below the configured prefix.
func (c Config) Topic(parts ...string) string {
	prefix := strings.TrimSuffix(c.Prefix, "/")
	if prefix == "" {
		prefix = "tled"
	}
	return prefix + "/" + strings.Join(parts, "/")
}

// MessageHandler receives messages of a subscription.
type MessageHandler func(topic string, payload []byte) error

// Client wraps paho with connect/publish timeouts and resubscription on
// reconnect. It is safe for concurrent use.
type Client struct {
	client pahomqtt.Client
	cfg    Config

	subMu         sync.RWMutex
	subscriptions map[string]MessageHandler
}

// Connect dials the broker and waits for the connection.
func Connect(cfg Config) (*Client, error) {
	if cfg.ClientID == "" {
		cfg.ClientID = "tled"
	}

	c := &Client{
		cfg:           cfg,
		subscriptions: make(map[string]MessageHandler),
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.URL)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)
	opts.SetWill(cfg.StatusTopic(), statusPayload("offline", cfg.ClientID), 1, true)

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		log.Info().Str("broker", cfg.URL).Msg("MQTT connected")
		c.restoreSubscriptions()
		c.client.Publish(cfg.StatusTopic(), 1, true, statusPayload("online", cfg.ClientID))
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		log.Warn().Err(err).Str("broker", cfg.URL).Msg("MQTT connection lost")
	})

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return c, nil
}

// Config returns the connection settings.
func (c *Client) Config() Config {
	return c.cfg
}

// IsConnected reports the current connection state.
func (c *Client) IsConnected() bool {
	return c.client != nil && c.client.IsConnected()
}

// Publish sends payload and waits for acknowledgment until ctx expires or
// the default publish timeout elapses.
func (c *Client) Publish(ctx context.Context, topic string, payload []byte, retained bool) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, c.cfg.QoS, retained, payload)
	if err := wait(ctx, token, defaultPublishTimeout); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublishFailed, topic, err)
	}
	return nil
}

// Subscribe registers handler for topic. Subscriptions survive reconnects.
func (c *Client) Subscribe(ctx context.Context, topic string, handler MessageHandler) error {
	c.subMu.Lock()
	c.subscriptions[topic] = handler
	c.subMu.Unlock()

	token := c.client.Subscribe(topic, c.cfg.QoS, c.wrap(handler))
	if err := wait(ctx, token, defaultPublishTimeout); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSubscribeFailed, topic, err)
	}
	log.Info().Str("topic", topic).Msg("MQTT subscribed")
	return nil
}

// Close announces a graceful shutdown and disconnects.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	if c.IsConnected() {
		token := c.client.Publish(c.cfg.StatusTopic(), 1, true, statusPayload("offline", c.cfg.ClientID))
		token.WaitTimeout(defaultPublishTimeout)
	}
	c.client.Disconnect(defaultDisconnectQuiesce)
	return nil
}

func (c *Client) restoreSubscriptions() {
	c.subMu.RLock()
	defer c.subMu.RUnlock()

	for topic, handler := range c.subscriptions {
		c.client.Subscribe(topic, c.cfg.QoS, c.wrap(handler))
	}
}

func (c *Client) wrap(handler MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("topic", msg.Topic()).Msg("MQTT handler panic recovered")
			}
		}()

		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			log.Warn().Err(err).Str("topic", msg.Topic()).Msg("MQTT handler returned error")
		}
	}
}

func wait(ctx context.Context, token pahomqtt.Token, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("timeout after %v", timeout)
	}
}

func statusPayload(status, clientID string) string {
	return fmt.Sprintf(`{"status":%q,"client_id":%q,"timestamp":%q}`,
		status, clientID, time.Now().UTC().Format(time.RFC3339))
}
