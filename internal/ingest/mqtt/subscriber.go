// Package mqtt feeds sensor readings published by home devices on an MQTT
// broker into the relay, alongside the HTTP ingestion endpoint.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/RahulSaini202/home-automation/internal/config"
	"github.com/RahulSaini202/home-automation/internal/core"
	"github.com/RahulSaini202/home-automation/internal/proto"
)

const (
	defaultConnectTimeout   = 10 * time.Second
	defaultSubscribeTimeout = 5 * time.Second
	defaultHandlerTimeout   = 5 * time.Second
	maxReconnectInterval    = time.Minute
	maxQoS                  = 2
)

// Publisher receives decoded samples. *core.Relay satisfies it.
type Publisher interface {
	Publish(ctx context.Context, sample core.Sample) core.Ack
}

// Subscriber listens on the configured sensor topic and republishes each
// reading through the relay.
type Subscriber struct {
	client    pahomqtt.Client
	topic     string
	qos       byte
	publisher Publisher
	log       *zerolog.Logger

	connMu    sync.RWMutex
	connected bool
}

// Connect dials the broker and subscribes to cfg.Topic. The subscription is
// re-established on every reconnect.
func Connect(cfg config.MQTTConfig, publisher Publisher, logger *zerolog.Logger) (*Subscriber, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	if cfg.QoS < 0 || cfg.QoS > maxQoS {
		return nil, ErrInvalidQoS
	}

	s := &Subscriber{
		topic:     cfg.Topic,
		qos:       byte(cfg.QoS),
		publisher: publisher,
		log:       logger,
	}

	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(maxReconnectInterval).
		SetConnectTimeout(defaultConnectTimeout)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetOnConnectHandler(func(c pahomqtt.Client) {
		s.setConnected(true)
		if err := s.subscribe(c); err != nil {
			s.log.Error().Err(err).Str("topic", s.topic).Msg("mqtt resubscribe failed")
		}
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		s.setConnected(false)
		s.log.Warn().Err(err).Msg("mqtt connection lost")
	})

	s.client = pahomqtt.NewClient(opts)
	token := s.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	s.setConnected(true)

	s.log.Info().Str("broker", cfg.Broker).Str("topic", cfg.Topic).Msg("mqtt ingestion connected")
	return s, nil
}

func (s *Subscriber) subscribe(c pahomqtt.Client) error {
	token := c.Subscribe(s.topic, s.qos, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		if err := s.handleMessage(msg.Topic(), msg.Payload()); err != nil {
			s.log.Warn().Err(err).Str("topic", msg.Topic()).Msg("mqtt sample rejected")
		}
	})
	if !token.WaitTimeout(defaultSubscribeTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, defaultSubscribeTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}
	return nil
}

// handleMessage decodes one reading and hands it to the publisher.
func (s *Subscriber) handleMessage(topic string, payload []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mqtt handler panic: %v", r)
		}
	}()

	var data proto.SensorData
	if err := json.Unmarshal(payload, &data); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	sample, err := core.ParseSample(HomeIDFromTopic(s.topic, topic), data.Fields())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultHandlerTimeout)
	defer cancel()
	ack := s.publisher.Publish(ctx, sample)
	s.log.Debug().Str("topic", topic).Int("events", ack.Events).Msg("mqtt sample relayed")
	return nil
}

// HomeIDFromTopic returns the segment of topic that matches the single-level
// wildcard in pattern, e.g. "h1" for "homeauto/+/sensors" and
// "homeauto/h1/sensors". It returns "" when pattern has no '+'.
func HomeIDFromTopic(pattern, topic string) string {
	patternParts := strings.Split(pattern, "/")
	topicParts := strings.Split(topic, "/")
	for i, part := range patternParts {
		if part == "+" && i < len(topicParts) {
			return topicParts[i]
		}
	}
	return ""
}

// IsConnected reports the last known broker connection state.
func (s *Subscriber) IsConnected() bool {
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	return s.connected
}

func (s *Subscriber) setConnected(v bool) {
	s.connMu.Lock()
	s.connected = v
	s.connMu.Unlock()
}

// Close unsubscribes and disconnects.
func (s *Subscriber) Close() error {
	if s.client == nil {
		return nil
	}
	if s.IsConnected() {
		s.client.Unsubscribe(s.topic).WaitTimeout(defaultSubscribeTimeout)
	}
	s.client.Disconnect(250)
	s.setConnected(false)
	return nil
}
