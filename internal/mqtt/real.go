package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/gambit-robotics/cm5-sentinel/internal/logic"
)

// offlineBufferSize bounds the number of messages held while disconnected.
const offlineBufferSize = 256

// RealPublisher publishes to an actual MQTT broker. Messages published while
// the connection is down are held in a bounded ring buffer and replayed on
// reconnect.
type RealPublisher struct {
	client      paho.Client
	topicEvents string
	topicSystem string

	mu     sync.Mutex
	buffer *ringBuffer
}

// NewRealPublisher creates a publisher connected to the given broker,
// publishing under TopicPrefix/<instance>.
func NewRealPublisher(broker, clientID, instance string) (*RealPublisher, error) {
	p := &RealPublisher{
		topicEvents: fmt.Sprintf("%s/%s/events", TopicPrefix, instance),
		topicSystem: fmt.Sprintf("%s/%s/system", TopicPrefix, instance),
		buffer:      newRingBuffer(offlineBufferSize),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(p.onConnect)

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// Publish sends a monitor event to the MQTT broker.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	// QoS 1 (at-least-once): transitions are rare and must not be lost.
	return p.send(p.topicEvents, payload, 1, false)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.send(p.topicSystem, payload, 1, event.Retained)
}

func (p *RealPublisher) send(topic string, payload []byte, qos byte, retained bool) error {
	if !p.client.IsConnected() {
		p.mu.Lock()
		p.buffer.push(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		buffered := p.buffer.len()
		p.mu.Unlock()
		log.Debug().Str("topic", topic).Int("buffered", buffered).Msg("broker offline, buffering message")
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// onConnect replays buffered messages after a (re)connect.
func (p *RealPublisher) onConnect(client paho.Client) {
	p.mu.Lock()
	msgs := p.buffer.drainAll()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	log.Info().Int("count", len(msgs)).Msg("replaying buffered messages after reconnect")
	for _, m := range msgs {
		token := client.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(5 * time.Second) {
			log.Warn().Str("topic", m.topic).Msg("replay timeout")
			continue
		}
		if err := token.Error(); err != nil {
			log.Warn().Err(err).Str("topic", m.topic).Msg("replay failed")
		}
	}
}

// IsConnected reports the broker connection state.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
