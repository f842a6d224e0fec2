// Package mqtt publishes monitor events with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/gambit-robotics/cm5-sentinel/internal/logic"
)

// TopicPrefix is the root of the sentinel topic tree. Instances publish to
// <prefix>/<instance>/events and <prefix>/<instance>/system.
const TopicPrefix = "gambit/sentinel"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a monitor event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (startup, shutdown,
// heartbeat, degraded sensor).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g. "STARTUP", "SHUTDOWN", "HEARTBEAT", "DEGRADED"
	Reason     string // e.g. "SIGTERM" (shutdown), failure description (degraded)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure for monitor events.
type Payload struct {
	Monitor MonitorPayload `json:"monitor"`
}

// MonitorPayload contains the monitor event details.
type MonitorPayload struct {
	Timestamp string  `json:"timestamp"`
	Event     string  `json:"event"`
	State     string  `json:"state"`
	Value     float64 `json:"value"`
	Reason    string  `json:"reason,omitempty"`
}

// FormatPayload creates the JSON payload for a monitor event.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Monitor: MonitorPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			State:     string(event.State),
			Value:     event.Value,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events that
// don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status
// snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// Nop is a Publisher that drops everything; used when no broker is
// configured.
type Nop struct{}

// Publish drops the event.
func (Nop) Publish(logic.Event) error { return nil }

// PublishSystem drops the event.
func (Nop) PublishSystem(SystemEvent) error { return nil }

// Close is a no-op.
func (Nop) Close() error { return nil }

// IsConnected always reports false.
func (Nop) IsConnected() bool { return false }
