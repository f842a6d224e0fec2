// Package status provides a thread-safe status tracker for a sentinel
// monitor process. It is read by the HTTP handlers and serialized into MQTT
// system events.
package status

import (
	"sync"
	"time"

	"github.com/gambit-robotics/cm5-sentinel/internal/logic"
)

// Config contains monitor configuration for display.
type Config struct {
	Instance  string
	Unit      string
	PollMs    int64
	HoldCount int
	Broker    string
	HTTPAddr  string
}

// Snapshot is a point-in-time view of monitor state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	State         logic.State
	LastValue     float64
	LastSample    time.Time
	Degraded      bool
	Failures      int
	Counts        logic.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the monitor started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable monitor state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the committed state and the latest sample.
// Called from the poll loop on every successful read.
func (t *Tracker) Update(state logic.State, value float64, sampleTime time.Time) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.LastValue = value
	t.snap.LastSample = sampleTime
	t.mu.Unlock()
}

// SetHealth sets the degraded flag and consecutive failure count.
func (t *Tracker) SetHealth(degraded bool, failures int) {
	t.mu.Lock()
	t.snap.Degraded = degraded
	t.snap.Failures = failures
	t.mu.Unlock()
}

// RecordEvent counts a committed event by class.
func (t *Tracker) RecordEvent(typ logic.EventType) {
	t.mu.Lock()
	switch typ {
	case logic.EventTransition:
		t.snap.Counts.Transitions++
	case logic.EventWarningRaised:
		t.snap.Counts.Warnings++
	case logic.EventShutdownRequested:
		t.snap.Counts.Shutdowns++
	case logic.EventDegraded:
		t.snap.Counts.Degraded++
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the monitor state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
