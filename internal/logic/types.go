// Package logic contains pure decision logic for sensor monitoring.
// This package has NO external dependencies (no I2C, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// State represents a committed actuator state.
type State string

// Direction states used by the tilt engine.
const (
	StateNeutral  State = "NEUTRAL"
	StatePositive State = "POSITIVE"
	StateNegative State = "NEGATIVE"
)

// Severity levels used by the threshold engine.
const (
	StateNormal   State = "NORMAL"
	StateWarning  State = "WARNING"
	StateShutdown State = "SHUTDOWN"
)

// EventType classifies an emitted event.
type EventType string

const (
	// EventTransition is a committed direction change (tilt engine).
	EventTransition EventType = "TRANSITION"
	// EventWarningRaised fires once when the warning level is entered.
	EventWarningRaised EventType = "WARNING_RAISED"
	// EventWarningCleared fires when the level returns to normal.
	EventWarningCleared EventType = "WARNING_CLEARED"
	// EventShutdownRequested fires once per excursion past the shutdown level.
	EventShutdownRequested EventType = "SHUTDOWN_REQUESTED"
	// EventDegraded fires once per unbroken run of read failures that
	// reaches the configured ceiling.
	EventDegraded EventType = "DEGRADED"
	// EventRecovered fires on the first successful read after a degraded run.
	EventRecovered EventType = "RECOVERED"
)

// Sample is one poll cycle's sensor reading.
// Inhibit carries an auxiliary suppression bit (the battery monitor's
// "charging" flag); sensors without one always report false.
type Sample struct {
	Value   float64
	Inhibit bool
	Time    time.Time
}

// Event is an emitted decision: a committed transition, a level change, or a
// sensor health change.
type Event struct {
	Timestamp time.Time
	Type      EventType
	State     State
	Value     float64
	Reason    string
}

// Engine converts raw samples into committed state-change events.
// Implementations own their state exclusively; a failed read must be handled
// by the caller (skip the sample) rather than passed in.
type Engine interface {
	// Step processes one sample and returns any committed events.
	Step(s Sample) []Event

	// Current returns the last committed state.
	Current() State
}

// EventCounts tracks the number of each event class since startup.
type EventCounts struct {
	Transitions int
	Warnings    int
	Shutdowns   int
	Degraded    int
}
