package logic

import "fmt"

// Sense selects which side of a threshold is unsafe.
type Sense int

const (
	// SenseHigh trips when the value rises to or above a threshold
	// (temperature monitors).
	SenseHigh Sense = iota
	// SenseLow trips when the value falls to or below a threshold
	// (battery percentage monitors).
	SenseLow
)

// ThresholdPolicy is the immutable configuration of a ThresholdEngine.
type ThresholdPolicy struct {
	// Warning and Shutdown are the two trip thresholds. For SenseHigh,
	// Warning < Shutdown; for SenseLow, Warning > Shutdown.
	Warning  float64
	Shutdown float64

	// Deadband is the hysteresis margin: a tripped level is only left once
	// the value has retreated past the threshold by this much.
	Deadband float64

	// HoldCount is the number of consecutive agreeing samples required
	// before a level change commits. Values below 1 act as 1.
	HoldCount int

	Sense Sense

	// SuppressWhileInhibited forces the target level to Normal while the
	// sample's Inhibit bit is set (battery monitor while charging).
	SuppressWhileInhibited bool
}

// ThresholdEngine classifies a scalar into Normal/Warning/Shutdown with
// hysteresis and hold-count debouncing. Warning entry and shutdown requests
// are one-shot per excursion.
type ThresholdEngine struct {
	p ThresholdPolicy

	level     State
	candidate State
	count     int

	shutdownFired bool
}

// NewThresholdEngine creates a threshold engine starting at StateNormal.
func NewThresholdEngine(p ThresholdPolicy) *ThresholdEngine {
	if p.HoldCount < 1 {
		p.HoldCount = 1
	}
	return &ThresholdEngine{
		p:         p,
		level:     StateNormal,
		candidate: StateNormal,
	}
}

// Step processes one sample and returns any committed level-change events.
func (e *ThresholdEngine) Step(s Sample) []Event {
	target := e.target(s)

	if target == e.candidate {
		e.count++
	} else {
		e.candidate = target
		e.count = 1
	}

	if e.count < e.p.HoldCount || target == e.level {
		return nil
	}

	prev := e.level
	e.level = target

	var events []Event
	switch target {
	case StateShutdown:
		if !e.shutdownFired {
			e.shutdownFired = true
			events = append(events, Event{
				Timestamp: s.Time,
				Type:      EventShutdownRequested,
				State:     target,
				Value:     s.Value,
				Reason:    e.tripReason(s.Value, e.p.Shutdown),
			})
		}
	case StateWarning:
		if prev == StateNormal {
			events = append(events, Event{
				Timestamp: s.Time,
				Type:      EventWarningRaised,
				State:     target,
				Value:     s.Value,
				Reason:    e.tripReason(s.Value, e.p.Warning),
			})
		}
	case StateNormal:
		// Excursion over: the next trip past shutdown may fire again.
		e.shutdownFired = false
		events = append(events, Event{
			Timestamp: s.Time,
			Type:      EventWarningCleared,
			State:     target,
			Value:     s.Value,
			Reason:    "value returned to safe range",
		})
	}
	return events
}

// Current returns the committed level.
func (e *ThresholdEngine) Current() State {
	return e.level
}

// target classifies a sample, holding the committed level until the value has
// cleared the threshold by the deadband margin.
func (e *ThresholdEngine) target(s Sample) State {
	if s.Inhibit && e.p.SuppressWhileInhibited {
		return StateNormal
	}

	t := StateNormal
	if e.tripped(s.Value, e.p.Warning) {
		t = StateWarning
	}
	if e.tripped(s.Value, e.p.Shutdown) {
		t = StateShutdown
	}

	if levelRank(t) >= levelRank(e.level) {
		return t
	}

	// Downgrading: apply hysteresis against the levels being left.
	if e.level == StateShutdown && !e.cleared(s.Value, e.p.Shutdown) {
		return StateShutdown
	}
	if t == StateNormal && e.level != StateNormal && !e.cleared(s.Value, e.p.Warning) {
		return StateWarning
	}
	return t
}

func (e *ThresholdEngine) tripped(v, threshold float64) bool {
	if e.p.Sense == SenseLow {
		return v <= threshold
	}
	return v >= threshold
}

func (e *ThresholdEngine) cleared(v, threshold float64) bool {
	if e.p.Sense == SenseLow {
		return v > threshold+e.p.Deadband
	}
	return v < threshold-e.p.Deadband
}

func (e *ThresholdEngine) tripReason(v, threshold float64) string {
	op := ">="
	if e.p.Sense == SenseLow {
		op = "<="
	}
	return fmt.Sprintf("value %.1f %s %.1f", v, op, threshold)
}

func levelRank(s State) int {
	switch s {
	case StateShutdown:
		return 2
	case StateWarning:
		return 1
	default:
		return 0
	}
}
