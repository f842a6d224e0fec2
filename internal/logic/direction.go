package logic

import "fmt"

// DirectionEngine debounces a signed scalar into one of two directions.
// A reading inside the deadband carries no opinion and resets the candidate;
// outside it, the sign selects Positive or Negative. A direction commits only
// after holdCount consecutive agreeing samples, and only if it differs from
// the last committed direction.
type DirectionEngine struct {
	deadband  float64
	holdCount int

	candidate State
	count     int
	applied   State // empty until the first commit
}

// NewDirectionEngine creates a direction engine. holdCount values below 1 are
// treated as 1 (commit on the first out-of-deadband sample).
func NewDirectionEngine(deadband float64, holdCount int) *DirectionEngine {
	if holdCount < 1 {
		holdCount = 1
	}
	return &DirectionEngine{
		deadband:  deadband,
		holdCount: holdCount,
	}
}

// Step processes one sample. It returns a single-element slice on a committed
// direction change, nil otherwise.
func (e *DirectionEngine) Step(s Sample) []Event {
	target := StateNeutral
	switch {
	case s.Value >= e.deadband:
		target = StatePositive
	case s.Value <= -e.deadband:
		target = StateNegative
	}

	if target == StateNeutral {
		// No opinion: a run of agreement must be consecutive, so the
		// candidate does not survive a sample inside the deadband.
		e.candidate = ""
		e.count = 0
		return nil
	}

	if target == e.candidate {
		e.count++
	} else {
		e.candidate = target
		e.count = 1
	}

	if e.count < e.holdCount || target == e.applied {
		return nil
	}

	e.applied = target
	return []Event{{
		Timestamp: s.Time,
		Type:      EventTransition,
		State:     target,
		Value:     s.Value,
		Reason:    fmt.Sprintf("%d consecutive samples beyond %.2f", e.count, e.deadband),
	}}
}

// Current returns the last committed direction, or StateNeutral before the
// first commit.
func (e *DirectionEngine) Current() State {
	if e.applied == "" {
		return StateNeutral
	}
	return e.applied
}
