package actuator

import (
	"errors"

	"github.com/gambit-robotics/cm5-sentinel/internal/logic"
)

// Multi fans an event out to several actuators. All actuators see every
// event; errors are joined rather than short-circuiting, so one broken
// actuator cannot starve the others.
type Multi struct {
	actuators []Actuator
}

// NewMulti combines actuators into one.
func NewMulti(actuators ...Actuator) *Multi {
	return &Multi{actuators: actuators}
}

// Apply delivers the event to every actuator.
func (m *Multi) Apply(e logic.Event) error {
	var errs []error
	for _, a := range m.actuators {
		if err := a.Apply(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every actuator.
func (m *Multi) Close() error {
	var errs []error
	for _, a := range m.actuators {
		if err := a.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
