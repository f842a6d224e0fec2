//go:build !linux

package actuator

import (
	"errors"

	"github.com/gambit-robotics/cm5-sentinel/internal/logic"
)

// StatusLED is not available on non-Linux platforms.
type StatusLED struct{}

// NewStatusLED returns an error on non-Linux platforms.
func NewStatusLED(chip string, pin int) (*StatusLED, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Apply is not implemented on non-Linux platforms.
func (l *StatusLED) Apply(e logic.Event) error {
	return errors.New("gpio: not supported")
}

// Close is a no-op on non-Linux platforms.
func (l *StatusLED) Close() error {
	return nil
}
