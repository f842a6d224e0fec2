//go:build linux

package actuator

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/gambit-robotics/cm5-sentinel/internal/logic"
)

// StatusLED drives a GPIO warning LED: on while the monitor is at WARNING or
// worse, off when the level returns to normal, and off again at daemon exit.
type StatusLED struct {
	line *gpiocdev.Line
}

// NewStatusLED requests the given BCM pin as an output, initially off.
func NewStatusLED(chip string, pin int) (*StatusLED, error) {
	if chip == "" {
		chip = "gpiochip0"
	}
	line, err := gpiocdev.RequestLine(chip, pin, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("request LED pin %d on %s: %w", pin, chip, err)
	}
	return &StatusLED{line: line}, nil
}

// Apply switches the LED on warning/shutdown events.
func (l *StatusLED) Apply(e logic.Event) error {
	switch e.Type {
	case logic.EventWarningRaised, logic.EventShutdownRequested:
		return l.set(1)
	case logic.EventWarningCleared:
		return l.set(0)
	}
	return nil
}

func (l *StatusLED) set(v int) error {
	if err := l.line.SetValue(v); err != nil {
		return fmt.Errorf("set LED: %w", err)
	}
	return nil
}

// Close turns the LED off before releasing the line, so a stopped daemon
// never leaves a stale warning lit.
func (l *StatusLED) Close() error {
	if err := l.line.SetValue(0); err != nil {
		l.line.Close()
		return fmt.Errorf("clear LED: %w", err)
	}
	return l.line.Close()
}
