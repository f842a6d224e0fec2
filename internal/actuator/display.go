package actuator

import (
	"fmt"

	"github.com/gambit-robotics/cm5-sentinel/internal/logic"
)

// DisplayRotator rotates a wlroots output on committed tilt transitions.
// Positive tilt selects the 180-degree transform, negative the normal one.
type DisplayRotator struct {
	run    Runner
	output string
}

// NewDisplayRotator creates a rotator for the given output (e.g. "HDMI-A-1").
func NewDisplayRotator(run Runner, output string) *DisplayRotator {
	return &DisplayRotator{run: run, output: output}
}

// Apply rotates the display on TRANSITION events and ignores everything else.
func (d *DisplayRotator) Apply(e logic.Event) error {
	if e.Type != logic.EventTransition {
		return nil
	}

	var transform string
	switch e.State {
	case logic.StatePositive:
		transform = "180"
	case logic.StateNegative:
		transform = "normal"
	default:
		return nil
	}

	if err := d.run.Run("wlr-randr", "--output", d.output, "--transform", transform); err != nil {
		return fmt.Errorf("rotate %s to %s: %w", d.output, transform, err)
	}
	return nil
}

// Close is a no-op: the display keeps its last orientation.
func (d *DisplayRotator) Close() error {
	return nil
}
