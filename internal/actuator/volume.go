package actuator

import (
	"fmt"

	"github.com/gambit-robotics/cm5-sentinel/internal/logic"
)

// VolumeControl nudges an ALSA mixer control on committed tilt transitions:
// positive tilt steps the volume up, negative steps it down.
type VolumeControl struct {
	run         Runner
	control     string
	stepPercent int
}

// NewVolumeControl creates a volume actuator for the given mixer control
// (e.g. "Master"). Steps below 1 percent act as 5.
func NewVolumeControl(run Runner, control string, stepPercent int) *VolumeControl {
	if stepPercent < 1 {
		stepPercent = 5
	}
	return &VolumeControl{run: run, control: control, stepPercent: stepPercent}
}

// Apply adjusts the mixer on TRANSITION events and ignores everything else.
func (v *VolumeControl) Apply(e logic.Event) error {
	if e.Type != logic.EventTransition {
		return nil
	}

	var step string
	switch e.State {
	case logic.StatePositive:
		step = fmt.Sprintf("%d%%+", v.stepPercent)
	case logic.StateNegative:
		step = fmt.Sprintf("%d%%-", v.stepPercent)
	default:
		return nil
	}

	if err := v.run.Run("amixer", "set", v.control, step); err != nil {
		return fmt.Errorf("adjust %s volume: %w", v.control, err)
	}
	return nil
}

// Close is a no-op.
func (v *VolumeControl) Close() error {
	return nil
}
