package actuator

import (
	"fmt"

	"github.com/gambit-robotics/cm5-sentinel/internal/logic"
)

// DelayedShutdown schedules a graceful system halt on SHUTDOWN_REQUESTED
// events. The invocation is fire and forget: it asks for a delayed halt
// rather than performing one, giving an operator a window to abort with
// `shutdown -c`.
type DelayedShutdown struct {
	run          Runner
	delayMinutes int
}

// NewDelayedShutdown creates a shutdown actuator with the given abort window.
// Delays below 1 minute act as 1.
func NewDelayedShutdown(run Runner, delayMinutes int) *DelayedShutdown {
	if delayMinutes < 1 {
		delayMinutes = 1
	}
	return &DelayedShutdown{run: run, delayMinutes: delayMinutes}
}

// Apply schedules the halt. Runs as root under systemd, so no sudo.
func (d *DelayedShutdown) Apply(e logic.Event) error {
	if e.Type != logic.EventShutdownRequested {
		return nil
	}

	msg := "Safety shutdown: " + e.Reason
	if err := d.run.Run("shutdown", "-h", fmt.Sprintf("+%d", d.delayMinutes), msg); err != nil {
		return fmt.Errorf("schedule shutdown: %w", err)
	}
	return nil
}

// Close is a no-op.
func (d *DelayedShutdown) Close() error {
	return nil
}
