// Package actuator applies committed decision events to the outside world:
// display transforms, delayed shutdowns, mixer volume, a status LED.
// Each variant handles the event types it understands and ignores the rest,
// so a loop can fan events out without knowing what is wired.
package actuator

import (
	"fmt"
	"os/exec"

	"github.com/gambit-robotics/cm5-sentinel/internal/logic"
)

// Actuator applies a committed event. Apply failures are logged by the
// caller and never roll back engine state — the next differing transition
// retries naturally.
type Actuator interface {
	Apply(e logic.Event) error

	// Close performs the shutdown-time cleanup side effect (e.g. turning a
	// status LED off) and releases resources.
	Close() error
}

// Runner executes external commands. The real implementation shells out;
// tests substitute a recorder.
type Runner interface {
	Run(name string, args ...string) error
}

// ExecRunner runs commands via os/exec, folding output into the error.
type ExecRunner struct{}

// Run executes the command and waits for it.
func (ExecRunner) Run(name string, args ...string) error {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w (output: %s)", name, err, out)
	}
	return nil
}
