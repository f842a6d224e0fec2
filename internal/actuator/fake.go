package actuator

import "github.com/gambit-robotics/cm5-sentinel/internal/logic"

// FakeActuator records applied events for test assertions.
type FakeActuator struct {
	// Applied contains every event passed to Apply.
	Applied []logic.Event

	// ApplyError, if set, will be returned by Apply.
	ApplyError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeActuator creates a FakeActuator for testing.
func NewFakeActuator() *FakeActuator {
	return &FakeActuator{}
}

// Apply records the event.
func (f *FakeActuator) Apply(e logic.Event) error {
	f.Applied = append(f.Applied, e)
	return f.ApplyError
}

// Close marks the actuator as closed.
func (f *FakeActuator) Close() error {
	f.Closed = true
	return nil
}

// FakeRunner records executed commands for test assertions.
type FakeRunner struct {
	// Commands contains each invocation as [name, args...].
	Commands [][]string

	// RunError, if set, will be returned by Run.
	RunError error
}

// Run records the command.
func (f *FakeRunner) Run(name string, args ...string) error {
	f.Commands = append(f.Commands, append([]string{name}, args...))
	return f.RunError
}
