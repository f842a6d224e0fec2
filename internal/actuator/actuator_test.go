package actuator

import (
	"errors"
	"testing"
	"time"

	"github.com/gambit-robotics/cm5-sentinel/internal/logic"
)

func event(t logic.EventType, s logic.State) logic.Event {
	return logic.Event{
		Timestamp: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		Type:      t,
		State:     s,
		Reason:    "value 85.0 >= 80.0",
	}
}

func TestDisplayRotatorTransforms(t *testing.T) {
	run := &FakeRunner{}
	d := NewDisplayRotator(run, "HDMI-A-1")

	if err := d.Apply(event(logic.EventTransition, logic.StatePositive)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Apply(event(logic.EventTransition, logic.StateNegative)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(run.Commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(run.Commands))
	}

	want := [][]string{
		{"wlr-randr", "--output", "HDMI-A-1", "--transform", "180"},
		{"wlr-randr", "--output", "HDMI-A-1", "--transform", "normal"},
	}
	for i, w := range want {
		got := run.Commands[i]
		if len(got) != len(w) {
			t.Fatalf("command %d: expected %v, got %v", i, w, got)
		}
		for j := range w {
			if got[j] != w[j] {
				t.Errorf("command %d arg %d: expected %q, got %q", i, j, w[j], got[j])
			}
		}
	}
}

func TestDisplayRotatorIgnoresOtherEvents(t *testing.T) {
	run := &FakeRunner{}
	d := NewDisplayRotator(run, "HDMI-A-1")

	d.Apply(event(logic.EventWarningRaised, logic.StateWarning))
	d.Apply(event(logic.EventShutdownRequested, logic.StateShutdown))
	d.Apply(event(logic.EventDegraded, ""))

	if len(run.Commands) != 0 {
		t.Errorf("expected no commands for non-transition events, got %v", run.Commands)
	}
}

func TestDisplayRotatorWrapsRunError(t *testing.T) {
	run := &FakeRunner{RunError: errors.New("no wayland session")}
	d := NewDisplayRotator(run, "HDMI-A-1")

	err := d.Apply(event(logic.EventTransition, logic.StatePositive))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestDelayedShutdownFiresOnlyOnShutdownRequested(t *testing.T) {
	run := &FakeRunner{}
	d := NewDelayedShutdown(run, 1)

	d.Apply(event(logic.EventTransition, logic.StatePositive))
	d.Apply(event(logic.EventWarningRaised, logic.StateWarning))
	if len(run.Commands) != 0 {
		t.Fatalf("expected no commands yet, got %v", run.Commands)
	}

	if err := d.Apply(event(logic.EventShutdownRequested, logic.StateShutdown)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(run.Commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(run.Commands))
	}

	cmd := run.Commands[0]
	if cmd[0] != "shutdown" || cmd[1] != "-h" || cmd[2] != "+1" {
		t.Errorf("unexpected shutdown invocation: %v", cmd)
	}
	if cmd[3] != "Safety shutdown: value 85.0 >= 80.0" {
		t.Errorf("unexpected shutdown message: %q", cmd[3])
	}
}

func TestDelayedShutdownDelayFloor(t *testing.T) {
	run := &FakeRunner{}
	d := NewDelayedShutdown(run, 0)

	d.Apply(event(logic.EventShutdownRequested, logic.StateShutdown))
	if run.Commands[0][2] != "+1" {
		t.Errorf("expected minimum +1 delay, got %q", run.Commands[0][2])
	}
}

func TestVolumeControlSteps(t *testing.T) {
	run := &FakeRunner{}
	v := NewVolumeControl(run, "Master", 5)

	v.Apply(event(logic.EventTransition, logic.StatePositive))
	v.Apply(event(logic.EventTransition, logic.StateNegative))
	v.Apply(event(logic.EventWarningRaised, logic.StateWarning))

	if len(run.Commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(run.Commands))
	}
	if run.Commands[0][3] != "5%+" {
		t.Errorf("expected 5%%+ step up, got %q", run.Commands[0][3])
	}
	if run.Commands[1][3] != "5%-" {
		t.Errorf("expected 5%%- step down, got %q", run.Commands[1][3])
	}
}

func TestMultiFansOut(t *testing.T) {
	a := NewFakeActuator()
	b := NewFakeActuator()
	m := NewMulti(a, b)

	ev := event(logic.EventWarningRaised, logic.StateWarning)
	if err := m.Apply(ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(a.Applied) != 1 || len(b.Applied) != 1 {
		t.Errorf("expected event delivered to both, got %d and %d", len(a.Applied), len(b.Applied))
	}
}

func TestMultiCollectsErrorsWithoutShortCircuit(t *testing.T) {
	broken := NewFakeActuator()
	broken.ApplyError = errors.New("actuator offline")
	healthy := NewFakeActuator()
	m := NewMulti(broken, healthy)

	err := m.Apply(event(logic.EventShutdownRequested, logic.StateShutdown))
	if err == nil {
		t.Fatal("expected joined error")
	}
	if len(healthy.Applied) != 1 {
		t.Error("healthy actuator should still receive the event")
	}
}

func TestMultiClose(t *testing.T) {
	a := NewFakeActuator()
	b := NewFakeActuator()
	m := NewMulti(a, b)

	if err := m.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.Closed || !b.Closed {
		t.Error("expected both actuators closed")
	}
}
