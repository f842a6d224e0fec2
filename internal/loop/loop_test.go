package loop

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/gambit-robotics/cm5-sentinel/internal/actuator"
	"github.com/gambit-robotics/cm5-sentinel/internal/history"
	"github.com/gambit-robotics/cm5-sentinel/internal/logic"
	"github.com/gambit-robotics/cm5-sentinel/internal/mqtt"
	"github.com/gambit-robotics/cm5-sentinel/internal/sensor"
	"github.com/gambit-robotics/cm5-sentinel/internal/status"
)

// clock is a deterministic time source advancing by step on every call.
type clock struct {
	t    time.Time
	step time.Duration
}

func newClock(step time.Duration) *clock {
	return &clock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), step: step}
}

func (c *clock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func tempEngine(hold int) *logic.ThresholdEngine {
	return logic.NewThresholdEngine(logic.ThresholdPolicy{
		Warning:   70,
		Shutdown:  80,
		Deadband:  2,
		HoldCount: hold,
		Sense:     logic.SenseHigh,
	})
}

// drive runs the loop on a goroutine, feeds it n ticks over unbuffered
// channels so processing is strictly sequential, then signals shutdown.
func drive(t *testing.T, l *Loop, now func() time.Time, n int) {
	t.Helper()
	tick := make(chan time.Time)
	sig := make(chan os.Signal)
	done := make(chan error, 1)

	go func() { done <- l.Run(now, tick, sig) }()

	for i := 0; i < n; i++ {
		tick <- time.Time{}
	}
	sig <- syscall.SIGTERM

	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
}

func newLoop(sens sensor.Sensor, eng logic.Engine) (*Loop, *actuator.FakeActuator, *mqtt.FakePublisher, *status.Tracker) {
	act := actuator.NewFakeActuator()
	pub := mqtt.NewFakePublisher()
	pub.Connected = true
	tracker := status.NewTracker(time.Now(), status.Config{Instance: "pct2075", Unit: "C"})

	l := &Loop{
		Config:     Config{Instance: "pct2075", Unit: "C", MaxFailures: 5},
		Sensor:     sens,
		Engine:     eng,
		Actuator:   act,
		Publisher:  pub,
		MQTTStatus: pub,
		Tracker:    tracker,
	}
	return l, act, pub, tracker
}

func eventTypes(events []logic.Event) []logic.EventType {
	var out []logic.EventType
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func TestWarningThenClear(t *testing.T) {
	sens := sensor.Values(65, 75, 75, 60, 60)
	l, act, pub, tracker := newLoop(sens, tempEngine(2))

	drive(t, l, newClock(time.Second).now, 5)

	want := []logic.EventType{logic.EventWarningRaised, logic.EventWarningCleared}
	got := eventTypes(pub.Events)
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, got)
		}
	}

	if len(act.Applied) != 2 {
		t.Errorf("expected 2 actuator applications, got %d", len(act.Applied))
	}

	snap := tracker.Snapshot()
	if snap.State != logic.StateNormal {
		t.Errorf("expected NORMAL, got %s", snap.State)
	}
	if snap.Counts.Warnings != 1 {
		t.Errorf("expected 1 warning counted, got %d", snap.Counts.Warnings)
	}
	if snap.LastValue != 60 {
		t.Errorf("expected last value 60, got %v", snap.LastValue)
	}
	if !snap.MQTTConnected {
		t.Error("expected MQTT connected in tracker")
	}
}

func TestShutdownRequestedOnce(t *testing.T) {
	sens := sensor.Values(85, 85, 85, 85)
	l, act, pub, tracker := newLoop(sens, tempEngine(2))

	drive(t, l, newClock(time.Second).now, 4)

	got := eventTypes(pub.Events)
	if len(got) != 1 || got[0] != logic.EventShutdownRequested {
		t.Fatalf("expected single SHUTDOWN_REQUESTED, got %v", got)
	}
	if len(act.Applied) != 1 {
		t.Errorf("expected 1 actuator application, got %d", len(act.Applied))
	}
	if snap := tracker.Snapshot(); snap.Counts.Shutdowns != 1 {
		t.Errorf("expected 1 shutdown counted, got %d", snap.Counts.Shutdowns)
	}
}

func TestDegradedThenRecovered(t *testing.T) {
	readErr := errors.New("i2c: no such device")
	sens := sensor.NewFakeSensor(
		sensor.FakeSample{Err: readErr},
		sensor.FakeSample{Err: readErr},
		sensor.FakeSample{Value: 50},
	)
	l, _, pub, tracker := newLoop(sens, tempEngine(1))
	l.Config.MaxFailures = 2

	drive(t, l, newClock(time.Second).now, 3)

	got := eventTypes(pub.Events)
	want := []logic.EventType{logic.EventDegraded, logic.EventRecovered}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if pub.Events[0].Reason != readErr.Error() {
		t.Errorf("expected degraded reason %q, got %q", readErr.Error(), pub.Events[0].Reason)
	}

	snap := tracker.Snapshot()
	if snap.Degraded {
		t.Error("expected tracker healthy after recovery")
	}
	if snap.Counts.Degraded != 1 {
		t.Errorf("expected 1 degraded run counted, got %d", snap.Counts.Degraded)
	}
}

func TestFailuresBelowCeilingStaySilent(t *testing.T) {
	readErr := errors.New("i2c: timeout")
	sens := sensor.NewFakeSensor(
		sensor.FakeSample{Err: readErr},
		sensor.FakeSample{Value: 50},
	)
	l, _, pub, _ := newLoop(sens, tempEngine(1))
	l.Config.MaxFailures = 5

	drive(t, l, newClock(time.Second).now, 2)

	if len(pub.Events) != 0 {
		t.Errorf("expected no events, got %v", eventTypes(pub.Events))
	}
}

func TestShutdownEventPublishedOnSignal(t *testing.T) {
	sens := sensor.Values(25)
	l, _, pub, _ := newLoop(sens, tempEngine(1))

	drive(t, l, newClock(time.Second).now, 1)

	if len(pub.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(pub.SystemEvents))
	}
	ev := pub.SystemEvents[0]
	if ev.Event != "SHUTDOWN" || ev.Reason != "SIGTERM" || !ev.Retained {
		t.Errorf("unexpected shutdown event: %+v", ev)
	}
	payload := string(pub.SystemPayloads[0])
	if !strings.Contains(payload, `"event":"SHUTDOWN"`) || !strings.Contains(payload, `"instance":"pct2075"`) {
		t.Errorf("unexpected shutdown payload: %s", payload)
	}
}

func TestHeartbeat(t *testing.T) {
	sens := sensor.Values(25)
	l, _, pub, _ := newLoop(sens, tempEngine(1))
	l.Config.Heartbeat = 5 * time.Second

	drive(t, l, newClock(3*time.Second).now, 3)

	var heartbeats int
	for _, ev := range pub.SystemEvents {
		if ev.Event == "HEARTBEAT" {
			heartbeats++
		}
	}
	if heartbeats != 1 {
		t.Errorf("expected 1 heartbeat, got %d", heartbeats)
	}
}

func TestHistoryRecording(t *testing.T) {
	rec, err := history.Open(filepath.Join(t.TempDir(), "history.db"), "pct2075")
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer rec.Close()

	sens := sensor.Values(24, 26)
	l, _, _, _ := newLoop(sens, tempEngine(1))
	l.History = rec

	drive(t, l, newClock(time.Second).now, 2)

	rows, err := rec.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(rows))
	}
	if rows[0].Value != 26 {
		t.Errorf("expected newest value 26, got %v", rows[0].Value)
	}
}

func TestActuatorErrorDoesNotStopLoop(t *testing.T) {
	sens := sensor.Values(85, 85)
	l, act, pub, _ := newLoop(sens, tempEngine(1))
	act.ApplyError = errors.New("wlr-randr: exit status 1")

	drive(t, l, newClock(time.Second).now, 2)

	// The event still reached MQTT and the loop kept polling.
	if len(pub.Events) != 1 {
		t.Errorf("expected 1 published event, got %d", len(pub.Events))
	}
	if len(act.Applied) != 1 {
		t.Errorf("expected 1 apply attempt, got %d", len(act.Applied))
	}
}
