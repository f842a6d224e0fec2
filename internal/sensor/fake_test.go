package sensor

import (
	"errors"
	"testing"
)

func TestFakeSensorRead(t *testing.T) {
	f := Values(1.5, -2.0, 3.0)

	want := []float64{1.5, -2.0, 3.0}
	for i, w := range want {
		s, err := f.Read()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if s.Value != w {
			t.Errorf("sample %d: expected %v, got %v", i, w, s.Value)
		}
	}

	// Exhausted samples repeat the last one.
	s, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Value != 3.0 {
		t.Errorf("expected repeated last sample 3.0, got %v", s.Value)
	}
}

func TestFakeSensorScriptedError(t *testing.T) {
	readErr := errors.New("simulated i2c failure")
	f := NewFakeSensor(
		FakeSample{Value: 1.0},
		FakeSample{Err: readErr},
		FakeSample{Value: 2.0},
	)

	if _, err := f.Read(); err != nil {
		t.Fatalf("unexpected error on first read: %v", err)
	}
	if _, err := f.Read(); !errors.Is(err, readErr) {
		t.Fatalf("expected scripted error, got %v", err)
	}
	s, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error after scripted failure: %v", err)
	}
	if s.Value != 2.0 {
		t.Errorf("expected 2.0 after failure, got %v", s.Value)
	}
}

func TestFakeSensorInhibit(t *testing.T) {
	f := NewFakeSensor(FakeSample{Value: 4.0, Inhibit: true})

	s, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Inhibit {
		t.Error("expected inhibit bit to be carried through")
	}
}

func TestFakeSensorNoSamples(t *testing.T) {
	f := NewFakeSensor()
	if _, err := f.Read(); err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeSensorCloseAndReset(t *testing.T) {
	f := Values(1.0, 2.0)

	f.Read()
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	if f.Closed {
		t.Error("reset should clear closed flag")
	}
	s, _ := f.Read()
	if s.Value != 1.0 {
		t.Errorf("after reset: expected 1.0, got %v", s.Value)
	}
}
