package logic

import "testing"

func TestFailureTrackerDegradedOnceAtCeiling(t *testing.T) {
	ft := NewFailureTracker(5)

	for i := 0; i < 4; i++ {
		if ft.Fail() {
			t.Fatalf("degraded before ceiling at failure %d", i+1)
		}
	}
	if !ft.Fail() {
		t.Fatal("expected degraded at 5th consecutive failure")
	}
	if !ft.Degraded() {
		t.Error("tracker should report degraded")
	}

	// Further failures in the same run do not re-signal.
	for i := 0; i < 10; i++ {
		if ft.Fail() {
			t.Fatalf("degraded signalled again at failure %d", 6+i)
		}
	}
}

func TestFailureTrackerResetOnSuccess(t *testing.T) {
	ft := NewFailureTracker(5)

	ft.Fail()
	ft.Fail()
	ft.Fail()
	if ft.Count() != 3 {
		t.Errorf("expected count 3, got %d", ft.Count())
	}

	if ft.Success() {
		t.Error("success below ceiling should not report recovery")
	}
	if ft.Count() != 0 {
		t.Errorf("expected count reset to 0, got %d", ft.Count())
	}
}

func TestFailureTrackerRecovery(t *testing.T) {
	ft := NewFailureTracker(3)

	ft.Fail()
	ft.Fail()
	ft.Fail()
	if !ft.Degraded() {
		t.Fatal("expected degraded")
	}

	if !ft.Success() {
		t.Error("expected recovery signal on first success after degraded run")
	}
	if ft.Degraded() {
		t.Error("tracker should no longer be degraded")
	}

	// A fresh failure run signals degraded again at the ceiling.
	ft.Fail()
	ft.Fail()
	if ft.Fail() != true {
		t.Error("expected degraded on new run reaching ceiling")
	}
}

func TestFailureTrackerCeilingFloor(t *testing.T) {
	ft := NewFailureTracker(0)
	if !ft.Fail() {
		t.Error("ceiling 0 should act as 1: first failure degrades")
	}
}
