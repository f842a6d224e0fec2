package logic

// FailureTracker counts consecutive sensor read failures. Crossing the
// ceiling marks the sensor degraded exactly once per unbroken failure run;
// any success resets the counter. A degraded sensor never triggers actuation
// on its own — the hardware may simply be unplugged, and acting on its
// absence would be worse than staying silent.
type FailureTracker struct {
	ceiling  int
	count    int
	degraded bool
}

// NewFailureTracker creates a tracker with the given ceiling. Ceilings below
// 1 act as 1.
func NewFailureTracker(ceiling int) *FailureTracker {
	if ceiling < 1 {
		ceiling = 1
	}
	return &FailureTracker{ceiling: ceiling}
}

// Fail records one failed read. It returns true exactly when the failure run
// first reaches the ceiling.
func (t *FailureTracker) Fail() bool {
	t.count++
	if t.count >= t.ceiling && !t.degraded {
		t.degraded = true
		return true
	}
	return false
}

// Success records a successful read, resetting the counter. It returns true
// if the tracker was degraded, i.e. this read ends a degraded run.
func (t *FailureTracker) Success() bool {
	was := t.degraded
	t.count = 0
	t.degraded = false
	return was
}

// Count returns the current consecutive failure count.
func (t *FailureTracker) Count() int {
	return t.count
}

// Degraded reports whether the current failure run has reached the ceiling.
func (t *FailureTracker) Degraded() bool {
	return t.degraded
}

// Ceiling returns the configured failure ceiling.
func (t *FailureTracker) Ceiling() int {
	return t.ceiling
}
