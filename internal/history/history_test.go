package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTest(t *testing.T, instance string) *Recorder {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "history.db"), instance)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRecordAndRecent(t *testing.T) {
	r := openTest(t, "pct2075")
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i, v := range []float64{21.5, 22.0, 22.5} {
		if err := r.Record(ctx, v, false, base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	rows, err := r.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	// Newest first.
	if rows[0].Value != 22.5 || rows[2].Value != 21.5 {
		t.Errorf("unexpected order: %+v", rows)
	}
}

func TestRecentLimit(t *testing.T) {
	r := openTest(t, "ina219")
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 5; i++ {
		if err := r.Record(ctx, float64(i), i%2 == 0, base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	rows, err := r.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(rows))
	}
}

func TestInstancesIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	a, err := Open(path, "pct2075")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer a.Close()

	if err := a.Record(ctx, 25, false, time.Now()); err != nil {
		t.Fatalf("record: %v", err)
	}

	b, err := Open(path, "ina219")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer b.Close()

	rows, err := b.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows for other instance, got %d", len(rows))
	}
}

func TestPrune(t *testing.T) {
	r := openTest(t, "pct2075")
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	if err := r.Record(ctx, 20, false, old); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := r.Record(ctx, 21, false, time.Now()); err != nil {
		t.Fatalf("record: %v", err)
	}

	if err := r.Prune(ctx, 24*time.Hour); err != nil {
		t.Fatalf("prune: %v", err)
	}

	rows, err := r.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 1 || rows[0].Value != 21 {
		t.Errorf("expected only the fresh sample, got %+v", rows)
	}
}

func TestInhibitRoundTrip(t *testing.T) {
	r := openTest(t, "ina219")
	ctx := context.Background()

	if err := r.Record(ctx, 80, true, time.Now()); err != nil {
		t.Fatalf("record: %v", err)
	}
	rows, err := r.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 1 || !rows[0].Inhibit {
		t.Errorf("expected inhibit preserved, got %+v", rows)
	}
}
