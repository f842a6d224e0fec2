package mqtt

import (
	"fmt"
	"testing"
)

func msg(i int) bufferedMsg {
	return bufferedMsg{
		topic:   "gambit/sentinel/test/events",
		payload: []byte(fmt.Sprintf("msg-%d", i)),
		qos:     1,
	}
}

func TestRingBufferPushDrain(t *testing.T) {
	r := newRingBuffer(4)

	r.push(msg(1))
	r.push(msg(2))
	if r.len() != 2 {
		t.Fatalf("expected len 2, got %d", r.len())
	}

	out := r.drainAll()
	if len(out) != 2 {
		t.Fatalf("expected 2 drained, got %d", len(out))
	}
	if string(out[0].payload) != "msg-1" || string(out[1].payload) != "msg-2" {
		t.Errorf("wrong order: %s, %s", out[0].payload, out[1].payload)
	}
	if r.len() != 0 {
		t.Errorf("expected empty after drain, got %d", r.len())
	}
}

func TestRingBufferOverflowDropsOldest(t *testing.T) {
	r := newRingBuffer(3)

	for i := 1; i <= 5; i++ {
		r.push(msg(i))
	}
	if r.len() != 3 {
		t.Fatalf("expected len capped at 3, got %d", r.len())
	}

	out := r.drainAll()
	want := []string{"msg-3", "msg-4", "msg-5"}
	for i, w := range want {
		if string(out[i].payload) != w {
			t.Errorf("index %d: expected %s, got %s", i, w, out[i].payload)
		}
	}
}

func TestRingBufferDrainEmpty(t *testing.T) {
	r := newRingBuffer(2)
	if out := r.drainAll(); out != nil {
		t.Errorf("expected nil for empty drain, got %v", out)
	}
}

func TestRingBufferReuseAfterDrain(t *testing.T) {
	r := newRingBuffer(2)
	r.push(msg(1))
	r.drainAll()

	r.push(msg(2))
	out := r.drainAll()
	if len(out) != 1 || string(out[0].payload) != "msg-2" {
		t.Errorf("unexpected contents after reuse: %v", out)
	}
}
