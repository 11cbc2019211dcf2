package persist

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSaverCoalescesBursts(t *testing.T) {
	var calls atomic.Int32
	s := NewSaver(30*time.Millisecond, func() { calls.Add(1) })

	for i := 0; i < 10; i++ {
		s.Trigger()
		time.Sleep(2 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("saves = %d, want 1 for a single burst", got)
	}

	s.Trigger()
	time.Sleep(150 * time.Millisecond)
	if got := calls.Load(); got != 2 {
		t.Errorf("saves = %d, want 2 after a second burst", got)
	}
}

func TestSaverFlushRunsSynchronously(t *testing.T) {
	var calls atomic.Int32
	s := NewSaver(time.Hour, func() { calls.Add(1) })

	s.Trigger()
	s.Flush()
	if got := calls.Load(); got != 1 {
		t.Fatalf("saves = %d, want 1 immediately after Flush", got)
	}

	// The pending timer was cancelled; nothing fires later.
	time.Sleep(50 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("saves = %d after wait, want still 1", got)
	}
}

func TestSaverFlushWithoutPendingStillSaves(t *testing.T) {
	var calls atomic.Int32
	s := NewSaver(time.Hour, func() { calls.Add(1) })
	s.Flush()
	if got := calls.Load(); got != 1 {
		t.Errorf("saves = %d, want 1", got)
	}
}
