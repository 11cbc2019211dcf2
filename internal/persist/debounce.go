package persist

import (
	"sync"
	"time"
)

// DefaultSaveDebounce matches the write cadence of the editor: bursts of
// edits collapse into a single store write shortly after the burst ends.
const DefaultSaveDebounce = 300 * time.Millisecond

// Saver coalesces Trigger calls into trailing-edge invocations of save.
type Saver struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
	save  func()
}

func NewSaver(delay time.Duration, save func()) *Saver {
	if delay <= 0 {
		delay = DefaultSaveDebounce
	}
	return &Saver{delay: delay, save: save}
}

// Trigger schedules a save after the debounce window, resetting the window
// if one is already pending.
func (s *Saver) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		s.timer = nil
		s.mu.Unlock()
		s.save()
	})
}

// Flush cancels any pending timer and runs the save synchronously. Used on
// shutdown so the last burst of edits is not lost.
func (s *Saver) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.save()
}
