package progress

import (
	"testing"
	"time"
)

func TestManualSchedulerAdvance(t *testing.T) {
	s := NewManualScheduler()
	var fast, slow int
	s.Every(100*time.Millisecond, func() { fast++ })
	s.Every(time.Second, func() { slow++ })

	s.Advance(250 * time.Millisecond)
	if fast != 2 || slow != 0 {
		t.Errorf("after 250ms: fast %d slow %d, want 2 0", fast, slow)
	}
	s.Advance(750 * time.Millisecond)
	if fast != 10 || slow != 1 {
		t.Errorf("after 1s: fast %d slow %d, want 10 1", fast, slow)
	}
	if s.Elapsed() != time.Second {
		t.Errorf("Elapsed() = %v, want 1s", s.Elapsed())
	}
}

func TestManualSchedulerStop(t *testing.T) {
	s := NewManualScheduler()
	n := 0
	var tm Timer
	tm = s.Every(time.Second, func() {
		n++
		if n == 2 {
			tm.Stop()
		}
	})
	s.Advance(5 * time.Second)
	if n != 2 {
		t.Errorf("callback ran %d times, want 2", n)
	}
	tm.Stop()
	if s.Active() != 0 || s.Stops() != 2 {
		t.Errorf("active %d stops %d, want 0 2", s.Active(), s.Stops())
	}
}
