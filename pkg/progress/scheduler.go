package progress

import (
	"sort"
	"time"
)

// Timer is a handle on a periodic callback.
type Timer interface {
	// Stop cancels the callback. It must be safe to call more than once.
	Stop()
}

// Scheduler runs periodic callbacks on the caller's event loop.
//
// Implementations must never run fn concurrently with other puzzle calls;
// the tracker relies on that instead of locking.
type Scheduler interface {
	Every(d time.Duration, fn func()) Timer
}

// ManualScheduler fires callbacks only when time is advanced by hand.
// It drives tests and headless replays.
type ManualScheduler struct {
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	seq      int
	every    time.Duration
	next     time.Duration
	fn       func()
	stopped  bool
	stopping int
}

func (t *manualTask) Stop() {
	t.stopping++
	t.stopped = true
}

// NewManualScheduler creates a scheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Every registers fn to run every d of advanced time.
func (m *ManualScheduler) Every(d time.Duration, fn func()) Timer {
	m.seq++
	t := &manualTask{seq: m.seq, every: d, next: m.now + d, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Advance moves time forward by d, firing due callbacks in time order.
// A callback due several times within d fires that many times.
func (m *ManualScheduler) Advance(d time.Duration) {
	end := m.now + d
	for {
		t := m.due(end)
		if t == nil {
			break
		}
		m.now = t.next
		t.next += t.every
		t.fn()
	}
	m.now = end
}

func (m *ManualScheduler) due(end time.Duration) *manualTask {
	var live []*manualTask
	for _, t := range m.tasks {
		if !t.stopped && t.every > 0 && t.next <= end {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].next != live[j].next {
			return live[i].next < live[j].next
		}
		return live[i].seq < live[j].seq
	})
	return live[0]
}

// Elapsed returns the total advanced time.
func (m *ManualScheduler) Elapsed() time.Duration { return m.now }

// Active returns the number of callbacks that have not been stopped.
func (m *ManualScheduler) Active() int {
	n := 0
	for _, t := range m.tasks {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Stops returns how many times Stop was called across all timers.
func (m *ManualScheduler) Stops() int {
	n := 0
	for _, t := range m.tasks {
		n += t.stopping
	}
	return n
}
