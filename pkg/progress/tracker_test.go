package progress

import (
	"testing"
	"time"

	"github.com/matzehuels/mosaic/pkg/errors"
)

func newTracker(t *testing.T, total int, opts Options) (*Tracker, *ManualScheduler) {
	t.Helper()
	s := NewManualScheduler()
	tr, err := NewTracker(total, s, opts)
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}
	return tr, s
}

func TestThresholdScenario(t *testing.T) {
	completions := 0
	tr, s := newTracker(t, 100, Options{OnComplete: func() { completions++ }})

	for i := 0; i < 94; i++ {
		tr.OnUnitRevealed(1)
	}
	if tr.IsComplete() {
		t.Fatal("complete after 94 of 100 units")
	}
	if got := tr.CoveragePercent(); got != 94 {
		t.Errorf("CoveragePercent() = %d, want 94", got)
	}

	tr.OnUnitRevealed(1)
	if !tr.IsComplete() {
		t.Fatal("not complete after 95 of 100 units")
	}
	if got := tr.CoveragePercent(); got != 100 {
		t.Errorf("CoveragePercent() = %d, want 100", got)
	}
	if completions != 1 {
		t.Errorf("OnComplete ran %d times, want 1", completions)
	}
	if s.Active() != 0 || s.Stops() != 1 {
		t.Errorf("timer active %d, stops %d; want 0 and 1", s.Active(), s.Stops())
	}

	// Completion is final.
	tr.OnUnitRevealed(3)
	if tr.Revealed() != 95 || completions != 1 || s.Stops() != 1 {
		t.Errorf("tracker changed after completion: revealed %d, completions %d, stops %d",
			tr.Revealed(), completions, s.Stops())
	}
}

func TestPercentIsFloored(t *testing.T) {
	tr, _ := newTracker(t, 3, Options{Threshold: 100})
	tr.OnUnitRevealed(1)
	if got := tr.CoveragePercent(); got != 33 {
		t.Errorf("CoveragePercent() = %d, want 33", got)
	}
	tr.OnUnitRevealed(1)
	if got := tr.CoveragePercent(); got != 66 {
		t.Errorf("CoveragePercent() = %d, want 66", got)
	}
}

func TestCoverageMonotonic(t *testing.T) {
	tr, s := newTracker(t, 37, Options{})
	prev := 0
	for i := 0; i < 60; i++ {
		tr.OnUnitRevealed(i % 3)
		if i%5 == 0 {
			s.Advance(time.Second)
		}
		got := tr.CoveragePercent()
		if got < prev || got > 100 {
			t.Fatalf("step %d: coverage %d after %d", i, got, prev)
		}
		prev = got
	}
	if !tr.IsComplete() {
		t.Error("tracker should be complete")
	}
}

func TestRateWindow(t *testing.T) {
	tr, s := newTracker(t, 1000, Options{})

	tr.OnUnitRevealed(4)
	tr.OnUnitRevealed(2)
	if got := tr.RevealRatePerSecond(); got != 0 {
		t.Errorf("rate before first tick = %v, want 0", got)
	}
	s.Advance(time.Second)
	if got := tr.RevealRatePerSecond(); got != 6 {
		t.Errorf("rate = %v, want 6", got)
	}
	s.Advance(time.Second)
	if got := tr.RevealRatePerSecond(); got != 0 {
		t.Errorf("rate after idle second = %v, want 0", got)
	}
}

func TestRateScalesToSeconds(t *testing.T) {
	tr, s := newTracker(t, 1000, Options{Interval: 500 * time.Millisecond})
	tr.OnUnitRevealed(5)
	s.Advance(500 * time.Millisecond)
	if got := tr.RevealRatePerSecond(); got != 10 {
		t.Errorf("rate = %v, want 10", got)
	}
}

func TestNewTrackerErrors(t *testing.T) {
	s := NewManualScheduler()
	tests := []struct {
		name  string
		total int
		opts  Options
		code  errors.Code
	}{
		{"zero total", 0, Options{}, errors.ErrCodeInvalidInput},
		{"threshold too high", 10, Options{Threshold: 101}, errors.ErrCodeInvalidConfig},
		{"negative threshold", 10, Options{Threshold: -5}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTracker(tt.total, s, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSnapshot(t *testing.T) {
	tr, _ := newTracker(t, 10, Options{Threshold: 50})
	tr.OnUnitRevealed(2)
	want := Snapshot{Revealed: 2, Total: 10, Percent: 20}
	if got := tr.Snapshot(); got != want {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}
}
