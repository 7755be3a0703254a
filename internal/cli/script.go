package cli

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/reveal"
)

// Script is a recorded gesture session.
//
//	input = "pointer"
//	interval_ms = 16
//
//	[[stroke]]
//	points = [[2.0, 8.0], [62.0, 8.0]]
//	exit_to = "outside"
type Script struct {
	// Input is "pointer" (default) or "touch".
	Input string `toml:"input"`
	// IntervalMS is the time between two points.
	IntervalMS int      `toml:"interval_ms"`
	Strokes    []Stroke `toml:"stroke"`
}

// Stroke is one continuous gesture.
type Stroke struct {
	Points [][]float64 `toml:"points"`
	// ExitTo is the target the pointer leaves for when the stroke ends.
	// Defaults to "outside", which ends the gesture.
	ExitTo     string `toml:"exit_to"`
	IntervalMS int    `toml:"interval_ms"`
}

const (
	defaultIntervalMS = 16
	defaultExitTarget = "outside"
)

// loadScript reads and validates a gesture script.
func loadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "script %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return parseScript(string(data))
}

func parseScript(data string) (*Script, error) {
	var s Script
	if _, err := toml.Decode(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse script")
	}
	switch s.Input {
	case "":
		s.Input = string(reveal.InputPointer)
	case string(reveal.InputPointer), string(reveal.InputTouch):
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown input %q (want pointer or touch)", s.Input)
	}
	if s.IntervalMS <= 0 {
		s.IntervalMS = defaultIntervalMS
	}
	if len(s.Strokes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "script has no strokes")
	}
	for i := range s.Strokes {
		st := &s.Strokes[i]
		for j, p := range st.Points {
			if len(p) != 2 {
				return nil, errors.New(errors.ErrCodeInvalidInput, "stroke %d point %d: want [x, y], got %d values", i+1, j+1, len(p))
			}
		}
		if st.ExitTo == "" {
			st.ExitTo = defaultExitTarget
		}
		if st.IntervalMS <= 0 {
			st.IntervalMS = s.IntervalMS
		}
	}
	return &s, nil
}

// points converts a stroke to engine points.
func (st Stroke) points() []reveal.Point {
	pts := make([]reveal.Point, len(st.Points))
	for i, p := range st.Points {
		pts[i] = reveal.Point{X: p[0], Y: p[1]}
	}
	return pts
}

func (st Stroke) interval() time.Duration {
	return time.Duration(st.IntervalMS) * time.Millisecond
}
