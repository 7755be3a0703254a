// Package chime synthesizes the short sounds played while solving a puzzle.
//
// Sounds are generated, not loaded: a sine oscillator shaped by a linear
// attack/release envelope. [Player] owns the speaker.
package chime

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// SampleRate is the output rate of every generated sound.
const SampleRate = beep.SampleRate(44100)

type tone struct {
	freq     float64
	phase    float64
	position int
	length   int
	attack   int
	release  int
}

// Tone returns a sine at freq lasting d, faded in over attack and out over
// release.
func Tone(freq float64, d, attack, release time.Duration) beep.Streamer {
	return &tone{
		freq:    freq,
		length:  SampleRate.N(d),
		attack:  SampleRate.N(attack),
		release: SampleRate.N(release),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.length {
			return i, i > 0
		}
		vol := 1.0
		if t.attack > 0 && t.position < t.attack {
			vol = float64(t.position) / float64(t.attack)
		}
		if left := t.length - t.position; t.release > 0 && left < t.release {
			vol = float64(left) / float64(t.release)
		}
		v := vol * math.Sin(2*math.Pi*t.phase)
		samples[i][0], samples[i][1] = v, v

		t.phase += t.freq / float64(SampleRate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// Completion is a rising C major arpeggio.
func Completion() beep.Streamer {
	note := func(freq float64) beep.Streamer {
		return Tone(freq, 140*time.Millisecond, 5*time.Millisecond, 60*time.Millisecond)
	}
	return volume(beep.Seq(note(1046.5), note(1318.5), note(1568.0),
		Tone(2093.0, 400*time.Millisecond, 5*time.Millisecond, 300*time.Millisecond)), 0.5)
}

// Reveal is a soft tick for a single revealed unit.
func Reveal() beep.Streamer {
	return volume(Tone(1760, 25*time.Millisecond, 2*time.Millisecond, 15*time.Millisecond), 0.15)
}

// volume scales s by a linear factor.
func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

// Player plays sounds on the system speaker.
type Player struct {
	mu    sync.Mutex
	ready bool
	mixer *beep.Mixer
}

// NewPlayer creates a player. The speaker is opened lazily on first Play.
func NewPlayer() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

func (p *Player) init() error {
	if p.ready {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.ready = true
	return nil
}

// Play mixes s into the output. It does not block.
func (p *Player) Play(s beep.Streamer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.init(); err != nil {
		return err
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
	return nil
}

// Close stops playback and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		speaker.Clear()
		speaker.Close()
		p.ready = false
	}
}
