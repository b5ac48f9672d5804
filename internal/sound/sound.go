// Package sound turns simulation events into short synthesized tones.
package sound

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Garsondee/Squad-Arena/internal/game"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Tone is one pitched blip.
type Tone struct {
	Freq     float64
	Duration time.Duration
	Volume   float64 // linear, 0..1
}

var (
	attackTone = Tone{Freq: 880, Duration: 30 * time.Millisecond, Volume: 0.15}
	deathTone  = Tone{Freq: 220, Duration: 120 * time.Millisecond, Volume: 0.4}
	wonTones   = []Tone{
		{Freq: 523.25, Duration: 120 * time.Millisecond, Volume: 0.5},
		{Freq: 659.25, Duration: 120 * time.Millisecond, Volume: 0.5},
		{Freq: 783.99, Duration: 240 * time.Millisecond, Volume: 0.5},
	}
	lostTones = []Tone{
		{Freq: 392, Duration: 180 * time.Millisecond, Volume: 0.5},
		{Freq: 261.63, Duration: 360 * time.Millisecond, Volume: 0.5},
	}
)

// TonesFor maps an event to the tones it should play. Most state changes
// are silent.
func TonesFor(ev game.Event) []Tone {
	switch ev.Kind {
	case game.EventAttack:
		return []Tone{attackTone}
	case game.EventUnitDied:
		t := deathTone
		if ev.Team == game.TeamPlayer {
			t.Freq = 165
		}
		return []Tone{t}
	case game.EventRoundState:
		switch ev.State {
		case game.StateWon:
			return wonTones
		case game.StateLost:
			return lostTones
		}
	}
	return nil
}

// Streamer renders tones back to back.
func Streamer(rate beep.SampleRate, tones []Tone) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		sine, err := generators.SineTone(rate, t.Freq)
		if err != nil {
			return nil, fmt.Errorf("tone %.0fHz: %w", t.Freq, err)
		}
		parts = append(parts, withVolume(beep.Take(rate.N(t.Duration), sine), t.Volume))
	}
	return beep.Seq(parts...), nil
}

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Manager owns the speaker and a mixer that event tones are added to.
type Manager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool

	// attacks are throttled so a melee of dozens of units stays audible
	lastAttack time.Time
}

// NewManager creates an uninitialized manager. Play calls are no-ops until
// Initialize succeeds.
func NewManager() *Manager {
	return &Manager{mixer: &beep.Mixer{}}
}

// Initialize opens the audio device.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)
	m.initialized = true
	return nil
}

// Play queues the tones for each event.
func (m *Manager) Play(events []game.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	now := time.Now()
	for _, ev := range events {
		if ev.Kind == game.EventAttack {
			if now.Sub(m.lastAttack) < 50*time.Millisecond {
				continue
			}
			m.lastAttack = now
		}
		tones := TonesFor(ev)
		if len(tones) == 0 {
			continue
		}
		s, err := Streamer(sampleRate, tones)
		if err != nil {
			continue
		}
		speaker.Lock()
		m.mixer.Add(s)
		speaker.Unlock()
	}
}

// Close stops playback.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Lock()
	m.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	m.initialized = false
}
