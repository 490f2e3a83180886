// SPDX-License-Identifier: EPL-2.0

package composition

import (
	"math"
	"time"
)

// DefaultTempo is used when a composition carries no usable tempo.
const DefaultTempo = 120.0

// DefaultVelocity replaces an absent (zero) note velocity.
const DefaultVelocity = 0.8

// Note is one pitched event. Pitch is scientific pitch notation such as
// "C4", "F#3" or "Bb5".
type Note struct {
	Pitch    string  `yaml:"pitch" json:"pitch"`
	Time     float64 `yaml:"time" json:"time"`
	Duration float64 `yaml:"duration" json:"duration"`
	// Velocity is on a 0..1 scale; values above 1 are read as MIDI 0..127.
	// Zero means unset.
	Velocity float64 `yaml:"velocity,omitempty" json:"velocity,omitempty"`
}

// Valid reports whether the note can be placed on a timeline: a non-empty
// pitch, a finite non-negative start and a finite positive duration.
func (n Note) Valid() bool {
	return n.Pitch != "" &&
		finite(n.Time) && n.Time >= 0 &&
		finite(n.Duration) && n.Duration > 0
}

// End returns the beat at which the note stops sounding.
func (n Note) End() float64 { return n.Time + n.Duration }

// Level returns the velocity on a 0..1 scale.
func (n Note) Level() float64 {
	v := n.Velocity
	switch {
	case !finite(v) || v == 0:
		return DefaultVelocity
	case v > 1:
		v /= 127
	}
	return math.Max(0, math.Min(1, v))
}

// Track is one instrument part. Instrument is a free-text label mapped to a
// General MIDI program by midi.InstrumentProgram. Volume is a percentage in
// 0..100 and, like Muted, is left to the renderer.
type Track struct {
	ID         string  `yaml:"id,omitempty" json:"id,omitempty"`
	Name       string  `yaml:"name" json:"name"`
	Instrument string  `yaml:"instrument" json:"instrument"`
	Volume     float64 `yaml:"volume,omitempty" json:"volume,omitempty"`
	Muted      bool    `yaml:"muted,omitempty" json:"muted,omitempty"`
	Notes      []Note  `yaml:"notes" json:"notes"`
}

// Composition is a whole piece: its tempo, optional key and scale, and the
// tracks to export. It is what Parse and Load return.
type Composition struct {
	Title       string  `yaml:"title" json:"title"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	TempoBPM    float64 `yaml:"bpm" json:"bpm"`
	Key         string  `yaml:"key,omitempty" json:"key,omitempty"`
	Scale       string  `yaml:"scale,omitempty" json:"scale,omitempty"`
	Tracks      []Track `yaml:"tracks" json:"tracks"`
}

// ValidTempo reports whether bpm is a usable tempo.
func ValidTempo(bpm float64) bool {
	return finite(bpm) && bpm > 0
}

// Tempo returns TempoBPM, or DefaultTempo when it is not usable.
func (c *Composition) Tempo() float64 {
	if !ValidTempo(c.TempoBPM) {
		return DefaultTempo
	}
	return c.TempoBPM
}

// Length returns the end of the last valid note, in beats.
func (c *Composition) Length() float64 {
	var end float64
	for _, t := range c.Tracks {
		for _, n := range t.Notes {
			if n.Valid() {
				end = math.Max(end, n.End())
			}
		}
	}
	return end
}

// Duration returns Length at the composition tempo.
func (c *Composition) Duration() time.Duration {
	seconds := c.Length() * 60 / c.Tempo()
	return time.Duration(seconds * float64(time.Second))
}

// NoteCount counts notes across all tracks, valid or not.
func (c *Composition) NoteCount() int {
	var n int
	for _, t := range c.Tracks {
		n += len(t.Notes)
	}
	return n
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
