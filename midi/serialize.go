// SPDX-License-Identifier: EPL-2.0

package midi

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"math"
	"slices"

	"github.com/ik5/scoreport/composition"
)

// DefaultTicksPerBeat is the file division used unless overridden.
const DefaultTicksPerBeat = 480

// NoteOffVelocity is the release velocity of every note-off.
const NoteOffVelocity = 64

// Channel voice status nibbles. Note-offs sort ahead of note-ons.
const (
	statusNoteOff       = 0x80
	statusNoteOn        = 0x90
	statusProgramChange = 0xC0
)

type options struct {
	logger   *slog.Logger
	division int
}

// Option configures Serialize.
type Option func(*options)

// WithLogger sets the logger for skipped notes and fallbacks.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTicksPerBeat sets the file division.
func WithTicksPerBeat(n int) Option {
	return func(o *options) {
		o.division = n
	}
}

// Serialize renders c as a Format 1 Standard MIDI File.
func Serialize(c *composition.Composition, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, c, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write is Serialize to an io.Writer. Nothing is written unless every track
// could be built; a failing w may still hold a partial file.
func Write(w io.Writer, c *composition.Composition, opts ...Option) error {
	if c == nil {
		return ErrNilComposition
	}

	o := options{logger: slog.Default(), division: DefaultTicksPerBeat}
	for _, opt := range opts {
		opt(&o)
	}

	bpm := c.TempoBPM
	if !composition.ValidTempo(bpm) {
		o.logger.Warn("invalid tempo, using default", "bpm", bpm, "default", composition.DefaultTempo)
		bpm = composition.DefaultTempo
	}

	if len(c.Tracks) > math.MaxUint16 {
		return fmt.Errorf("%w: %d", ErrTooManyTracks, len(c.Tracks))
	}

	f, err := NewFile(o.division)
	if err != nil {
		return err
	}

	s := serializer{opts: o}
	channels := channelAllocator{}

	for i := range c.Tracks {
		tr := &c.Tracks[i]

		var t Track
		t.Name(0, tr.Name)
		if i == 0 {
			t.Tempo(0, bpm)
		}

		ch := channels.next(tr.Instrument)
		if program, ok := InstrumentProgram(tr.Instrument); ok {
			t.Program(0, ch, byte(program))
		} else {
			o.logger.Debug("no program for instrument", "track", tr.Name, "instrument", tr.Instrument)
		}

		events := slices.Collect(s.events(i, tr.Notes))
		// note-offs sort ahead of note-ons on the same tick; otherwise
		// the track's own note order is kept
		slices.SortStableFunc(events, func(a, b event) int {
			return cmp.Or(cmp.Compare(a.tick, b.tick), cmp.Compare(a.status, b.status))
		})

		for _, e := range events {
			if e.status == statusNoteOn {
				t.NoteOn(e.tick, ch, e.key, e.velocity)
			} else {
				t.NoteOff(e.tick, ch, e.key, e.velocity)
			}
		}
		t.End()

		if err := f.Add(&t); err != nil {
			return fmt.Errorf("track %d (%s): %w", i, tr.Name, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return err
	}

	o.logger.Debug("serialized midi", "tracks", len(c.Tracks), "bpm", bpm, "division", o.division)

	return nil
}

type event struct {
	tick     int
	status   byte
	key      byte
	velocity byte
}

type serializer struct {
	opts options
}

// events converts notes in order, yielding a note-on and note-off per
// usable note. Notes that cannot be placed are logged and dropped.
func (s serializer) events(track int, notes []composition.Note) iter.Seq[event] {
	return func(yield func(event) bool) {
		for i, n := range notes {
			on, off, err := s.place(n)
			if err != nil {
				s.opts.logger.Warn("skipping note", "track", track, "note", i, "error", err)
				continue
			}

			key := byte(PitchToMIDI(n.Pitch, s.opts.logger))
			if !yield(event{tick: on, status: statusNoteOn, key: key, velocity: velocityByte(n.Level())}) {
				return
			}
			if !yield(event{tick: off, status: statusNoteOff, key: key, velocity: NoteOffVelocity}) {
				return
			}
		}
	}
}

// place returns the note-on and note-off ticks of n.
func (s serializer) place(n composition.Note) (int, int, error) {
	if !n.Valid() {
		return 0, 0, fmt.Errorf("%w: pitch %q time %v duration %v", ErrMalformedNote, n.Pitch, n.Time, n.Duration)
	}

	div := float64(s.opts.division)
	on := math.Round(n.Time * div)
	off := math.Round(n.End() * div)
	if off > MaxTick {
		return 0, 0, fmt.Errorf("%w: ends past tick %d", ErrMalformedNote, MaxTick)
	}

	// a note shorter than half a tick still sounds for one
	off = max(off, on+1)

	return int(on), int(off), nil
}

func velocityByte(level float64) byte {
	return byte(max(1, min(127, math.Round(level*127))))
}

// channelAllocator gives drum tracks the percussion channel and every other
// track the next melodic channel, wrapping after 16.
type channelAllocator struct {
	cursor byte
}

func (a *channelAllocator) next(instrument string) byte {
	if IsPercussion(instrument) {
		return PercussionChannel
	}

	ch := a.cursor
	a.cursor = (a.cursor + 1) % 16
	if a.cursor == PercussionChannel {
		a.cursor++
	}
	return ch
}
