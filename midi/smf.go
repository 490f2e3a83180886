// SPDX-License-Identifier: EPL-2.0

package midi

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MaxTick is the largest absolute tick a track can hold: the largest
// variable-length quantity.
const MaxTick = 0x0FFFFFFF

// maxTempo is the slowest tempo a set-tempo event can carry, in
// microseconds per quarter note.
const maxTempo = 0xFFFFFF

// Track collects the events of one track at absolute ticks, which must not
// decrease, and stores them as gomidi delta-time events.
type Track struct {
	events smf.Track
	tick   int
	err    error
}

// Tick returns the time of the last event added.
func (t *Track) Tick() int { return t.tick }

// Err reports the first event that could not be placed.
func (t *Track) Err() error { return t.err }

func (t *Track) add(tick int, msg []byte) {
	if t.err != nil {
		return
	}
	switch {
	case tick < t.tick:
		t.err = fmt.Errorf("%w: tick %d after %d", ErrNegativeDelta, tick, t.tick)
		return
	case tick > MaxTick:
		t.err = fmt.Errorf("%w: tick %d", ErrVarintOutOfRange, tick)
		return
	}

	t.events.Add(uint32(tick-t.tick), msg)
	t.tick = tick
}

// Name adds a track name meta event.
func (t *Track) Name(tick int, name string) {
	t.add(tick, smf.MetaTrackSequenceName(name))
}

// Tempo adds a set-tempo meta event of round(60e6/bpm) microseconds per
// quarter note, clamped to the 24 bits the event holds.
func (t *Track) Tempo(tick int, bpm float64) {
	usec := min(math.Round(60e6/bpm), maxTempo)
	// smf.MetaTempo converts back to microseconds; aiming a quarter
	// microsecond above usec lands on it whether that conversion rounds
	// or truncates
	t.add(tick, smf.MetaTempo(60e6/(usec+0.25)))
}

// Program adds a program change.
func (t *Track) Program(tick int, channel, program byte) {
	t.add(tick, gomidi.ProgramChange(channel, program))
}

// NoteOn adds a note-on. velocity must be at least 1: a zero velocity
// note-on reads as a note-off.
func (t *Track) NoteOn(tick int, channel, key, velocity byte) {
	t.add(tick, gomidi.NoteOn(channel, key, velocity))
}

// NoteOff adds a note-off with a release velocity.
func (t *Track) NoteOff(tick int, channel, key, velocity byte) {
	t.add(tick, gomidi.NoteOffVelocity(channel, key, velocity))
}

// End closes the track at its last event.
func (t *Track) End() {
	if t.err == nil {
		t.events.Close(0)
	}
}

// File is a Format 1 Standard MIDI File under construction.
type File struct {
	smf      *smf.SMF
	division int
}

// NewFile starts a file with division ticks per quarter note.
func NewFile(division int) (*File, error) {
	if division < 1 || division > math.MaxInt16 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDivision, division)
	}

	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(division)
	s.NoRunningStatus = true

	return &File{smf: s, division: division}, nil
}

// Tracks returns the number of tracks added.
func (f *File) Tracks() int { return len(f.smf.Tracks) }

// Add appends a closed track.
func (f *File) Add(t *Track) error {
	if t.err != nil {
		return t.err
	}
	if f.Tracks() >= math.MaxUint16 {
		return fmt.Errorf("%w: %d", ErrTooManyTracks, f.Tracks()+1)
	}
	if err := f.smf.Add(t.events); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// WriteTo writes the MThd chunk followed by one MTrk chunk per track. A
// file without tracks is just the header.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	if f.Tracks() == 0 {
		var hdr [14]byte
		copy(hdr[0:4], "MThd")
		binary.BigEndian.PutUint32(hdr[4:8], 6)
		binary.BigEndian.PutUint16(hdr[8:10], 1)
		binary.BigEndian.PutUint16(hdr[10:12], 0)
		binary.BigEndian.PutUint16(hdr[12:14], uint16(f.division))

		n, err := w.Write(hdr[:])
		return int64(n), err
	}

	n, err := f.smf.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("%w", err)
	}
	return n, nil
}
