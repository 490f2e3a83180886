// SPDX-License-Identifier: EPL-2.0

// Package midi turns a composition into a Standard MIDI File.
//
// # Files
//
// Serialize writes a Format 1 file with one track chunk per composition
// track, in order. The first track carries the tempo. Note times are beats
// and become ticks at the file division (480 per quarter note unless set
// with WithTicksPerBeat).
//
//	data, err := midi.Serialize(c, midi.WithLogger(logger))
//
// Chunks, delta times and messages are encoded by gitlab.com/gomidi/midi/v2
// and its smf package, without running status. File and Track wrap it with
// absolute tick placement; the serializer decides event order, channels and
// velocities.
//
// # Mapping
//
// Pitch names use scientific notation, C4 is middle C (60). Unparseable
// names fall back to middle C with a warning. Instrument labels map to a
// small set of General MIDI programs; unknown labels get no program change.
// Drum tracks play on channel 10.
//
// # Lenience
//
// Malformed notes are logged and skipped; nothing short of a write error
// makes Serialize fail.
package midi
