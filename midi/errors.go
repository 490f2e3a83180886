// SPDX-License-Identifier: EPL-2.0

package midi

import "errors"

// Errors returned by pitch parsing, the SMF writer and Write.
var (
	ErrInvalidPitch     = errors.New("invalid pitch name")
	ErrPitchOutOfRange  = errors.New("pitch outside MIDI range 0..127")
	ErrMalformedNote    = errors.New("malformed note")
	ErrInvalidDivision  = errors.New("ticks per beat must be in 1..32767")
	ErrTooManyTracks    = errors.New("too many tracks for a MIDI file")
	ErrNilComposition   = errors.New("nil composition")
	ErrNegativeDelta    = errors.New("events out of order")
	ErrVarintOutOfRange = errors.New("variable-length quantity exceeds 28 bits")
)
