// SPDX-License-Identifier: EPL-2.0

package midi

import (
	"fmt"
	"log/slog"
	"strconv"
)

// MiddleC is the fallback note number for unparseable pitch names.
const MiddleC = 60

// pitchClass maps a letter and optional accidental to 0..11. Only the
// twelve sharp and flat spellings on the keyboard are known; Cb, Fb, E# and
// B# are rejected.
func pitchClass(spelling string) (int, bool) {
	switch spelling {
	case "C":
		return 0, true
	case "C#", "Db":
		return 1, true
	case "D":
		return 2, true
	case "D#", "Eb":
		return 3, true
	case "E":
		return 4, true
	case "F":
		return 5, true
	case "F#", "Gb":
		return 6, true
	case "G":
		return 7, true
	case "G#", "Ab":
		return 8, true
	case "A":
		return 9, true
	case "A#", "Bb":
		return 10, true
	case "B":
		return 11, true
	}
	return 0, false
}

// ParsePitch converts a name such as "C4", "F#3" or "Bb5" to a MIDI note
// number, (octave+1)*12 + class. The letter is upper case, the accidental
// is optional, and the octave is one or more decimal digits.
func ParsePitch(name string) (int, error) {
	if len(name) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPitch, name)
	}

	spelling, rest := name[:1], name[1:]
	if rest[0] == '#' || rest[0] == 'b' {
		spelling, rest = name[:2], name[2:]
	}

	class, ok := pitchClass(spelling)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPitch, name)
	}

	if rest == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPitch, name)
	}
	for i := range len(rest) {
		if rest[i] < '0' || rest[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPitch, name)
		}
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrPitchOutOfRange, name)
	}

	n := (octave+1)*12 + class
	if octave > 10 || n > 127 {
		return 0, fmt.Errorf("%w: %q", ErrPitchOutOfRange, name)
	}

	return n, nil
}

// PitchToMIDI is ParsePitch with a MiddleC fallback. Failures are logged on
// logger, which may be nil.
func PitchToMIDI(name string, logger *slog.Logger) int {
	n, err := ParsePitch(name)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("unparseable pitch, using middle C", "pitch", name, "error", err)
		return MiddleC
	}
	return n
}
