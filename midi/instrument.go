// SPDX-License-Identifier: EPL-2.0

package midi

import "strings"

// PercussionChannel is General MIDI channel 10.
const PercussionChannel = 9

// InstrumentProgram returns the General MIDI program (0..127) for an
// instrument label. Matching ignores case and surrounding space.
func InstrumentProgram(label string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "piano":
		return 0, true
	case "organ":
		return 16, true
	case "guitar":
		return 24, true
	case "bass":
		return 32, true
	case "strings":
		return 48, true
	case "brass":
		return 56, true
	case "synth":
		return 80, true
	case "pad":
		return 88, true
	case "drums":
		// the kit is chosen by the channel, program 0 is the standard kit
		return 0, true
	}
	return 0, false
}

// IsPercussion reports whether a track with this label plays on the
// percussion channel.
func IsPercussion(label string) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "drums", "drum", "percussion", "kit":
		return true
	}
	return false
}
