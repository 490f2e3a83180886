// SPDX-License-Identifier: EPL-2.0

package scoreport

import (
	"fmt"
	"strings"
)

// Format names an export container.
type Format string

const (
	FormatWAV  Format = "wav"
	FormatMP3  Format = "mp3"
	FormatMIDI Format = "midi"
)

// Formats lists every export format.
var Formats = []Format{FormatWAV, FormatMP3, FormatMIDI}

// MIME returns the media type of the container.
func (f Format) MIME() string {
	switch f {
	case FormatWAV:
		return "audio/wav"
	case FormatMP3:
		return "audio/mpeg"
	case FormatMIDI:
		return "audio/midi"
	}
	return "application/octet-stream"
}

// Ext returns the usual file extension, with the dot.
func (f Format) Ext() string {
	if f == FormatMIDI {
		return ".mid"
	}
	return "." + string(f)
}

// ParseFormat accepts a format name or file extension, with or without the
// dot and in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "wav", "wave":
		return FormatWAV, nil
	case "mp3":
		return FormatMP3, nil
	case "mid", "midi", "smf":
		return FormatMIDI, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Output is one encoded export. Data is never partial.
type Output struct {
	Format Format
	MIME   string
	Data   []byte
}

func newOutput(f Format, data []byte) *Output {
	return &Output{Format: f, MIME: f.MIME(), Data: data}
}
