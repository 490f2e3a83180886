// SPDX-License-Identifier: EPL-2.0

package scoreport

import (
	"log/slog"
	"time"

	"github.com/ik5/scoreport/formats/mp3"
	"github.com/ik5/scoreport/midi"
)

// DefaultRenderTail is rendered past the last note so releases and
// reverb tails are not cut off.
const DefaultRenderTail = time.Second

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger; nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRenderer sets the engine used by the audio exports.
func WithRenderer(r Renderer) Option {
	return func(e *Exporter) {
		e.renderer = r
	}
}

// WithSampleRate sets the output rate of audio exports. Zero keeps the
// rendered rate.
func WithSampleRate(hz int) Option {
	return func(e *Exporter) {
		e.sampleRate = hz
	}
}

// WithChannels sets the output channel count (1 or 2) of audio exports.
// Zero keeps the rendered layout.
func WithChannels(n int) Option {
	return func(e *Exporter) {
		e.channels = n
	}
}

// WithBitrate sets the MP3 bitrate in kbps.
func WithBitrate(kbps int) Option {
	return func(e *Exporter) {
		e.bitrate = kbps
	}
}

// WithTicksPerBeat sets the MIDI file division.
func WithTicksPerBeat(n int) Option {
	return func(e *Exporter) {
		e.ticksPerBeat = n
	}
}

// WithRenderTail sets how much audio is requested past the last note.
func WithRenderTail(d time.Duration) Option {
	return func(e *Exporter) {
		if d >= 0 {
			e.tail = d
		}
	}
}

// WithMP3Options passes options to every MP3 encode, such as
// mp3.WithBackend.
func WithMP3Options(opts ...mp3.Option) Option {
	return func(e *Exporter) {
		e.mp3Opts = append(e.mp3Opts, opts...)
	}
}

func defaults() Exporter {
	return Exporter{
		logger:       slog.Default(),
		bitrate:      mp3.DefaultBitrate,
		ticksPerBeat: midi.DefaultTicksPerBeat,
		tail:         DefaultRenderTail,
	}
}
