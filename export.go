// SPDX-License-Identifier: EPL-2.0

package scoreport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ik5/scoreport/audio"
	"github.com/ik5/scoreport/composition"
	"github.com/ik5/scoreport/formats/mp3"
	"github.com/ik5/scoreport/formats/wav"
	"github.com/ik5/scoreport/midi"
)

// mp3FallbackRate is used when the configured or rendered rate cannot be
// carried by an MP3 stream.
const mp3FallbackRate = 44100

// Exporter runs exports with a fixed configuration. It holds no state
// between calls and is safe for concurrent use if its Renderer is.
type Exporter struct {
	logger       *slog.Logger
	renderer     Renderer
	sampleRate   int
	channels     int
	bitrate      int
	ticksPerBeat int
	tail         time.Duration
	mp3Opts      []mp3.Option
}

func New(opts ...Option) *Exporter {
	e := defaults()
	for _, opt := range opts {
		opt(&e)
	}
	return &e
}

// Export runs the export for format f.
func (e *Exporter) Export(ctx context.Context, f Format, c *composition.Composition) (*Output, error) {
	switch f {
	case FormatWAV:
		return e.ExportWAV(ctx, c)
	case FormatMP3:
		return e.ExportMP3(ctx, c)
	case FormatMIDI:
		return e.ExportMIDI(ctx, c)
	}
	return nil, &ExportError{Format: f, Op: "export", Err: fmt.Errorf("%w: %q", ErrUnknownFormat, f)}
}

// ExportWAV renders c and encodes it as 16-bit PCM WAV.
func (e *Exporter) ExportWAV(ctx context.Context, c *composition.Composition) (*Output, error) {
	buf, err := e.render(ctx, FormatWAV, c)
	if err != nil {
		return nil, err
	}
	return e.EncodeWAV(buf)
}

// ExportMP3 renders c and encodes it as MP3.
func (e *Exporter) ExportMP3(ctx context.Context, c *composition.Composition) (*Output, error) {
	buf, err := e.render(ctx, FormatMP3, c)
	if err != nil {
		return nil, err
	}
	return e.EncodeMP3(ctx, buf)
}

// ExportMIDI serializes c as a Standard MIDI File. It does not render.
func (e *Exporter) ExportMIDI(ctx context.Context, c *composition.Composition) (*Output, error) {
	if c == nil {
		return nil, &ExportError{Format: FormatMIDI, Op: "encode", Err: ErrNilComposition}
	}
	if err := ctx.Err(); err != nil {
		return nil, &ExportError{Format: FormatMIDI, Op: "encode", Err: err}
	}

	start := time.Now()
	data, err := midi.Serialize(c, midi.WithLogger(e.logger), midi.WithTicksPerBeat(e.ticksPerBeat))
	if err != nil {
		return nil, &ExportError{Format: FormatMIDI, Op: "encode", Err: fmt.Errorf("%w: %w", ErrEncode, err)}
	}

	e.logger.Info("exported", "format", FormatMIDI, "title", c.Title, "tracks", len(c.Tracks),
		"bytes", len(data), "elapsed", time.Since(start))

	return newOutput(FormatMIDI, data), nil
}

// EncodeWAV encodes an already rendered buffer, conforming it first.
func (e *Exporter) EncodeWAV(buf *audio.Buffer) (*Output, error) {
	buf, err := e.conform(FormatWAV, buf, e.sampleRate)
	if err != nil {
		return nil, err
	}

	data, err := wav.Marshal(buf)
	if err != nil {
		return nil, &ExportError{Format: FormatWAV, Op: "encode", Err: fmt.Errorf("%w: %w", ErrEncode, err)}
	}

	e.logger.Info("exported", "format", FormatWAV, "rate", buf.SampleRate, "channels", buf.Channels,
		"frames", buf.Frames(), "bytes", len(data))

	return newOutput(FormatWAV, data), nil
}

// EncodeMP3 encodes an already rendered buffer, conforming it first. Rates
// an MP3 stream cannot carry are resampled to 44100 Hz.
func (e *Exporter) EncodeMP3(ctx context.Context, buf *audio.Buffer) (*Output, error) {
	rate := e.sampleRate
	if rate == 0 && buf != nil {
		rate = buf.SampleRate
	}
	if !mp3.SupportedSampleRate(rate) {
		e.logger.Debug("resampling for mp3", "from", rate, "to", mp3FallbackRate)
		rate = mp3FallbackRate
	}

	buf, err := e.conform(FormatMP3, buf, rate)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := mp3.EncodeContext(ctx, buf, e.bitrate, e.mp3Opts...)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, &ExportError{Format: FormatMP3, Op: "encode", Err: err}
		}
		return nil, &ExportError{Format: FormatMP3, Op: "encode", Err: fmt.Errorf("%w: %w", ErrEncode, err)}
	}

	e.logger.Info("exported", "format", FormatMP3, "rate", buf.SampleRate, "channels", buf.Channels,
		"kbps", e.bitrate, "frames", buf.Frames(), "bytes", len(data), "elapsed", time.Since(start))

	return newOutput(FormatMP3, data), nil
}

// render asks the renderer for the whole composition and waits for it.
func (e *Exporter) render(ctx context.Context, f Format, c *composition.Composition) (*audio.Buffer, error) {
	fail := func(err error) (*audio.Buffer, error) {
		return nil, &ExportError{Format: f, Op: "render", Err: err}
	}

	if c == nil {
		return fail(ErrNilComposition)
	}
	if e.renderer == nil {
		return fail(ErrNoRenderer)
	}

	d := c.Duration() + e.tail
	e.logger.Debug("rendering", "format", f, "title", c.Title, "duration", d)

	start := time.Now()
	buf, err := e.renderer.Render(ctx, c, d)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrRender, err))
	}
	// a render that raced a cancellation is discarded
	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if buf == nil {
		return fail(ErrEmptyRender)
	}
	if err := buf.Validate(); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrRender, err))
	}

	e.logger.Debug("rendered", "frames", buf.Frames(), "rate", buf.SampleRate,
		"channels", buf.Channels, "elapsed", time.Since(start))

	return buf, nil
}

func (e *Exporter) conform(f Format, buf *audio.Buffer, rate int) (*audio.Buffer, error) {
	if buf == nil {
		return nil, &ExportError{Format: f, Op: "conform", Err: ErrEmptyRender}
	}

	out, err := Conform(buf, rate, e.channels)
	if err != nil {
		return nil, &ExportError{Format: f, Op: "conform", Err: fmt.Errorf("%w: %w", ErrConform, err)}
	}
	if out != buf {
		e.logger.Debug("conformed audio", "format", f,
			"from_rate", buf.SampleRate, "to_rate", out.SampleRate,
			"from_channels", buf.Channels, "to_channels", out.Channels)
	}

	return out, nil
}
