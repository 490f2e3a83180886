// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"context"
	"fmt"
	"slices"

	shine "github.com/braheezy/shine-mp3/pkg/mp3"

	"github.com/ik5/scoreport/audio"
	"github.com/ik5/scoreport/utils"
)

const (
	// GranuleSize is the number of frames per Layer III granule.
	GranuleSize = 576
	// BlockFrames is the number of frames per channel submitted per block.
	BlockFrames = 2 * GranuleSize

	// DefaultBitrate in kbps.
	DefaultBitrate = 128
)

// sampleRates are the MPEG-1 and MPEG-2 Layer III rates. MPEG-2.5 rates are
// left out: their bitrates top out at 64 kbps.
var sampleRates = []int{16000, 22050, 24000, 32000, 44100, 48000}

// SupportedSampleRate reports whether rate can be encoded without resampling.
func SupportedSampleRate(rate int) bool {
	return slices.Contains(sampleRates, rate)
}

// ValidBitrate reports whether kbps is a Layer III bitrate for rate's MPEG version.
func ValidBitrate(rate, kbps int) bool {
	return SupportedSampleRate(rate) && kbps > 0 && shine.CheckConfig(rate, kbps) >= 0
}

// FrameWriter is a stateful Layer III encoder. Blocks carry BlockFrames
// frames per channel and must arrive in temporal order. For mono streams
// left and right are the same slice.
type FrameWriter interface {
	EncodeBlock(left, right []int16) ([]byte, error)
	// Flush drains any buffered frames. The writer is unusable afterwards.
	Flush() ([]byte, error)
}

// Backend builds a FrameWriter for one stream.
type Backend func(sampleRate, channels, bitrate int) (FrameWriter, error)

type options struct {
	backend Backend
}

// Option configures an Encoder.
type Option func(*options)

// WithBackend replaces the default shine backend.
func WithBackend(b Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// Encoder owns the cross-block state of a single MP3 stream. Create one per
// stream; it is not safe for concurrent use and cannot be reused after Flush.
type Encoder struct {
	fw       FrameWriter
	channels int
	blocks   int
	closed   bool
}

// NewEncoder validates the stream parameters and creates the backend writer.
func NewEncoder(sampleRate, channels, bitrate int, opts ...Option) (*Encoder, error) {
	o := options{backend: NewShineWriter}
	for _, opt := range opts {
		opt(&o)
	}

	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannels, channels)
	}
	if !SupportedSampleRate(sampleRate) {
		return nil, fmt.Errorf("%w: %d Hz", ErrUnsupportedSampleRate, sampleRate)
	}
	if !ValidBitrate(sampleRate, bitrate) {
		return nil, fmt.Errorf("%w: %d kbps at %d Hz", ErrUnsupportedBitrate, bitrate, sampleRate)
	}

	fw, err := o.backend(sampleRate, channels, bitrate)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	return &Encoder{fw: fw, channels: channels}, nil
}

// Blocks returns the number of blocks submitted so far.
func (e *Encoder) Blocks() int { return e.blocks }

// WriteBlock encodes one block of BlockFrames frames per channel. The
// returned bytes may be empty while the backend buffers.
func (e *Encoder) WriteBlock(left, right []int16) ([]byte, error) {
	if e.closed {
		return nil, ErrEncoderClosed
	}
	if len(left) != BlockFrames || len(right) != BlockFrames {
		return nil, fmt.Errorf("%w: got %d/%d", ErrBlockSize, len(left), len(right))
	}

	out, err := e.fw.EncodeBlock(left, right)
	if err != nil {
		return nil, fmt.Errorf("mp3: block %d: %w", e.blocks, err)
	}
	e.blocks++

	return out, nil
}

// Flush drains the backend and closes the encoder.
func (e *Encoder) Flush() ([]byte, error) {
	if e.closed {
		return nil, ErrEncoderClosed
	}
	e.closed = true

	out, err := e.fw.Flush()
	if err != nil {
		return nil, fmt.Errorf("mp3: flush: %w", err)
	}

	return out, nil
}

// Encode is EncodeContext with a background context.
func Encode(buf *audio.Buffer, bitrate int, opts ...Option) ([]byte, error) {
	return EncodeContext(context.Background(), buf, bitrate, opts...)
}

// EncodeContext quantizes buf and encodes it as an MP3 stream.
//
// Frames are submitted in blocks of BlockFrames; the last block is padded
// with silence. A fresh Encoder is used for every call. If ctx is done
// between blocks the context error is returned and no bytes.
func EncodeContext(ctx context.Context, buf *audio.Buffer, bitrate int, opts ...Option) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	enc, err := NewEncoder(buf.SampleRate, buf.Channels, bitrate, opts...)
	if err != nil {
		return nil, err
	}

	frames := buf.Frames()
	channels := buf.Channels

	left := make([]int16, BlockFrames)
	right := left
	if channels == 2 {
		right = make([]int16, BlockFrames)
	}

	var out []byte
	for start := 0; start < frames; start += BlockFrames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for i := range BlockFrames {
			f := start + i
			if f >= frames {
				left[i] = 0
				right[i] = 0
				continue
			}
			left[i] = utils.Quantize(buf.Samples[f*channels])
			if channels == 2 {
				right[i] = utils.Quantize(buf.Samples[f*channels+1])
			}
		}

		data, err := enc.WriteBlock(left, right)
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tail, err := enc.Flush()
	if err != nil {
		return nil, err
	}

	return append(out, tail...), nil
}
