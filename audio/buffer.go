// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"time"
)

// Buffer is a complete, in-memory PCM render: interleaved float32 samples in
// [-1, 1], one sample per channel per frame.
type Buffer struct {
	SampleRate int
	Channels   int
	Samples    []float32
}

// NewBuffer allocates a silent buffer of frames frames.
func NewBuffer(sampleRate, channels, frames int) *Buffer {
	return &Buffer{
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    make([]float32, frames*channels),
	}
}

// Frames returns the number of frames in the buffer.
func (b *Buffer) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Duration returns the playing time of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// Validate checks the buffer can be encoded: positive rate, one or two
// channels and a whole number of frames.
func (b *Buffer) Validate() error {
	if b.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, b.SampleRate)
	}
	if b.Channels != 1 && b.Channels != 2 {
		return fmt.Errorf("%w: %d", ErrInvalidChannels, b.Channels)
	}
	if len(b.Samples)%b.Channels != 0 {
		return fmt.Errorf("%w: %d samples, %d channels", ErrRaggedBuffer, len(b.Samples), b.Channels)
	}
	return nil
}

// Channel copies len(dst) samples of channel ch, starting at frame start.
// Positions past the end of the buffer are left as zero in dst.
func (b *Buffer) Channel(dst []float32, ch, start int) int {
	frames := b.Frames()
	n := 0
	for i := range dst {
		f := start + i
		if f >= frames {
			dst[i] = 0
			continue
		}
		dst[i] = b.Samples[f*b.Channels+ch]
		n++
	}
	return n
}

// bufferSource streams a Buffer through the Source interface.
type bufferSource struct {
	buf *Buffer
	pos int
}

// NewBufferSource returns a Source reading the samples of buf from the start.
// The buffer is never modified.
func NewBufferSource(buf *Buffer) Source {
	return &bufferSource{buf: buf}
}

func (s *bufferSource) SampleRate() int { return s.buf.SampleRate }
func (s *bufferSource) Channels() int   { return s.buf.Channels }
func (s *bufferSource) BufSize() int    { return 4096 }
func (s *bufferSource) Close() error    { return nil }

func (s *bufferSource) ReadSamples(dst []float32) (int, error) {
	if s.pos >= len(s.buf.Samples) {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, nil
	}

	// whole frames only
	want := len(dst) - len(dst)%s.buf.Channels
	if want == 0 {
		return 0, ErrInvalidDstSize
	}

	n := copy(dst[:want], s.buf.Samples[s.pos:])
	s.pos += n

	if s.pos >= len(s.buf.Samples) {
		return n, io.EOF
	}
	return n, nil
}

// Collect drains src into a Buffer. bufferSize is the read chunk in samples
// and is rounded down to a whole number of frames.
//
// The source is not closed.
func Collect(src Source, bufferSize int) (*Buffer, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	bufferSize -= bufferSize % channels
	if bufferSize <= 0 {
		bufferSize = 4096 - 4096%channels
	}

	out := &Buffer{
		SampleRate: src.SampleRate(),
		Channels:   channels,
		Samples:    make([]float32, 0, bufferSize),
	}
	buf := make([]float32, bufferSize)

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			out.Samples = append(out.Samples, buf[:n]...)
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		if n == 0 {
			// a source that makes no progress without EOF is treated as drained
			break
		}
	}

	// drop a trailing partial frame
	out.Samples = out.Samples[:len(out.Samples)-len(out.Samples)%channels]

	return out, nil
}
