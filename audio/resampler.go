// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/scoreport/utils"
)

// Resampler streams from src to a target sample rate using cubic interpolation.
// Works on interleaved samples and preserves the channel count. A one-pole
// low-pass runs on the input when downsampling.
//
// The output holds round(n*dstRate/srcRate) frames for n source frames. When
// the interpolation window runs dry before that, the last frame is held.
type Resampler struct {
	src      Source
	srcRate  int
	dstRate  int
	ratio    float64 // source frames per output frame
	channels int

	consumed int // source frames read
	emitted  int // output frames produced
	last     []float32
	drained  bool
	pending  []float32 // look-ahead frames, filtered, not yet in the window

	// window of 4 frames: t-1, t0, t+1, t+2
	frames   [4][]float32
	hasFrame [4]bool
	primed   bool
	done     bool

	// position between frames[1] and frames[2], in source frames
	pos float64

	srcBuf []float32
	eof    bool

	filterState []float32
	useFilter   bool
	filterAlpha float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:         src,
		srcRate:     src.SampleRate(),
		dstRate:     dstRate,
		ratio:       ratio,
		channels:    channels,
		srcBuf:      make([]float32, channels),
		useFilter:   ratio > 1.0,
		filterAlpha: 0.5,
		filterState: make([]float32, channels),
		last:        make([]float32, channels),
	}

	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame takes the next source frame into dst, from the look-ahead queue
// first.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	if len(r.pending) > 0 {
		copy(dst, r.pending[:r.channels])
		r.pending = r.pending[r.channels:]
		return true, nil
	}
	return r.pull(dst)
}

// pull reads one frame from src into dst, applying the low-pass filter.
func (r *Resampler) pull(dst []float32) (bool, error) {
	n, err := r.src.ReadSamples(r.srcBuf)
	got := n >= r.channels
	if got {
		r.consumed++
		copy(dst, r.srcBuf)
		if r.useFilter {
			for c := range r.channels {
				dst[c] = r.filterAlpha*dst[c] + (1-r.filterAlpha)*r.filterState[c]
				r.filterState[c] = dst[c]
			}
		}
	}

	if err == io.EOF {
		r.eof = true
		return got, nil
	}
	if err != nil {
		return got, fmt.Errorf("%w", err)
	}
	return got, nil
}

// lookAhead queues source frames until the output length is known to exceed
// what was already emitted, or the source ends.
func (r *Resampler) lookAhead() error {
	for !r.eof && r.emitted >= r.target() {
		frame := make([]float32, r.channels)
		ok, err := r.pull(frame)
		if err != nil {
			return err
		}
		if ok {
			r.pending = append(r.pending, frame...)
		}
	}
	return nil
}

// prime fills the 4-frame window. Missing trailing frames repeat the last
// frame read.
func (r *Resampler) prime() error {
	r.primed = true

	for i := range r.frames {
		if r.eof {
			break
		}

		if i == 0 {
			// seed the filter so the first frame is not attenuated
			n, err := r.src.ReadSamples(r.srcBuf)
			if n >= r.channels {
				copy(r.frames[0], r.srcBuf)
				copy(r.filterState, r.srcBuf)
				r.hasFrame[0] = true
				r.consumed++
			}
			if err == io.EOF {
				r.eof = true
			} else if err != nil {
				return fmt.Errorf("%w", err)
			}
			continue
		}

		ok, err := r.readFrame(r.frames[i])
		if err != nil {
			return err
		}
		r.hasFrame[i] = ok
	}

	if !r.hasFrame[0] {
		return io.EOF
	}

	last := 0
	for i := range r.frames {
		if r.hasFrame[i] {
			last = i
			continue
		}
		copy(r.frames[i], r.frames[last])
		r.hasFrame[i] = true
	}

	return nil
}

// advance shifts the window by one source frame.
func (r *Resampler) advance() error {
	if r.eof && !r.hasFrame[3] {
		return io.EOF
	}

	r.frames[0], r.frames[1], r.frames[2], r.frames[3] = r.frames[1], r.frames[2], r.frames[3], r.frames[0]
	r.hasFrame[0], r.hasFrame[1], r.hasFrame[2] = r.hasFrame[1], r.hasFrame[2], r.hasFrame[3]

	if r.eof && len(r.pending) == 0 {
		r.hasFrame[3] = false
		return nil
	}

	ok, err := r.readFrame(r.frames[3])
	if err != nil {
		return err
	}
	r.hasFrame[3] = ok

	return nil
}

// ReadSamples produces dst samples at the target rate.
// len(dst) must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if r.done {
		return 0, io.EOF
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			r.done = err == io.EOF
			return 0, err
		}
	}

	written := 0
	framesNeeded := len(dst) / r.channels

	for written < framesNeeded {
		if err := r.lookAhead(); err != nil {
			return written * r.channels, err
		}
		if r.eof && r.emitted >= r.target() {
			r.done = true
			return written * r.channels, io.EOF
		}

		for !r.drained && r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err == io.EOF {
				r.drained = true
			} else if err != nil {
				return written * r.channels, err
			}
		}
		if !r.hasFrame[1] || !r.hasFrame[2] {
			r.drained = true
		}

		base := written * r.channels
		frame := dst[base : base+r.channels]

		if r.drained {
			copy(frame, r.last)
		} else {
			alpha := float32(r.pos)
			for c := range r.channels {
				y0 := r.frames[1][c]
				if r.hasFrame[0] {
					y0 = r.frames[0][c]
				}
				y3 := r.frames[2][c]
				if r.hasFrame[3] {
					y3 = r.frames[3][c]
				}

				frame[c] = utils.CubicInterpolate(y0, r.frames[1][c], r.frames[2][c], y3, alpha)
			}
			copy(r.last, frame)
		}

		written++
		r.emitted++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}

// target is the output length for the source frames read so far, rounded to
// the nearest frame. Only final once the source hit EOF.
func (r *Resampler) target() int {
	return int((int64(r.consumed)*int64(r.dstRate) + int64(r.srcRate)/2) / int64(r.srcRate))
}
