// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"math"
)

// genSource computes frames on demand from fn and reports io.EOF together
// with the last frames.
type genSource struct {
	rate     int
	channels int
	frames   int
	pos      int
	fn       func(frame, ch int) float32
}

func newGenSource(rate, channels, frames int, fn func(frame, ch int) float32) *genSource {
	return &genSource{rate: rate, channels: channels, frames: frames, fn: fn}
}

func silence(rate, channels, frames int) *genSource {
	return newGenSource(rate, channels, frames, func(int, int) float32 { return 0 })
}

func constant(rate, channels, frames int, v float32) *genSource {
	return newGenSource(rate, channels, frames, func(int, int) float32 { return v })
}

func sine(rate, channels, frames int, hz float64) *genSource {
	step := 2 * math.Pi * hz / float64(rate)
	return newGenSource(rate, channels, frames, func(frame, _ int) float32 {
		return float32(math.Sin(step * float64(frame)))
	})
}

func (g *genSource) SampleRate() int { return g.rate }
func (g *genSource) Channels() int   { return g.channels }
func (g *genSource) BufSize() int    { return 4096 }
func (g *genSource) Close() error    { return nil }

func (g *genSource) ReadSamples(dst []float32) (int, error) {
	n := min(len(dst)/g.channels, g.frames-g.pos)
	if n <= 0 && g.pos >= g.frames {
		return 0, io.EOF
	}

	i := 0
	for f := g.pos; f < g.pos+n; f++ {
		for ch := range g.channels {
			dst[i] = g.fn(f, ch)
			i++
		}
	}
	g.pos += n

	if g.pos >= g.frames {
		return i, io.EOF
	}
	return i, nil
}
