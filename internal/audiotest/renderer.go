// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"context"
	"math"
	"time"

	"github.com/ik5/scoreport/audio"
	"github.com/ik5/scoreport/composition"
	"github.com/ik5/scoreport/midi"
)

// SineRenderer plays every valid note of unmuted tracks as a sine tone. It
// is a stand-in for a real synthesis engine and has the same Render method
// as scoreport.Renderer.
type SineRenderer struct {
	SampleRate int
	Channels   int
	// Gain scales every note; zero means 0.25.
	Gain float64
}

func (r SineRenderer) Render(ctx context.Context, c *composition.Composition, d time.Duration) (*audio.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gain := r.Gain
	if gain == 0 {
		gain = 0.25
	}

	frames := int(math.Ceil(d.Seconds() * float64(r.SampleRate)))
	buf := audio.NewBuffer(r.SampleRate, r.Channels, frames)
	secondsPerBeat := 60 / c.Tempo()

	for _, tr := range c.Tracks {
		if tr.Muted {
			continue
		}

		volume := 1.0
		if tr.Volume > 0 {
			volume = tr.Volume / 100
		}

		for _, n := range tr.Notes {
			if !n.Valid() {
				continue
			}

			freq := 440 * math.Pow(2, float64(midi.PitchToMIDI(n.Pitch, nil)-69)/12)
			amp := n.Level() * volume * gain
			start := int(n.Time * secondsPerBeat * float64(r.SampleRate))
			end := min(frames, int(n.End()*secondsPerBeat*float64(r.SampleRate)))

			for f := start; f < end; f++ {
				v := float32(amp * math.Sin(2*math.Pi*freq*float64(f-start)/float64(r.SampleRate)))
				for ch := range r.Channels {
					buf.Samples[f*r.Channels+ch] += v
				}
			}
		}
	}

	return buf, nil
}
