// SPDX-License-Identifier: EPL-2.0

package scoreport

import (
	"fmt"

	"github.com/ik5/scoreport/audio"
)

// Conform returns buf at the given sample rate and channel count. Zero
// keeps the buffer's own value. A buffer that already matches is returned
// as is; otherwise a new buffer is built and buf is left untouched.
//
// Channels are mixed before resampling so the resampler works on as few
// channels as possible.
func Conform(buf *audio.Buffer, sampleRate, channels int) (*audio.Buffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	if sampleRate == 0 {
		sampleRate = buf.SampleRate
	}
	if channels == 0 {
		channels = buf.Channels
	}
	if sampleRate == buf.SampleRate && channels == buf.Channels {
		return buf, nil
	}

	var src audio.Source = audio.NewBufferSource(buf)

	switch {
	case channels == buf.Channels:
	case channels == 1:
		src = audio.NewMonoMixer(src)
	case channels == 2:
		stereo, err := audio.NewStereoMixer(src)
		if err != nil {
			return nil, err
		}
		src = stereo
	default:
		return nil, fmt.Errorf("%w: %d", audio.ErrInvalidChannels, channels)
	}

	if sampleRate != buf.SampleRate {
		if sampleRate < 0 {
			return nil, fmt.Errorf("%w: %d", audio.ErrInvalidSampleRate, sampleRate)
		}
		src = audio.NewResampler(src, sampleRate)
	}
	defer src.Close()

	out, err := audio.Collect(src, 4096)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return out, nil
}
