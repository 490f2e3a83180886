// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// MonoMixer down-mixes any channel count to mono by averaging each frame.
type MonoMixer struct {
	src Source
	tmp []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{
		src: src,
		tmp: make([]float32, 4096),
	}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }
func (m *MonoMixer) BufSize() int    { return m.src.BufSize() }

func (m *MonoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	if channels == 1 {
		return m.src.ReadSamples(dst)
	}

	needed := len(dst) * channels
	if cap(m.tmp) < needed {
		m.tmp = make([]float32, max(needed, 8192))
	}
	m.tmp = m.tmp[:needed]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}
	frames := n / channels

	if channels == 2 {
		for f := range frames {
			idx := f << 1
			dst[f] = (m.tmp[idx] + m.tmp[idx+1]) * 0.5
		}
		return frames, err
	}

	inv := float32(1.0) / float32(channels)
	for f := range frames {
		sum := float32(0)
		base := f * channels
		for c := range channels {
			sum += m.tmp[base+c]
		}
		dst[f] = sum * inv
	}

	return frames, err
}

// StereoMixer presents a mono source as stereo by copying each sample to both
// channels. Stereo sources pass through untouched.
type StereoMixer struct {
	src Source
	tmp []float32
}

// NewStereoMixer wraps src. Sources with more than two channels are rejected.
func NewStereoMixer(src Source) (*StereoMixer, error) {
	if src.Channels() < 1 || src.Channels() > 2 {
		return nil, fmt.Errorf("%w: %d to 2 channels", ErrUnsupportedMapping, src.Channels())
	}

	return &StereoMixer{
		src: src,
		tmp: make([]float32, 2048),
	}, nil
}

func (m *StereoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *StereoMixer) Channels() int   { return 2 }
func (m *StereoMixer) BufSize() int    { return m.src.BufSize() }

func (m *StereoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (m *StereoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst)%2 != 0 {
		return 0, ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	if m.src.Channels() == 2 {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / 2
	if cap(m.tmp) < frames {
		m.tmp = make([]float32, frames)
	}
	m.tmp = m.tmp[:frames]

	n, err := m.src.ReadSamples(m.tmp)
	for i := range n {
		dst[2*i] = m.tmp[i]
		dst[2*i+1] = m.tmp[i]
	}

	return n * 2, err
}
