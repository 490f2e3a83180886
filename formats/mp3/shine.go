// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"fmt"

	shine "github.com/braheezy/shine-mp3/pkg/mp3"
)

// shineWriter drives the pure Go shine encoder one block at a time. shine
// keeps its bit reservoir and filter state in the Encoder between calls and
// drains its bitstream at the end of every Write.
type shineWriter struct {
	enc      *shine.Encoder
	channels int
	// pass is the number of frames shine consumes per MPEG frame: two
	// granules for MPEG-1 rates, one for MPEG-2.
	pass int
	pcm  []int16
	out  bytes.Buffer
}

// NewShineWriter is the default Backend.
func NewShineWriter(sampleRate, channels, bitrate int) (FrameWriter, error) {
	if !ValidBitrate(sampleRate, bitrate) {
		return nil, fmt.Errorf("%w: %d kbps at %d Hz", ErrUnsupportedBitrate, bitrate, sampleRate)
	}

	enc := shine.NewEncoder(sampleRate, channels)
	setBitrate(enc, bitrate)

	return &shineWriter{
		enc:      enc,
		channels: channels,
		pass:     int(enc.Mpeg.GranulesPerFrame) * shine.GRANULE_SIZE,
		pcm:      make([]int16, BlockFrames*channels),
	}, nil
}

// setBitrate replaces the 128 kbps shine.NewEncoder starts with and
// recomputes the frame slot budget the same way.
func setBitrate(enc *shine.Encoder, kbps int) {
	enc.Mpeg.Bitrate = int64(kbps)
	enc.Mpeg.BitrateIndex = int64(bitrateIndex(int(enc.Wave.SampleRate), kbps))

	slots := float64(enc.Mpeg.GranulesPerFrame) * shine.GRANULE_SIZE / float64(enc.Wave.SampleRate) *
		(float64(kbps) * 1000 / float64(enc.Mpeg.BitsPerSlot))
	enc.Mpeg.WholeSlotsPerFrame = int64(slots)
	enc.Mpeg.FracSlotsPerFrame = slots - float64(enc.Mpeg.WholeSlotsPerFrame)
	enc.Mpeg.Slot_lag = -enc.Mpeg.FracSlotsPerFrame
	if enc.Mpeg.FracSlotsPerFrame == 0 {
		enc.Mpeg.Padding = 0
	}
}

// bitrateIndex is the header index of a valid kbps. Indices 1 to 14 list
// the bitrates of an MPEG version in increasing order, so the index is one
// more than the number of valid bitrates below kbps.
func bitrateIndex(rate, kbps int) int {
	idx := 1
	for k := 1; k < kbps; k++ {
		if ValidBitrate(rate, k) {
			idx++
		}
	}
	return idx
}

func (w *shineWriter) EncodeBlock(left, right []int16) ([]byte, error) {
	w.out.Reset()

	if w.channels == 1 {
		copy(w.pcm, left)
		// shine.Encoder.Write advances two passes per loop, which only
		// matches interleaved stereo; mono goes in one pass per call.
		for off := 0; off < BlockFrames; off += w.pass {
			if err := w.enc.Write(&w.out, w.pcm[off:off+w.pass]); err != nil {
				return nil, fmt.Errorf("%w", err)
			}
		}
		return bytes.Clone(w.out.Bytes()), nil
	}

	for i := range BlockFrames {
		w.pcm[2*i] = left[i]
		w.pcm[2*i+1] = right[i]
	}
	if err := w.enc.Write(&w.out, w.pcm); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return bytes.Clone(w.out.Bytes()), nil
}

// Flush has nothing to drain; shine empties its bitstream on each Write.
func (w *shineWriter) Flush() ([]byte, error) {
	w.enc = nil
	return nil, nil
}
