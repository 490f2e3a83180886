// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/ik5/scoreport/audio"
	"github.com/ik5/scoreport/utils"
)

const (
	// HeaderSize is the length of the canonical RIFF/WAVE header.
	HeaderSize = 44

	bitsPerSample  = 16
	bytesPerSample = bitsPerSample / 8
	chunkSamples   = 4096
)

// Size returns the exact encoded length of frames frames of channels channels.
func Size(frames, channels int) int {
	return HeaderSize + frames*channels*bytesPerSample
}

// header builds the 44-byte canonical header for PCM16 data.
func header(sampleRate, channels, dataSize int) []byte {
	byteRate := uint32(sampleRate) * uint32(channels) * bytesPerSample
	blockAlign := uint16(channels) * bytesPerSample

	h := make([]byte, HeaderSize)

	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], uint32(HeaderSize-8+dataSize))
	copy(h[8:12], "WAVE")

	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(h[20:22], 1)  // integer PCM
	binary.LittleEndian.PutUint16(h[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(h[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(h[28:32], byteRate)
	binary.LittleEndian.PutUint16(h[32:34], blockAlign)
	binary.LittleEndian.PutUint16(h[34:36], bitsPerSample)

	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], uint32(dataSize))

	return h
}

// Encode writes buf to w as a 16-bit PCM WAV file. Every sample is quantized
// with utils.Quantize and frames are written interleaved in channel order.
func Encode(w io.Writer, buf *audio.Buffer) error {
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("wav: %w", err)
	}

	dataSize := len(buf.Samples) * bytesPerSample
	if int64(dataSize) > math.MaxUint32-(HeaderSize-8) {
		return ErrTooLarge
	}

	if _, err := w.Write(header(buf.SampleRate, buf.Channels, dataSize)); err != nil {
		return fmt.Errorf("%w", err)
	}

	if len(buf.Samples) == 0 {
		return nil
	}

	pcm := make([]int16, min(len(buf.Samples), chunkSamples))
	out := make([]byte, len(pcm)*bytesPerSample)

	for i := 0; i < len(buf.Samples); i += chunkSamples {
		n := utils.QuantizeSamples(pcm, buf.Samples[i:])
		for j, s := range pcm[:n] {
			binary.LittleEndian.PutUint16(out[j*2:], uint16(s))
		}

		if _, err := w.Write(out[:n*bytesPerSample]); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}

// Marshal returns buf encoded as a complete WAV file of exactly
// Size(buf.Frames(), buf.Channels) bytes.
func Marshal(buf *audio.Buffer) ([]byte, error) {
	var out bytes.Buffer
	if err := buf.Validate(); err == nil {
		out.Grow(Size(buf.Frames(), buf.Channels))
	}

	if err := Encode(&out, buf); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// WriteWAV16 writes a mono 16-bit PCM WAV at sampleRate. samples must be int16 PCM.
func WriteWAV16(w io.Writer, sampleRate int, samples []int16) error {
	dataSize := len(samples) * bytesPerSample
	if int64(dataSize) > math.MaxUint32-(HeaderSize-8) {
		return ErrTooLarge
	}

	if _, err := w.Write(header(sampleRate, 1, dataSize)); err != nil {
		return fmt.Errorf("%w", err)
	}

	out := make([]byte, min(len(samples), chunkSamples)*bytesPerSample)
	for i := 0; i < len(samples); i += chunkSamples {
		chunk := samples[i:min(i+chunkSamples, len(samples))]
		for j, s := range chunk {
			binary.LittleEndian.PutUint16(out[j*2:], uint16(s))
		}

		if _, err := w.Write(out[:len(chunk)*bytesPerSample]); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}
