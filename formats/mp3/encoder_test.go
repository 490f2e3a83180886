// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ik5/scoreport/audio"
)

// fakeWriter records every block and emits one marker byte per block, holding
// the last one back until Flush like an encoder with lookahead.
type fakeWriter struct {
	blocks  [][2][]int16
	aliased []bool
	pending []byte
	flushed bool
	failAt  int
}

func (f *fakeWriter) EncodeBlock(left, right []int16) ([]byte, error) {
	if f.failAt > 0 && len(f.blocks)+1 == f.failAt {
		return nil, errors.New("encoder exploded")
	}

	f.blocks = append(f.blocks, [2][]int16{append([]int16(nil), left...), append([]int16(nil), right...)})
	f.aliased = append(f.aliased, &left[0] == &right[0])

	out := f.pending
	f.pending = []byte{byte(len(f.blocks))}
	return out, nil
}

func (f *fakeWriter) Flush() ([]byte, error) {
	f.flushed = true
	return append(f.pending, 0xFF), nil
}

func fakeBackend(fw *fakeWriter) Option {
	return WithBackend(func(sampleRate, channels, bitrate int) (FrameWriter, error) {
		return fw, nil
	})
}

func rampBuffer(channels, frames int) *audio.Buffer {
	buf := audio.NewBuffer(44100, channels, frames)
	for f := range frames {
		for c := range channels {
			// distinct, non-zero per frame and channel
			buf.Samples[f*channels+c] = float32((f%1000)+1) / 2000 * float32(1-2*c)
		}
	}
	return buf
}

func TestEncode_BlockPartitioning(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		frames     int
		wantBlocks int
	}{
		{"empty", 0, 0},
		{"single frame", 1, 1},
		{"one short of a block", BlockFrames - 1, 1},
		{"exact block", BlockFrames, 1},
		{"one over a block", BlockFrames + 1, 2},
		{"many blocks ragged", 10*BlockFrames + 17, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fw := &fakeWriter{}
			out, err := Encode(rampBuffer(2, tt.frames), 128, fakeBackend(fw))
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			if len(fw.blocks) != tt.wantBlocks {
				t.Fatalf("blocks = %d, want %d", len(fw.blocks), tt.wantBlocks)
			}
			if !fw.flushed {
				t.Fatal("encoder was not flushed")
			}

			// block markers in order, then the flush marker
			want := []byte{}
			for i := 1; i <= tt.wantBlocks; i++ {
				want = append(want, byte(i))
			}
			want = append(want, 0xFF)
			if !bytes.Equal(out, want) {
				t.Errorf("output = %v, want %v", out, want)
			}
		})
	}
}

func TestEncode_RaggedBlockIsZeroPadded(t *testing.T) {
	t.Parallel()

	frames := BlockFrames + 100
	fw := &fakeWriter{}
	if _, err := Encode(rampBuffer(2, frames), 128, fakeBackend(fw)); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	last := fw.blocks[1]
	for ch := range 2 {
		for i := range 100 {
			if last[ch][i] == 0 {
				t.Fatalf("channel %d frame %d is silent, want signal", ch, i)
			}
		}
		for i := 100; i < BlockFrames; i++ {
			if last[ch][i] != 0 {
				t.Fatalf("channel %d pad frame %d = %d, want 0", ch, i, last[ch][i])
			}
		}
	}
}

func TestEncode_StereoSplit(t *testing.T) {
	t.Parallel()

	fw := &fakeWriter{}
	if _, err := Encode(rampBuffer(2, 10), 128, fakeBackend(fw)); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	block := fw.blocks[0]
	for i := range 10 {
		if block[0][i] <= 0 || block[1][i] >= 0 {
			t.Fatalf("frame %d = (%d, %d), want left positive and right negative", i, block[0][i], block[1][i])
		}
	}
	if fw.aliased[0] {
		t.Error("stereo channels share one slice")
	}
}

func TestEncode_MonoPassesSameArrayTwice(t *testing.T) {
	t.Parallel()

	fw := &fakeWriter{}
	if _, err := Encode(rampBuffer(1, 2*BlockFrames), 128, fakeBackend(fw)); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	for i, a := range fw.aliased {
		if !a {
			t.Errorf("block %d: mono left and right are different slices", i)
		}
	}
}

func TestEncode_BackendErrorReturnsNoBytes(t *testing.T) {
	t.Parallel()

	fw := &fakeWriter{failAt: 2}
	out, err := Encode(rampBuffer(1, 3*BlockFrames), 128, fakeBackend(fw))
	if err == nil {
		t.Fatal("Encode() error = nil, want backend error")
	}
	if out != nil {
		t.Errorf("Encode() returned %d bytes with an error", len(out))
	}
}

func TestEncode_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fw := &fakeWriter{}
	out, err := EncodeContext(ctx, rampBuffer(2, BlockFrames), 128, fakeBackend(fw))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("EncodeContext() error = %v, want context.Canceled", err)
	}
	if out != nil {
		t.Error("cancelled encode returned bytes")
	}
	if fw.flushed {
		t.Error("cancelled encode flushed the encoder")
	}
}

func TestEncode_ValidatesParameters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		buf     *audio.Buffer
		bitrate int
		want    error
	}{
		{"bad rate", audio.NewBuffer(11000, 1, 10), 128, ErrUnsupportedSampleRate},
		{"bad bitrate", audio.NewBuffer(44100, 1, 10), 100, ErrUnsupportedBitrate},
		{"mpeg1 only bitrate at mpeg2 rate", audio.NewBuffer(22050, 1, 10), 320, ErrUnsupportedBitrate},
		{"too many channels", audio.NewBuffer(44100, 3, 10), 128, audio.ErrInvalidChannels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Encode(tt.buf, tt.bitrate, fakeBackend(&fakeWriter{}))
			if !errors.Is(err, tt.want) {
				t.Errorf("Encode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncoder_ClosedAfterFlush(t *testing.T) {
	t.Parallel()

	enc, err := NewEncoder(44100, 1, 128, fakeBackend(&fakeWriter{}))
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}

	if _, err := enc.WriteBlock(make([]int16, 10), make([]int16, 10)); !errors.Is(err, ErrBlockSize) {
		t.Errorf("WriteBlock(short) error = %v, want ErrBlockSize", err)
	}

	if _, err := enc.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	block := make([]int16, BlockFrames)
	if _, err := enc.WriteBlock(block, block); err != ErrEncoderClosed {
		t.Errorf("WriteBlock() after Flush error = %v, want ErrEncoderClosed", err)
	}
	if _, err := enc.Flush(); err != ErrEncoderClosed {
		t.Errorf("second Flush() error = %v, want ErrEncoderClosed", err)
	}
}

func TestValidBitrate(t *testing.T) {
	t.Parallel()

	if !ValidBitrate(44100, 320) || ValidBitrate(22050, 320) {
		t.Error("320 kbps is MPEG-1 only")
	}
	if !ValidBitrate(24000, 8) || ValidBitrate(48000, 8) {
		t.Error("8 kbps is MPEG-2 only")
	}
	if ValidBitrate(8000, 128) || ValidBitrate(8000, 32) {
		t.Error("8 kHz is not supported")
	}
	if ValidBitrate(44100, 0) || ValidBitrate(44100, -1) || ValidBitrate(44100, 100) {
		t.Error("only table bitrates are valid")
	}
}

func TestEncode_ShineSilence(t *testing.T) {
	t.Parallel()

	flushOnly, err := Encode(audio.NewBuffer(44100, 2, 0), DefaultBitrate)
	if err != nil {
		t.Fatalf("Encode(empty) error = %v", err)
	}

	for _, frames := range []int{1, BlockFrames - 1, BlockFrames, BlockFrames + 1, 44100} {
		for _, channels := range []int{1, 2} {
			out, err := Encode(audio.NewBuffer(44100, channels, frames), DefaultBitrate)
			if err != nil {
				t.Fatalf("Encode(%d frames, %d ch) error = %v", frames, channels, err)
			}
			if len(out) < len(flushOnly) {
				t.Errorf("Encode(%d frames, %d ch) = %d bytes, shorter than flush-only %d", frames, channels, len(out), len(flushOnly))
			}
		}
	}
}

func TestEncode_ShineLengthFollowsBitrate(t *testing.T) {
	t.Parallel()

	const frames = 10 * BlockFrames

	for _, rate := range []int{16000, 22050, 24000, 32000, 44100, 48000} {
		for _, channels := range []int{1, 2} {
			out, err := Encode(sine(rate, channels, frames), DefaultBitrate)
			if err != nil {
				t.Fatalf("Encode(%d Hz, %d ch) error = %v", rate, channels, err)
			}

			// every input frame must be encoded: the stream lasts frames/rate
			// seconds at DefaultBitrate, within one MPEG frame
			want := float64(frames) / float64(rate) * DefaultBitrate * 1000 / 8
			mpegFrame := float64(BlockFrames) / float64(rate) * DefaultBitrate * 1000 / 8
			if got := float64(len(out)); math.Abs(got-want) > mpegFrame {
				t.Errorf("Encode(%d Hz, %d ch) = %d bytes, want about %.0f", rate, channels, len(out), want)
			}
		}
	}
}

func TestEncode_ShineBitrates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kbps  int
		index byte // MPEG-1 Layer III header bitrate index
	}{
		{64, 5},
		{128, 9},
		{192, 11},
		{320, 14},
	}

	buf := sine(44100, 2, 44100)

	for _, tt := range tests {
		out, err := Encode(buf, tt.kbps)
		if err != nil {
			t.Fatalf("Encode(%d kbps) error = %v", tt.kbps, err)
		}
		if len(out) < 4 || out[0] != 0xFF || out[1]&0xE0 != 0xE0 {
			t.Fatalf("Encode(%d kbps) does not start with a frame header", tt.kbps)
		}
		if got := out[2] >> 4; got != tt.index {
			t.Errorf("Encode(%d kbps) header bitrate index = %d, want %d", tt.kbps, got, tt.index)
		}

		want := float64(tt.kbps) * 1000 / 8
		if got := float64(len(out)); math.Abs(got-want) > want/10 {
			t.Errorf("Encode(%d kbps) one second = %d bytes, want about %.0f", tt.kbps, len(out), want)
		}

		src, err := Decoder{}.Decode(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("Decode(%d kbps) error = %v", tt.kbps, err)
		}
		decoded, err := audio.Collect(src, 4096)
		if err != nil {
			t.Fatalf("Collect(%d kbps) error = %v", tt.kbps, err)
		}
		if decoded.Frames() < 44100/2 {
			t.Errorf("Decode(%d kbps) = %d frames, want most of 44100", tt.kbps, decoded.Frames())
		}
	}
}

func sine(rate, channels, frames int) *audio.Buffer {
	buf := audio.NewBuffer(rate, channels, frames)
	for f := range frames {
		v := float32(math.Sin(2*math.Pi*440*float64(f)/float64(rate))) * 0.5
		for c := range channels {
			buf.Samples[f*channels+c] = v
		}
	}
	return buf
}

func TestEncode_ShineDeterministicAndDecodable(t *testing.T) {
	t.Parallel()

	buf := sine(44100, 2, 44100)

	a, err := Encode(buf, DefaultBitrate)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	b, err := Encode(buf, DefaultBitrate)
	if err != nil {
		t.Fatalf("second Encode() error = %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two encodes of the same buffer differ")
	}

	src, err := Decoder{}.Decode(bytes.NewReader(a))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 44100 {
		t.Errorf("decoded SampleRate() = %d, want 44100", src.SampleRate())
	}

	decoded, err := audio.Collect(src, 4096)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if decoded.Frames() < 44100/2 {
		t.Errorf("decoded %d frames, want most of the 44100 encoded", decoded.Frames())
	}
}

func BenchmarkEncode_Shine(b *testing.B) {
	buf := sine(44100, 2, 44100)

	b.ReportAllocs()

	for b.Loop() {
		_, _ = Encode(buf, DefaultBitrate)
	}
}
