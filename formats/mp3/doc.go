// SPDX-License-Identifier: EPL-2.0

// Package mp3 encodes rendered buffers as MPEG Layer III streams and decodes
// MP3 files back into an audio.Source.
//
// # Encoding
//
// EncodeContext quantizes a buffer and feeds it to a FrameWriter in blocks of
// BlockFrames (two granules of 576 frames) per channel. The final block is
// padded with silence, so the stream can run up to 1151 frames past the end
// of the render. One Encoder serves one stream: encoder state carries across
// blocks and is discarded after Flush.
//
// The default backend is github.com/braheezy/shine-mp3, a pure Go port of
// the shine fixed-point encoder, producing CBR at any Layer III bitrate of
// the stream's MPEG version (32 to 320 kbps for MPEG-1, 8 to 160 kbps for
// MPEG-2). A different encoder can be plugged in with WithBackend.
//
//	data, err := mp3.Encode(buf, mp3.DefaultBitrate)
//
// Accepted sample rates are the MPEG-1 (32000, 44100, 48000) and MPEG-2
// (16000, 22050, 24000) rates. Callers holding other rates resample first.
//
// # Decoding
//
// Decoder wraps github.com/hajimehoshi/go-mp3. Its output is always 16-bit
// stereo, converted to float32 in [-1, 1].
package mp3
