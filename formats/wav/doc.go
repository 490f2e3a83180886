// SPDX-License-Identifier: EPL-2.0

// Package wav writes and reads 16-bit PCM WAV files.
//
// # Writing
//
// Marshal and Encode produce the canonical 44-byte RIFF/WAVE header followed
// by interleaved little-endian int16 samples:
//
//	offset  size  field
//	0       4     "RIFF"
//	4       4     file size - 8
//	8       4     "WAVE"
//	12      4     "fmt "
//	16      4     16
//	20      2     1 (integer PCM)
//	22      2     channels
//	24      4     sample rate
//	28      4     sample rate * channels * 2
//	32      2     channels * 2
//	34      2     16
//	36      4     "data"
//	40      4     frames * channels * 2
//
// Float samples are quantized with utils.Quantize. The output is always
// HeaderSize + frames*channels*2 bytes; a buffer with no frames yields a valid
// header-only file.
//
//	buf := &audio.Buffer{SampleRate: 44100, Channels: 2, Samples: samples}
//	data, err := wav.Marshal(buf)
//
// # Reading
//
// Decoder uses github.com/go-audio/wav and accepts any chunk layout, as long
// as the data is 16-bit integer PCM:
//
//	src, err := wav.Decoder{}.Decode(file)
//	buf, err := audio.Collect(src, 4096)
package wav
