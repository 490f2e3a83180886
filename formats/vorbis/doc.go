// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files so pre-rendered stems can be fed
// to the WAV and MP3 exporters.
//
// Decoding uses github.com/jfreymuth/oggvorbis, a pure Go decoder. No cgo or
// system libvorbis is needed.
//
// # Supported Input
//
// The decoder supports:
//   - Ogg Vorbis streams (.ogg, .oga)
//   - Any nominal or variable bitrate
//   - Mono, stereo and multi-channel streams
//   - Any sample rate the stream declares
//
// Ogg files carrying other codecs (Opus, FLAC) fail at Decode.
//
// # Decoding
//
// Decoder implements audio.Decoder:
//
//	f, err := os.Open("pad.ogg")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	src, err := vorbis.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	buf, err := audio.Collect(src, 4096)
//
// Decode reads the identification and setup headers right away, so a file
// that is not Vorbis fails at Decode and not on the first ReadSamples.
// Audio packets are decoded lazily as samples are read.
//
// # Output Format
//
// The returned audio.Source yields:
//   - float32 samples in [-1.0, 1.0], as produced by the Vorbis synthesis
//   - the stream's own sample rate and channel count
//
// For stereo streams samples are interleaved:
//
//	[L0, R0, L1, R1, L2, R2, ...]
//
// # Whole Frames
//
// oggvorbis counts individual samples and may return after filling only
// part of a frame. The source keeps reading until dst is full or the stream
// ends, and always returns a multiple of the channel count. A dst shorter
// than one frame returns 0 samples and a nil error.
//
// A truncated file (io.ErrUnexpectedEOF from the Ogg layer) ends the stream
// like a clean io.EOF; the partial frame at the cut is dropped. This keeps
// stems cut off by a crashed render usable.
//
// After io.EOF every further ReadSamples returns 0, io.EOF.
//
// # Use in Exports
//
// scoreport.DefaultRegistry maps "ogg" and "oga" to Decoder. Vorbis stems
// usually come at 44.1 or 48 kHz and are converted by scoreport.Conform to
// the requested export rate:
//
//	scoreport mp3 song.yaml --render pad.ogg --out dist/
//
// To fold a stereo stem to mono before encoding:
//
//	src, _ := vorbis.Decoder{}.Decode(f)
//	mono := audio.NewMonoMixer(src)
//
// # Error Handling
//
// Errors from oggvorbis are returned wrapped; test them with errors.Is
// against the oggvorbis package values where needed. The package defines no
// sentinels of its own.
//
// # Limitations
//
// Note:
//   - Vorbis encoding is not supported
//   - seeking is not exposed; sources are read front to back
//   - comment headers (artist, title tags) are ignored
package vorbis
