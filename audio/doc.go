// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM model shared by the export pipeline.
//
// A render produced by a synthesis engine arrives as a Buffer: interleaved
// float32 samples in [-1.0, 1.0] with a sample rate and a channel count of one
// or two. Buffers are complete and finite; nothing in this package streams in
// real time.
//
// # Sources
//
// The Source interface streams interleaved samples. Decoders in the formats
// packages return Sources, and Buffers can be streamed through
// NewBufferSource:
//
//	src := audio.NewBufferSource(buf)
//	resampled := audio.NewResampler(src, 44100)
//	mono := audio.NewMonoMixer(resampled)
//	out, err := audio.Collect(mono, 4096)
//
// Collect drains any Source back into a Buffer.
//
// # Conforming a render
//
// Encoders accept a limited set of sample rates and channel layouts. The
// Resampler changes the rate using cubic interpolation, MonoMixer averages
// channels down to one, and StereoMixer duplicates a mono channel to two.
//
// # Format Registry
//
// The Registry maps a format key (usually the file extension) to a Decoder:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, ok := registry.Get("wav")
//
// Registry is safe for concurrent use. Nothing else in the package is.
package audio
