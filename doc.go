// SPDX-License-Identifier: EPL-2.0

// Package scoreport exports a composition to WAV, MP3 and Standard MIDI
// files.
//
// # Pipeline
//
// The audio exports ask a Renderer for a complete PCM buffer, conform it to
// the configured sample rate and channel count, quantize it to 16-bit and
// wrap it in a container:
//
//	Composition -> Renderer -> audio.Buffer -> Conform -> wav | mp3
//
// The MIDI export needs no rendering; it serializes the notes directly:
//
//	Composition -> midi.Serialize
//
// Every export returns an Output with the bytes and their MIME type, or an
// *ExportError and no bytes.
//
// # Quick Start
//
//	exp := scoreport.New(
//	    scoreport.WithRenderer(engine),
//	    scoreport.WithSampleRate(44100),
//	)
//
//	out, err := exp.ExportWAV(ctx, song)
//	if err != nil {
//	    // errors.Is(err, scoreport.ErrRender) etc.
//	}
//	os.WriteFile("song"+out.Format.Ext(), out.Data, 0o644)
//
// # Rendering
//
// Synthesis is not part of this module. Anything with a Render method can
// be used, including a plain function through RendererFunc. FileRenderer
// decodes an offline render (WAV, MP3, Ogg Vorbis or AIFF) from disk.
//
// # Recovery
//
// Bad input inside an otherwise usable composition never fails an export.
// Unparseable pitches become middle C, malformed notes are skipped, NaN
// samples become silence, and an invalid tempo becomes 120 BPM. Each case is
// logged on the configured slog.Logger.
//
// # Subpackages
//
//   - audio: buffers, sources, resampler and mixers
//   - formats/wav, formats/mp3: encoders (and decoders)
//   - formats/vorbis, formats/aiff: decoders for offline renders
//   - midi: pitch and instrument mapping, SMF serialization
//   - composition: the score model and its YAML/JSON loader
package scoreport
