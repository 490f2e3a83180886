// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF (Audio Interchange File Format) files so they can
// be used as pre-rendered audio for WAV and MP3 export.
//
// Decoding goes through github.com/go-audio/aiff. Only uncompressed 16-bit
// PCM is accepted.
//
// # Supported Input
//
// The decoder accepts:
//   - Plain AIFF ("FORM" + "AIFF") containers
//   - 16-bit integer PCM
//   - Any channel count reported by the COMM chunk
//   - Any sample rate, including the 80-bit extended rates AIFF stores
//
// AIFF-C files and other bit depths are rejected before any sample is read.
//
// # Decoding
//
// Decoder implements audio.Decoder:
//
//	f, err := os.Open("strings.aif")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	src, err := aiff.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	buf, err := audio.Collect(src, 4096)
//
// go-audio/aiff seeks inside the container, so a reader that is not an
// io.ReadSeeker is read into memory first. Files opened with os.Open are
// streamed.
//
// # Output Format
//
// The returned audio.Source yields:
//   - float32 samples, big-endian int16 scaled to [-1.0, 1.0)
//   - interleaved frames: [L0, R0, L1, R1, ...] for stereo
//   - the file's own sample rate and channel count
//
// Conversion to the export rate and layout happens later, in
// scoreport.Conform. The decoder never resamples.
//
// # Use in Exports
//
// scoreport.DefaultRegistry maps the "aiff" and "aif" extensions to Decoder,
// so a FileRenderer pointed at an AIFF stem works without extra setup:
//
//	exp := scoreport.New(logger,
//	    scoreport.WithRenderer(scoreport.NewFileRenderer("mix.aif", nil)),
//	)
//	out, err := exp.ExportWAV(ctx, comp)
//
// From the command line the same happens with
//
//	scoreport wav song.yaml --render mix.aif
//
// # Error Handling
//
// Decode returns:
//   - ErrNotAiffFile when the FORM/AIFF header is missing
//   - ErrOnlyPCM16bitSupported, wrapped with the bit depth found
//   - ErrUnsupportedAiffLayout when the COMM chunk has no usable format
//
// Use errors.Is to test for them:
//
//	if errors.Is(err, aiff.ErrOnlyPCM16bitSupported) {
//	    // re-export the stem as 16-bit
//	}
//
// Read errors from the underlying file surface from ReadSamples as go-audio
// reports them. A short final SSND chunk ends the stream with io.EOF.
//
// # AIFF and WAV
//
// AIFF carries the same uncompressed PCM as WAV. The differences are all in
// the container:
//   - samples are big-endian, WAV is little-endian
//   - the sample rate is an 80-bit extended float, WAV uses a uint32
//   - chunks are "COMM" and "SSND" instead of "fmt " and "data"
//
// go-audio/aiff hides these differences; a decoded AIFF stem and a decoded
// WAV stem of the same audio produce the same samples.
//
// # Limitations
//
// Note:
//   - AIFF writing is not supported; exports are WAV, MP3 or MIDI
//   - 8, 24 and 32-bit files return ErrOnlyPCM16bitSupported
//   - markers, loops and instrument chunks are ignored
//
// # File Extensions
//
// AIFF files typically use:
//   - .aif or .aiff for standard AIFF
//   - .aifc for AIFF-C (compressed, not supported and not registered)
package aiff
