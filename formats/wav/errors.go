// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

// Errors returned by the WAV writer and Decoder.
var (
	ErrNotWavFile            = errors.New("not a WAV file")
	ErrOnlyPCM16bitSupported = errors.New("only PCM 16-bit supported")
	ErrTooLarge              = errors.New("PCM data exceeds the 4 GiB RIFF limit")
)
