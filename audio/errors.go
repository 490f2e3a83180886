// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

// Errors returned by sources, buffers and channel mixers.
var (
	ErrInvalidDstSize     = errors.New("dst size must be multiple of channels")
	ErrInvalidSampleRate  = errors.New("sample rate must be positive")
	ErrInvalidChannels    = errors.New("channel count must be 1 or 2")
	ErrRaggedBuffer       = errors.New("sample count is not a multiple of channels")
	ErrUnsupportedMapping = errors.New("unsupported channel mapping")
)
