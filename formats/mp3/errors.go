// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

// Errors returned by the encoder and its backends.
var (
	ErrUnsupportedSampleRate = errors.New("unsupported MP3 sample rate")
	ErrUnsupportedChannels   = errors.New("MP3 supports 1 or 2 channels")
	ErrUnsupportedBitrate    = errors.New("unsupported MP3 bitrate")
	ErrBlockSize             = errors.New("block must hold exactly BlockFrames frames per channel")
	ErrEncoderClosed         = errors.New("encoder already flushed")
)
