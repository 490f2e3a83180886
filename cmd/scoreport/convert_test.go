// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/scoreport"
	"github.com/ik5/scoreport/internal/config"
)

func TestConvertFile_WAV(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeRender(t, filepath.Join(dir, "in.wav"), 48000, 2)
	dst := filepath.Join(dir, "out.wav")

	cfg := config.Default()
	cfg.SampleRate = 8000
	cfg.Channels = 1
	require.NoError(t, convertFile(context.Background(), cfg, src, dst, discard()))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.EqualValues(t, 1, binary.LittleEndian.Uint16(data[22:24]))
	assert.EqualValues(t, 8000, binary.LittleEndian.Uint32(data[24:28]))
	// one second at 8 kHz mono, give or take the resampler edge
	assert.InDelta(t, 8000*2, len(data)-44, 64)
}

func TestConvertFile_MP3(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeRender(t, filepath.Join(dir, "in.wav"), 44100, 2)
	dst := filepath.Join(dir, "out.mp3")

	require.NoError(t, convertFile(context.Background(), config.Default(), src, dst, discard()))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestConvertFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeRender(t, filepath.Join(dir, "in.wav"), 44100, 1)

	err := convertFile(context.Background(), config.Default(), src, filepath.Join(dir, "out.mid"), discard())
	require.ErrorIs(t, err, scoreport.ErrUnknownFormat)

	err = convertFile(context.Background(), config.Default(), src, filepath.Join(dir, "out.flac"), discard())
	require.ErrorIs(t, err, scoreport.ErrUnknownFormat)

	err = convertFile(context.Background(), config.Default(), filepath.Join(dir, "missing.wav"), filepath.Join(dir, "out.wav"), discard())
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "out.wav"))
}
