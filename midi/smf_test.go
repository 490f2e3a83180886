// SPDX-License-Identifier: EPL-2.0

package midi

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	metaTrackName  = 0x03
	metaEndOfTrack = 0x2F
	metaTempo      = 0x51
)

// trackBytes writes tr as the only track of a file and returns the MTrk
// chunk body.
func trackBytes(t *testing.T, tr *Track) []byte {
	t.Helper()

	f, err := NewFile(480)
	require.NoError(t, err)
	require.NoError(t, f.Add(tr))

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	data := buf.Bytes()
	require.Greater(t, len(data), 22)
	require.Equal(t, "MTrk", string(data[14:18]))
	return data[22:]
}

func TestTrack_Events(t *testing.T) {
	t.Parallel()

	var tr Track
	tr.Name(0, "Lead")
	tr.Tempo(0, 120)
	tr.Program(0, 2, 24)
	tr.NoteOn(480, 2, 60, 100)
	tr.NoteOn(480, 2, 64, 100)
	tr.NoteOff(960, 2, 60, 64)
	tr.NoteOff(960, 2, 64, 64)
	tr.End()

	// every event keeps its status byte: no running status
	want := []byte{
		0x00, 0xFF, 0x03, 0x04, 'L', 'e', 'a', 'd',
		0x00, 0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20,
		0x00, 0xC2, 24,
		0x83, 0x60, 0x92, 60, 100,
		0x00, 0x92, 64, 100,
		0x83, 0x60, 0x82, 60, 64,
		0x00, 0x82, 64, 64,
		0x00, 0xFF, 0x2F, 0x00,
	}

	require.NoError(t, tr.Err())
	assert.Equal(t, want, trackBytes(t, &tr))
	assert.Equal(t, 960, tr.Tick())
}

func TestTrack_LongDeltas(t *testing.T) {
	t.Parallel()

	var tr Track
	tr.NoteOn(0x4000, 0, 60, 1)
	tr.NoteOff(MaxTick, 0, 60, 1)
	tr.End()

	want := []byte{
		0x81, 0x80, 0x00, 0x90, 60, 1,
		0xFF, 0xFE, 0xFF, 0x7F, 0x80, 60, 1,
		0x00, 0xFF, 0x2F, 0x00,
	}
	assert.Equal(t, want, trackBytes(t, &tr))
}

func TestTrack_Tempo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bpm  float64
		want []byte
	}{
		{120, []byte{0x07, 0xA1, 0x20}},
		{97, []byte{0x09, 0x70, 0x3D}}, // 618556.7 rounds up
		{133, []byte{0x06, 0xE2, 0x38}},
		{1, []byte{0xFF, 0xFF, 0xFF}}, // clamped to 24 bits
	}

	for _, tt := range tests {
		var tr Track
		tr.Tempo(0, tt.bpm)
		tr.End()

		body := trackBytes(t, &tr)
		require.GreaterOrEqual(t, len(body), 7)
		assert.Equal(t, []byte{0x00, 0xFF, 0x51, 0x03}, body[:4], "bpm %v", tt.bpm)
		assert.Equal(t, tt.want, body[4:7], "bpm %v", tt.bpm)
	}
}

func TestTrack_RejectsBadTicks(t *testing.T) {
	t.Parallel()

	var backwards Track
	backwards.NoteOn(10, 0, 60, 1)
	backwards.NoteOff(5, 0, 60, 1)
	backwards.End()

	f, err := NewFile(480)
	require.NoError(t, err)
	assert.ErrorIs(t, f.Add(&backwards), ErrNegativeDelta)

	var far Track
	far.NoteOn(MaxTick+1, 0, 60, 1)
	assert.ErrorIs(t, far.Err(), ErrVarintOutOfRange)
	assert.Zero(t, f.Tracks())
}

func TestNewFile_Validation(t *testing.T) {
	t.Parallel()

	for _, division := range []int{0, -1, 40000} {
		_, err := NewFile(division)
		assert.ErrorIs(t, err, ErrInvalidDivision, "division %d", division)
	}
}

func TestFile_HeaderOnly(t *testing.T) {
	t.Parallel()

	f, err := NewFile(480)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := f.WriteTo(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, 14, n)
	assert.Equal(t, []byte{'M', 'T', 'h', 'd', 0, 0, 0, 6, 0, 1, 0, 0, 0x01, 0xE0}, buf.Bytes())
}

func TestFile_TrackChunks(t *testing.T) {
	t.Parallel()

	f, err := NewFile(96)
	require.NoError(t, err)
	for range 3 {
		var tr Track
		tr.End()
		require.NoError(t, f.Add(&tr))
	}

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	data := buf.Bytes()
	assert.Equal(t, []byte{'M', 'T', 'h', 'd', 0, 0, 0, 6, 0, 1, 0, 3, 0, 96}, data[:14])

	chunk := []byte{'M', 'T', 'r', 'k', 0, 0, 0, 4, 0x00, 0xFF, 0x2F, 0x00}
	assert.Equal(t, bytes.Repeat(chunk, 3), data[14:])
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestFile_PropagatesWriteErrors(t *testing.T) {
	t.Parallel()

	empty, err := NewFile(480)
	require.NoError(t, err)
	_, err = empty.WriteTo(failWriter{})
	require.Error(t, err)

	f, err := NewFile(480)
	require.NoError(t, err)
	var tr Track
	tr.End()
	require.NoError(t, f.Add(&tr))
	_, err = f.WriteTo(failWriter{})
	require.Error(t, err)
}
