package recording

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitlane-dev/pitlane/pkg/codec"
	"github.com/pitlane-dev/pitlane/pkg/model"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "Monaco Grand Prix", "Race")
	require.NoError(t, err)

	ts := time.Date(2024, 5, 26, 13, 0, 0, 0, time.UTC)
	compressed, err := codec.Encode(`{"Entries":[1,2,3]}`)
	require.NoError(t, err)

	entries := []Entry{
		{Category: model.CategoryTrackStatus, Payload: `{"Status":"2","Message":"Yellow"}`, Timestamp: ts},
		{Category: model.CategoryLapCount, Payload: `{"CurrentLap":3,"TotalLaps":71}`, Timestamp: ts.Add(5 * time.Second)},
		{Category: model.CategoryCarData, Payload: compressed, Timestamp: ts.Add(6 * time.Second)},
	}
	for _, e := range entries {
		require.NoError(t, w.Append(e))
	}
	require.NoError(t, w.Close())

	r, err := NewReader(dir)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, "Monaco Grand Prix", r.Meta().Meeting)
	assert.NotEmpty(t, r.Meta().ID)

	for _, want := range entries {
		got, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, want.Category, got.Category)
		assert.JSONEq(t, jsonOrQuoted(want), jsonOrQuoted(got))
		assert.True(t, want.Timestamp.Equal(got.Timestamp))
	}
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

// compressed payloads are strings, plain payloads JSON fragments
func jsonOrQuoted(e Entry) string {
	if e.Category.Compressed() {
		return `"` + e.Payload + `"`
	}
	return e.Payload
}

func TestCompressedPayloadSurvivesByteForByte(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "m", "s")
	require.NoError(t, err)

	compressed, err := codec.Encode(`{"Position":[{"Timestamp":"x"}]}`)
	require.NoError(t, err)
	require.NoError(t, w.Append(Entry{
		Category:  model.CategoryPosition,
		Payload:   compressed,
		Timestamp: time.Now().UTC(),
	}))
	require.NoError(t, w.Close())

	r, err := NewReader(dir)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, compressed, got.Payload)

	decoded, err := codec.Decode(got.Payload)
	require.NoError(t, err)
	assert.Equal(t, `{"Position":[{"Timestamp":"x"}]}`, decoded)
}

func TestNonJSONPayloadSurvivesByteForByte(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "m", "s")
	require.NoError(t, err)

	// a mangled plain-category message must be recorded, not rejected
	mangled := `{"Status":"2","Mess`
	require.NoError(t, w.Append(Entry{
		Category:  model.CategoryTrackStatus,
		Payload:   mangled,
		Timestamp: time.Now().UTC(),
	}))
	require.NoError(t, w.Append(Entry{
		Category:  model.CategoryTrackStatus,
		Payload:   "garbage not json",
		Timestamp: time.Now().UTC(),
	}))
	require.NoError(t, w.Close())

	r, err := NewReader(dir)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, mangled, got.Payload)

	got, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "garbage not json", got.Payload)
}

func TestReaderMissingDir(t *testing.T) {
	_, err := NewReader("/nonexistent/session")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
}
