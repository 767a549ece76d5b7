package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	samples := []string{
		`{"Status":"2","Message":"Yellow"}`,
		`{"Lines":{"44":{"NumberOfLaps":12}}}`,
		"",
		"plain text with umlauts äöü and emoji 🏎",
	}
	for _, s := range samples {
		enc, err := Encode(s)
		require.NoError(t, err)
		dec, err := Decode(enc)
		require.NoError(t, err)
		assert.Equal(t, s, dec)
	}
}

func TestDecodeInvalidBase64(t *testing.T) {
	_, err := Decode("not_base64!!")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestDecodeCorruptStream(t *testing.T) {
	// valid base64, but not a deflate stream
	_, err := Decode("aGVsbG8gd29ybGQ=")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestDecodeTruncatedStream(t *testing.T) {
	enc, err := Encode(`{"some":"payload that is long enough to be truncated badly"}`)
	require.NoError(t, err)
	_, err = Decode(enc[:len(enc)/2])
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
}
