// Package codec decodes the compressed payloads of the live timing feed.
// Compressed categories deliver base64 encoded raw-deflate data that inflates
// to a UTF-8 JSON fragment.
package codec

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrDecode wraps all payload decoding failures. A message failing to decode
// is dropped by the caller; it never aborts ingestion.
var ErrDecode = errors.New("payload decode failed")

// Decode converts a base64+deflate payload back to its text form.
func Decode(data string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64: %w", ErrDecode, err)
	}
	fr := flate.NewReader(bytes.NewReader(raw))
	defer fr.Close()
	inflated, err := io.ReadAll(fr)
	if err != nil {
		return "", fmt.Errorf("%w: inflate: %w", ErrDecode, err)
	}
	if !utf8.Valid(inflated) {
		return "", fmt.Errorf("%w: inflated data is not valid UTF-8", ErrDecode)
	}
	return string(inflated), nil
}

// Encode is the inverse of Decode. Used by tests and the importer to write
// recordings byte-compatible with the live feed.
func Encode(text string) (string, error) {
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return "", err
	}
	if _, err := fw.Write([]byte(text)); err != nil {
		return "", err
	}
	if err := fw.Close(); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
