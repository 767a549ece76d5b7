// Package recording persists the raw message stream of a session and reads
// it back for replay. The log is append-only jsonl; each line holds the
// topic, the payload exactly as received and the arrival timestamp.
package recording

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pitlane-dev/pitlane/pkg/model"
)

// ErrIO wraps recording read/write failures. These are fatal to the session:
// once the log can't be trusted, neither capture nor replay can continue.
var ErrIO = errors.New("recording i/o failed")

const (
	liveFileName = "live.jsonl"
	metaFileName = "index.json"
)

// Entry is one recorded message. Payload carries the JSON text of the update
// for plain categories, or the still-compressed base64 data for compressed
// categories, exactly as received.
type Entry struct {
	Category  model.Category
	Payload   string
	Timestamp time.Time
}

// The wire shape mirrors the feed's argument triple [topic, data, timestamp].
// Compressed payloads are stored as their base64 string; plain payloads are
// embedded verbatim when they are valid JSON and string-quoted otherwise, so
// a mangled message still round-trips byte-exactly instead of failing the
// append.
func (e Entry) MarshalJSON() ([]byte, error) {
	payload := json.RawMessage(e.Payload)
	if e.Category.Compressed() || !json.Valid(payload) {
		quoted, err := json.Marshal(e.Payload)
		if err != nil {
			return nil, err
		}
		payload = quoted
	}
	return json.Marshal([]any{
		e.Category.Topic(),
		payload,
		e.Timestamp.UTC().Format(time.RFC3339Nano),
	})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("expected 3 elements, got %d", len(parts))
	}
	var topic, ts string
	if err := json.Unmarshal(parts[0], &topic); err != nil {
		return err
	}
	if err := json.Unmarshal(parts[2], &ts); err != nil {
		return err
	}
	e.Category = model.ParseCategory(topic)
	switch {
	case e.Category.Compressed():
		if err := json.Unmarshal(parts[1], &e.Payload); err != nil {
			return err
		}
	case len(parts[1]) > 0 && parts[1][0] == '"':
		// plain feed payloads are objects, a string token marks bytes that
		// were quoted at write time
		if err := json.Unmarshal(parts[1], &e.Payload); err != nil {
			return err
		}
	default:
		e.Payload = string(parts[1])
	}
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return err
	}
	e.Timestamp = parsed
	return nil
}

// Meta describes a recorded session.
type Meta struct {
	ID        string    `json:"id"`
	Meeting   string    `json:"meeting"`
	Session   string    `json:"session"`
	StartedAt time.Time `json:"startedAt"`
}

type Writer struct {
	dir  string
	file *os.File
	buf  *bufio.Writer
}

// NewWriter creates the session directory and an empty log.
func NewWriter(dir, meeting, session string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	meta := Meta{
		ID:        uuid.New().String(),
		Meeting:   meeting,
		Session:   session,
		StartedAt: time.Now().UTC(),
	}
	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := os.WriteFile(filepath.Join(dir, metaFileName), metaData, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	file, err := os.OpenFile(filepath.Join(dir, liveFileName),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return &Writer{dir: dir, file: file, buf: bufio.NewWriter(file)}, nil
}

func (w *Writer) Dir() string { return w.dir }

func (w *Writer) Append(e Entry) error {
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if _, err := w.buf.Write(line); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

type Reader struct {
	file    *os.File
	scanner *bufio.Scanner
	meta    Meta
}

// NewReader opens a recorded session directory for sequential reads.
func NewReader(dir string) (*Reader, error) {
	metaData, err := os.ReadFile(filepath.Join(dir, metaFileName))
	var meta Meta
	if err == nil {
		// older recordings have no index file, that's fine
		if err := json.Unmarshal(metaData, &meta); err != nil {
			return nil, fmt.Errorf("%w: bad meta: %w", ErrIO, err)
		}
	}
	file, err := os.Open(filepath.Join(dir, liveFileName))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	scanner := bufio.NewScanner(file)
	// timing data lines can be large
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Reader{file: file, scanner: scanner, meta: meta}, nil
}

func (r *Reader) Meta() Meta { return r.meta }

// Next returns the next recorded entry in arrival order, io.EOF when the log
// is exhausted. Unparseable lines are returned as errors distinct from EOF so
// callers may skip them.
func (r *Reader) Next() (Entry, error) {
	for r.scanner.Scan() {
		line := r.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return Entry{}, fmt.Errorf("malformed recording line: %w", err)
		}
		return e, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return Entry{}, io.EOF
}

func (r *Reader) Close() error {
	return r.file.Close()
}
