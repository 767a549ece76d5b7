// Package importer downloads completed sessions from the upstream static
// archive and converts them into local recordings that replay can consume.
package importer

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/pitlane-dev/pitlane/log"
	"github.com/pitlane-dev/pitlane/pkg/model"
	"github.com/pitlane-dev/pitlane/pkg/recording"
)

var (
	ErrNotFound = errors.New("not found in index")
	ErrUpstream = errors.New("upstream request failed")
)

// Index is the meetings and sessions index for one year.
type Index struct {
	Year     int       `json:"Year"`
	Meetings []Meeting `json:"Meetings"`
}

type Meeting struct {
	Key      int              `json:"Key"`
	Name     string           `json:"Name"`
	Location string           `json:"Location"`
	Sessions []IndexedSession `json:"Sessions"`
}

type IndexedSession struct {
	Key       int       `json:"Key"`
	Name      string    `json:"Name"`
	Type      string    `json:"Type"`
	StartDate time.Time `json:"StartDate"`
	EndDate   time.Time `json:"EndDate"`
	Path      string    `json:"Path"`
}

type Importer struct {
	baseURL string
	client  *http.Client
	dataDir string
}

type Option func(*Importer)

func WithClient(client *http.Client) Option {
	return func(i *Importer) {
		i.client = client
	}
}

func New(baseURL, dataDir string, opts ...Option) *Importer {
	i := &Importer{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
		dataDir: dataDir,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ListMeetings fetches the index of meetings and sessions for a year.
func (i *Importer) ListMeetings(ctx context.Context, year int) (Index, error) {
	var index Index
	url := fmt.Sprintf("%s/static/%d/Index.json", i.baseURL, year)
	body, err := i.get(ctx, url)
	if err != nil {
		return Index{}, err
	}
	defer body.Close()
	// the upstream serves the index with a UTF-8 BOM
	data, err := io.ReadAll(body)
	if err != nil {
		return Index{}, err
	}
	data = []byte(strings.TrimPrefix(string(data), "\ufeff"))
	if err := json.Unmarshal(data, &index); err != nil {
		return Index{}, fmt.Errorf("decoding index: %w", err)
	}
	return index, nil
}

// ImportSession downloads every available category stream of the session
// identified by (meetingKey, sessionKey) and writes a recording under the
// data directory. Returns the recording directory.
func (i *Importer) ImportSession(ctx context.Context, year, meetingKey, sessionKey int) (string, error) {
	index, err := i.ListMeetings(ctx, year)
	if err != nil {
		return "", err
	}
	meeting, ok := lo.Find(index.Meetings, func(m Meeting) bool { return m.Key == meetingKey })
	if !ok {
		return "", fmt.Errorf("%w: meeting %d", ErrNotFound, meetingKey)
	}
	session, ok := lo.Find(meeting.Sessions, func(s IndexedSession) bool { return s.Key == sessionKey })
	if !ok {
		return "", fmt.Errorf("%w: session %d in meeting %d", ErrNotFound, sessionKey, meetingKey)
	}
	if session.Path == "" {
		return "", fmt.Errorf("%w: session %d has no archive path", ErrNotFound, sessionKey)
	}

	var entries []recording.Entry
	for _, category := range model.AllCategories() {
		categoryEntries, err := i.fetchStream(ctx, session, category)
		if err != nil {
			// not every session archives every stream
			log.Warn("skipping stream",
				log.String("category", category.String()), log.ErrorField(err))
			continue
		}
		entries = append(entries, categoryEntries...)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("%w: no streams for session %d", ErrNotFound, sessionKey)
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Timestamp.Before(entries[b].Timestamp)
	})

	dir := filepath.Join(i.dataDir, sanitizeName(meeting.Name)+"_"+sanitizeName(session.Name))
	writer, err := recording.NewWriter(dir, meeting.Name, session.Name)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if err := writer.Append(entry); err != nil {
			writer.Close()
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}
	log.Info("session imported",
		log.String("meeting", meeting.Name),
		log.String("session", session.Name),
		log.Int("messages", len(entries)))
	return writer.Dir(), nil
}

// fetchStream downloads one category's archived jsonl stream. Each line is a
// session-relative time offset immediately followed by the payload.
func (i *Importer) fetchStream(ctx context.Context, session IndexedSession, category model.Category) ([]recording.Entry, error) {
	url := fmt.Sprintf("%s/static/%s%s.jsonl", i.baseURL, session.Path, category.Topic())
	body, err := i.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	start := session.StartDate.UTC()
	var entries []recording.Entry
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimPrefix(scanner.Text(), "\ufeff")
		if line == "" {
			continue
		}
		offset, payload, err := splitStreamLine(line)
		if err != nil {
			log.Warn("skipping malformed line",
				log.String("category", category.String()), log.ErrorField(err))
			continue
		}
		if category.Compressed() {
			payload = strings.Trim(payload, `"`)
		}
		entries = append(entries, recording.Entry{
			Category:  category,
			Payload:   payload,
			Timestamp: start.Add(offset),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// splitStreamLine separates the "H:MM:SS.fffffff" prefix from the payload
// that starts at the first JSON character.
func splitStreamLine(line string) (time.Duration, string, error) {
	idx := strings.IndexAny(line, `{["`)
	if idx <= 0 {
		return 0, "", fmt.Errorf("no payload in line %q", truncate(line, 40))
	}
	offset, err := parseOffset(line[:idx])
	if err != nil {
		return 0, "", err
	}
	return offset, line[idx:], nil
}

func parseOffset(text string) (time.Duration, error) {
	parts := strings.SplitN(strings.TrimSpace(text), ":", 3)
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid offset %q", text)
	}
	var hours, minutes int
	var seconds float64
	if _, err := fmt.Sscanf(parts[0], "%d", &hours); err != nil {
		return 0, fmt.Errorf("invalid offset %q", text)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &minutes); err != nil {
		return 0, fmt.Errorf("invalid offset %q", text)
	}
	if _, err := fmt.Sscanf(parts[2], "%f", &seconds); err != nil {
		return 0, fmt.Errorf("invalid offset %q", text)
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second)), nil
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func (i *Importer) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %s", ErrUpstream, url, resp.Status)
	}
	return resp.Body, nil
}
