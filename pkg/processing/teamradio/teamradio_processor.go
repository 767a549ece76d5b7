// Package teamradio extends the team radio processor with consumer triggered
// side effects: materializing a capture's audio locally and transcribing it.
package teamradio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pitlane-dev/pitlane/log"
	"github.com/pitlane-dev/pitlane/pkg/model"
	"github.com/pitlane-dev/pitlane/pkg/processing"
	"github.com/pitlane-dev/pitlane/pkg/transcribe"
)

var ErrUnknownCapture = errors.New("unknown team radio capture")

// SessionPathFn supplies the current session's static asset path prefix
// (from the session info snapshot).
type SessionPathFn func() string

// Processor owns the team radio snapshot. Download and Transcribe operate on
// a single capture entry and share the writer discipline of the ingestion
// path, so they can't race with a concurrent merge of the same snapshot.
type Processor struct {
	*processing.Processor[model.TeamRadio]

	baseURL     string
	sessionPath SessionPathFn
	audioDir    string
	client      *http.Client
	provider    transcribe.Provider
}

type Option func(*Processor)

func WithBaseURL(baseURL string) Option {
	return func(p *Processor) {
		p.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

func WithSessionPath(fn SessionPathFn) Option {
	return func(p *Processor) {
		p.sessionPath = fn
	}
}

func WithAudioDir(dir string) Option {
	return func(p *Processor) {
		p.audioDir = dir
	}
}

func WithClient(client *http.Client) Option {
	return func(p *Processor) {
		p.client = client
	}
}

func WithTranscriptionProvider(provider transcribe.Provider) Option {
	return func(p *Processor) {
		p.provider = provider
	}
}

func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		Processor:   processing.NewProcessor[model.TeamRadio](),
		sessionPath: func() string { return "" },
		client:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Download materializes the capture's audio in the audio directory and
// returns the local path. Idempotent: an already downloaded file is returned
// without refetching.
func (p *Processor) Download(ctx context.Context, key string) (string, error) {
	capture, ok := p.Latest().Captures[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCapture, key)
	}
	if capture.DownloadedFilePath != nil {
		if _, err := os.Stat(*capture.DownloadedFilePath); err == nil {
			return *capture.DownloadedFilePath, nil
		}
	}
	if capture.Path == nil {
		return "", fmt.Errorf("capture %s has no audio path", key)
	}

	downloadURL := fmt.Sprintf("%s/static/%s%s", p.baseURL, p.sessionPath(), *capture.Path)
	dest := filepath.Join(p.audioDir, sanitizeKey(key)+".mp3")
	if err := p.fetch(ctx, downloadURL, dest); err != nil {
		return "", err
	}
	log.Debug("team radio downloaded",
		log.String("key", key), log.String("path", dest))

	p.Update(func(cur model.TeamRadio) model.TeamRadio {
		entry, ok := cur.Captures[key]
		if !ok {
			return cur
		}
		entry.DownloadedFilePath = &dest
		return cur.WithCapture(key, entry)
	})
	return dest, nil
}

// Transcribe downloads the capture if needed, runs the transcription
// collaborator and stores the text on the capture entry. A repeated call
// overwrites the previous transcription.
func (p *Processor) Transcribe(ctx context.Context, key string) (string, error) {
	filePath, err := p.Download(ctx, key)
	if err != nil {
		return "", err
	}
	if p.provider == nil {
		return "", errors.New("no transcription provider configured")
	}
	text, err := p.provider.Transcribe(ctx, filePath)
	if err != nil {
		return "", fmt.Errorf("transcribe capture %s: %w", key, err)
	}
	p.Update(func(cur model.TeamRadio) model.TeamRadio {
		entry, ok := cur.Captures[key]
		if !ok {
			return cur
		}
		entry.Transcription = &text
		return cur.WithCapture(key, entry)
	})
	return text, nil
}

func (p *Processor) fetch(ctx context.Context, rawURL, dest string) error {
	if _, err := url.Parse(rawURL); err != nil {
		return fmt.Errorf("bad download url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("download audio: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("audio download returned %s", resp.Status)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(dest)
		return fmt.Errorf("write audio: %w", err)
	}
	return nil
}

func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, key)
}
