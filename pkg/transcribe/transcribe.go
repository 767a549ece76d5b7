// Package transcribe defines the boundary to the speech-to-text collaborator
// used for team radio captures.
package transcribe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Provider turns a local audio file into text.
type Provider interface {
	Transcribe(ctx context.Context, filePath string) (string, error)
}

// HTTPProvider posts the audio file to a whisper-server style endpoint and
// expects the transcription as plain text response body.
type HTTPProvider struct {
	url    string
	client *http.Client
}

type Option func(*HTTPProvider)

func WithClient(client *http.Client) Option {
	return func(p *HTTPProvider) {
		p.client = client
	}
}

func NewHTTPProvider(url string, opts ...Option) *HTTPProvider {
	ret := &HTTPProvider{
		url:    url,
		client: &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (p *HTTPProvider) Transcribe(ctx context.Context, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer file.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, file)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "audio/mpeg")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription service returned %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transcription: %w", err)
	}
	return strings.TrimSpace(string(body)), nil
}
