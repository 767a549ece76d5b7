//nolint:lll // test payloads
package teamradio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranscriber struct {
	text  string
	calls atomic.Int32
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string) (string, error) {
	f.calls.Add(1)
	return f.text, nil
}

func newTestProcessor(t *testing.T, srv *httptest.Server, tr *fakeTranscriber) *Processor {
	t.Helper()
	p := NewProcessor(
		WithBaseURL(srv.URL),
		WithSessionPath(func() string { return "2024/monaco/race/" }),
		WithAudioDir(t.TempDir()),
		WithClient(srv.Client()),
		WithTranscriptionProvider(tr),
	)
	require.NoError(t, p.Apply([]byte(`{"Captures":{"cap1.mp3":{"Utc":"2024-05-26T13:04:05Z","RacingNumber":"44","Path":"TeamRadio/cap1.mp3"}}}`)))
	return p
}

func TestDownloadIsIdempotent(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/static/2024/monaco/race/TeamRadio/cap1.mp3", r.URL.Path)
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	p := newTestProcessor(t, srv, &fakeTranscriber{})

	path1, err := p.Download(context.Background(), "cap1.mp3")
	require.NoError(t, err)
	content, err := os.ReadFile(path1)
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(content))

	path2, err := p.Download(context.Background(), "cap1.mp3")
	require.NoError(t, err)
	assert.Equal(t, path1, path2)
	assert.Equal(t, int32(1), hits.Load())

	got := p.Latest().Captures["cap1.mp3"]
	require.NotNil(t, got.DownloadedFilePath)
	assert.Equal(t, path1, *got.DownloadedFilePath)
}

func TestTranscribeStoresText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	tr := &fakeTranscriber{text: "box box box"}
	p := newTestProcessor(t, srv, tr)

	text, err := p.Transcribe(context.Background(), "cap1.mp3")
	require.NoError(t, err)
	assert.Equal(t, "box box box", text)

	got := p.Latest().Captures["cap1.mp3"]
	require.NotNil(t, got.Transcription)
	assert.Equal(t, "box box box", *got.Transcription)
}

func TestDownloadUnknownCapture(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	defer srv.Close()

	p := newTestProcessor(t, srv, &fakeTranscriber{})
	_, err := p.Download(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownCapture)
}

func TestDownloadFailureLeavesSnapshotUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := newTestProcessor(t, srv, &fakeTranscriber{})
	_, err := p.Download(context.Background(), "cap1.mp3")
	require.Error(t, err)
	assert.Nil(t, p.Latest().Captures["cap1.mp3"].DownloadedFilePath)
}

func TestSideEffectDoesNotDropConcurrentMerge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	p := newTestProcessor(t, srv, &fakeTranscriber{})
	_, err := p.Download(context.Background(), "cap1.mp3")
	require.NoError(t, err)

	// a second capture arrives from the feed after the download
	require.NoError(t, p.Apply([]byte(`{"Captures":{"cap2.mp3":{"RacingNumber":"1","Path":"TeamRadio/cap2.mp3"}}}`)))

	latest := p.Latest()
	assert.Len(t, latest.Captures, 2)
	assert.NotNil(t, latest.Captures["cap1.mp3"].DownloadedFilePath)
}
