// Package api exposes the reconstructed session state over HTTP. Every
// endpoint reads the registry's latest snapshots; nothing here mutates
// session state except the team radio actions and the clock delay.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/pitlane-dev/pitlane/log"
	"github.com/pitlane-dev/pitlane/pkg/model"
	"github.com/pitlane-dev/pitlane/pkg/processing/teamradio"
	"github.com/pitlane-dev/pitlane/pkg/session"
)

type Server struct {
	registry *session.Registry
	addr     string
	srv      *http.Server
}

func NewServer(addr string, registry *session.Registry) *Server {
	s := &Server{registry: registry, addr: addr}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(cors.AllowAll().Handler)

	router.Route("/api", func(r chi.Router) {
		r.Get("/categories", s.handleCategories)
		r.Get("/events", s.handleEvents)
		r.Get("/clock", s.handleClock)
		r.Put("/clock/delay", s.handleSetDelay)
		r.Get("/timing/laps", s.handleLaps)
		r.Get("/timing/laps/{lap}", s.handleLap)
		r.Post("/teamradio/{key}/download", s.handleDownload)
		r.Post("/teamradio/{key}/transcribe", s.handleTranscribe)
		r.Get("/{category}", s.handleCategory)
	})
	return router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening", log.String("addr", s.addr))
		if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("writing response", log.ErrorField(err))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	categories := model.AllCategories()
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.String())
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "category")
	category := model.ParseCategory(name)
	snap, ok := s.registry.Snapshot(category)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown category %q", name))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleLaps(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Timing.Laps())
}

func (s *Server) handleLap(w http.ResponseWriter, r *http.Request) {
	lap, err := strconv.Atoi(chi.URLParam(r, "lap"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid lap number"))
		return
	}
	lines, ok := s.registry.Timing.Lap(lap)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no data for lap %d", lap))
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

type teamRadioResponse struct {
	Key           string `json:"key"`
	File          string `json:"file,omitempty"`
	Transcription string `json:"transcription,omitempty"`
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	file, err := s.registry.TeamRadio.Download(r.Context(), key)
	if err != nil {
		writeError(w, teamRadioStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, teamRadioResponse{Key: key, File: file})
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	text, err := s.registry.TeamRadio.Transcribe(r.Context(), key)
	if err != nil {
		writeError(w, teamRadioStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, teamRadioResponse{Key: key, Transcription: text})
}

func teamRadioStatus(err error) int {
	if errors.Is(err, teamradio.ErrUnknownCapture) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

type clockResponse struct {
	Now     time.Time `json:"now"`
	DelayMs int64     `json:"delayMs"`
}

func (s *Server) handleClock(w http.ResponseWriter, _ *http.Request) {
	clk := s.registry.Clock()
	writeJSON(w, http.StatusOK, clockResponse{
		Now:     clk.Now(),
		DelayMs: clk.Delay().Milliseconds(),
	})
}

type delayRequest struct {
	DelayMs int64 `json:"delayMs"`
}

func (s *Server) handleSetDelay(w http.ResponseWriter, r *http.Request) {
	var req delayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid delay request: %w", err))
		return
	}
	clk := s.registry.Clock()
	clk.SetDelay(time.Duration(req.DelayMs) * time.Millisecond)
	writeJSON(w, http.StatusOK, clockResponse{
		Now:     clk.Now(),
		DelayMs: clk.Delay().Milliseconds(),
	})
}

// handleEvents streams category change notifications as server-sent events
// until the client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("streaming unsupported"))
		return
	}
	updates := s.registry.Subscribe()
	defer s.registry.CancelSubscription(updates)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case category, open := <-updates:
			if !open {
				return
			}
			fmt.Fprintf(w, "event: update\ndata: %s\n\n", category)
			flusher.Flush()
		}
	}
}
