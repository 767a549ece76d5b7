// Package util holds the pieces shared by the CLI subcommands: logger
// setup and the session registry wiring derived from the resolved config.
package util

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pitlane-dev/pitlane/log"
	"github.com/pitlane-dev/pitlane/pkg/api"
	"github.com/pitlane-dev/pitlane/pkg/clock"
	"github.com/pitlane-dev/pitlane/pkg/config"
	"github.com/pitlane-dev/pitlane/pkg/processing/teamradio"
	"github.com/pitlane-dev/pitlane/pkg/session"
	"github.com/pitlane-dev/pitlane/pkg/transcribe"
)

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger installs the default logger according to config values.
func SetupLogger() {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	log.ResetDefault(logger)
}

// NewRegistry builds the session registry with the clock and team radio
// collaborators resolved from config.
func NewRegistry() *session.Registry {
	clk := clock.New()
	if config.Delay != "" {
		if delay, err := time.ParseDuration(config.Delay); err == nil {
			clk.SetDelay(delay)
		} else {
			log.Warn("ignoring invalid delay", log.String("delay", config.Delay))
		}
	}

	radioOpts := []teamradio.Option{
		teamradio.WithBaseURL(config.LiveURL),
		teamradio.WithAudioDir(filepath.Join(config.DataDir, "audio")),
	}
	if config.WhisperURL != "" {
		radioOpts = append(radioOpts,
			teamradio.WithTranscriptionProvider(transcribe.NewHTTPProvider(config.WhisperURL)))
	}

	return session.NewRegistry(
		session.WithClock(clk),
		session.WithTeamRadio(radioOpts...),
	)
}

// StartAPI serves the HTTP API in the background when enabled. The returned
// channel carries the server error, if any.
func StartAPI(ctx context.Context, registry *session.Registry) <-chan error {
	errCh := make(chan error, 1)
	if !config.EnableAPI {
		return errCh
	}
	server := api.NewServer(config.APIAddr, registry)
	go func() {
		if err := server.Start(ctx); err != nil {
			errCh <- err
		}
	}()
	return errCh
}
