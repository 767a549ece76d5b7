package live

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pitlane-dev/pitlane/log"
	"github.com/pitlane-dev/pitlane/pkg/cmd/util"
	"github.com/pitlane-dev/pitlane/pkg/config"
	"github.com/pitlane-dev/pitlane/pkg/ingest"
	"github.com/pitlane-dev/pitlane/pkg/recording"
)

var appConfig config.Config // holds processed config values

func NewLiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "connects to the live timing feed and records the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&config.LiveURL,
		"live-url",
		"https://livetiming.formula1.com",
		"base URL of the live timing host")
	cmd.Flags().StringVar(&config.NatsURL,
		"nats-url",
		"",
		"consume the feed from this NATS server instead of the websocket")
	cmd.Flags().StringVar(&config.NatsSubject,
		"nats-subject",
		"pitlane.feed",
		"subject to subscribe to when --nats-url is set")
	cmd.Flags().StringVarP(&config.APIAddr,
		"api-addr",
		"a",
		"localhost:8085",
		"HTTP API listen address")
	cmd.Flags().BoolVar(&config.EnableAPI,
		"enable-api",
		true,
		"serve the HTTP API")
	cmd.Flags().StringVar(&config.Delay,
		"delay",
		"0s",
		"initial playback delay, e.g. 30s")
	cmd.Flags().StringVar(&config.WhisperURL,
		"whisper-url",
		"",
		"endpoint of the transcription service")
	cmd.Flags().BoolVar(&appConfig.PrintMessage,
		"print-message",
		false,
		"if true and log level is debug, the message payload will be printed")
	return cmd
}

func runLive(ctx context.Context) error {
	util.SetupLogger()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := util.NewRegistry()
	defer registry.Close()
	apiErr := util.StartAPI(ctx, registry)

	source, cleanup, err := newSource(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	dir := filepath.Join(config.DataDir,
		fmt.Sprintf("live_%s", time.Now().UTC().Format("2006-01-02_150405")))
	recorder, err := recording.NewWriter(dir, "Live", "Live")
	if err != nil {
		return err
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			log.Error("closing recording", log.ErrorField(err))
		}
	}()
	log.Info("recording session", log.String("dir", dir))

	runner := ingest.NewRunner(source, registry,
		ingest.WithRecorder(recorder),
		ingest.WithPrintMessage(appConfig.PrintMessage))
	runErr := make(chan error, 1)
	go func() { runErr <- runner.Run(ctx) }()

	select {
	case err := <-apiErr:
		return err
	case err := <-runErr:
		if ctx.Err() != nil {
			log.Info("shutting down")
			return nil
		}
		return err
	}
}

func newSource(ctx context.Context) (ingest.Source, func(), error) {
	if config.NatsURL != "" {
		log.Info("consuming feed from nats",
			log.String("url", config.NatsURL), log.String("subject", config.NatsSubject))
		source, err := ingest.NewNatsSource(config.NatsURL, config.NatsSubject)
		if err != nil {
			return nil, nil, err
		}
		return source, func() { source.Close() }, nil
	}
	source := ingest.NewLiveSource(config.LiveURL)
	if err := source.Connect(ctx); err != nil {
		return nil, nil, err
	}
	return source, func() { source.Close() }, nil
}
