package replay

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pitlane-dev/pitlane/log"
	"github.com/pitlane-dev/pitlane/pkg/cmd/util"
	"github.com/pitlane-dev/pitlane/pkg/config"
	"github.com/pitlane-dev/pitlane/pkg/ingest"
	"github.com/pitlane-dev/pitlane/pkg/recording"
)

func NewReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <recording-dir>",
		Short: "replays a recorded session with original pacing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), args[0])
		},
	}
	cmd.Flags().IntVar(&config.Speed,
		"speed",
		1,
		"replay speed factor (1 = realtime)")
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
	cmd.Flags().StringVar(&config.LiveURL,
		"live-url",
		"https://livetiming.formula1.com",
		"base URL used for team radio downloads")
	return cmd
}

func runReplay(ctx context.Context, dir string) error {
	util.SetupLogger()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader, err := recording.NewReader(dir)
	if err != nil {
		return err
	}
	defer reader.Close()
	meta := reader.Meta()
	log.Info("replaying session",
		log.String("meeting", meta.Meeting),
		log.String("session", meta.Session),
		log.Int("speed", config.Speed))

	registry := util.NewRegistry()
	defer registry.Close()
	apiErr := util.StartAPI(ctx, registry)

	source := ingest.NewReplaySource(reader, ingest.WithSpeed(config.Speed))
	runErr := make(chan error, 1)
	go func() { runErr <- ingest.NewRunner(source, registry).Run(ctx) }()

	select {
	case err := <-apiErr:
		return err
	case err := <-runErr:
		if ctx.Err() != nil {
			log.Info("shutting down")
			return nil
		}
		if err == nil {
			log.Info("replay finished")
			// keep serving snapshots until interrupted
			if config.EnableAPI {
				<-ctx.Done()
			}
		}
		return err
	}
}
