// Package ingest delivers raw feed messages to the session registry, either
// from the live connection or from a recorded session. The reconstruction
// logic does not care which.
package ingest

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/pitlane-dev/pitlane/log"
	"github.com/pitlane-dev/pitlane/pkg/model"
	"github.com/pitlane-dev/pitlane/pkg/recording"
	"github.com/pitlane-dev/pitlane/pkg/session"
)

// ErrSkip marks a single unusable message. The runner logs it and moves on;
// any other source error ends the run.
var ErrSkip = errors.New("skipping message")

// Message is one raw feed message in arrival order. Payload is the update
// text, still compressed for ".z" topics.
type Message struct {
	Topic     string
	Timestamp time.Time
	Payload   string
}

// Source produces messages in arrival order. Next blocks until a message is
// available, the source is exhausted (io.EOF) or ctx is cancelled.
type Source interface {
	Next(ctx context.Context) (Message, error)
}

// Runner pumps a source into the registry, optionally recording every
// message as received. Per-message failures never stop the loop; recording
// write failures do, since the log's integrity is gone.
type Runner struct {
	source       Source
	registry     *session.Registry
	recorder     *recording.Writer
	printMessage bool
}

type RunnerOption func(*Runner)

func WithRecorder(w *recording.Writer) RunnerOption {
	return func(r *Runner) {
		r.recorder = w
	}
}

// WithPrintMessage logs every payload on debug level.
func WithPrintMessage(enabled bool) RunnerOption {
	return func(r *Runner) {
		r.printMessage = enabled
	}
}

func NewRunner(source Source, registry *session.Registry, opts ...RunnerOption) *Runner {
	r := &Runner{source: source, registry: registry}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Run(ctx context.Context) error {
	for {
		msg, err := r.source.Next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			log.Info("source exhausted")
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		case errors.Is(err, ErrSkip):
			log.Warn("skipping unusable message", log.ErrorField(err))
			continue
		case err != nil:
			return err
		}

		if r.printMessage && log.Default().DebugEnabled() {
			log.Debug("received",
				log.String("topic", msg.Topic), log.String("payload", msg.Payload))
		}

		if r.recorder != nil {
			category := model.ParseCategory(msg.Topic)
			if category != model.CategoryUnknown {
				if err := r.recorder.Append(recording.Entry{
					Category:  category,
					Payload:   msg.Payload,
					Timestamp: msg.Timestamp,
				}); err != nil {
					return err
				}
			}
		}

		if err := r.registry.RouteTopic(msg.Topic, msg.Payload); err != nil {
			log.Warn("message dropped",
				log.String("topic", msg.Topic), log.ErrorField(err))
		}
	}
}
