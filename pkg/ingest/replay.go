package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/pitlane-dev/pitlane/log"
	"github.com/pitlane-dev/pitlane/pkg/recording"
)

// ReplaySource reads a recorded session and paces delivery so that the
// inter-message gaps of the original run are preserved, divided by an
// adjustable speed factor. Changing the speed affects only messages not yet
// delivered.
type ReplaySource struct {
	reader *recording.Reader
	speed  atomic.Int64
	lastTs time.Time
}

type ReplayOption func(*ReplaySource)

func WithSpeed(speed int) ReplayOption {
	return func(s *ReplaySource) {
		s.SetSpeed(speed)
	}
}

func NewReplaySource(reader *recording.Reader, opts ...ReplayOption) *ReplaySource {
	s := &ReplaySource{reader: reader}
	s.speed.Store(1)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ReplaySource) Speed() int { return int(s.speed.Load()) }

func (s *ReplaySource) SetSpeed(speed int) {
	if speed < 1 {
		speed = 1
	}
	s.speed.Store(int64(speed))
}

func (s *ReplaySource) Next(ctx context.Context) (Message, error) {
	entry, err := s.reader.Next()
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, recording.ErrIO) {
			return Message{}, err
		}
		// a single malformed line doesn't end the replay
		return Message{}, fmt.Errorf("%w: %w", ErrSkip, err)
	}

	if !s.lastTs.IsZero() {
		gap := entry.Timestamp.Sub(s.lastTs)
		if gap > 0 {
			wait := gap / time.Duration(s.Speed())
			log.Debug("replay pacing",
				log.Time("ts", entry.Timestamp),
				log.Duration("gap", gap),
				log.Duration("wait", wait))
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return Message{}, ctx.Err()
			case <-timer.C:
			}
		}
	}
	s.lastTs = entry.Timestamp

	return Message{
		Topic:     entry.Category.Topic(),
		Timestamp: entry.Timestamp,
		Payload:   entry.Payload,
	}, nil
}
