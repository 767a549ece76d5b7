package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/pitlane-dev/pitlane/pkg/recording"
)

// NatsSource receives feed messages relayed over NATS. Each message body is
// a recording entry triple, so a relay can simply forward what it would
// otherwise write to disk.
type NatsSource struct {
	conn    *nats.Conn
	sub     *nats.Subscription
	ownConn bool
	msgs    chan *nats.Msg
}

type NatsOption func(*NatsSource)

// WithConn uses an existing connection instead of dialing one. The caller
// keeps ownership; Close will not touch it.
func WithConn(conn *nats.Conn) NatsOption {
	return func(s *NatsSource) {
		s.conn = conn
		s.ownConn = false
	}
}

func NewNatsSource(natsURL, subject string, opts ...NatsOption) (*NatsSource, error) {
	s := &NatsSource{
		ownConn: true,
		msgs:    make(chan *nats.Msg, 256),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.conn == nil {
		conn, err := nats.Connect(natsURL)
		if err != nil {
			return nil, fmt.Errorf("connect nats: %w", err)
		}
		s.conn = conn
	}
	sub, err := s.conn.ChanSubscribe(subject, s.msgs)
	if err != nil {
		if s.ownConn {
			s.conn.Close()
		}
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	s.sub = sub
	return s, nil
}

func (s *NatsSource) Next(ctx context.Context) (Message, error) {
	select {
	case <-ctx.Done():
		return Message{}, ctx.Err()
	case msg, ok := <-s.msgs:
		if !ok {
			return Message{}, context.Canceled
		}
		var entry recording.Entry
		if err := json.Unmarshal(msg.Data, &entry); err != nil {
			return Message{}, fmt.Errorf("%w: %s", ErrSkip, err)
		}
		return Message{
			Topic:     entry.Category.Topic(),
			Timestamp: entry.Timestamp,
			Payload:   entry.Payload,
		}, nil
	}
}

func (s *NatsSource) Close() error {
	if s.sub != nil {
		if err := s.sub.Unsubscribe(); err != nil {
			return err
		}
		s.sub = nil
	}
	if s.ownConn && s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	return nil
}
