package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"github.com/pitlane-dev/pitlane/log"
	"github.com/pitlane-dev/pitlane/pkg/model"
)

// LiveSource consumes the upstream live timing feed. The feed speaks classic
// SignalR: an HTTP negotiate handshake followed by a websocket on which a
// single hub streams (topic, data, timestamp) triples.
type LiveSource struct {
	baseURL string
	client  *http.Client
	conn    *websocket.Conn
	pending []Message
}

type LiveOption func(*LiveSource)

func WithHTTPClient(client *http.Client) LiveOption {
	return func(s *LiveSource) {
		s.client = client
	}
}

func NewLiveSource(baseURL string, opts ...LiveOption) *LiveSource {
	s := &LiveSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const hubName = "Streaming"

type negotiateResponse struct {
	ConnectionToken string `json:"ConnectionToken"`
}

// Connect performs the negotiate handshake, opens the websocket and
// subscribes to all known topics.
func (s *LiveSource) Connect(ctx context.Context) error {
	connectionData := fmt.Sprintf(`[{"name":"%s"}]`, hubName)

	negotiateURL := fmt.Sprintf(
		"%s/signalr/negotiate?connectionData=%s&clientProtocol=1.5",
		s.baseURL, url.QueryEscape(connectionData))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, negotiateURL, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("negotiate: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("negotiate returned %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var negotiated negotiateResponse
	if err := json.Unmarshal(body, &negotiated); err != nil {
		return fmt.Errorf("negotiate response: %w", err)
	}

	wsURL := fmt.Sprintf(
		"%s/signalr/connect?transport=webSockets&connectionToken=%s&connectionData=%s&clientProtocol=1.5",
		httpToWs(s.baseURL),
		url.QueryEscape(negotiated.ConnectionToken),
		url.QueryEscape(connectionData))

	header := http.Header{}
	for _, cookie := range resp.Cookies() {
		header.Add("Cookie", cookie.String())
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header) //nolint:bodyclose // hijacked
	if err != nil {
		return fmt.Errorf("websocket connect: %w", err)
	}
	s.conn = conn

	topics := lo.Map(model.AllCategories(),
		func(c model.Category, _ int) string { return c.Topic() })
	subscribe := map[string]any{
		"H": hubName,
		"M": "Subscribe",
		"A": []any{topics},
		"I": 1,
	}
	if err := conn.WriteJSON(subscribe); err != nil {
		conn.Close()
		s.conn = nil
		return fmt.Errorf("subscribe: %w", err)
	}
	log.Info("live feed connected", log.Int("topics", len(topics)))
	return nil
}

func (s *LiveSource) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// wire shapes of the hub protocol
type (
	hubFrame struct {
		M []hubInvocation `json:"M"`
		R json.RawMessage `json:"R"`
	}
	hubInvocation struct {
		H string            `json:"H"`
		M string            `json:"M"`
		A []json.RawMessage `json:"A"`
	}
)

func (s *LiveSource) Next(ctx context.Context) (Message, error) {
	for {
		if len(s.pending) > 0 {
			msg := s.pending[0]
			s.pending = s.pending[1:]
			return msg, nil
		}
		if s.conn == nil {
			return Message{}, io.EOF
		}
		if err := ctx.Err(); err != nil {
			return Message{}, err
		}
		if deadline, ok := ctx.Deadline(); ok {
			_ = s.conn.SetReadDeadline(deadline)
		}
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return Message{}, ctx.Err()
			}
			return Message{}, fmt.Errorf("read live feed: %w", err)
		}
		s.parseFrame(data)
	}
}

func (s *LiveSource) parseFrame(data []byte) {
	var frame hubFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		log.Warn("unparseable live frame", log.ErrorField(err))
		return
	}
	now := time.Now().UTC()
	// the subscribe reply carries the initial snapshot per topic
	if len(frame.R) > 0 {
		var snapshot map[string]json.RawMessage
		if err := json.Unmarshal(frame.R, &snapshot); err == nil {
			for topic, payload := range snapshot {
				s.pending = append(s.pending, Message{
					Topic:     topic,
					Timestamp: now,
					Payload:   rawToPayload(topic, payload),
				})
			}
		}
	}
	for _, inv := range frame.M {
		if inv.M != "feed" || len(inv.A) < 3 {
			continue
		}
		var topic, ts string
		if err := json.Unmarshal(inv.A[0], &topic); err != nil {
			continue
		}
		timestamp := now
		if err := json.Unmarshal(inv.A[2], &ts); err == nil {
			if parsed, perr := time.Parse(time.RFC3339Nano, ts); perr == nil {
				timestamp = parsed
			}
		}
		s.pending = append(s.pending, Message{
			Topic:     topic,
			Timestamp: timestamp,
			Payload:   rawToPayload(topic, inv.A[1]),
		})
	}
}

// compressed topics deliver a quoted base64 string, plain topics a JSON
// fragment; either way the payload is kept exactly as received
func rawToPayload(topic string, raw json.RawMessage) string {
	if model.ParseCategory(topic).Compressed() {
		var b64 string
		if err := json.Unmarshal(raw, &b64); err == nil {
			return b64
		}
	}
	return string(raw)
}

func httpToWs(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}
