// Package session owns the set of category processors for one session and
// routes incoming messages to them.
package session

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/pitlane-dev/pitlane/log"
	"github.com/pitlane-dev/pitlane/pkg/clock"
	"github.com/pitlane-dev/pitlane/pkg/codec"
	"github.com/pitlane-dev/pitlane/pkg/model"
	"github.com/pitlane-dev/pitlane/pkg/processing"
	"github.com/pitlane-dev/pitlane/pkg/processing/teamradio"
	"github.com/pitlane-dev/pitlane/pkg/processing/timing"
	"github.com/pitlane-dev/pitlane/pkg/utils/broadcast"
)

var ErrUnknownCategory = errors.New("unknown category")

type applier interface {
	Apply(payload []byte) error
}

// Registry routes each message to the processor of its category. It is
// driven by a single ingestion goroutine; consumers read the processors'
// snapshots concurrently.
type Registry struct {
	clk *clock.Clock

	Heartbeat              *processing.Processor[model.Heartbeat]
	TrackStatus            *processing.Processor[model.TrackStatus]
	LapCount               *processing.Processor[model.LapCount]
	ExtrapolatedClock      *processing.Processor[model.ExtrapolatedClock]
	WeatherData            *processing.Processor[model.WeatherData]
	SessionInfo            *processing.Processor[model.SessionInfo]
	SessionData            *processing.Processor[model.SessionData]
	DriverList             *processing.Processor[model.DriverList]
	RaceControlMessages    *processing.Processor[model.RaceControlMessages]
	TopThree               *processing.Processor[model.TopThree]
	TimingStats            *processing.Processor[model.TimingStats]
	TimingAppData          *processing.Processor[model.TimingAppData]
	ChampionshipPrediction *processing.Processor[model.ChampionshipPrediction]
	TyreStintSeries        *processing.Processor[model.TyreStintSeries]
	PitStopSeries          *processing.Processor[model.PitStopSeries]
	Timing                 *timing.Processor
	TeamRadio              *teamradio.Processor
	CarData                *processing.RawProcessor
	Position               *processing.RawProcessor
	RcmSeries              *processing.RawProcessor

	appliers  map[model.Category]applier
	updates   chan model.Category
	bcst      broadcast.BroadcastServer[model.Category]
	processed metric.Int64Counter
	dropped   metric.Int64Counter
}

type Option func(*Registry)

func WithClock(clk *clock.Clock) Option {
	return func(r *Registry) {
		r.clk = clk
	}
}

// WithTeamRadio replaces the default team radio processor, so side effect
// collaborators (audio host, transcription) can be wired in.
func WithTeamRadio(opts ...teamradio.Option) Option {
	return func(r *Registry) {
		opts = append(opts,
			teamradio.WithSessionPath(func() string {
				if path := r.SessionInfo.Latest().Path; path != nil {
					return *path
				}
				return ""
			}))
		r.TeamRadio = teamradio.NewProcessor(opts...)
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		clk:                    clock.New(),
		Heartbeat:              processing.NewProcessor[model.Heartbeat](),
		TrackStatus:            processing.NewProcessor[model.TrackStatus](),
		LapCount:               processing.NewProcessor[model.LapCount](),
		ExtrapolatedClock:      processing.NewProcessor[model.ExtrapolatedClock](),
		WeatherData:            processing.NewProcessor[model.WeatherData](),
		SessionInfo:            processing.NewProcessor[model.SessionInfo](),
		SessionData:            processing.NewProcessor[model.SessionData](),
		DriverList:             processing.NewProcessor[model.DriverList](),
		RaceControlMessages:    processing.NewProcessor[model.RaceControlMessages](),
		TopThree:               processing.NewProcessor[model.TopThree](),
		TimingStats:            processing.NewProcessor[model.TimingStats](),
		TimingAppData:          processing.NewProcessor[model.TimingAppData](),
		ChampionshipPrediction: processing.NewProcessor[model.ChampionshipPrediction](),
		TyreStintSeries:        processing.NewProcessor[model.TyreStintSeries](),
		PitStopSeries:          processing.NewProcessor[model.PitStopSeries](),
		Timing:                 timing.NewProcessor(),
		CarData:                processing.NewRawProcessor(),
		Position:               processing.NewRawProcessor(),
		RcmSeries:              processing.NewRawProcessor(),
		updates:                make(chan model.Category, 64),
	}
	r.TeamRadio = teamradio.NewProcessor()
	for _, opt := range opts {
		opt(r)
	}
	r.appliers = map[model.Category]applier{
		model.CategoryHeartbeat:              r.Heartbeat,
		model.CategoryTrackStatus:            r.TrackStatus,
		model.CategoryLapCount:               r.LapCount,
		model.CategoryExtrapolatedClock:      r.ExtrapolatedClock,
		model.CategoryWeatherData:            r.WeatherData,
		model.CategorySessionInfo:            r.SessionInfo,
		model.CategorySessionData:            r.SessionData,
		model.CategoryDriverList:             r.DriverList,
		model.CategoryRaceControlMessages:    r.RaceControlMessages,
		model.CategoryTopThree:               r.TopThree,
		model.CategoryTimingStats:            r.TimingStats,
		model.CategoryTimingAppData:          r.TimingAppData,
		model.CategoryChampionshipPrediction: r.ChampionshipPrediction,
		model.CategoryTyreStintSeries:        r.TyreStintSeries,
		model.CategoryPitStopSeries:          r.PitStopSeries,
		model.CategoryTimingData:             r.Timing,
		model.CategoryTeamRadio:              r.TeamRadio,
		model.CategoryCarData:                r.CarData,
		model.CategoryPosition:               r.Position,
		model.CategoryRcmSeries:              r.RcmSeries,
	}
	r.bcst = broadcast.NewBroadcastServer("updates", r.updates)
	r.setupMetrics()
	return r
}

func (r *Registry) Clock() *clock.Clock { return r.clk }

// Subscribe delivers the category of every applied update. Used by the
// display refresh and the API event stream.
func (r *Registry) Subscribe() <-chan model.Category {
	return r.bcst.Subscribe()
}

func (r *Registry) CancelSubscription(ch <-chan model.Category) {
	r.bcst.CancelSubscription(ch)
}

func (r *Registry) Close() {
	r.bcst.Close()
}

// Route applies one raw message to the processor of its category. All
// per-message failures are reported but never fatal: the offending message
// is dropped, the category snapshot stays as it was.
func (r *Registry) Route(category model.Category, payload string) error {
	proc, ok := r.appliers[category]
	if !ok {
		r.count(r.dropped, category, "unknown")
		return fmt.Errorf("%w: %d", ErrUnknownCategory, category)
	}
	if category.Compressed() {
		decoded, err := codec.Decode(payload)
		if err != nil {
			r.count(r.dropped, category, "decode")
			return err
		}
		payload = decoded
	}
	if err := proc.Apply([]byte(payload)); err != nil {
		r.count(r.dropped, category, "shape")
		return err
	}
	r.count(r.processed, category, "")
	select {
	case r.updates <- category:
	default:
		// consumers poll the snapshots anyway, a missed nudge is fine
	}
	return nil
}

// RouteTopic resolves the feed topic name before routing.
func (r *Registry) RouteTopic(topic, payload string) error {
	category := model.ParseCategory(topic)
	if category == model.CategoryUnknown {
		log.Warn("dropping message with unknown category", log.String("topic", topic))
		return fmt.Errorf("%w: %s", ErrUnknownCategory, topic)
	}
	return r.Route(category, payload)
}

// Snapshot returns the latest data point for any category, for consumers
// that address categories dynamically (the HTTP API).
func (r *Registry) Snapshot(category model.Category) (any, bool) {
	switch category {
	case model.CategoryHeartbeat:
		return r.Heartbeat.Latest(), true
	case model.CategoryTrackStatus:
		return r.TrackStatus.Latest(), true
	case model.CategoryLapCount:
		return r.LapCount.Latest(), true
	case model.CategoryExtrapolatedClock:
		return r.ExtrapolatedClock.Latest(), true
	case model.CategoryWeatherData:
		return r.WeatherData.Latest(), true
	case model.CategorySessionInfo:
		return r.SessionInfo.Latest(), true
	case model.CategorySessionData:
		return r.SessionData.Latest(), true
	case model.CategoryDriverList:
		return r.DriverList.Latest(), true
	case model.CategoryRaceControlMessages:
		return r.RaceControlMessages.Latest(), true
	case model.CategoryTopThree:
		return r.TopThree.Latest(), true
	case model.CategoryTimingStats:
		return r.TimingStats.Latest(), true
	case model.CategoryTimingAppData:
		return r.TimingAppData.Latest(), true
	case model.CategoryChampionshipPrediction:
		return r.ChampionshipPrediction.Latest(), true
	case model.CategoryTyreStintSeries:
		return r.TyreStintSeries.Latest(), true
	case model.CategoryPitStopSeries:
		return r.PitStopSeries.Latest(), true
	case model.CategoryTimingData:
		return r.Timing.Latest(), true
	case model.CategoryTeamRadio:
		return r.TeamRadio.Latest(), true
	case model.CategoryCarData:
		return r.CarData.Latest(), true
	case model.CategoryPosition:
		return r.Position.Latest(), true
	case model.CategoryRcmSeries:
		return r.RcmSeries.Latest(), true
	default:
		return nil, false
	}
}

func (r *Registry) setupMetrics() {
	meter := otel.GetMeterProvider().Meter("pitlane.registry")
	var err error
	if r.processed, err = meter.Int64Counter("pitlane.messages.processed",
		metric.WithDescription("Number of applied updates")); err != nil {
		log.Error("failed to register metric", log.ErrorField(err))
	}
	if r.dropped, err = meter.Int64Counter("pitlane.messages.dropped",
		metric.WithDescription("Number of dropped updates")); err != nil {
		log.Error("failed to register metric", log.ErrorField(err))
	}
}

func (r *Registry) count(counter metric.Int64Counter, category model.Category, reason string) {
	if counter == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("category", category.String())}
	if reason != "" {
		attrs = append(attrs, attribute.String("reason", reason))
	}
	counter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}
