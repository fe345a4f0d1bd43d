// Package engine wires the pipeline stages — stop detection, place
// clustering, move reconstruction, day aggregation, feature
// extraction — into the single pure function an embedding host calls:
// samples and parameters in, a Features record out. A processing run
// holds no resources between invocations: no persistence, no network
// surface.
package engine

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/metrics"
	"github.com/harrowgate/mobility/events"
	"github.com/harrowgate/mobility/extract"
	"github.com/harrowgate/mobility/geo/aggregate"
	"github.com/harrowgate/mobility/geo/clean"
	"github.com/harrowgate/mobility/geo/move"
	"github.com/harrowgate/mobility/geo/place"
	"github.com/harrowgate/mobility/geo/stop"
	"github.com/harrowgate/mobility/params"
	"github.com/harrowgate/mobility/stream"
	"github.com/harrowgate/mobility/types"
)

var (
	metricsRegistry  = metrics.NewRegistry()
	runsTotal        = metrics.NewCounter()
	samplesTotal     = metrics.NewCounter()
	stopsTotal       = metrics.NewCounter()
	placesTotal      = metrics.NewCounter()
	movesTotal       = metrics.NewCounter()
	runDurationTimer = metrics.NewTimer()
)

func init() {
	// Won't record anything without this global setting.
	metrics.Enabled = true
	for name, m := range map[string]interface{}{
		"engine.runs":         runsTotal,
		"engine.samples":      samplesTotal,
		"engine.stops":        stopsTotal,
		"engine.places":       placesTotal,
		"engine.moves":        movesTotal,
		"engine.run_duration": runDurationTimer,
	} {
		if err := metricsRegistry.Register(name, m); err != nil {
			panic(err)
		}
	}
}

// Input is everything one processing run needs, mirroring the message
// a host sends across the recommended message-passing boundary.
type Input struct {
	Day     time.Time
	Samples []types.Sample
	// History holds, for each prior day in the window, that day's
	// previously computed HourMatrix, so the run can compute
	// routineIndexDaily without redoing full stop/place detection on
	// historical data.
	History []HistoricalDay
	Params  params.Params
}

// HistoricalDay is one prior day's finished aggregate, kept only for
// routine-index comparison.
type HistoricalDay struct {
	Day    time.Time
	Matrix types.HourMatrix
}

// Engine runs one full pipeline pass per call to Run. It holds no
// state across calls; Events, if set, receives a structured narration
// of the run for hosts that want visibility without parsing logs.
type Engine struct {
	Events *events.Feed
}

// New returns a ready-to-use Engine. ev may be nil.
func New(ev *events.Feed) *Engine {
	return &Engine{Events: ev}
}

// Run executes the full pipeline for one day's samples against the
// given parameters and history, and returns the resulting Features.
// ctx is checked before the first stage and again after place
// clustering; if it is done at either point Run returns ctx's error.
// No stage is interrupted part-way.
func (e *Engine) Run(ctx context.Context, in Input) (types.Features, error) {
	start := time.Now()
	defer func() { runDurationTimer.UpdateSince(start) }()
	runsTotal.Inc(1)
	samplesTotal.Inc(int64(len(in.Samples)))

	if err := ctx.Err(); err != nil {
		return types.Features{}, err
	}

	samples := clean.Samples(in.Samples)

	detector := stop.NewDetector(in.Params, e.Events)
	stops, err := detector.DetectStops(samples)
	if err != nil {
		return types.Features{}, err
	}
	stopsTotal.Inc(int64(len(stops)))

	clusterer := place.NewClusterer(in.Params, e.Events)
	places := clusterer.ClusterPlaces(stops)
	placesTotal.Inc(int64(len(places)))

	if err := ctx.Err(); err != nil {
		return types.Features{}, err
	}

	reconstructor := move.NewReconstructor(in.Params, e.Events)
	moves := reconstructor.ReconstructMoves(samples, stops)
	movesTotal.Inc(int64(len(moves)))

	stopsOnDay := filterStopsOnDay(stops, in.Day)
	samplesOnDay := filterSamplesOnDay(samples, in.Day)

	matrix, err := aggregate.BuildHourMatrix(stopsOnDay, in.Day, len(places))
	if err != nil {
		return types.Features{}, err
	}

	history := make([]types.HourMatrix, 0, len(in.History))
	for _, h := range in.History {
		history = append(history, h.Matrix)
	}

	f := extract.ExtractFeatures(in.Day, stopsOnDay, moves, samplesOnDay, matrix, history)

	if e.Events != nil {
		e.Events.Publish(events.FeaturesExtracted{Features: f})
	}
	return f, nil
}

func filterStopsOnDay(stops []types.Stop, day time.Time) []types.Stop {
	out := make([]types.Stop, 0, len(stops))
	for _, s := range stops {
		if types.SameCalendarDay(s.Arrival, day) {
			out = append(out, s)
		}
	}
	return out
}

func filterSamplesOnDay(samples []types.Sample, day time.Time) []types.Sample {
	out := make([]types.Sample, 0, len(samples))
	for _, s := range samples {
		if types.SameCalendarDay(s.Timestamp, day) {
			out = append(out, s)
		}
	}
	return out
}

// runResult pairs a Run outcome so it can travel through a single
// stream.Transform stage before Stream splits it back into the two
// channels its signature promises.
type runResult struct {
	features types.Features
	err      error
}

// Stream runs Run once per Input received on in, emitting a Features
// for each, in order. The first error Run returns is sent on the error
// channel and ends the stream. It exists for hosts that prefer a
// channel boundary over direct calls, keeping the core off the hot
// I/O path.
func (e *Engine) Stream(ctx context.Context, in <-chan Input) (<-chan types.Features, <-chan error) {
	results := stream.Transform(ctx, func(req Input) runResult {
		f, err := e.Run(ctx, req)
		return runResult{features: f, err: err}
	}, in)

	out := make(chan types.Features)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for r := range results {
			if r.err != nil {
				errc <- r.err
				return
			}
			select {
			case out <- r.features:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, errc
}
