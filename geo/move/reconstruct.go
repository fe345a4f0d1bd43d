// Package move reconstructs the travel between consecutive stops: the
// raw sample path actually walked, rather than the straight-line
// chord between two stop centroids. It threads a sample stream
// against discontinuity boundaries, where
// the boundaries are stop arrivals rather than a fixed time interval,
// and the output carries path distance rather than a LineString.
package move

import (
	"context"
	"time"

	"github.com/harrowgate/mobility/events"
	"github.com/harrowgate/mobility/geom"
	"github.com/harrowgate/mobility/params"
	"github.com/harrowgate/mobility/types"
)

// ReconstructMoves walks samples and stops, both already in
// chronological order, and returns the moves that survive
// MinMoveDuration. Samples must span at least the stops' time range;
// stops must already carry their PlaceID (run after clustering).
func ReconstructMoves(samples []types.Sample, stops []types.Stop, p params.Params) []types.Move {
	return NewReconstructor(p, nil).ReconstructMoves(samples, stops)
}

// Reconstructor threads a sample stream against a stop sequence,
// optionally reporting MoveDetected events.
type Reconstructor struct {
	Params params.Params
	Events *events.Feed
}

// NewReconstructor constructs a Reconstructor. Events may be nil.
func NewReconstructor(p params.Params, ev *events.Feed) *Reconstructor {
	return &Reconstructor{Params: p, Events: ev}
}

// ReconstructMoves is the method form of the package-level
// ReconstructMoves.
func (r *Reconstructor) ReconstructMoves(samples []types.Sample, stops []types.Stop) []types.Move {
	if len(samples) == 0 {
		return nil
	}

	departure := samples[0].Timestamp
	prevPlaceID := types.NoisePlaceID
	prevLoc := samples[0].Location

	var candidates []types.Move
	for _, s := range stops {
		path := samplesBetween(samples, departure, s.Arrival)
		if len(path) == 0 {
			// No samples cover this stop's approach; nothing to
			// thread, so leave departure/prevPlaceID untouched and
			// move on to the next stop.
			continue
		}
		// StopFrom/StopTo carry the bounding stops' centroid locations,
		// not the first/last raw sample position of path — Distance is
		// computed from path directly, so this only affects what a
		// caller reads off StopFrom.Location/StopTo.Location for the
		// move's endpoints.
		m := types.Move{
			StopFrom:  syntheticStop(prevLoc, departure, prevPlaceID),
			StopTo:    s,
			Distance:  pathDistance(path, r.Params.EarthRadius),
			PlaceFrom: prevPlaceID,
			PlaceTo:   s.PlaceID,
			Departure: departure,
			Arrival:   s.Arrival,
		}
		candidates = append(candidates, m)

		departure = s.Departure
		prevPlaceID = s.PlaceID
		prevLoc = s.Location
	}

	if tail := samplesFrom(samples, departure); len(tail) > 0 {
		last := tail[len(tail)-1]
		m := types.Move{
			StopFrom:  syntheticStop(prevLoc, departure, prevPlaceID),
			StopTo:    syntheticStop(last.Location, last.Timestamp, types.NoisePlaceID),
			Distance:  pathDistance(tail, r.Params.EarthRadius),
			PlaceFrom: prevPlaceID,
			PlaceTo:   types.NoisePlaceID,
			Departure: departure,
			Arrival:   last.Timestamp,
		}
		candidates = append(candidates, m)
	}

	out := make([]types.Move, 0, len(candidates))
	for _, m := range candidates {
		if m.Duration() >= r.Params.MinMoveDuration {
			out = append(out, m)
			if r.Events != nil {
				r.Events.Publish(events.MoveDetected{Move: m})
			}
		}
	}
	return out
}

// syntheticStop stands in for StopFrom/StopTo where a bare location
// and timestamp is needed rather than a real Stop (the window's first
// sample, and any trailing dead-end path with no closing stop).
func syntheticStop(loc geom.Location, t time.Time, placeID int) types.Stop {
	return types.Stop{Location: loc, Arrival: t, Departure: t, PlaceID: placeID}
}

// samplesBetween returns the samples with from <= t <= to, inclusive.
func samplesBetween(samples []types.Sample, from, to time.Time) []types.Sample {
	out := make([]types.Sample, 0)
	for _, s := range samples {
		if s.Timestamp.Before(from) {
			continue
		}
		if s.Timestamp.After(to) {
			break
		}
		out = append(out, s)
	}
	return out
}

// samplesFrom returns the samples with t >= from.
func samplesFrom(samples []types.Sample, from time.Time) []types.Sample {
	out := make([]types.Sample, 0)
	for _, s := range samples {
		if s.Timestamp.Before(from) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// pathDistance sums the great-circle distance between consecutive
// samples in path.
func pathDistance(path []types.Sample, earthRadius float64) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += geom.Haversine(path[i-1].Location, path[i].Location, earthRadius)
	}
	return total
}

// Stream runs ReconstructMoves against a fixed, already-known stop
// sequence while samples arrive incrementally on a channel, buffering
// internally and flushing once the channel closes. It exists for
// symmetry with the stop detector's Stream; callers on the hot path
// are expected to use the batch form once stops are finalized.
func (r *Reconstructor) Stream(ctx context.Context, in <-chan types.Sample, stops []types.Stop) (<-chan types.Move, <-chan error) {
	out := make(chan types.Move)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		buf := make([]types.Sample, 0, 1024)
		for {
			select {
			case <-ctx.Done():
				return
			case s, ok := <-in:
				if !ok {
					for _, m := range r.ReconstructMoves(buf, stops) {
						select {
						case out <- m:
						case <-ctx.Done():
							return
						}
					}
					return
				}
				buf = append(buf, s)
			}
		}
	}()
	return out, errc
}
