// Package stop implements the online stop-detection state machine:
// greedy incremental-centroid expansion over a chronologically ordered
// run of samples, emitting a candidate stop each time a sample falls
// outside the current centroid's radius, then dropping candidates
// that don't meet the minimum-duration threshold.
//
// It is a Seeding/Expanding/Emit state machine that can run over a
// batch or be driven from a channel, against a precise
// incremental-centroid/radius contract rather than a fixed dwell
// heuristic.
package stop

import (
	"context"
	"fmt"

	"github.com/harrowgate/mobility/events"
	"github.com/harrowgate/mobility/geom"
	"github.com/harrowgate/mobility/params"
	"github.com/harrowgate/mobility/types"
)

// Phase names the detector's state.
type Phase int

const (
	// Seeding: no current candidate stop.
	Seeding Phase = iota
	// Expanding: accumulating points within the radius of a growing centroid.
	Expanding
	// Emit: the last point fell outside the radius, or the stream ended.
	Emit
)

// Detector runs the incremental-centroid stop detection state machine.
// A zero Detector is not valid; use NewDetector.
type Detector struct {
	Params params.Params
	Events *events.Feed

	phase Phase
}

// NewDetector constructs a Detector for one batch/stream. Events may
// be nil; no events are emitted in that case.
func NewDetector(p params.Params, ev *events.Feed) *Detector {
	return &Detector{Params: p, Events: ev, phase: Seeding}
}

// DetectStops runs the full batch contract: it validates chronological
// ordering, scans samples with the greedy incremental-centroid
// algorithm, and returns only candidates meeting MinStopDuration.
//
// An empty batch returns an empty, non-error result (EmptyInput).
// A batch whose timestamps are not non-decreasing is rejected
// (ErrUnorderedSamples); the caller must sort and retry. A batch
// containing a non-finite or out-of-range coordinate is rejected with
// an error wrapping ErrPreconditionViolation.
func DetectStops(samples []types.Sample, p params.Params) ([]types.Stop, error) {
	return NewDetector(p, nil).DetectStops(samples)
}

// DetectStops is the method form of the package-level DetectStops,
// allowing a Detector constructed with an event feed to emit a
// StopCandidate event as each candidate is closed and a StopDetected
// event for each candidate that passes the duration filter.
func (d *Detector) DetectStops(samples []types.Sample) ([]types.Stop, error) {
	if len(samples) == 0 {
		return []types.Stop{}, nil
	}
	if !types.SamplesOrdered(samples) {
		return nil, types.ErrUnorderedSamples
	}
	for _, s := range samples {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	candidates := make([]types.Stop, 0)
	n := len(samples)
	i := 0
	for i < n {
		d.phase = Seeding
		j := i + 1
		c := centroidOfRange(samples, i, j, n)
		d.phase = Expanding

		for j < n && geom.Haversine(samples[j].Location, c, d.Params.EarthRadius) <= d.Params.MinStopDistance {
			j++
			c = centroidOfRange(samples, i, j, n)
		}
		d.phase = Emit

		candidate := types.Stop{
			Location:  c,
			Arrival:   samples[i].Timestamp,
			Departure: samples[j-1].Timestamp,
			PlaceID:   types.NoisePlaceID,
		}
		candidates = append(candidates, candidate)
		if d.Events != nil {
			d.Events.Publish(events.StopCandidate{Stop: candidate})
		}
		i = j
	}

	out := make([]types.Stop, 0, len(candidates))
	for _, c := range candidates {
		if c.Departure.Sub(c.Arrival) >= d.Params.MinStopDuration {
			out = append(out, c)
			if d.Events != nil {
				d.Events.Publish(events.StopDetected{Stop: c})
			}
		}
	}
	return out, nil
}

// centroidOfRange returns the centroid of samples[i..j), the
// half-open range already accepted into the current candidate. j is
// exclusive so that the sample at index j can be tested against the
// centroid of what came before it without that sample biasing its
// own admission test.
func centroidOfRange(samples []types.Sample, i, j, n int) geom.Location {
	hi := j
	if hi > n {
		hi = n
	}
	pts := make([]geom.Location, 0, hi-i)
	for k := i; k < hi; k++ {
		pts = append(pts, samples[k].Location)
	}
	return geom.Centroid(pts)
}

// Stream runs DetectStops over a channel of samples arriving in
// chronological order. It buffers every sample and runs DetectStops
// once the input channel closes, then emits the resulting stops; no
// stop is emitted before the channel closes. If ctx is done first, it
// returns without emitting anything further.
func (d *Detector) Stream(ctx context.Context, in <-chan types.Sample) (<-chan types.Stop, <-chan error) {
	out := make(chan types.Stop)
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
					stops, err := d.DetectStops(buf)
					if err != nil {
						errc <- fmt.Errorf("stop detector: %w", err)
						return
					}
					for _, st := range stops {
						select {
						case out <- st:
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
