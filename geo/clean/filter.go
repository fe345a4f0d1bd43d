// Package clean pre-filters a raw sample stream before it reaches the
// stop detector: coordinate sanity and chronological-duplicate removal.
// It is data hygiene, not a privacy transform, and not part of the pure
// core — a host is free to skip it and feed DetectStops directly, at
// the cost of tripping the core's own precondition checks on anything
// this stage would have caught.
//
// It is a set of small predicate functions plus a dedupe cache,
// filtering Samples by coordinate validity and duplicate detection.
package clean

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/harrowgate/mobility/types"
)

// defaultDedupeCacheSize bounds the dedupe cache at a fixed capacity,
// trading exact whole-window dedupe for a constant memory footprint.
const defaultDedupeCacheSize = 10_000

// FilterValid reports whether s has a finite, in-range coordinate. It
// is the silent, pre-boundary counterpart of types.Sample.Validate,
// which instead rejects loudly once a sample reaches the core.
func FilterValid(s types.Sample) bool {
	return s.Validate() == nil
}

// Deduper drops samples that are exact repeats (same latitude,
// longitude and millisecond timestamp) of one already seen, using a
// bounded LRU of content hashes.
type Deduper struct {
	cache *lru.Cache[uint64, struct{}]
}

// NewDeduper constructs a Deduper with the default cache capacity.
func NewDeduper() *Deduper {
	c, err := lru.New[uint64, struct{}](defaultDedupeCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// defaultDedupeCacheSize never is.
		panic(fmt.Sprintf("clean: building dedupe cache: %v", err))
	}
	return &Deduper{cache: c}
}

// dedupeKey is hashed in place of the Sample itself: hashstructure
// skips unexported struct fields, and every field of time.Time is
// unexported, so hashing a Sample directly would hash only its
// location and treat every sample at that coordinate as the same
// sample regardless of when it was taken.
type dedupeKey struct {
	Lat, Lon float64
	Ms       int64
}

// Pass reports whether s is not a duplicate of a recently seen sample,
// recording it as seen if it is new. A false result means the caller
// should drop s.
func (d *Deduper) Pass(s types.Sample) bool {
	key := dedupeKey{Lat: s.Location.Lat, Lon: s.Location.Lon, Ms: s.Timestamp.UnixMilli()}
	h, err := hashstructure.Hash(key, hashstructure.FormatV2, nil)
	if err != nil {
		// A key of two float64s and an int64 is always hashable;
		// this branch exists only because Hash returns an error
		// signature, not because it can fail here.
		return true
	}
	if d.cache.Contains(h) {
		return false
	}
	d.cache.Add(h, struct{}{})
	return true
}

// Dedupe filters samples through a fresh Deduper, preserving order.
func Dedupe(samples []types.Sample) []types.Sample {
	d := NewDeduper()
	out := make([]types.Sample, 0, len(samples))
	for _, s := range samples {
		if d.Pass(s) {
			out = append(out, s)
		}
	}
	return out
}

// Samples runs the full cleaning pipeline over a batch: drop
// structurally invalid samples, then drop chronological duplicates.
// Order is preserved; the result is safe to hand to DetectStops
// (modulo the caller's own sort, per ErrUnorderedSamples).
func Samples(samples []types.Sample) []types.Sample {
	valid := make([]types.Sample, 0, len(samples))
	for _, s := range samples {
		if FilterValid(s) {
			valid = append(valid, s)
		}
	}
	return Dedupe(valid)
}
