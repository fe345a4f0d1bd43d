package types

import (
	"fmt"
	"time"

	"github.com/harrowgate/mobility/geom"
	"github.com/mitchellh/hashstructure/v2"
)

// Place is a spatial cluster of stops produced by the place clusterer.
// Ids are unique within a processing run but are not guaranteed stable
// across runs on different data windows; consumers that need a stable
// identity should key off Signature instead.
type Place struct {
	ID       int
	Location geom.Location
	Duration time.Duration
}

// Signature is a content hash of the place's centroid, rounded to
// roughly street-level precision (5 decimal places, ~1m), for hosts
// that want to re-identify "the same place" across independent runs
// without relying on run-local ids. The core itself never uses this
// for anything; it is an optional convenience, the same role
// hashstructure plays for dedupe keys elsewhere in this module.
func (p Place) Signature() (uint64, error) {
	rounded := struct {
		Lat float64
		Lon float64
	}{
		Lat: roundTo(p.Location.Lat, 5),
		Lon: roundTo(p.Location.Lon, 5),
	}
	h, err := hashstructure.Hash(rounded, hashstructure.FormatV2, nil)
	if err != nil {
		return 0, fmt.Errorf("place signature: %w", err)
	}
	return h, nil
}

func roundTo(v float64, precision int) float64 {
	scale := 1.0
	for i := 0; i < precision; i++ {
		scale *= 10
	}
	return float64(int64(v*scale+sign(v)*0.5)) / scale
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
