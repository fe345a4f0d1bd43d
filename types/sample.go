package types

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/harrowgate/mobility/geom"
)

// Sample is a single geolocation observation. Within a processing
// batch, samples must be ordered non-decreasingly by Timestamp; the
// core never sorts on the caller's behalf (see ErrUnorderedSamples).
type Sample struct {
	Location  geom.Location
	Timestamp time.Time
}

// sampleWire is the external record schema from the interop contract:
// {latitude: f64, longitude: f64, datetime: i64 milliseconds-since-epoch}.
type sampleWire struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Datetime  int64   `json:"datetime"`
}

// MarshalJSON implements the external record schema for Sample.
func (s Sample) MarshalJSON() ([]byte, error) {
	return json.Marshal(sampleWire{
		Latitude:  s.Location.Lat,
		Longitude: s.Location.Lon,
		Datetime:  s.Timestamp.UnixMilli(),
	})
}

// UnmarshalJSON implements the external record schema for Sample.
func (s *Sample) UnmarshalJSON(data []byte) error {
	var w sampleWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.Location = geom.Location{Lat: w.Latitude, Lon: w.Longitude}
	s.Timestamp = time.UnixMilli(w.Datetime).UTC()
	return nil
}

// Validate checks a sample's coordinate for the PreconditionViolation
// class of structural failure: non-finite or out-of-range lat/lon.
// It does not validate Timestamp, which the Go type system already
// constrains to a valid instant.
func (s Sample) Validate() error {
	lat, lon := s.Location.Lat, s.Location.Lon
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return fmt.Errorf("%w: non-finite coordinate (%v,%v)", ErrPreconditionViolation, lat, lon)
	}
	if !s.Location.Valid() {
		return fmt.Errorf("%w: coordinate out of range (%v,%v)", ErrPreconditionViolation, lat, lon)
	}
	return nil
}

// SamplesOrdered reports whether samples are ordered non-decreasingly
// by Timestamp, as required of every processing batch.
func SamplesOrdered(samples []Sample) bool {
	for i := 1; i < len(samples); i++ {
		if samples[i].Timestamp.Before(samples[i-1].Timestamp) {
			return false
		}
	}
	return true
}

// SameCalendarDay reports whether t falls on the same calendar day as
// day, comparing t's date in t's own time.Location with day's date in
// day's time.Location. Callers are responsible for
// normalizing samples/stops to the time zone they want to aggregate on;
// the core never assumes one.
func SameCalendarDay(t, day time.Time) bool {
	ty, tm, td := t.Date()
	dy, dm, dd := day.Date()
	return ty == dy && tm == dm && td == dd
}
