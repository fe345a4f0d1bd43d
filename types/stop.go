package types

import (
	"encoding/json"
	"time"

	"github.com/harrowgate/mobility/geom"
)

// NoisePlaceID is the placeId sentinel for a stop that has not been
// (or could not be) assigned to a place by the clusterer.
const NoisePlaceID = -1

// Stop is a maximal contiguous run of samples whose centroid stayed
// within a spatial radius for at least a minimum duration. PlaceID is
// written exactly once, by the place clusterer; nothing else mutates a
// Stop after construction.
type Stop struct {
	Location  geom.Location
	Arrival   time.Time
	Departure time.Time
	PlaceID   int
}

// Duration returns Departure - Arrival.
func (s Stop) Duration() time.Duration {
	return s.Departure.Sub(s.Arrival)
}

// IsNoise reports whether the stop is unassigned to any place.
func (s Stop) IsNoise() bool {
	return s.PlaceID == NoisePlaceID
}

type stopWire struct {
	Centroid  centroidWire `json:"centroid"`
	PlaceID   int32        `json:"place_id"`
	Arrival   int64        `json:"arrival"`
	Departure int64        `json:"departure"`
}

type centroidWire struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MarshalJSON implements the external record schema for Stop:
// {centroid: {latitude, longitude}, place_id: i32, arrival: i64, departure: i64}.
func (s Stop) MarshalJSON() ([]byte, error) {
	return json.Marshal(stopWire{
		Centroid:  centroidWire{Latitude: s.Location.Lat, Longitude: s.Location.Lon},
		PlaceID:   int32(s.PlaceID),
		Arrival:   s.Arrival.UnixMilli(),
		Departure: s.Departure.UnixMilli(),
	})
}

// UnmarshalJSON implements the external record schema for Stop.
func (s *Stop) UnmarshalJSON(data []byte) error {
	var w stopWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.Location = geom.Location{Lat: w.Centroid.Latitude, Lon: w.Centroid.Longitude}
	s.PlaceID = int(w.PlaceID)
	s.Arrival = time.UnixMilli(w.Arrival).UTC()
	s.Departure = time.UnixMilli(w.Departure).UTC()
	return nil
}

// SortStopsChronological sorts stops in place by Arrival time.
func SortStopsChronological(stops []Stop) {
	insertionSortStops(stops)
}

// insertionSortStops is a small stable sort; stop batches are expected
// to already be nearly ordered (they come out of the detector in
// order), so insertion sort's near-linear best case is the right tool.
func insertionSortStops(stops []Stop) {
	for i := 1; i < len(stops); i++ {
		j := i
		for j > 0 && stops[j].Arrival.Before(stops[j-1].Arrival) {
			stops[j], stops[j-1] = stops[j-1], stops[j]
			j--
		}
	}
}
