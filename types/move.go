package types

import (
	"encoding/json"
	"time"
)

// Move is an ordered pair of stops plus the cumulative great-circle
// path distance of the raw samples recorded between them.
type Move struct {
	StopFrom Stop
	StopTo   Stop
	Distance float64 // meters, >= 0

	// PlaceFrom/PlaceTo carry the topological edge independently of
	// StopFrom/StopTo.PlaceID. A dead-end move (see the move
	// reconstructor) has no detected destination stop; its StopTo is a
	// zero-duration stand-in at the last sample, with PlaceID -1.
	PlaceFrom int
	PlaceTo   int

	Departure time.Time
	Arrival   time.Time
}

// Duration returns Arrival - Departure.
func (m Move) Duration() time.Duration {
	return m.Arrival.Sub(m.Departure)
}

type moveWire struct {
	StopFrom Stop    `json:"stop_from"`
	StopTo   Stop    `json:"stop_to"`
	Distance float64 `json:"distance"`
}

// MarshalJSON implements the external record schema for Move:
// {stop_from: Stop, stop_to: Stop, distance: f64}.
func (m Move) MarshalJSON() ([]byte, error) {
	return json.Marshal(moveWire{
		StopFrom: m.StopFrom,
		StopTo:   m.StopTo,
		Distance: m.Distance,
	})
}

// UnmarshalJSON implements the external record schema for Move.
// PlaceFrom/PlaceTo/Departure/Arrival are not on the wire; they are
// recovered from StopFrom's PlaceID and Departure and StopTo's PlaceID
// and Arrival. This is exact for moves whose stops carry those values,
// as the move reconstructor's moves (dead ends included) do.
func (m *Move) UnmarshalJSON(data []byte) error {
	var w moveWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m.StopFrom = w.StopFrom
	m.StopTo = w.StopTo
	m.Distance = w.Distance
	m.PlaceFrom = w.StopFrom.PlaceID
	m.PlaceTo = w.StopTo.PlaceID
	m.Departure = w.StopFrom.Departure
	m.Arrival = w.StopTo.Arrival
	return nil
}
