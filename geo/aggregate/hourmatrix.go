// Package aggregate builds the per-day HourMatrix: a 24 x numPlaces
// table of how much of each hour a subject spent at each place,
// derived from the day's stops. It folds a batch of stops into one
// summary structure of hour-of-day occupancy.
package aggregate

import (
	"time"

	"github.com/harrowgate/mobility/types"
)

// BuildHourMatrix accumulates hourSlots contributions for every stop
// in stops whose Arrival falls on day, into a matrix sized for
// numPlaces places. Stops whose Arrival and Departure fall on
// different calendar days are rejected with ErrStraddlesMidnight; the
// caller is expected to have already split such a stop at midnight.
func BuildHourMatrix(stops []types.Stop, day time.Time, numPlaces int) (types.HourMatrix, error) {
	m := types.NewHourMatrix(numPlaces)
	for _, s := range stops {
		if !types.SameCalendarDay(s.Arrival, day) {
			continue
		}
		if err := hourSlots(&m, s); err != nil {
			return types.HourMatrix{}, err
		}
	}
	return m, nil
}

// hourSlots distributes one stop's dwell time across the hours of the
// matrix it belongs to. A stop with no place assignment (noise), or
// with a place id outside [0, NumPlaces), has no column in the matrix
// and contributes nothing.
func hourSlots(m *types.HourMatrix, s types.Stop) error {
	if !types.SameCalendarDay(s.Arrival, s.Departure) {
		return types.ErrStraddlesMidnight
	}
	p := s.PlaceID
	if p < 0 || p >= m.NumPlaces {
		return nil
	}

	arrHour, arrMin := s.Arrival.Hour(), s.Arrival.Minute()
	depHour, depMin := s.Departure.Hour(), s.Departure.Minute()

	if arrHour == depHour {
		m.Cells[arrHour][p] += float64(depMin-arrMin) / 60.0
		return nil
	}

	m.Cells[arrHour][p] += 1 - float64(arrMin)/60.0
	for h := arrHour + 1; h < depHour; h++ {
		m.Cells[h][p] += 1
	}
	m.Cells[depHour][p] += float64(depMin) / 60.0
	return nil
}
