package aggregate

import (
	"testing"
	"time"

	"github.com/harrowgate/mobility/types"
)

func TestBuildHourMatrixSingleHourStop(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	stops := []types.Stop{
		{
			Arrival:   day.Add(9*time.Hour + 10*time.Minute),
			Departure: day.Add(9*time.Hour + 40*time.Minute),
			PlaceID:   0,
		},
	}
	m, err := BuildHourMatrix(stops, day, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Cells[9][0]; got < 0.499 || got > 0.501 {
		t.Errorf("have M[9][0] = %v want 0.5", got)
	}
	if got := m.Sum(); got < 0.499 || got > 0.501 {
		t.Errorf("have sum %v want 0.5", got)
	}
}

func TestBuildHourMatrixSpansMultipleHours(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	stops := []types.Stop{
		{
			Arrival:   day.Add(9*time.Hour + 30*time.Minute),
			Departure: day.Add(12*time.Hour + 15*time.Minute),
			PlaceID:   0,
		},
	}
	m, err := BuildHourMatrix(stops, day, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Cells[9][0]; got < 0.499 || got > 0.501 {
		t.Errorf("have M[9][0] = %v want 0.5", got)
	}
	if got := m.Cells[10][0]; got != 1 {
		t.Errorf("have M[10][0] = %v want 1", got)
	}
	if got := m.Cells[11][0]; got != 1 {
		t.Errorf("have M[11][0] = %v want 1", got)
	}
	if got := m.Cells[12][0]; got < 0.249 || got > 0.251 {
		t.Errorf("have M[12][0] = %v want 0.25", got)
	}
}

func TestBuildHourMatrixRejectsMidnightStraddle(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	stops := []types.Stop{
		{
			Arrival:   day.Add(23 * time.Hour),
			Departure: day.Add(25 * time.Hour),
			PlaceID:   0,
		},
	}
	_, err := BuildHourMatrix(stops, day, 1)
	if err != types.ErrStraddlesMidnight {
		t.Errorf("have %v want ErrStraddlesMidnight", err)
	}
}

func TestBuildHourMatrixIgnoresOtherDays(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	otherDay := day.Add(24 * time.Hour)
	stops := []types.Stop{
		{
			Arrival:   otherDay.Add(9 * time.Hour),
			Departure: otherDay.Add(10 * time.Hour),
			PlaceID:   0,
		},
	}
	m, err := BuildHourMatrix(stops, day, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Sum(); got != 0 {
		t.Errorf("have sum %v want 0 (stop is on a different day)", got)
	}
}

func TestBuildHourMatrixPlaceSumRoundTripsStopDuration(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	stops := []types.Stop{
		{
			Arrival:   day.Add(9*time.Hour + 15*time.Minute),
			Departure: day.Add(11*time.Hour + 45*time.Minute),
			PlaceID:   0,
		},
	}
	m, err := BuildHourMatrix(stops, day, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.PlaceSum(0); got < 2.499 || got > 2.501 {
		t.Errorf("have place sum %v want 2.5h", got)
	}
}
