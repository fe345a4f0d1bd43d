package place

import (
	"testing"
	"time"

	"github.com/harrowgate/mobility/geom"
	"github.com/harrowgate/mobility/params"
	"github.com/harrowgate/mobility/types"
)

func stopAt(lat, lon float64, arrival time.Time, dur time.Duration) types.Stop {
	return types.Stop{
		Location:  geom.Location{Lat: lat, Lon: lon},
		Arrival:   arrival,
		Departure: arrival.Add(dur),
		PlaceID:   types.NoisePlaceID,
	}
}

func TestClusterPlacesSingleClusterOneStop(t *testing.T) {
	p := params.DefaultParams()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	stops := []types.Stop{stopAt(55.7000, 12.5500, base, 19*time.Minute)}

	places := ClusterPlaces(stops, p)
	if len(places) != 1 {
		t.Fatalf("have %d places want 1", len(places))
	}
	if stops[0].PlaceID != 0 {
		t.Errorf("have place id %d want 0", stops[0].PlaceID)
	}
	if places[0].Duration != 19*time.Minute {
		t.Errorf("have duration %v want 19m", places[0].Duration)
	}
}

func TestClusterPlacesTwoDistantStopsTwoPlaces(t *testing.T) {
	p := params.DefaultParams()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	stops := []types.Stop{
		stopAt(55.7000, 12.5500, base, 10*time.Minute),
		stopAt(55.7020, 12.5520, base.Add(time.Hour), 10*time.Minute),
	}

	places := ClusterPlaces(stops, p)
	if len(places) != 2 {
		t.Fatalf("have %d places want 2", len(places))
	}
	if stops[0].PlaceID == stops[1].PlaceID {
		t.Errorf("expected distinct place ids, got %d and %d", stops[0].PlaceID, stops[1].PlaceID)
	}
}

func TestClusterPlacesNearbyStopsMergeIntoOnePlace(t *testing.T) {
	p := params.DefaultParams()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	// Same home location visited on two different days: two stops whose
	// centroids drift about 6m apart, within MinPlaceDistance.
	stops := []types.Stop{
		stopAt(55.70000, 12.55000, base, 30*time.Minute),
		stopAt(55.70005, 12.55004, base.Add(24*time.Hour), 45*time.Minute),
	}

	places := ClusterPlaces(stops, p)
	if len(places) != 1 {
		t.Fatalf("have %d places want 1", len(places))
	}
	if stops[0].PlaceID != stops[1].PlaceID {
		t.Errorf("expected the two nearby stops to share a place id")
	}
	if places[0].Duration != 75*time.Minute {
		t.Errorf("have summed duration %v want 75m", places[0].Duration)
	}
}

func TestClusterPlacesEveryStopGetsExactlyOnePlace(t *testing.T) {
	p := params.DefaultParams()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	stops := []types.Stop{
		stopAt(55.7000, 12.5500, base, 10*time.Minute),
		stopAt(55.7000, 12.5501, base.Add(time.Hour), 10*time.Minute),
		stopAt(10.0000, 20.0000, base.Add(2*time.Hour), 10*time.Minute),
	}

	places := ClusterPlaces(stops, p)
	seen := make(map[int]bool)
	for _, pl := range places {
		if seen[pl.ID] {
			t.Errorf("duplicate place id %d in output", pl.ID)
		}
		seen[pl.ID] = true
	}
	for _, s := range stops {
		if s.PlaceID < 0 {
			t.Errorf("stop left unassigned: %+v", s)
			continue
		}
		if !seen[s.PlaceID] {
			t.Errorf("stop references place id %d with no matching Place", s.PlaceID)
		}
	}
}

func TestClusterPlacesEmptyInput(t *testing.T) {
	places := ClusterPlaces(nil, params.DefaultParams())
	if len(places) != 0 {
		t.Errorf("expected no places for empty input")
	}
}

func TestBucketLevelWidensWithEpsilon(t *testing.T) {
	if bucketLevel(10) < bucketLevel(1000) {
		t.Errorf("expected a coarser (smaller) level for a larger epsilon")
	}
}
