package stop

import (
	"testing"
	"time"

	"github.com/harrowgate/mobility/geom"
	"github.com/harrowgate/mobility/params"
	"github.com/harrowgate/mobility/types"
)

func sampleAt(lat, lon float64, t time.Time) types.Sample {
	return types.Sample{Location: geom.Location{Lat: lat, Lon: lon}, Timestamp: t}
}

func TestDetectStopsSingleStationaryCluster(t *testing.T) {
	p := params.DefaultParams()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	samples := make([]types.Sample, 0, 20)
	for i := 0; i < 20; i++ {
		samples = append(samples, sampleAt(55.7000, 12.5500, base.Add(time.Duration(i)*time.Minute)))
	}
	stops, err := DetectStops(samples, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(stops) != 1 {
		t.Fatalf("have %d stops want 1", len(stops))
	}
	s := stops[0]
	if s.Location.Lat != 55.7000 || s.Location.Lon != 12.5500 {
		t.Errorf("have centroid %+v want (55.7,12.55)", s.Location)
	}
	if got := s.Duration(); got != 19*time.Minute {
		t.Errorf("have duration %v want 19m", got)
	}
	if s.PlaceID != types.NoisePlaceID {
		t.Errorf("expected unassigned place id")
	}
}

func TestDetectStopsDurationFilter(t *testing.T) {
	p := params.DefaultParams()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	samples := make([]types.Sample, 0, 4)
	for i := 0; i < 4; i++ {
		samples = append(samples, sampleAt(55.7, 12.55, base.Add(time.Duration(i)*time.Minute)))
	}
	stops, err := DetectStops(samples, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(stops) != 0 {
		t.Fatalf("have %d stops want 0", len(stops))
	}
}

func TestDetectStopsEmptyInput(t *testing.T) {
	stops, err := DetectStops(nil, params.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if len(stops) != 0 {
		t.Errorf("expected empty result")
	}
}

func TestDetectStopsUnorderedRejected(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	samples := []types.Sample{
		sampleAt(55.7, 12.55, base.Add(time.Minute)),
		sampleAt(55.7, 12.55, base),
	}
	_, err := DetectStops(samples, params.DefaultParams())
	if err != types.ErrUnorderedSamples {
		t.Errorf("have %v want ErrUnorderedSamples", err)
	}
}

func TestDetectStopsSingleSampleProducesNoStop(t *testing.T) {
	samples := []types.Sample{sampleAt(55.7, 12.55, time.Now())}
	stops, err := DetectStops(samples, params.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if len(stops) != 0 {
		t.Errorf("expected zero-duration candidate to be filtered")
	}
}

// TestDetectStopsRejectsSampleOutsideGrowingCentroid guards against
// including the boundary sample that fails the radius test in the
// centroid used to test it: two samples 11 minutes apart and about
// 66m distant (beyond MinStopDistance) must not merge into one stop
// just because the pair's own centroid happens to sit close to the
// second point.
func TestDetectStopsRejectsSampleOutsideGrowingCentroid(t *testing.T) {
	p := params.DefaultParams()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	samples := []types.Sample{
		sampleAt(55.70000, 12.55000, base),
		sampleAt(55.70059, 12.55000, base.Add(11*time.Minute)),
	}
	stops, err := DetectStops(samples, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(stops) != 0 {
		t.Fatalf("have %d stops want 0 (each candidate is a lone, sub-duration sample)", len(stops))
	}
}

func TestDetectStopsTwoClustersWithWalk(t *testing.T) {
	p := params.DefaultParams()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	samples := make([]types.Sample, 0, 33)

	for i := 0; i < 12; i++ {
		samples = append(samples, sampleAt(55.7000, 12.5500, base.Add(time.Duration(i)*time.Minute)))
	}
	startLat, startLon := 55.7000, 12.5500
	endLat, endLon := 55.7020, 12.5520
	for i := 0; i < 6; i++ {
		frac := float64(i+1) / 6.0
		lat := startLat + frac*(endLat-startLat)
		lon := startLon + frac*(endLon-startLon)
		samples = append(samples, sampleAt(lat, lon, base.Add(time.Duration(12+i)*time.Minute)))
	}
	for i := 0; i < 15; i++ {
		samples = append(samples, sampleAt(endLat, endLon, base.Add(time.Duration(18+i)*time.Minute)))
	}

	stops, err := DetectStops(samples, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(stops) != 2 {
		t.Fatalf("have %d stops want 2", len(stops))
	}
}
