package clean

import (
	"testing"
	"time"

	"github.com/harrowgate/mobility/geom"
	"github.com/harrowgate/mobility/types"
)

func sample(lat, lon float64, t time.Time) types.Sample {
	return types.Sample{Location: geom.Location{Lat: lat, Lon: lon}, Timestamp: t}
}

func TestFilterValidRejectsOutOfRange(t *testing.T) {
	now := time.Now()
	if FilterValid(sample(95, 0, now)) {
		t.Errorf("expected out-of-range latitude to be rejected")
	}
	if !FilterValid(sample(45, 45, now)) {
		t.Errorf("expected in-range coordinate to pass")
	}
}

func TestDedupeDropsRepeats(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	in := []types.Sample{
		sample(55.7, 12.55, base),
		sample(55.7, 12.55, base),
		sample(55.7, 12.55, base.Add(time.Minute)),
	}
	out := Dedupe(in)
	if len(out) != 2 {
		t.Fatalf("got %d samples, want 2", len(out))
	}
}

func TestSamplesPipelineOrderPreserved(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	in := []types.Sample{
		sample(55.7, 12.55, base),
		sample(200, 12.55, base.Add(time.Minute)), // invalid, dropped
		sample(55.7, 12.55, base),                 // duplicate of first, dropped
		sample(55.71, 12.56, base.Add(2*time.Minute)),
	}
	out := Samples(in)
	if len(out) != 2 {
		t.Fatalf("got %d samples, want 2", len(out))
	}
	if !out[0].Timestamp.Equal(base) || !out[1].Timestamp.Equal(base.Add(2*time.Minute)) {
		t.Errorf("order not preserved: %+v", out)
	}
}
