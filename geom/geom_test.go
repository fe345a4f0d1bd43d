package geom

import (
	"math"
	"testing"
)

func TestHaversineSymmetricAndZero(t *testing.T) {
	a := Location{Lat: 55.7, Lon: 12.55}
	if d := HaversineDefault(a, a); d != 0 {
		t.Errorf("have %v want 0", d)
	}
	b := Location{Lat: 55.702, Lon: 12.552}
	if d1, d2 := HaversineDefault(a, b), HaversineDefault(b, a); d1 != d2 {
		t.Errorf("not symmetric: %v != %v", d1, d2)
	}
	if HaversineDefault(a, b) < 0 {
		t.Errorf("negative distance")
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// 1 degree of latitude on a sphere of radius EarthRadiusMeters is
	// 6378137 * pi / 180, about 111.3km.
	a := Location{Lat: 0, Lon: 0}
	b := Location{Lat: 1, Lon: 0}
	d := HaversineDefault(a, b)
	want := 111319.5
	if math.Abs(d-want) > 500 {
		t.Errorf("have %.1f want ~%.1f", d, want)
	}
}

func TestCentroidLowerMedianEven(t *testing.T) {
	// Sorted lats: 1,2,3,4 -> lower median index 4/2=2 -> value 3.
	pts := []Location{
		{Lat: 4, Lon: 4},
		{Lat: 1, Lon: 1},
		{Lat: 3, Lon: 3},
		{Lat: 2, Lon: 2},
	}
	c := Centroid(pts)
	if c.Lat != 3 || c.Lon != 3 {
		t.Errorf("have (%v,%v) want (3,3)", c.Lat, c.Lon)
	}
}

func TestCentroidSingle(t *testing.T) {
	c := Centroid([]Location{{Lat: 55.7, Lon: 12.55}})
	if c.Lat != 55.7 || c.Lon != 12.55 {
		t.Errorf("have %v", c)
	}
}

func TestCentroidPanicsOnEmpty(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic on empty input")
		}
	}()
	Centroid(nil)
}
