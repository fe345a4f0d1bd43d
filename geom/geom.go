// Package geom provides the small set of geometry primitives the rest of
// the mobility core is built on: great-circle distance and a
// median-based centroid over a set of points. Everything above this
// package deals in degrees; everything inside converts to radians for
// the duration of a calculation and never leaks that choice back out.
package geom

import (
	"math"
	"sort"
)

// EarthRadiusMeters is the WGS-84 equatorial radius, in meters.
// It is the default radius for Haversine; callers processing data at
// high latitudes may supply a different radius via Params.EarthRadius.
const EarthRadiusMeters = 6378137.0

// Location is a point on the Earth's surface, in degrees.
type Location struct {
	Lat float64
	Lon float64
}

// Valid reports whether the coordinate is within normal ranges.
// It does not check for NaN/Inf; callers should check for those first
// at ingestion boundaries (see types.Sample.Validate).
func (l Location) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lon >= -180 && l.Lon <= 180
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Haversine returns the great-circle distance between a and b, in
// meters, on a sphere of the given radius. It is symmetric and
// Haversine(a, a, r) == 0 for any finite a.
func Haversine(a, b Location, radiusMeters float64) float64 {
	lat1, lon1 := toRadians(a.Lat), toRadians(a.Lon)
	lat2, lon2 := toRadians(b.Lat), toRadians(b.Lon)

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	// Clamp for points that are (numerically) antipodal or identical;
	// h can drift a hair outside [0,1] from floating-point error.
	if h > 1 {
		h = 1
	} else if h < 0 {
		h = 0
	}
	return 2 * radiusMeters * math.Asin(math.Sqrt(h))
}

// HaversineDefault calls Haversine with EarthRadiusMeters.
func HaversineDefault(a, b Location) float64 {
	return Haversine(a, b, EarthRadiusMeters)
}

// Centroid returns the median-centroid of points: the latitude is the
// lower-median of the input latitudes, and the longitude is the
// lower-median of the input longitudes, computed independently. For an
// even-length input the lower median is the element at index n/2 of
// the sorted sequence (0-indexed), not an average of the two middle
// elements — this keeps the centroid robust to a single wild GPS
// outlier and makes each coordinate an actual input value rather than
// a synthesized one. Because the two axes are taken independently, the
// resulting Location need not be one of the input points.
//
// Centroid panics if points is empty; callers must never pass an
// empty set.
func Centroid(points []Location) Location {
	if len(points) == 0 {
		panic("geom: Centroid of empty point set")
	}
	lats := make([]float64, len(points))
	lons := make([]float64, len(points))
	for i, p := range points {
		lats[i] = p.Lat
		lons[i] = p.Lon
	}
	return Location{
		Lat: lowerMedian(lats),
		Lon: lowerMedian(lons),
	}
}

// lowerMedian returns the value at index n/2 of the sorted input.
// The input slice is sorted in place; callers pass a throwaway copy.
func lowerMedian(xs []float64) float64 {
	sort.Float64s(xs)
	return xs[len(xs)/2]
}
