// Package place implements the density-based (DBSCAN-style) place
// clusterer: stop centroids within epsilon of each other, transitively,
// become one place. With minPoints=1 every stop is a core point, so
// clustering reduces to connected components of the epsilon-neighbor
// graph, found here with a union-find over candidates pre-bucketed by
// S2 cell to accelerate the geometric neighbor query.
package place

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/harrowgate/mobility/events"
	"github.com/harrowgate/mobility/geom"
	"github.com/harrowgate/mobility/params"
	"github.com/harrowgate/mobility/types"
)

// ClusterPlaces assigns a PlaceID to every stop (mutating the slice in
// place) and returns the resulting places. Stops that already carry a
// place id are reassigned; clustering always considers the full set.
func ClusterPlaces(stops []types.Stop, p params.Params) []types.Place {
	return NewClusterer(p, nil).ClusterPlaces(stops)
}

// Clusterer runs the DBSCAN pass and can optionally report
// PlaceAssigned events as it writes each stop's place id.
type Clusterer struct {
	Params params.Params
	Events *events.Feed
}

// NewClusterer constructs a Clusterer. Events may be nil.
func NewClusterer(p params.Params, ev *events.Feed) *Clusterer {
	return &Clusterer{Params: p, Events: ev}
}

// ClusterPlaces is the method form of the package-level ClusterPlaces.
func (c *Clusterer) ClusterPlaces(stops []types.Stop) []types.Place {
	n := len(stops)
	if n == 0 {
		return nil
	}

	uf := newUnionFind(n)
	buckets := bucketIndex(stops, c.Params.MinPlaceDistance)

	for i := range stops {
		for _, j := range candidateNeighbors(stops, i, buckets, c.Params.MinPlaceDistance) {
			if j <= i {
				continue
			}
			d := geom.Haversine(stops[i].Location, stops[j].Location, c.Params.EarthRadius)
			if d <= c.Params.MinPlaceDistance {
				uf.union(i, j)
			}
		}
	}

	// Map each union-find root to a dense, deterministic place id.
	// Roots are assigned ids in order of first appearance when
	// iterating stops front-to-back, so label assignment depends only
	// on stop order.
	rootToID := make(map[int]int)
	nextID := 0
	for i := range stops {
		root := uf.find(i)
		id, ok := rootToID[root]
		if !ok {
			id = nextID
			nextID++
			rootToID[root] = id
		}
		stops[i].PlaceID = id
		if c.Events != nil {
			c.Events.Publish(events.PlaceAssigned{Stop: stops[i], PlaceID: id})
		}
	}

	places := make([]types.Place, nextID)
	memberLocations := make([][]geom.Location, nextID)
	for i := range stops {
		id := stops[i].PlaceID
		places[id].ID = id
		places[id].Duration += stops[i].Duration()
		memberLocations[id] = append(memberLocations[id], stops[i].Location)
	}
	for id := range places {
		places[id].Location = geom.Centroid(memberLocations[id])
	}
	return places
}

// bucketIndex maps each stop's coarse S2 cell to the indices of stops
// that fall in it, at a level chosen so a cell's edge is comfortably
// wider than epsilon.
func bucketIndex(stops []types.Stop, epsilonMeters float64) map[s2.CellID][]int {
	level := bucketLevel(epsilonMeters)
	idx := make(map[s2.CellID][]int, len(stops))
	for i, s := range stops {
		cell := cellIDAtLevel(s.Location, level)
		idx[cell] = append(idx[cell], i)
	}
	return idx
}

// candidateNeighbors returns the indices of stops that might be within
// epsilon of stops[i]: everything sharing stops[i]'s own bucket, plus
// everything in the 8 buckets reached by nudging stops[i]'s location
// by epsilon in each compass direction. Because bucketLevel guarantees
// a cell edge wider than epsilon, any true epsilon-neighbor of a point
// can be at most one cell away, so this candidate set never misses a
// real neighbor.
func candidateNeighbors(stops []types.Stop, i int, buckets map[s2.CellID][]int, epsilonMeters float64) []int {
	level := bucketLevel(epsilonMeters)
	loc := stops[i].Location
	seen := make(map[s2.CellID]bool, 9)
	out := make([]int, 0, 8)

	add := func(l geom.Location) {
		cell := cellIDAtLevel(l, level)
		if seen[cell] {
			return
		}
		seen[cell] = true
		out = append(out, buckets[cell]...)
	}

	add(loc)
	dLat, dLon := epsilonDegrees(loc.Lat, epsilonMeters)
	for _, d := range [][2]float64{
		{dLat, 0}, {-dLat, 0}, {0, dLon}, {0, -dLon},
		{dLat, dLon}, {dLat, -dLon}, {-dLat, dLon}, {-dLat, -dLon},
	} {
		add(geom.Location{Lat: loc.Lat + d[0], Lon: loc.Lon + d[1]})
	}
	return out
}

// epsilonDegrees converts a meter distance to approximate degrees of
// latitude and longitude at the given latitude.
func epsilonDegrees(latDeg, meters float64) (dLat, dLon float64) {
	const metersPerDegreeLat = 111320.0
	dLat = meters / metersPerDegreeLat
	cosLat := math.Cos(latDeg * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01 // guard against the poles
	}
	dLon = meters / (metersPerDegreeLat * cosLat)
	return
}

// cellIDAtLevel truncates the leaf S2 cell id for loc to level, to
// bucket locations by cell.
func cellIDAtLevel(loc geom.Location, level int) s2.CellID {
	leaf := s2.CellIDFromLatLng(s2.LatLngFromDegrees(loc.Lat, loc.Lon))
	var lsb uint64 = 1 << uint(2*(30-level))
	truncated := (uint64(leaf) & -lsb) | lsb
	return s2.CellID(truncated)
}

// bucketLevel picks an S2 level whose cell edge is comfortably wider
// than epsilonMeters, per the S2 cell statistics table.
func bucketLevel(epsilonMeters float64) int {
	switch {
	case epsilonMeters <= 0:
		return 20
	case epsilonMeters < 20:
		return 18
	case epsilonMeters < 60:
		return 16
	case epsilonMeters < 180:
		return 14
	case epsilonMeters < 600:
		return 12
	case epsilonMeters < 2000:
		return 10
	default:
		return 6
	}
}

// unionFind is a standard disjoint-set with path compression and
// union by rank, used to collect stops into connected components under
// the epsilon-neighbor relation.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}
