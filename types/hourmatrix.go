package types

import "math"

// HourMatrix is a 24 x P table of hours-occupied per (hour-of-day,
// place) for one calendar day. Cell [h][p] is the fraction of hour h
// spent at place p, and lies in [0,1]; each row sums to at most 1.
type HourMatrix struct {
	Cells     [24][]float64
	NumPlaces int
}

// NewHourMatrix allocates a zeroed matrix for numPlaces places.
func NewHourMatrix(numPlaces int) HourMatrix {
	m := HourMatrix{NumPlaces: numPlaces}
	for h := range m.Cells {
		m.Cells[h] = make([]float64, numPlaces)
	}
	return m
}

// Sum returns the sum of every cell in the matrix.
func (m HourMatrix) Sum() float64 {
	total := 0.0
	for h := range m.Cells {
		for _, v := range m.Cells[h] {
			total += v
		}
	}
	return total
}

// RowSum returns the sum of hour h's row.
func (m HourMatrix) RowSum(h int) float64 {
	total := 0.0
	for _, v := range m.Cells[h] {
		total += v
	}
	return total
}

// PlaceSum returns the total occupancy of place p across all 24 hours,
// in hours. Summing this over h for every p recovers the total
// duration at each place on the matrix's day.
func (m HourMatrix) PlaceSum(p int) float64 {
	total := 0.0
	for h := range m.Cells {
		if p < len(m.Cells[h]) {
			total += m.Cells[h][p]
		}
	}
	return total
}

// HomePlaceID returns the place with the greatest cumulative
// night-time (00:00-06:00, i.e. hours [0,6)) occupancy, or -1 if the
// night-time sum is zero.
func (m HourMatrix) HomePlaceID() int {
	best := -1
	bestSum := 0.0
	for p := 0; p < m.NumPlaces; p++ {
		sum := 0.0
		for h := 0; h < 6; h++ {
			sum += m.Cells[h][p]
		}
		if sum > bestSum {
			bestSum = sum
			best = p
		}
	}
	if bestSum == 0 {
		return -1
	}
	return best
}

// Overlap returns the fraction of overlap between m and other:
// (sum of per-cell minimums) / min(sum(m), sum(other)). It is
// symmetric and Overlap(m, m) == 1 whenever sum(m) > 0. It is defined
// to be -1 when either matrix's sum is zero ("not comparable").
func (m HourMatrix) Overlap(other HourMatrix) float64 {
	sumM, sumO := m.Sum(), other.Sum()
	if sumM == 0 || sumO == 0 {
		return -1
	}
	minP := m.NumPlaces
	if other.NumPlaces < minP {
		minP = other.NumPlaces
	}
	overlap := 0.0
	for h := 0; h < 24; h++ {
		for p := 0; p < minP; p++ {
			overlap += math.Min(m.Cells[h][p], other.Cells[h][p])
		}
	}
	denom := sumM
	if sumO < denom {
		denom = sumO
	}
	return overlap / denom
}

// ErrorAgainst returns the mean absolute per-cell difference between m
// and other, normalized by 24*NumPlaces (of m).
func (m HourMatrix) ErrorAgainst(other HourMatrix) float64 {
	minP := m.NumPlaces
	if other.NumPlaces < minP {
		minP = other.NumPlaces
	}
	total := 0.0
	for h := 0; h < 24; h++ {
		for p := 0; p < minP; p++ {
			total += math.Abs(m.Cells[h][p] - other.Cells[h][p])
		}
	}
	denom := float64(24 * m.NumPlaces)
	if denom == 0 {
		return 0
	}
	return total / denom
}
