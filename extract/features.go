// Package extract computes the per-day Features record from a day's
// stops, moves, samples, and hour matrices. It is the terminal stage of
// the pipeline, a summary pass folding mobility geometry into a
// fixed-shape feature vector instead of a spatial index.
package extract

import (
	"math"
	"time"

	"github.com/harrowgate/mobility/types"
	"gonum.org/v1/gonum/stat"
)

// ExtractFeatures computes every field of Features for day from the
// day's stops and samples and the window's moves, given the day's already-built
// HourMatrix and the HourMatrix of every prior day in the window
// (for routineIndexDaily). It is a pure function: nothing here
// retains state between calls.
func ExtractFeatures(
	day time.Time,
	stopsOnDay []types.Stop,
	movesAll []types.Move,
	samplesOnDay []types.Sample,
	matrix types.HourMatrix,
	history []types.HourMatrix,
) types.Features {
	f := types.Features{
		Day:             day,
		HourMatrixDaily: matrix,
	}

	f.NumberOfPlacesDaily = numberOfPlaces(stopsOnDay)
	f.HomeStayDaily = homeStay(matrix)
	f.TotalDistanceDaily = totalDistance(movesAll, stopsOnDay)
	f.LocationVarianceDaily = locationVariance(samplesOnDay)
	f.EntropyDaily = entropy(matrix, f.NumberOfPlacesDaily)
	f.NormalizedEntropyDaily = normalizedEntropy(f.EntropyDaily, f.NumberOfPlacesDaily)
	f.RoutineIndexDaily = routineIndex(matrix, history)

	return f
}

// numberOfPlaces returns the count of distinct non-noise place ids
// among stopsOnDay.
func numberOfPlaces(stops []types.Stop) int {
	seen := make(map[int]bool)
	for _, s := range stops {
		if s.IsNoise() {
			continue
		}
		seen[s.PlaceID] = true
	}
	return len(seen)
}

// homeStay returns the fraction of the day's matrix mass spent at the
// matrix's home place, or -1 if there is no home place or no mass.
func homeStay(m types.HourMatrix) float64 {
	home := m.HomePlaceID()
	total := m.Sum()
	if home < 0 || total == 0 {
		return -1
	}
	return m.PlaceSum(home) / total
}

// totalDistance sums the distance of every move departing on the same
// calendar day as stopsOnDay's reference day. The reference day is
// read off stopsOnDay's first stop, since the caller has already
// filtered stopsOnDay to the target day. If stopsOnDay is empty there
// is no day to compare moves against, so totalDistance returns 0
// without looking at moves at all.
func totalDistance(moves []types.Move, stopsOnDay []types.Stop) float64 {
	if len(stopsOnDay) == 0 {
		return 0
	}
	day := stopsOnDay[0].Arrival
	total := 0.0
	for _, mv := range moves {
		if types.SameCalendarDay(mv.Departure, day) {
			total += mv.Distance
		}
	}
	return total
}

// locationVariance returns log(var(lat) + var(lon) + 1) over samples,
// using gonum's unbiased sample variance, or 0 if there are fewer than
// two samples.
func locationVariance(samples []types.Sample) float64 {
	if len(samples) < 2 {
		return 0
	}
	lats := make([]float64, len(samples))
	lons := make([]float64, len(samples))
	for i, s := range samples {
		lats[i] = s.Location.Lat
		lons[i] = s.Location.Lon
	}
	varLat := stat.Variance(lats, nil)
	varLon := stat.Variance(lons, nil)
	return math.Log(varLat + varLon + 1)
}

// entropy returns the Shannon entropy (natural log) of the
// per-place duration distribution on the day's matrix, or 0 if the
// matrix is empty or there is only one place.
func entropy(m types.HourMatrix, numberOfPlaces int) float64 {
	total := m.Sum()
	if total == 0 || numberOfPlaces <= 1 {
		return 0
	}
	p := make([]float64, m.NumPlaces)
	for place := 0; place < m.NumPlaces; place++ {
		p[place] = m.PlaceSum(place) / total
	}
	return stat.Entropy(p)
}

// normalizedEntropy divides entropyDaily by log(numberOfPlaces), or
// returns 0 when numberOfPlaces <= 1 (log(1) == 0, so this also guards
// the division).
func normalizedEntropy(entropyDaily float64, numberOfPlaces int) float64 {
	if numberOfPlaces <= 1 {
		return 0
	}
	return entropyDaily / math.Log(float64(numberOfPlaces))
}

// routineIndex is the mean of overlap(matrix, h) over every h in
// history for which the overlap is defined (both sums nonzero), or -1
// if none are defined.
func routineIndex(matrix types.HourMatrix, history []types.HourMatrix) float64 {
	sum := 0.0
	count := 0
	for _, h := range history {
		o := matrix.Overlap(h)
		if o < 0 {
			continue
		}
		sum += o
		count++
	}
	if count == 0 {
		return -1
	}
	return sum / float64(count)
}
