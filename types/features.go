package types

import "time"

// Features is the feature record emitted by the feature extractor for
// a single calendar day.
type Features struct {
	Day time.Time

	NumberOfPlacesDaily    int
	HomeStayDaily          float64 // [0,1], or -1 if not comparable
	TotalDistanceDaily     float64 // meters
	LocationVarianceDaily  float64
	EntropyDaily           float64
	NormalizedEntropyDaily float64
	RoutineIndexDaily      float64 // [0,1], or -1 if no history is comparable

	HourMatrixDaily HourMatrix
}
