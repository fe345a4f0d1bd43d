package types

import "errors"

// Sentinel errors for the structural ("programmer error") failure
// modes of the core, per the error taxonomy: these surface loudly and
// are never returned for ordinary data-driven degeneracies (those
// return documented sentinel values instead, e.g. -1 or 0).
var (
	// ErrUnorderedSamples is returned when a batch's timestamps are
	// not non-decreasing. The caller must sort before retrying.
	ErrUnorderedSamples = errors.New("mobility: samples not ordered non-decreasingly by timestamp")

	// ErrStraddlesMidnight is returned when a stop's arrival and
	// departure fall on different calendar days during hour-slot
	// aggregation. The caller must split the stop at midnight.
	ErrStraddlesMidnight = errors.New("mobility: stop straddles a calendar day boundary")

	// ErrPreconditionViolation is returned for a non-finite or
	// out-of-range coordinate.
	ErrPreconditionViolation = errors.New("mobility: precondition violation")
)
