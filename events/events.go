// Package events defines the structured-event callback the core can
// emit to an embedding host, replacing ad-hoc print-based debugging.
// It is built on go-ethereum's generic event.FeedOf, a publish/
// subscribe primitive for notifying subscribers of newly produced
// results without coupling the core to any particular sink.
package events

import (
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/harrowgate/mobility/types"
)

// Event is the sum type of everything the core can report. A host
// that only cares about one kind type-switches on the concrete type.
type Event interface {
	// At returns when the event was produced, for ordering/log
	// correlation on the host side.
	At() time.Time
}

// StopCandidate is published when the stop detector closes a
// candidate run, before the minimum-duration filter is applied.
type StopCandidate struct {
	Stop types.Stop
	When time.Time
}

func (e StopCandidate) At() time.Time { return stamp(e.When) }

// StopDetected is published when a candidate survives the
// minimum-duration filter and becomes a real Stop.
type StopDetected struct {
	Stop types.Stop
	When time.Time
}

func (e StopDetected) At() time.Time { return stamp(e.When) }

// PlaceAssigned is published once per stop as the place clusterer
// writes its PlaceID.
type PlaceAssigned struct {
	Stop    types.Stop
	PlaceID int
	When    time.Time
}

func (e PlaceAssigned) At() time.Time { return stamp(e.When) }

// MoveDetected is published when the move reconstructor emits a move
// that survives the minimum-duration filter.
type MoveDetected struct {
	Move types.Move
	When time.Time
}

func (e MoveDetected) At() time.Time { return stamp(e.When) }

// FeaturesExtracted is published once the feature extractor finishes
// a day.
type FeaturesExtracted struct {
	Features types.Features
	When     time.Time
}

func (e FeaturesExtracted) At() time.Time { return stamp(e.When) }

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

// Feed is a single fan-out point for every Event the core produces
// during one run. A host subscribes with Subscribe and drains the
// channel it's given; Publish never blocks waiting for a subscriber
// that isn't there (event.FeedOf drops sends with no subscribers).
type Feed struct {
	feed event.FeedOf[Event]
}

// NewFeed returns a ready-to-use Feed.
func NewFeed() *Feed {
	return &Feed{}
}

// Subscribe registers ch to receive every Event published on f.
// Callers must Unsubscribe (via the returned event.Subscription) when
// done, or the feed will leak a goroutine.
func (f *Feed) Subscribe(ch chan<- Event) event.Subscription {
	return f.feed.Subscribe(ch)
}

// Publish fans e out to every current subscriber.
func (f *Feed) Publish(e Event) {
	f.feed.Send(e)
}
