package timeslot

import (
	"errors"
	"time"
)

var (
	ErrInvalidTime     = errors.New("invalid time format")
	ErrInvalidOrdering = errors.New("start time must be before end time")
)

// Range is a closed-open time interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// New builds a Range, rejecting empty or inverted intervals.
func New(start, end time.Time) (Range, error) {
	if !start.Before(end) {
		return Range{}, ErrInvalidOrdering
	}
	return Range{Start: start, End: end}, nil
}

// Parse builds a Range from two RFC 3339 timestamps.
func Parse(startStr, endStr string) (Range, error) {
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return Range{}, ErrInvalidTime
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return Range{}, ErrInvalidTime
	}
	return New(start, end)
}

// Overlaps reports whether the two intervals share any instant.
// Intervals that merely touch at an endpoint do not overlap, so
// back-to-back slots like [10,12) and [12,14) are both bookable.
func (r Range) Overlaps(o Range) bool {
	return r.Start.Before(o.End) && r.End.After(o.Start)
}

// Contains reports whether r fully encloses o. An exact match counts.
func (r Range) Contains(o Range) bool {
	return !r.Start.After(o.Start) && !r.End.Before(o.End)
}

// Duration returns the length of the interval.
func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}
