package telemetry

import (
	"time"
)

// Sample is one timestamped telemetry value. Samples are replaced
// wholesale on update, never merged.
type Sample[T any] struct {
	Value     T         `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSample pairs v with its capture time.
func NewSample[T any](v T, at time.Time) Sample[T] {
	return Sample[T]{Value: v, Timestamp: at}
}

// Stamped returns s, or s restamped with at when the producer left the
// timestamp unset.
func (s Sample[T]) Stamped(at time.Time) Sample[T] {
	if s.Timestamp.IsZero() {
		s.Timestamp = at
	}
	return s
}
