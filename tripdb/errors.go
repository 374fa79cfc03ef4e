package tripdb

import "errors"

var (
	// ErrInvalidPeriod marks a period outside the configured year bounds or
	// with a month outside 1..12.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrDatasetUnavailable marks a valid period whose snapshot could not be
	// located or opened.
	ErrDatasetUnavailable = errors.New("dataset unavailable")
)
