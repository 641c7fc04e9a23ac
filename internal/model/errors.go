package model

import "errors"

var (
	// ErrEmptySeries is returned when a computation receives zero observations.
	ErrEmptySeries = errors.New("empty price series")
	// ErrInvalidConfig covers bad thresholds, spend amounts and window sizes.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrUnsortedInput is returned when observation dates are not strictly increasing.
	ErrUnsortedInput = errors.New("unsorted input")
)
