package domain

import "errors"

var (
	// ErrInsufficientData means too few matched pairs to report metrics.
	// Callers should treat it as a pending state, not a failure.
	ErrInsufficientData = errors.New("insufficient data for accuracy metrics")

	// ErrDegenerateInput means the input values cannot produce finite metrics
	ErrDegenerateInput = errors.New("degenerate input for accuracy metrics")

	// ErrNotFound is returned by repositories when a record does not exist
	ErrNotFound = errors.New("not found")
)
