package aggregation

import "errors"

var (
	// ErrInvalidMode is returned when a mode name is not one of the five transforms.
	ErrInvalidMode = errors.New("aggregation: invalid mode")
	// ErrNilSeries is returned when applying a transform to a nil series.
	ErrNilSeries = errors.New("aggregation: nil series")
)
