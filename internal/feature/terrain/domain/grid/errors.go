package grid

import "errors"

var (
	// ErrInvalidShape is returned when a grid is requested with a non-positive dimension.
	ErrInvalidShape = errors.New("grid: rows and cols must be positive")
)
