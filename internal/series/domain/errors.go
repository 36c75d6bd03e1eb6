package series

import "errors"

var (
	// ErrNoSources is returned when aligning zero sources.
	ErrNoSources = errors.New("series: no sources")
	// ErrNoDevices is returned when constructing a series without columns.
	ErrNoDevices = errors.New("series: no devices")
	// ErrEmptyDeviceID is returned when a source has no device id.
	ErrEmptyDeviceID = errors.New("series: empty device id")
	// ErrDuplicateDevice is returned when a device id appears twice.
	ErrDuplicateDevice = errors.New("series: duplicate device")
	// ErrDuplicateTimestamp is returned when a device has two readings at
	// the same instant. Duplicates mean a broken source export and are
	// surfaced, never resolved silently.
	ErrDuplicateTimestamp = errors.New("series: duplicate timestamp for device")
	// ErrUnsortedIndex is returned when a loaded index is not strictly increasing.
	ErrUnsortedIndex = errors.New("series: index not strictly increasing")
	// ErrShapeMismatch is returned when rows and columns do not line up.
	ErrShapeMismatch = errors.New("series: row/column shape mismatch")
	// ErrUnknownDevice is returned when a selection names an absent column.
	ErrUnknownDevice = errors.New("series: unknown device")
	// ErrInvalidDateRange is returned when a filter range is empty or inverted.
	ErrInvalidDateRange = errors.New("series: invalid date range")
)
