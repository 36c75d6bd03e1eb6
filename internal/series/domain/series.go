package series

import (
	"sort"
	"time"
)

// Sample is one cell of the aligned series. Valid is false when the device
// had no reading at that instant; an absent sample is never a zero.
type Sample struct {
	KWh   float64
	Valid bool
}

// Reading is a timestamped consumption value for one device, as produced
// by ingestion.
type Reading struct {
	TS  time.Time
	KWh float64
}

// Source is one device's reconciled readings, keyed by its assigned id.
type Source struct {
	DeviceID string
	Readings []Reading
}

// Series is the canonical aligned dataset: a time-indexed wide table with
// one kWh column per device.
// Invariants:
// 1) the index is strictly increasing (unique timestamps).
// 2) every row has exactly one cell per device.
// 3) the column set equals the set of sources it was aligned from.
// It is immutable after construction; filters and projections return new
// views and never touch the receiver.
type Series struct {
	devices []string
	index   []time.Time
	cells   [][]Sample
}

// New constructs a series from pre-aligned data. Used by the canonical
// store when loading the persisted dataset.
func New(devices []string, index []time.Time, cells [][]Sample) (*Series, error) {
	if len(devices) == 0 {
		return nil, ErrNoDevices
	}
	if len(index) != len(cells) {
		return nil, ErrShapeMismatch
	}
	seen := make(map[string]struct{}, len(devices))
	for _, device := range devices {
		if device == "" {
			return nil, ErrEmptyDeviceID
		}
		if _, ok := seen[device]; ok {
			return nil, ErrDuplicateDevice
		}
		seen[device] = struct{}{}
	}
	for i, row := range cells {
		if len(row) != len(devices) {
			return nil, ErrShapeMismatch
		}
		if i > 0 && !index[i].After(index[i-1]) {
			return nil, ErrUnsortedIndex
		}
	}

	return &Series{
		devices: append([]string(nil), devices...),
		index:   append([]time.Time(nil), index...),
		cells:   append([][]Sample(nil), cells...),
	}, nil
}

// Align merges per-device sources into one series on the union of their
// timestamps (outer join). Column order follows source order. A non-zero
// cutoff drops every reading on or after it; the cutoff marks the end of
// the dataset's known-good collection window.
func Align(sources []Source, cutoff time.Time) (*Series, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	devices := make([]string, 0, len(sources))
	seen := make(map[string]struct{}, len(sources))
	byDevice := make([]map[int64]float64, 0, len(sources))
	union := make(map[int64]time.Time)

	for _, source := range sources {
		if source.DeviceID == "" {
			return nil, ErrEmptyDeviceID
		}
		if _, ok := seen[source.DeviceID]; ok {
			return nil, ErrDuplicateDevice
		}
		seen[source.DeviceID] = struct{}{}
		devices = append(devices, source.DeviceID)

		values := make(map[int64]float64, len(source.Readings))
		for _, reading := range source.Readings {
			if !cutoff.IsZero() && !reading.TS.Before(cutoff) {
				continue
			}
			key := reading.TS.UnixNano()
			if _, ok := values[key]; ok {
				return nil, ErrDuplicateTimestamp
			}
			values[key] = reading.KWh
			union[key] = reading.TS
		}
		byDevice = append(byDevice, values)
	}

	index := make([]time.Time, 0, len(union))
	for _, ts := range union {
		index = append(index, ts)
	}
	sort.Slice(index, func(i, j int) bool { return index[i].Before(index[j]) })

	cells := make([][]Sample, len(index))
	for i, ts := range index {
		key := ts.UnixNano()
		row := make([]Sample, len(devices))
		for j := range devices {
			if value, ok := byDevice[j][key]; ok {
				row[j] = Sample{KWh: value, Valid: true}
			}
		}
		cells[i] = row
	}

	return &Series{devices: devices, index: index, cells: cells}, nil
}

// Devices returns the column ids in order.
func (s *Series) Devices() []string {
	return append([]string(nil), s.devices...)
}

// Len returns the number of index entries.
func (s *Series) Len() int { return len(s.index) }

// Timestamp returns the index entry at position i.
func (s *Series) Timestamp(i int) time.Time { return s.index[i] }

// Cell returns the sample at index position i for device column j.
func (s *Series) Cell(i, j int) Sample { return s.cells[i][j] }

// Bounds returns the first and last index timestamps. ok is false for an
// empty series.
func (s *Series) Bounds() (min, max time.Time, ok bool) {
	if len(s.index) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s.index[0], s.index[len(s.index)-1], true
}

// FilterRange restricts the series to start <= ts <= end. Both bounds are
// inclusive. An empty result is valid. The receiver is not modified.
func (s *Series) FilterRange(start, end time.Time) (*Series, error) {
	if start.IsZero() || end.IsZero() {
		return nil, ErrInvalidDateRange
	}
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	lo := sort.Search(len(s.index), func(i int) bool { return !s.index[i].Before(start) })
	hi := sort.Search(len(s.index), func(i int) bool { return s.index[i].After(end) })

	return &Series{
		devices: s.devices,
		index:   s.index[lo:hi],
		cells:   s.cells[lo:hi],
	}, nil
}

// Select projects the series onto the requested device columns in the
// requested order. An empty selection keeps all columns; see DESIGN.md.
func (s *Series) Select(devices []string) (*Series, error) {
	if len(devices) == 0 {
		return s, nil
	}

	position := make(map[string]int, len(s.devices))
	for j, device := range s.devices {
		position[device] = j
	}

	columns := make([]int, 0, len(devices))
	seen := make(map[string]struct{}, len(devices))
	for _, device := range devices {
		j, ok := position[device]
		if !ok {
			return nil, ErrUnknownDevice
		}
		if _, dup := seen[device]; dup {
			return nil, ErrDuplicateDevice
		}
		seen[device] = struct{}{}
		columns = append(columns, j)
	}

	cells := make([][]Sample, len(s.cells))
	for i, row := range s.cells {
		projected := make([]Sample, len(columns))
		for k, j := range columns {
			projected[k] = row[j]
		}
		cells[i] = projected
	}

	return &Series{
		devices: append([]string(nil), devices...),
		index:   s.index,
		cells:   cells,
	}, nil
}
