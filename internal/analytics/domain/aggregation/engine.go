package aggregation

import (
	"time"

	series "chargepoint-analytics/internal/series/domain"
)

// View is the output of one transform: same column semantics as the input
// series, values replaced by the transform's output. Daily modes index one
// row per calendar day; TOTAL keeps sample granularity.
type View struct {
	Mode        Mode
	Granularity Granularity
	Devices     []string
	Index       []time.Time
	Cells       [][]series.Sample
}

// Apply runs the named transform over the filtered, projected series.
// Devices are processed independently: only present samples join a
// device's running sum, and a day with no samples for a device is absent
// from that device's output rather than zero.
func Apply(s *series.Series, mode Mode) (*View, error) {
	if s == nil {
		return nil, ErrNilSeries
	}
	if !mode.IsValid() {
		return nil, ErrInvalidMode
	}

	if mode == ModeTotal {
		return totalView(s), nil
	}

	include := windowFor(mode)
	view := &View{
		Mode:        mode,
		Granularity: GranularityDay,
		Devices:     s.Devices(),
	}

	deviceCount := len(view.Devices)
	var (
		currentDay time.Time
		sums       []series.Sample
	)
	flush := func() {
		if sums == nil {
			return
		}
		view.Index = append(view.Index, currentDay)
		view.Cells = append(view.Cells, sums)
		sums = nil
	}

	for i := 0; i < s.Len(); i++ {
		ts := s.Timestamp(i)
		if !include(ts) {
			continue
		}
		day := truncateToDay(ts)
		if sums == nil || !day.Equal(currentDay) {
			flush()
			currentDay = day
			sums = make([]series.Sample, deviceCount)
		}
		for j := 0; j < deviceCount; j++ {
			cell := s.Cell(i, j)
			if !cell.Valid {
				continue
			}
			sums[j].KWh += cell.KWh
			sums[j].Valid = true
		}
	}
	flush()

	// Daily rows may carry no device at all when every sample in the
	// window belonged to excluded columns only; those rows are dropped.
	compactEmptyRows(view)

	if mode == ModeCum15hFirst15 && len(view.Index) > 15 {
		view.Index = view.Index[:15]
		view.Cells = view.Cells[:15]
	}

	return view, nil
}

func totalView(s *series.Series) *View {
	view := &View{
		Mode:        ModeTotal,
		Granularity: GranularitySample,
		Devices:     s.Devices(),
		Index:       make([]time.Time, s.Len()),
		Cells:       make([][]series.Sample, s.Len()),
	}
	for i := 0; i < s.Len(); i++ {
		view.Index[i] = s.Timestamp(i)
		row := make([]series.Sample, len(view.Devices))
		for j := range row {
			row[j] = s.Cell(i, j)
		}
		view.Cells[i] = row
	}
	return view
}

func windowFor(mode Mode) func(time.Time) bool {
	switch mode {
	case ModeCumNoon:
		return func(ts time.Time) bool { return secondOfDay(ts) <= 12*3600 }
	case ModeCum15hFirst15:
		return func(ts time.Time) bool { return secondOfDay(ts) <= 15*3600 }
	case ModeCumWeekday:
		return func(ts time.Time) bool { return ts.Weekday() != time.Sunday }
	case ModeCumSunday:
		return func(ts time.Time) bool { return ts.Weekday() == time.Sunday }
	default:
		return func(time.Time) bool { return true }
	}
}

func compactEmptyRows(view *View) {
	keepIndex := view.Index[:0]
	keepCells := view.Cells[:0]
	for i, row := range view.Cells {
		any := false
		for _, cell := range row {
			if cell.Valid {
				any = true
				break
			}
		}
		if any {
			keepIndex = append(keepIndex, view.Index[i])
			keepCells = append(keepCells, row)
		}
	}
	view.Index = keepIndex
	view.Cells = keepCells
}

func secondOfDay(ts time.Time) int {
	return ts.Hour()*3600 + ts.Minute()*60 + ts.Second()
}

func truncateToDay(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
}
