package aggregation

import "time"

// Summary holds the dashboard's scalar figures for one aggregated view.
// MeanKWh is the mean of per-device mean consumption: each selected device
// weighs equally regardless of how many samples it contributed.
type Summary struct {
	DeviceCount int
	TotalKWh    float64
	MeanKWh     float64
}

// StatKind labels a per-device extreme.
type StatKind string

const (
	StatMax StatKind = "MAX"
	StatMin StatKind = "MIN"
)

// StatRow is one per-device extreme with the instant it occurred.
type StatRow struct {
	DeviceID string
	Kind     StatKind
	KWh      float64
	TS       time.Time
}

// Summarize derives the scalar summary from a view. Absent cells are
// ignored, never counted as zero.
func Summarize(view *View) Summary {
	summary := Summary{DeviceCount: len(view.Devices)}

	var meanSum float64
	var meanCount int
	for j := range view.Devices {
		var sum float64
		var count int
		for i := range view.Index {
			cell := view.Cells[i][j]
			if !cell.Valid {
				continue
			}
			sum += cell.KWh
			count++
		}
		summary.TotalKWh += sum
		if count > 0 {
			meanSum += sum / float64(count)
			meanCount++
		}
	}
	if meanCount > 0 {
		summary.MeanKWh = meanSum / float64(meanCount)
	}
	return summary
}

// MaxMinTable returns the per-device maximum and minimum with their
// timestamps, ties broken by first occurrence in index order, sorted by
// device column order then MAX before MIN. Devices with no present sample
// contribute no rows.
func MaxMinTable(view *View) []StatRow {
	rows := make([]StatRow, 0, 2*len(view.Devices))
	for j, device := range view.Devices {
		var (
			found    bool
			max, min StatRow
		)
		for i := range view.Index {
			cell := view.Cells[i][j]
			if !cell.Valid {
				continue
			}
			if !found {
				found = true
				max = StatRow{DeviceID: device, Kind: StatMax, KWh: cell.KWh, TS: view.Index[i]}
				min = StatRow{DeviceID: device, Kind: StatMin, KWh: cell.KWh, TS: view.Index[i]}
				continue
			}
			if cell.KWh > max.KWh {
				max.KWh = cell.KWh
				max.TS = view.Index[i]
			}
			if cell.KWh < min.KWh {
				min.KWh = cell.KWh
				min.TS = view.Index[i]
			}
		}
		if found {
			rows = append(rows, max, min)
		}
	}
	return rows
}
