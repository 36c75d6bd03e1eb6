package aggregation

import (
	"math"
	"testing"
	"time"

	series "chargepoint-analytics/internal/series/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarizeTotalsAndMeanOfDeviceMeans(t *testing.T) {
	s := mustAlign(t,
		series.Source{DeviceID: "PC1", Readings: []series.Reading{
			{TS: ts(2023, time.January, 1, 9, 0), KWh: 1.0},
			{TS: ts(2023, time.January, 1, 10, 0), KWh: 3.0},
		}},
		series.Source{DeviceID: "PC2", Readings: []series.Reading{
			{TS: ts(2023, time.January, 1, 11, 0), KWh: 6.0},
		}},
	)
	view, err := Apply(s, ModeTotal)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	summary := Summarize(view)
	if summary.DeviceCount != 2 {
		t.Fatalf("device count = %d, want 2", summary.DeviceCount)
	}
	if !almostEqual(summary.TotalKWh, 10.0) {
		t.Fatalf("total = %v, want 10.0", summary.TotalKWh)
	}
	// PC1 mean 2.0, PC2 mean 6.0: devices weigh equally.
	if !almostEqual(summary.MeanKWh, 4.0) {
		t.Fatalf("mean = %v, want 4.0", summary.MeanKWh)
	}
}

func TestSummarizeEmptyViewIsZero(t *testing.T) {
	s := mustAlign(t, series.Source{DeviceID: "PC1", Readings: []series.Reading{
		{TS: ts(2023, time.January, 1, 9, 0), KWh: 1.0},
	}})
	filtered, err := s.FilterRange(ts(2030, time.January, 1, 0, 0), ts(2030, time.January, 2, 0, 0))
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	view, err := Apply(filtered, ModeTotal)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	summary := Summarize(view)
	if summary.TotalKWh != 0 || summary.MeanKWh != 0 {
		t.Fatalf("summary = %+v, want zero totals for empty view", summary)
	}
	if summary.DeviceCount != 1 {
		t.Fatalf("device count = %d, want selected column count", summary.DeviceCount)
	}
}

func TestMaxMinTableSingleColumn(t *testing.T) {
	s := mustAlign(t, series.Source{DeviceID: "PC1", Readings: []series.Reading{
		{TS: ts(2023, time.January, 1, 9, 0), KWh: 1.0},
		{TS: ts(2023, time.January, 1, 10, 0), KWh: 5.0},
		{TS: ts(2023, time.January, 1, 11, 0), KWh: 3.0},
	}})
	view, err := Apply(s, ModeTotal)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	rows := MaxMinTable(view)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want MAX and MIN", len(rows))
	}
	max, min := rows[0], rows[1]
	if max.Kind != StatMax || max.KWh != 5.0 || !max.TS.Equal(ts(2023, time.January, 1, 10, 0)) {
		t.Fatalf("max = %+v", max)
	}
	if min.Kind != StatMin || min.KWh != 1.0 || !min.TS.Equal(ts(2023, time.January, 1, 9, 0)) {
		t.Fatalf("min = %+v", min)
	}
}

func TestMaxMinTableTiesBreakToFirstOccurrence(t *testing.T) {
	s := mustAlign(t, series.Source{DeviceID: "PC1", Readings: []series.Reading{
		{TS: ts(2023, time.January, 1, 9, 0), KWh: 2.0},
		{TS: ts(2023, time.January, 1, 10, 0), KWh: 2.0},
	}})
	view, err := Apply(s, ModeTotal)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	rows := MaxMinTable(view)
	for _, row := range rows {
		if !row.TS.Equal(ts(2023, time.January, 1, 9, 0)) {
			t.Fatalf("%s ts = %s, want first occurrence", row.Kind, row.TS)
		}
	}
}

func TestMaxMinTableOrderedByDeviceThenKind(t *testing.T) {
	s := mustAlign(t,
		series.Source{DeviceID: "PC1", Readings: []series.Reading{
			{TS: ts(2023, time.January, 1, 9, 0), KWh: 1.0},
		}},
		series.Source{DeviceID: "PC2", Readings: []series.Reading{
			{TS: ts(2023, time.January, 1, 10, 0), KWh: 2.0},
		}},
	)
	view, err := Apply(s, ModeTotal)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	rows := MaxMinTable(view)
	want := []struct {
		device string
		kind   StatKind
	}{
		{"PC1", StatMax}, {"PC1", StatMin}, {"PC2", StatMax}, {"PC2", StatMin},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(rows), len(want))
	}
	for i, row := range rows {
		if row.DeviceID != want[i].device || row.Kind != want[i].kind {
			t.Fatalf("row %d = %s/%s, want %s/%s", i, row.DeviceID, row.Kind, want[i].device, want[i].kind)
		}
	}
}

func TestMaxMinTableSkipsDeviceWithoutSamples(t *testing.T) {
	s := mustAlign(t,
		series.Source{DeviceID: "PC1", Readings: []series.Reading{
			{TS: ts(2023, time.January, 1, 9, 0), KWh: 1.0},
		}},
		series.Source{DeviceID: "PC2", Readings: []series.Reading{
			{TS: ts(2024, time.June, 1, 9, 0), KWh: 2.0},
		}},
	)
	filtered, err := s.FilterRange(ts(2023, time.January, 1, 0, 0), ts(2023, time.December, 31, 0, 0))
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	view, err := Apply(filtered, ModeTotal)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	rows := MaxMinTable(view)
	for _, row := range rows {
		if row.DeviceID == "PC2" {
			t.Fatalf("PC2 has no samples in range but produced %+v", row)
		}
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (PC1 only)", len(rows))
	}
}
