package ingest

import (
	"errors"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestReconcileRegularHour(t *testing.T) {
	raw := RawReading{Date: day(2023, time.January, 1), Hour: 11, Minute: 30, KWh: 2.5}
	reading, err := raw.Reconcile()
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	want := time.Date(2023, time.January, 1, 11, 30, 0, 0, time.UTC)
	if !reading.TS.Equal(want) {
		t.Fatalf("ts = %s, want %s", reading.TS, want)
	}
	if reading.KWh != 2.5 {
		t.Fatalf("kwh = %v, want 2.5", reading.KWh)
	}
}

func TestReconcileHour24RollsToNextDay(t *testing.T) {
	raw := RawReading{Date: day(2023, time.January, 1), Hour: 24, Minute: 0, KWh: 1.0}
	reading, err := raw.Reconcile()
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	want := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
	if !reading.TS.Equal(want) {
		t.Fatalf("ts = %s, want %s", reading.TS, want)
	}
}

func TestReconcileHour24AtMonthEnd(t *testing.T) {
	raw := RawReading{Date: day(2023, time.December, 31), Hour: 24, Minute: 15, KWh: 0.1}
	reading, err := raw.Reconcile()
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	want := time.Date(2024, time.January, 1, 0, 15, 0, 0, time.UTC)
	if !reading.TS.Equal(want) {
		t.Fatalf("ts = %s, want %s", reading.TS, want)
	}
}

func TestReconcileRejectsBadRows(t *testing.T) {
	cases := []struct {
		name string
		raw  RawReading
		want error
	}{
		{"zero date", RawReading{Hour: 1}, ErrInvalidDate},
		{"hour 25", RawReading{Date: day(2023, time.March, 1), Hour: 25}, ErrHourOutOfRange},
		{"negative hour", RawReading{Date: day(2023, time.March, 1), Hour: -1}, ErrHourOutOfRange},
		{"minute 60", RawReading{Date: day(2023, time.March, 1), Hour: 3, Minute: 60}, ErrMinuteOutOfRange},
		{"negative kwh", RawReading{Date: day(2023, time.March, 1), Hour: 3, KWh: -0.5}, ErrNegativeKWh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.raw.Reconcile(); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseErrorWrapsCause(t *testing.T) {
	err := &ParseError{Source: "pc1.csv", Row: 7, Err: ErrHourOutOfRange}
	if !errors.Is(err, ErrHourOutOfRange) {
		t.Fatalf("expected ErrHourOutOfRange in chain")
	}
	if got := err.Error(); got != "ingest: pc1.csv row 7: ingest: hour out of range" {
		t.Fatalf("unexpected message: %q", got)
	}
}
