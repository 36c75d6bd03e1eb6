package ingest

import "time"

// RawReading is one row of a per-device source file, as recorded by the
// charge-point meter. Hour 24 is a recording artifact meaning midnight of
// the following day.
type RawReading struct {
	Date   time.Time
	Hour   int
	Minute int
	KWh    float64
}

// Reading is a reconciled sample with a valid timestamp.
type Reading struct {
	TS  time.Time
	KWh float64
}

// Reconcile turns a raw row into a valid timestamped reading.
// Invariants on output:
// 1) hour component is in [0,23]; a raw hour of 24 becomes 00:00 of the
//    next calendar day.
// 2) the timestamp is a valid instant built from the corrected date.
func (r RawReading) Reconcile() (Reading, error) {
	if r.Date.IsZero() {
		return Reading{}, ErrInvalidDate
	}
	if r.Hour < 0 || r.Hour > 24 {
		return Reading{}, ErrHourOutOfRange
	}
	if r.Minute < 0 || r.Minute > 59 {
		return Reading{}, ErrMinuteOutOfRange
	}
	if r.KWh < 0 {
		return Reading{}, ErrNegativeKWh
	}

	date := r.Date
	hour := r.Hour
	if hour == 24 {
		hour = 0
		date = date.AddDate(0, 0, 1)
	}

	ts := time.Date(date.Year(), date.Month(), date.Day(), hour, r.Minute, 0, 0, time.UTC)
	return Reading{TS: ts, KWh: r.KWh}, nil
}
