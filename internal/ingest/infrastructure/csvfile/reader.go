package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ingest "chargepoint-analytics/internal/ingest/domain"
)

const dateLayout = "2006-01-02"

// Required raw columns, as exported by the charge-point meters.
var requiredColumns = []string{"fecha", "hora", "min", "kwh"}

// ReadFile parses one per-device raw file into reconciled readings.
func ReadFile(path string) ([]ingest.Reading, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvfile: open %s: %w", path, err)
	}
	defer file.Close()
	return Read(file, filepath.Base(path))
}

// Read parses a raw device stream. source names the file in errors.
// The whole source is rejected on the first malformed row; see the
// ParseError policy in DESIGN.md.
func Read(r io.Reader, source string) ([]ingest.Reading, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csvfile: %s: %w", source, ingest.ErrEmptySource)
	}
	if err != nil {
		return nil, fmt.Errorf("csvfile: %s: read header: %w", source, err)
	}

	columns, err := resolveColumns(header, source)
	if err != nil {
		return nil, err
	}

	var readings []ingest.Reading
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ingest.ParseError{Source: source, Row: row, Err: err}
		}

		raw, err := parseRow(record, columns)
		if err != nil {
			return nil, &ingest.ParseError{Source: source, Row: row, Err: err}
		}
		reading, err := raw.Reconcile()
		if err != nil {
			return nil, &ingest.ParseError{Source: source, Row: row, Err: err}
		}
		readings = append(readings, reading)
	}

	if len(readings) == 0 {
		return nil, fmt.Errorf("csvfile: %s: %w", source, ingest.ErrEmptySource)
	}
	return readings, nil
}

type columnIndex struct {
	fecha, hora, min, kwh int
}

func resolveColumns(header []string, source string) (columnIndex, error) {
	position := make(map[string]int, len(header))
	for i, name := range header {
		position[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := position[name]; !ok {
			return columnIndex{}, fmt.Errorf("csvfile: %s: column %q: %w", source, name, ingest.ErrMissingColumn)
		}
	}
	return columnIndex{
		fecha: position["fecha"],
		hora:  position["hora"],
		min:   position["min"],
		kwh:   position["kwh"],
	}, nil
}

func parseRow(record []string, columns columnIndex) (ingest.RawReading, error) {
	max := columns.fecha
	for _, i := range []int{columns.hora, columns.min, columns.kwh} {
		if i > max {
			max = i
		}
	}
	if len(record) <= max {
		return ingest.RawReading{}, fmt.Errorf("short record: %w", ingest.ErrMissingColumn)
	}

	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(record[columns.fecha]), time.UTC)
	if err != nil {
		return ingest.RawReading{}, fmt.Errorf("fecha %q: %w", record[columns.fecha], ingest.ErrInvalidDate)
	}
	hour, err := strconv.Atoi(strings.TrimSpace(record[columns.hora]))
	if err != nil {
		return ingest.RawReading{}, fmt.Errorf("hora %q: %w", record[columns.hora], ingest.ErrInvalidValue)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(record[columns.min]))
	if err != nil {
		return ingest.RawReading{}, fmt.Errorf("min %q: %w", record[columns.min], ingest.ErrInvalidValue)
	}
	kwh, err := strconv.ParseFloat(strings.TrimSpace(record[columns.kwh]), 64)
	if err != nil {
		return ingest.RawReading{}, fmt.Errorf("kwh %q: %w", record[columns.kwh], ingest.ErrInvalidValue)
	}

	return ingest.RawReading{Date: date, Hour: hour, Minute: minute, KWh: kwh}, nil
}
