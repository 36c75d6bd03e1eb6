package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	series "chargepoint-analytics/internal/series/domain"
)

// TimeLayout is the canonical dataset timestamp format.
const TimeLayout = "2006-01-02 15:04:05"

// ErrEmptyHeader is returned when the canonical file has no header row.
var ErrEmptyHeader = errors.New("csvstore: empty or missing header")

// Save writes the canonical dataset to a flat CSV file. First column is
// Fecha, one column per device follows; absent cells are written empty.
func Save(path string, s *series.Series) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csvstore: create %s: %w", path, err)
	}
	if err := Write(file, s); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Write encodes the series to w in the canonical CSV layout.
func Write(w io.Writer, s *series.Series) error {
	writer := csv.NewWriter(w)
	devices := s.Devices()

	header := append([]string{"Fecha"}, devices...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("csvstore: write header: %w", err)
	}

	record := make([]string, len(header))
	for i := 0; i < s.Len(); i++ {
		record[0] = s.Timestamp(i).Format(TimeLayout)
		for j := range devices {
			cell := s.Cell(i, j)
			if cell.Valid {
				record[j+1] = strconv.FormatFloat(cell.KWh, 'f', -1, 64)
			} else {
				record[j+1] = ""
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("csvstore: write row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Load reads the canonical dataset back into an aligned series.
func Load(path string) (*series.Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvstore: open %s: %w", path, err)
	}
	defer file.Close()
	return Read(file)
}

// Read decodes a canonical CSV stream into a series.
func Read(r io.Reader) (*series.Series, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyHeader
	}
	if err != nil {
		return nil, fmt.Errorf("csvstore: read header: %w", err)
	}
	if len(header) < 2 || header[0] != "Fecha" {
		return nil, ErrEmptyHeader
	}
	devices := header[1:]

	var (
		index []time.Time
		cells [][]series.Sample
	)
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvstore: read row %d: %w", row, err)
		}
		if len(record) != len(header) {
			return nil, fmt.Errorf("csvstore: row %d: %w", row, series.ErrShapeMismatch)
		}

		ts, err := time.ParseInLocation(TimeLayout, record[0], time.UTC)
		if err != nil {
			return nil, fmt.Errorf("csvstore: row %d: bad timestamp %q: %w", row, record[0], err)
		}

		samples := make([]series.Sample, len(devices))
		for j, value := range record[1:] {
			if value == "" {
				continue
			}
			kwh, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("csvstore: row %d column %s: bad value %q: %w", row, devices[j], value, err)
			}
			samples[j] = series.Sample{KWh: kwh, Valid: true}
		}

		index = append(index, ts)
		cells = append(cells, samples)
	}

	loaded, err := series.New(devices, index, cells)
	if err != nil {
		return nil, fmt.Errorf("csvstore: %w", err)
	}
	return loaded, nil
}
