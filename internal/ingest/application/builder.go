package application

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sort"

	"chargepoint-analytics/internal/ingest/infrastructure/csvfile"
	series "chargepoint-analytics/internal/series/domain"
)

// SourceReader parses one raw device file into reconciled readings.
type SourceReader func(path string) ([]series.Reading, error)

// Builder discovers raw device files and aligns them into the canonical
// consumption series. Device ids PC1..PCn follow lexical file order, so
// the assignment is stable across rebuilds of the same directory.
type Builder struct {
	cfg    Config
	read   SourceReader
	logger *log.Logger
}

// NewBuilder constructs a Builder.
func NewBuilder(cfg Config, logger *log.Logger) (*Builder, error) {
	if logger == nil {
		return nil, errors.New("ingest: nil logger")
	}
	return &Builder{cfg: cfg, read: readCSVSource, logger: logger}, nil
}

// Build reads every discovered source and aligns them.
func (b *Builder) Build() (*series.Series, error) {
	cutoff, err := b.cfg.Cutoff()
	if err != nil {
		return nil, err
	}

	files, err := filepath.Glob(filepath.Join(b.cfg.DataDir, b.cfg.Pattern))
	if err != nil {
		return nil, fmt.Errorf("ingest: glob %s: %w", b.cfg.Pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("ingest: no source files in %s matching %s", b.cfg.DataDir, b.cfg.Pattern)
	}
	sort.Strings(files)

	sources := make([]series.Source, 0, len(files))
	for i, file := range files {
		readings, err := b.read(file)
		if err != nil {
			return nil, err
		}
		deviceID := fmt.Sprintf("PC%d", i+1)
		b.logger.Printf("ingest: %s -> %s (%d rows)", filepath.Base(file), deviceID, len(readings))
		sources = append(sources, series.Source{DeviceID: deviceID, Readings: readings})
	}

	aligned, err := series.Align(sources, cutoff)
	if err != nil {
		return nil, err
	}
	b.logger.Printf("ingest: aligned %d devices over %d timestamps", len(aligned.Devices()), aligned.Len())
	return aligned, nil
}

func readCSVSource(path string) ([]series.Reading, error) {
	parsed, err := csvfile.ReadFile(path)
	if err != nil {
		return nil, err
	}
	readings := make([]series.Reading, len(parsed))
	for i, reading := range parsed {
		readings[i] = series.Reading{TS: reading.TS, KWh: reading.KWh}
	}
	return readings, nil
}
