package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	ingestapp "chargepoint-analytics/internal/ingest/application"
	"chargepoint-analytics/internal/series/infrastructure/csvstore"
)

func main() {
	dataDir := flag.String("data", "data", "directory containing raw device files")
	pattern := flag.String("pattern", "*.csv", "glob pattern for raw device files")
	out := flag.String("out", "data/consumo_kwh.csv", "output path for the canonical dataset")
	cutoff := flag.String("cutoff", "", "exclusive cutoff date YYYY-MM-DD, empty disables")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	cfg := ingestapp.Config{
		DataDir:     *dataDir,
		Pattern:     *pattern,
		DatasetPath: *out,
		CutoffDate:  *cutoff,
	}
	builder, err := ingestapp.NewBuilder(cfg, logger)
	if err != nil {
		logger.Fatalf("builder error: %v", err)
	}

	built, err := builder.Build()
	if err != nil {
		logger.Fatalf("build error: %v", err)
	}
	if err := csvstore.Save(*out, built); err != nil {
		logger.Fatalf("save error: %v", err)
	}

	min, max, _ := built.Bounds()
	fmt.Printf("wrote %s: %d devices, %d timestamps, %s .. %s\n",
		*out, len(built.Devices()), built.Len(),
		min.Format("2006-01-02 15:04"), max.Format("2006-01-02 15:04"))
}
