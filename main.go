package main

import (
	"log"
	"net/http"
	"os"
	"time"

	analyticsapp "chargepoint-analytics/internal/analytics/application"
	apihttp "chargepoint-analytics/internal/api/http"
	ingestapp "chargepoint-analytics/internal/ingest/application"
	"chargepoint-analytics/internal/observability/metrics"
	series "chargepoint-analytics/internal/series/domain"
	"chargepoint-analytics/internal/series/infrastructure/csvstore"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	metrics.Init()

	canonical, err := loadDataset(logger)
	if err != nil {
		logger.Fatalf("dataset load error: %v", err)
	}

	queryService, err := analyticsapp.NewQueryService(canonical)
	if err != nil {
		logger.Fatalf("query service error: %v", err)
	}

	exportCSV, err := apihttp.NewExportHandler(queryService, apihttp.FormatCSV)
	if err != nil {
		logger.Fatalf("csv export handler error: %v", err)
	}
	exportXLSX, err := apihttp.NewExportHandler(queryService, apihttp.FormatXLSX)
	if err != nil {
		logger.Fatalf("xlsx export handler error: %v", err)
	}
	exportPDF, err := apihttp.NewExportHandler(queryService, apihttp.FormatPDF)
	if err != nil {
		logger.Fatalf("pdf export handler error: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/v1/consumption", apihttp.NewConsumptionHandler(queryService))
	mux.Handle("/api/v1/consumption/summary", apihttp.NewSummaryHandler(queryService))
	mux.Handle("/api/v1/consumption/maxmin", apihttp.NewMaxMinHandler(queryService))
	mux.Handle("/api/v1/devices", apihttp.NewDevicesHandler(queryService))
	mux.Handle("/api/v1/exports/consumption.csv", exportCSV)
	mux.Handle("/api/v1/exports/consumption.xlsx", exportXLSX)
	mux.Handle("/api/v1/exports/consumption.pdf", exportPDF)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(mux, logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

// loadDataset loads the persisted canonical series, building it from the
// raw device files when it does not exist yet. The series is read-only
// for the rest of the process lifetime.
func loadDataset(logger *log.Logger) (*series.Series, error) {
	ingestCfg, err := ingestapp.LoadConfig()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(ingestCfg.DatasetPath); err == nil {
		logger.Printf("loading canonical dataset from %s", ingestCfg.DatasetPath)
		return csvstore.Load(ingestCfg.DatasetPath)
	}

	logger.Printf("canonical dataset missing, building from %s", ingestCfg.DataDir)
	builder, err := ingestapp.NewBuilder(ingestCfg, logger)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	built, err := builder.Build()
	if err != nil {
		metrics.ObserveDatasetBuild(metrics.ResultError, time.Since(start))
		return nil, err
	}
	if err := csvstore.Save(ingestCfg.DatasetPath, built); err != nil {
		metrics.ObserveDatasetBuild(metrics.ResultError, time.Since(start))
		return nil, err
	}
	metrics.ObserveDatasetBuild(metrics.ResultSuccess, time.Since(start))
	logger.Printf("canonical dataset written to %s", ingestCfg.DatasetPath)
	return built, nil
}

type config struct {
	HTTPAddr string
}

func loadConfig() config {
	return config{
		HTTPAddr: getenvDefault("HTTP_ADDR", ":8080"),
	}
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
