package apihttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"chargepoint-analytics/internal/analytics/application"
	"chargepoint-analytics/internal/analytics/domain/aggregation"
	viewexport "chargepoint-analytics/internal/analytics/interfaces"
	"chargepoint-analytics/internal/observability/metrics"
	series "chargepoint-analytics/internal/series/domain"
)

const dateLayout = "2006-01-02"

// Export formats served by the export handler.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// ConsumptionHandler serves aggregated consumption views.
type ConsumptionHandler struct {
	svc *application.QueryService
}

// NewConsumptionHandler constructs a ConsumptionHandler.
func NewConsumptionHandler(svc *application.QueryService) *ConsumptionHandler {
	return &ConsumptionHandler{svc: svc}
}

// ServeHTTP handles GET /api/v1/consumption.
func (h *ConsumptionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.svc == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	view, mode, ok := resolveView(w, r, h.svc)
	if !ok {
		metrics.ObserveQuery(string(mode), metrics.ResultError, time.Since(start))
		return
	}
	metrics.ObserveQuery(string(mode), metrics.ResultSuccess, time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(encodeView(view))
}

// SummaryHandler serves the scalar dashboard figures.
type SummaryHandler struct {
	svc *application.QueryService
}

// NewSummaryHandler constructs a SummaryHandler.
func NewSummaryHandler(svc *application.QueryService) *SummaryHandler {
	return &SummaryHandler{svc: svc}
}

// ServeHTTP handles GET /api/v1/consumption/summary.
func (h *SummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.svc == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	view, _, ok := resolveView(w, r, h.svc)
	if !ok {
		return
	}
	summary := h.svc.Summary(view)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(summaryResponse{
		DeviceCount: summary.DeviceCount,
		TotalKWh:    summary.TotalKWh,
		MeanKWh:     summary.MeanKWh,
	})
}

// MaxMinHandler serves the per-device extremes table.
type MaxMinHandler struct {
	svc *application.QueryService
}

// NewMaxMinHandler constructs a MaxMinHandler.
func NewMaxMinHandler(svc *application.QueryService) *MaxMinHandler {
	return &MaxMinHandler{svc: svc}
}

// ServeHTTP handles GET /api/v1/consumption/maxmin.
func (h *MaxMinHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.svc == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	view, _, ok := resolveView(w, r, h.svc)
	if !ok {
		return
	}

	rows := h.svc.MaxMinTable(view)
	response := make([]statRowResponse, len(rows))
	for i, row := range rows {
		response[i] = statRowResponse{
			DeviceID: row.DeviceID,
			Stat:     string(row.Kind),
			KWh:      row.KWh,
			Fecha:    row.TS,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

// ExportHandler streams an aggregated view in one download format.
type ExportHandler struct {
	svc    *application.QueryService
	format string
}

// NewExportHandler constructs an ExportHandler for csv, xlsx or pdf.
func NewExportHandler(svc *application.QueryService, format string) (*ExportHandler, error) {
	switch format {
	case FormatCSV, FormatXLSX, FormatPDF:
	default:
		return nil, errors.New("apihttp: unsupported export format " + format)
	}
	return &ExportHandler{svc: svc, format: format}, nil
}

// ServeHTTP handles GET /api/v1/exports/consumption.<format>.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.svc == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	view, _, ok := resolveView(w, r, h.svc)
	if !ok {
		metrics.ObserveExport(h.format, metrics.ResultError, time.Since(start))
		return
	}

	var (
		payload     []byte
		contentType string
		err         error
	)
	switch h.format {
	case FormatCSV:
		payload, err = viewexport.BuildViewCSV(view)
		contentType = "text/csv; charset=utf-8"
	case FormatXLSX:
		payload, err = viewexport.BuildViewXLSX(view, h.svc.Summary(view))
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		payload, err = viewexport.BuildViewPDF(view, h.svc.Summary(view))
		contentType = "application/pdf"
	}
	if err != nil {
		metrics.ObserveExport(h.format, metrics.ResultError, time.Since(start))
		http.Error(w, "export error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport(h.format, metrics.ResultSuccess, time.Since(start))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="consumption.`+h.format+`"`)
	_, _ = w.Write(payload)
}

// DevicesHandler serves the known devices and dataset bounds so the
// dashboard can seed its selectors and date pickers.
type DevicesHandler struct {
	svc *application.QueryService
}

// NewDevicesHandler constructs a DevicesHandler.
func NewDevicesHandler(svc *application.QueryService) *DevicesHandler {
	return &DevicesHandler{svc: svc}
}

// ServeHTTP handles GET /api/v1/devices.
func (h *DevicesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.svc == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	response := devicesResponse{Devices: h.svc.Devices()}
	if min, max, ok := h.svc.Bounds(); ok {
		response.MinFecha = &min
		response.MaxFecha = &max
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

type viewRow struct {
	Fecha  time.Time           `json:"fecha"`
	Values map[string]*float64 `json:"values"`
}

type viewResponse struct {
	Mode        string    `json:"mode"`
	Granularity string    `json:"granularity"`
	Devices     []string  `json:"devices"`
	Rows        []viewRow `json:"rows"`
}

type summaryResponse struct {
	DeviceCount int     `json:"device_count"`
	TotalKWh    float64 `json:"total_kwh"`
	MeanKWh     float64 `json:"mean_kwh"`
}

type statRowResponse struct {
	DeviceID string    `json:"device_id"`
	Stat     string    `json:"stat"`
	KWh      float64   `json:"kwh"`
	Fecha    time.Time `json:"fecha"`
}

type devicesResponse struct {
	Devices  []string   `json:"devices"`
	MinFecha *time.Time `json:"min_fecha"`
	MaxFecha *time.Time `json:"max_fecha"`
}

// resolveView parses query parameters, runs the pipeline and writes the
// appropriate error status on failure. The bool reports success.
func resolveView(w http.ResponseWriter, r *http.Request, svc *application.QueryService) (*aggregation.View, aggregation.Mode, bool) {
	spec, mode, err := parseQuery(r, svc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, mode, false
	}

	view, err := svc.AggregatedView(spec, mode)
	if err != nil {
		status := http.StatusInternalServerError
		if isValidationError(err) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return nil, mode, false
	}
	return view, mode, true
}

func parseQuery(r *http.Request, svc *application.QueryService) (application.FilterSpec, aggregation.Mode, error) {
	mode := aggregation.ModeTotal
	if value := r.URL.Query().Get("mode"); value != "" {
		parsed, err := aggregation.ParseMode(value)
		if err != nil {
			return application.FilterSpec{}, mode, err
		}
		mode = parsed
	}

	min, max, _ := svc.Bounds()
	start, err := parseDateQuery(r, "from", min)
	if err != nil {
		return application.FilterSpec{}, mode, err
	}
	end, err := parseDateQuery(r, "to", max)
	if err != nil {
		return application.FilterSpec{}, mode, err
	}
	if start.After(end) {
		return application.FilterSpec{}, mode, series.ErrInvalidDateRange
	}

	return application.FilterSpec{
		Start:   start,
		End:     end,
		Devices: splitDevices(r.URL.Query().Get("devices")),
	}, mode, nil
}

func parseDateQuery(r *http.Request, key string, fallback time.Time) (time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, errors.New(key + " must be YYYY-MM-DD")
	}
	if key == "to" {
		// An inclusive calendar-day bound covers the whole day.
		parsed = parsed.Add(24*time.Hour - time.Second)
	}
	return parsed, nil
}

func splitDevices(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var devices []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			devices = append(devices, part)
		}
	}
	return devices
}

func isValidationError(err error) bool {
	return errors.Is(err, series.ErrInvalidDateRange) ||
		errors.Is(err, series.ErrUnknownDevice) ||
		errors.Is(err, series.ErrDuplicateDevice) ||
		errors.Is(err, aggregation.ErrInvalidMode)
}

func encodeView(view *aggregation.View) viewResponse {
	response := viewResponse{
		Mode:        string(view.Mode),
		Granularity: string(view.Granularity),
		Devices:     view.Devices,
		Rows:        make([]viewRow, len(view.Index)),
	}
	for i, ts := range view.Index {
		values := make(map[string]*float64, len(view.Devices))
		for j, device := range view.Devices {
			if cell := view.Cells[i][j]; cell.Valid {
				kwh := cell.KWh
				values[device] = &kwh
			} else {
				values[device] = nil
			}
		}
		response.Rows[i] = viewRow{Fecha: ts, Values: values}
	}
	return response
}
