package application

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"chargepoint-analytics/internal/analytics/domain/aggregation"
	series "chargepoint-analytics/internal/series/domain"
)

// FilterSpec is one query's parameters. Start and End are inclusive
// calendar-day bounds. An empty Devices list selects all known devices;
// see DESIGN.md.
type FilterSpec struct {
	Start   time.Time
	End     time.Time
	Devices []string
}

// QueryService runs the filter/project/aggregate pipeline over the
// immutable canonical series. Every recomputation is a pure function of
// (FilterSpec, Mode), so results are memoized; a bad query can never
// corrupt the canonical dataset.
type QueryService struct {
	canonical *series.Series

	mu    sync.RWMutex
	cache map[string]*aggregation.View
}

// NewQueryService constructs a QueryService over the loaded dataset.
func NewQueryService(canonical *series.Series) (*QueryService, error) {
	if canonical == nil {
		return nil, errors.New("analytics: nil canonical series")
	}
	return &QueryService{
		canonical: canonical,
		cache:     make(map[string]*aggregation.View),
	}, nil
}

// Devices returns the known device columns.
func (q *QueryService) Devices() []string { return q.canonical.Devices() }

// Bounds returns the dataset's first and last timestamps.
func (q *QueryService) Bounds() (min, max time.Time, ok bool) {
	return q.canonical.Bounds()
}

// AggregatedView filters by date range, projects the selected devices and
// applies the aggregation mode.
func (q *QueryService) AggregatedView(spec FilterSpec, mode aggregation.Mode) (*aggregation.View, error) {
	if !mode.IsValid() {
		return nil, aggregation.ErrInvalidMode
	}

	key := cacheKey(spec, mode)
	q.mu.RLock()
	cached, ok := q.cache[key]
	q.mu.RUnlock()
	if ok {
		return cached, nil
	}

	filtered, err := q.canonical.FilterRange(spec.Start, spec.End)
	if err != nil {
		return nil, err
	}
	selected, err := filtered.Select(spec.Devices)
	if err != nil {
		return nil, err
	}
	view, err := aggregation.Apply(selected, mode)
	if err != nil {
		return nil, err
	}

	q.mu.Lock()
	q.cache[key] = view
	q.mu.Unlock()
	return view, nil
}

// Summary derives the scalar dashboard figures from a view.
func (q *QueryService) Summary(view *aggregation.View) aggregation.Summary {
	return aggregation.Summarize(view)
}

// MaxMinTable derives the per-device extremes from a view.
func (q *QueryService) MaxMinTable(view *aggregation.View) []aggregation.StatRow {
	return aggregation.MaxMinTable(view)
}

func cacheKey(spec FilterSpec, mode aggregation.Mode) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(spec.Start.UnixNano(), 10))
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(spec.End.UnixNano(), 10))
	b.WriteByte('|')
	b.WriteString(strings.Join(spec.Devices, ","))
	b.WriteByte('|')
	b.WriteString(string(mode))
	return b.String()
}
