package api

import (
	"sort"
	"sync"
	"time"
)

// RouteMetrics aggregates metrics for a specific route
type RouteMetrics struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Count       int64         `json:"count"`
	ErrorCount  int64         `json:"errorCount"`
	TotalTime   time.Duration `json:"totalTime"`
	AvgTime     time.Duration `json:"avgTime"`
	MinTime     time.Duration `json:"minTime"`
	MaxTime     time.Duration `json:"maxTime"`
	LastRequest time.Time     `json:"lastRequest"`
}

// MetricsSummary is the snapshot served by the metrics route
type MetricsSummary struct {
	Since         time.Time      `json:"since"`
	TotalRequests int64          `json:"totalRequests"`
	TotalErrors   int64          `json:"totalErrors"`
	ErrorRate     float64        `json:"errorRate"`
	Routes        []RouteMetrics `json:"routes"`
}

// MetricsCollector collects and aggregates request metrics
type MetricsCollector struct {
	mu            sync.RWMutex
	routeMetrics  map[string]*RouteMetrics
	since         time.Time
	totalRequests int64
	totalErrors   int64
}

var (
	globalMetrics     *MetricsCollector
	globalMetricsOnce sync.Once
)

// NewMetricsCollector returns an empty collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		routeMetrics: make(map[string]*RouteMetrics),
		since:        time.Now(),
	}
}

// GetMetrics returns the global metrics collector
func GetMetrics() *MetricsCollector {
	globalMetricsOnce.Do(func() {
		globalMetrics = NewMetricsCollector()
	})
	return globalMetrics
}

// Record adds one finished request
func (mc *MetricsCollector) Record(method, path string, status int, d time.Duration, at time.Time) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	key := method + " " + path
	m, ok := mc.routeMetrics[key]
	if !ok {
		m = &RouteMetrics{Method: method, Path: path, MinTime: d}
		mc.routeMetrics[key] = m
	}
	m.Count++
	m.TotalTime += d
	m.AvgTime = m.TotalTime / time.Duration(m.Count)
	m.LastRequest = at
	if d < m.MinTime {
		m.MinTime = d
	}
	if d > m.MaxTime {
		m.MaxTime = d
	}
	mc.totalRequests++
	if status >= 400 {
		m.ErrorCount++
		mc.totalErrors++
	}
}

// Summary returns a copy of the current metrics, routes sorted by path
func (mc *MetricsCollector) Summary() MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	s := MetricsSummary{
		Since:         mc.since,
		TotalRequests: mc.totalRequests,
		TotalErrors:   mc.totalErrors,
		Routes:        make([]RouteMetrics, 0, len(mc.routeMetrics)),
	}
	if mc.totalRequests > 0 {
		s.ErrorRate = float64(mc.totalErrors) / float64(mc.totalRequests)
	}
	for _, m := range mc.routeMetrics {
		s.Routes = append(s.Routes, *m)
	}
	sort.Slice(s.Routes, func(i, j int) bool {
		if s.Routes[i].Path != s.Routes[j].Path {
			return s.Routes[i].Path < s.Routes[j].Path
		}
		return s.Routes[i].Method < s.Routes[j].Method
	})
	return s
}
