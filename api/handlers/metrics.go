package handlers

import (
	"net/http"

	"github.com/BrenoBalsini/ultimate-praia-sub000/api"
)

// routeMetricsMillis is RouteMetrics with durations in milliseconds
type routeMetricsMillis struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	Count      int64  `json:"count"`
	ErrorCount int64  `json:"errorCount"`
	AvgTime    int64  `json:"avgTime"`
	MinTime    int64  `json:"minTime"`
	MaxTime    int64  `json:"maxTime"`
}

// MetricsHandler handles metrics dashboard requests
type MetricsHandler struct {
	Collector *api.MetricsCollector
}

// GetMetricsDashboard returns request counts and latencies per route
func (m MetricsHandler) GetMetricsDashboard(w http.ResponseWriter, r *http.Request) {
	collector := m.Collector
	if collector == nil {
		collector = api.GetMetrics()
	}
	summary := collector.Summary()

	routes := make([]routeMetricsMillis, len(summary.Routes))
	for i, rm := range summary.Routes {
		routes[i] = routeMetricsMillis{
			Method:     rm.Method,
			Path:       rm.Path,
			Count:      rm.Count,
			ErrorCount: rm.ErrorCount,
			AvgTime:    rm.AvgTime.Milliseconds(),
			MinTime:    rm.MinTime.Milliseconds(),
			MaxTime:    rm.MaxTime.Milliseconds(),
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary": map[string]interface{}{
			"since":         summary.Since,
			"totalRequests": summary.TotalRequests,
			"totalErrors":   summary.TotalErrors,
			"errorRate":     summary.ErrorRate,
			"routeCount":    len(routes),
		},
		"routes": routes,
	})
}
