// Package telemetry tracks windowed simulation statistics, bookmarks
// notable moments, and writes CSV output.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Census at window end
	People    int `csv:"people"`
	Moving    int `csv:"moving"`
	Idle      int `csv:"idle"`
	Wandering int `csv:"wandering"`
	Walking   int `csv:"walking"`
	Crossing  int `csv:"crossing"`
	Deciding  int `csv:"deciding"`
	Entering  int `csv:"entering"`

	// State changes during window
	Transitions int `csv:"transitions"`
	Wakes       int `csv:"wakes"`      // idle -> walking
	Crossings   int `csv:"crossings"`  // -> crossing_street
	Entries     int `csv:"entries"`    // -> entering
	Strandings  int `csv:"strandings"` // -> idle
	Waypoints   int `csv:"waypoints"`

	// Route requests during window, by outcome
	RoutesRequested int     `csv:"routes"`
	RoutesFound     int     `csv:"routes_found"`
	RoutesBlocked   int     `csv:"routes_blocked"`
	RoutesNoop      int     `csv:"routes_noop"`
	RoutesTooLong   int     `csv:"routes_too_long"`
	RoutesNoRoute   int     `csv:"routes_no_route"`
	RouteFailRate   float64 `csv:"route_fail_rate"`

	// Found path lengths (waypoints)
	PathLenMean float64 `csv:"path_len_mean"`
	PathLenStd  float64 `csv:"path_len_std"`
	PathLenP50  float64 `csv:"path_len_p50"`
	PathLenP90  float64 `csv:"path_len_p90"`
	PathLenMax  float64 `csv:"path_len_max"`
}

// ComputePathStats calculates mean, standard deviation, median, 90th
// percentile and maximum of path lengths. Empty input yields zeros.
func ComputePathStats(lengths []float64) (mean, std, p50, p90, maxLen float64) {
	n := len(lengths)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, lengths)
	sort.Float64s(sorted)

	if n == 1 {
		mean = sorted[0]
	} else {
		mean, std = stat.MeanStdDev(sorted, nil)
	}
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	maxLen = sorted[n-1]
	return mean, std, p50, p90, maxLen
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("people", s.People),
		slog.Int("moving", s.Moving),
		slog.Int("idle", s.Idle),
		slog.Int("wandering", s.Wandering),
		slog.Int("walking", s.Walking),
		slog.Int("crossing", s.Crossing),
		slog.Int("deciding", s.Deciding),
		slog.Int("entering", s.Entering),
		slog.Int("transitions", s.Transitions),
		slog.Int("wakes", s.Wakes),
		slog.Int("crossings", s.Crossings),
		slog.Int("entries", s.Entries),
		slog.Int("strandings", s.Strandings),
		slog.Int("waypoints", s.Waypoints),
		slog.Int("routes", s.RoutesRequested),
		slog.Int("routes_found", s.RoutesFound),
		slog.Float64("route_fail_rate", s.RouteFailRate),
		slog.Float64("path_len_mean", s.PathLenMean),
		slog.Float64("path_len_p90", s.PathLenP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
