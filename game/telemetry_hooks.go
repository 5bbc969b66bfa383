package game

import (
	"log/slog"

	"github.com/pthm-cable/tavern/components"
	"github.com/pthm-cable/tavern/systems"
)

// installTelemetryHooks routes behaviour and movement events into the
// window collector and the per-person tracker.
func (g *Game) installTelemetryHooks() {
	g.behavior.OnTransition = func(p *components.Person, from, to components.State) {
		g.collector.RecordTransition(from, to)
		g.personTracker.RecordTransition(p.Index, to)
	}
	g.behavior.OnRoute = func(p *components.Person, outcome systems.Outcome, length int) {
		g.collector.RecordRoute(outcome, length)
		g.profiler.Counts().Routes++
		switch outcome {
		case systems.OutcomeBlockedTarget, systems.OutcomeTooLong, systems.OutcomeNoRoute:
			g.personTracker.RecordRouteFailure(p.Index)
		}
	}
	g.movement.OnWaypoint = func(p *components.Person) {
		g.collector.RecordWaypoint()
		g.personTracker.RecordWaypoint(p.Index)
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	g.logWorldState()
	stats := g.collector.Flush(g.tick, g.census())
	perfStats := g.profiler.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}
