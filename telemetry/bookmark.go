package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkGridlock       BookmarkType = "gridlock"
	BookmarkAllIdle        BookmarkType = "all_idle"
	BookmarkRouteFailSpike BookmarkType = "route_fail_spike"
	BookmarkTavernRush     BookmarkType = "tavern_rush"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// Conditions that fire once until they clear
	inGridlock bool
	allIdle    bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkGridlock(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkAllIdle(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkRouteFailSpike(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkTavernRush(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkGridlock fires when people exist but nobody reached a waypoint for a
// whole window.
func (bd *BookmarkDetector) checkGridlock(stats WindowStats) *Bookmark {
	stuck := stats.People > 0 && stats.Waypoints == 0 && stats.Idle < stats.People
	if !stuck {
		bd.inGridlock = false
		return nil
	}
	if bd.inGridlock {
		return nil
	}
	bd.inGridlock = true
	return &Bookmark{
		Type:        BookmarkGridlock,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("No waypoint reached by %d people in %d ticks", stats.People, stats.WindowEndTick-stats.WindowStartTick),
	}
}

func (bd *BookmarkDetector) checkAllIdle(stats WindowStats) *Bookmark {
	idle := stats.People > 0 && stats.Idle == stats.People
	if !idle {
		bd.allIdle = false
		return nil
	}
	if bd.allIdle {
		return nil
	}
	bd.allIdle = true
	return &Bookmark{
		Type:        BookmarkAllIdle,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("All %d people idle", stats.People),
	}
}

func (bd *BookmarkDetector) checkRouteFailSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.RoutesRequested < 5 {
		return nil
	}

	var requested, failed int
	for _, h := range history {
		requested += h.RoutesRequested
		failed += h.RoutesBlocked + h.RoutesTooLong + h.RoutesNoRoute
	}
	if requested == 0 || failed == 0 {
		return nil
	}

	avg := float64(failed) / float64(requested)
	if stats.RouteFailRate > avg*2.0 {
		return &Bookmark{
			Type:        BookmarkRouteFailSpike,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Route failure rate %.2f is %.1fx average (%.2f)", stats.RouteFailRate, stats.RouteFailRate/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkTavernRush(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.Entries < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Entries
	}
	avg := float64(total) / float64(len(history))
	if float64(stats.Entries) > avg*2.0 {
		return &Bookmark{
			Type:        BookmarkTavernRush,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d entries vs %.1f average", stats.Entries, avg),
		}
	}
	return nil
}
