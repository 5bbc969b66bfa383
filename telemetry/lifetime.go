package telemetry

import (
	"sort"

	"github.com/pthm-cable/tavern/components"
)

// PersonStats tracks one person's activity over the whole run.
type PersonStats struct {
	Index        int    `csv:"index"`
	Name         string `csv:"name"`
	SpawnTick    int32  `csv:"spawn_tick"`
	TilesWalked  int    `csv:"tiles_walked"`
	Transitions  int    `csv:"transitions"`
	Entries      int    `csv:"entries"`
	Crossings    int    `csv:"crossings"`
	RoutesFailed int    `csv:"routes_failed"`
	TicksMoving  int    `csv:"ticks_moving"`
	TicksIdle    int    `csv:"ticks_idle"`
	FinalState   string `csv:"final_state"`
	FinalRow     int    `csv:"final_row"`
	FinalCol     int    `csv:"final_col"`
}

// PersonTracker manages per-person statistics keyed by roster index.
type PersonTracker struct {
	stats map[int]*PersonStats
}

// NewPersonTracker creates a new person tracker.
func NewPersonTracker() *PersonTracker {
	return &PersonTracker{
		stats: make(map[int]*PersonStats),
	}
}

// Register starts tracking a person.
func (pt *PersonTracker) Register(index int, name string, spawnTick int32) {
	pt.stats[index] = &PersonStats{
		Index:     index,
		Name:      name,
		SpawnTick: spawnTick,
	}
}

// Get returns the stats for a person, or nil if not tracked.
func (pt *PersonTracker) Get(index int) *PersonStats {
	return pt.stats[index]
}

// RecordTransition counts a state change.
func (pt *PersonTracker) RecordTransition(index int, to components.State) {
	s := pt.stats[index]
	if s == nil {
		return
	}
	s.Transitions++
	switch to {
	case components.StateEntering:
		s.Entries++
	case components.StateCrossingStreet:
		s.Crossings++
	}
}

// RecordWaypoint counts a tile stepped onto.
func (pt *PersonTracker) RecordWaypoint(index int) {
	if s := pt.stats[index]; s != nil {
		s.TilesWalked++
	}
}

// RecordRouteFailure counts a route request that found nothing.
func (pt *PersonTracker) RecordRouteFailure(index int) {
	if s := pt.stats[index]; s != nil {
		s.RoutesFailed++
	}
}

// Observe samples a person once per tick.
func (pt *PersonTracker) Observe(p *components.Person) {
	s := pt.stats[p.Index]
	if s == nil {
		return
	}
	if p.Moving {
		s.TicksMoving++
	}
	if p.State == components.StateIdle {
		s.TicksIdle++
	}
	s.FinalState = p.State.String()
	s.FinalRow = p.Tile.Row
	s.FinalCol = p.Tile.Col
}

// All returns tracked stats ordered by roster index.
func (pt *PersonTracker) All() []PersonStats {
	out := make([]PersonStats, 0, len(pt.stats))
	for _, s := range pt.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Count returns the number of tracked people.
func (pt *PersonTracker) Count() int {
	return len(pt.stats)
}
