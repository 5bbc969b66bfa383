package game

import (
	"slices"

	"github.com/pthm-cable/tavern/components"
	"github.com/pthm-cable/tavern/geom"
	"github.com/pthm-cable/tavern/telemetry"
)

// PersonView is a read-only copy of what a renderer needs from a person.
type PersonView struct {
	Name      string
	X, Y      float32
	Tile      geom.Tile
	Direction geom.Direction
	Rotation  float32
	State     components.State
	Moving    bool
	Path      []geom.Tile
	Frame     [2]int // sprite sheet cell
}

// Step runs one tick. Occupancy writes queued during the previous tick
// become visible first; writes queued during this tick stay hidden until
// the next one.
func (g *Game) Step() {
	g.profiler.Begin()
	counts := g.profiler.Counts()

	g.profiler.Enter(telemetry.PhaseFlush)
	counts.GridWrites = g.grid.Flush()

	g.profiler.Enter(telemetry.PhaseStandstill)
	query := g.personFilter.Query()
	for query.Next() {
		_, p, _ := query.Get()
		if !p.Moving {
			counts.Standstill++
			g.movement.Standstill(p)
		}
	}

	g.profiler.Enter(telemetry.PhaseMoving)
	query = g.personFilter.Query()
	for query.Next() {
		pos, p, _ := query.Get()
		if p.Moving {
			counts.Moving++
			g.movement.Move(p, pos)
		}
	}

	g.profiler.Enter(telemetry.PhaseRedraw)
	query = g.personFilter.Query()
	for query.Next() {
		_, p, spr := query.Get()
		if g.movement.Redraw(p, spr) {
			counts.Redrawn++
		}
	}

	g.profiler.Enter(telemetry.PhaseTelemetry)
	query = g.personFilter.Query()
	for query.Next() {
		_, p, _ := query.Get()
		g.personTracker.Observe(p)
	}
	g.tick++
	g.flushTelemetry()

	g.profiler.End()
}

// People returns a snapshot of every person in roster order.
func (g *Game) People() []PersonView {
	var out []PersonView
	query := g.personFilter.Query()
	for query.Next() {
		pos, p, spr := query.Get()
		out = append(out, PersonView{
			Name:      p.Name,
			X:         pos.X,
			Y:         pos.Y,
			Tile:      p.Tile,
			Direction: p.Direction,
			Rotation:  p.Rotation,
			State:     p.State,
			Moving:    p.Moving,
			Path:      slices.Clone(p.Path),
			Frame:     spr.Frames[spr.Frame],
		})
	}
	return out
}

// census counts people by state.
func (g *Game) census() telemetry.Census {
	var c telemetry.Census
	query := g.personFilter.Query()
	for query.Next() {
		_, p, _ := query.Get()
		c.Add(p)
	}
	return c
}
