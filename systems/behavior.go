package systems

import (
	"log/slog"

	"github.com/pthm-cable/tavern/components"
	"github.com/pthm-cable/tavern/config"
	"github.com/pthm-cable/tavern/geom"
	"github.com/pthm-cable/tavern/grid"
)

// TileReader is the grid surface behaviour decisions read.
type TileReader interface {
	Navigator
	Value(row, col int, layer grid.Layer) int
}

// Router computes routes between tiles.
type Router interface {
	ShortestPath(start, target geom.Tile) []geom.Tile
	LastOutcome() Outcome
}

// Rand is the random source behind every probabilistic decision.
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// PersonBehavior decides what a person does next. It is consulted by the
// scheduler at four points: once at spawn (DecideInit), every tick while
// stopped (DecideFromStandstill), on reaching an intermediate waypoint
// (DecideMidstream) and on reaching the end of its path (DecideNext).
//
// Decisions only read the grid. Occupancy writes belong to the scheduler.
type PersonBehavior struct {
	tiles  TileReader
	router Router
	rng    Rand
	cfg    config.BehaviorConfig

	// Optional hooks, used for telemetry.
	OnTransition func(p *components.Person, from, to components.State)
	OnRoute      func(p *components.Person, outcome Outcome, length int)
}

// NewPersonBehavior creates the state machine.
func NewPersonBehavior(tiles TileReader, router Router, rng Rand, cfg config.BehaviorConfig) *PersonBehavior {
	return &PersonBehavior{
		tiles:  tiles,
		router: router,
		rng:    rng,
		cfg:    cfg,
	}
}

// DecideInit gives a freshly spawned person a short path two tiles
// in the direction it faces.
func (b *PersonBehavior) DecideInit(p *components.Person) {
	p.Path = b.route(p, p.Tile.Offset(p.Direction, 2))
	p.Moving = true
}

// DecideFromStandstill runs each tick for a person that is not moving.
func (b *PersonBehavior) DecideFromStandstill(p *components.Person) {
	switch {
	case p.State == components.StateDeciding:
		b.transition(p, components.StateEntering)
		p.Path = b.route(p, p.Tile.Add(geom.Step(p.Direction)))
		p.Moving = true

	case len(p.Path) > 1 && !b.tiles.IsBlocking(p.Path[1].Row, p.Path[1].Col):
		p.Moving = true

	case p.State == components.StateCrossingStreet && len(p.Path) <= 1:
		// A crossing that found no route stood still for a tick.
		b.transition(p, components.StateWalking)
		b.walk(p)

	case p.State == components.StateIdle && b.rng.Float64() < b.cfg.IdleWakeChance:
		b.transition(p, components.StateWalking)
		p.Path = []geom.Tile{p.Tile}
		p.Moving = true
	}
}

// DecideMidstream runs after a person steps onto a waypoint. Any state
// change truncates the remaining path so DecideNext plans afresh.
func (b *PersonBehavior) DecideMidstream(p *components.Person) {
	r := b.rng.Float64()

	switch {
	case p.PrevState != components.StateDeciding && p.State != components.StateDeciding && b.directive(p.Tile).Valid():
		b.stopAtDirective(p)
		p.TruncatePath()

	case p.State == components.StateWandering && b.terrain(p.Tile) == grid.TerrainSidewalk && r < b.cfg.WanderToWalkChance:
		b.transition(p, components.StateWalking)
		p.TruncatePath()

	case p.State == components.StateWalking && r < b.cfg.WalkToCrossChance:
		b.transition(p, components.StateCrossingStreet)
		p.TruncatePath()

	case p.State == components.StateCrossingStreet && len(p.Path) == 1:
		b.transition(p, components.StateWalking)
		p.TruncatePath()
	}
}

// DecideNext runs when a person reaches the end of its path and picks a
// new destination for its state.
func (b *PersonBehavior) DecideNext(p *components.Person) {
	switch p.State {
	case components.StateDeciding, components.StateIdle:
		return
	case components.StateEntering:
		b.transition(p, components.StateWandering)
	}

	// A crossing has finished, or never got going.
	if p.PrevState == components.StateCrossingStreet {
		b.transition(p, components.StateWalking)
	}

	switch p.State {
	case components.StateCrossingStreet:
		b.crossStreet(p)
	case components.StateWandering:
		b.wander(p)
	case components.StateWalking:
		b.walk(p)
	}
}

// crossStreet routes to the sidewalk on the far side of an adjacent street.
// With nowhere to cross to, the person stops where it is; the next
// standstill tick sends it walking.
func (b *PersonBehavior) crossStreet(p *components.Person) {
	p.PrevState = components.StateCrossingStreet

	if target, ok := b.crossingTarget(p.Tile); ok {
		if path := b.route(p, target); len(path) > 1 {
			p.Path = path
			p.Moving = true
			return
		}
	}

	p.Path = []geom.Tile{p.Tile}
	p.Moving = false
}

// crossingTarget scans down, up, right then left. In each direction the
// farthest street tile within the street radius marks the far edge of the
// road; the first sidewalk tile past it is the target.
func (b *PersonBehavior) crossingTarget(from geom.Tile) (geom.Tile, bool) {
	for _, dir := range [...]geom.Direction{geom.Down, geom.Up, geom.Right, geom.Left} {
		found := 0
		for a := 1; a <= b.cfg.StreetScanRadius; a++ {
			t := from.Offset(dir, a)
			if !b.tiles.InBounds(t.Row, t.Col) {
				break
			}
			if b.terrain(t) == grid.TerrainStreet {
				found = a
			}
		}
		if found == 0 {
			continue
		}

		for a := found + 1; a <= found+b.cfg.SidewalkScanRadius; a++ {
			t := from.Offset(dir, a)
			if !b.tiles.InBounds(t.Row, t.Col) {
				break
			}
			if b.terrain(t) == grid.TerrainSidewalk {
				return t, true
			}
		}
	}
	return geom.Tile{}, false
}

// wander tries random nearby destinations and idles if none is reachable.
func (b *PersonBehavior) wander(p *components.Person) {
	span := float64(b.cfg.WanderRadius + 1)
	for i := 0; i < b.cfg.WanderAttempts; i++ {
		colSign := b.sign()
		rowSign := b.sign()
		colMag := int(b.rng.Float64() * span)
		rowMag := int(b.rng.Float64() * span)

		target := geom.Tile{Row: p.Tile.Row + rowSign*rowMag, Col: p.Tile.Col + colSign*colMag}
		if !b.tiles.InBounds(target.Row, target.Col) || b.tiles.IsBlocking(target.Row, target.Col) {
			continue
		}
		if path := b.route(p, target); len(path) > 1 {
			p.Path = path
			p.Moving = true
			return
		}
	}

	b.transition(p, components.StateIdle)
	p.Path = nil
	p.Moving = false
}

// walk follows the sidewalk one tile at a time, stopping at directive tiles.
// Off the sidewalk the person wanders until it finds one again.
func (b *PersonBehavior) walk(p *components.Person) {
	if b.directive(p.Tile).Valid() {
		b.stopAtDirective(p)
		return
	}

	for _, off := range geom.FourSides {
		next := p.Tile.Add(off)
		if !b.tiles.InBounds(next.Row, next.Col) || b.terrain(next) != grid.TerrainSidewalk {
			continue
		}

		if b.tiles.IsBlocking(next.Row, next.Col) {
			// Queue the step; DecideFromStandstill resumes once it frees up.
			p.Path = []geom.Tile{p.Tile, next}
			p.Moving = false
			return
		}

		p.Path = b.route(p, next)
		p.Moving = len(p.Path) > 1
		b.transition(p, components.StateWalking)
		return
	}

	b.transition(p, components.StateWandering)
	b.wander(p)
}

// stopAtDirective halts a person in front of a directive tile, facing the
// way the tile asks. The redraw flag makes the new facing visible even
// though the person is not moving.
func (b *PersonBehavior) stopAtDirective(p *components.Person) {
	b.transition(p, components.StateDeciding)
	p.Direction = b.directive(p.Tile)
	p.NeedsRedraw = true
}

// directive returns the trigger layer of t as a facing. Values outside the
// 8 facings are logged and ignored.
func (b *PersonBehavior) directive(t geom.Tile) geom.Direction {
	if !b.tiles.InBounds(t.Row, t.Col) {
		return geom.DirNone
	}
	v := b.tiles.Value(t.Row, t.Col, grid.LayerTrigger)
	if v == 0 {
		return geom.DirNone
	}
	if v < int(geom.Down) || v > int(geom.UpRight) {
		slog.Error("invalid trigger direction", "row", t.Row, "col", t.Col, "value", v)
		return geom.DirNone
	}
	return geom.Direction(v)
}

func (b *PersonBehavior) terrain(t geom.Tile) grid.Terrain {
	return grid.Terrain(b.tiles.Value(t.Row, t.Col, grid.LayerTerrain))
}

func (b *PersonBehavior) sign() int {
	if b.rng.Float64() < 0.5 {
		return -1
	}
	return 1
}

func (b *PersonBehavior) route(p *components.Person, target geom.Tile) []geom.Tile {
	path := b.router.ShortestPath(p.Tile, target)
	if b.OnRoute != nil {
		b.OnRoute(p, b.router.LastOutcome(), len(path))
	}
	return path
}

func (b *PersonBehavior) transition(p *components.Person, to components.State) {
	from := p.State
	p.SetState(to)
	if from == to {
		return
	}
	slog.Debug("state change", "person", p.Name, "from", from.String(), "to", to.String(),
		"row", p.Tile.Row, "col", p.Tile.Col)
	if b.OnTransition != nil {
		b.OnTransition(p, from, to)
	}
}
