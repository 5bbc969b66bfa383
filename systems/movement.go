package systems

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/tavern/components"
	"github.com/pthm-cable/tavern/geom"
	"github.com/pthm-cable/tavern/grid"
)

// OccupancyWriter queues tile layer writes.
type OccupancyWriter interface {
	Set(row, col int, layer grid.Layer, val int)
}

// MovementSystem advances people along their paths and hands control to
// PersonBehavior at waypoint and destination arrivals.
type MovementSystem struct {
	behavior *PersonBehavior
	occ      OccupancyWriter

	tileSize  float32
	speed     float32
	reach     float32 // arrival radius: speed plus a small tolerance
	animCycle int

	// OnWaypoint is called after a person steps onto a new tile.
	OnWaypoint func(p *components.Person)
}

// NewMovementSystem creates a movement system. reach must be at least
// speed so a step can never jump over the arrival radius.
func NewMovementSystem(behavior *PersonBehavior, occ OccupancyWriter, tileSize, speed, reach float32, animCycle int) *MovementSystem {
	return &MovementSystem{
		behavior:  behavior,
		occ:       occ,
		tileSize:  tileSize,
		speed:     speed,
		reach:     max(reach, speed),
		animCycle: max(animCycle, 1),
	}
}

// Spawn places a person on its starting tile, claims the tile and gives it
// an initial path.
func (s *MovementSystem) Spawn(p *components.Person, pos *components.Position) {
	Snap(pos, p.Tile, s.tileSize)
	s.occ.Set(p.Tile.Row, p.Tile.Col, grid.LayerBlocking, p.Occupant())
	s.behavior.DecideInit(p)
	s.refreshFacing(p)
}

// Standstill handles a person that is not moving.
func (s *MovementSystem) Standstill(p *components.Person) {
	s.behavior.DecideFromStandstill(p)
	s.refreshFacing(p)
}

// Move handles a moving person for one tick: either step toward the next
// waypoint, or arrive on it and let behaviour decide what follows.
func (s *MovementSystem) Move(p *components.Person, pos *components.Position) {
	if len(p.Path) > 1 {
		next := p.Path[1]
		if !Arrived(*pos, next, s.tileSize, s.reach) {
			Advance(pos, p.Direction, s.speed)
			return
		}

		s.occ.Set(p.Tile.Row, p.Tile.Col, grid.LayerBlocking, 0)
		p.Path = p.Path[1:]
		p.Tile = p.Path[0]
		s.occ.Set(p.Tile.Row, p.Tile.Col, grid.LayerBlocking, p.Occupant())
		Snap(pos, p.Tile, s.tileSize)
		if s.OnWaypoint != nil {
			s.OnWaypoint(p)
		}
		s.behavior.DecideMidstream(p)
	}

	// One waypoint or none: the person is on its destination.
	if len(p.Path) <= 1 {
		p.Path = nil
		p.Moving = false
		s.behavior.DecideNext(p)
	}
	s.refreshFacing(p)
}

// Redraw advances the walk cycle of a person that is moving or flagged for
// a redraw and picks its sprite frame. It reports whether anything changed.
func (s *MovementSystem) Redraw(p *components.Person, spr *components.Sprite) bool {
	if !p.Moving && !p.NeedsRedraw {
		return false
	}
	p.AnimCounter = (p.AnimCounter + 1) % s.animCycle
	spr.Frame = components.AnimationFrame(p.AnimCounter, s.animCycle, p.Direction)
	p.NeedsRedraw = false
	return true
}

// refreshFacing points the person along its first path step. A step that
// is not one of the 8 facings is logged, the last facing is kept and the
// path is cut so the person re-plans on the next tick.
func (s *MovementSystem) refreshFacing(p *components.Person) {
	if len(p.Path) >= 2 {
		d, ok := geom.DirectionBetween(p.Path[0], p.Path[1])
		if ok {
			p.Direction = d
		} else {
			slog.Error("path step is not adjacent",
				"person", p.Name, "from", p.Path[0], "to", p.Path[1])
			p.TruncatePath()
		}
	}
	p.Rotation = geom.Rotation(p.Direction)
}

// Arrived reports whether pos is within reach of the center of t.
func Arrived(pos components.Position, t geom.Tile, tileSize, reach float32) bool {
	cx, cy := geom.TileCenter(t, tileSize)
	dx := float64(pos.X - cx)
	dy := float64(pos.Y - cy)
	return math.Sqrt(dx*dx+dy*dy) <= float64(reach)
}

// Advance moves pos one tick along dir.
func Advance(pos *components.Position, dir geom.Direction, speed float32) {
	dx, dy := geom.NextMove(dir, speed)
	pos.X += dx
	pos.Y += dy
}

// Snap places pos exactly on the center of t.
func Snap(pos *components.Position, t geom.Tile, tileSize float32) {
	pos.X, pos.Y = geom.TileCenter(t, tileSize)
}
