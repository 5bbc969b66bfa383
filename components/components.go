// Package components defines ECS components for the simulation.
package components

import "github.com/pthm-cable/tavern/geom"

// OccupantBase is added to a person's roster index to form the value it
// writes into the blocking layer of the tile it stands on.
const OccupantBase = 100

// Position is a person's continuous pixel position. X follows columns,
// Y follows rows.
type Position struct {
	X, Y float32
}

// Person holds one agent's navigation and behaviour state.
type Person struct {
	Name  string `inspect:"label"`
	Index int    `inspect:"skip"` // roster index, source of the occupancy sentinel

	Tile      geom.Tile      `inspect:"label"`
	Direction geom.Direction `inspect:"label"`
	Rotation  float32        `inspect:"label,fmt:%.0f deg"`

	State     State `inspect:"label"`
	PrevState State `inspect:"label"`

	// Path[0] is the tile being left (or stood on); the last entry is the
	// destination. Fewer than two entries means nowhere to go.
	Path   []geom.Tile `inspect:"label"`
	Moving bool        `inspect:"bool"`

	AnimCounter int  `inspect:"bar,max:40"`
	NeedsRedraw bool `inspect:"skip"` // draw once even though not moving
}

// Occupant returns the value this person writes into the blocking layer.
func (p *Person) Occupant() int {
	return OccupantBase + p.Index
}

// TruncatePath drops every waypoint after the current one, forcing the
// next decision to compute a fresh route.
func (p *Person) TruncatePath() {
	if len(p.Path) > 1 {
		p.Path = p.Path[:1]
	}
}

// SetState moves to a new state, remembering the old one.
func (p *Person) SetState(s State) {
	p.PrevState = p.State
	p.State = s
}

// Sprite selects the sheet cells a person is drawn from.
type Sprite struct {
	Frames [6][2]int // three down-facing then three up-facing cells
	Frame  int       // index into Frames chosen at the last redraw
}

// AnimationFrame maps a walk-cycle counter and facing to an index into
// Sprite.Frames. Each quarter of the cycle shows frame 0, 1, 0 then 2;
// facings from Up onwards use the up-facing half of the sheet.
func AnimationFrame(counter, cycle int, dir geom.Direction) int {
	q := max(cycle/4, 1)
	var step int
	switch {
	case counter < q || (counter >= 2*q && counter < 3*q):
		step = 0
	case counter >= 3*q:
		step = 2
	default:
		step = 1
	}
	if dir >= geom.Up {
		step += 3
	}
	return step
}
