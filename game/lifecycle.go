package game

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tavern/components"
	"github.com/pthm-cable/tavern/config"
	"github.com/pthm-cable/tavern/geom"
)

// spawnRoster creates one entity per configured person, in roster order.
func (g *Game) spawnRoster() error {
	claimed := make(map[geom.Tile]string, len(g.cfg.People))
	for i, pc := range g.cfg.People {
		tile := geom.Tile{Row: pc.Row, Col: pc.Col}
		if !g.grid.InBounds(tile.Row, tile.Col) {
			return fmt.Errorf("person %q: start (%d, %d) is outside the grid", pc.Name, tile.Row, tile.Col)
		}
		// Occupancy writes are deferred, so overlapping starts would not
		// be seen through the grid.
		if other, ok := claimed[tile]; ok {
			return fmt.Errorf("person %q: start (%d, %d) already taken by %q", pc.Name, tile.Row, tile.Col, other)
		}
		if g.grid.IsBlocking(tile.Row, tile.Col) {
			return fmt.Errorf("person %q: start (%d, %d) is blocked", pc.Name, tile.Row, tile.Col)
		}
		claimed[tile] = pc.Name

		if _, err := g.spawnPerson(i, pc); err != nil {
			return err
		}
	}
	return nil
}

// spawnPerson builds the components for one roster entry and gives the
// person its initial two-tile path.
func (g *Game) spawnPerson(index int, pc config.PersonConfig) (ecs.Entity, error) {
	state, ok := components.ParseState(pc.State)
	if !ok {
		return ecs.Entity{}, fmt.Errorf("person %q: unknown state %q", pc.Name, pc.State)
	}
	dir, ok := geom.ParseDirection(pc.Direction)
	if !ok || !dir.Valid() {
		return ecs.Entity{}, fmt.Errorf("person %q: unknown direction %q", pc.Name, pc.Direction)
	}

	person := components.Person{
		Name:        pc.Name,
		Index:       index,
		Tile:        geom.Tile{Row: pc.Row, Col: pc.Col},
		Direction:   dir,
		State:       state,
		PrevState:   state,
		NeedsRedraw: true,
	}
	var spr components.Sprite
	copy(spr.Frames[:], pc.Frames)
	var pos components.Position

	g.personTracker.Register(index, pc.Name, g.tick)
	g.movement.Spawn(&person, &pos)

	return g.personMapper.NewEntity(&pos, &person, &spr), nil
}
