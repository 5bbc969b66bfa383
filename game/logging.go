package game

import (
	"log/slog"

	"github.com/pthm-cable/tavern/components"
)

// LogPeople logs where every person stands and what they are doing.
func (g *Game) LogPeople() {
	for _, p := range g.People() {
		slog.Info("person",
			"tick", g.tick,
			"name", p.Name,
			"state", p.State.String(),
			"row", p.Tile.Row,
			"col", p.Tile.Col,
			"direction", p.Direction.String(),
			"moving", p.Moving,
			"path_len", len(p.Path),
		)
	}
}

// logWorldState logs a one-line census of the simulation.
func (g *Game) logWorldState() {
	c := g.census()
	attrs := []any{"tick", g.tick, "people", c.Total(), "moving", c.Moving, "pending_writes", g.grid.Pending()}
	for s, n := range c.ByState {
		if n > 0 {
			attrs = append(attrs, components.State(s).String(), n)
		}
	}
	slog.Debug("world", attrs...)
}
