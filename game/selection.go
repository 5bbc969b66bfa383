package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tavern/geom"
)

// handleSelectionInput selects the person under a left click and clears
// the selection on right click or Escape.
func (g *Game) handleSelectionInput() {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		g.hasSelection = false
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	mouse := rl.GetMousePosition()
	if g.hasSelection && g.inspector != nil {
		if g.inspector.HitClose(mouse.X, mouse.Y) {
			g.hasSelection = false
			return
		}
		if g.inspector.Contains(mouse.X, mouse.Y) {
			return
		}
	}

	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	if e, ok := g.personAt(wx, wy); ok {
		g.selectedEntity = e
		g.hasSelection = true
	}
}

// personAt returns the person standing on, or walking into, the tile under
// a world pixel position.
func (g *Game) personAt(x, y float32) (ecs.Entity, bool) {
	size := g.cfg.Derived.TileSize32
	if x < 0 || y < 0 {
		return ecs.Entity{}, false
	}
	tile := geom.Tile{Row: int(y / size), Col: int(x / size)}

	query := g.personFilter.Query()
	for query.Next() {
		pos, p, _ := query.Get()
		t := geom.Tile{Row: int(pos.Y / size), Col: int(pos.X / size)}
		if t == tile || p.Tile == tile {
			e := query.Entity()
			query.Close()
			return e, true
		}
	}
	return ecs.Entity{}, false
}
