package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tavern/components"
	"github.com/pthm-cable/tavern/geom"
	"github.com/pthm-cable/tavern/grid"
	"github.com/pthm-cable/tavern/ui"
)

var terrainColors = map[grid.Terrain]rl.Color{
	grid.TerrainUnknown:  rl.Black,
	grid.TerrainSidewalk: rl.Color{R: 170, G: 170, B: 160, A: 255},
	grid.TerrainMedian:   rl.Color{R: 200, G: 190, B: 90, A: 255},
	grid.TerrainStreet:   rl.Color{R: 60, G: 60, B: 65, A: 255},
	grid.TerrainDoor:     rl.Color{R: 130, G: 80, B: 40, A: 255},
	grid.TerrainFloor:    rl.Color{R: 150, G: 110, B: 70, A: 255},
	grid.TerrainWall:     rl.Color{R: 90, G: 50, B: 40, A: 255},
	grid.TerrainGrass:    rl.Color{R: 70, G: 130, B: 60, A: 255},
}

// Draw renders the grid, people and HUD.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.camera.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	rl.BeginMode2D(rl.Camera2D{
		Offset: rl.Vector2{X: g.camera.ViewportW / 2, Y: g.camera.ViewportH / 2},
		Target: rl.Vector2{X: g.camera.X, Y: g.camera.Y},
		Zoom:   g.camera.Zoom,
	})
	g.drawGrid()
	g.drawSelectionPath()
	g.drawPeople()
	rl.EndMode2D()

	g.drawUI()

	rl.EndDrawing()
}

func (g *Game) drawGrid() {
	size := int32(g.cfg.Derived.TileSize32)
	for row := 0; row < g.grid.Rows(); row++ {
		for col := 0; col < g.grid.Cols(); col++ {
			x, y := int32(col)*size, int32(row)*size
			rl.DrawRectangle(x, y, size, size, terrainColors[g.grid.Terrain(row, col)])
			rl.DrawRectangleLines(x, y, size, size, rl.Color{R: 0, G: 0, B: 0, A: 40})

			// Trigger tiles get a small arrow toward the facing they impose.
			if d := geom.Direction(g.grid.Value(row, col, grid.LayerTrigger)); d.Valid() {
				cx, cy := geom.TileCenter(geom.Tile{Row: row, Col: col}, float32(size))
				s := geom.Step(d)
				end := rl.Vector2{X: cx + float32(s.Col)*float32(size)/3, Y: cy + float32(s.Row)*float32(size)/3}
				rl.DrawLineEx(rl.Vector2{X: cx, Y: cy}, end, 3, rl.Yellow)
			}

			// Occupied tiles are outlined.
			if v := g.grid.Value(row, col, grid.LayerBlocking); v >= components.OccupantBase {
				rl.DrawRectangleLines(x+2, y+2, size-4, size-4, rl.Red)
			}
		}
	}
}

func (g *Game) drawPeople() {
	size := g.cfg.Derived.TileSize32
	radius := size / 3

	query := g.personFilter.Query()
	for query.Next() {
		pos, p, spr := query.Get()
		if !g.camera.IsVisible(pos.X, pos.Y, size) {
			continue
		}
		color := ui.StateColor(p.State.String())
		rl.DrawCircleV(rl.Vector2{X: pos.X, Y: pos.Y}, radius, color)

		// Facing marker
		dx, dy := geom.NextMove(p.Direction, radius)
		rl.DrawLineEx(rl.Vector2{X: pos.X, Y: pos.Y}, rl.Vector2{X: pos.X + dx, Y: pos.Y + dy}, 3, rl.Black)

		// Walk cycle: one dot per frame step within the half of the sheet.
		for i := 0; i <= spr.Frame%3; i++ {
			rl.DrawCircle(int32(pos.X-radius)+int32(i)*6, int32(pos.Y+radius)+4, 2, rl.White)
		}

		w := rl.MeasureText(p.Name, 10)
		rl.DrawText(p.Name, int32(pos.X)-w/2, int32(pos.Y-radius)-12, 10, rl.White)
	}
}

func (g *Game) drawSelectionPath() {
	if !g.hasSelection || !g.world.Alive(g.selectedEntity) {
		return
	}
	p := g.personMap.Get(g.selectedEntity)
	size := g.cfg.Derived.TileSize32
	for i := 1; i < len(p.Path); i++ {
		ax, ay := geom.TileCenter(p.Path[i-1], size)
		bx, by := geom.TileCenter(p.Path[i], size)
		rl.DrawLineEx(rl.Vector2{X: ax, Y: ay}, rl.Vector2{X: bx, Y: by}, 4, rl.Color{R: 255, G: 255, B: 255, A: 160})
	}
	pos := g.posMap.Get(g.selectedEntity)
	rl.DrawCircleLines(int32(pos.X), int32(pos.Y), size/2-2, rl.White)
}

func (g *Game) drawUI() {
	census := g.census()
	counts := make([]ui.StateCount, 0, components.StateCount)
	for s := components.State(0); s < components.StateCount; s++ {
		counts = append(counts, ui.StateCount{State: s.String(), Count: census.ByState[s]})
	}

	actions := g.hud.Draw(ui.HUDData{
		Title:        "Tavern",
		Tick:         g.tick,
		Speed:        g.stepsPerFrame,
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		People:       census.Total(),
		Moving:       census.Moving,
		StateCounts:  counts,
		ScreenWidth:  int32(rl.GetScreenWidth()),
		ScreenHeight: int32(rl.GetScreenHeight()),
	})
	g.applyHUDActions(actions)

	g.hud.DrawControls(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()),
		"SPACE pause | N step | < > speed | wheel zoom | arrows pan | R reset | click select | ESC deselect")

	if g.hasSelection && g.world.Alive(g.selectedEntity) {
		p := g.personMap.Get(g.selectedEntity)
		g.inspector.Draw(p, g.personTracker.Get(p.Index))
	}
}
