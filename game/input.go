package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tavern/ui"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Speed control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerFrame > 1 {
		g.stepsPerFrame--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerFrame < ui.MaxSpeed {
		g.stepsPerFrame++
	}

	// Single step while paused
	if g.paused && rl.IsKeyPressed(rl.KeyN) {
		g.Step()
	}

	g.handleCameraInput()
	g.handleSelectionInput()
}

// panSpeed is the arrow-key pan rate in screen pixels per frame.
const panSpeed = 8

// handleCameraInput zooms with the mouse wheel and pans with the arrow
// keys or a middle-button drag.
func (g *Game) handleCameraInput() {
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + 0.1*wheel)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		g.camera.Pan(-d.X, -d.Y)
	}

	var dx, dy float32
	if rl.IsKeyDown(rl.KeyLeft) {
		dx -= panSpeed
	}
	if rl.IsKeyDown(rl.KeyRight) {
		dx += panSpeed
	}
	if rl.IsKeyDown(rl.KeyUp) {
		dy -= panSpeed
	}
	if rl.IsKeyDown(rl.KeyDown) {
		dy += panSpeed
	}
	if dx != 0 || dy != 0 {
		g.camera.Pan(dx, dy)
	}

	if rl.IsKeyPressed(rl.KeyR) {
		g.camera.Reset()
	}
}

// applyHUDActions applies the HUD buttons pressed during the last draw.
func (g *Game) applyHUDActions(a ui.HUDActions) {
	if a.TogglePause {
		g.paused = !g.paused
	}
	if a.Step && g.paused {
		g.Step()
	}
	g.stepsPerFrame = a.Speed
}
