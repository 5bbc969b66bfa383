package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MaxSpeed is the largest ticks-per-frame multiplier the HUD offers.
const MaxSpeed = 10

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Tick         int32
	Speed        int
	FPS          int32
	Paused       bool
	People       int
	Moving       int
	StateCounts  []StateCount
	ScreenWidth  int32
	ScreenHeight int32
}

// StateCount is one line of the state census.
type StateCount struct {
	State string
	Count int
}

// HUDActions reports which HUD buttons were pressed this frame.
type HUDActions struct {
	TogglePause bool
	Step        bool
	Speed       int // requested multiplier, equal to HUDData.Speed when unchanged
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD and its buttons.
func (h *HUD) Draw(data HUDData) HUDActions {
	actions := HUDActions{Speed: data.Speed}

	rl.DrawText(data.Title, 10, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d", data.Tick, data.Speed, data.FPS),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(fmt.Sprintf("People: %d | Moving: %d", data.People, data.Moving), 10, 55, 16, rl.LightGray)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)

	y := int32(95)
	for _, sc := range data.StateCounts {
		y = h.renderer.DrawColorSwatch(10, y, fmt.Sprintf("%s %d", sc.State, sc.Count), StateColor(sc.State))
	}

	// Buttons along the top right
	bx := float32(data.ScreenWidth) - 340
	pauseLabel := "Pause"
	if data.Paused {
		pauseLabel = "Resume"
	}
	if gui.Button(rl.Rectangle{X: bx, Y: 10, Width: 80, Height: 26}, pauseLabel) {
		actions.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: bx + 85, Y: 10, Width: 60, Height: 26}, "Step") {
		actions.Step = true
	}
	speed := gui.SliderBar(
		rl.Rectangle{X: bx + 190, Y: 13, Width: 110, Height: 20},
		"Speed", fmt.Sprintf("%dx", data.Speed),
		float32(data.Speed), 1, MaxSpeed,
	)
	actions.Speed = min(max(int(speed+0.5), 1), MaxSpeed)

	return actions
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
