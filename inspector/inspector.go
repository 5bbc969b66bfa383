// Package inspector draws a details panel for the selected person.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tavern/components"
	"github.com/pthm-cable/tavern/telemetry"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30
	LineHeight   = 18
	LabelWidth   = 100
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorLabel       = rl.Color{R: 160, G: 160, B: 170, A: 255}
	ColorValue       = rl.Color{R: 230, G: 230, B: 230, A: 255}
	ColorBarBg       = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorBarFill     = rl.Color{R: 100, G: 180, B: 220, A: 255}
)

// Inspector lays out and draws the person panel.
type Inspector struct {
	panelX       int32
	panelY       int32
	panelHeight  int32
	screenWidth  int32
	screenHeight int32
}

// NewInspector creates an inspector anchored to the right edge of the screen.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	return &Inspector{
		panelX:       screenWidth - PanelWidth - 10,
		panelY:       50,
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
	}
}

// HitClose reports whether a screen point is on the close button.
func (ins *Inspector) HitClose(x, y float32) bool {
	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	return int32(x) >= closeX && int32(x) <= closeX+20 &&
		int32(y) >= closeY && int32(y) <= closeY+20
}

// Contains reports whether a screen point lies on the last drawn panel.
func (ins *Inspector) Contains(x, y float32) bool {
	return int32(x) >= ins.panelX && int32(x) <= ins.panelX+PanelWidth &&
		int32(y) >= ins.panelY && int32(y) <= ins.panelY+ins.panelHeight
}

// Draw renders the panel for p. stats may be nil.
func (ins *Inspector) Draw(p *components.Person, stats *telemetry.PersonStats) {
	fields := ExtractFields(p)
	lines := int32(len(fields))
	if stats != nil {
		lines += 5
	}
	ins.panelHeight = HeaderHeight + 2*PanelPadding + lines*LineHeight + 8

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, ins.panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(ins.panelHeight)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(p.Name, ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, f := range fields {
		y += drawField(x, y, f)
	}

	if stats == nil {
		return
	}
	y += 4
	rl.DrawLine(x, y, ins.panelX+PanelWidth-PanelPadding, y, ColorPanelBorder)
	y += 4
	y += drawLabel(x, y, "Tiles walked", fmt.Sprint(stats.TilesWalked))
	y += drawLabel(x, y, "Transitions", fmt.Sprint(stats.Transitions))
	y += drawLabel(x, y, "Entries", fmt.Sprint(stats.Entries))
	y += drawLabel(x, y, "Failed routes", fmt.Sprint(stats.RoutesFailed))
	drawLabel(x, y, "Ticks moving", fmt.Sprint(stats.TicksMoving))
}

func drawField(x, y int32, f Field) int32 {
	switch f.Widget {
	case WidgetBar:
		v, ok := GetFloatValue(f.Value)
		if !ok {
			break
		}
		maxVal := GetMax(f.Options)
		barWidth := int32(PanelWidth - 2*PanelPadding - LabelWidth - 40)
		ratio := min(max(v/maxVal, 0), 1)
		rl.DrawText(f.Name, x, y, 12, ColorLabel)
		rl.DrawRectangle(x+LabelWidth, y+2, barWidth, 10, ColorBarBg)
		rl.DrawRectangle(x+LabelWidth, y+2, int32(float32(barWidth)*ratio), 10, ColorBarFill)
		rl.DrawText(FormatValue(f.Value, f.Options["fmt"]), x+LabelWidth+barWidth+5, y, 12, ColorValue)
		return LineHeight
	case WidgetBool:
		if b, ok := f.Value.(bool); ok {
			text := "no"
			if b {
				text = "yes"
			}
			return drawLabel(x, y, f.Name, text)
		}
	}
	return drawLabel(x, y, f.Name, FormatValue(f.Value, f.Options["fmt"]))
}

func drawLabel(x, y int32, label, value string) int32 {
	rl.DrawText(label, x, y, 12, ColorLabel)
	rl.DrawText(value, x+LabelWidth, y, 12, ColorValue)
	return LineHeight
}
