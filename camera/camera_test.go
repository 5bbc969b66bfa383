package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected camera at (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	sx, sy := cam.WorldToScreen(1280, 720)
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(2)
	cam.Pan(-300, 150)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	}
	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanStopsAtEdge(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	cam.Pan(-5000, -5000)
	if cam.X != 640 || cam.Y != 360 {
		t.Errorf("expected top-left clamp (640, 360), got (%f, %f)", cam.X, cam.Y)
	}
	minX, minY, _, _ := cam.VisibleWorldBounds()
	if minX != 0 || minY != 0 {
		t.Errorf("visible bounds start at (%f, %f), want (0, 0)", minX, minY)
	}

	cam.Pan(10000, 10000)
	_, _, maxX, maxY := cam.VisibleWorldBounds()
	if maxX != 2560 || maxY != 1440 {
		t.Errorf("visible bounds end at (%f, %f), want (2560, 1440)", maxX, maxY)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// The whole world fits at 0.5.
	if cam.MinZoom != 0.5 {
		t.Errorf("expected MinZoom 0.5, got %f", cam.MinZoom)
	}

	cam.SetZoom(0.1)
	if cam.Zoom != 0.5 {
		t.Errorf("expected zoom clamped to 0.5, got %f", cam.Zoom)
	}

	cam.SetZoom(10.0)
	if cam.Zoom != 4.0 {
		t.Errorf("expected zoom clamped to 4.0, got %f", cam.Zoom)
	}
}

func TestSmallWorldStaysCentered(t *testing.T) {
	// The grid is smaller than the window: no zooming out, no panning.
	cam := New(1280, 960, 1024, 768)
	if cam.MinZoom != 1 {
		t.Errorf("MinZoom = %f, want 1", cam.MinZoom)
	}

	cam.Pan(300, -300)
	if cam.X != 512 || cam.Y != 384 {
		t.Errorf("camera moved to (%f, %f), want world centre", cam.X, cam.Y)
	}
}

func TestResizeReclampsZoom(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(0.5)

	cam.Resize(1920, 1080)
	if math.Abs(float64(cam.MinZoom-0.75)) > 0.001 {
		t.Errorf("MinZoom = %f, want 0.75", cam.MinZoom)
	}
	if cam.Zoom != cam.MinZoom {
		t.Errorf("Zoom = %f, want raised to %f", cam.Zoom, cam.MinZoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// Visible range in world coords: (640, 360) to (1920, 1080)
	if !cam.IsVisible(1280, 720, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(2400, 1300, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(600, 720, 100) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(2.5)
	cam.Pan(-400, -400)

	cam.Reset()

	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected position (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
