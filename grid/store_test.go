package grid

import (
	"errors"
	"testing"

	"github.com/pthm-cable/tavern/config"
	"github.com/pthm-cable/tavern/geom"
)

func TestNewRejectsBadSizes(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		want       error
	}{
		{"zero rows", 0, 5, ErrInvalidSize},
		{"negative cols", 5, -1, ErrInvalidSize},
		{"too wide for cell ids", 5, geom.MaxCols + 1, ErrTooWide},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.rows, tt.cols)
			if !errors.Is(err, tt.want) {
				t.Errorf("New(%d, %d) error = %v, want %v", tt.rows, tt.cols, err, tt.want)
			}
		})
	}
}

func TestNewDefaultsBlocked(t *testing.T) {
	s, err := New(3, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			if !s.IsBlocking(row, col) {
				t.Errorf("(%d, %d) not blocking before authoring", row, col)
			}
			if s.Terrain(row, col) != TerrainUnknown {
				t.Errorf("(%d, %d) terrain = %s, want unknown", row, col, s.Terrain(row, col))
			}
		}
	}
}

func TestInBoundsStrictUpper(t *testing.T) {
	s, _ := New(3, 4)
	tests := []struct {
		row, col int
		want     bool
	}{
		{0, 0, true},
		{2, 3, true},
		{3, 0, false},
		{0, 4, false},
		{-1, 0, false},
		{0, -1, false},
	}
	for _, tt := range tests {
		if got := s.InBounds(tt.row, tt.col); got != tt.want {
			t.Errorf("InBounds(%d, %d) = %v, want %v", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestOutOfBoundsReads(t *testing.T) {
	s, _ := New(2, 2)
	if v := s.Value(5, 5, LayerTerrain); v != 0 {
		t.Errorf("Value out of bounds = %d, want 0", v)
	}
	if v := s.Value(0, 0, NumLayers); v != 0 {
		t.Errorf("Value with bad layer = %d, want 0", v)
	}
	if !s.IsBlocking(-1, 0) {
		t.Error("out of bounds tile should report blocking")
	}
	if _, ok := s.Tile(2, 0); ok {
		t.Error("Tile(2, 0) should not be ok on a 2x2 grid")
	}
	if err := s.Author(2, 2, Tile{}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Author out of bounds error = %v", err)
	}
}

// TestSetIsDeferred verifies a write is invisible until Flush.
func TestSetIsDeferred(t *testing.T) {
	s, _ := New(2, 2)
	s.Author(0, 0, Tile{})

	s.Set(0, 0, LayerBlocking, 101)
	if s.IsBlocking(0, 0) {
		t.Fatal("write visible before flush")
	}
	if s.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", s.Pending())
	}

	if n := s.Flush(); n != 1 {
		t.Errorf("Flush applied %d, want 1", n)
	}
	if got := s.Value(0, 0, LayerBlocking); got != 101 {
		t.Errorf("blocking after flush = %d, want 101", got)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending after flush = %d, want 0", s.Pending())
	}
}

// TestFlushLastWriteWins checks that writes to the same layer apply in
// enqueue order.
func TestFlushLastWriteWins(t *testing.T) {
	s, _ := New(2, 2)
	s.Author(1, 1, Tile{})

	s.Set(1, 1, LayerBlocking, 0)   // vacated by one agent
	s.Set(1, 1, LayerBlocking, 102) // occupied by another
	s.Set(9, 9, LayerBlocking, 1)   // dropped
	if n := s.Flush(); n != 2 {
		t.Errorf("Flush applied %d, want 2", n)
	}
	if got := s.Value(1, 1, LayerBlocking); got != 102 {
		t.Errorf("blocking = %d, want 102", got)
	}

	s.Set(1, 1, LayerBlocking, 102)
	s.Set(1, 1, LayerBlocking, 0)
	s.Flush()
	if s.IsBlocking(1, 1) {
		t.Error("later clear should win")
	}
}

func testLegend() map[string]config.LegendEntry {
	return map[string]config.LegendEntry{
		"s": {Terrain: "sidewalk", Visual: 2},
		"=": {Terrain: "street", Visual: 3},
		"d": {Terrain: "sidewalk", Trigger: "down", Visual: 5},
		"#": {Terrain: "wall", Blocking: true, Visual: 6},
	}
}

func TestBuildFromLayout(t *testing.T) {
	s, err := BuildFromLayout(config.LayoutConfig{
		Rows:   []string{"ssd", "===", "###"},
		Legend: testLegend(),
	})
	if err != nil {
		t.Fatalf("BuildFromLayout: %v", err)
	}
	if s.Rows() != 3 || s.Cols() != 3 {
		t.Fatalf("size = %dx%d, want 3x3", s.Rows(), s.Cols())
	}
	if s.Terrain(1, 0) != TerrainStreet {
		t.Errorf("(1, 0) terrain = %s, want street", s.Terrain(1, 0))
	}
	if s.IsBlocking(0, 0) {
		t.Error("sidewalk should be passable")
	}
	if !s.IsBlocking(2, 1) {
		t.Error("wall should block")
	}
	if got := geom.Direction(s.Value(0, 2, LayerTrigger)); got != geom.Down {
		t.Errorf("door trigger = %s, want down", got)
	}
	if got := s.Value(0, 2, LayerVisual); got != 5 {
		t.Errorf("door visual = %d, want 5", got)
	}
}

func TestBuildFromLayoutErrors(t *testing.T) {
	tests := []struct {
		name   string
		layout config.LayoutConfig
		want   error
	}{
		{"empty", config.LayoutConfig{Legend: testLegend()}, ErrInvalidSize},
		{"ragged", config.LayoutConfig{Rows: []string{"ss", "s"}, Legend: testLegend()}, ErrRaggedLayout},
		{"unknown glyph", config.LayoutConfig{Rows: []string{"s?"}, Legend: testLegend()}, ErrUnknownGlyph},
		{"unknown terrain", config.LayoutConfig{
			Rows:   []string{"x"},
			Legend: map[string]config.LegendEntry{"x": {Terrain: "lava"}},
		}, ErrUnknownLegend},
		{"unknown trigger", config.LayoutConfig{
			Rows:   []string{"x"},
			Legend: map[string]config.LegendEntry{"x": {Terrain: "door", Trigger: "sideways"}},
		}, ErrUnknownLegend},
		{"multi-rune key", config.LayoutConfig{
			Rows:   []string{"x"},
			Legend: map[string]config.LegendEntry{"xy": {Terrain: "door"}},
		}, ErrUnknownLegend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildFromLayout(tt.layout)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildFromDefaultLayout(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	s, err := BuildFromLayout(cfg.Layout)
	if err != nil {
		t.Fatalf("BuildFromLayout: %v", err)
	}
	for _, p := range cfg.People {
		if s.IsBlocking(p.Row, p.Col) {
			t.Errorf("%s starts on a blocking tile (%d, %d)", p.Name, p.Row, p.Col)
		}
	}
}
