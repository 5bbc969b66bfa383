package grid

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/tavern/config"
	"github.com/pthm-cable/tavern/geom"
)

var (
	ErrRaggedLayout  = errors.New("layout rows differ in width")
	ErrUnknownGlyph  = errors.New("layout glyph missing from legend")
	ErrUnknownLegend = errors.New("legend entry names unknown value")
)

// BuildFromLayout authors a store from a character map. Each rune of each
// row is looked up in the legend to produce the tile's four layers.
func BuildFromLayout(layout config.LayoutConfig) (*Store, error) {
	if len(layout.Rows) == 0 {
		return nil, fmt.Errorf("%w: no layout rows", ErrInvalidSize)
	}

	legend, err := compileLegend(layout.Legend)
	if err != nil {
		return nil, err
	}

	cols := len([]rune(layout.Rows[0]))
	s, err := New(len(layout.Rows), cols)
	if err != nil {
		return nil, fmt.Errorf("building layout: %w", err)
	}

	for row, line := range layout.Rows {
		runes := []rune(line)
		if len(runes) != cols {
			return nil, fmt.Errorf("%w: row %d has %d tiles, want %d", ErrRaggedLayout, row, len(runes), cols)
		}
		for col, r := range runes {
			tile, ok := legend[r]
			if !ok {
				return nil, fmt.Errorf("%w: %q at (%d, %d)", ErrUnknownGlyph, r, row, col)
			}
			if err := s.Author(row, col, tile); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func compileLegend(entries map[string]config.LegendEntry) (map[rune]Tile, error) {
	legend := make(map[rune]Tile, len(entries))
	for glyph, e := range entries {
		runes := []rune(glyph)
		if len(runes) != 1 {
			return nil, fmt.Errorf("%w: legend key %q must be a single character", ErrUnknownLegend, glyph)
		}

		terrain, ok := ParseTerrain(e.Terrain)
		if !ok {
			return nil, fmt.Errorf("%w: terrain %q for %q", ErrUnknownLegend, e.Terrain, glyph)
		}

		var trigger geom.Direction
		if e.Trigger != "" {
			trigger, ok = geom.ParseDirection(e.Trigger)
			if !ok || !trigger.Valid() {
				return nil, fmt.Errorf("%w: trigger %q for %q", ErrUnknownLegend, e.Trigger, glyph)
			}
		}

		var t Tile
		t[LayerVisual] = e.Visual
		t[LayerTerrain] = int(terrain)
		if e.Blocking {
			t[LayerBlocking] = 1
		}
		t[LayerTrigger] = int(trigger)
		legend[runes[0]] = t
	}
	return legend, nil
}
