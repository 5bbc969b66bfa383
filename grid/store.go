// Package grid stores the layered tile grid the simulation walks on.
package grid

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/tavern/geom"
)

// Layer indexes one integer of a tile's layer tuple.
type Layer int

const (
	LayerVisual   Layer = iota // sprite / category id, renderer only
	LayerTerrain               // Terrain class
	LayerBlocking              // 0 = passable, nonzero = impassable or occupied
	LayerTrigger               // 0 = none, otherwise a geom.Direction directive
	NumLayers
)

// Terrain classifies a tile for behaviour decisions.
type Terrain int

const (
	TerrainUnknown Terrain = iota
	TerrainSidewalk
	TerrainMedian
	TerrainStreet
	TerrainDoor
	TerrainFloor
	TerrainWall
	TerrainGrass
)

var terrainNames = [...]string{
	TerrainUnknown:  "unknown",
	TerrainSidewalk: "sidewalk",
	TerrainMedian:   "median",
	TerrainStreet:   "street",
	TerrainDoor:     "door",
	TerrainFloor:    "floor",
	TerrainWall:     "wall",
	TerrainGrass:    "grass",
}

func (t Terrain) String() string {
	if t >= 0 && int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return "invalid"
}

// ParseTerrain maps a config name to a Terrain.
func ParseTerrain(name string) (Terrain, bool) {
	for i, n := range terrainNames {
		if n == name {
			return Terrain(i), true
		}
	}
	return TerrainUnknown, false
}

var (
	ErrInvalidSize = errors.New("grid dimensions must be positive")
	ErrTooWide     = fmt.Errorf("grid wider than %d columns", geom.MaxCols)
	ErrOutOfBounds = errors.New("tile out of bounds")
)

// Tile is the full layer tuple of one cell.
type Tile [NumLayers]int

// Terrain returns the terrain layer as a Terrain.
func (t Tile) Terrain() Terrain { return Terrain(t[LayerTerrain]) }

// write is a queued layer update.
type write struct {
	row, col int
	layer    Layer
	val      int
}

// Store owns the tile table. Dimensions are fixed at construction; layer
// values are mutable. Writes through Set are queued and only become
// visible after Flush, which the scheduler calls once at the start of each
// tick.
type Store struct {
	rows, cols int
	tiles      []Tile
	pending    []write
}

// New allocates a rows x cols grid. Every tile starts as unknown terrain
// and blocked until authored.
func New(rows, cols int) (*Store, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, cols)
	}
	if cols > geom.MaxCols {
		return nil, fmt.Errorf("%w: %d", ErrTooWide, cols)
	}
	s := &Store{
		rows:  rows,
		cols:  cols,
		tiles: make([]Tile, rows*cols),
	}
	for i := range s.tiles {
		s.tiles[i][LayerTerrain] = int(TerrainUnknown)
		s.tiles[i][LayerBlocking] = 1
	}
	return s, nil
}

// Rows returns the grid height in tiles.
func (s *Store) Rows() int { return s.rows }

// Cols returns the grid width in tiles.
func (s *Store) Cols() int { return s.cols }

// InBounds reports whether (row, col) lies inside the grid.
func (s *Store) InBounds(row, col int) bool {
	return row >= 0 && row < s.rows && col >= 0 && col < s.cols
}

func (s *Store) index(row, col int) int {
	return row*s.cols + col
}

// Value returns one layer of a tile. Out-of-range access is a caller bug:
// it is logged and 0 is returned.
func (s *Store) Value(row, col int, layer Layer) int {
	if !s.InBounds(row, col) || layer < 0 || layer >= NumLayers {
		slog.Error("grid read out of bounds",
			"row", row, "col", col, "layer", int(layer),
			"rows", s.rows, "cols", s.cols)
		return 0
	}
	return s.tiles[s.index(row, col)][layer]
}

// Tile returns the full layer tuple of a tile.
func (s *Store) Tile(row, col int) (Tile, bool) {
	if !s.InBounds(row, col) {
		return Tile{}, false
	}
	return s.tiles[s.index(row, col)], true
}

// Terrain returns the terrain class of a tile.
func (s *Store) Terrain(row, col int) Terrain {
	return Terrain(s.Value(row, col, LayerTerrain))
}

// IsBlocking reports whether the blocking layer is nonzero. Out-of-range
// tiles are logged and reported as blocking.
func (s *Store) IsBlocking(row, col int) bool {
	if !s.InBounds(row, col) {
		slog.Error("grid blocking check out of bounds", "row", row, "col", col)
		return true
	}
	return s.tiles[s.index(row, col)][LayerBlocking] != 0
}

// Set queues a layer write. It is applied by the next Flush, so reads in
// the same tick still see the old value.
func (s *Store) Set(row, col int, layer Layer, val int) {
	s.pending = append(s.pending, write{row: row, col: col, layer: layer, val: val})
}

// Pending returns the number of queued writes.
func (s *Store) Pending() int { return len(s.pending) }

// Flush applies queued writes in the order they were queued; the last
// write to a tile layer wins. Invalid writes are logged and dropped.
// It returns the number of writes applied.
func (s *Store) Flush() int {
	applied := 0
	for _, w := range s.pending {
		if !s.InBounds(w.row, w.col) || w.layer < 0 || w.layer >= NumLayers {
			slog.Error("grid write out of bounds",
				"row", w.row, "col", w.col, "layer", int(w.layer))
			continue
		}
		s.tiles[s.index(w.row, w.col)][w.layer] = w.val
		applied++
	}
	s.pending = s.pending[:0]
	return applied
}

// Author writes a whole tile immediately. It is meant for building the
// scene before the first tick, not for use inside a tick.
func (s *Store) Author(row, col int, t Tile) error {
	if !s.InBounds(row, col) {
		return fmt.Errorf("authoring (%d, %d): %w", row, col, ErrOutOfBounds)
	}
	s.tiles[s.index(row, col)] = t
	return nil
}
