// Package geom provides tile coordinates, packed cell ids and the
// direction/pixel conversions shared by the grid, pathfinder and scheduler.
package geom

import (
	"math"
	"strconv"
)

// MaxCols is the column count the packed cell id can represent.
// A cell id is row*MaxCols + col, so col must stay below MaxCols.
const MaxCols = 100

// Tile addresses a grid cell by row and column.
type Tile struct {
	Row, Col int
}

// String formats the tile as "(row,col)".
func (t Tile) String() string {
	return "(" + strconv.Itoa(t.Row) + "," + strconv.Itoa(t.Col) + ")"
}

// Add returns the tile offset by o.
func (t Tile) Add(o Tile) Tile {
	return Tile{Row: t.Row + o.Row, Col: t.Col + o.Col}
}

// Offset returns the tile n steps away in direction dir.
func (t Tile) Offset(dir Direction, n int) Tile {
	s := Step(dir)
	return Tile{Row: t.Row + s.Row*n, Col: t.Col + s.Col*n}
}

// ToCellID packs a tile into a single hashable id.
func ToCellID(t Tile) int {
	return t.Row*MaxCols + t.Col
}

// FromCellID unpacks a cell id produced by ToCellID.
func FromCellID(id int) Tile {
	return Tile{Row: id / MaxCols, Col: id % MaxCols}
}

// Distance returns the straight-line distance between two tiles.
func Distance(a, b Tile) float64 {
	dr := float64(b.Row - a.Row)
	dc := float64(b.Col - a.Col)
	return math.Sqrt(dr*dr + dc*dc)
}

// IsAdjacent reports whether b is one 8-directional step from a.
func IsAdjacent(a, b Tile) bool {
	dr := b.Row - a.Row
	dc := b.Col - a.Col
	if dr == 0 && dc == 0 {
		return false
	}
	return dr >= -1 && dr <= 1 && dc >= -1 && dc <= 1
}

// TileCenter returns the pixel center of a tile.
func TileCenter(t Tile, tileSize float32) (x, y float32) {
	x = float32(t.Col)*tileSize + tileSize/2
	y = float32(t.Row)*tileSize + tileSize/2
	return
}
