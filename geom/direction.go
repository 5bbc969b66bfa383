package geom

// Direction is one of the 8 compass facings. The numeric values match the
// codes stored in a tile's trigger layer, so a nonzero trigger value can be
// used as a Direction directly.
type Direction uint8

const (
	DirNone Direction = iota
	Down
	DownLeft
	Left
	Right
	DownRight
	Up
	UpLeft
	UpRight
)

var directionNames = [...]string{
	DirNone:   "none",
	Down:      "down",
	DownLeft:  "down_left",
	Left:      "left",
	Right:     "right",
	DownRight: "down_right",
	Up:        "up",
	UpLeft:    "up_left",
	UpRight:   "up_right",
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "invalid"
}

// Valid reports whether d is one of the 8 facings.
func (d Direction) Valid() bool {
	return d >= Down && d <= UpRight
}

// ParseDirection maps a config name to a Direction.
func ParseDirection(name string) (Direction, bool) {
	for i, n := range directionNames {
		if n == name {
			return Direction(i), true
		}
	}
	return DirNone, false
}

// Adjacency lists the 8 neighbour offsets in search order:
// down, down-right, right, up-right, up, up-left, left, down-left.
var Adjacency = [8]Tile{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// FourSides lists the cardinal neighbour offsets: down, right, up, left.
var FourSides = [4]Tile{
	{1, 0}, {0, 1}, {-1, 0}, {0, -1},
}

var steps = [...]Tile{
	DirNone:   {0, 0},
	Down:      {1, 0},
	DownLeft:  {1, -1},
	Left:      {0, -1},
	Right:     {0, 1},
	DownRight: {1, 1},
	Up:        {-1, 0},
	UpLeft:    {-1, -1},
	UpRight:   {-1, 1},
}

// Step returns the unit row/col offset for a direction.
// DirNone and invalid values return the zero offset.
func Step(d Direction) Tile {
	if int(d) < len(steps) {
		return steps[d]
	}
	return Tile{}
}

// DirectionBetween returns the facing needed to step from one tile to an
// adjacent one. The step is encoded as dRow*10 + dCol; any code other than
// the 8 unit steps yields false.
func DirectionBetween(from, to Tile) (Direction, bool) {
	code := (to.Row-from.Row)*10 + (to.Col - from.Col)
	switch code {
	case 10:
		return Down, true
	case 11:
		return DownRight, true
	case 1:
		return Right, true
	case -9:
		return UpRight, true
	case -10:
		return Up, true
	case -11:
		return UpLeft, true
	case -1:
		return Left, true
	case 9:
		return DownLeft, true
	}
	return DirNone, false
}

// NextMove returns the per-tick pixel displacement for a facing.
// x follows columns, y follows rows.
func NextMove(d Direction, speed float32) (dx, dy float32) {
	s := Step(d)
	return float32(s.Col) * speed, float32(s.Row) * speed
}
