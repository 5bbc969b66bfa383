package systems

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/pthm-cable/tavern/geom"
)

// Navigator answers the grid queries route search needs.
type Navigator interface {
	InBounds(row, col int) bool
	IsBlocking(row, col int) bool
}

// Outcome classifies the result of the last route search.
type Outcome uint8

const (
	OutcomeFound         Outcome = iota
	OutcomeBlockedTarget         // target blocking or off the grid
	OutcomeAlreadyThere          // start == target
	OutcomeTooLong               // every branch hit the length cap
	OutcomeNoRoute               // candidates exhausted
)

var outcomeNames = [...]string{
	OutcomeFound:         "found",
	OutcomeBlockedTarget: "blocked_target",
	OutcomeAlreadyThere:  "already_there",
	OutcomeTooLong:       "too_long",
	OutcomeNoRoute:       "no_route",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// deadEnd marks a cell proven not to lead to the target in this search.
const deadEnd = -1

// Pathfinder computes short, acyclic, bounded routes with a greedy
// depth-first search. Neighbours are tried nearest-to-target first, branches
// that a straight line back to the start would beat are abandoned, and
// failed cells are memoised for the rest of the search.
//
// Routes are not guaranteed to be globally shortest. A Pathfinder is not
// safe for concurrent use.
type Pathfinder struct {
	nav       Navigator
	maxLength int

	// Per-search state, reset by ShortestPath.
	memo    map[int]int // cell id -> best length reaching it, or deadEnd
	path    []geom.Tile
	target  geom.Tile
	tooLong bool
	last    Outcome
}

// NewPathfinder creates a pathfinder over nav. Paths that reach maxLength
// tiles are abandoned, so returned paths hold at most maxLength-1 tiles.
func NewPathfinder(nav Navigator, maxLength int) *Pathfinder {
	return &Pathfinder{
		nav:       nav,
		maxLength: maxLength,
		memo:      make(map[int]int, 256),
		path:      make([]geom.Tile, 0, maxLength),
	}
}

// ShortestPath returns the route from start to target inclusive, or nil
// when the target is blocked, equal to start, or unreachable within the
// length cap. The result is owned by the caller.
func (p *Pathfinder) ShortestPath(start, target geom.Tile) []geom.Tile {
	clear(p.memo)
	p.path = p.path[:0]
	p.target = target
	p.tooLong = false

	if !p.nav.InBounds(target.Row, target.Col) || p.nav.IsBlocking(target.Row, target.Col) {
		p.last = OutcomeBlockedTarget
		return nil
	}
	if start == target {
		p.last = OutcomeAlreadyThere
		return nil
	}

	p.path = append(p.path, start)
	for _, c := range p.candidates(start) {
		if p.memo[geom.ToCellID(c)] == deadEnd {
			continue
		}
		if p.extend(c) {
			p.last = OutcomeFound
			return slices.Clone(p.path)
		}
		p.memo[geom.ToCellID(p.pop())] = deadEnd
	}

	if p.tooLong {
		p.last = OutcomeTooLong
		slog.Debug("route too long", "start", start, "target", target, "max", p.maxLength)
	} else {
		p.last = OutcomeNoRoute
		slog.Debug("no route", "start", start, "target", target)
	}
	return nil
}

// LastOutcome reports how the most recent ShortestPath call ended.
func (p *Pathfinder) LastOutcome() Outcome {
	return p.last
}

// extend pushes cell and searches onward from it. On failure the cell is
// left on the path for the caller to pop.
func (p *Pathfinder) extend(cell geom.Tile) bool {
	p.path = append(p.path, cell)
	if len(p.path) >= p.maxLength {
		p.tooLong = true
		return false
	}
	if cell == p.target {
		return true
	}
	if p.meandering(cell) {
		return false
	}
	p.memo[geom.ToCellID(cell)] = len(p.path)

	for _, c := range p.candidates(cell) {
		id := geom.ToCellID(c)
		if best, seen := p.memo[id]; seen && (best == deadEnd || best < len(p.path)+1) {
			continue
		}
		if p.onPath(c) {
			continue
		}
		if c == p.target {
			p.path = append(p.path, c)
			p.memo[id] = len(p.path)
			return true
		}
		if p.extend(c) {
			return true
		}
		p.memo[geom.ToCellID(p.pop())] = deadEnd
	}
	return false
}

// meandering walks a straight line from cell back to the start. It reports
// true when that line is clear and uses fewer tiles than the path so far.
func (p *Pathfinder) meandering(cell geom.Tile) bool {
	start := p.path[0]
	cur := cell
	tiles := 1
	for {
		dr := cmp.Compare(start.Row, cur.Row)
		dc := cmp.Compare(start.Col, cur.Col)
		switch {
		case dr != 0 && dc != 0:
			cur.Row += dr
			cur.Col += dc
		case dc != 0:
			cur.Col += dc
		default:
			cur.Row += dr
		}
		tiles++

		if len(p.path) <= tiles {
			return false
		}
		if cur == start {
			return true
		}
		if !p.nav.InBounds(cur.Row, cur.Col) || p.nav.IsBlocking(cur.Row, cur.Col) {
			return false
		}
	}
}

// candidates returns the passable neighbours of cell ordered by distance to
// the target. Ties keep geom.Adjacency order.
func (p *Pathfinder) candidates(cell geom.Tile) []geom.Tile {
	type scored struct {
		tile geom.Tile
		dist float64
	}
	var buf [8]scored
	for i, off := range geom.Adjacency {
		t := cell.Add(off)
		buf[i] = scored{tile: t, dist: geom.Distance(t, p.target)}
	}
	slices.SortStableFunc(buf[:], func(a, b scored) int {
		return cmp.Compare(a.dist, b.dist)
	})

	out := make([]geom.Tile, 0, 8)
	for _, s := range buf {
		if p.nav.InBounds(s.tile.Row, s.tile.Col) && !p.nav.IsBlocking(s.tile.Row, s.tile.Col) {
			out = append(out, s.tile)
		}
	}
	return out
}

func (p *Pathfinder) onPath(t geom.Tile) bool {
	return slices.Contains(p.path, t)
}

func (p *Pathfinder) pop() geom.Tile {
	last := p.path[len(p.path)-1]
	p.path = p.path[:len(p.path)-1]
	return last
}
