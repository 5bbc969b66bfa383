// Route probe tool - prints the layout with one pathfinder route overlaid.
//
// Usage: go run ./cmd/routeprobe -from 6,8 -to 1,0
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pthm-cable/tavern/config"
	"github.com/pthm-cable/tavern/geom"
	"github.com/pthm-cable/tavern/grid"
	"github.com/pthm-cable/tavern/systems"
)

var terrainGlyphs = map[grid.Terrain]byte{
	grid.TerrainUnknown:  '?',
	grid.TerrainSidewalk: '.',
	grid.TerrainMedian:   '-',
	grid.TerrainStreet:   '=',
	grid.TerrainDoor:     'D',
	grid.TerrainFloor:    ',',
	grid.TerrainWall:     '#',
	grid.TerrainGrass:    '"',
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	from := flag.String("from", "6,8", "Start tile as row,col")
	to := flag.String("to", "1,0", "Target tile as row,col")
	flag.Parse()

	if err := run(os.Stdout, *configPath, *from, *to); err != nil {
		slog.Error("route probe failed", "error", err)
		os.Exit(1)
	}
}

func run(w io.Writer, configPath, from, to string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	start, err := parseTile(from)
	if err != nil {
		return fmt.Errorf("-from: %w", err)
	}
	target, err := parseTile(to)
	if err != nil {
		return fmt.Errorf("-to: %w", err)
	}

	store, err := grid.BuildFromLayout(cfg.Layout)
	if err != nil {
		return fmt.Errorf("building grid: %w", err)
	}
	pf := systems.NewPathfinder(store, cfg.Pathfinding.MaxLength)
	path := pf.ShortestPath(start, target)

	fmt.Fprintf(w, "%s -> %s: %s, %d tiles\n", start, target, pf.LastOutcome(), len(path))
	fmt.Fprint(w, Render(store, path))
	return nil
}

// Render draws the terrain as one glyph per tile with the route marked.
// The start is 'S', the target 'T' and the tiles between them '*'.
func Render(store *grid.Store, path []geom.Tile) string {
	rows := make([][]byte, store.Rows())
	for r := range rows {
		rows[r] = make([]byte, store.Cols())
		for c := range rows[r] {
			rows[r][c] = terrainGlyphs[store.Terrain(r, c)]
		}
	}
	for i, t := range path {
		if !store.InBounds(t.Row, t.Col) {
			continue
		}
		switch i {
		case 0:
			rows[t.Row][t.Col] = 'S'
		case len(path) - 1:
			rows[t.Row][t.Col] = 'T'
		default:
			rows[t.Row][t.Col] = '*'
		}
	}

	var b strings.Builder
	for _, row := range rows {
		b.Write(row)
		b.WriteByte('\n')
	}
	return b.String()
}

func parseTile(s string) (geom.Tile, error) {
	rs, cs, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Tile{}, fmt.Errorf("want row,col, got %q", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return geom.Tile{}, fmt.Errorf("row: %w", err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(cs))
	if err != nil {
		return geom.Tile{}, fmt.Errorf("col: %w", err)
	}
	return geom.Tile{Row: row, Col: col}, nil
}
