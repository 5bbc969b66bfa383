// Package game wires the grid, pathfinder, behaviour and movement systems
// into a frame-driven simulation of people walking around a tavern block.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tavern/camera"
	"github.com/pthm-cable/tavern/components"
	"github.com/pthm-cable/tavern/config"
	"github.com/pthm-cable/tavern/grid"
	"github.com/pthm-cable/tavern/inspector"
	"github.com/pthm-cable/tavern/systems"
	"github.com/pthm-cable/tavern/telemetry"
	"github.com/pthm-cable/tavern/ui"
)

// Game holds the complete simulation state.
type Game struct {
	cfg     *config.Config
	world   *ecs.World
	rng     *rand.Rand
	rngSeed int64

	// One archetype: every person has a position, a person and a sprite.
	personMapper *ecs.Map3[components.Position, components.Person, components.Sprite]
	personFilter *ecs.Filter3[components.Position, components.Person, components.Sprite]
	personMap    *ecs.Map[components.Person]
	posMap       *ecs.Map[components.Position]

	grid       *grid.Store
	pathfinder *systems.Pathfinder
	behavior   *systems.PersonBehavior
	movement   *systems.MovementSystem

	// Telemetry
	collector        *telemetry.Collector
	profiler         *telemetry.TickProfiler
	bookmarkDetector *telemetry.BookmarkDetector
	personTracker    *telemetry.PersonTracker
	outputManager    *telemetry.OutputManager
	logStats         bool
	statsCallback    func(telemetry.WindowStats)

	// Viewer
	camera         *camera.Camera
	hud            *ui.HUD
	inspector      *inspector.Inspector
	selectedEntity ecs.Entity
	hasSelection   bool

	// State
	tick           int32
	paused         bool
	stepsPerFrame  int // windowed speed multiplier
	stepsPerUpdate int // headless ticks per UpdateHeadless
	headless       bool
}

// NewGame builds the grid from the configured layout and spawns the roster.
func NewGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	store, err := grid.BuildFromLayout(cfg.Layout)
	if err != nil {
		return nil, fmt.Errorf("building grid: %w", err)
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:            cfg,
		world:          world,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		rngSeed:        opts.Seed,
		personMapper:   ecs.NewMap3[components.Position, components.Person, components.Sprite](world),
		personFilter:   ecs.NewFilter3[components.Position, components.Person, components.Sprite](world),
		personMap:      ecs.NewMap[components.Person](world),
		posMap:         ecs.NewMap[components.Position](world),
		grid:           store,
		logStats:       opts.LogStats,
		headless:       opts.Headless,
		stepsPerFrame:  1,
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
	}

	g.pathfinder = systems.NewPathfinder(store, cfg.Pathfinding.MaxLength)
	g.behavior = systems.NewPersonBehavior(store, g.pathfinder, g.rng, cfg.Behavior)
	g.movement = systems.NewMovementSystem(g.behavior, store,
		cfg.Derived.TileSize32, cfg.Derived.Speed32, cfg.Derived.ArrivalDist, cfg.Movement.AnimationCycle)

	dt := float32(1) / float32(max(cfg.Screen.TargetFPS, 1))
	g.collector = telemetry.NewCollector(cfg.Telemetry.StatsWindow, dt)
	g.profiler = telemetry.NewTickProfiler(cfg.Telemetry.PerfCollectorWindow)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10)
	g.personTracker = telemetry.NewPersonTracker()

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		g.outputManager.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	g.installTelemetryHooks()

	if err := g.spawnRoster(); err != nil {
		g.outputManager.Close()
		return nil, err
	}

	if !opts.Headless {
		tile := cfg.Derived.TileSize32
		g.camera = camera.New(float32(cfg.Screen.Width), float32(cfg.Screen.Height),
			float32(store.Cols())*tile, float32(store.Rows())*tile)
		g.hud = ui.NewHUD()
		g.inspector = inspector.NewInspector(int32(cfg.Screen.Width), int32(cfg.Screen.Height))
	}

	slog.Info("game created",
		"seed", opts.Seed,
		"rows", store.Rows(),
		"cols", store.Cols(),
		"people", len(cfg.People),
	)
	return g, nil
}

// SetStatsCallback registers a function called with every flushed window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// Grid exposes the tile store for read-only use by tools and tests.
func (g *Game) Grid() *grid.Store {
	return g.grid
}

// Unload writes the per-person summary and closes telemetry output.
func (g *Game) Unload() {
	if err := g.outputManager.WritePeople(g.personTracker.All()); err != nil {
		slog.Error("failed to write people", "error", err)
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
