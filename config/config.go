// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// MaxPathCap bounds pathfinding.max_length. The route search recurses once
// per waypoint, so this is also its stack depth limit.
const MaxPathCap = 4096

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Grid        GridConfig        `yaml:"grid"`
	Movement    MovementConfig    `yaml:"movement"`
	Pathfinding PathfindingConfig `yaml:"pathfinding"`
	Behavior    BehaviorConfig    `yaml:"behavior"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Layout      LayoutConfig      `yaml:"layout"`
	People      []PersonConfig    `yaml:"people"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// GridConfig holds tile geometry.
type GridConfig struct {
	TileSize float64 `yaml:"tile_size"` // pixels per tile edge
}

// MovementConfig holds per-tick movement parameters.
type MovementConfig struct {
	Speed            float64 `yaml:"speed"`             // pixels per tick along each moving axis
	ArrivalTolerance float64 `yaml:"arrival_tolerance"` // added to speed for the arrival radius
	AnimationCycle   int     `yaml:"animation_cycle"`   // frames in one walk cycle
}

// PathfindingConfig holds route search limits.
type PathfindingConfig struct {
	MaxLength int `yaml:"max_length"` // routes reaching this many tiles are abandoned
}

// BehaviorConfig holds the state machine tunables.
type BehaviorConfig struct {
	IdleWakeChance     float64 `yaml:"idle_wake_chance"`      // per standstill tick, Idle -> Walking
	WanderToWalkChance float64 `yaml:"wander_to_walk_chance"` // per waypoint on a sidewalk
	WalkToCrossChance  float64 `yaml:"walk_to_cross_chance"`  // per waypoint while Walking
	WanderAttempts     int     `yaml:"wander_attempts"`
	WanderRadius       int     `yaml:"wander_radius"`
	StreetScanRadius   int     `yaml:"street_scan_radius"`
	SidewalkScanRadius int     `yaml:"sidewalk_scan_radius"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// LayoutConfig describes the tile grid as a character map.
// Every rune in Rows must have an entry in Legend.
type LayoutConfig struct {
	Rows   []string               `yaml:"rows"`
	Legend map[string]LegendEntry `yaml:"legend"`
}

// LegendEntry defines the layers produced by one layout glyph.
type LegendEntry struct {
	Terrain  string `yaml:"terrain"`
	Blocking bool   `yaml:"blocking"`
	Trigger  string `yaml:"trigger"` // direction name to face on entering, empty for none
	Visual   int    `yaml:"visual"`
}

// PersonConfig describes one roster entry.
type PersonConfig struct {
	Name      string   `yaml:"name"`
	Row       int      `yaml:"row"`
	Col       int      `yaml:"col"`
	State     string   `yaml:"state"`
	Direction string   `yaml:"direction"`
	Frames    [][2]int `yaml:"frames"` // six sprite sheet offsets: three down-facing, three up-facing
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TileSize32  float32 // Grid.TileSize as float32
	Speed32     float32 // Movement.Speed as float32
	ArrivalDist float32 // Speed + ArrivalTolerance
	GridRows    int     // len(Layout.Rows)
	GridCols    int     // widest layout row, in runes
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Parse(nil)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return parseOver(cfg, data)
}

// Parse builds a config from the embedded defaults with data (if any)
// merged over them. Fields absent from data keep their default values.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if len(data) == 0 {
		cfg.computeDerived()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return parseOver(cfg, data)
}

func parseOver(cfg *Config, data []byte) (*Config, error) {
	// Unmarshal into same struct - only overwrites fields present in data
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.computeDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TileSize32 = float32(c.Grid.TileSize)
	c.Derived.Speed32 = float32(c.Movement.Speed)
	c.Derived.ArrivalDist = float32(c.Movement.Speed + c.Movement.ArrivalTolerance)

	c.Derived.GridRows = len(c.Layout.Rows)
	c.Derived.GridCols = 0
	for _, row := range c.Layout.Rows {
		if n := len([]rune(row)); n > c.Derived.GridCols {
			c.Derived.GridCols = n
		}
	}

	if c.Movement.AnimationCycle <= 0 {
		c.Movement.AnimationCycle = 40
	}
}

// Validate checks numeric ranges. Layout glyphs and roster names are
// checked where they are interpreted (grid and game packages).
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Grid.TileSize <= 0 {
		bad("grid.tile_size must be positive, got %v", c.Grid.TileSize)
	}
	if c.Movement.Speed <= 0 {
		bad("movement.speed must be positive, got %v", c.Movement.Speed)
	}
	if c.Movement.ArrivalTolerance < 0 {
		bad("movement.arrival_tolerance must not be negative, got %v", c.Movement.ArrivalTolerance)
	}
	if c.Movement.Speed >= c.Grid.TileSize/2 {
		bad("movement.speed %v must be below half a tile (%v)", c.Movement.Speed, c.Grid.TileSize/2)
	}
	if c.Pathfinding.MaxLength < 2 || c.Pathfinding.MaxLength > MaxPathCap {
		bad("pathfinding.max_length must be in [2, %d], got %d", MaxPathCap, c.Pathfinding.MaxLength)
	}

	for name, p := range map[string]float64{
		"behavior.idle_wake_chance":      c.Behavior.IdleWakeChance,
		"behavior.wander_to_walk_chance": c.Behavior.WanderToWalkChance,
		"behavior.walk_to_cross_chance":  c.Behavior.WalkToCrossChance,
	} {
		if p < 0 || p > 1 {
			bad("%s must be in [0, 1], got %v", name, p)
		}
	}
	for name, n := range map[string]int{
		"behavior.wander_attempts":      c.Behavior.WanderAttempts,
		"behavior.wander_radius":        c.Behavior.WanderRadius,
		"behavior.street_scan_radius":   c.Behavior.StreetScanRadius,
		"behavior.sidewalk_scan_radius": c.Behavior.SidewalkScanRadius,
	} {
		if n <= 0 {
			bad("%s must be positive, got %d", name, n)
		}
	}

	if c.Telemetry.StatsWindow <= 0 {
		bad("telemetry.stats_window must be positive, got %d", c.Telemetry.StatsWindow)
	}
	if c.Derived.GridRows == 0 {
		bad("layout.rows is empty")
	}
	for i, row := range c.Layout.Rows {
		if n := len([]rune(row)); n != c.Derived.GridCols {
			bad("layout row %d has %d tiles, want %d", i, n, c.Derived.GridCols)
		}
	}
	for i, p := range c.People {
		if p.Name == "" {
			bad("people[%d] has no name", i)
		}
		if p.Row < 0 || p.Row >= c.Derived.GridRows || p.Col < 0 || p.Col >= c.Derived.GridCols {
			bad("people[%d] %q starts outside the layout at (%d, %d)", i, p.Name, p.Row, p.Col)
		}
		if len(p.Frames) != 0 && len(p.Frames) != 6 {
			bad("people[%d] %q needs 6 sprite frames, got %d", i, p.Name, len(p.Frames))
		}
	}

	return errors.Join(errs...)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
