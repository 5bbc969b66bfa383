package systems

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/pthm-cable/tavern/components"
	"github.com/pthm-cable/tavern/config"
	"github.com/pthm-cable/tavern/geom"
	"github.com/pthm-cable/tavern/grid"
)

// scriptedRand replays fixed values, then returns 0.999 forever.
type scriptedRand struct {
	vals []float64
	next int
}

func (r *scriptedRand) Float64() float64 {
	if r.next >= len(r.vals) {
		return 0.999
	}
	v := r.vals[r.next]
	r.next++
	return v
}

func testBehaviorConfig() config.BehaviorConfig {
	return config.BehaviorConfig{
		IdleWakeChance:     0.01,
		WanderToWalkChance: 0.1,
		WalkToCrossChance:  0.1,
		WanderAttempts:     10,
		WanderRadius:       4,
		StreetScanRadius:   4,
		SidewalkScanRadius: 5,
	}
}

// layoutStore builds a grid from a character map:
// s sidewalk, = street, f floor, # wall, d sidewalk with a down directive.
func layoutStore(t *testing.T, rows ...string) *grid.Store {
	t.Helper()
	s, err := grid.BuildFromLayout(config.LayoutConfig{
		Rows: rows,
		Legend: map[string]config.LegendEntry{
			"s": {Terrain: "sidewalk"},
			"=": {Terrain: "street"},
			"f": {Terrain: "floor"},
			"#": {Terrain: "wall", Blocking: true},
			"d": {Terrain: "sidewalk", Trigger: "down"},
		},
	})
	if err != nil {
		t.Fatalf("BuildFromLayout: %v", err)
	}
	return s
}

type transitionLog []string

func newBehavior(s *grid.Store, rng Rand) (*PersonBehavior, *transitionLog) {
	b := NewPersonBehavior(s, NewPathfinder(s, 65), rng, testBehaviorConfig())
	log := &transitionLog{}
	b.OnTransition = func(_ *components.Person, from, to components.State) {
		*log = append(*log, from.String()+">"+to.String())
	}
	return b, log
}

func person(row, col int, state components.State) *components.Person {
	return &components.Person{
		Name:      "test",
		Tile:      geom.Tile{Row: row, Col: col},
		State:     state,
		PrevState: state,
	}
}

func TestDecideInitStepsForward(t *testing.T) {
	s := layoutStore(t, "ssss", "ssss")
	b, _ := newBehavior(s, &scriptedRand{})
	p := person(0, 0, components.StateWalking)
	p.Direction = geom.Right

	b.DecideInit(p)

	want := []geom.Tile{{0, 0}, {0, 1}, {0, 2}}
	if !slices.Equal(p.Path, want) {
		t.Errorf("path = %v, want %v", p.Path, want)
	}
	if !p.Moving {
		t.Error("person should be moving after init")
	}
}

// TestWanderingWithNoRouteGoesIdle walls a wanderer in so no random target
// within reach is usable.
func TestWanderingWithNoRouteGoesIdle(t *testing.T) {
	s := layoutStore(t,
		"#####",
		"#####",
		"##f##",
		"#####",
		"#####",
	)
	b, log := newBehavior(s, rand.New(rand.NewSource(3)))
	p := person(2, 2, components.StateWandering)

	b.DecideNext(p)

	if p.State != components.StateIdle {
		t.Errorf("state = %s, want idle", p.State)
	}
	if p.Moving || len(p.Path) != 0 {
		t.Errorf("moving = %v, path = %v; want stopped with no path", p.Moving, p.Path)
	}
	if !slices.Equal(*log, transitionLog{"wandering>idle"}) {
		t.Errorf("transitions = %v", *log)
	}
}

func TestWanderPicksReachableTarget(t *testing.T) {
	s := layoutStore(t, "ffffff", "ffffff", "ffffff", "ffffff", "ffffff", "ffffff")
	// col sign +, row sign +, col mag 2, row mag 2
	b, _ := newBehavior(s, &scriptedRand{vals: []float64{0.9, 0.9, 0.5, 0.5}})
	p := person(1, 1, components.StateWandering)

	b.DecideNext(p)

	if p.State != components.StateWandering || !p.Moving {
		t.Fatalf("state = %s moving = %v", p.State, p.Moving)
	}
	if last := p.Path[len(p.Path)-1]; last != (geom.Tile{Row: 3, Col: 3}) {
		t.Errorf("wander target = %v, want (3, 3)", last)
	}
}

func TestWalkingOnDirectiveDecides(t *testing.T) {
	s := layoutStore(t, "sds", "fff")
	b, log := newBehavior(s, &scriptedRand{})
	p := person(0, 1, components.StateWalking)
	p.Direction = geom.Right

	b.DecideNext(p)

	if p.State != components.StateDeciding {
		t.Errorf("state = %s, want deciding", p.State)
	}
	if !p.NeedsRedraw {
		t.Error("expected forced redraw flag")
	}
	if p.Direction != geom.Down {
		t.Errorf("direction = %s, want down", p.Direction)
	}
	if !slices.Equal(*log, transitionLog{"walking>deciding"}) {
		t.Errorf("transitions = %v", *log)
	}
}

func TestMidstreamDirectiveTruncatesPath(t *testing.T) {
	s := layoutStore(t, "sdss", "ffff")
	b, _ := newBehavior(s, &scriptedRand{vals: []float64{0.5}})
	p := person(0, 1, components.StateWalking)
	p.Path = []geom.Tile{{0, 1}, {0, 2}, {0, 3}}

	b.DecideMidstream(p)

	if p.State != components.StateDeciding {
		t.Errorf("state = %s, want deciding", p.State)
	}
	if len(p.Path) != 1 || p.Path[0] != p.Tile {
		t.Errorf("path = %v, want just the current tile", p.Path)
	}
}

func TestMidstreamIgnoresDirectiveRightAfterDeciding(t *testing.T) {
	s := layoutStore(t, "sdss", "ffff")
	b, _ := newBehavior(s, &scriptedRand{vals: []float64{0.5}})
	p := person(0, 1, components.StateEntering)
	p.PrevState = components.StateDeciding
	p.Path = []geom.Tile{{0, 1}, {1, 1}}

	b.DecideMidstream(p)

	if p.State != components.StateEntering || len(p.Path) != 2 {
		t.Errorf("state = %s path = %v, want unchanged", p.State, p.Path)
	}
}

func TestDecidingEntersFromStandstill(t *testing.T) {
	s := layoutStore(t, "sds", "fff")
	b, _ := newBehavior(s, &scriptedRand{})
	p := person(0, 1, components.StateDeciding)
	p.PrevState = components.StateWalking
	p.Direction = geom.Down

	b.DecideFromStandstill(p)

	if p.State != components.StateEntering || p.PrevState != components.StateDeciding {
		t.Errorf("state = %s prev = %s, want entering after deciding", p.State, p.PrevState)
	}
	want := []geom.Tile{{0, 1}, {1, 1}}
	if !slices.Equal(p.Path, want) || !p.Moving {
		t.Errorf("path = %v moving = %v, want %v moving", p.Path, p.Moving, want)
	}
}

func TestEnteringArrivalStartsWandering(t *testing.T) {
	s := layoutStore(t, "ffffff", "ffffff", "ffffff", "ffffff", "ffffff", "ffffff")
	b, log := newBehavior(s, &scriptedRand{vals: []float64{0.1, 0.1, 0.3, 0.3}})
	p := person(4, 4, components.StateEntering)
	p.PrevState = components.StateDeciding

	b.DecideNext(p)

	if p.State != components.StateWandering {
		t.Errorf("state = %s, want wandering", p.State)
	}
	if last := p.Path[len(p.Path)-1]; last != (geom.Tile{Row: 3, Col: 3}) {
		t.Errorf("wander target = %v, want (3, 3)", last)
	}
	if !slices.Equal(*log, transitionLog{"entering>wandering"}) {
		t.Errorf("transitions = %v", *log)
	}
}

func TestIdleWake(t *testing.T) {
	tests := []struct {
		name  string
		draw  float64
		woken bool
	}{
		{"below chance", 0.005, true},
		{"above chance", 0.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := layoutStore(t, "sss")
			b, _ := newBehavior(s, &scriptedRand{vals: []float64{tt.draw}})
			p := person(0, 1, components.StateIdle)

			b.DecideFromStandstill(p)

			if tt.woken {
				if p.State != components.StateWalking || !p.Moving {
					t.Errorf("state = %s moving = %v, want walking and moving", p.State, p.Moving)
				}
				if len(p.Path) != 1 || p.Path[0] != p.Tile {
					t.Errorf("path = %v, want just the current tile", p.Path)
				}
			} else if p.State != components.StateIdle || p.Moving {
				t.Errorf("state = %s moving = %v, want idle and stopped", p.State, p.Moving)
			}
		})
	}
}

func TestStandstillResumesWhenTileFrees(t *testing.T) {
	s := layoutStore(t, "sss")
	s.Author(0, 2, grid.Tile{grid.LayerTerrain: int(grid.TerrainSidewalk), grid.LayerBlocking: 101})
	b, _ := newBehavior(s, &scriptedRand{})
	p := person(0, 1, components.StateWalking)
	p.Path = []geom.Tile{{0, 1}, {0, 2}}

	b.DecideFromStandstill(p)
	if p.Moving {
		t.Fatal("resumed into an occupied tile")
	}

	s.Set(0, 2, grid.LayerBlocking, 0)
	s.Flush()
	b.DecideFromStandstill(p)
	if !p.Moving {
		t.Error("did not resume after the tile was vacated")
	}
}

func TestWalkFollowsSidewalkOrder(t *testing.T) {
	s := layoutStore(t,
		"sss",
		"ss=",
		"s==",
	)
	b, _ := newBehavior(s, &scriptedRand{})
	p := person(1, 1, components.StateWalking)

	// down is street, right is street, up is sidewalk
	b.DecideNext(p)

	want := []geom.Tile{{1, 1}, {0, 1}}
	if !slices.Equal(p.Path, want) {
		t.Errorf("path = %v, want %v", p.Path, want)
	}
	if p.State != components.StateWalking || !p.Moving {
		t.Errorf("state = %s moving = %v", p.State, p.Moving)
	}
}

func TestWalkBlockedNeighbourQueuesStep(t *testing.T) {
	s := layoutStore(t, "sss", "===")
	s.Author(0, 2, grid.Tile{grid.LayerTerrain: int(grid.TerrainSidewalk), grid.LayerBlocking: 102})
	b, _ := newBehavior(s, &scriptedRand{})
	p := person(0, 1, components.StateWalking)

	b.DecideNext(p)

	want := []geom.Tile{{0, 1}, {0, 2}}
	if !slices.Equal(p.Path, want) {
		t.Errorf("path = %v, want queued step %v", p.Path, want)
	}
	if p.Moving {
		t.Error("should wait while the sidewalk tile is occupied")
	}
	if p.State != components.StateWalking {
		t.Errorf("state = %s, want walking", p.State)
	}
}

func TestWalkWithoutSidewalkWanders(t *testing.T) {
	s := layoutStore(t,
		"fffff",
		"fffff",
		"ffsff",
		"fffff",
		"fffff",
	)
	// col sign +, row sign +, col mag 2, row mag 2
	b, log := newBehavior(s, &scriptedRand{vals: []float64{0.9, 0.9, 0.5, 0.5}})
	p := person(2, 2, components.StateWalking)

	b.DecideNext(p)

	if p.State != components.StateWandering || !p.Moving {
		t.Fatalf("state = %s moving = %v, want wandering and moving", p.State, p.Moving)
	}
	if last := p.Path[len(p.Path)-1]; last != (geom.Tile{Row: 4, Col: 4}) {
		t.Errorf("wander target = %v, want (4, 4)", last)
	}
	if !slices.Equal(*log, transitionLog{"walking>wandering"}) {
		t.Errorf("transitions = %v", *log)
	}
}

// TestWalkWithoutSidewalkOrRouteGoesIdle puts a walker on a lone tile where
// neither a sidewalk step nor a wander target exists.
func TestWalkWithoutSidewalkOrRouteGoesIdle(t *testing.T) {
	s := layoutStore(t, "###", "#f#", "###")
	b, log := newBehavior(s, &scriptedRand{})
	p := person(1, 1, components.StateWalking)

	b.DecideNext(p)

	if p.State != components.StateIdle || p.Moving {
		t.Errorf("state = %s moving = %v, want idle and stopped", p.State, p.Moving)
	}
	if !slices.Equal(*log, transitionLog{"walking>wandering", "wandering>idle"}) {
		t.Errorf("transitions = %v", *log)
	}
}

// TestIdleOffSidewalkDoesNotFlapWithWalking wakes an idle person inside a
// room. The wake leads to a wander rather than straight back to idle.
func TestIdleOffSidewalkDoesNotFlapWithWalking(t *testing.T) {
	s := layoutStore(t,
		"fffff",
		"fffff",
		"fffff",
	)
	// wake, then col sign +, row sign -, col mag 2, row mag 1
	b, log := newBehavior(s, &scriptedRand{vals: []float64{0.001, 0.9, 0.1, 0.5, 0.3}})
	p := person(1, 1, components.StateIdle)

	b.DecideFromStandstill(p)
	if p.State != components.StateWalking || !p.Moving {
		t.Fatalf("after wake state = %s moving = %v", p.State, p.Moving)
	}

	// A single-tile path counts as arrival.
	b.DecideNext(p)

	if p.State != components.StateWandering || !p.Moving {
		t.Errorf("state = %s moving = %v, want wandering and moving", p.State, p.Moving)
	}
	if last := p.Path[len(p.Path)-1]; last != (geom.Tile{Row: 0, Col: 3}) {
		t.Errorf("wander target = %v, want (0, 3)", last)
	}
	want := transitionLog{"idle>walking", "walking>wandering"}
	if !slices.Equal(*log, want) {
		t.Errorf("transitions = %v, want %v", *log, want)
	}
}

func TestCrossingStreet(t *testing.T) {
	s := layoutStore(t,
		"sss",
		"===",
		"===",
		"sss",
	)
	b, _ := newBehavior(s, &scriptedRand{})
	p := person(0, 1, components.StateCrossingStreet)
	p.PrevState = components.StateWalking

	b.DecideNext(p)

	if p.State != components.StateCrossingStreet || p.PrevState != components.StateCrossingStreet {
		t.Errorf("state = %s prev = %s", p.State, p.PrevState)
	}
	want := []geom.Tile{{0, 1}, {1, 1}, {2, 1}, {3, 1}}
	if !slices.Equal(p.Path, want) || !p.Moving {
		t.Errorf("path = %v moving = %v, want %v", p.Path, p.Moving, want)
	}
}

func TestCrossingTargetScanOrder(t *testing.T) {
	s := layoutStore(t,
		"sss==s",
		"sss==s",
		"sssss=",
	)
	b, _ := newBehavior(s, &scriptedRand{})

	// Nothing below or above; to the right the road spans columns 3-4.
	got, ok := b.crossingTarget(geom.Tile{Row: 0, Col: 2})
	if !ok || got != (geom.Tile{Row: 0, Col: 5}) {
		t.Errorf("crossingTarget = %v, %v; want (0, 5)", got, ok)
	}

	if _, ok := b.crossingTarget(geom.Tile{Row: 2, Col: 1}); ok {
		t.Error("street at the grid edge with nothing past it should not be a target")
	}
}

// TestCrossingWithoutStreetStopsThenWalks: with no street to cross, the
// person stops in place for a tick and then carries on along the sidewalk.
func TestCrossingWithoutStreetStopsThenWalks(t *testing.T) {
	s := layoutStore(t, "sss", "sss")
	b, log := newBehavior(s, &scriptedRand{})
	p := person(0, 0, components.StateCrossingStreet)
	p.PrevState = components.StateWalking

	b.DecideNext(p)

	if p.Moving {
		t.Error("moving after a failed crossing, want stopped")
	}
	if p.State != components.StateCrossingStreet || p.PrevState != components.StateCrossingStreet {
		t.Errorf("state = %s prev = %s, want crossing_street for both", p.State, p.PrevState)
	}
	if want := []geom.Tile{{0, 0}}; !slices.Equal(p.Path, want) {
		t.Errorf("path = %v, want %v", p.Path, want)
	}
	if len(*log) != 0 {
		t.Errorf("transitions = %v, want none while stopped", *log)
	}

	b.DecideFromStandstill(p)

	if p.State != components.StateWalking || !p.Moving {
		t.Errorf("state = %s moving = %v, want walking and moving", p.State, p.Moving)
	}
	if want := []geom.Tile{{0, 0}, {1, 0}}; !slices.Equal(p.Path, want) {
		t.Errorf("path = %v, want %v", p.Path, want)
	}
	if !slices.Equal(*log, transitionLog{"crossing_street>walking"}) {
		t.Errorf("transitions = %v", *log)
	}
}

func TestFinishedCrossingWalksOn(t *testing.T) {
	s := layoutStore(t, "sss", "===", "sss")
	b, _ := newBehavior(s, &scriptedRand{vals: []float64{0.5}})
	p := person(2, 1, components.StateCrossingStreet)
	p.PrevState = components.StateCrossingStreet
	p.Path = []geom.Tile{{2, 1}}

	b.DecideMidstream(p)
	if p.State != components.StateWalking || p.PrevState != components.StateCrossingStreet {
		t.Fatalf("after midstream state = %s prev = %s", p.State, p.PrevState)
	}

	p.Path = nil
	b.DecideNext(p)
	if p.State != components.StateWalking || p.PrevState != components.StateWalking {
		t.Errorf("after next state = %s prev = %s", p.State, p.PrevState)
	}
	want := []geom.Tile{{2, 1}, {2, 2}}
	if !slices.Equal(p.Path, want) {
		t.Errorf("path = %v, want %v", p.Path, want)
	}
}

func TestMidstreamChances(t *testing.T) {
	tests := []struct {
		name    string
		rows    []string
		state   components.State
		draw    float64
		want    components.State
		trimmed bool
	}{
		{"wander to walk on sidewalk", []string{"sss"}, components.StateWandering, 0.05, components.StateWalking, true},
		{"wander stays off sidewalk", []string{"fff"}, components.StateWandering, 0.05, components.StateWandering, false},
		{"wander stays above chance", []string{"sss"}, components.StateWandering, 0.5, components.StateWandering, false},
		{"walk to cross", []string{"sss"}, components.StateWalking, 0.05, components.StateCrossingStreet, true},
		{"walk stays above chance", []string{"sss"}, components.StateWalking, 0.5, components.StateWalking, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := layoutStore(t, tt.rows...)
			b, _ := newBehavior(s, &scriptedRand{vals: []float64{tt.draw}})
			p := person(0, 0, tt.state)
			p.Path = []geom.Tile{{0, 0}, {0, 1}, {0, 2}}

			b.DecideMidstream(p)

			if p.State != tt.want {
				t.Errorf("state = %s, want %s", p.State, tt.want)
			}
			if trimmed := len(p.Path) == 1; trimmed != tt.trimmed {
				t.Errorf("path = %v, trimmed = %v, want %v", p.Path, trimmed, tt.trimmed)
			}
		})
	}
}

func TestInvalidDirectiveIgnored(t *testing.T) {
	s := layoutStore(t, "sss", "===")
	s.Author(0, 1, grid.Tile{grid.LayerTerrain: int(grid.TerrainSidewalk), grid.LayerTrigger: 42})
	b, _ := newBehavior(s, &scriptedRand{})
	p := person(0, 1, components.StateWalking)

	b.DecideNext(p)

	if p.State == components.StateDeciding {
		t.Error("invalid trigger value should not start deciding")
	}
}

func TestRouteHook(t *testing.T) {
	s := layoutStore(t, "ssss")
	b, _ := newBehavior(s, &scriptedRand{})
	var outcomes []Outcome
	b.OnRoute = func(_ *components.Person, o Outcome, length int) {
		outcomes = append(outcomes, o)
	}
	p := person(0, 0, components.StateWalking)
	p.Direction = geom.Right

	b.DecideInit(p)

	if !slices.Equal(outcomes, []Outcome{OutcomeFound}) {
		t.Errorf("outcomes = %v", outcomes)
	}
}
