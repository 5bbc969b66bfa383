package telemetry

import (
	"github.com/pthm-cable/tavern/components"
	"github.com/pthm-cable/tavern/systems"
)

// Census counts people by state at a point in time.
type Census struct {
	ByState [components.StateCount]int
	Moving  int
}

// Add counts one person.
func (c *Census) Add(p *components.Person) {
	if p.State < components.StateCount {
		c.ByState[p.State]++
	}
	if p.Moving {
		c.Moving++
	}
}

// Total returns the number of people counted.
func (c *Census) Total() int {
	n := 0
	for _, v := range c.ByState {
		n += v
	}
	return n
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	transitions int
	wakes       int
	byTarget    [components.StateCount]int
	waypoints   int
	routes      map[systems.Outcome]int
	pathLengths []float64
}

// NewCollector creates a new stats collector.
// windowTicks: ticks per stats window
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowTicks int, dt float32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: int32(windowTicks),
		dt:                  dt,
		routes:              make(map[systems.Outcome]int),
	}
}

// RecordTransition records a state change.
func (c *Collector) RecordTransition(from, to components.State) {
	c.transitions++
	if to < components.StateCount {
		c.byTarget[to]++
	}
	if from == components.StateIdle && to == components.StateWalking {
		c.wakes++
	}
}

// RecordRoute records one route request and, when found, its length.
func (c *Collector) RecordRoute(outcome systems.Outcome, length int) {
	c.routes[outcome]++
	if outcome == systems.OutcomeFound {
		c.pathLengths = append(c.pathLengths, float64(length))
	}
}

// RecordWaypoint records a person stepping onto a waypoint.
func (c *Collector) RecordWaypoint() {
	c.waypoints++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, census Census) WindowStats {
	requested := 0
	for _, n := range c.routes {
		requested += n
	}
	failed := c.routes[systems.OutcomeBlockedTarget] + c.routes[systems.OutcomeTooLong] + c.routes[systems.OutcomeNoRoute]
	var failRate float64
	if requested > 0 {
		failRate = float64(failed) / float64(requested)
	}

	mean, std, p50, p90, maxLen := ComputePathStats(c.pathLengths)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		People:    census.Total(),
		Moving:    census.Moving,
		Idle:      census.ByState[components.StateIdle],
		Wandering: census.ByState[components.StateWandering],
		Walking:   census.ByState[components.StateWalking],
		Crossing:  census.ByState[components.StateCrossingStreet],
		Deciding:  census.ByState[components.StateDeciding],
		Entering:  census.ByState[components.StateEntering],

		Transitions: c.transitions,
		Wakes:       c.wakes,
		Crossings:   c.byTarget[components.StateCrossingStreet],
		Entries:     c.byTarget[components.StateEntering],
		Strandings:  c.byTarget[components.StateIdle],
		Waypoints:   c.waypoints,

		RoutesRequested: requested,
		RoutesFound:     c.routes[systems.OutcomeFound],
		RoutesBlocked:   c.routes[systems.OutcomeBlockedTarget],
		RoutesNoop:      c.routes[systems.OutcomeAlreadyThere],
		RoutesTooLong:   c.routes[systems.OutcomeTooLong],
		RoutesNoRoute:   c.routes[systems.OutcomeNoRoute],
		RouteFailRate:   failRate,

		PathLenMean: mean,
		PathLenStd:  std,
		PathLenP50:  p50,
		PathLenP90:  p90,
		PathLenMax:  maxLen,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.transitions = 0
	c.wakes = 0
	c.byTarget = [components.StateCount]int{}
	c.waypoints = 0
	clear(c.routes)
	c.pathLengths = c.pathLengths[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
