package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one stage of a simulation tick.
type Phase int

const (
	PhaseFlush      Phase = iota // apply queued occupancy writes
	PhaseStandstill              // decide for people standing still
	PhaseMoving                  // advance moving people
	PhaseRedraw                  // refresh sprite frames
	PhaseTelemetry               // observe people, flush windows
	numPhases
)

var phaseNames = [numPhases]string{
	PhaseFlush:      "flush",
	PhaseStandstill: "standstill",
	PhaseMoving:     "moving",
	PhaseRedraw:     "redraw",
	PhaseTelemetry:  "telemetry",
}

func (ph Phase) String() string {
	if ph < 0 || ph >= numPhases {
		return "unknown"
	}
	return phaseNames[ph]
}

// TickCounts is the work a single tick did.
type TickCounts struct {
	GridWrites int // occupancy writes applied by the flush
	Standstill int // people handled by the standstill pass
	Moving     int // people handled by the moving pass
	Routes     int // pathfinder calls
	Redrawn    int // sprites whose frame changed
}

func (c *TickCounts) add(o TickCounts) {
	c.GridWrites += o.GridWrites
	c.Standstill += o.Standstill
	c.Moving += o.Moving
	c.Routes += o.Routes
	c.Redrawn += o.Redrawn
}

type tickSample struct {
	total  time.Duration
	phases [numPhases]time.Duration
	counts TickCounts
}

// TickProfiler keeps phase timings and work counts for the last N ticks.
// The tick loop calls Begin, Enter for each phase, and End. Counts for the
// tick in progress are filled through Counts.
type TickProfiler struct {
	ring  []tickSample
	next  int
	count int

	cur        tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration
}

// NewTickProfiler returns a profiler averaging over window ticks.
func NewTickProfiler(window int) *TickProfiler {
	if window < 1 {
		window = 60
	}
	return &TickProfiler{ring: make([]tickSample, window)}
}

// Begin starts a tick.
func (p *TickProfiler) Begin() {
	p.cur = tickSample{}
	p.tickStart = time.Now()
	p.inPhase = false
}

// Enter closes the running phase, if any, and starts ph.
func (p *TickProfiler) Enter(ph Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase = ph
	p.phaseStart = now
	p.inPhase = true
}

func (p *TickProfiler) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// Counts returns the counters of the tick in progress.
func (p *TickProfiler) Counts() *TickCounts {
	return &p.cur.counts
}

// End closes the tick and stores it in the window.
func (p *TickProfiler) End() {
	now := time.Now()
	p.closePhase(now)
	p.inPhase = false
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// RecordFrame marks a rendered frame.
func (p *TickProfiler) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarises the ticks in the window.
type PerfStats struct {
	Ticks   int
	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration

	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64

	// Per-tick means of TickCounts.
	GridWritesPerTick float64
	StandstillPerTick float64
	MovingPerTick     float64
	RoutesPerTick     float64
	RedrawnPerTick    float64
	PeakRoutes        int

	TicksPerSecond float64
	FrameDuration  time.Duration
	FPS            float64
}

// Stats summarises the current window.
func (p *TickProfiler) Stats() PerfStats {
	s := PerfStats{Ticks: p.count, FrameDuration: p.frame}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	var total time.Duration
	var phases [numPhases]time.Duration
	var counts TickCounts
	for i, smp := range p.ring[:p.count] {
		total += smp.total
		if i == 0 || smp.total < s.MinTick {
			s.MinTick = smp.total
		}
		s.MaxTick = max(s.MaxTick, smp.total)
		for ph, d := range smp.phases {
			phases[ph] += d
		}
		counts.add(smp.counts)
		s.PeakRoutes = max(s.PeakRoutes, smp.counts.Routes)
	}

	n := time.Duration(p.count)
	s.AvgTick = total / n
	for ph := range phases {
		s.PhaseAvg[ph] = phases[ph] / n
		if s.AvgTick > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTick) * 100
		}
	}
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}

	perTick := func(v int) float64 { return float64(v) / float64(p.count) }
	s.GridWritesPerTick = perTick(counts.GridWrites)
	s.StandstillPerTick = perTick(counts.Standstill)
	s.MovingPerTick = perTick(counts.Moving)
	s.RoutesPerTick = perTick(counts.Routes)
	s.RedrawnPerTick = perTick(counts.Redrawn)
	return s
}

// LogStats logs the window summary at info level.
func (s PerfStats) LogStats() {
	attrs := []any{
		"ticks", s.Ticks,
		"avg_tick_us", s.AvgTick.Microseconds(),
		"max_tick_us", s.MaxTick.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
		"routes_per_tick", s.RoutesPerTick,
		"peak_routes", s.PeakRoutes,
		"moving_per_tick", s.MovingPerTick,
		"standstill_per_tick", s.StandstillPerTick,
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for ph, pct := range s.PhasePct {
		if pct > 0.1 {
			attrs = append(attrs, Phase(ph).String()+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd         int32   `csv:"window_end"`
	Ticks             int     `csv:"ticks"`
	AvgTickUS         int64   `csv:"avg_tick_us"`
	MinTickUS         int64   `csv:"min_tick_us"`
	MaxTickUS         int64   `csv:"max_tick_us"`
	TicksPerSec       float64 `csv:"ticks_per_sec"`
	FPS               float64 `csv:"fps"`
	FlushPct          float64 `csv:"flush_pct"`
	StandstillPct     float64 `csv:"standstill_pct"`
	MovingPct         float64 `csv:"moving_pct"`
	RedrawPct         float64 `csv:"redraw_pct"`
	TelemetryPct      float64 `csv:"telemetry_pct"`
	GridWritesPerTick float64 `csv:"grid_writes_per_tick"`
	StandstillPerTick float64 `csv:"standstill_per_tick"`
	MovingPerTick     float64 `csv:"moving_per_tick"`
	RoutesPerTick     float64 `csv:"routes_per_tick"`
	PeakRoutes        int     `csv:"peak_routes"`
	RedrawnPerTick    float64 `csv:"redrawn_per_tick"`
}

// ToCSV flattens s into a perf.csv row for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:         windowEnd,
		Ticks:             s.Ticks,
		AvgTickUS:         s.AvgTick.Microseconds(),
		MinTickUS:         s.MinTick.Microseconds(),
		MaxTickUS:         s.MaxTick.Microseconds(),
		TicksPerSec:       s.TicksPerSecond,
		FPS:               s.FPS,
		FlushPct:          s.PhasePct[PhaseFlush],
		StandstillPct:     s.PhasePct[PhaseStandstill],
		MovingPct:         s.PhasePct[PhaseMoving],
		RedrawPct:         s.PhasePct[PhaseRedraw],
		TelemetryPct:      s.PhasePct[PhaseTelemetry],
		GridWritesPerTick: s.GridWritesPerTick,
		StandstillPerTick: s.StandstillPerTick,
		MovingPerTick:     s.MovingPerTick,
		RoutesPerTick:     s.RoutesPerTick,
		PeakRoutes:        s.PeakRoutes,
		RedrawnPerTick:    s.RedrawnPerTick,
	}
}
