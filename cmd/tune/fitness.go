package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/tavern/config"
	"github.com/pthm-cable/tavern/game"
	"github.com/pthm-cable/tavern/telemetry"
)

// Score component weights.
const (
	weightMoving  = 0.5
	weightEntries = 0.2
	weightRoutes  = 0.3

	warmupWindows   = 1 // skip the first N windows
	entriesPerScore = 3 // entries per window that count as a full tavern score
	stuckPenalty    = 0.5
)

// FitnessEvaluator runs headless simulations and scores how lively they are.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config

	mu        sync.Mutex
	bestScore float64
	lastScore float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
		bestScore:  math.Inf(-1),
	}
}

// LastScore returns the liveliness score of the most recent evaluation.
func (fe *FitnessEvaluator) LastScore() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastScore
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Seeds run in parallel; each run owns its world, grid and config copy.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	scores := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows, err := fe.runSimulation(x, s)
			if err != nil {
				scores[idx] = 0
				return
			}
			scores[idx] = Liveliness(windows)
		}(i, seed)
	}
	wg.Wait()

	score := stat.Mean(scores, nil)

	fe.mu.Lock()
	fe.lastScore = score
	if score > fe.bestScore {
		fe.bestScore = score
	}
	fe.mu.Unlock()

	return -score
}

// runSimulation executes one headless run and returns its flushed windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) ([]telemetry.WindowStats, error) {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	g, err := game.NewGame(game.Options{
		Config:         cfg,
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: 1,
	})
	if err != nil {
		return nil, err
	}
	defer g.Unload()

	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(s telemetry.WindowStats) {
		windows = append(windows, s)
	})
	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}
	return windows, nil
}

// copyConfig returns a config whose tunable sections can be changed without
// touching the base. Layout and roster are shared read-only.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// Liveliness scores a run in [0, 1]: people on the move, visits to the
// tavern and routes that succeed all raise it, windows where the block
// locks up lower it.
func Liveliness(windows []telemetry.WindowStats) float64 {
	if len(windows) <= warmupWindows {
		return 0
	}

	var moving, entries, routes []float64
	stuck := 0
	for _, w := range windows[warmupWindows:] {
		if w.People == 0 {
			continue
		}
		moving = append(moving, float64(w.Moving)/float64(w.People))
		entries = append(entries, math.Min(float64(w.Entries)/entriesPerScore, 1))
		routes = append(routes, 1-w.RouteFailRate)
		if w.Waypoints == 0 && w.Idle < w.People {
			stuck++
		}
	}
	if len(moving) == 0 {
		return 0
	}

	score := weightMoving*stat.Mean(moving, nil) +
		weightEntries*stat.Mean(entries, nil) +
		weightRoutes*stat.Mean(routes, nil)
	score -= stuckPenalty * float64(stuck) / float64(len(moving))
	return clamp01(score)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
