// Package main tunes the behaviour probabilities with CMA-ES so the block
// stays lively without people stranding themselves.
package main

import (
	"math"

	"github.com/pthm-cable/tavern/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // column name in the log
	Path    string  // config path
	Min     float64 // lower bound
	Max     float64 // upper bound
	Default float64
	Integer bool    // rounded before use
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters, with
// defaults taken from base.
func NewParamVector(base *config.Config) *ParamVector {
	b := base.Behavior
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "idle_wake_chance", Path: "behavior.idle_wake_chance", Min: 0.001, Max: 0.1, Default: b.IdleWakeChance},
			{Name: "wander_to_walk_chance", Path: "behavior.wander_to_walk_chance", Min: 0.01, Max: 0.6, Default: b.WanderToWalkChance},
			{Name: "walk_to_cross_chance", Path: "behavior.walk_to_cross_chance", Min: 0.01, Max: 0.6, Default: b.WalkToCrossChance},
			{Name: "wander_radius", Path: "behavior.wander_radius", Min: 1, Max: 8, Default: float64(b.WanderRadius), Integer: true},
			{Name: "street_scan_radius", Path: "behavior.street_scan_radius", Min: 1, Max: 8, Default: float64(b.StreetScanRadius), Integer: true},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to the [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return out
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return out
}

// Clamp bounds raw values to each parameter's range and rounds integer ones.
func (pv *ParamVector) Clamp(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v := math.Max(spec.Min, math.Min(spec.Max, raw[i]))
		if spec.Integer {
			v = math.Round(v)
		}
		out[i] = v
	}
	return out
}

// ApplyToConfig writes clamped raw values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, raw []float64) {
	v := pv.Clamp(raw)
	for i, spec := range pv.Specs {
		switch spec.Path {
		case "behavior.idle_wake_chance":
			cfg.Behavior.IdleWakeChance = v[i]
		case "behavior.wander_to_walk_chance":
			cfg.Behavior.WanderToWalkChance = v[i]
		case "behavior.walk_to_cross_chance":
			cfg.Behavior.WalkToCrossChance = v[i]
		case "behavior.wander_radius":
			cfg.Behavior.WanderRadius = int(v[i])
		case "behavior.street_scan_radius":
			cfg.Behavior.StreetScanRadius = int(v[i])
		}
	}
}

// ExtractFromConfig reads the current raw values out of cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		switch spec.Path {
		case "behavior.idle_wake_chance":
			out[i] = cfg.Behavior.IdleWakeChance
		case "behavior.wander_to_walk_chance":
			out[i] = cfg.Behavior.WanderToWalkChance
		case "behavior.walk_to_cross_chance":
			out[i] = cfg.Behavior.WalkToCrossChance
		case "behavior.wander_radius":
			out[i] = float64(cfg.Behavior.WanderRadius)
		case "behavior.street_scan_radius":
			out[i] = float64(cfg.Behavior.StreetScanRadius)
		}
	}
	return out
}
