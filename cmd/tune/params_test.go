package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/tavern/config"
	"github.com/pthm-cable/tavern/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	cfg, err := config.Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	pv := NewParamVector(cfg)

	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("%s: round trip %v, want %v", pv.Specs[i].Name, back[i], def[i])
		}
	}

	got := pv.ExtractFromConfig(cfg)
	for i := range def {
		if got[i] != def[i] {
			t.Errorf("%s: extracted %v, want default %v", pv.Specs[i].Name, got[i], def[i])
		}
	}
}

func TestParamVectorClampAndApply(t *testing.T) {
	cfg, err := config.Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	pv := NewParamVector(cfg)

	raw := make([]float64, pv.Dim())
	for i, spec := range pv.Specs {
		raw[i] = spec.Max + 10
	}
	raw[3] = 2.6 // wander_radius

	pv.ApplyToConfig(cfg, raw)
	if cfg.Behavior.IdleWakeChance != pv.Specs[0].Max {
		t.Errorf("idle_wake_chance = %v, want %v", cfg.Behavior.IdleWakeChance, pv.Specs[0].Max)
	}
	if cfg.Behavior.WanderRadius != 3 {
		t.Errorf("wander_radius = %d, want 3", cfg.Behavior.WanderRadius)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("applied config invalid: %v", err)
	}
}

func TestLiveliness(t *testing.T) {
	busy := telemetry.WindowStats{People: 4, Moving: 4, Waypoints: 20, Entries: 3}
	stuck := telemetry.WindowStats{People: 4, Moving: 4, Idle: 0, Waypoints: 0, RouteFailRate: 1}

	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		want    float64
	}{
		{"empty", nil, 0},
		{"warmup only", []telemetry.WindowStats{busy}, 0},
		{"busy", []telemetry.WindowStats{busy, busy, busy}, 1},
		{"stuck", []telemetry.WindowStats{busy, stuck, stuck}, 0},
		{"no people", []telemetry.WindowStats{busy, {}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Liveliness(tt.windows); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Liveliness() = %v, want %v", got, tt.want)
			}
		})
	}
}
