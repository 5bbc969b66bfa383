package game

import "github.com/pthm-cable/tavern/config"

// Options configures a Game.
type Options struct {
	Config         *config.Config // nil uses config.Cfg()
	Seed           int64
	LogStats       bool
	OutputDir      string
	Headless       bool
	StepsPerUpdate int // ticks per UpdateHeadless call
}
