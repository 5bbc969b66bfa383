package game

import (
	"context"

	"golang.org/x/time/rate"
)

// FrameScheduler calls a frame function at a fixed rate. Each call re-arms
// the next one; cancelling the context drops the pending frame but never
// interrupts a frame in progress.
type FrameScheduler struct {
	limiter *rate.Limiter
	frame   func()
}

// NewFrameScheduler creates a scheduler running frame fps times a second.
func NewFrameScheduler(fps int, frame func()) *FrameScheduler {
	if fps < 1 {
		fps = 60
	}
	return &FrameScheduler{
		limiter: rate.NewLimiter(rate.Limit(fps), 1),
		frame:   frame,
	}
}

// Run blocks until ctx is cancelled and returns the context's error.
func (s *FrameScheduler) Run(ctx context.Context) error {
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		s.frame()
	}
}

// Update advances a windowed game by one frame: input, then as many ticks
// as the speed multiplier asks for unless paused.
func (g *Game) Update() {
	g.profiler.RecordFrame()
	g.handleInput()

	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerFrame; i++ {
		g.Step()
	}
}

// UpdateHeadless advances the simulation without any graphics calls.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}
