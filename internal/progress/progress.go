// Package progress implements an imperative progress controller that can be
// driven from anywhere (commands, HTTP handlers, loaders) and watched by any
// number of renderers.
package progress

import (
	"math"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/crosshair/internal/clock"
	"github.com/alexisbeaulieu97/crosshair/internal/logger"
	"github.com/alexisbeaulieu97/crosshair/internal/store"
)

const (
	// DefaultStep is applied by Increment and Decrement when no delta is given.
	DefaultStep = 10.0
	// DefaultResetDelay is how long a completed bar stays at 100 before resetting.
	DefaultResetDelay = 400 * time.Millisecond
)

// State is a snapshot of the controller.
type State struct {
	Percent float64 `json:"percent"`
	// Running is true between Start and Stop/Complete/Reset.
	Running bool `json:"running"`
	// Completed is true while a completed bar waits for its auto-reset.
	Completed bool `json:"completed"`
}

// Options configures a Controller.
type Options struct {
	Step       float64
	ResetDelay time.Duration
	Clock      clock.Clock
	Logger     *logger.Logger
}

// Controller is a progress state machine. Percent always stays within [0, 100]
// and at most one auto-reset is pending at a time.
type Controller struct {
	mu         sync.Mutex
	state      State
	step       float64
	resetDelay time.Duration
	clock      clock.Clock
	log        *logger.Logger

	resetTimer clock.Timer
	resetGen   uint64

	// seq numbers every change so listeners can drop states that arrive out
	// of order.
	seq uint64
	hub store.Hub[stamped]
}

type stamped struct {
	seq   uint64
	state State
}

// New creates a controller at 0%.
func New(opts Options) *Controller {
	c := &Controller{
		step:       opts.Step,
		resetDelay: opts.ResetDelay,
		clock:      opts.Clock,
		log:        opts.Logger,
	}
	if c.step <= 0 {
		c.step = DefaultStep
	}
	if c.resetDelay <= 0 {
		c.resetDelay = DefaultResetDelay
	}
	if c.clock == nil {
		c.clock = clock.Real()
	}
	return c
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers a listener called after every change. A listener never
// sees an older state after a newer one.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	return c.hub.Subscribe(store.Ordered(
		func(s stamped) uint64 { return s.seq },
		func(s stamped) { fn(s.state) },
	))
}

// Start resets to 0 and marks the controller as running.
func (c *Controller) Start() {
	c.apply("start", func(s *State) {
		*s = State{Running: true}
	})
}

// Stop halts progress without changing the percentage.
func (c *Controller) Stop() {
	c.apply("stop", func(s *State) {
		s.Running = false
	})
}

// Set moves to p, clamped to [0, 100].
func (c *Controller) Set(p float64) {
	c.apply("set", func(s *State) {
		s.Percent = clamp(p)
	})
}

// Increment adds delta, or the default step when delta is omitted.
func (c *Controller) Increment(delta ...float64) {
	d := c.delta(delta)
	c.apply("increment", func(s *State) {
		s.Percent = clamp(s.Percent + d)
	})
}

// Decrement subtracts delta, or the default step when delta is omitted.
func (c *Controller) Decrement(delta ...float64) {
	d := c.delta(delta)
	c.apply("decrement", func(s *State) {
		s.Percent = clamp(s.Percent - d)
	})
}

// Reset returns to 0 and cancels any pending auto-reset.
func (c *Controller) Reset() {
	c.apply("reset", func(s *State) {
		*s = State{}
	})
}

// Complete jumps to 100 and schedules a reset after the reset delay.
func (c *Controller) Complete() {
	c.mu.Lock()
	c.cancelResetLocked()
	c.state = State{Percent: 100, Completed: true}
	gen := c.resetGen
	c.resetTimer = c.clock.AfterFunc(c.resetDelay, func() {
		c.autoReset(gen)
	})
	out := c.stampLocked()
	c.mu.Unlock()

	c.log.Debug("progress completed", "reset_in", c.resetDelay.String())
	c.hub.Publish(out)
}

func (c *Controller) autoReset(gen uint64) {
	c.mu.Lock()
	if gen != c.resetGen {
		c.mu.Unlock()
		return
	}
	c.resetTimer = nil
	c.state = State{}
	out := c.stampLocked()
	c.mu.Unlock()

	c.log.Debug("progress auto-reset")
	c.hub.Publish(out)
}

func (c *Controller) apply(op string, mutate func(*State)) {
	c.mu.Lock()
	c.cancelResetLocked()
	mutate(&c.state)
	out := c.stampLocked()
	c.mu.Unlock()

	c.log.Debug("progress updated", "op", op, "percent", out.state.Percent, "running", out.state.Running)
	c.hub.Publish(out)
}

func (c *Controller) stampLocked() stamped {
	c.seq++
	return stamped{seq: c.seq, state: c.state}
}

// cancelResetLocked invalidates any pending auto-reset. Bumping the generation
// turns a timer that already fired but has not taken the lock into a no-op.
func (c *Controller) cancelResetLocked() {
	c.resetGen++
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
	c.state.Completed = false
}

func (c *Controller) delta(delta []float64) float64 {
	if len(delta) > 0 {
		return delta[0]
	}
	return c.step
}

func clamp(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return 0
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
