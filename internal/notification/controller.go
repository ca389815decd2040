// Package notification drives the on-screen submission progress indicator as
// a finite state machine: idle → entering → active → exiting → idle. The
// transient stages are time-boxed through the clock abstraction; the
// rendering layer only observes state snapshots.
package notification

import (
	"sync"
	"time"

	"github.com/Tykillita/LaCocinadeAnitaMenu/pkg/clock"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindLoading Kind = "loading"
)

type Stage string

const (
	StageIdle     Stage = "idle"
	StageEntering Stage = "entering"
	StageActive   Stage = "active"
	StageExiting  Stage = "exiting"
)

// Transition delays, matching the visual settle times of the popup.
const (
	SettleDelay   = 600 * time.Millisecond
	SwapDelay     = 200 * time.Millisecond
	ResettleDelay = 300 * time.Millisecond
	ExitDelay     = 400 * time.Millisecond
)

type State struct {
	Visible bool
	Message string
	Kind    Kind
	Stage   Stage
}

// Controller owns the notification lifecycle. Transitions are sequential:
// a new Show or Update pre-empts whatever timer is in flight and restarts
// timing, so there are never two concurrent cycles.
type Controller struct {
	mu       sync.Mutex
	clk      clock.Clock
	state    State
	timer    clock.Timer
	gen      uint64
	observer func(State)
}

func NewController(clk clock.Clock) *Controller {
	return &Controller{clk: clk, state: State{Stage: StageIdle}}
}

// OnChange registers a callback invoked with a state snapshot after every
// transition. It runs outside the controller lock and must not block.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	c.observer = fn
	c.mu.Unlock()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Visible
}

// Show starts a new cycle with the given content, interrupting any cycle in
// flight. The notification settles into the active stage after SettleDelay.
func (c *Controller) Show(message string, kind Kind) {
	c.mu.Lock()
	c.state = State{Visible: true, Message: message, Kind: kind, Stage: StageEntering}
	c.schedule(SettleDelay, func() {
		c.state.Stage = StageActive
	})
	c.emit(c.unlockSnapshot())
}

// Update swaps the content of a visible notification: back to entering,
// content replaced after SwapDelay, active again after ResettleDelay. Called
// while hidden it behaves as Show.
func (c *Controller) Update(message string, kind Kind) {
	c.mu.Lock()
	if !c.state.Visible {
		c.mu.Unlock()
		c.Show(message, kind)
		return
	}
	c.state.Stage = StageEntering
	c.schedule(SwapDelay, func() {
		c.state.Message = message
		c.state.Kind = kind
		c.schedule(ResettleDelay, func() {
			c.state.Stage = StageActive
		})
	})
	c.emit(c.unlockSnapshot())
}

// Hide starts the exit transition; after ExitDelay the controller is idle
// and the content is cleared. Hidden controllers ignore the call.
func (c *Controller) Hide() {
	c.mu.Lock()
	if !c.state.Visible {
		c.mu.Unlock()
		return
	}
	c.state.Stage = StageExiting
	c.schedule(ExitDelay, func() {
		c.state = State{Stage: StageIdle}
	})
	c.emit(c.unlockSnapshot())
}

// Dismiss is the manual close affordance. Only error notifications expose
// it; success and loading are system-driven and ignore the call.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	dismissable := c.state.Visible && c.state.Kind == KindError
	c.mu.Unlock()
	if dismissable {
		c.Hide()
	}
}

// schedule replaces the pending transition timer. fn runs under the lock and
// only if no newer transition pre-empted it. Caller must hold c.mu.
func (c *Controller) schedule(d time.Duration, fn func()) {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.timer = c.clk.AfterFunc(d, func() {
		c.mu.Lock()
		if c.gen != gen {
			c.mu.Unlock()
			return
		}
		fn()
		c.emit(c.unlockSnapshot())
	})
}

// unlockSnapshot copies the state, releases the lock and returns the copy.
// Caller must hold c.mu.
func (c *Controller) unlockSnapshot() State {
	st := c.state
	c.mu.Unlock()
	return st
}

func (c *Controller) emit(st State) {
	c.mu.Lock()
	obs := c.observer
	c.mu.Unlock()
	if obs != nil {
		obs(st)
	}
}
