package i2s

import (
	"context"
	"sync/atomic"

	"codecbench/core"
)

// DefaultPollIntervalMs is how often Wait checks the running flag.
const DefaultPollIntervalMs = 1

// Engine runs an Exchange over one of the two port kinds. A polled engine
// loops in the caller's goroutine; an interrupt engine ticks from the port
// IRQ while the caller waits on the running flag.
type Engine struct {
	x      *Exchange
	polled PolledPort
	irq    IRQPort

	// PollIntervalMs is the Wait polling period.
	PollIntervalMs uint32

	state atomic.Uint32
}

// NewPolledEngine returns an engine that drives x from p by polling.
func NewPolledEngine(p PolledPort, x *Exchange) *Engine {
	return &Engine{x: x, polled: p, PollIntervalMs: DefaultPollIntervalMs}
}

// NewIRQEngine returns an engine that drives x from p's interrupt.
func NewIRQEngine(p IRQPort, x *Exchange) *Engine {
	return &Engine{x: x, irq: p, PollIntervalMs: DefaultPollIntervalMs}
}

// Exchange returns the engine's exchange context.
func (e *Engine) Exchange() *Exchange {
	return e.x
}

// State returns the life-cycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Polled reports whether this engine runs a polled port.
func (e *Engine) Polled() bool {
	return e.polled != nil
}

// Configure programs the port. It may be repeated while not running.
func (e *Engine) Configure() error {
	if e.State() == StateRunning {
		return ErrRunning
	}
	var err error
	if e.polled != nil {
		err = e.polled.Configure()
	} else {
		err = e.irq.Configure()
	}
	if err != nil {
		return err
	}
	e.state.Store(uint32(StateConfigured))
	return nil
}

func (e *Engine) ready() error {
	switch e.State() {
	case StateUninitialized:
		return ErrNotConfigured
	case StateRunning:
		return ErrRunning
	}
	return nil
}

// Run performs one complete run on either port kind and returns once the
// exchange has finished or ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	if e.polled != nil {
		return e.RunPolled(ctx)
	}
	if err := e.Start(); err != nil {
		return err
	}
	return e.Wait(ctx)
}

// RunPolled waits for each frame-sync and ticks the exchange until the run
// completes. Cancelling ctx is the only way to stop early; it is checked
// between frames.
func (e *Engine) RunPolled(ctx context.Context) error {
	if e.polled == nil {
		return ErrWrongMode
	}
	if err := e.ready(); err != nil {
		return err
	}
	e.state.Store(uint32(StateRunning))
	e.x.begin()
	defer e.state.Store(uint32(StateStopped))

	for {
		if err := ctx.Err(); err != nil {
			e.x.running.Store(false)
			return err
		}
		if err := e.polled.WaitFrame(); err != nil {
			e.x.running.Store(false)
			return err
		}
		if e.x.Tick(e.polled) {
			if core.IsDebugEnabled() {
				core.DebugPrintln("[I2S] run complete, passes=" + core.Itoa(e.x.Pass()))
			}
			return nil
		}
	}
}

// Start begins an interrupt-driven run and returns immediately.
func (e *Engine) Start() error {
	if e.irq == nil {
		return ErrWrongMode
	}
	if err := e.ready(); err != nil {
		return err
	}
	e.state.Store(uint32(StateRunning))
	e.x.begin()
	e.irq.Start(e.service)
	return nil
}

// service is the transmit FIFO interrupt handler.
func (e *Engine) service() {
	if !e.x.Running() {
		return
	}
	if e.x.Tick(e.irq) {
		e.irq.Stop()
		e.state.Store(uint32(StateStopped))
		core.DebugAsync("[I2S] run complete")
	}
}

// Stop ends an interrupt-driven run early.
func (e *Engine) Stop() {
	if e.irq == nil || e.State() != StateRunning {
		return
	}
	e.irq.Stop()
	e.x.running.Store(false)
	e.state.Store(uint32(StateStopped))
}

// Running reports whether a run is in progress.
func (e *Engine) Running() bool {
	return e.x.Running()
}

// Wait blocks until the interrupt-driven run finishes, sleeping
// PollIntervalMs between checks. If ctx ends first the run is stopped and
// ctx's error returned.
func (e *Engine) Wait(ctx context.Context) error {
	interval := e.PollIntervalMs
	if interval == 0 {
		interval = DefaultPollIntervalMs
	}
	for e.x.Running() {
		if err := ctx.Err(); err != nil {
			e.Stop()
			return err
		}
		if err := core.Delay(interval); err != nil {
			return err
		}
	}
	return nil
}
