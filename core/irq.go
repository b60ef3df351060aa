package core

import "sync/atomic"

// Line is the hardware side of an interrupt: the NVIC enable bit on a real
// target, nothing at all in simulation.
type Line interface {
	Enable()
	Disable()
}

// IRQ owns one interrupt handler. The handler runs with exclusive access to
// whatever state it was registered with and is never reentered: a Fire that
// arrives while the handler is still running is dropped and counted.
type IRQ struct {
	handler func()
	line    Line
	enabled atomic.Bool
	active  atomic.Bool
	fired   atomic.Uint32
	dropped atomic.Uint32
}

// NewIRQ returns a disabled IRQ that will invoke handler once enabled.
func NewIRQ(handler func()) *IRQ {
	return &IRQ{handler: handler}
}

// SetHandler replaces the handler. Only valid while the IRQ is disabled.
func (q *IRQ) SetHandler(handler func()) {
	q.handler = handler
}

// SetLine attaches the hardware interrupt line toggled by Enable/Disable.
func (q *IRQ) SetLine(l Line) {
	q.line = l
}

// Enable unmasks the interrupt.
func (q *IRQ) Enable() {
	q.enabled.Store(true)
	if q.line != nil {
		q.line.Enable()
	}
}

// Disable masks the interrupt. A handler already running finishes its tick.
func (q *IRQ) Disable() {
	if q.line != nil {
		q.line.Disable()
	}
	q.enabled.Store(false)
}

// Enabled reports whether the interrupt is unmasked.
func (q *IRQ) Enabled() bool {
	return q.enabled.Load()
}

// Fire delivers one interrupt and reports whether the handler ran.
func (q *IRQ) Fire() bool {
	if !q.enabled.Load() || q.handler == nil {
		return false
	}
	if !q.active.CompareAndSwap(false, true) {
		q.dropped.Add(1)
		RecordEvent(EvtIRQDropped, q.dropped.Load(), 0)
		return false
	}
	q.handler()
	q.active.Store(false)
	q.fired.Add(1)
	return true
}

// Fired returns how many times the handler has run.
func (q *IRQ) Fired() uint32 {
	return q.fired.Load()
}

// Dropped returns how many reentrant deliveries were discarded.
func (q *IRQ) Dropped() uint32 {
	return q.dropped.Load()
}
