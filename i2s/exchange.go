package i2s

import (
	"sync/atomic"

	"codecbench/core"
)

// Config sizes an Exchange.
type Config struct {
	// Table is the transmit waveform, 24-bit samples, played on a loop.
	Table []int32
	// CaptureLen is the length of each capture buffer.
	CaptureLen int
	// Runs is the number of capture passes kept after the warm-up pass.
	Runs int
	// Channel is the output channel; the other channel sends zeros.
	Channel Channel
	// Accumulate sums every kept pass into the buffers instead of keeping
	// only the last one.
	Accumulate bool
}

// Exchange is the state of one loopback test: indices, pass counter,
// capture buffers and the running flag. While running it is owned by
// whoever calls Tick (the interrupt handler on the Kinetis board); other
// code may only read Running and, after it goes false, the buffers.
type Exchange struct {
	table      []int32
	left       []int32
	right      []int32
	runs       int
	channel    Channel
	accumulate bool

	txIdx int
	rxIdx int
	pass  int // completed capture passes, the warm-up pass included
	ticks uint32

	running atomic.Bool
}

// NewExchange allocates the capture buffers for cfg.
func NewExchange(cfg Config) (*Exchange, error) {
	if len(cfg.Table) == 0 {
		return nil, ErrEmptyTable
	}
	if cfg.CaptureLen <= 0 {
		return nil, ErrBadCapture
	}
	if cfg.Runs <= 0 {
		return nil, ErrBadRuns
	}
	return &Exchange{
		table:      cfg.Table,
		left:       make([]int32, cfg.CaptureLen),
		right:      make([]int32, cfg.CaptureLen),
		runs:       cfg.Runs,
		channel:    cfg.Channel,
		accumulate: cfg.Accumulate,
	}, nil
}

// Reset zeroes the buffers and every index. It must not be called while
// running.
func (x *Exchange) Reset() {
	for i := range x.left {
		x.left[i] = 0
		x.right[i] = 0
	}
	x.txIdx = 0
	x.rxIdx = 0
	x.pass = 0
	x.ticks = 0
}

// SetChannel selects the output channel for the next run.
func (x *Exchange) SetChannel(ch Channel) {
	x.channel = ch
}

// Channel returns the output channel.
func (x *Exchange) Channel() Channel {
	return x.channel
}

// begin marks the exchange running.
func (x *Exchange) begin() {
	x.running.Store(true)
	core.RecordEvent(core.EvtExchangeBeg, uint32(x.channel), uint32(len(x.left)))
}

// Tick runs one frame: send the next table sample on the selected channel
// and zero on the other, drain both receive slots, keep the received pair
// unless this is the warm-up pass, then advance both indices. It returns
// true once the warm-up pass and Runs kept passes are complete, at which
// point Running reports false.
func (x *Exchange) Tick(p FrameIO) bool {
	out := ToSlot(x.table[x.txIdx])
	if x.channel == Right {
		p.WriteFrame(0, out)
	} else {
		p.WriteFrame(out, 0)
	}

	// Both words are read even when one is unused: the FIFO holds whole
	// frames and must be drained one frame per tick.
	l, r := p.ReadFrame()

	// The first pass spans the loopback latency, so its samples are
	// discarded.
	if x.pass > 0 {
		if x.accumulate {
			x.left[x.rxIdx] += FromSlot(l)
			x.right[x.rxIdx] += FromSlot(r)
		} else {
			x.left[x.rxIdx] = FromSlot(l)
			x.right[x.rxIdx] = FromSlot(r)
		}
	}
	x.ticks++

	x.txIdx++
	if x.txIdx == len(x.table) {
		x.txIdx = 0
	}

	x.rxIdx++
	if x.rxIdx == len(x.left) {
		x.rxIdx = 0
		x.pass++
		core.RecordEvent(core.EvtPassDone, uint32(x.pass), x.ticks)
		if x.pass > x.runs {
			x.running.Store(false)
			core.RecordEvent(core.EvtRunDone, uint32(x.pass), x.ticks)
			return true
		}
	}
	return false
}

// Running reports whether a run is in progress.
func (x *Exchange) Running() bool {
	return x.running.Load()
}

// TxIndex returns the next transmit table index.
func (x *Exchange) TxIndex() int { return x.txIdx }

// RxIndex returns the next capture index.
func (x *Exchange) RxIndex() int { return x.rxIdx }

// Pass returns the number of completed capture passes.
func (x *Exchange) Pass() int { return x.pass }

// Ticks returns the number of frames exchanged since Reset.
func (x *Exchange) Ticks() uint32 { return x.ticks }

// Runs returns the number of kept passes per run.
func (x *Exchange) Runs() int { return x.runs }

// Len returns the capture buffer length.
func (x *Exchange) Len() int { return len(x.left) }

// At returns the captured frame at capture index i.
func (x *Exchange) At(i int) Frame {
	return Frame{Left: x.left[i], Right: x.right[i]}
}

// Samples returns the capture buffer for ch. The slice is the exchange's
// own storage: read it only while not running and do not modify it.
func (x *Exchange) Samples(ch Channel) []int32 {
	if ch == Right {
		return x.right
	}
	return x.left
}
