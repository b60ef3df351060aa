// Package i2s moves audio between a transmit waveform table and capture
// buffers, one stereo frame per frame-sync, for the codec loopback test.
//
// Samples travel as 24-bit values left-justified in 32-bit slots. The
// Exchange type holds all per-run state; an Engine drives it either from a
// polling loop (FPGA board) or from the transmit FIFO interrupt (Kinetis).
package i2s

import "errors"

// Channel selects the output channel of a test run.
type Channel uint8

const (
	Left Channel = iota
	Right
)

func (c Channel) String() string {
	if c == Right {
		return "R"
	}
	return "L"
}

// ParseChannel accepts anything starting with l/L or r/R.
func ParseChannel(s string) (Channel, bool) {
	if len(s) == 0 {
		return Left, false
	}
	switch s[0] {
	case 'l', 'L':
		return Left, true
	case 'r', 'R':
		return Right, true
	}
	return Left, false
}

// State is the engine life cycle.
type State uint32

const (
	StateUninitialized State = iota
	StateConfigured
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConfigured:
		return "configured"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Frame is one stereo sample pair.
type Frame struct {
	Left, Right int32
}

// ToSlot places a 24-bit sample in the upper bits of a 32-bit slot.
func ToSlot(sample int32) uint32 {
	return uint32(sample << 8)
}

// FromSlot recovers the signed 24-bit sample from a received slot.
func FromSlot(word uint32) int32 {
	return int32(word) >> 8
}

var (
	ErrNotConfigured = errors.New("i2s: engine not configured")
	ErrRunning       = errors.New("i2s: engine already running")
	ErrWrongMode     = errors.New("i2s: operation not supported by this port")
	ErrEmptyTable    = errors.New("i2s: empty transmit table")
	ErrBadCapture    = errors.New("i2s: capture length must be positive")
	ErrBadRuns       = errors.New("i2s: run count must be positive")
	ErrTimeout       = errors.New("i2s: frame wait timeout")
)

// FrameIO exchanges one frame of raw slots with the hardware. WriteFrame
// queues left then right; ReadFrame drains left then right. Both words are
// always moved together.
type FrameIO interface {
	WriteFrame(left, right uint32)
	ReadFrame() (left, right uint32)
}

// PolledPort is a frame interface the caller paces by polling.
type PolledPort interface {
	FrameIO
	Configure() error
	// WaitFrame blocks until the next frame-sync.
	WaitFrame() error
}

// IRQPort is a frame interface that calls a handler once per frame.
type IRQPort interface {
	FrameIO
	Configure() error
	// Start enables both directions, primes the transmit FIFO and only
	// then unmasks the interrupt that runs handler.
	Start(handler func())
	// Stop masks the interrupt and disables both directions.
	Stop()
}
