package core

import (
	"errors"
	"sync/atomic"
)

// TimerFreq is the system timer rate. Both boards count a 100MHz clock.
const TimerFreq = 100000000

// MaxDelayMs is the longest wait the 32-bit timer can count without wrapping.
const MaxDelayMs = 0xFFFFFFFF / (TimerFreq / 1000)

// ErrDelayTooLong is returned by Delay for waits longer than MaxDelayMs.
var ErrDelayTooLong = errors.New("delay: parameter too large, would overflow timer")

var systemTicks uint32

// DelayFunc blocks for the given number of milliseconds.
type DelayFunc func(ms uint32)

var delayFunc DelayFunc = tickDelay

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return atomic.LoadUint32(&systemTicks)
}

// SetTime sets the current system time (for testing/hardware integration)
func SetTime(ticks uint32) {
	atomic.StoreUint32(&systemTicks, ticks)
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return uint32(uint64(us) * TimerFreq / 1000000)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000000 / TimerFreq)
}

// TimerInit resets the system timer and drops every scheduled timer.
func TimerInit() {
	state := DisableInterrupts()
	defer RestoreInterrupts(state)

	SetTime(0)
	currentTime = 0
	timerList = nil
}

// ProcessTimers processes scheduled timers
func ProcessTimers() {
	currentTime = GetTime()
	TimerDispatch()
}

// SetDelayFunc installs the platform wait used by Delay. Targets pass a
// function backed by time.Sleep; the default advances the simulated clock.
func SetDelayFunc(f DelayFunc) {
	if f == nil {
		f = tickDelay
	}
	delayFunc = f
}

// Delay waits ms milliseconds. The codec power-up sequence depends on these
// waits being at least as long as requested.
func Delay(ms uint32) error {
	if ms > MaxDelayMs {
		DebugPrintln("Error in Delay(): parameter is too large and will overflow timer.")
		return ErrDelayTooLong
	}
	delayFunc(ms)
	return nil
}

// tickDelay advances the system clock one millisecond at a time and runs any
// timers that became due, so simulated peripherals keep pace with the waits.
func tickDelay(ms uint32) {
	step := TimerFromUS(1000)
	for i := uint32(0); i < ms; i++ {
		SetTime(GetTime() + step)
		ProcessTimers()
	}
}
