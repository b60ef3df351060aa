package sim

import "codecbench/core"

// Framer is a block that runs once per frame-sync period.
type Framer interface {
	Frame()
}

// SampleClock drives a Framer at a fixed sample rate from the core timer
// list. Time advances only through core.Delay (or SetTime plus
// ProcessTimers), so a simulated run is fully deterministic.
type SampleClock struct {
	Rate   uint32
	Target Framer

	timer   core.Timer
	period  uint32
	running bool
}

// NewSampleClock returns a stopped clock at rate frames per second.
func NewSampleClock(rate uint32, target Framer) *SampleClock {
	c := &SampleClock{Rate: rate, Target: target}
	c.timer.Handler = c.tick
	return c
}

// Start schedules the first frame one period from now.
func (c *SampleClock) Start() {
	if c.running {
		return
	}
	c.period = core.TimerFreq / c.Rate
	if c.period == 0 {
		c.period = 1
	}
	c.timer.WakeTime = core.GetTime() + c.period
	c.running = true
	core.ScheduleTimer(&c.timer)
}

// Stop cancels the pending frame.
func (c *SampleClock) Stop() {
	if !c.running {
		return
	}
	c.running = false
	core.CancelTimer(&c.timer)
}

func (c *SampleClock) tick(t *core.Timer) uint8 {
	if !c.running {
		return core.SF_DONE
	}
	c.Target.Frame()
	t.WakeTime += c.period
	return core.SF_RESCHEDULE
}
