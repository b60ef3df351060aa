package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures a bus or exchange event for post-mortem analysis
type Event struct {
	Type   uint8  // Event type code
	Clock  uint32 // System clock at event
	Value1 uint32 // Context-dependent value
	Value2 uint32 // Context-dependent value
}

// Event type codes
const (
	EvtBusStart    = 1 // START issued (Value1: 1 if repeated)
	EvtBusStop     = 2 // STOP issued
	EvtBusNack     = 3 // NACK where ACK was expected (Value1: byte index)
	EvtBusArbLost  = 4 // arbitration lost
	EvtPassDone    = 5 // capture buffer wrapped (Value1: pass number)
	EvtRunDone     = 6 // exchange reached its target pass count
	EvtIRQDropped  = 7 // reentrant interrupt discarded
	EvtExchangeBeg = 8 // exchange started (Value1: channel)
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	eventRing     [EventRingSize]Event
	eventRingHead uint8
	eventsEnabled bool = true

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

func debugOutputWorker() {
	for msg := range debugChan {
		DebugPrintln(msg)
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking).
// Interrupt handlers use this; the message is dropped when the queue is full
// or the worker was never started.
func DebugAsync(msg string) {
	if debugChan != nil {
		select {
		case debugChan <- msg:
		default:
		}
	}
}

// RecordEvent captures an event in the ring buffer. Safe to call from an
// interrupt handler.
func RecordEvent(eventType uint8, value1, value2 uint32) {
	if !eventsEnabled {
		return
	}
	idx := eventRingHead
	eventRing[idx] = Event{
		Type:   eventType,
		Clock:  GetTime(),
		Value1: value1,
		Value2: value2,
	}
	eventRingHead = (idx + 1) % EventRingSize
}

// Events returns the recorded events, oldest first.
func Events() []Event {
	out := make([]Event, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.Type == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// DumpEvents outputs the event ring (call after a failed register access or
// a stalled run).
func DumpEvents() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENT] === Event Ring Dump ===")
	for _, evt := range Events() {
		var name string
		switch evt.Type {
		case EvtBusStart:
			name = "BUS_START"
		case EvtBusStop:
			name = "BUS_STOP"
		case EvtBusNack:
			name = "BUS_NACK!"
		case EvtBusArbLost:
			name = "ARB_LOST!"
		case EvtPassDone:
			name = "PASS_DONE"
		case EvtRunDone:
			name = "RUN_DONE"
		case EvtIRQDropped:
			name = "IRQ_DROP!"
		case EvtExchangeBeg:
			name = "EXCH_BEGIN"
		default:
			name = "UNKNOWN"
		}

		debugPrintln("[EVENT] " + name +
			" clock=" + Utoa(evt.Clock) +
			" v1=" + Utoa(evt.Value1) +
			" v2=" + Utoa(evt.Value2))
	}
	debugPrintln("[EVENT] === End Dump ===")
}

// ClearEvents clears the event ring
func ClearEvents() {
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
}
