package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures a beacon state-machine transition for post-mortem analysis
type Event struct {
	Kind  uint8  // Event kind code (Evt*)
	Cycle uint32 // Cycle number, starting at 1
	Unit  uint8  // Pulse plan unit index, where meaningful
	Clock uint32 // Driver clock in ms at the event
}

// Event kind codes
const (
	EvtCycleStart    = 1 // Gate clear, emission begins
	EvtGateSkip      = 2 // Gate active at top of loop, nothing emitted
	EvtAbortBeforeOn = 3 // Gate active before raising the output
	EvtAbortAfterOn  = 4 // Gate active right after raising the output
	EvtAbortAfterOff = 5 // Gate active after the output went low
	EvtCycleComplete = 6 // All units emitted
	EvtWordSpaceSkip = 7 // Gate active after the cycle, word space skipped
	EvtWordSpaceWait = 8 // Word space waited out
	EvtHalt          = 9 // Halt hook invoked

	evtCount = 10
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Event capture ring buffer (non-blocking, for post-mortem)
	eventRing     [EventRingSize]Event
	eventRingHead uint8
	eventRingLen  uint8

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, stderr etc.
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
	debugChan = make(chan string, 16) // Buffer 16 messages
	go debugOutputWorker()
}

// debugOutputWorker runs in background, drains debug channel
func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer.
// Once InitAsyncDebug has run the message is queued instead, so a slow
// writer never stretches a pulse.
func DebugPrintln(msg string) {
	if !debugEnabled || debugPrintln == nil {
		return
	}
	if debugChan != nil {
		DebugAsync(msg)
		return
	}
	debugPrintln(msg)
}

// DebugAsync queues a debug message for async output (non-blocking)
// Returns immediately even if channel is full (drops message)
func DebugAsync(msg string) {
	if debugChan != nil {
		select {
		case debugChan <- msg:
		default:
			// Channel full, drop message
		}
	}
}

// RecordEvent captures an event in the ring buffer and forwards it to
// telemetry and, when enabled, the debug writer
func RecordEvent(evt Event) {
	eventRing[eventRingHead] = evt
	eventRingHead = (eventRingHead + 1) % EventRingSize
	if eventRingLen < EventRingSize {
		eventRingLen++
	}

	sendEventFrame(evt)

	if debugEnabled {
		DebugPrintln(FormatEvent(evt))
	}
}

// RecentEvents returns the ring contents, oldest first
func RecentEvents() []Event {
	out := make([]Event, 0, eventRingLen)
	start := (eventRingHead + EventRingSize - eventRingLen) % EventRingSize
	for i := uint8(0); i < eventRingLen; i++ {
		out = append(out, eventRing[(start+i)%EventRingSize])
	}
	return out
}

// EventName returns the short name of an event kind
func EventName(kind uint8) string {
	switch kind {
	case EvtCycleStart:
		return "CYCLE_START"
	case EvtGateSkip:
		return "GATE_SKIP"
	case EvtAbortBeforeOn:
		return "ABORT_PRE_ON"
	case EvtAbortAfterOn:
		return "ABORT_POST_ON"
	case EvtAbortAfterOff:
		return "ABORT_POST_OFF"
	case EvtCycleComplete:
		return "CYCLE_DONE"
	case EvtWordSpaceSkip:
		return "WORD_SKIP"
	case EvtWordSpaceWait:
		return "WORD_WAIT"
	case EvtHalt:
		return "HALT"
	default:
		return "UNKNOWN"
	}
}

// FormatEvent renders an event as a single debug line
func FormatEvent(evt Event) string {
	return "[SOS] " + EventName(evt.Kind) +
		" cycle=" + utoa(evt.Cycle) +
		" unit=" + itoa(int(evt.Unit)) +
		" clock=" + utoa(evt.Clock)
}

// DumpEventRing outputs the event ring buffer (call on halt/error)
func DumpEventRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[SOS] === Event Ring Dump ===")
	for _, evt := range RecentEvents() {
		debugPrintln(FormatEvent(evt))
	}
	debugPrintln("[SOS] === End Dump ===")
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
	eventRingLen = 0
}
