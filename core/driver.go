// Signal driver
// Emits the SOS pattern on a digital output, aborting whenever the gate
// reports active. The gate is consulted after every pin transition and
// after every delay; a delay that has started is never interrupted.
package core

// CycleOutcome describes how one outer-loop iteration ended
type CycleOutcome uint8

const (
	CycleSkipped   CycleOutcome = iota // Gate active at the top of the loop
	CycleCompleted                     // Every unit of the plan was emitted
	CycleAborted                       // Gate went active part way through
)

func (o CycleOutcome) String() string {
	switch o {
	case CycleSkipped:
		return "skipped"
	case CycleCompleted:
		return "completed"
	case CycleAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// CycleReport is the result of a single RunCycle call
type CycleReport struct {
	Outcome         CycleOutcome
	Units           int  // Units whose high phase was held for the full duration
	WordSpaceWaited bool // Trailing word space was waited out
}

// SignalDriver owns the output pin and the delay source
type SignalDriver struct {
	out    DigitalOutput
	delay  Delayer
	gate   Gate
	timing Timing
	plan   PulsePlan

	// high is set while the last successful write left the output high
	high bool

	// Telemetry only; never read back by the state machine
	cycles     uint32
	clock      uint32
	suppressed bool // a gate skip was already reported
}

// NewSignalDriver creates a driver emitting SOS with the given timing
func NewSignalDriver(out DigitalOutput, delay Delayer, gate Gate, timing Timing) *SignalDriver {
	return &SignalDriver{
		out:    out,
		delay:  delay,
		gate:   gate,
		timing: timing,
		plan:   SOSPlan(timing),
	}
}

// Plan returns the pulse plan the driver emits
func (d *SignalDriver) Plan() PulsePlan {
	return d.plan
}

// Timing returns the unit durations the driver uses
func (d *SignalDriver) Timing() Timing {
	return d.timing
}

// RunForever runs the beacon loop. It never returns.
func (d *SignalDriver) RunForever() {
	for {
		d.RunCycle()
	}
}

// RunCycle runs one iteration of the outer loop: gate check, emission,
// post-cycle gate check and word space.
func (d *SignalDriver) RunCycle() CycleReport {
	if d.gate.IsActive() {
		d.forceLow()
		// Report only the first skip of a run; the loop spins while the gate holds
		if !d.suppressed {
			d.suppressed = true
			d.record(EvtGateSkip, 0)
		}
		return CycleReport{Outcome: CycleSkipped}
	}

	d.suppressed = false
	d.cycles++
	d.record(EvtCycleStart, 0)

	report := d.emit()
	if report.Outcome == CycleCompleted {
		d.record(EvtCycleComplete, uint8(d.plan.Len()-1))
	}

	if d.gate.IsActive() {
		d.forceLow()
		d.record(EvtWordSpaceSkip, 0)
		return report
	}

	d.wait(d.timing.WordSpace)
	d.record(EvtWordSpaceWait, 0)
	report.WordSpaceWaited = true
	return report
}

// emit steps through the pulse plan from unit 0
func (d *SignalDriver) emit() CycleReport {
	report := CycleReport{Outcome: CycleCompleted}
	last := d.plan.Len() - 1

	for i := 0; i <= last; i++ {
		unit := uint8(i)

		if d.gate.IsActive() {
			// A failed low write on the previous unit can leave the output high
			d.forceLow()
			d.record(EvtAbortBeforeOn, unit)
			report.Outcome = CycleAborted
			return report
		}

		if d.out.SetHigh() == nil {
			d.high = true
			if d.gate.IsActive() {
				d.forceLow()
				d.record(EvtAbortAfterOn, unit)
				report.Outcome = CycleAborted
				return report
			}
			d.wait(d.plan.At(i))
			report.Units++
		}

		if d.out.SetLow() == nil {
			d.high = false
			if d.gate.IsActive() {
				d.record(EvtAbortAfterOff, unit)
				report.Outcome = CycleAborted
				return report
			}
			// The word space alone separates the last unit from the next cycle
			if i != last {
				d.wait(d.timing.IntraSymbolSpace)
			}
		}
	}
	return report
}

// forceLow drives the output low, best effort, if it may still be high
func (d *SignalDriver) forceLow() {
	if d.high && d.out.SetLow() == nil {
		d.high = false
	}
}

func (d *SignalDriver) wait(ms Millis) {
	d.delay.DelayMs(uint16(ms))
	d.clock += uint32(ms)
}

func (d *SignalDriver) record(kind uint8, unit uint8) {
	RecordEvent(Event{
		Kind:  kind,
		Cycle: d.cycles,
		Unit:  unit,
		Clock: d.clock,
	})
}
