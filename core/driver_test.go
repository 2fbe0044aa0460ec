package core

import (
	"reflect"
	"testing"
)

func TestCycleGateNeverActive(t *testing.T) {
	ClearEventRing()
	sim := newSimBoard()
	d := sim.driver()

	report := d.RunCycle()

	if report.Outcome != CycleCompleted {
		t.Errorf("Expected completed cycle, got %v", report.Outcome)
	}
	if report.Units != 9 {
		t.Errorf("Expected 9 units, got %d", report.Units)
	}
	if !report.WordSpaceWaited {
		t.Error("Expected the word space to be waited out")
	}

	highs, lows := phases(sim.trace)
	if !reflect.DeepEqual(highs, canonicalHighs) {
		t.Errorf("High phases: expected %v, got %v", canonicalHighs, highs)
	}
	wantLows := []uint32{195, 195, 195, 195, 195, 195, 195, 195}
	if !reflect.DeepEqual(lows, wantLows) {
		t.Errorf("Low phases: expected %v, got %v", wantLows, lows)
	}

	last := sim.trace[len(sim.trace)-1]
	if last.High {
		t.Fatal("Output left high at end of cycle")
	}
	if trailing := sim.now - last.At; trailing != 1365 {
		t.Errorf("Expected trailing silence of 1365 ms, got %d", trailing)
	}

	want := d.Plan().CycleTime(d.Timing())
	if want != 5850 || sim.now != want {
		t.Errorf("Expected cycle time 5850 ms, plan says %d, clock at %d", want, sim.now)
	}
}

func TestCycleImmediateAbort(t *testing.T) {
	sim := newSimBoard()
	sim.gate = func(uint32, int) bool { return true }
	d := sim.driver()

	report := d.RunCycle()

	if report.Outcome != CycleSkipped {
		t.Errorf("Expected skipped cycle, got %v", report.Outcome)
	}
	if sim.writes != 0 {
		t.Errorf("Expected no pin writes, got %d", sim.writes)
	}
	if len(sim.delays) != 0 {
		t.Errorf("Expected no delays, got %v", sim.delays)
	}
	if sim.queries != 1 {
		t.Errorf("Expected a single gate query, got %d", sim.queries)
	}
}

func TestCycleAbortDuringHold(t *testing.T) {
	sim := newSimBoard()
	// Condition appears while the first dit is being held
	sim.gate = activeFrom(100)
	d := sim.driver()

	report := d.RunCycle()

	if report.Outcome != CycleAborted {
		t.Errorf("Expected aborted cycle, got %v", report.Outcome)
	}
	if report.Units != 1 {
		t.Errorf("Expected one unit emitted, got %d", report.Units)
	}

	highs, _ := phases(sim.trace)
	if !reflect.DeepEqual(highs, []uint32{195}) {
		t.Errorf("Expected exactly one 195 ms high phase, got %v", highs)
	}
	if sim.level {
		t.Error("Output left high after abort")
	}
	if report.WordSpaceWaited {
		t.Error("Word space must be skipped while the gate is active")
	}
	if sim.now != 195 {
		t.Errorf("Expected no waiting after the held unit, clock at %d", sim.now)
	}
}

func TestCycleAbortAfterRisingEdge(t *testing.T) {
	sim := newSimBoard()
	// Query 1: top of loop, 2: before raising unit 0, 3: right after raising it
	sim.gate = activeAtQuery(3)
	d := sim.driver()

	report := d.RunCycle()

	if report.Outcome != CycleAborted {
		t.Errorf("Expected aborted cycle, got %v", report.Outcome)
	}
	if report.Units != 0 {
		t.Errorf("Expected no unit held, got %d", report.Units)
	}
	want := []transition{{At: 0, High: true}, {At: 0, High: false}}
	if !reflect.DeepEqual(sim.trace, want) {
		t.Errorf("Expected output forced low immediately, got %v", sim.trace)
	}
	// Gate is clear again at the post-cycle check
	if !report.WordSpaceWaited || sim.now != 1365 {
		t.Errorf("Expected only the word space to elapse, clock at %d", sim.now)
	}
}

func TestCycleAbortBeforeRisingEdge(t *testing.T) {
	ClearEventRing()
	sim := newSimBoard()
	// Query 5 is the check before raising unit 1
	sim.gate = activeAtQuery(5)
	d := sim.driver()

	report := d.RunCycle()

	if report.Outcome != CycleAborted || report.Units != 1 {
		t.Errorf("Expected abort after one unit, got %+v", report)
	}
	highs, _ := phases(sim.trace)
	if !reflect.DeepEqual(highs, []uint32{195}) {
		t.Errorf("Expected one high phase, got %v", highs)
	}

	var kinds []uint8
	for _, evt := range RecentEvents() {
		kinds = append(kinds, evt.Kind)
	}
	wantKinds := []uint8{EvtCycleStart, EvtAbortBeforeOn, EvtWordSpaceWait}
	if !reflect.DeepEqual(kinds, wantKinds) {
		t.Errorf("Expected events %v, got %v", wantKinds, kinds)
	}
}

func TestCycleReadErrorFailsOpen(t *testing.T) {
	sim := newSimBoard()
	sim.readErr = errPin
	d := sim.driver()

	report := d.RunCycle()

	if report.Outcome != CycleCompleted || report.Units != 9 || !report.WordSpaceWaited {
		t.Errorf("Expected a full cycle, got %+v", report)
	}
	highs, _ := phases(sim.trace)
	if !reflect.DeepEqual(highs, canonicalHighs) {
		t.Errorf("High phases: expected %v, got %v", canonicalHighs, highs)
	}
	if sim.now != 5850 {
		t.Errorf("Expected 5850 ms cycle, got %d", sim.now)
	}
}

func TestCycleRestartsFromFirstUnit(t *testing.T) {
	sim := newSimBoard()
	// Abort before unit 4 (second dah) of the first cycle
	sim.gate = activeAtQuery(1 + 4*3 + 1)
	d := sim.driver()

	first := d.RunCycle()
	if first.Outcome != CycleAborted || first.Units != 4 {
		t.Fatalf("Expected abort after 4 units, got %+v", first)
	}

	sim.gate = nil
	start := len(sim.trace)
	begin := sim.now

	second := d.RunCycle()
	if second.Outcome != CycleCompleted || second.Units != 9 {
		t.Fatalf("Expected full second cycle, got %+v", second)
	}

	highs, _ := phases(sim.trace[start:])
	if !reflect.DeepEqual(highs, canonicalHighs) {
		t.Errorf("Second cycle high phases: expected %v, got %v", canonicalHighs, highs)
	}
	if sim.trace[start].At != begin {
		t.Errorf("Second cycle should rise at %d, rose at %d", begin, sim.trace[start].At)
	}
	if sim.now-begin != 5850 {
		t.Errorf("Second cycle took %d ms, expected 5850", sim.now-begin)
	}
}

func TestCycleWordSpaceSkip(t *testing.T) {
	sim := newSimBoard()
	// 1 top check + 3 checks per unit, so query 29 is the post-cycle check
	sim.gate = activeAtQuery(29)
	d := sim.driver()

	report := d.RunCycle()

	if report.Outcome != CycleCompleted {
		t.Errorf("Expected completed cycle, got %v", report.Outcome)
	}
	if report.WordSpaceWaited {
		t.Error("Expected word space to be skipped")
	}
	if sim.now != 4485 {
		t.Errorf("Expected clock at 4485 ms, got %d", sim.now)
	}

	// The next cycle begins with no extra delay
	start := len(sim.trace)
	d.RunCycle()
	if sim.trace[start].At != 4485 || !sim.trace[start].High {
		t.Errorf("Expected next rising edge at 4485 ms, got %+v", sim.trace[start])
	}
}

func TestCycleHighWriteFailure(t *testing.T) {
	sim := newSimBoard()
	sim.highErr = errPin
	d := sim.driver()

	report := d.RunCycle()

	if report.Outcome != CycleCompleted {
		t.Errorf("Write failures must not abort the cycle, got %v", report.Outcome)
	}
	if report.Units != 0 {
		t.Errorf("Expected no held units, got %d", report.Units)
	}
	if len(sim.trace) != 0 {
		t.Errorf("Expected no transitions, got %v", sim.trace)
	}
	// Only the gaps and the word space elapse
	if sim.now != 8*195+1365 {
		t.Errorf("Expected %d ms, got %d", 8*195+1365, sim.now)
	}
}

func TestCycleLowWriteFailure(t *testing.T) {
	sim := newSimBoard()
	sim.lowErr = errPin
	d := sim.driver()

	report := d.RunCycle()

	if report.Units != 9 {
		t.Errorf("Expected 9 held units, got %d", report.Units)
	}
	// A failed low skips the gap check and the gap itself
	want := []uint16{195, 195, 195, 585, 585, 585, 195, 195, 195, 1365}
	if !reflect.DeepEqual(sim.delays, want) {
		t.Errorf("Expected delays %v, got %v", want, sim.delays)
	}
}

func TestGateSkipReportedOnce(t *testing.T) {
	ClearEventRing()
	sim := newSimBoard()
	sim.gate = func(uint32, int) bool { return true }
	d := sim.driver()

	for i := 0; i < 5; i++ {
		d.RunCycle()
	}

	events := RecentEvents()
	if len(events) != 1 || events[0].Kind != EvtGateSkip {
		t.Errorf("Expected a single GATE_SKIP event, got %v", events)
	}
	if sim.queries != 5 {
		t.Errorf("Gate must be read on every iteration, got %d reads", sim.queries)
	}
}

func TestCompletedCycleEvents(t *testing.T) {
	ClearEventRing()
	sim := newSimBoard()
	d := sim.driver()

	d.RunCycle()
	d.RunCycle()

	want := []Event{
		{Kind: EvtCycleStart, Cycle: 1, Clock: 0},
		{Kind: EvtCycleComplete, Cycle: 1, Unit: 8, Clock: 4485},
		{Kind: EvtWordSpaceWait, Cycle: 1, Clock: 5850},
		{Kind: EvtCycleStart, Cycle: 2, Clock: 5850},
		{Kind: EvtCycleComplete, Cycle: 2, Unit: 8, Clock: 10335},
		{Kind: EvtWordSpaceWait, Cycle: 2, Clock: 11700},
	}
	if got := RecentEvents(); !reflect.DeepEqual(got, want) {
		t.Errorf("Events mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestRunForeverRepeatsCycles(t *testing.T) {
	sim := newSimBoard()
	// 9 holds + 8 gaps + word space = 18 delays per cycle; stop after two
	sim.maxDelays = 36
	d := sim.driver()

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.RunForever()
	}()
	<-done

	if sim.now != 2*5850 {
		t.Errorf("Expected two cycles (11700 ms), got %d", sim.now)
	}
	highs, _ := phases(sim.trace)
	want := append(append([]uint32{}, canonicalHighs...), canonicalHighs...)
	if !reflect.DeepEqual(highs, want) {
		t.Errorf("High phases: expected %v, got %v", want, highs)
	}
}

func TestAbortAfterFailedLowForcesOutputLow(t *testing.T) {
	tests := []struct {
		name        string
		lowFailures int
		lowErr      error
		activeFrom  int // first gate query that reports active
		outcome     CycleOutcome
	}{
		// Unit 0 stays high; the check before raising unit 1 (query 4) aborts
		{"before next unit", 1, nil, 4, CycleAborted},
		// No low write lands, so the post-low checks never run and the
		// post-cycle check is query 20
		{"word space skip", 0, errPin, 20, CycleCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newSimBoard()
			sim.lowFailures = tt.lowFailures
			sim.lowErr = tt.lowErr
			from := tt.activeFrom
			sim.gate = func(_ uint32, q int) bool { return q >= from }
			d := sim.driver()

			report := d.RunCycle()
			if report.Outcome != tt.outcome {
				t.Errorf("Expected %v, got %v", tt.outcome, report.Outcome)
			}
			if report.WordSpaceWaited {
				t.Error("Word space must be skipped while the gate is active")
			}
			if tt.lowErr != nil {
				// Let the forced low through
				sim.lowErr = nil
				d.RunCycle()
			}
			if sim.level {
				t.Fatal("Output left high after the gate went active")
			}

			writes := sim.writes
			for i := 0; i < 3; i++ {
				if r := d.RunCycle(); r.Outcome != CycleSkipped {
					t.Errorf("Expected skipped iteration, got %v", r.Outcome)
				}
			}
			if sim.level || sim.writes != writes {
				t.Errorf("Skips must leave the low output alone, level=%v writes=%d->%d",
					sim.level, writes, sim.writes)
			}
		})
	}
}

func TestSkipForcesOutputLowAfterFailedLow(t *testing.T) {
	sim := newSimBoard()
	// Every low write of the first cycle fails, so unit 8 is left high
	sim.lowErr = errPin
	// Gate clear for the whole first cycle (20 queries), active afterwards
	sim.gate = func(_ uint32, q int) bool { return q >= 21 }
	d := sim.driver()

	if r := d.RunCycle(); r.Outcome != CycleCompleted || !r.WordSpaceWaited {
		t.Fatalf("Expected a full first cycle, got %+v", r)
	}
	if !sim.level {
		t.Fatal("Expected the failed writes to leave the output high")
	}

	sim.lowErr = nil
	if r := d.RunCycle(); r.Outcome != CycleSkipped {
		t.Fatalf("Expected a skipped iteration, got %v", r.Outcome)
	}
	if sim.level {
		t.Error("Skip must force a stuck-high output low")
	}
}
