package core

import (
	"reflect"
	"testing"
)

func TestDefaultTiming(t *testing.T) {
	tm := DefaultTiming()
	if tm.Dit != 195 || tm.Dah != 585 || tm.IntraSymbolSpace != 195 || tm.WordSpace != 1365 {
		t.Errorf("Unexpected reference timing: %+v", tm)
	}
	if !(tm.Dah > tm.Dit && tm.WordSpace > tm.Dah) {
		t.Errorf("Unit ordering broken: %+v", tm)
	}
}

func TestNewTiming(t *testing.T) {
	tm, err := NewTiming(100)
	if err != nil {
		t.Fatalf("NewTiming(100) failed: %v", err)
	}
	want := Timing{Dit: 100, Dah: 300, IntraSymbolSpace: 100, WordSpace: 700}
	if tm != want {
		t.Errorf("Expected %+v, got %+v", want, tm)
	}

	if _, err := NewTiming(0); err != ErrInvalidDit {
		t.Errorf("Expected ErrInvalidDit for 0, got %v", err)
	}

	// Largest DIT whose word space still fits a uint16 delay
	if tm, err := NewTiming(9362); err != nil || tm.WordSpace != 65534 {
		t.Errorf("NewTiming(9362): got %+v, %v", tm, err)
	}
	if _, err := NewTiming(9363); err != ErrInvalidDit {
		t.Errorf("Expected ErrInvalidDit for 9363, got %v", err)
	}
}

func TestSOSPlan(t *testing.T) {
	plan := SOSPlan(DefaultTiming())

	if plan.Len() != 9 || plan.Repeats() != 3 {
		t.Fatalf("Expected 9 units in 3 repeats, got %d / %d", plan.Len(), plan.Repeats())
	}

	var units []uint32
	for i := 0; i < plan.Len(); i++ {
		units = append(units, uint32(plan.At(i)))
	}
	if !reflect.DeepEqual(units, canonicalHighs) {
		t.Errorf("Expected units %v, got %v", canonicalHighs, units)
	}

	if plan.HighTime() != 2925 {
		t.Errorf("Expected 2925 ms high time, got %d", plan.HighTime())
	}
	if plan.CycleTime(DefaultTiming()) != 5850 {
		t.Errorf("Expected 5850 ms cycle, got %d", plan.CycleTime(DefaultTiming()))
	}
}

func TestSOSPlanSymbolsIsCopy(t *testing.T) {
	plan := SOSPlan(DefaultTiming())

	symbols := plan.Symbols()
	symbols[0] = 1

	if plan.At(0) != Dit {
		t.Errorf("Plan mutated through Symbols(): unit 0 is %d", plan.At(0))
	}
}
