package ramp

import (
	"testing"
	"time"
)

// instant tick: never waits, never cancels.
func instant(time.Duration) bool { return true }

func TestLinearSnapsOnDegenerateInput(t *testing.T) {
	var got []uint16
	set := func(l uint16) { got = append(got, l) }

	Linear(0, 500, 999, 0, 10, instant, set)
	if len(got) != 1 || got[0] != 500 {
		t.Fatalf("durationMs=0: got %v, want [500]", got)
	}

	got = nil
	Linear(0, 500, 999, 100, 0, instant, set)
	if len(got) != 1 || got[0] != 500 {
		t.Fatalf("steps=0: got %v, want [500]", got)
	}
}

func TestLinearReachesTargetExactly(t *testing.T) {
	var last uint16
	Linear(0, 750, 999, 100, 7, instant, func(l uint16) { last = l })
	if last != 750 {
		t.Errorf("final level = %d, want 750", last)
	}

	Linear(750, 0, 999, 100, 7, instant, func(l uint16) { last = l })
	if last != 0 {
		t.Errorf("final level = %d, want 0", last)
	}
}

func TestLinearMonotonic(t *testing.T) {
	var levels []uint16
	Linear(100, 900, 999, 100, 16, instant, func(l uint16) { levels = append(levels, l) })
	prev := uint16(100)
	for _, l := range levels {
		if l < prev {
			t.Fatalf("ramp went backwards: %v", levels)
		}
		prev = l
	}
	if prev != 900 {
		t.Errorf("final level = %d, want 900", prev)
	}
}

func TestLinearClampsTargetToTop(t *testing.T) {
	var last uint16
	Linear(0, 2000, 999, 50, 4, instant, func(l uint16) { last = l })
	if last != 999 {
		t.Errorf("final level = %d, want 999", last)
	}
}

func TestLinearCancel(t *testing.T) {
	n := 0
	tick := func(time.Duration) bool {
		n++
		return n <= 2 // cancel after two ticks
	}
	var last uint16
	Linear(0, 800, 999, 100, 10, tick, func(l uint16) { last = l })
	if last >= 800 {
		t.Errorf("cancelled ramp reached target (last=%d)", last)
	}
}
