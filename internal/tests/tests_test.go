package tests

import (
	"testing"

	"github.com/coreman2200/funtimes-horloge/internal/layout"
	"github.com/coreman2200/funtimes-horloge/internal/wordclock"
)

func count(active []bool) int {
	n := 0
	for _, on := range active {
		if on {
			n++
		}
	}
	return n
}

func TestIndexSweep(t *testing.T) {
	l := layout.WordClock()
	r := NewRunner(Plan{Kind: IndexSweep})
	active := make([]bool, l.Count())
	for i := 0; i < l.Count(); i++ {
		if !r.Step(l, active) {
			t.Fatalf("ended early at %d", i)
		}
		if !active[i] || count(active) != 1 {
			t.Fatalf("step %d: expected only cell %d lit", i, i)
		}
	}
	if r.Step(l, active) {
		t.Fatal("expected sweep to end")
	}
	if count(active) != 0 {
		t.Fatal("expected dark frame after the end")
	}
}

func TestRowSweepHold(t *testing.T) {
	l := layout.WordClock()
	r := NewRunner(Plan{Kind: RowSweep, Hold: 2})
	active := make([]bool, l.Count())
	steps := 0
	for r.Step(l, active) {
		if count(active) != l.Dim.X {
			t.Fatalf("step %d: expected a full row, got %d cells", steps, count(active))
		}
		steps++
	}
	if steps != l.Dim.Y*2 {
		t.Fatalf("expected %d steps, got %d", l.Dim.Y*2, steps)
	}
}

func TestWordSweep(t *testing.T) {
	l := layout.WordClock()
	r := NewRunner(Plan{Kind: WordSweep})
	active := make([]bool, l.Count())
	steps := 0
	for r.Step(l, active) {
		steps++
	}
	if steps != len(wordclock.Masks()) {
		t.Fatalf("expected one step per mask, got %d", steps)
	}
}

func TestUnknownKind(t *testing.T) {
	if NewRunner(Plan{Kind: "rgb_channels"}) != nil {
		t.Fatal("expected nil runner")
	}
}
