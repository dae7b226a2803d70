package tests

import (
	"github.com/coreman2200/funtimes-horloge/internal/layout"
	"github.com/coreman2200/funtimes-horloge/internal/wordclock"
)

type Kind string

const (
	IndexSweep Kind = "index_sweep"
	RowSweep   Kind = "row_sweep"
	WordSweep  Kind = "word_sweep"
)

// Kinds lists the runnable patterns.
var Kinds = []Kind{IndexSweep, RowSweep, WordSweep}

// Plan selects a pattern; each pattern frame is held for Hold steps (min 1).
type Plan struct {
	Kind Kind
	Hold int
}

type Runner struct {
	plan  Plan
	step  int
	masks [][]int
}

// NewRunner returns nil for an unknown kind.
func NewRunner(plan Plan) *Runner {
	switch plan.Kind {
	case IndexSweep, RowSweep, WordSweep:
	default:
		return nil
	}
	if plan.Hold < 1 {
		plan.Hold = 1
	}
	r := &Runner{plan: plan}
	if plan.Kind == WordSweep {
		r.masks = wordclock.Masks()
	}
	return r
}

func (r *Runner) Kind() Kind { return r.plan.Kind }

// Step fills active for the current frame; returns false when complete.
func (r *Runner) Step(l layout.Layout, active []bool) bool {
	for i := range active {
		active[i] = false
	}
	frame := r.step / r.plan.Hold

	switch r.plan.Kind {
	case IndexSweep:
		if frame >= l.Count() {
			return false
		}
		active[frame] = true
	case RowSweep:
		if frame >= l.Dim.Y {
			return false
		}
		for x := 0; x < l.Dim.X; x++ {
			active[l.Index(x, frame)] = true
		}
	case WordSweep:
		if frame >= len(r.masks) {
			return false
		}
		for _, c := range r.masks[frame] {
			active[c] = true
		}
	default:
		return false
	}
	r.step++
	return true
}
