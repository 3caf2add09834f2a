// Package color implements the four-valued reachability coloring (C7):
// for each constraint and each non-error state of the hybrid DFA, whether
// that constraint is satisfied, violated, or only temporarily so because a
// state of the opposite local status is still reachable.
package color

import (
	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/automaton"
)

// Status is the two-valued local verdict for a constraint at a state,
// before reachability refinement.
type Status int

const (
	Satisfied Status = iota
	Violated
)

// Color is the four-valued refined verdict produced for each (state,
// constraint) pair.
type Color int

const (
	ColorSatisfied Color = iota
	ColorViolated
	ColorTemporarilySatisfied
	ColorTemporarilyViolated
)

func (c Color) String() string {
	switch c {
	case ColorSatisfied:
		return "satisfied"
	case ColorViolated:
		return "violated"
	case ColorTemporarilySatisfied:
		return "temporarily-satisfied"
	case ColorTemporarilyViolated:
		return "temporarily-violated"
	default:
		return "unknown"
	}
}

// Colors holds, for one constraint, the final color of every non-error
// state of the hybrid DFA that was colored for it.
type Colors map[automaton.StateID]Color

// Constraint computes the coloring for a single constraint: numProcesses
// is the number of leading tuple components that belong to processes (so
// the constraint's own component sits at index numProcesses+constraintIdx
// within each hybrid state's Tuple), and constraintDFA is the constraint's
// own DFA (used only for its accepting set, to decide local status).
//
// The algorithm never recurses: it computes, for every non-accepting,
// non-error state, the set of local statuses reachable from it via any
// non-error path of length >= 1, restricted so that a path does not
// continue past an accepting state (an accepting state's own local status
// still counts as "reached" by its predecessors, but its own further
// reachable set is not computed or needed). This is a monotone fixed
// point over the two-element status lattice, computed with a predecessor
// worklist rather than a DFS, so the pass is linear in the size of the
// hybrid DFA regardless of how deep or cyclic it is.
func Constraint(h *automaton.DFA[automaton.Tuple], numProcesses, constraintIdx int, constraintDFA *automaton.DFA[struct{}]) Colors {
	componentIdx := numProcesses + constraintIdx

	local := map[automaton.StateID]Status{}
	for _, s := range h.States().Elements() {
		if h.IsError(s) {
			continue
		}
		comp := h.Value(s)[componentIdx]
		if constraintDFA.IsAccepting(comp) {
			local[s] = Satisfied
		} else {
			local[s] = Violated
		}
	}

	// directNeighborLocals(s): local status of every non-error state
	// reached by one transition from s (accepting or not - an accepting
	// neighbor's local status still counts as directly reached).
	directLocals := map[automaton.StateID]map[Status]bool{}
	// predOpen[n]: open (non-accepting, non-error) states s with an edge
	// s -> n where n is itself open, i.e. the dependency edges that can
	// propagate R(n) back into R(s).
	predOpen := map[automaton.StateID][]automaton.StateID{}

	isOpen := func(s automaton.StateID) bool {
		_, ok := local[s]
		return ok && !h.IsAccepting(s)
	}

	for s := range local {
		statuses := map[Status]bool{}
		for _, t := range h.Transitions(s) {
			if h.IsError(t.To) {
				continue
			}
			statuses[local[t.To]] = true
			if isOpen(s) && isOpen(t.To) {
				predOpen[t.To] = append(predOpen[t.To], s)
			}
		}
		directLocals[s] = statuses
	}

	r := map[automaton.StateID]map[Status]bool{}
	var queue []automaton.StateID
	for s := range local {
		if !isOpen(s) {
			continue
		}
		r[s] = map[Status]bool{}
		for st := range directLocals[s] {
			r[s][st] = true
		}
		queue = append(queue, s)
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, p := range predOpen[n] {
			changed := false
			for st := range r[n] {
				if !r[p][st] {
					r[p][st] = true
					changed = true
				}
			}
			if changed {
				queue = append(queue, p)
			}
		}
	}

	out := make(Colors, len(local))
	for s, loc := range local {
		if h.IsAccepting(s) {
			out[s] = localColor(loc)
			continue
		}

		reached := r[s]
		switch loc {
		case Satisfied:
			if reached[Violated] {
				out[s] = ColorTemporarilySatisfied
			} else {
				out[s] = ColorSatisfied
			}
		case Violated:
			if reached[Satisfied] {
				out[s] = ColorTemporarilyViolated
			} else {
				out[s] = ColorViolated
			}
		}
	}

	return out
}

func localColor(s Status) Color {
	if s == Satisfied {
		return ColorSatisfied
	}
	return ColorViolated
}
