// Package compose implements the two product constructions that turn a set
// of process DFAs and a catalog of constraint DFAs into a single hybrid
// DFA: the process composer (C4), a synchronous product of every process
// on their shared alphabet, and the constraint composer (C5), which folds
// one constraint DFA at a time into a running hybrid DFA via worklist
// expansion.
package compose

import (
	"fmt"
	"strings"

	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/automaton"
	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/hpcerrors"
	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/util"
)

// Processes builds the multi-process DFA M: the synchronous product of the
// given (already totalized) process DFAs on their shared alphabet Σ_M = ⋃
// Σᵢ. A product state is the tuple of per-process states; on label a, each
// component advances by its own totalized transition if a is in that
// process's own alphabet, and otherwise self-loops (a label only some
// processes know about does not move the processes that don't). M is
// built lazily by BFS from the initial tuple, enumerating only reachable
// states rather than the full Cartesian product.
func Processes(processes []*automaton.DFA[struct{}]) (*automaton.DFA[automaton.Tuple], error) {
	if len(processes) == 0 {
		return nil, hpcerrors.ErrEmptyInput
	}

	alphabet := util.NewStringSet()
	for _, p := range processes {
		alphabet.AddAll(p.Alphabet())
	}
	labels := alphabet.Sorted()

	ownAlphabets := make([]util.StringSet, len(processes))
	for i, p := range processes {
		ownAlphabets[i] = p.Alphabet()
	}

	out := automaton.New[automaton.Tuple]()
	out.SetAlphabet(alphabet)

	seen := map[string]automaton.StateID{}

	seedTuples := cartesianInitial(processes)
	for _, t := range seedTuples {
		id := internState(out, processes, t, seen)
		out.AddInitial(id)
	}

	queue := make([]automaton.Tuple, len(seedTuples))
	copy(queue, seedTuples)

	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		fromID := seen[tupleKey(t)]

		for _, label := range labels {
			next := make(automaton.Tuple, len(t))
			for i, comp := range t {
				if !ownAlphabets[i].Has(label) {
					next[i] = comp
					continue
				}
				to, ok := processes[i].Next(comp, label)
				if !ok {
					panic(fmt.Sprintf("compose: process %d is not total on label %q", i, label))
				}
				next[i] = to
			}

			key := tupleKey(next)
			if _, ok := seen[key]; !ok {
				toID := internState(out, processes, next, seen)
				queue = append(queue, next)
				out.AddTransition(fromID, label, toID)
			} else {
				out.AddTransition(fromID, label, seen[key])
			}
		}
	}

	return out, nil
}

// cartesianInitial returns every tuple formed by choosing one initial state
// from each process, in process order.
func cartesianInitial(processes []*automaton.DFA[struct{}]) []automaton.Tuple {
	tuples := []automaton.Tuple{{}}
	for _, p := range processes {
		var next []automaton.Tuple
		for _, t := range tuples {
			for _, init := range p.Initial().Elements() {
				ext := make(automaton.Tuple, len(t), len(t)+1)
				copy(ext, t)
				next = append(next, append(ext, init))
			}
		}
		tuples = next
	}
	return tuples
}

// internState looks up or creates the result state for tuple t, deriving
// its display name, accepting flag and error flag from the constituent
// process states.
func internState(out *automaton.DFA[automaton.Tuple], processes []*automaton.DFA[struct{}], t automaton.Tuple, seen map[string]automaton.StateID) automaton.StateID {
	key := tupleKey(t)
	if id, ok := seen[key]; ok {
		return id
	}

	names := make([]string, len(t))
	accepting := true
	isError := false
	for i, comp := range t {
		names[i] = processes[i].Name(comp)
		if !processes[i].IsAccepting(comp) {
			accepting = false
		}
		if processes[i].IsError(comp) {
			isError = true
		}
	}

	id := out.AddState(strings.Join(names, ","), accepting)
	out.SetValue(id, t)
	if isError {
		out.MarkError(id)
	}
	seen[key] = id
	return id
}

func tupleKey(t automaton.Tuple) string {
	var sb strings.Builder
	for _, c := range t {
		fmt.Fprintf(&sb, "%d,", c)
	}
	return sb.String()
}
