package automaton

import (
	"fmt"

	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/util"
)

// errorSinkName is the display name given to the single absorbing state
// totalization and rewiring add to a DFA. It is namespaced per DFA so that
// totalizing several independently-built automata never collides names
// before they are composed.
func errorSinkName(prefix string) string {
	return prefix + "_ERROR_SINK"
}

// Totalize returns a new DFA equal to d but with a single absorbing error
// state added such that every (state, symbol) pair in States(d) x
// Alphabet(d) has exactly one outgoing transition. Every state and
// transition already in d is preserved unchanged; only the missing
// (state, symbol) pairs gain a transition, all pointing at the new sink.
// The sink is self-looping on every symbol and is added to the error set;
// any error states d already had are kept in it.
//
// If d is already total, Totalize still adds the sink (so that the result
// always satisfies "some state is the error state", keeping later stages
// uniform). A d with no states at all is a caller error.
func Totalize[E any](d *DFA[E], namePrefix string, sinkValue E) (*DFA[E], error) {
	if d.Len() == 0 {
		return nil, fmt.Errorf("automaton: cannot totalize a DFA with no states")
	}

	out := copyInto(d)

	sink := out.AddState(errorSinkName(namePrefix), false)
	out.SetValue(sink, sinkValue)
	out.MarkError(sink)

	alphabet := out.Alphabet().Sorted()
	for _, label := range alphabet {
		out.AddTransition(sink, label, sink)
	}

	for _, id := range out.States().Elements() {
		if id == sink {
			continue
		}
		for _, label := range alphabet {
			if _, ok := out.Next(id, label); !ok {
				out.AddTransition(id, label, sink)
			}
		}
	}

	return out, nil
}

// RewireErrors returns a new DFA equal to d but with every state in d's
// error set collapsed into a single fresh absorbing ERROR_SINK: every
// transition that targeted an old error state is redirected to the new
// sink, the sink self-loops on the full alphabet, and the old error states
// (now unreachable) are dropped from the result along with any transitions
// that originated from them. Non-error states and their transitions to
// other non-error states are preserved unchanged.
//
// Matching the source model's own behavior, rewiring is a no-op (returns a
// copy of d with no structural change) when d's error set has zero or one
// member already - there is nothing to collapse.
func RewireErrors[E any](d *DFA[E], namePrefix string, sinkValue E) *DFA[E] {
	if d.Error().Len() <= 1 {
		return copyInto(d)
	}

	out := New[E]()
	idMap := map[StateID]StateID{}

	for _, old := range d.States().Elements() {
		if d.IsError(old) {
			continue
		}
		name := d.Name(old)
		id := out.AddState(name, d.IsAccepting(old))
		out.SetValue(id, d.Value(old))
		idMap[old] = id
	}

	sink := out.AddState(errorSinkName(namePrefix), false)
	out.SetValue(sink, sinkValue)
	out.MarkError(sink)

	out.SetAlphabet(d.Alphabet())
	for _, label := range d.Alphabet().Sorted() {
		out.AddTransition(sink, label, sink)
	}

	for _, old := range d.States().Elements() {
		if d.IsError(old) {
			continue
		}
		newFrom := idMap[old]
		for _, t := range d.Transitions(old) {
			if d.IsError(t.To) {
				out.AddTransition(newFrom, t.Label, sink)
				continue
			}
			out.AddTransition(newFrom, t.Label, idMap[t.To])
		}
	}

	for _, old := range d.Initial().Elements() {
		if d.IsError(old) {
			continue
		}
		out.AddInitial(idMap[old])
	}

	return out
}

// copyInto returns a deep structural copy of d: same states (by name,
// accepting flag and payload), same transitions, same initial/accepting/
// error sets, but with no aliasing back into d so later mutation of the
// copy (e.g. by Totalize adding a sink) can never affect d.
func copyInto[E any](d *DFA[E]) *DFA[E] {
	out := New[E]()
	idMap := map[StateID]StateID{}

	for _, old := range d.States().Elements() {
		id := out.AddState(d.Name(old), d.IsAccepting(old))
		out.SetValue(id, d.Value(old))
		idMap[old] = id
	}

	out.SetAlphabet(util.NewStringSet(d.Alphabet()))

	for _, old := range d.States().Elements() {
		for _, t := range d.Transitions(old) {
			out.AddTransition(idMap[old], t.Label, idMap[t.To])
		}
	}

	for _, old := range d.Initial().Elements() {
		out.AddInitial(idMap[old])
	}
	for _, old := range d.Error().Elements() {
		out.MarkError(idMap[old])
	}

	return out
}
