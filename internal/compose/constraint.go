package compose

import (
	"fmt"

	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/automaton"
	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/util"
)

// pair is a (hybrid state, constraint state) key used to dedupe the
// worklist expansion.
type pair struct {
	h automaton.StateID
	k automaton.StateID
}

// Constraint folds one constraint DFA k into the running hybrid DFA h,
// producing h': a new hybrid DFA whose states are (h-tuple, k-state)
// pairs, reached by worklist expansion from h.initial x k.initial rather
// than by materializing the full product. A state's tuple payload is h's
// own tuple with k's local state id appended as one further component, so
// later coloring can recover the constraint-component index without
// re-deriving it from a name string.
//
// K self-loops on unknown labels: if k has no outgoing transitions
// recorded for some state (k.Transitions returns none), every outgoing h
// transition carries that k state forward unchanged, rather than failing
// the fold. This preserves the source's fallback for partial constraint
// templates.
func Constraint(h *automaton.DFA[automaton.Tuple], k *automaton.DFA[struct{}]) *automaton.DFA[automaton.Tuple] {
	out := automaton.New[automaton.Tuple]()

	alphabet := util.NewStringSet()
	alphabet.AddAll(h.Alphabet())
	alphabet.AddAll(k.Alphabet())
	out.SetAlphabet(alphabet)

	seen := map[pair]automaton.StateID{}

	intern := func(p pair) automaton.StateID {
		if id, ok := seen[p]; ok {
			return id
		}
		name := fmt.Sprintf("%s,%s", h.Name(p.h), k.Name(p.k))
		accepting := h.IsAccepting(p.h) && k.IsAccepting(p.k)
		id := out.AddState(name, accepting)

		tuple := append(append(automaton.Tuple{}, h.Value(p.h)...), p.k)
		out.SetValue(id, tuple)

		if h.IsError(p.h) {
			out.MarkError(id)
		}
		seen[p] = id
		return id
	}

	var queue []pair
	for _, hi := range h.Initial().Elements() {
		for _, ki := range k.Initial().Elements() {
			p := pair{hi, ki}
			id := intern(p)
			out.AddInitial(id)
			queue = append(queue, p)
		}
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		fromID := seen[p]

		kTrans := k.Transitions(p.k)
		kByLabel := make(map[string]automaton.StateID, len(kTrans))
		for _, t := range kTrans {
			kByLabel[t.Label] = t.To
		}

		for _, t := range h.Transitions(p.h) {
			nextK := p.k
			if len(kTrans) > 0 {
				if to, ok := kByLabel[t.Label]; ok {
					nextK = to
				}
			}

			next := pair{t.To, nextK}
			_, existed := seen[next]
			toID := intern(next)
			if !existed {
				queue = append(queue, next)
			}
			out.AddTransition(fromID, t.Label, toID)
		}
	}

	return out
}
