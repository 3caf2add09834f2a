package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/automaton"
	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/util"
)

// hybridFromSingleProcess wraps a process DFA as a (trivial) hybrid DFA
// whose Tuple payload is a single component, mirroring what Processes
// would have produced for one process.
func hybridFromSingleProcess(p *automaton.DFA[struct{}]) *automaton.DFA[automaton.Tuple] {
	out := automaton.New[automaton.Tuple]()
	out.SetAlphabet(p.Alphabet())
	idMap := map[automaton.StateID]automaton.StateID{}
	for _, s := range p.States().Elements() {
		id := out.AddState(p.Name(s), p.IsAccepting(s))
		out.SetValue(id, automaton.Tuple{s})
		idMap[s] = id
	}
	for _, s := range p.States().Elements() {
		for _, t := range p.Transitions(s) {
			out.AddTransition(idMap[s], t.Label, idMap[t.To])
		}
	}
	for _, s := range p.Initial().Elements() {
		out.AddInitial(idMap[s])
	}
	return out
}

func Test_Constraint_foldsTupleComponent(t *testing.T) {
	p := automaton.New[struct{}]()
	p0 := p.AddState("p0", true)
	p.SetAlphabet(util.StringSetOf([]string{"A"}))
	p.AddInitial(p0)
	p.AddTransition(p0, "A", p0)
	h := hybridFromSingleProcess(p)

	k := automaton.New[struct{}]()
	k1 := k.AddState("k1", false)
	k2 := k.AddState("k2", true)
	k.SetAlphabet(util.StringSetOf([]string{"A"}))
	k.AddInitial(k1)
	k.AddTransition(k1, "A", k2)
	k.AddTransition(k2, "A", k2)

	out := Constraint(h, k)
	assert.Equal(t, 2, out.Len())

	init := out.Initial().Elements()[0]
	assert.Len(t, out.Value(init), 2)
	assert.False(t, out.IsAccepting(init)) // k1 not accepting -> AND is false

	next, ok := out.Next(init, "A")
	assert.True(t, ok)
	assert.True(t, out.IsAccepting(next)) // p0 accepting AND k2 accepting
}

// Test_Constraint_selfLoopsOnPartialTemplate exercises the "K self-loops
// on unknown labels" edge case from §4.5: a constraint DFA with no
// transitions recorded for some state must leave that state's component
// unchanged on every label.
func Test_Constraint_selfLoopsOnPartialTemplate(t *testing.T) {
	p := automaton.New[struct{}]()
	p0 := p.AddState("p0", true)
	p1 := p.AddState("p1", true)
	p.SetAlphabet(util.StringSetOf([]string{"A", "B"}))
	p.AddInitial(p0)
	p.AddTransition(p0, "A", p1)
	p.AddTransition(p1, "B", p0)
	h := hybridFromSingleProcess(p)

	k := automaton.New[struct{}]()
	k1 := k.AddState("k1", true)
	k.SetAlphabet(util.StringSetOf([]string{"A", "B"}))
	k.AddInitial(k1)
	// k1 deliberately has no outgoing transitions.

	out := Constraint(h, k)
	init := out.Initial().Elements()[0]
	next, ok := out.Next(init, "A")
	assert.True(t, ok)
	assert.Equal(t, out.Value(init)[1], out.Value(next)[1])
}
