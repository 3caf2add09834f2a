package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/automaton"
	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/util"
)

// selfLoopProcess builds a single-state, always-accepting process that
// self-loops on every label in alphabet, already total (no totalization
// needed for these tests).
func selfLoopProcess(name string, alphabet []string) *automaton.DFA[struct{}] {
	d := automaton.New[struct{}]()
	s := d.AddState(name, true)
	d.SetAlphabet(util.StringSetOf(alphabet))
	d.AddInitial(s)
	for _, a := range alphabet {
		d.AddTransition(s, a, s)
	}
	return d
}

func Test_Processes_emptyInputErrors(t *testing.T) {
	_, err := Processes(nil)
	assert.Error(t, err)
}

func Test_Processes_singleProcess(t *testing.T) {
	p := selfLoopProcess("p0", []string{"A"})
	m, err := Processes([]*automaton.DFA[struct{}]{p})
	assert.NoError(t, err)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 1, m.Initial().Len())
}

// Test_Processes_disjointAlphabets builds two one-state processes over
// disjoint alphabets {A} and {X}; per §4.4, a label not in a process's
// own alphabet leaves that component unchanged, so the product over two
// one-state processes still has exactly one reachable state.
func Test_Processes_disjointAlphabets(t *testing.T) {
	p1 := selfLoopProcess("p1", []string{"A"})
	p2 := selfLoopProcess("p2", []string{"X"})

	m, err := Processes([]*automaton.DFA[struct{}]{p1, p2})
	assert.NoError(t, err)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 2, m.Alphabet().Len())

	init := m.Initial().Elements()[0]
	toA, ok := m.Next(init, "A")
	assert.True(t, ok)
	assert.Equal(t, init, toA)
	toX, ok := m.Next(init, "X")
	assert.True(t, ok)
	assert.Equal(t, init, toX)
}

// Test_Processes_synchronizesSharedLabel builds two 2-state processes
// that both advance on the shared label "A": the product must move both
// components together on "A" rather than producing two separate edges.
func Test_Processes_synchronizesSharedLabel(t *testing.T) {
	build := func(name string) *automaton.DFA[struct{}] {
		d := automaton.New[struct{}]()
		s0 := d.AddState(name+"0", false)
		s1 := d.AddState(name+"1", true)
		d.SetAlphabet(util.StringSetOf([]string{"A"}))
		d.AddInitial(s0)
		d.AddTransition(s0, "A", s1)
		d.AddTransition(s1, "A", s1)
		return d
	}
	p1 := build("p1_")
	p2 := build("p2_")

	m, err := Processes([]*automaton.DFA[struct{}]{p1, p2})
	assert.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	init := m.Initial().Elements()[0]
	assert.False(t, m.IsAccepting(init))

	next, ok := m.Next(init, "A")
	assert.True(t, ok)
	assert.True(t, m.IsAccepting(next))

	again, ok := m.Next(next, "A")
	assert.True(t, ok)
	assert.Equal(t, next, again)
}

func Test_Processes_errorPropagates(t *testing.T) {
	d := automaton.New[struct{}]()
	ok := d.AddState("ok", true)
	errState := d.AddState("err", false)
	d.MarkError(errState)
	d.SetAlphabet(util.StringSetOf([]string{"A"}))
	d.AddInitial(ok)
	d.AddTransition(ok, "A", errState)
	d.AddTransition(errState, "A", errState)

	m, err := Processes([]*automaton.DFA[struct{}]{d})
	assert.NoError(t, err)

	init := m.Initial().Elements()[0]
	next, _ := m.Next(init, "A")
	assert.True(t, m.IsError(next))
}
