package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildSmallDFA() *DFA[struct{}] {
	d := New[struct{}]()
	s0 := d.AddState("s0", false)
	s1 := d.AddState("s1", true)
	d.AddInitial(s0)
	d.AddTransition(s0, "a", s1)
	d.AddTransition(s1, "a", s1)
	return d
}

func Test_DFA_AddState_duplicateNamePanics(t *testing.T) {
	d := New[struct{}]()
	d.AddState("s0", false)
	assert.Panics(t, func() {
		d.AddState("s0", true)
	})
}

func Test_DFA_Next(t *testing.T) {
	d := buildSmallDFA()
	s0, _ := d.StateByName("s0")
	s1, _ := d.StateByName("s1")

	to, ok := d.Next(s0, "a")
	assert.True(t, ok)
	assert.Equal(t, s1, to)

	_, ok = d.Next(s0, "b")
	assert.False(t, ok)
}

func Test_DFA_Validate_rejectsAcceptingError(t *testing.T) {
	d := New[struct{}]()
	s0 := d.AddState("s0", true)
	d.MarkError(s0)
	assert.Error(t, d.Validate())
}

func Test_Totalize_addsMissingTransitions(t *testing.T) {
	d := buildSmallDFA()
	d.AddTransition(func() StateID { s, _ := d.StateByName("s1"); return s }(), "b", func() StateID { s, _ := d.StateByName("s0"); return s }())
	d.SetAlphabet(d.Alphabet())

	total, err := Totalize(d, "p", struct{}{})
	assert.NoError(t, err)
	assert.NoError(t, total.Validate())

	for _, id := range total.States().Elements() {
		for _, label := range total.Alphabet().Sorted() {
			_, ok := total.Next(id, label)
			assert.Truef(t, ok, "state %s missing transition on %q", total.Name(id), label)
		}
	}

	assert.Equal(t, 1, total.Error().Len())
}

func Test_Totalize_sinkSelfLoops(t *testing.T) {
	d := buildSmallDFA()
	total, err := Totalize(d, "p", struct{}{})
	assert.NoError(t, err)

	sinkID := total.Error().Elements()[0]
	for _, label := range total.Alphabet().Sorted() {
		to, ok := total.Next(sinkID, label)
		assert.True(t, ok)
		assert.Equal(t, sinkID, to)
	}
}

func Test_Totalize_emptyDFAErrors(t *testing.T) {
	d := New[struct{}]()
	_, err := Totalize(d, "p", struct{}{})
	assert.Error(t, err)
}

func Test_RewireErrors_collapsesMultipleErrorStates(t *testing.T) {
	d := New[Tuple]()
	ok1 := d.AddState("ok1", false)
	ok2 := d.AddState("ok2", true)
	err1 := d.AddState("err1", false)
	err2 := d.AddState("err2", false)
	d.AddInitial(ok1)
	d.MarkError(err1)
	d.MarkError(err2)

	d.AddTransition(ok1, "a", ok2)
	d.AddTransition(ok1, "b", err1)
	d.AddTransition(ok2, "a", err2)
	d.AddTransition(err1, "a", err1)
	d.AddTransition(err2, "a", err2)

	rewired := RewireErrors(d, "h", nil)
	assert.NoError(t, rewired.Validate())
	assert.Equal(t, 1, rewired.Error().Len())
	assert.Equal(t, 3, rewired.Len())

	newOK1, _ := rewired.StateByName("ok1")
	newOK2, _ := rewired.StateByName("ok2")
	sink := rewired.Error().Elements()[0]

	to, ok := rewired.Next(newOK1, "b")
	assert.True(t, ok)
	assert.Equal(t, sink, to)

	to, ok = rewired.Next(newOK2, "a")
	assert.True(t, ok)
	assert.Equal(t, sink, to)
}

func Test_RewireErrors_noopBelowTwoErrorStates(t *testing.T) {
	d := buildSmallDFA()
	rewired := RewireErrors(d, "h", struct{}{})
	assert.Equal(t, d.Len(), rewired.Len())
	assert.Equal(t, 0, rewired.Error().Len())
}
