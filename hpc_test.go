package hpc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/color"
	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/constraints"
	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/hpcerrors"
)

func selfLoopProcess(states []string, alphabet []string) ProcessDFA {
	var transitions []ProcessTransition
	for _, s := range states {
		for _, a := range alphabet {
			transitions = append(transitions, ProcessTransition{From: s, Label: a, To: s})
		}
	}
	return ProcessDFA{
		States:      states,
		Alphabet:    alphabet,
		Initial:     []string{states[0]},
		Accepting:   states,
		Transitions: transitions,
	}
}

// Test_Generate_existenceScenario matches concrete scenario 1 of
// spec §8.
func Test_Generate_existenceScenario(t *testing.T) {
	p := selfLoopProcess([]string{"p0"}, []string{"A", "B"})
	result, err := Generate([]ProcessDFA{p}, []Constraint{
		{ID: "e1", SourceRef: "A", Kind: constraints.Existence},
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, result.DFA().Len())

	cur, ok := result.Current()
	assert.True(t, ok)

	currentID, ok := result.DFA().StateByName(cur)
	assert.True(t, ok)
	c, ok := result.Color(currentID, "e1")
	assert.True(t, ok)
	// initial is locally violated (no A seen yet) but A is still
	// reachable, reaching a state that locally satisfies existence(A).
	assert.Equal(t, color.ColorTemporarilyViolated, c)
}

// Test_Generate_unknownKind matches concrete scenario 5 of spec §8.
func Test_Generate_unknownKind(t *testing.T) {
	p := selfLoopProcess([]string{"p0"}, []string{"A"})
	_, err := Generate([]ProcessDFA{p}, []Constraint{
		{ID: "bad", SourceRef: "A", Kind: constraints.Kind("banana")},
	})
	assert.Error(t, err)
	assert.IsType(t, hpcerrors.UnknownConstraintKind{}, err)
}

// Test_Generate_emptyProcessList matches concrete scenario 6 of
// spec §8: an empty process list returns a degenerate colored DFA with
// one accepting state and no colors.
func Test_Generate_emptyProcessList(t *testing.T) {
	result, err := Generate(nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.DFA().Len())

	cur, ok := result.Current()
	assert.True(t, ok)
	id, _ := result.DFA().StateByName(cur)
	assert.True(t, result.DFA().IsAccepting(id))
}

func Test_Generate_duplicateConstraintId(t *testing.T) {
	p := selfLoopProcess([]string{"p0"}, []string{"A"})
	_, err := Generate([]ProcessDFA{p}, []Constraint{
		{ID: "dup", SourceRef: "A", Kind: constraints.Existence},
		{ID: "dup", SourceRef: "A", Kind: constraints.Existence},
	})
	assert.Error(t, err)
	assert.IsType(t, hpcerrors.DuplicateConstraintId{}, err)
}

func Test_Generate_renderJSON(t *testing.T) {
	p := selfLoopProcess([]string{"p0"}, []string{"A", "B"})
	result, err := Generate([]ProcessDFA{p}, []Constraint{
		{ID: "r1", SourceRef: "A", TargetRef: "B", Kind: constraints.Response},
	})
	assert.NoError(t, err)

	data, err := result.MarshalJSON()
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"constraint_id":"r1"`)
}
