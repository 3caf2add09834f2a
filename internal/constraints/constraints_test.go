package constraints

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/hpcerrors"
	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/util"
)

func ab() util.StringSet {
	return util.StringSetOf([]string{"A", "B"})
}

func Test_Build_unknownKind(t *testing.T) {
	_, err := Build(Constraint{ID: "c1", Kind: Kind("banana")}, ab())
	assert.Error(t, err)
	assert.IsType(t, hpcerrors.UnknownConstraintKind{}, err)
}

// Test_Build_allKinds_total verifies the determinism-of-templates
// property from spec §8: every template, for every state and every
// label in Σ, defines exactly one transition.
func Test_Build_allKinds_total(t *testing.T) {
	for _, k := range allKinds {
		k := k
		t.Run(string(k), func(t *testing.T) {
			d, err := Build(Constraint{ID: "c", SourceRef: "A", TargetRef: "B", Kind: k}, ab())
			assert.NoError(t, err)
			for _, s := range d.States().Elements() {
				for _, a := range d.Alphabet().Sorted() {
					_, ok := d.Next(s, a)
					assert.Truef(t, ok, "kind %s: state %s missing transition on %q", k, d.Name(s), a)
				}
			}
			assert.Equal(t, 0, d.Error().Len(), "kind %s: templates must have an empty error set", k)
		})
	}
}

// Test_Existence checks the existence(A) template used by concrete
// scenario 1 of spec §8: existence_1 is not accepting, existence_2 is
// accepting; A moves 1 to 2, B keeps 1, and 2 stays on A.
func Test_Existence(t *testing.T) {
	d, err := Build(Constraint{ID: "e", SourceRef: "A", Kind: Existence}, ab())
	assert.NoError(t, err)

	s1, _ := d.StateByName("existence_1")
	s2, _ := d.StateByName("existence_2")
	assert.False(t, d.IsAccepting(s1))
	assert.True(t, d.IsAccepting(s2))

	to, _ := d.Next(s1, "A")
	assert.Equal(t, s2, to)
	to, _ = d.Next(s1, "B")
	assert.Equal(t, s1, to)
	to, _ = d.Next(s2, "A")
	assert.Equal(t, s2, to)
}

// Test_Response matches concrete scenario 2 of spec §8: response_1 is
// accepting, response_2 is not; from response_2, B returns to
// response_1.
func Test_Response(t *testing.T) {
	d, err := Build(Constraint{ID: "r", SourceRef: "A", TargetRef: "B", Kind: Response}, ab())
	assert.NoError(t, err)

	s1, _ := d.StateByName("response_1")
	s2, _ := d.StateByName("response_2")
	assert.True(t, d.IsAccepting(s1))
	assert.False(t, d.IsAccepting(s2))

	to, _ := d.Next(s1, "A")
	assert.Equal(t, s2, to)
	to, _ = d.Next(s2, "B")
	assert.Equal(t, s1, to)
}

// Test_NotCoexistence matches concrete scenario 4: the state reached
// after seeing both A and B (not-coexistence_4) must be absorbing and
// non-accepting.
func Test_NotCoexistence(t *testing.T) {
	d, err := Build(Constraint{ID: "nc", SourceRef: "A", TargetRef: "B", Kind: NotCoexistence}, ab())
	assert.NoError(t, err)

	s1, _ := d.StateByName("not-coexistence_1")
	s4, _ := d.StateByName("not-coexistence_4")
	assert.False(t, d.IsAccepting(s4))

	afterA, _ := d.Next(s1, "A")
	afterAB, _ := d.Next(afterA, "B")
	assert.Equal(t, s4, afterAB)

	for _, a := range d.Alphabet().Sorted() {
		to, _ := d.Next(s4, a)
		assert.Equal(t, s4, to)
	}
}

func Test_NegChainSuccession_hasFiveStates(t *testing.T) {
	d, err := Build(Constraint{ID: "ncs", SourceRef: "A", TargetRef: "B", Kind: NegChainSuccession}, ab())
	assert.NoError(t, err)
	assert.Equal(t, 5, d.Len())
}

func Test_AltSuccession_ownTemplate(t *testing.T) {
	d, err := Build(Constraint{ID: "as", SourceRef: "A", TargetRef: "B", Kind: AltSuccession}, ab())
	assert.NoError(t, err)
	_, ok := d.StateByName("alt_succession_1")
	assert.True(t, ok)
}

// Test_AltSuccession_sourceEqualsTarget matches spec §4.2's explicit
// requirement that a=source ∧ a=target is handled when the same label
// serves both roles: from alt_succession_1, that label must route to
// alt_succession_2, not self-loop.
func Test_AltSuccession_sourceEqualsTarget(t *testing.T) {
	d, err := Build(Constraint{ID: "as", SourceRef: "A", TargetRef: "A", Kind: AltSuccession}, util.StringSetOf([]string{"A"}))
	assert.NoError(t, err)

	s1, _ := d.StateByName("alt_succession_1")
	s2, _ := d.StateByName("alt_succession_2")

	to, _ := d.Next(s1, "A")
	assert.Equal(t, s2, to)
}
