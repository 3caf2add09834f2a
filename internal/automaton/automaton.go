// Package automaton provides the universal DFA container used at every
// stage of the pipeline: a bare process automaton, the multi-process
// automaton, and the final hybrid (multi-process + constraints) automaton
// are all values of the same generic DFA[E] type, differing only in what
// payload E each state carries.
//
// States are identified internally by an interned StateID (a small int),
// never by their display name, so that product states - whose names are
// conceptually tuples of component state names - can be hashed and compared
// cheaply regardless of how deep the composition has grown. The display
// name is computed once at AddState time and is consulted for lookups by
// name (StateByName), for naming composed states, for String() and for the
// wire rendering at the package boundary, never for state identity.
package automaton

import (
	"fmt"
	"strings"

	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/util"
)

// StateID is an interned, dense identifier for a state within a single DFA
// value. It is never meaningful across two different DFA values.
type StateID int

// Tuple is the payload carried by every state of a multi-process or hybrid
// DFA: one component StateID per process (and, as constraints are folded
// in, one further component per constraint already composed), in the order
// those automata were composed.
type Tuple []StateID

// Transition is one (label, target) edge out of some state.
type Transition struct {
	Label string
	To    StateID
}

type dfaState[E any] struct {
	id          StateID
	name        string
	value       E
	accepting   bool
	transitions map[string]StateID
}

// DFA is a deterministic finite automaton whose states carry a payload of
// type E. E is `struct{}` for a plain process automaton, and Tuple for the
// multi-process and hybrid automata built up by package compose.
type DFA[E any] struct {
	nextID StateID
	states map[StateID]*dfaState[E]
	byName map[string]StateID

	alphabet  util.StringSet
	initial   util.KeySet[StateID]
	accepting util.KeySet[StateID]
	errorSet  util.KeySet[StateID]
}

// New returns an empty DFA ready to have states and transitions added to it.
func New[E any]() *DFA[E] {
	return &DFA[E]{
		states:    map[StateID]*dfaState[E]{},
		byName:    map[string]StateID{},
		alphabet:  util.NewStringSet(),
		initial:   util.NewKeySet[StateID](),
		accepting: util.NewKeySet[StateID](),
		errorSet:  util.NewKeySet[StateID](),
	}
}

// AddState adds a new, transitionless state with the given display name and
// accepting flag, and returns its interned ID. Panics if the name is already
// in use; that is a construction-time programmer error, not a runtime input
// error.
func (d *DFA[E]) AddState(name string, accepting bool) StateID {
	if _, ok := d.byName[name]; ok {
		panic(fmt.Sprintf("automaton: state %q already exists", name))
	}

	id := d.nextID
	d.nextID++

	d.states[id] = &dfaState[E]{
		id:          id,
		name:        name,
		accepting:   accepting,
		transitions: map[string]StateID{},
	}
	d.byName[name] = id

	if accepting {
		d.accepting.Add(id)
	}

	return id
}

// AddTransition records that, from state, on label, the DFA moves to
// target. Both states must already exist. Overwrites any existing
// transition on the same (state, label) pair; totalization checks Next
// first so that it only fills in the missing pairs.
func (d *DFA[E]) AddTransition(state StateID, label string, target StateID) {
	s, ok := d.states[state]
	if !ok {
		panic(fmt.Sprintf("automaton: add transition from non-existent state %d", state))
	}
	if _, ok := d.states[target]; !ok {
		panic(fmt.Sprintf("automaton: add transition to non-existent state %d", target))
	}

	s.transitions[label] = target
	d.alphabet.Add(label)
}

// SetValue assigns the payload of the given state.
func (d *DFA[E]) SetValue(state StateID, v E) {
	s, ok := d.states[state]
	if !ok {
		panic(fmt.Sprintf("automaton: set value on non-existent state %d", state))
	}
	s.value = v
}

// Value returns the payload of the given state.
func (d *DFA[E]) Value(state StateID) E {
	return d.states[state].value
}

// Name returns the display name given to state at AddState time.
func (d *DFA[E]) Name(state StateID) string {
	return d.states[state].name
}

// StateByName looks up a state by its display name, as assigned at AddState
// time.
func (d *DFA[E]) StateByName(name string) (StateID, bool) {
	id, ok := d.byName[name]
	return id, ok
}

// SetInitial replaces the initial-state set.
func (d *DFA[E]) SetInitial(states util.KeySet[StateID]) {
	d.initial = states
}

// AddInitial adds one state to the initial-state set.
func (d *DFA[E]) AddInitial(state StateID) {
	d.initial.Add(state)
}

// MarkError adds one state to the error set. The state must already exist.
func (d *DFA[E]) MarkError(state StateID) {
	d.errorSet.Add(state)
}

// States returns the set of all state IDs in the DFA.
func (d *DFA[E]) States() util.KeySet[StateID] {
	s := util.NewKeySet[StateID]()
	for id := range d.states {
		s.Add(id)
	}
	return s
}

// Len returns the number of states in the DFA.
func (d *DFA[E]) Len() int { return len(d.states) }

// Alphabet returns Σ, the set of activity labels mentioned by any
// transition or explicitly set via SetAlphabet.
func (d *DFA[E]) Alphabet() util.StringSet {
	return d.alphabet
}

// SetAlphabet forces the alphabet to exactly the given set, useful when a
// symbol must be part of Σ despite having no transition defined for it yet
// (e.g. before totalization, or when a process must be widened to a union
// alphabet ahead of composition).
func (d *DFA[E]) SetAlphabet(alphabet util.StringSet) {
	d.alphabet = alphabet
}

// Initial returns the initial-state set.
func (d *DFA[E]) Initial() util.KeySet[StateID] { return d.initial }

// Accepting returns the accepting-state set.
func (d *DFA[E]) Accepting() util.KeySet[StateID] { return d.accepting }

// Error returns the error-state set.
func (d *DFA[E]) Error() util.KeySet[StateID] { return d.errorSet }

// IsAccepting reports whether state is in the accepting set.
func (d *DFA[E]) IsAccepting(state StateID) bool { return d.accepting.Has(state) }

// IsError reports whether state is in the error set.
func (d *DFA[E]) IsError(state StateID) bool { return d.errorSet.Has(state) }

// Next returns the target of the transition out of state on label, and
// whether that transition exists.
func (d *DFA[E]) Next(state StateID, label string) (StateID, bool) {
	s, ok := d.states[state]
	if !ok {
		return 0, false
	}
	t, ok := s.transitions[label]
	return t, ok
}

// Transitions returns every (label, target) pair defined for state, in no
// particular order.
func (d *DFA[E]) Transitions(state StateID) []Transition {
	s, ok := d.states[state]
	if !ok {
		return nil
	}
	out := make([]Transition, 0, len(s.transitions))
	for label, to := range s.transitions {
		out = append(out, Transition{Label: label, To: to})
	}
	return out
}

// Validate checks that initial/accepting/error are all subsets of the
// state set, that accepting and error are disjoint, and that every
// transition target exists. It deliberately does not check reachability or
// totality, since those only hold at specific points in the pipeline (e.g.
// totality only after totalization); those are asserted by the tests that
// exercise those specific stages.
func (d *DFA[E]) Validate() error {
	for _, id := range d.initial.Elements() {
		if _, ok := d.states[id]; !ok {
			return fmt.Errorf("automaton: initial state %d does not exist", id)
		}
	}
	for _, id := range d.accepting.Elements() {
		if _, ok := d.states[id]; !ok {
			return fmt.Errorf("automaton: accepting state %d does not exist", id)
		}
		if d.errorSet.Has(id) {
			return fmt.Errorf("automaton: state %d is both accepting and error", id)
		}
	}
	for _, id := range d.errorSet.Elements() {
		if _, ok := d.states[id]; !ok {
			return fmt.Errorf("automaton: error state %d does not exist", id)
		}
	}
	for id, s := range d.states {
		for label, to := range s.transitions {
			if _, ok := d.states[to]; !ok {
				return fmt.Errorf("automaton: state %d transitions on %q to non-existent state %d", id, label, to)
			}
		}
	}
	return nil
}

func (d *DFA[E]) String() string {
	var sb strings.Builder

	ids := util.OrderedKeys(d.states)
	fmt.Fprintf(&sb, "<STATES: %d, Σ: %s", len(ids), strings.Join(d.alphabet.Sorted(), ","))

	for _, id := range ids {
		s := d.states[id]
		sb.WriteString("\n\t")
		if d.initial.Has(id) {
			sb.WriteRune('>')
		}
		sb.WriteString(s.name)
		if s.accepting {
			sb.WriteString(" (accept)")
		}
		if d.errorSet.Has(id) {
			sb.WriteString(" (error)")
		}
		for _, label := range util.OrderedKeys(s.transitions) {
			fmt.Fprintf(&sb, " --%s--> %s", label, d.states[s.transitions[label]].name)
		}
	}
	sb.WriteRune('>')

	return sb.String()
}
