// Package hpc is the core of the hybrid process collaboration automata
// toolkit: given a set of concurrently executing process DFAs and a
// catalog of declarative inter-process constraints, it produces a single
// colored product automaton recording, for every reachable global
// configuration, whether each constraint is currently satisfied,
// violated, or only temporarily so.
//
// The package is single-threaded and synchronous: Generate performs all
// construction and coloring before returning and holds no state between
// calls. Parsing process models, transport, and rendering to a picture
// format are explicitly out of scope; callers supply already-derived
// ProcessDFA values and consume the returned ColoredProductDFA or render
// it to the wire format with MarshalJSON.
package hpc

import (
	"fmt"
	"sort"

	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/automaton"
	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/color"
	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/compose"
	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/constraints"
	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/hpcerrors"
	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/util"
)

// ProcessDFA is one process's automaton, as supplied by the (out of
// scope) producer that derives it from a process model. It need not be
// total on its own alphabet; Generate totalizes it via C3.
type ProcessDFA struct {
	States      []string            `json:"states" toml:"states"`
	Alphabet    []string            `json:"alphabet" toml:"alphabet"`
	Initial     []string            `json:"initial" toml:"initial"`
	Accepting   []string            `json:"accepting" toml:"accepting"`
	Transitions []ProcessTransition `json:"transitions" toml:"transitions"`
}

// ProcessTransition is one edge of a ProcessDFA.
type ProcessTransition struct {
	From  string `json:"from" toml:"from"`
	Label string `json:"label" toml:"label"`
	To    string `json:"to" toml:"to"`
}

// Constraint is one row of the constraint input contract: an id unique
// within a single Generate call, a source/target activity-label pair
// (TargetRef may be empty for unary constraints), and a kind naming one
// of the eighteen templates in the constraint catalog.
type Constraint struct {
	ID        string           `json:"id" toml:"id"`
	SourceRef string           `json:"sourceRef" toml:"source_ref"`
	TargetRef string           `json:"targetRef" toml:"target_ref"`
	Kind      constraints.Kind `json:"kind" toml:"kind"`
}

// ColoredProductDFA is the output of Generate: the fully composed and
// totalized hybrid DFA, plus the four-valued color assigned to every
// non-error state for every constraint that was folded in, in the order
// the constraints were supplied.
type ColoredProductDFA struct {
	dfa           *automaton.DFA[automaton.Tuple]
	constraintIDs []string
	colors        []color.Colors // colors[j] is the coloring for constraintIDs[j]
}

// Current returns the display name of the single initial state, and
// false if the product has no initial state (as when a process declares
// no initial state) or more than one.
func (p *ColoredProductDFA) Current() (string, bool) {
	init := p.dfa.Initial().Elements()
	if len(init) != 1 {
		return "", false
	}
	return p.dfa.Name(init[0]), true
}

// DFA exposes the underlying hybrid automaton for callers that need
// direct access to its states, transitions, or sets rather than the
// wire rendering.
func (p *ColoredProductDFA) DFA() *automaton.DFA[automaton.Tuple] {
	return p.dfa
}

// Color returns the color assigned to state for constraint constraintID,
// and false if either is unknown or state is an error state (error
// states receive no color).
func (p *ColoredProductDFA) Color(state automaton.StateID, constraintID string) (color.Color, bool) {
	for j, id := range p.constraintIDs {
		if id != constraintID {
			continue
		}
		c, ok := p.colors[j][state]
		return c, ok
	}
	return 0, false
}

// Generate is the single entry point of the core: given a list of
// process DFAs and a list of constraints, it totalizes and composes the
// processes (C3, C4), folds in each constraint in order (C2, C5, C6),
// and colors the result (C7).
//
// An empty process list is not an error: per the empty-input contract,
// Generate returns a degenerate product with one trivially accepting
// state and no colors.
func Generate(processes []ProcessDFA, cs []Constraint) (result *ColoredProductDFA, err error) {
	defer func() {
		if r := recover(); r != nil {
			if iv, ok := r.(error); ok {
				err = iv
				return
			}
			err = hpcerrors.WrapInvariant(nil, "%v", r)
		}
	}()

	if len(processes) == 0 {
		return emptyProduct(), nil
	}

	seen := map[string]bool{}
	for _, c := range cs {
		if seen[c.ID] {
			return nil, hpcerrors.DuplicateConstraintId{ID: c.ID}
		}
		seen[c.ID] = true
	}

	totalized := make([]*automaton.DFA[struct{}], len(processes))
	for i, p := range processes {
		built, err := buildProcessDFA(p)
		if err != nil {
			return nil, err
		}
		tot, err := automaton.Totalize(built, fmt.Sprintf("p%d", i), struct{}{})
		if err != nil {
			return nil, err
		}
		totalized[i] = tot
	}

	hybrid, err := compose.Processes(totalized)
	if err != nil {
		return nil, err
	}
	if len(processes) > 1 {
		hybrid = automaton.RewireErrors(hybrid, "multi", automaton.Tuple{})
	}

	constraintIDs := make([]string, len(cs))
	constraintDFAs := make([]*automaton.DFA[struct{}], len(cs))
	for j, c := range cs {
		k, err := constraints.Build(constraints.Constraint{
			ID:        c.ID,
			SourceRef: util.NormalizeLabel(c.SourceRef),
			TargetRef: util.NormalizeLabel(c.TargetRef),
			Kind:      c.Kind,
		}, hybrid.Alphabet())
		if err != nil {
			return nil, err
		}
		constraintDFAs[j] = k
		constraintIDs[j] = c.ID

		hybrid = compose.Constraint(hybrid, k)
		hybrid = automaton.RewireErrors(hybrid, fmt.Sprintf("c%d", j), automaton.Tuple{})
	}

	colors := make([]color.Colors, len(cs))
	for j, k := range constraintDFAs {
		colors[j] = color.Constraint(hybrid, len(processes), j, k)
	}

	return &ColoredProductDFA{dfa: hybrid, constraintIDs: constraintIDs, colors: colors}, nil
}

// emptyProduct builds the degenerate colored product for the zero
// process case: one trivially accepting state, no alphabet, no colors.
func emptyProduct() *ColoredProductDFA {
	d := automaton.New[automaton.Tuple]()
	id := d.AddState("EMPTY", true)
	d.SetValue(id, automaton.Tuple{})
	d.AddInitial(id)
	return &ColoredProductDFA{dfa: d, constraintIDs: nil, colors: nil}
}

// buildProcessDFA interns p's string-named states into a fresh
// automaton.DFA, validating that every initial state and every transition
// endpoint names a declared state. Accepting names that are not in the
// state list are ignored.
func buildProcessDFA(p ProcessDFA) (*automaton.DFA[struct{}], error) {
	d := automaton.New[struct{}]()

	alphabet := util.NewStringSet()
	for _, a := range p.Alphabet {
		alphabet.Add(util.NormalizeLabel(a))
	}
	d.SetAlphabet(alphabet)

	accepting := util.StringSetOf(p.Accepting)
	for _, name := range p.States {
		id := d.AddState(name, accepting.Has(name))
		d.SetValue(id, struct{}{})
	}

	for _, name := range p.Initial {
		id, ok := d.StateByName(name)
		if !ok {
			return nil, hpcerrors.WrapInvariant(nil, "process declares initial state %q not present in its state list", name)
		}
		d.AddInitial(id)
	}

	for _, t := range p.Transitions {
		from, ok := d.StateByName(t.From)
		if !ok {
			return nil, hpcerrors.WrapInvariant(nil, "process transition references unknown source state %q", t.From)
		}
		to, ok := d.StateByName(t.To)
		if !ok {
			return nil, hpcerrors.WrapInvariant(nil, "process transition references unknown target state %q", t.To)
		}
		d.AddTransition(from, util.NormalizeLabel(t.Label), to)
	}

	return d, nil
}

// tupleName renders a Tuple state's name as the wire format's
// "(c1,c2,...,ck)", where each ci is the display name automaton
// assigned to that component at the stage it was folded in - not
// re-derived here, since DFA.Name already holds the comma-joined name
// built incrementally by the composers.
func tupleName(d *automaton.DFA[automaton.Tuple], id automaton.StateID) string {
	return fmt.Sprintf("(%s)", d.Name(id))
}

// sortedStateIDs returns every state of d, error states included, in a
// fixed, deterministic order (sorted by display name), so that MarshalJSON
// and ToSnapshot produce byte-identical output across repeated runs over
// identical input.
func sortedStateIDs(d *automaton.DFA[automaton.Tuple]) []automaton.StateID {
	ids := d.States().Elements()
	sort.Slice(ids, func(i, j int) bool {
		return d.Name(ids[i]) < d.Name(ids[j])
	})
	return ids
}
