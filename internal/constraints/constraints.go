// Package constraints builds the eighteen fixed Declare-family constraint
// templates (C2): small, parameterized DFAs over a shared alphabet that
// encode patterns like "p eventually occurs" or "every p is immediately
// followed by q". Every template returns a fresh, immutable automaton.DFA
// value with its own private state namespace (e.g. "resp-existence_1"), an
// empty error set, and the given alphabet attached in full - templates
// never restrict Σ to just the labels they mention.
package constraints

import (
	"fmt"

	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/automaton"
	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/hpcerrors"
	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/util"
)

// Kind names one of the eighteen constraint templates.
type Kind string

const (
	Existence          Kind = "existence"
	Absence2           Kind = "absence2"
	Choice             Kind = "choice"
	ExcChoice          Kind = "exc-choice"
	RespExistence      Kind = "resp-existence"
	Coexistence        Kind = "coexistence"
	Response           Kind = "response"
	Precedence         Kind = "precedence"
	Succession         Kind = "succession"
	AltResponse        Kind = "alt-response"
	AltPrecedence      Kind = "alt-precedence"
	AltSuccession      Kind = "alt-succession"
	ChainResponse      Kind = "chain-response"
	ChainPrecedence    Kind = "chain-precedence"
	ChainSuccession    Kind = "chain-succession"
	NotCoexistence     Kind = "not-coexistence"
	NegSuccession      Kind = "neg-succession"
	NegChainSuccession Kind = "neg-chain-succession"
)

// allKinds is used to build a human-readable list for UnknownConstraintKind
// error messages, in declaration order (matches the §4.2 enumeration).
var allKinds = []Kind{
	Existence, Absence2, Choice, ExcChoice, RespExistence, Coexistence,
	Response, Precedence, Succession, AltResponse, AltPrecedence, AltSuccession,
	ChainResponse, ChainPrecedence, ChainSuccession, NotCoexistence,
	NegSuccession, NegChainSuccession,
}

// Constraint is one row of the constraint input contract: an id unique
// within the run, a source/target activity-label pair (target may be empty
// for unary constraints), and a kind naming one of the eighteen templates.
type Constraint struct {
	ID        string
	SourceRef string
	TargetRef string
	Kind      Kind
}

// Build dispatches on c.Kind and returns the corresponding template DFA
// instantiated over alphabet with c.SourceRef/c.TargetRef as the p/q
// labels. Returns hpcerrors.UnknownConstraintKind if c.Kind does not name
// one of the eighteen templates.
func Build(c Constraint, alphabet util.StringSet) (*automaton.DFA[struct{}], error) {
	switch c.Kind {
	case Existence:
		return existenceDFA(c.SourceRef, alphabet), nil
	case Absence2:
		return absence2DFA(c.SourceRef, alphabet), nil
	case Choice:
		return choiceDFA(c.SourceRef, c.TargetRef, alphabet), nil
	case ExcChoice:
		return excChoiceDFA(c.SourceRef, c.TargetRef, alphabet), nil
	case RespExistence:
		return respExistenceDFA(c.SourceRef, c.TargetRef, alphabet), nil
	case Coexistence:
		return coexistenceDFA(c.SourceRef, c.TargetRef, alphabet), nil
	case Response:
		return responseDFA(c.SourceRef, c.TargetRef, alphabet), nil
	case Precedence:
		return precedenceDFA(c.SourceRef, c.TargetRef, alphabet), nil
	case Succession:
		return successionDFA(c.SourceRef, c.TargetRef, alphabet), nil
	case AltResponse:
		return altResponseDFA(c.SourceRef, c.TargetRef, alphabet), nil
	case AltPrecedence:
		return altPrecedenceDFA(c.SourceRef, c.TargetRef, alphabet), nil
	case AltSuccession:
		return altSuccessionDFA(c.SourceRef, c.TargetRef, alphabet), nil
	case ChainResponse:
		return chainResponseDFA(c.SourceRef, c.TargetRef, alphabet), nil
	case ChainPrecedence:
		return chainPrecedenceDFA(c.SourceRef, c.TargetRef, alphabet), nil
	case ChainSuccession:
		return chainSuccessionDFA(c.SourceRef, c.TargetRef, alphabet), nil
	case NotCoexistence:
		return notCoexistenceDFA(c.SourceRef, c.TargetRef, alphabet), nil
	case NegSuccession:
		return negSuccessionDFA(c.SourceRef, c.TargetRef, alphabet), nil
	case NegChainSuccession:
		return negChainSuccessionDFA(c.SourceRef, c.TargetRef, alphabet), nil
	default:
		valid := make([]string, len(allKinds))
		for i, k := range allKinds {
			valid[i] = string(k)
		}
		return nil, hpcerrors.UnknownConstraintKind{
			Kind:  string(c.Kind),
			Valid: valid,
		}
	}
}

// namespace returns "<prefix>_<n>" for n in [1, count], the per-template
// state-name convention used throughout §4.2 (e.g. "existence_1",
// "existence_2").
func namespace(prefix string, n int) string {
	return fmt.Sprintf("%s_%d", prefix, n)
}

func existenceDFA(source string, alphabet util.StringSet) *automaton.DFA[struct{}] {
	d := automaton.New[struct{}]()
	s1 := d.AddState(namespace("existence", 1), false)
	s2 := d.AddState(namespace("existence", 2), true)
	d.SetAlphabet(alphabet)
	d.AddInitial(s1)

	for _, a := range alphabet.Sorted() {
		if a == source {
			d.AddTransition(s1, a, s2)
		} else {
			d.AddTransition(s1, a, s1)
		}
		d.AddTransition(s2, a, s2)
	}
	return d
}

func absence2DFA(source string, alphabet util.StringSet) *automaton.DFA[struct{}] {
	d := automaton.New[struct{}]()
	s1 := d.AddState(namespace("absence2", 1), true)
	s2 := d.AddState(namespace("absence2", 2), true)
	s3 := d.AddState(namespace("absence2", 3), false)
	d.SetAlphabet(alphabet)
	d.AddInitial(s1)

	for _, a := range alphabet.Sorted() {
		if a == source {
			d.AddTransition(s1, a, s2)
			d.AddTransition(s2, a, s3)
		} else {
			d.AddTransition(s1, a, s1)
			d.AddTransition(s2, a, s2)
		}
		d.AddTransition(s3, a, s3)
	}
	return d
}

func choiceDFA(source, target string, alphabet util.StringSet) *automaton.DFA[struct{}] {
	d := automaton.New[struct{}]()
	s1 := d.AddState(namespace("choice", 1), false)
	s2 := d.AddState(namespace("choice", 2), true)
	d.SetAlphabet(alphabet)
	d.AddInitial(s1)

	for _, a := range alphabet.Sorted() {
		if a == source || a == target {
			d.AddTransition(s1, a, s2)
		} else {
			d.AddTransition(s1, a, s1)
		}
		d.AddTransition(s2, a, s2)
	}
	return d
}

func excChoiceDFA(source, target string, alphabet util.StringSet) *automaton.DFA[struct{}] {
	d := automaton.New[struct{}]()
	s1 := d.AddState(namespace("exc-choice", 1), false)
	s2 := d.AddState(namespace("exc-choice", 2), true)
	s3 := d.AddState(namespace("exc-choice", 3), true)
	s4 := d.AddState(namespace("exc-choice", 4), false)
	d.SetAlphabet(alphabet)
	d.AddInitial(s1)

	for _, a := range alphabet.Sorted() {
		switch {
		case a == source && a == target:
			d.AddTransition(s1, a, s4)
		case a == source:
			d.AddTransition(s1, a, s3)
		case a == target:
			d.AddTransition(s1, a, s2)
		default:
			d.AddTransition(s1, a, s1)
		}

		if a == source {
			d.AddTransition(s2, a, s4)
		} else {
			d.AddTransition(s2, a, s2)
		}

		if a == target {
			d.AddTransition(s3, a, s4)
		} else {
			d.AddTransition(s3, a, s3)
		}

		d.AddTransition(s4, a, s4)
	}
	return d
}

func respExistenceDFA(source, target string, alphabet util.StringSet) *automaton.DFA[struct{}] {
	d := automaton.New[struct{}]()
	s1 := d.AddState(namespace("resp-existence", 1), true)
	s2 := d.AddState(namespace("resp-existence", 2), true)
	s3 := d.AddState(namespace("resp-existence", 3), false)
	d.SetAlphabet(alphabet)
	d.AddInitial(s1)

	for _, a := range alphabet.Sorted() {
		switch {
		case a == target:
			d.AddTransition(s1, a, s2)
			d.AddTransition(s3, a, s2)
		case a == source:
			d.AddTransition(s1, a, s3)
		default:
			d.AddTransition(s1, a, s1)
		}

		if a != target {
			d.AddTransition(s3, a, s3)
		}
		d.AddTransition(s2, a, s2)
	}
	return d
}

func coexistenceDFA(source, target string, alphabet util.StringSet) *automaton.DFA[struct{}] {
	d := automaton.New[struct{}]()
	s1 := d.AddState(namespace("coexistence", 1), true)
	s2 := d.AddState(namespace("coexistence", 2), false)
	s3 := d.AddState(namespace("coexistence", 3), false)
	s4 := d.AddState(namespace("coexistence", 4), true)
	d.SetAlphabet(alphabet)
	d.AddInitial(s1)

	for _, a := range alphabet.Sorted() {
		switch {
		case a == source && a == target:
			d.AddTransition(s1, a, s4)
		case a == source:
			d.AddTransition(s1, a, s3)
		case a == target:
			d.AddTransition(s1, a, s2)
		default:
			d.AddTransition(s1, a, s1)
		}

		if a == source {
			d.AddTransition(s2, a, s4)
		} else {
			d.AddTransition(s2, a, s2)
		}

		if a == target {
			d.AddTransition(s3, a, s4)
		} else {
			d.AddTransition(s3, a, s3)
		}

		d.AddTransition(s4, a, s4)
	}
	return d
}

func responseDFA(source, target string, alphabet util.StringSet) *automaton.DFA[struct{}] {
	d := automaton.New[struct{}]()
	s1 := d.AddState(namespace("response", 1), true)
	s2 := d.AddState(namespace("response", 2), false)
	d.SetAlphabet(alphabet)
	d.AddInitial(s1)

	for _, a := range alphabet.Sorted() {
		if a == source && a != target {
			d.AddTransition(s1, a, s2)
		} else {
			d.AddTransition(s1, a, s1)
		}

		if a == target {
			d.AddTransition(s2, a, s1)
		} else {
			d.AddTransition(s2, a, s2)
		}
	}
	return d
}

func precedenceDFA(source, target string, alphabet util.StringSet) *automaton.DFA[struct{}] {
	d := automaton.New[struct{}]()
	s1 := d.AddState(namespace("precedence", 1), true)
	s2 := d.AddState(namespace("precedence", 2), true)
	s3 := d.AddState(namespace("precedence", 3), false)
	d.SetAlphabet(alphabet)
	d.AddInitial(s1)

	for _, a := range alphabet.Sorted() {
		switch {
		case a == source:
			d.AddTransition(s1, a, s2)
		case a == target:
			d.AddTransition(s1, a, s3)
		default:
			d.AddTransition(s1, a, s1)
		}
		d.AddTransition(s2, a, s2)
		d.AddTransition(s3, a, s3)
	}
	return d
}

func successionDFA(source, target string, alphabet util.StringSet) *automaton.DFA[struct{}] {
	d := automaton.New[struct{}]()
	s1 := d.AddState(namespace("succession", 1), false)
	s2 := d.AddState(namespace("succession", 2), false)
	s3 := d.AddState(namespace("succession", 3), false)
	s4 := d.AddState(namespace("succession", 4), true)
	d.SetAlphabet(alphabet)
	d.AddInitial(s1)

	for _, a := range alphabet.Sorted() {
		switch {
		case a == source && a == target:
			d.AddTransition(s1, a, s4)
		case a == source:
			d.AddTransition(s1, a, s3)
		case a == target:
			d.AddTransition(s1, a, s2)
		default:
			d.AddTransition(s1, a, s1)
		}

		d.AddTransition(s2, a, s2)

		if a == target {
			d.AddTransition(s3, a, s4)
		} else {
			d.AddTransition(s3, a, s3)
		}

		if a == source && a != target {
			d.AddTransition(s4, a, s3)
		} else {
			d.AddTransition(s4, a, s4)
		}
	}
	return d
}

func altResponseDFA(source, target string, alphabet util.StringSet) *automaton.DFA[struct{}] {
	d := automaton.New[struct{}]()
	s1 := d.AddState(namespace("alt-response", 1), true)
	s2 := d.AddState(namespace("alt-response", 2), false)
	s3 := d.AddState(namespace("alt-response", 3), false)
	d.SetAlphabet(alphabet)
	d.AddInitial(s1)

	for _, a := range alphabet.Sorted() {
		if a == source {
			d.AddTransition(s1, a, s2)
		} else {
			d.AddTransition(s1, a, s1)
		}

		switch {
		case a == source && a != target:
			d.AddTransition(s2, a, s3)
		case a == target && a != source:
			d.AddTransition(s2, a, s1)
		default:
			d.AddTransition(s2, a, s2)
		}

		d.AddTransition(s3, a, s3)
	}
	return d
}

func altPrecedenceDFA(source, target string, alphabet util.StringSet) *automaton.DFA[struct{}] {
	d := automaton.New[struct{}]()
	s1 := d.AddState(namespace("alt-precedence", 1), true)
	s2 := d.AddState(namespace("alt-precedence", 2), true)
	s3 := d.AddState(namespace("alt-precedence", 3), false)
	d.SetAlphabet(alphabet)
	d.AddInitial(s1)

	for _, a := range alphabet.Sorted() {
		switch {
		case a == source && a != target:
			d.AddTransition(s1, a, s2)
		case a == target && a != source:
			d.AddTransition(s1, a, s3)
		default:
			d.AddTransition(s1, a, s1)
		}

		if a == target {
			d.AddTransition(s2, a, s1)
		} else {
			d.AddTransition(s2, a, s2)
		}

		d.AddTransition(s3, a, s3)
	}
	return d
}

// altSuccessionDFA implements alt-succession as its own three-state
// template per §4.2, rather than dispatching it to alt-precedence - the
// original source's dispatcher has a duplicated branch that makes this
// template unreachable there.
func altSuccessionDFA(source, target string, alphabet util.StringSet) *automaton.DFA[struct{}] {
	d := automaton.New[struct{}]()
	s1 := d.AddState(namespace("alt_succession", 1), true)
	s2 := d.AddState(namespace("alt_succession", 2), false)
	s3 := d.AddState(namespace("alt_succession", 3), false)
	d.SetAlphabet(alphabet)
	d.AddInitial(s1)

	for _, a := range alphabet.Sorted() {
		switch {
		case a == target:
			d.AddTransition(s1, a, s2)
		case a == source:
			d.AddTransition(s1, a, s3)
		default:
			d.AddTransition(s1, a, s1)
		}

		d.AddTransition(s2, a, s2)

		switch {
		case a == source:
			d.AddTransition(s3, a, s2)
		case a == target && a != source:
			d.AddTransition(s3, a, s1)
		default:
			d.AddTransition(s3, a, s3)
		}
	}
	return d
}

func chainResponseDFA(source, target string, alphabet util.StringSet) *automaton.DFA[struct{}] {
	d := automaton.New[struct{}]()
	s1 := d.AddState(namespace("chain-response", 1), true)
	s2 := d.AddState(namespace("chain-response", 2), false)
	s3 := d.AddState(namespace("chain-response", 3), false)
	d.SetAlphabet(alphabet)
	d.AddInitial(s1)

	for _, a := range alphabet.Sorted() {
		if a == source {
			d.AddTransition(s1, a, s2)
		} else {
			d.AddTransition(s1, a, s1)
		}

		switch {
		case a == source && a == target:
			d.AddTransition(s2, a, s2)
		case a == target:
			d.AddTransition(s2, a, s1)
		default:
			d.AddTransition(s2, a, s3)
		}

		d.AddTransition(s3, a, s3)
	}
	return d
}

func chainPrecedenceDFA(source, target string, alphabet util.StringSet) *automaton.DFA[struct{}] {
	d := automaton.New[struct{}]()
	s1 := d.AddState(namespace("chain-precedence", 1), true)
	s2 := d.AddState(namespace("chain-precedence", 2), true)
	s3 := d.AddState(namespace("chain-precedence", 3), false)
	d.SetAlphabet(alphabet)
	d.AddInitial(s1)

	for _, a := range alphabet.Sorted() {
		if a == source {
			d.AddTransition(s1, a, s1)
		} else {
			d.AddTransition(s1, a, s2)
		}

		switch {
		case a == target:
			d.AddTransition(s2, a, s3)
		case a == source:
			d.AddTransition(s2, a, s1)
		default:
			d.AddTransition(s2, a, s2)
		}

		d.AddTransition(s3, a, s3)
	}
	return d
}

func chainSuccessionDFA(source, target string, alphabet util.StringSet) *automaton.DFA[struct{}] {
	d := automaton.New[struct{}]()
	s1 := d.AddState(namespace("chain-succession", 1), true)
	s2 := d.AddState(namespace("chain-succession", 2), true)
	s3 := d.AddState(namespace("chain-succession", 3), false)
	s4 := d.AddState(namespace("chain-succession", 4), false)
	d.SetAlphabet(alphabet)
	d.AddInitial(s1)

	for _, a := range alphabet.Sorted() {
		if a == source {
			d.AddTransition(s1, a, s3)
		} else {
			d.AddTransition(s1, a, s2)
		}

		switch {
		case a == target:
			d.AddTransition(s2, a, s4)
		case a == source:
			d.AddTransition(s2, a, s3)
		default:
			d.AddTransition(s2, a, s2)
		}

		switch {
		case a == source && a == target:
			d.AddTransition(s3, a, s3)
		case a == target:
			d.AddTransition(s3, a, s2)
		default:
			d.AddTransition(s3, a, s4)
		}

		d.AddTransition(s4, a, s4)
	}
	return d
}

func notCoexistenceDFA(source, target string, alphabet util.StringSet) *automaton.DFA[struct{}] {
	d := automaton.New[struct{}]()
	s1 := d.AddState(namespace("not-coexistence", 1), true)
	s2 := d.AddState(namespace("not-coexistence", 2), true)
	s3 := d.AddState(namespace("not-coexistence", 3), true)
	s4 := d.AddState(namespace("not-coexistence", 4), false)
	d.SetAlphabet(alphabet)
	d.AddInitial(s1)

	for _, a := range alphabet.Sorted() {
		switch {
		case a == source && a == target:
			d.AddTransition(s1, a, s4)
		case a == source:
			d.AddTransition(s1, a, s3)
		case a == target:
			d.AddTransition(s1, a, s2)
		default:
			d.AddTransition(s1, a, s1)
		}

		if a == source {
			d.AddTransition(s2, a, s4)
		} else {
			d.AddTransition(s2, a, s2)
		}

		if a == target {
			d.AddTransition(s3, a, s4)
		} else {
			d.AddTransition(s3, a, s3)
		}

		d.AddTransition(s4, a, s4)
	}
	return d
}

func negSuccessionDFA(source, target string, alphabet util.StringSet) *automaton.DFA[struct{}] {
	d := automaton.New[struct{}]()
	s1 := d.AddState(namespace("neg-succession", 1), true)
	s2 := d.AddState(namespace("neg-succession", 2), true)
	s3 := d.AddState(namespace("neg-succession", 3), false)
	d.SetAlphabet(alphabet)
	d.AddInitial(s1)

	for _, a := range alphabet.Sorted() {
		switch {
		case a == source && a == target:
			d.AddTransition(s1, a, s3)
		case a == source:
			d.AddTransition(s1, a, s2)
		default:
			d.AddTransition(s1, a, s1)
		}

		if a == target {
			d.AddTransition(s2, a, s3)
		} else {
			d.AddTransition(s2, a, s2)
		}

		d.AddTransition(s3, a, s3)
	}
	return d
}

// negChainSuccessionDFA builds the genuine five-state template per §4.2,
// resolving the Open Question left by the source's state-name
// concatenation bug (which silently produced only four states).
func negChainSuccessionDFA(source, target string, alphabet util.StringSet) *automaton.DFA[struct{}] {
	d := automaton.New[struct{}]()
	s1 := d.AddState(namespace("neg-chain-succession", 1), true)
	s2 := d.AddState(namespace("neg-chain-succession", 2), true)
	s3 := d.AddState(namespace("neg-chain-succession", 3), true)
	s4 := d.AddState(namespace("neg-chain-succession", 4), false)
	s5 := d.AddState(namespace("neg-chain-succession", 5), false)
	d.SetAlphabet(alphabet)
	d.AddInitial(s1)

	for _, a := range alphabet.Sorted() {
		switch {
		case a == source && a == target:
			d.AddTransition(s1, a, s4)
		case a == source:
			d.AddTransition(s1, a, s3)
		case a == target:
			d.AddTransition(s1, a, s2)
		default:
			d.AddTransition(s1, a, s1)
		}

		switch {
		case a == source:
			d.AddTransition(s2, a, s5)
		case a == target:
			d.AddTransition(s2, a, s2)
		default:
			d.AddTransition(s2, a, s1)
		}

		switch {
		case a == target:
			d.AddTransition(s3, a, s5)
		case a == source:
			d.AddTransition(s3, a, s3)
		default:
			d.AddTransition(s3, a, s1)
		}

		if a == source || a == target {
			d.AddTransition(s4, a, s5)
		} else {
			d.AddTransition(s4, a, s1)
		}

		d.AddTransition(s5, a, s5)
	}
	return d
}
