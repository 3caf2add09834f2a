package hpc

import (
	"encoding/json"
	"sort"

	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/color"
)

// wireTransition is one edge as rendered at the §6 wire boundary: a
// list of {symbol, target} objects rather than a map, so JSON output is
// order-stable once the caller sorts states.
type wireTransition struct {
	Symbol string `json:"symbol"`
	Target string `json:"target"`
}

// wireColorEntry is one constraint's color for a single state.
type wireColorEntry struct {
	ConstraintID string `json:"constraint_id"`
	Color        string `json:"color"`
}

// wireProduct is the JSON rendering of a ColoredProductDFA. Tuple states
// are rendered as "(c1,c2,...,ck)" with comma separation and no
// intra-comma spaces; all sets are rendered as lists. It is the only wire
// shape package hpc produces (MarshalJSON and RenderSnapshotJSON both fill
// it) - every internal comparison stays on structured StateID/Tuple values.
type wireProduct struct {
	Current            string                      `json:"current,omitempty"`
	States              []string                    `json:"states"`
	Alphabet            []string                    `json:"alphabet"`
	TransitionFunction  map[string][]wireTransition `json:"transition_function"`
	Initial             []string                    `json:"initial"`
	Accepting           []string                    `json:"accepting"`
	Colors              map[string][]wireColorEntry `json:"colors"`
}

// colorTag maps a color.Color to the wire tag spec.md §6 names for it.
func colorTag(c color.Color) string {
	switch c {
	case color.ColorSatisfied:
		return "satisfied"
	case color.ColorViolated:
		return "violated"
	case color.ColorTemporarilySatisfied:
		return "temporary_satisfied"
	case color.ColorTemporarilyViolated:
		return "temporary_violated"
	default:
		return "violated"
	}
}

// MarshalJSON renders p in the §6 wire format.
func (p *ColoredProductDFA) MarshalJSON() ([]byte, error) {
	d := p.dfa
	ids := sortedStateIDs(d)

	w := wireProduct{
		States:             make([]string, 0, len(ids)),
		Alphabet:           d.Alphabet().Sorted(),
		TransitionFunction: map[string][]wireTransition{},
		Initial:            []string{},
		Accepting:          []string{},
		Colors:             map[string][]wireColorEntry{},
	}

	if cur, ok := p.Current(); ok {
		w.Current = "(" + cur + ")"
	}

	for _, id := range ids {
		name := tupleName(d, id)
		w.States = append(w.States, name)

		if d.Initial().Has(id) {
			w.Initial = append(w.Initial, name)
		}
		if d.IsAccepting(id) {
			w.Accepting = append(w.Accepting, name)
		}

		trans := d.Transitions(id)
		rendered := make([]wireTransition, 0, len(trans))
		for _, t := range trans {
			rendered = append(rendered, wireTransition{Symbol: t.Label, Target: tupleName(d, t.To)})
		}
		sort.Slice(rendered, func(i, j int) bool { return rendered[i].Symbol < rendered[j].Symbol })
		w.TransitionFunction[name] = rendered

		if d.IsError(id) {
			continue
		}
		entries := make([]wireColorEntry, 0, len(p.constraintIDs))
		for j, cid := range p.constraintIDs {
			if c, ok := p.colors[j][id]; ok {
				entries = append(entries, wireColorEntry{ConstraintID: cid, Color: colorTag(c)})
			}
		}
		w.Colors[name] = entries
	}

	return json.Marshal(w)
}
