package hpc

import (
	"encoding/json"
	"sort"

	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/store"
)

// ToSnapshot flattens p into the shape internal/store persists to the
// result cache: plain maps and slices of ints and strings, independent
// of the live automaton.DFA representation, so a cached run can be
// rendered to the same wire JSON a fresh run would produce without
// reconstructing a *ColoredProductDFA.
func (p *ColoredProductDFA) ToSnapshot() *store.Snapshot {
	d := p.dfa
	ids := sortedStateIDs(d)

	snap := &store.Snapshot{
		Names:         map[int]string{},
		Values:        map[int][]int{},
		Alphabet:      d.Alphabet().Sorted(),
		Transitions:   map[int][]store.TransitionRecord{},
		ConstraintIDs: append([]string(nil), p.constraintIDs...),
		Colors:        map[int][]string{},
	}

	if cur, ok := p.Current(); ok {
		snap.Current = cur
	}

	for _, id := range ids {
		iid := int(id)
		snap.Names[iid] = d.Name(id)

		val := d.Value(id)
		ivals := make([]int, len(val))
		for i, v := range val {
			ivals[i] = int(v)
		}
		snap.Values[iid] = ivals

		if d.IsAccepting(id) {
			snap.Accepting = append(snap.Accepting, iid)
		}
		if d.Initial().Has(id) {
			snap.Initial = append(snap.Initial, iid)
		}
		if d.IsError(id) {
			snap.ErrorStates = append(snap.ErrorStates, iid)
		}

		trans := d.Transitions(id)
		recs := make([]store.TransitionRecord, 0, len(trans))
		for _, t := range trans {
			recs = append(recs, store.TransitionRecord{Label: t.Label, To: int(t.To)})
		}
		snap.Transitions[iid] = recs

		if d.IsError(id) {
			continue
		}
		tags := make([]string, len(p.constraintIDs))
		for j := range p.constraintIDs {
			if c, ok := p.colors[j][id]; ok {
				tags[j] = colorTag(c)
			}
		}
		snap.Colors[iid] = tags
	}

	return snap
}

// errorStateSet is a small helper over a Snapshot's ErrorStates slice,
// used by RenderSnapshotJSON to skip error states the same way
// MarshalJSON does for a live ColoredProductDFA.
func errorStateSet(snap *store.Snapshot) map[int]bool {
	s := make(map[int]bool, len(snap.ErrorStates))
	for _, id := range snap.ErrorStates {
		s[id] = true
	}
	return s
}

// RenderSnapshotJSON renders a cached Snapshot in the same §6 wire
// format MarshalJSON produces for a freshly computed ColoredProductDFA,
// so a cache hit and a cache miss are indistinguishable to a consumer
// of the CLI's output.
func RenderSnapshotJSON(snap *store.Snapshot) ([]byte, error) {
	isError := errorStateSet(snap)

	ids := make([]int, 0, len(snap.Names))
	for id := range snap.Names {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return snap.Names[ids[i]] < snap.Names[ids[j]] })

	initialSet := map[int]bool{}
	for _, id := range snap.Initial {
		initialSet[id] = true
	}
	acceptingSet := map[int]bool{}
	for _, id := range snap.Accepting {
		acceptingSet[id] = true
	}

	wireName := func(id int) string { return "(" + snap.Names[id] + ")" }

	w := wireProduct{
		States:              make([]string, 0, len(ids)),
		Alphabet:            snap.Alphabet,
		TransitionFunction:  map[string][]wireTransition{},
		Initial:             []string{},
		Accepting:           []string{},
		Colors:              map[string][]wireColorEntry{},
	}
	if snap.Current != "" {
		w.Current = "(" + snap.Current + ")"
	}

	for _, id := range ids {
		name := wireName(id)
		w.States = append(w.States, name)
		if initialSet[id] {
			w.Initial = append(w.Initial, name)
		}
		if acceptingSet[id] {
			w.Accepting = append(w.Accepting, name)
		}

		recs := snap.Transitions[id]
		rendered := make([]wireTransition, 0, len(recs))
		for _, t := range recs {
			rendered = append(rendered, wireTransition{Symbol: t.Label, Target: wireName(t.To)})
		}
		sort.Slice(rendered, func(i, j int) bool { return rendered[i].Symbol < rendered[j].Symbol })
		w.TransitionFunction[name] = rendered

		if isError[id] {
			continue
		}
		tags := snap.Colors[id]
		entries := make([]wireColorEntry, 0, len(snap.ConstraintIDs))
		for j, cid := range snap.ConstraintIDs {
			if j < len(tags) && tags[j] != "" {
				entries = append(entries, wireColorEntry{ConstraintID: cid, Color: tags[j]})
			}
		}
		w.Colors[name] = entries
	}

	return json.Marshal(w)
}
