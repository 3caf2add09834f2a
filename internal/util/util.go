package util

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeLabel applies NFC normalization to s. Process and constraint
// input is free-form text supplied by an external model producer; two
// activity labels that look identical but differ in combining-character
// order must still intern to the same automaton symbol.
func NormalizeLabel(s string) string {
	return norm.NFC.String(s)
}

// MakeTextList gives a nice list of things based on their display name. Used
// by hpcerrors to render things like "valid kinds are existence, choice, and
// response" in error messages.
func MakeTextList(items []string) string {
	if len(items) < 1 {
		return ""
	}

	output := ""

	if len(items) == 1 {
		output += items[0]
	} else if len(items) == 2 {
		output += items[0] + " and " + items[1]
	} else {
		// if its more than two, use an oxford comma
		items[len(items)-1] = "and " + items[len(items)-1]
		output += strings.Join(items, ", ")
	}

	return output
}

// OrderedKeys returns the keys of m sorted by their string representation.
// Used whenever a map must be walked in a deterministic order so that
// String() and serialization output does not vary between runs over
// identical input (spec requires byte-identical output modulo set ordering;
// fixing the order at the point of iteration is how that's satisfied).
func OrderedKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprintf("%v", keys[i]) < fmt.Sprintf("%v", keys[j])
	})
	return keys
}
