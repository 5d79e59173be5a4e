package utils

import "sort"

// SortedKeys returns map keys in lexical order so generated output stays
// deterministic run to run.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
