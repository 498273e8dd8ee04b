package util

import "strings"

// FindKey walks decoded JSON and collects the value of every object entry
// whose key contains the given substring, depth-first in encounter order.
// The walk is finite for finite input and the result can be ranged over any
// number of times.
func FindKey(data any, key string) []any {
	var matches []any
	walkJSON(data, key, &matches)
	return matches
}

func walkJSON(data any, key string, matches *[]any) {
	switch v := data.(type) {
	case map[string]any:
		for k, child := range v {
			if strings.Contains(k, key) {
				*matches = append(*matches, child)
			} else {
				walkJSON(child, key, matches)
			}
		}
	case []any:
		for _, child := range v {
			walkJSON(child, key, matches)
		}
	}
}
