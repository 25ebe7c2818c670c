// Package utils holds small helpers shared by the HTTP layers.
package utils

import "strings"

// ParseCSV splits comma-separated values and returns the trimmed non-empty
// parts in order. Several inputs are concatenated, so repeated query
// parameters (?sort=a&sort=b) and comma lists (?sort=a,b) parse the same.
// Returns nil when nothing remains.
func ParseCSV(values ...string) []string {
	var result []string
	for _, s := range values {
		for _, v := range strings.Split(s, ",") {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				result = append(result, trimmed)
			}
		}
	}
	return result
}

// Unique returns values with later duplicates removed, keeping first-seen order
func Unique(values []string) []string {
	if values == nil {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
