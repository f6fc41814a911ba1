// Package stringsutil collects small string-slice helpers.
package stringsutil

import "strings"

// SplitTrimmed splits s on sep, trims whitespace from every part and drops
// the empty ones. A string of only separators yields nil.
func SplitTrimmed(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
