package extractor

import "strings"

// trimCutset is stripped from both ends of every name.
const trimCutset = " -–—:;,."

// Normalize collapses whitespace runs to single spaces and strips surrounding
// punctuation. Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	collapsed := strings.Join(strings.Fields(raw), " ")
	return strings.Trim(collapsed, trimCutset)
}

// uniquePreserveOrder drops repeated strings, keeping the first occurrence.
func uniquePreserveOrder(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
