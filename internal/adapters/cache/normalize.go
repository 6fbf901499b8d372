package cache

import "strings"

// NormalizeQuery collapses whitespace and case so "  New  York" and
// "new york" share one cache row.
func NormalizeQuery(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func uniqueQueries(texts []string) []string {
	seen := make(map[string]struct{}, len(texts))
	uniq := make([]string, 0, len(texts))
	for _, t := range texts {
		t = NormalizeQuery(t)
		if t == "" {
			continue
		}

		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		uniq = append(uniq, t)
	}
	return uniq
}
