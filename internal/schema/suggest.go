package schema

import "strings"

// minSuggestRatio is the similarity an uploaded column needs before it is
// offered as a likely misspelling of a missing one.
const minSuggestRatio = 0.6

// suggest returns the uploaded column closest to missing, skipping columns
// the schema already knows. Returns "" when nothing is close enough.
func (s *FeatureSchema) suggest(missing string, columns []string) string {
	known := make(map[string]bool, len(s.all))
	for _, col := range s.all {
		known[col] = true
	}

	best, bestRatio := "", minSuggestRatio
	for _, col := range columns {
		if known[col] {
			continue
		}
		if r := LevenshteinRatio(missing, col); r >= bestRatio {
			best, bestRatio = col, r
		}
	}
	return best
}

// LevenshteinRatio is 1 - editDistance/maxLen, compared case-insensitively.
func LevenshteinRatio(s1, s2 string) float64 {
	r1 := []rune(strings.ToLower(s1))
	r2 := []rune(strings.ToLower(s2))
	maxLen := max(len(r1), len(r2))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(r1, r2))/float64(maxLen)
}

func levenshtein(r1, r2 []rune) int {
	prev := make([]int, len(r2)+1)
	cur := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		cur[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(r2)]
}
