package cmd

import "strings"

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	if a == "" {
		return len(b)
	}
	if b == "" {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		prev := i - 1
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			val := min(row[j]+1, row[j-1]+1, prev+cost)
			prev = row[j]
			row[j] = val
		}
	}
	return row[len(b)]
}

// closest returns the candidate within distance 3 of input, or "".
func closest(input string, candidates []string, normalize func(string) string) string {
	input = normalize(input)
	if input == "" {
		return ""
	}
	bestDist := 4
	best := ""
	for _, c := range candidates {
		if d := levenshtein(input, normalize(c)); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func suggestCommand(unknown string, commands []string) string {
	return closest(unknown, commands, strings.ToLower)
}

func suggestFlag(unknown string, flags []string) string {
	return closest(unknown, flags, func(s string) string {
		return strings.ToLower(strings.TrimLeft(s, "-"))
	})
}
