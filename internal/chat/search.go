// Package chat serves the user-facing chat endpoint. It retrieves
// knowledge-base lines relevant to a message; prompt assembly and model
// calls live outside this service.
package chat

import (
	"sort"
	"strings"
)

type scoredLine struct {
	line  string
	score float64
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// bigrams returns the set of 2-character windows of the normalized text.
// Character bigrams tolerate spelling variance better than word tokens.
func bigrams(s string) map[string]struct{} {
	t := normalize(s)
	out := make(map[string]struct{})
	runes := []rune(t)
	for i := 0; i+1 < len(runes); i++ {
		out[string(runes[i:i+2])] = struct{}{}
	}
	return out
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for x := range a {
		if _, ok := b[x]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// pickContext scores every CSV line against the query and returns the
// top limit lines. Zero-score lines are dropped so unrelated rows never
// pad the context.
func pickContext(csvText, query string, limit int) []string {
	qNorm := normalize(query)
	qBigrams := bigrams(query)
	qWords := strings.Fields(qNorm)

	var scored []scoredLine
	for _, raw := range strings.Split(strings.ReplaceAll(csvText, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		hay := normalize(line)

		var score float64
		if qNorm != "" && strings.Contains(hay, qNorm) {
			score += 10
		}
		for _, w := range qWords {
			if len(w) >= 2 && strings.Contains(hay, w) {
				score += 2
			}
		}
		score += jaccard(qBigrams, bigrams(line)) * 12

		if score > 0 {
			scored = append(scored, scoredLine{line: line, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	if len(scored) > limit {
		scored = scored[:limit]
	}
	out := make([]string, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.line)
	}
	return out
}
