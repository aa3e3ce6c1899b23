package internal

import (
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// FindSimilar returns up to maxSuggestions candidates similar to target,
// closest first. Similarity is the normalised Levenshtein score; candidates
// scoring below SuggestionMinSimilarity are dropped.
func FindSimilar(target string, candidates []string, maxSuggestions int) []string {
	if target == "" || len(candidates) == 0 || maxSuggestions <= 0 {
		return nil
	}

	metric := metrics.NewLevenshtein()
	metric.CaseSensitive = false

	type scored struct {
		str   string
		score float64
	}

	var similar []scored
	for i, candidate := range candidates {
		if i >= SuggestionMaxCandidates {
			break
		}
		if candidate == target {
			continue
		}
		score := strutil.Similarity(target, candidate, metric)
		if score >= SuggestionMinSimilarity {
			similar = append(similar, scored{str: candidate, score: score})
		}
	}

	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].score > similar[j].score
	})

	result := make([]string, 0, maxSuggestions)
	for i := 0; i < len(similar) && i < maxSuggestions; i++ {
		result = append(result, similar[i].str)
	}
	return result
}

// SimilarEntityNames suggests entity names close to name. Entity tables are
// large, so candidates are narrowed to names sharing a short prefix first.
func SimilarEntityNames(name string, extra []string) []string {
	prefixLen := SuggestionPrefixFallback
	if len(name) < prefixLen {
		prefixLen = len(name)
	}
	prefix := strings.ToLower(name[:prefixLen])

	var candidates []string
	for i := range entityTable {
		if strings.HasPrefix(strings.ToLower(entityTable[i].name), prefix) {
			candidates = append(candidates, entityTable[i].name)
		}
	}
	for _, e := range extra {
		if strings.HasPrefix(strings.ToLower(e), prefix) {
			candidates = append(candidates, e)
		}
	}
	return FindSimilar(name, candidates, DefaultMaxSuggestions)
}

// FormatSuggestions formats suggestions as a note.
// Example output: `did you mean "name", "names" or "named"?`
func FormatSuggestions(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(NoteDidYouMean)

	for i, s := range suggestions {
		if i > 0 {
			if i == len(suggestions)-1 {
				sb.WriteString(" or ")
			} else {
				sb.WriteString(", ")
			}
		}
		sb.WriteByte(CharDoubleQuote)
		sb.WriteString(s)
		sb.WriteByte(CharDoubleQuote)
	}

	sb.WriteByte('?')
	return sb.String()
}
