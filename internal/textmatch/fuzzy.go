package textmatch

import (
	"strings"

	"github.com/titooo7/teamarr-sub001/pkg/models"
)

// Similarity thresholds on the 0-100 token-set scale
const (
	DefaultThreshold = 75.0
	StrictThreshold  = 85.0

	// Patterns shorter than this are discarded: one-character
	// fragments match almost anything
	minPatternLen = 2
)

// PatternMatch reports whether any pattern matched and which one
type PatternMatch struct {
	Matched bool
	Score   float64
	Pattern string
}

// TeamPatterns builds the ordered, deduplicated list of normalized
// search patterns for a team: full name first, then short name, then
// abbreviation. Priority order matters because MatchAny returns the
// first hit.
func TeamPatterns(team models.Team) []models.TeamPattern {
	candidates := []models.TeamPattern{
		{Text: team.Name, Source: "name"},
		{Text: team.ShortName, Source: "short_name"},
		{Text: team.Abbreviation, Source: "abbreviation"},
	}

	seen := make(map[string]bool, len(candidates))
	patterns := make([]models.TeamPattern, 0, len(candidates))
	for _, c := range candidates {
		text := Normalize(c.Text)
		if len(text) < minPatternLen || seen[text] {
			continue
		}
		seen[text] = true
		patterns = append(patterns, models.TeamPattern{Text: text, Source: c.Source})
	}

	return patterns
}

// MatchAny reports whether any pattern appears in the normalized text.
// A substring hit scores 100; otherwise the best token-set score at or
// above the default threshold wins.
func MatchAny(patterns []models.TeamPattern, text string) PatternMatch {
	normalized := Normalize(text)
	if normalized == "" {
		return PatternMatch{}
	}

	best := PatternMatch{}
	for _, p := range patterns {
		if strings.Contains(normalized, p.Text) {
			return PatternMatch{Matched: true, Score: 100, Pattern: p.Text}
		}
		score := tokenSetScore(normalized, p.Text)
		if score >= DefaultThreshold && score > best.Score {
			best = PatternMatch{Matched: true, Score: score, Pattern: p.Text}
		}
	}

	return best
}

// MatchEventName scores streamText against an event display name using
// an order-independent token-set similarity. Matched iff the score
// reaches threshold.
func MatchEventName(streamText, eventName string, threshold float64) (bool, float64) {
	a := Normalize(streamText)
	b := Normalize(eventName)
	if a == "" || b == "" {
		return false, 0
	}

	score := tokenSetScore(a, b)
	return score >= threshold, score
}

// tokenSetScore computes similarity between two strings on a 0-100
// scale, ignoring token order and duplicates. Full containment of the
// smaller token set in the larger scores 100; otherwise the score is
// the Dice coefficient over the unique token sets.
func tokenSetScore(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	inter := 0
	small, large := ta, tb
	if len(small) > len(large) {
		small, large = large, small
	}
	for tok := range small {
		if large[tok] {
			inter++
		}
	}

	if inter == len(small) {
		return 100
	}

	return 100 * 2 * float64(inter) / float64(len(ta)+len(tb))
}

// tokenSet splits a normalized string into its unique tokens
func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}
