package textmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics decomposes characters and removes combining marks,
// so "São Paulo" normalizes the same as "Sao Paulo"
var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Domain abbreviations expanded before any comparison. Multi-word keys
// must come before their single-word prefixes; expansion is applied
// longest-match-first anyway, so order here is just for readability.
var abbreviations = map[string]string{
	"ufc fn":  "ufc fight night",
	"gp":      "grand prix",
	"intl":    "international",
	"utd":     "united",
	"champ":   "championship",
	"natl":    "national",
	"v":       "vs",
}

// Normalize strips diacritics, lowercases, replaces punctuation with
// spaces, and collapses whitespace. The result is the canonical form
// every comparison in this package works on.
func Normalize(text string) string {
	stripped, _, err := transform.String(stripDiacritics, text)
	if err != nil {
		// Fall back to the raw text; worst case is a weaker match
		stripped = text
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range strings.ToLower(stripped) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// ExpandAbbreviations replaces known domain abbreviations with their
// full forms, longest match first and bounded at word edges, so that
// "Monaco GP" can match an event named "Monaco Grand Prix". Input is
// normalized before expansion.
func ExpandAbbreviations(text string) string {
	normalized := Normalize(text)
	if normalized == "" {
		return normalized
	}

	// Sort keys longest-first so "ufc fn" wins over any shorter overlap
	keys := make([]string, 0, len(abbreviations))
	for k := range abbreviations {
		keys = append(keys, k)
	}
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if len(keys[j]) > len(keys[i]) {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}

	padded := " " + normalized + " "
	for _, abbr := range keys {
		padded = strings.ReplaceAll(padded, " "+abbr+" ", " "+abbreviations[abbr]+" ")
	}

	return strings.TrimSpace(padded)
}
