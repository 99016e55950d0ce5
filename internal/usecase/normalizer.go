package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Package-level compiled regex patterns for performance
var (
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
	bracketedSpanRegex  = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]|\{[^}]*\}`)
	nonTokenCharsRegex  = regexp.MustCompile(`[^\p{L}\p{N}\- ]+`)
)

// Normalize lowercases, collapses internal whitespace runs, and trims.
// It fails soft: empty input yields an empty string, never a panic. This is
// the first step of every extractor and scorer.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	s = multipleSpacesRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stripAccents folds accented characters to their base form (NFD decompose,
// drop combining marks)
func stripAccents(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

// CleanForMatching is the stricter normalization used by the lexical scorer.
// On top of Normalize it removes bracketed spans, strips accents, drops fluff
// words from the vocabulary, and removes every character outside
// letters/digits/hyphen/space.
func CleanForMatching(s string, vocab *Vocabulary) string {
	s = Normalize(s)
	if s == "" {
		return ""
	}

	s = bracketedSpanRegex.ReplaceAllString(s, " ")
	s = stripAccents(s)
	s = nonTokenCharsRegex.ReplaceAllString(s, " ")

	words := strings.Fields(s)
	kept := words[:0]
	for _, w := range words {
		if vocab != nil && vocab.IsFluffWord(w) {
			continue
		}
		kept = append(kept, w)
	}

	return strings.Join(kept, " ")
}
