package engine

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// The transformers below are stateless, so sharing them across goroutines is safe.
var (
	bracketStripper = runes.Remove(runes.Predicate(func(r rune) bool {
		switch r {
		case '(', ')', '{', '}':
			return true
		}
		return false
	}))

	accentFolder = runes.Map(func(r rune) rune {
		switch r {
		case 'é', 'è', 'ê':
			return 'e'
		case 'à', 'â':
			return 'a'
		case 'ô':
			return 'o'
		case 'î':
			return 'i'
		case 'û':
			return 'u'
		}
		return r
	})

	apostropheStripper = runes.Remove(runes.Predicate(func(r rune) bool {
		return r == '\''
	}))
)

// Normalize strips brackets and folds the handled accents. Case is kept.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	return apply(accentFolder, apply(bracketStripper, s))
}

// StripApostrophes removes straight apostrophes. The typographic ’ is kept.
func StripApostrophes(s string) string {
	if s == "" {
		return s
	}
	return apply(apostropheStripper, s)
}

func apply(t transform.Transformer, s string) string {
	out, _, err := transform.String(t, s)
	if err != nil {
		// runes transformers only fail on short buffers, which String grows itself.
		return s
	}
	return out
}

// Tokenize splits raw text on whitespace and normalizes every token.
// Tokens that normalize to "" are kept so indexes stay aligned with the raw text.
func Tokenize(raw string, stripApostrophes bool) []string {
	words := strings.Fields(raw)
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = Normalize(w)
		if stripApostrophes {
			out[i] = StripApostrophes(out[i])
		}
	}
	return out
}

// Views builds both normalization passes for raw.
func Views(raw string) TokenViews {
	return TokenViews{Anchor: Tokenize(raw, false), Body: Tokenize(raw, true)}
}
