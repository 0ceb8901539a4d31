package engine

import (
	"strings"
	"unicode"
)

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// ExtractPurpose takes the leading run of capitalised words of an act body.
//
// The first word is dropped as a connector. Words are then accepted while they
// are pure punctuation, or upper-case or title-case once their surrounding
// punctuation is trimmed. A run of at most p.MinAccepted words is not trusted
// and the first p.FallbackWords words are returned instead. Output words keep
// their original text.
func ExtractPurpose(body string, p Purpose) string {
	words := strings.Fields(body)
	if len(words) > 0 {
		words = words[1:]
	}

	var accepted []string
	for _, w := range words {
		if !acceptPurposeWord(w) {
			break
		}
		accepted = append(accepted, w)
	}

	if len(accepted) <= p.MinAccepted {
		return strings.Join(words[:min(p.FallbackWords, len(words))], " ")
	}
	return strings.Join(accepted, " ")
}

func acceptPurposeWord(w string) bool {
	stripped := strings.Trim(w, asciiPunctuation)
	if stripped == "" {
		return true
	}
	return isUpper(stripped) || isTitle(stripped)
}

// isUpper: at least one cased rune and no lower or title-case rune.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

// isTitle: upper-case runes only start a cased run and lower-case runes only
// continue one, e.g. "Societe", "Jean-Pierre", "L'Acte".
func isTitle(s string) bool {
	cased, prevCased := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r), unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased, cased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased, cased = true, true
		default:
			prevCased = false
		}
	}
	return cased
}
