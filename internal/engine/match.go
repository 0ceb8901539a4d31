package engine

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// indel prices a substitution as a deletion plus an insertion, which turns the
// distance into the one used by the classic "ratio" similarity.
var indel = levenshtein.NewParams().SubCost(2)

// Similarity scores a against b in 0..100. It is case sensitive; see Matches.
func Similarity(a, b string) int {
	if a == b {
		return 100
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	total := la + lb
	d := levenshtein.Distance(a, b, indel)
	ratio := float64(total-d) / float64(total)
	return int(math.RoundToEven(100 * ratio))
}

// Matches reports whether a and b are similar enough after case folding.
func Matches(a, b string, threshold int) bool {
	return Similarity(strings.ToLower(a), strings.ToLower(b)) >= threshold
}
