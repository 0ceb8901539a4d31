package engine

import (
	"slices"
	"strings"
	"unicode"
)

// ExtractFields applies the positional rules to the anchors and slices the fields
// out of views.
//
// Every combination of candidates is visited (per Nom: Entier, then Abrege x
// Entier, then DEntreprise) and a later matching combination overwrites an
// earlier one. Pattern 1 and the strict Pattern 2 block each other, but the broad
// Pattern 2 variant overrides whatever was there.
//
// When no act anchor exists the returned fields still carry the name and the
// indicator, and the error is ErrUnresolvedAnchor.
func ExtractFields(views TokenViews, anchors AnchorIndexSet, t Tuning) (ExtractedFields, error) {
	tokens := views.Anchor
	anchors = anchors.within(len(tokens))
	p := t.Patterns
	abbrev := t.Keyword(Abrege)

	var out ExtractedFields
	pattern1, pattern2 := false, false

	for _, nom := range anchors[Nom] {
		for _, entier := range anchors[Entier] {
			if nom < entier &&
				nom-entier < -p.MinNameGap &&
				nom+entier < p.EarlyRegion &&
				!pattern2 &&
				len(FindApproximate(joinRange(tokens, nom, entier), abbrev, t.Abbrev)) == 0 {
				out.CompanyName = joinRange(tokens, nom+1, entier)
				pattern1 = true
			}
		}

		for _, ab := range anchors[Abrege] {
			for _, entier := range anchors[Entier] {
				if !(nom < entier && entier < ab && ab-nom < p.AbbrevWindow) {
					continue
				}
				start := nom + 2 - (nom - entier)
				if !pattern1 {
					out.CompanyName = joinRange(tokens, start, ab)
					pattern2 = true
				}
				span := tokens[nom:ab]
				if !slices.Contains(span, p.NameMarker) && !slices.Contains(span, p.AbbrevMarker) {
					out.CompanyName = joinRange(tokens, start, ab)
					pattern2 = true
				}
			}
		}

		for _, dent := range anchors[DEntreprise] {
			gap := nom - dent
			if dent < nom &&
				gap > p.IndicatorGapMin && gap <= p.IndicatorGapMax &&
				nom+dent < p.EarlyRegion {
				out.CompanyIndicator = numericTokens(tokens[dent:nom])
			}
		}
	}

	acts := anchors[LActe]
	if len(acts) == 0 || acts[0] >= len(views.Body) {
		return out, ErrUnresolvedAnchor
	}
	out.BodyText = strings.Join(views.Body[acts[0]:], " ")
	out.BodyResolved = true
	return out, nil
}

// within drops indexes that do not address a token of an n-token sequence.
func (s AnchorIndexSet) within(n int) AnchorIndexSet {
	out := make(AnchorIndexSet, len(s))
	for c, idx := range s {
		kept := make([]int, 0, len(idx))
		for _, i := range idx {
			if i >= 0 && i < n {
				kept = append(kept, i)
			}
		}
		out[c] = kept
	}
	return out
}

// joinRange joins tokens[from:to] with spaces, clamping both bounds.
func joinRange(tokens []string, from, to int) string {
	from = max(from, 0)
	to = min(to, len(tokens))
	if from >= to {
		return ""
	}
	return strings.Join(tokens[from:to], " ")
}

func numericTokens(tokens []string) string {
	var nums []string
	for _, tok := range tokens {
		if isNumeric(tok) {
			nums = append(nums, tok)
		}
	}
	return strings.Join(nums, " ")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}
