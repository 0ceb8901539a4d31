package engine

import "strings"

// FindInstances returns, in ascending order, the indexes of tokens that match
// keyword at threshold. Tokens are normalized first; apostrophes are removed from
// both sides only when stripApostrophes is set.
func FindInstances(tokens []string, keyword string, threshold int, stripApostrophes bool) []int {
	var out []int
	for i, s := range scoreTokens(tokens, keyword, stripApostrophes) {
		if s >= threshold {
			out = append(out, i)
		}
	}
	return out
}

// FindApproximate searches text for term with a threshold that starts at a.Start
// and drops by a.Step down to a.Min. It returns the matches of the first level
// that has any, so a result never mixes two levels. Words are compared as they
// appear in text, without normalization.
func FindApproximate(text, term string, a Approximation) []int {
	words := strings.Fields(text)
	if len(words) == 0 || a.Step <= 0 {
		return nil
	}
	lt := strings.ToLower(term)
	scores := make([]int, len(words))
	for i, w := range words {
		scores[i] = Similarity(strings.ToLower(w), lt)
	}
	for threshold := a.Start; threshold >= a.Min; threshold -= a.Step {
		var found []int
		for i, s := range scores {
			if s >= threshold {
				found = append(found, i)
			}
		}
		if len(found) > 0 {
			return found
		}
	}
	return nil
}

// LocateActBody runs the adaptive search for the act-body anchor.
//
// The keyword recurs all over a legal act, so the first fuzzy hit is usually
// wrong. Candidates must sit after the fixed preamble (MinOffset) and before
// len(tokens)/2 * multiplier. For each multiplier, thresholds are tried from
// strict to loose; the multiplier widens only when no threshold yields a
// candidate inside the window.
func LocateActBody(tokens []string, t Tuning) ActAnchor {
	a := t.Act
	if len(tokens) == 0 || a.ThresholdStep <= 0 || a.MultiplierStep <= 0 {
		return ActAnchor{}
	}
	scores := scoreTokens(tokens, t.Keyword(LActe), false)
	half := float64(len(tokens)) / 2

	for retry := 0; ; retry++ {
		// Derived from retry, not accumulated; the product is rounded before the add.
		multiplier := a.MultiplierStart + float64(float64(retry)*a.MultiplierStep)
		if multiplier >= a.MultiplierCeiling {
			break
		}
		limit := half * multiplier
		for threshold := a.ThresholdStart; threshold >= a.ThresholdMin; threshold -= a.ThresholdStep {
			for i, s := range scores {
				if s < threshold {
					continue
				}
				if i > a.MinOffset && float64(i) < limit {
					return ActAnchor{
						Index:      i,
						Threshold:  threshold,
						Multiplier: a.ConfidentMultiplier,
						Resolved:   true,
					}
				}
			}
		}
	}
	return ActAnchor{}
}

// LocateAnchors finds every keyword class in the whitespace-split raw text.
func LocateAnchors(tokens []string, t Tuning) (AnchorIndexSet, ActAnchor) {
	set := make(AnchorIndexSet, len(AllKeywordClasses()))
	for _, c := range AllKeywordClasses() {
		if c == LActe {
			continue
		}
		set[c] = FindInstances(tokens, t.Keyword(c), t.AnchorThreshold, false)
	}
	act := LocateActBody(tokens, t)
	if act.Resolved {
		set[LActe] = []int{act.Index}
	} else {
		set[LActe] = nil
	}
	return set, act
}

func scoreTokens(tokens []string, keyword string, stripApostrophes bool) []int {
	if stripApostrophes {
		keyword = StripApostrophes(keyword)
	}
	lk := strings.ToLower(keyword)
	scores := make([]int, len(tokens))
	for i, tok := range tokens {
		tok = Normalize(tok)
		if stripApostrophes {
			tok = StripApostrophes(tok)
		}
		scores[i] = Similarity(strings.ToLower(tok), lk)
	}
	return scores
}
