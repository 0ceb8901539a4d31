package engine

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// filler builds an n-token document of "x" with the given tokens placed at
// their index. "x" shares no letter with any keyword.
func filler(n int, at map[int]string) []string {
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = "x"
	}
	for i, tok := range at {
		tokens[i] = tok
	}
	return tokens
}

func TestFindInstances(t *testing.T) {
	tests := []struct {
		name      string
		tokens    []string
		keyword   string
		threshold int
		strip     bool
		want      []int
	}{
		{
			name:      "exact after bracket strip",
			tokens:    []string{"Nom", "de", "la", "(société)", "(Entier)"},
			keyword:   "entier",
			threshold: 55,
			want:      []int{4},
		},
		{
			name:      "several hits ascending",
			tokens:    []string{"entler", "x", "ENTIER", "entier"},
			keyword:   "entier",
			threshold: 80,
			want:      []int{0, 2, 3},
		},
		{
			name:      "apostrophes stripped on both sides",
			tokens:    []string{"x", "D'entreprise"},
			keyword:   "d'entreprise",
			threshold: 100,
			strip:     true,
			want:      []int{1},
		},
		{
			name:      "typographic apostrophe kept",
			tokens:    []string{"x", "D’entreprise"},
			keyword:   "d'entreprise",
			threshold: 100,
			want:      nil,
		},
		{
			name:      "typographic apostrophe survives stripping",
			tokens:    []string{"x", "D’entreprise"},
			keyword:   "d'entreprise",
			threshold: 100,
			strip:     true,
			want:      nil,
		},
		{
			name:    "empty tokens",
			keyword: "nom",
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindInstances(tt.tokens, tt.keyword, tt.threshold, tt.strip)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FindInstances mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindApproximate(t *testing.T) {
	a := DefaultTuning().Abbrev
	tests := []struct {
		name string
		text string
		want []int
	}{
		{"exact", "Nom de la societe abrege", []int{4}},
		{"two at first level", "abrcge x abrege", []int{0, 2}},
		// "abr" scores 67 and would only match at 65; the exact hit wins at 80.
		{"levels never mix", "abr abrege", []int{1}},
		{"degrades to lower level", "abr x", []int{0}},
		{"nothing down to min", "zzz yyy", nil},
		{"empty text", "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindApproximate(tt.text, "abrege", a)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FindApproximate(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestLocateActBody(t *testing.T) {
	tun := DefaultTuning()
	tests := []struct {
		name   string
		tokens []string
		want   ActAnchor
	}{
		{
			name:   "window grows until candidate fits",
			tokens: filler(200, map[int]string{70: "l'acte"}),
			want:   ActAnchor{Index: 70, Threshold: 100, Multiplier: 2.5, Resolved: true},
		},
		{
			name:   "preamble hit skipped",
			tokens: filler(200, map[int]string{30: "l'acte", 59: "l'acte", 65: "l'acte"}),
			want:   ActAnchor{Index: 65, Threshold: 100, Multiplier: 2.5, Resolved: true},
		},
		{
			name:   "lower threshold accepted in a narrow window",
			tokens: filler(200, map[int]string{60: "l'acle"}),
			want:   ActAnchor{Index: 60, Threshold: 80, Multiplier: 2.5, Resolved: true},
		},
		{
			// At multiplier 1.4 the window of a 100-token text ends at exactly 70.
			name:   "window bound is exclusive",
			tokens: filler(100, map[int]string{66: "acte", 70: "l'acte"}),
			want:   ActAnchor{Index: 66, Threshold: 80, Multiplier: 2.5, Resolved: true},
		},
		{
			name:   "beyond widest window",
			tokens: filler(200, map[int]string{195: "l'acte"}),
			want:   ActAnchor{},
		},
		{
			name:   "no keyword",
			tokens: filler(200, nil),
			want:   ActAnchor{},
		},
		{
			name: "empty",
			want: ActAnchor{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocateActBody(tt.tokens, tun)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LocateActBody mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLocateAnchors(t *testing.T) {
	tokens := filler(200, map[int]string{
		0:  "D'entreprise",
		5:  "Nom",
		9:  "Entier",
		12: "(abrégé)",
		40: "mentionner",
		75: "l'acte",
	})
	set, act := LocateAnchors(tokens, DefaultTuning())

	// At 55 the keywords bleed into each other: "entier" scores 56 against
	// "d'entreprise" and 75 against "mentionner".
	want := AnchorIndexSet{
		Nom:         {5},
		Entier:      {0, 9, 40},
		Abrege:      {12},
		DEntreprise: {0, 9},
		LActe:       {75},
		Mentionner:  {9, 40},
	}
	if diff := cmp.Diff(want, set); diff != "" {
		t.Errorf("anchor set mismatch (-want +got):\n%s", diff)
	}
	if !act.Resolved || act.Index != 75 {
		t.Errorf("act = %+v, want resolved at 75", act)
	}

	for c, idx := range set {
		for _, i := range idx {
			if i < 0 || i >= len(tokens) {
				t.Errorf("%s index %d out of range", c, i)
			}
		}
	}
}

func TestLocateAnchorsUnresolvedAct(t *testing.T) {
	set, act := LocateAnchors(strings.Fields("Nom de la societe Entier"), DefaultTuning())
	if act.Resolved {
		t.Fatalf("act unexpectedly resolved: %+v", act)
	}
	if len(set[LActe]) != 0 {
		t.Errorf("LActe = %v, want empty", set[LActe])
	}
}
