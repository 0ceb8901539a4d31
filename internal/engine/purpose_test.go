package engine

import "testing"

func TestExtractPurpose(t *testing.T) {
	p := DefaultTuning().Purpose
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "upper-case run",
			body: "lacte DECIDE LA TRANSFORMATION DE la societe",
			want: "DECIDE LA TRANSFORMATION DE",
		},
		{
			name: "punctuation and title case kept as written",
			body: "lacte : Modification Des Statuts, ensuite",
			want: ": Modification Des Statuts,",
		},
		{
			name: "short run falls back to ten words",
			body: "lacte LA SOCIETE a decide de modifier les statuts de la societe anonyme X",
			want: "LA SOCIETE a decide de modifier les statuts de la",
		},
		{
			name: "fallback shorter than ten words",
			body: "lacte a b",
			want: "a b",
		},
		{
			name: "first word only",
			body: "lacte",
			want: "",
		},
		{
			name: "empty",
			body: "",
			want: "",
		},
		{
			name: "mixed case word stops the run",
			body: "lacte CESSION DE PARTS SOCIALES McDonald Ltd",
			want: "CESSION DE PARTS SOCIALES",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractPurpose(tt.body, p); got != tt.want {
				t.Errorf("ExtractPurpose(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestCaseClasses(t *testing.T) {
	tests := []struct {
		in           string
		upper, title bool
	}{
		{"SARL", true, false},
		{"Societe", false, true},
		{"Jean-Pierre", false, true},
		{"L'Acte", false, true},
		{"McDonald", false, false},
		{"A", true, true},
		{"1ER", true, false},
		{"123", false, false},
		{"ÉTAT", true, false},
		{"été", false, false},
	}
	for _, tt := range tests {
		if got := isUpper(tt.in); got != tt.upper {
			t.Errorf("isUpper(%q) = %v, want %v", tt.in, got, tt.upper)
		}
		if got := isTitle(tt.in); got != tt.title {
			t.Errorf("isTitle(%q) = %v, want %v", tt.in, got, tt.title)
		}
	}
}
