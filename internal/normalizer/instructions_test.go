package normalizer

import (
	"reflect"
	"testing"
)

func TestParseInstructions(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ParsedInstructions
	}{
		{
			name: "labeled-segments",
			in:   "Toppings: aurajuusto, pepperoni; Size: Perhe; Special: gluteeniton",
			want: ParsedInstructions{
				Toppings: []string{"aurajuusto", "pepperoni"},
				Size:     "Perhe",
				Special:  "gluteeniton",
			},
		},
		{
			name: "free-form-becomes-notes",
			in:   "ei sipulia; ovikoodi 1234",
			want: ParsedInstructions{
				Notes: []string{"ei sipulia", "ovikoodi 1234"},
			},
		},
		{
			name: "mixed",
			in:   "Size: Iso; soita ovella",
			want: ParsedInstructions{
				Size:  "Iso",
				Notes: []string{"soita ovella"},
			},
		},
		{
			name: "duplicate-notes-deduped",
			in:   "ei sipulia; ei sipulia",
			want: ParsedInstructions{
				Notes: []string{"ei sipulia"},
			},
		},
		{
			name: "empty",
			in:   "",
			want: ParsedInstructions{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseInstructions(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseInstructions(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestCleanNotes(t *testing.T) {
	p := ParsedInstructions{
		Special: "gluteeniton",
		Notes:   []string{"ei sipulia"},
	}
	if got := p.CleanNotes(); got != "gluteeniton; ei sipulia" {
		t.Fatalf("CleanNotes = %q", got)
	}

	if got := (ParsedInstructions{}).CleanNotes(); got != "" {
		t.Fatalf("empty CleanNotes = %q", got)
	}
}
