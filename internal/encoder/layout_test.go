package encoder

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"printer-service/internal/codec"
	"printer-service/internal/model"
)

func TestItemNameSize(t *testing.T) {
	tests := []struct {
		name     string
		item     model.ReceiptItem
		wantName string
		wantSize string
	}{
		{
			name:     "suffix-in-name-wins",
			item:     model.ReceiptItem{Name: "Margherita (Perhe)", Size: "regular"},
			wantName: "Margherita",
			wantSize: "Perhe",
		},
		{
			name:     "size-segment-in-notes",
			item:     model.ReceiptItem{Name: "Kebab", Notes: "extra sauce; Size: Iso"},
			wantName: "Kebab",
			wantSize: "Iso",
		},
		{
			name:     "falls-back-to-size-field",
			item:     model.ReceiptItem{Name: "Margherita", Size: "large"},
			wantName: "Margherita",
			wantSize: "large",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			name, size := ItemNameSize(&tc.item)
			if name != tc.wantName || size != tc.wantSize {
				t.Fatalf("ItemNameSize = (%q, %q), want (%q, %q)", name, size, tc.wantName, tc.wantSize)
			}
		})
	}
}

func TestTwoColumn(t *testing.T) {
	got := TwoColumn("Margherita", "12,50", 42)
	if len(got) != 42 {
		t.Fatalf("line length = %d, want 42", len(got))
	}
	if !strings.HasPrefix(got, "Margherita") || !strings.HasSuffix(got, "12,50") {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestTwoColumnTruncatesLeft(t *testing.T) {
	got := TwoColumn(strings.Repeat("x", 60), "9,99", 24)
	if len(got) != 24 {
		t.Fatalf("line length = %d, want 24", len(got))
	}
	if !strings.Contains(got, "..") {
		t.Fatalf("expected ellipsis in %q", got)
	}
	if !strings.HasSuffix(got, "9,99") {
		t.Fatalf("right column lost: %q", got)
	}
}

func TestTwoColumnCountsPrintedWidth(t *testing.T) {
	tests := []struct {
		name  string
		left  string
		right string
	}{
		{"umlauts-in-left", "Välisumma", "12,50"},
		{"capital-umlaut-and-euro", "YHTEENSÄ", "15.50€"},
		{"umlauts-both-sides", "Tuplajuusto ääripäällä", "1,00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TwoColumn(tc.left, tc.right, 42)
			if n := utf8.RuneCountInString(got); n != 42 {
				t.Fatalf("printed width = %d runes, want 42: %q", n, got)
			}
			// every rune collapses to one code page byte
			if n := len(codec.EncodeEscPos(got)); n != 42 {
				t.Fatalf("encoded width = %d bytes, want 42", n)
			}
			if !strings.HasSuffix(got, tc.right) {
				t.Fatalf("right column not flush: %q", got)
			}
		})
	}
}

func TestTwoColumnTruncatesOnRuneBoundary(t *testing.T) {
	left := strings.Repeat("ä", 60) + "pizza"
	got := TwoColumn(left, "9,99", 24)

	if n := utf8.RuneCountInString(got); n != 24 {
		t.Fatalf("printed width = %d runes, want 24: %q", n, got)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncation split a rune: %q", got)
	}
	// a split rune would surface as the '?' replacement byte
	if bytes.ContainsRune(codec.EncodeEscPos(got), '?') {
		t.Fatalf("replacement byte in encoded line: %q", got)
	}
	if !strings.HasSuffix(got, "9,99") {
		t.Fatalf("right column lost: %q", got)
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{
			name:  "simple-wrap",
			in:    "no onions extra cheese",
			width: 12,
			want:  []string{"no onions", "extra cheese"},
		},
		{
			name:  "long-word-hard-split",
			in:    "aaaaaaaaaaaaaaa",
			width: 6,
			want:  []string{"aaaaaa", "aaaaaa", "aaa"},
		},
		{
			name:  "umlaut-word-counts-runes",
			in:    "ääääää öö",
			width: 6,
			want:  []string{"ääääää", "öö"},
		},
		{
			name:  "umlaut-hard-split-keeps-runes-whole",
			in:    "ääääääää",
			width: 6,
			want:  []string{"ääääää", "ää"},
		},
		{
			name:  "empty",
			in:    "",
			width: 10,
			want:  nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := WrapText(tc.in, tc.width)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("WrapText = %v, want %v", got, tc.want)
			}
		})
	}
}
