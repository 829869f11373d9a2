package codec

import (
	"bytes"
	"testing"
)

func TestEncodeEscPos(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []byte
	}{
		{name: "ascii-passthrough", in: "Pizza 12", want: []byte("Pizza 12")},
		{name: "euro-cp858", in: "5,90€", want: []byte{'5', ',', '9', '0', 0xD5}},
		{name: "finnish-umlauts", in: "Täytteet", want: []byte{'T', 0x84, 'y', 't', 't', 'e', 'e', 't'}},
		{name: "scandinavian-ring", in: "Åland", want: []byte{0x8F, 'l', 'a', 'n', 'd'}},
		{name: "unmapped-becomes-question", in: "日本", want: []byte("??")},
		{name: "empty", in: "", want: []byte{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EncodeEscPos(tc.in)
			if !bytes.Equal(got, tc.want) {
				t.Fatalf("EncodeEscPos(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestEncodeStarLineEuroExpansion(t *testing.T) {
	got := EncodeStarLine("5,90€")
	want := []byte("5,90eur")
	if !bytes.Equal(got, want) {
		t.Fatalf("EncodeStarLine euro = %q, want %q", got, want)
	}
}

func TestEncodeStarLineSharesCodePage(t *testing.T) {
	got := EncodeStarLine("öÖäÄ")
	want := []byte{0x94, 0x99, 0x84, 0x8E}
	if !bytes.Equal(got, want) {
		t.Fatalf("EncodeStarLine umlauts = %v, want %v", got, want)
	}
}

// Every rune must produce at least one output byte so column math in
// the layout helpers stays aligned with the byte stream.
func TestEncodeNeverDropsRunes(t *testing.T) {
	in := "aä€日"
	if got := EncodeEscPos(in); len(got) != 4 {
		t.Fatalf("EncodeEscPos produced %d bytes for 4 runes", len(got))
	}
	// Star expands the euro to three bytes, the rest stay 1:1.
	if got := EncodeStarLine(in); len(got) != 6 {
		t.Fatalf("EncodeStarLine produced %d bytes, want 6", len(got))
	}
}
