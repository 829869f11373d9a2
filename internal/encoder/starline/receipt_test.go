package starline

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"printer-service/internal/encoder"
	"printer-service/internal/model"
)

func sampleReceipt() *model.ReceiptData {
	return &model.ReceiptData{
		OrderNumber: "B-7",
		OrderTime:   time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		OrderType:   "pickup",
		BranchName:  "Pizzapalvelu Asema",
		Items: []model.ReceiptItem{
			{
				Name:       "Kebab",
				Quantity:   1,
				UnitPrice:  decimal.NewFromFloat(11.00),
				TotalPrice: decimal.NewFromFloat(11.00),
			},
		},
		Subtotal: decimal.NewFromFloat(11.00),
		Total:    decimal.NewFromFloat(11.00),
	}
}

func TestEncodeReceiptFraming(t *testing.T) {
	e := New(encoder.Config{}, zap.NewNop())

	out, err := e.EncodeReceipt(sampleReceipt(), nil)
	if err != nil {
		t.Fatalf("EncodeReceipt: %v", err)
	}
	if !bytes.HasPrefix(out, STAR_LINE_COMMANDS.INITIALIZE) {
		t.Fatalf("output does not start with ESC @: % x", out[:4])
	}
	if !bytes.Contains(out, STAR_LINE_COMMANDS.SELECT_CP850) {
		t.Fatal("Star code page selection missing")
	}
	if !bytes.Contains(out, []byte("Tilaus #B-7")) {
		t.Fatal("order number line missing")
	}
	// Star has no euro glyph in CP850; the sign expands to "eur"
	if !bytes.Contains(out, []byte("11.00eur")) {
		t.Fatal("total missing the expanded euro literal")
	}
	if bytes.Contains(out, []byte("€")) {
		t.Fatal("raw UTF-8 euro leaked into output")
	}
	if !bytes.Contains(out, STAR_LINE_COMMANDS.CUT_FULL) && !bytes.Contains(out, STAR_LINE_COMMANDS.CUT_PARTIAL) {
		t.Fatal("no cut command in output")
	}
}

func TestTwoColumnEuroExpandsBeforeLayout(t *testing.T) {
	b := NewBuilder(42)
	b.TwoColumn("YHTEENSÄ", "11.00€")

	line := bytes.TrimSuffix(b.Bytes(), STAR_LINE_COMMANDS.LINE_FEED)
	if len(line) != 42 {
		t.Fatalf("encoded line width = %d bytes, want 42: %q", len(line), line)
	}
	if !bytes.HasSuffix(line, []byte("11.00eur")) {
		t.Fatalf("right column not flush with paper edge: %q", line)
	}
}

func TestEncodeReceiptUsesStarOpcodesOnly(t *testing.T) {
	e := New(encoder.Config{}, zap.NewNop())

	out, err := e.EncodeReceipt(sampleReceipt(), nil)
	if err != nil {
		t.Fatalf("EncodeReceipt: %v", err)
	}
	// ESC/POS alignment is ESC a n; Star alignment is ESC GS a n
	if bytes.Contains(out, []byte{0x1B, 0x61, 0x01}) && !bytes.Contains(out, []byte{0x1B, 0x1D, 0x61, 0x01}) {
		t.Fatal("output aligns with ESC/POS opcodes instead of Star ones")
	}
	if !bytes.Contains(out, STAR_LINE_COMMANDS.ALIGN_CENTER) {
		t.Fatal("Star center alignment missing")
	}
}

func TestEncodeReceiptFallsBackOnEmptyItems(t *testing.T) {
	e := New(encoder.Config{}, zap.NewNop())

	r := sampleReceipt()
	r.Items = nil
	out, err := e.EncodeReceipt(r, nil)
	if err != nil {
		t.Fatalf("EncodeReceipt: %v", err)
	}
	if !bytes.HasPrefix(out, STAR_LINE_COMMANDS.INITIALIZE) {
		t.Fatal("basic template missing initialize")
	}
}

func TestEncodeText(t *testing.T) {
	e := New(encoder.Config{}, zap.NewNop())

	out, err := e.EncodeText("testirivi", nil)
	if err != nil {
		t.Fatalf("EncodeText: %v", err)
	}
	if !bytes.Contains(out, []byte("testirivi")) {
		t.Fatal("text missing")
	}
	if !bytes.HasPrefix(out, STAR_LINE_COMMANDS.INITIALIZE) {
		t.Fatal("initialize missing")
	}
}
