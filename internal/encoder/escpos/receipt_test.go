package escpos

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
		OrderNumber: "A-42",
		OrderTime:   time.Date(2026, 8, 29, 18, 30, 0, 0, time.UTC),
		OrderType:   "delivery",
		BranchName:  "Pizzapalvelu Keskusta",
		Items: []model.ReceiptItem{
			{
				Name:       "Margherita",
				Quantity:   2,
				UnitPrice:  decimal.NewFromFloat(9.50),
				TotalPrice: decimal.NewFromFloat(19.00),
				Toppings: []model.Topping{
					{Name: "Aurajuusto", Price: decimal.NewFromFloat(1.50)},
				},
			},
		},
		Subtotal: decimal.NewFromFloat(19.00),
		Total:    decimal.NewFromFloat(19.00),
	}
}

func TestEncodeReceiptFraming(t *testing.T) {
	e := New(encoder.Config{}, zap.NewNop())

	out, err := e.EncodeReceipt(sampleReceipt(), nil)
	if err != nil {
		t.Fatalf("EncodeReceipt: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty output")
	}
	if !bytes.HasPrefix(out, ESC_POS_COMMANDS.INITIALIZE) {
		t.Fatalf("output does not start with ESC @: % x", out[:4])
	}
	if !bytes.Contains(out, ESC_POS_COMMANDS.SELECT_CP850) {
		t.Fatal("code page selection missing")
	}
	if !bytes.Contains(out, []byte("Tilaus #A-42")) {
		t.Fatal("order number line missing")
	}
	// "€" must leave as the CP858 euro byte, never UTF-8
	if !bytes.Contains(out, []byte{0xD5}) {
		t.Fatal("euro sign not encoded as CP858 0xD5")
	}
	if bytes.Contains(out, []byte("€")) {
		t.Fatal("raw UTF-8 euro leaked into output")
	}
	idx := bytes.LastIndex(out, ESC_POS_COMMANDS.CUT_PARTIAL)
	if idx < 0 {
		idx = bytes.LastIndex(out, ESC_POS_COMMANDS.CUT_FULL)
	}
	if idx < 0 {
		t.Fatal("no cut command in output")
	}
}

func TestEncodeReceiptQRForCapableDevice(t *testing.T) {
	e := New(encoder.Config{}, zap.NewNop())
	device := &model.PrinterDevice{ID: "p", SupportsQR: true}

	out, err := e.EncodeReceipt(sampleReceipt(), device)
	if err != nil {
		t.Fatalf("EncodeReceipt: %v", err)
	}
	if !bytes.Contains(out, ESC_POS_COMMANDS.QR_PRINT) {
		t.Fatal("QR print command missing for QR-capable device")
	}
	if !bytes.Contains(out, []byte(encoder.DefaultQRURL)) {
		t.Fatal("QR link text missing")
	}
}

func TestEncodeReceiptNoQRWithoutCapability(t *testing.T) {
	e := New(encoder.Config{}, zap.NewNop())
	device := &model.PrinterDevice{ID: "p", SupportsQR: false, SupportsImage: false}

	out, err := e.EncodeReceipt(sampleReceipt(), device)
	if err != nil {
		t.Fatalf("EncodeReceipt: %v", err)
	}
	if bytes.Contains(out, ESC_POS_COMMANDS.QR_PRINT) {
		t.Fatal("QR emitted for device without QR or image support")
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
	if len(out) == 0 {
		t.Fatal("basic template produced no output")
	}
	if !bytes.HasPrefix(out, ESC_POS_COMMANDS.INITIALIZE) {
		t.Fatal("basic template missing initialize")
	}
}

func TestEncodeText(t *testing.T) {
	e := New(encoder.Config{}, zap.NewNop())

	out, err := e.EncodeText("rivi yksi\nrivi kaksi", nil)
	if err != nil {
		t.Fatalf("EncodeText: %v", err)
	}
	if !bytes.Contains(out, []byte("rivi yksi")) || !bytes.Contains(out, []byte("rivi kaksi")) {
		t.Fatal("text lines missing")
	}
	if !bytes.HasPrefix(out, ESC_POS_COMMANDS.INITIALIZE) {
		t.Fatal("initialize missing")
	}
}
