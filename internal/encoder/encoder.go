// internal/encoder/encoder.go
package encoder

import (
	"printer-service/internal/model"
)

// Encoder turns canonical receipt data into the exact byte stream a
// printer family understands. Implementations are stateful byte-stream
// builders; a fresh builder is used per job so a failed composition
// never leaks partial state into the next print.
type Encoder interface {
	// Protocol identifies the command family this encoder emits.
	Protocol() model.CommandProtocol

	// EncodeReceipt serializes a full receipt. When the full template
	// fails on malformed data the encoder falls back to the basic
	// template internally; an error here means even that failed.
	EncodeReceipt(receipt *model.ReceiptData, device *model.PrinterDevice) ([]byte, error)

	// EncodeText serializes plain text with initialize, code page and
	// cut wrapped around it.
	EncodeText(text string, device *model.PrinterDevice) ([]byte, error)
}

// Alignment for builder primitives
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// DefaultQRURL is the fixed link printed at the bottom of every
// receipt.
const DefaultQRURL = "https://tilaa.pizzapalvelu.fi"

// Config carries layout settings shared by both encoder families.
type Config struct {
	PaperWidth int    // characters per line
	QRURL      string // content of the receipt QR code
}

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if c.PaperWidth <= 0 {
		c.PaperWidth = 42
	}
	if c.QRURL == "" {
		c.QRURL = DefaultQRURL
	}
	return c
}

// PaperWidthFor picks the character width for a device, falling back
// to the configured default.
func (c Config) PaperWidthFor(device *model.PrinterDevice) int {
	if device != nil && device.PaperWidth > 0 {
		return device.PaperWidth
	}
	return c.PaperWidth
}
