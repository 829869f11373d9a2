// internal/encoder/escpos/builder.go
package escpos

import (
	"bytes"

	"printer-service/internal/codec"
	"printer-service/internal/encoder"
)

// Builder is a stateful ESC/POS byte-stream builder. One builder per
// print job; a failed composition throws the whole builder away.
type Builder struct {
	buf   bytes.Buffer
	width int
}

// NewBuilder creates a builder for the given paper width in
// characters.
func NewBuilder(width int) *Builder {
	if width <= 0 {
		width = 42
	}
	return &Builder{width: width}
}

// Width returns the paper width in characters.
func (b *Builder) Width() int {
	return b.width
}

// Initialize resets the printer and selects CP850.
func (b *Builder) Initialize() {
	b.buf.Write(ESC_POS_COMMANDS.INITIALIZE)
	b.buf.Write(ESC_POS_COMMANDS.SELECT_CP850)
}

// Align sets the justification for following lines.
func (b *Builder) Align(a encoder.Alignment) {
	switch a {
	case encoder.AlignCenter:
		b.buf.Write(ESC_POS_COMMANDS.ALIGN_CENTER)
	case encoder.AlignRight:
		b.buf.Write(ESC_POS_COMMANDS.ALIGN_RIGHT)
	default:
		b.buf.Write(ESC_POS_COMMANDS.ALIGN_LEFT)
	}
}

// Bold toggles emphasis.
func (b *Builder) Bold(on bool) {
	if on {
		b.buf.Write(ESC_POS_COMMANDS.BOLD_ON)
	} else {
		b.buf.Write(ESC_POS_COMMANDS.BOLD_OFF)
	}
}

// Underline toggles underlining.
func (b *Builder) Underline(on bool) {
	if on {
		b.buf.Write(ESC_POS_COMMANDS.UNDERLINE_ON)
	} else {
		b.buf.Write(ESC_POS_COMMANDS.UNDERLINE_OFF)
	}
}

// CharSize sets the width and height multipliers (1-8), packed into
// one GS ! control byte.
func (b *Builder) CharSize(w, h int) {
	w = clampMultiplier(w)
	h = clampMultiplier(h)
	b.buf.Write(ESC_POS_COMMANDS.SIZE_PREFIX)
	b.buf.WriteByte(byte((w-1)<<4 | (h - 1)))
}

// Text appends code-page encoded text without a line feed.
func (b *Builder) Text(s string) {
	b.buf.Write(codec.EncodeEscPos(s))
}

// Line appends code-page encoded text followed by a line feed.
func (b *Builder) Line(s string) {
	b.Text(s)
	b.buf.Write(ESC_POS_COMMANDS.LINE_FEED)
}

// TwoColumn prints a left/right column line at paper width.
func (b *Builder) TwoColumn(left, right string) {
	b.Line(encoder.TwoColumn(left, right, b.width))
}

// Feed advances the paper n lines.
func (b *Builder) Feed(n int) {
	if n < 1 {
		n = 1
	}
	b.buf.Write(ESC_POS_COMMANDS.FEED_LINES)
	b.buf.WriteByte(byte(n))
}

// QRCode emits the native GS ( k sub-command sequence: model, module
// size, error correction, store data, print.
func (b *Builder) QRCode(data string) {
	b.buf.Write(ESC_POS_COMMANDS.QR_MODEL)
	b.buf.Write(ESC_POS_COMMANDS.QR_SIZE_PREFIX)
	b.buf.WriteByte(0x06)
	b.buf.Write(ESC_POS_COMMANDS.QR_EC_MEDIUM)

	n := len(data) + 3
	b.buf.Write(ESC_POS_COMMANDS.QR_STORE_PREFIX)
	b.buf.WriteByte(byte(n & 0xFF))
	b.buf.WriteByte(byte(n >> 8))
	b.buf.Write([]byte{0x31, 0x50, 0x30})
	b.buf.WriteString(data)

	b.buf.Write(ESC_POS_COMMANDS.QR_PRINT)
}

// Image emits a dithered bitmap in 24-row stripes.
func (b *Builder) Image(bm *codec.Bitmap) {
	b.buf.Write(codec.PackEscPosRaster(bm))
}

// Cut feeds past the print head and cuts the paper.
func (b *Builder) Cut() {
	b.Feed(4)
	b.buf.Write(ESC_POS_COMMANDS.CUT_FULL)
}

// Bytes returns the accumulated command stream.
func (b *Builder) Bytes() []byte {
	return b.buf.Bytes()
}

func clampMultiplier(n int) int {
	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return n
}
