// internal/encoder/starline/builder.go
package starline

import (
	"bytes"
	"strings"

	"printer-service/internal/codec"
	"printer-service/internal/encoder"
)

// Builder is a stateful Star Line Mode byte-stream builder.
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
	b.buf.Write(STAR_LINE_COMMANDS.INITIALIZE)
	b.buf.Write(STAR_LINE_COMMANDS.SELECT_CP850)
}

// Align sets the justification for following lines.
func (b *Builder) Align(a encoder.Alignment) {
	switch a {
	case encoder.AlignCenter:
		b.buf.Write(STAR_LINE_COMMANDS.ALIGN_CENTER)
	case encoder.AlignRight:
		b.buf.Write(STAR_LINE_COMMANDS.ALIGN_RIGHT)
	default:
		b.buf.Write(STAR_LINE_COMMANDS.ALIGN_LEFT)
	}
}

// Bold toggles emphasis.
func (b *Builder) Bold(on bool) {
	if on {
		b.buf.Write(STAR_LINE_COMMANDS.BOLD_ON)
	} else {
		b.buf.Write(STAR_LINE_COMMANDS.BOLD_OFF)
	}
}

// Underline toggles underlining.
func (b *Builder) Underline(on bool) {
	if on {
		b.buf.Write(STAR_LINE_COMMANDS.UNDERLINE_ON)
	} else {
		b.buf.Write(STAR_LINE_COMMANDS.UNDERLINE_OFF)
	}
}

// CharSize sets width and height multipliers (1-8). Star takes the
// height and width as separate zero-based bytes rather than one
// packed control byte.
func (b *Builder) CharSize(w, h int) {
	b.buf.Write(STAR_LINE_COMMANDS.SIZE_PREFIX)
	b.buf.WriteByte(byte(clampMultiplier(h) - 1))
	b.buf.WriteByte(byte(clampMultiplier(w) - 1))
}

// Text appends code-page encoded text without a line feed.
func (b *Builder) Text(s string) {
	b.buf.Write(codec.EncodeStarLine(s))
}

// Line appends code-page encoded text followed by a line feed.
func (b *Builder) Line(s string) {
	b.Text(s)
	b.buf.Write(STAR_LINE_COMMANDS.LINE_FEED)
}

// TwoColumn prints a left/right column line at paper width. The euro
// sign prints as the three-character "eur" on Star hardware, so it is
// expanded before layout to keep the right column flush with the
// paper edge.
func (b *Builder) TwoColumn(left, right string) {
	left = strings.ReplaceAll(left, "€", "eur")
	right = strings.ReplaceAll(right, "€", "eur")
	b.Line(encoder.TwoColumn(left, right, b.width))
}

// Feed advances the paper n lines.
func (b *Builder) Feed(n int) {
	if n < 1 {
		n = 1
	}
	b.buf.Write(STAR_LINE_COMMANDS.FEED_PREFIX)
	b.buf.WriteByte(byte(n))
}

// QRCode emits the native Star QR sequence: model, error correction,
// cell size, store data with a two-byte little-endian length, print.
func (b *Builder) QRCode(data string) {
	b.buf.Write(STAR_LINE_COMMANDS.QR_MODEL2)
	b.buf.Write(STAR_LINE_COMMANDS.QR_EC_PREFIX)
	b.buf.WriteByte(0x01) // level M
	b.buf.Write(STAR_LINE_COMMANDS.QR_CELL_PREFIX)
	b.buf.WriteByte(0x06)

	b.buf.Write(STAR_LINE_COMMANDS.QR_STORE_PREFIX)
	b.buf.WriteByte(byte(len(data) & 0xFF))
	b.buf.WriteByte(byte(len(data) >> 8))
	b.buf.WriteString(data)

	b.buf.Write(STAR_LINE_COMMANDS.QR_PRINT)
}

// Image emits a dithered bitmap one row at a time.
func (b *Builder) Image(bm *codec.Bitmap) {
	b.buf.Write(codec.PackStarRaster(bm))
}

// Cut feeds past the tear bar and cuts the paper.
func (b *Builder) Cut() {
	b.Feed(4)
	b.buf.Write(STAR_LINE_COMMANDS.CUT_FULL)
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
