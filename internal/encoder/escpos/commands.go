// internal/encoder/escpos/commands.go
package escpos

// ESC_POS_COMMANDS contains the ESC/POS opcodes used by the receipt
// builder.
var ESC_POS_COMMANDS = struct {
	INITIALIZE      []byte
	SELECT_CP850    []byte
	ALIGN_LEFT      []byte
	ALIGN_CENTER    []byte
	ALIGN_RIGHT     []byte
	BOLD_ON         []byte
	BOLD_OFF        []byte
	UNDERLINE_ON    []byte
	UNDERLINE_OFF   []byte
	SIZE_PREFIX     []byte // + packed width/height byte
	LINE_FEED       []byte
	FEED_LINES      []byte // + line count byte
	CUT_FULL        []byte
	CUT_PARTIAL     []byte
	QR_MODEL        []byte // GS ( k model 2
	QR_SIZE_PREFIX  []byte // + module size byte
	QR_EC_MEDIUM    []byte
	QR_STORE_PREFIX []byte // + pL pH 31 50 30 + data
	QR_PRINT        []byte
}{
	INITIALIZE:      []byte{0x1B, 0x40},             // ESC @
	SELECT_CP850:    []byte{0x1B, 0x74, 0x02},       // ESC t 2
	ALIGN_LEFT:      []byte{0x1B, 0x61, 0x00},       // ESC a 0
	ALIGN_CENTER:    []byte{0x1B, 0x61, 0x01},       // ESC a 1
	ALIGN_RIGHT:     []byte{0x1B, 0x61, 0x02},       // ESC a 2
	BOLD_ON:         []byte{0x1B, 0x45, 0x01},       // ESC E 1
	BOLD_OFF:        []byte{0x1B, 0x45, 0x00},       // ESC E 0
	UNDERLINE_ON:    []byte{0x1B, 0x2D, 0x01},       // ESC - 1
	UNDERLINE_OFF:   []byte{0x1B, 0x2D, 0x00},       // ESC - 0
	SIZE_PREFIX:     []byte{0x1D, 0x21},             // GS ! + n
	LINE_FEED:       []byte{0x0A},                   // LF
	FEED_LINES:      []byte{0x1B, 0x64},             // ESC d + n
	CUT_FULL:        []byte{0x1D, 0x56, 0x00},       // GS V 0
	CUT_PARTIAL:     []byte{0x1D, 0x56, 0x01},       // GS V 1
	QR_MODEL:        []byte{0x1D, 0x28, 0x6B, 0x04, 0x00, 0x31, 0x41, 0x32, 0x00}, // GS ( k <fn 65> model 2
	QR_SIZE_PREFIX:  []byte{0x1D, 0x28, 0x6B, 0x03, 0x00, 0x31, 0x43},             // GS ( k <fn 67> + n
	QR_EC_MEDIUM:    []byte{0x1D, 0x28, 0x6B, 0x03, 0x00, 0x31, 0x45, 0x31},       // GS ( k <fn 69> level M
	QR_STORE_PREFIX: []byte{0x1D, 0x28, 0x6B},                                     // GS ( k pL pH 31 50 30 + data
	QR_PRINT:        []byte{0x1D, 0x28, 0x6B, 0x03, 0x00, 0x31, 0x51, 0x30},       // GS ( k <fn 81>
}
