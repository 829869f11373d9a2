// internal/encoder/starline/commands.go
package starline

// STAR_LINE_COMMANDS contains the Star Line Mode opcodes used by the
// receipt builder. Star uses its own escape sequences for the same
// concerns ESC/POS covers; the two sets are not interchangeable.
var STAR_LINE_COMMANDS = struct {
	INITIALIZE      []byte
	SELECT_CP850    []byte
	ALIGN_LEFT      []byte
	ALIGN_CENTER    []byte
	ALIGN_RIGHT     []byte
	BOLD_ON         []byte
	BOLD_OFF        []byte
	UNDERLINE_ON    []byte
	UNDERLINE_OFF   []byte
	SIZE_PREFIX     []byte // + height byte + width byte
	LINE_FEED       []byte
	FEED_PREFIX     []byte // + line count byte
	CUT_FULL        []byte
	CUT_PARTIAL     []byte
	QR_MODEL2       []byte
	QR_EC_PREFIX    []byte // + level byte
	QR_CELL_PREFIX  []byte // + cell size byte
	QR_STORE_PREFIX []byte // + nL nH + data
	QR_PRINT        []byte
}{
	INITIALIZE:      []byte{0x1B, 0x40},                   // ESC @
	SELECT_CP850:    []byte{0x1B, 0x1D, 0x74, 0x04},       // ESC GS t 4
	ALIGN_LEFT:      []byte{0x1B, 0x1D, 0x61, 0x00},       // ESC GS a 0
	ALIGN_CENTER:    []byte{0x1B, 0x1D, 0x61, 0x01},       // ESC GS a 1
	ALIGN_RIGHT:     []byte{0x1B, 0x1D, 0x61, 0x02},       // ESC GS a 2
	BOLD_ON:         []byte{0x1B, 0x45},                   // ESC E
	BOLD_OFF:        []byte{0x1B, 0x46},                   // ESC F
	UNDERLINE_ON:    []byte{0x1B, 0x2D, 0x01},             // ESC - 1
	UNDERLINE_OFF:   []byte{0x1B, 0x2D, 0x00},             // ESC - 0
	SIZE_PREFIX:     []byte{0x1B, 0x69},                   // ESC i + h + w
	LINE_FEED:       []byte{0x0A},                         // LF
	FEED_PREFIX:     []byte{0x1B, 0x61},                   // ESC a + n
	CUT_FULL:        []byte{0x1B, 0x64, 0x02},             // ESC d 2
	CUT_PARTIAL:     []byte{0x1B, 0x64, 0x03},             // ESC d 3
	QR_MODEL2:       []byte{0x1B, 0x1D, 0x79, 0x53, 0x30, 0x02}, // ESC GS y S 0 2
	QR_EC_PREFIX:    []byte{0x1B, 0x1D, 0x79, 0x53, 0x31},       // ESC GS y S 1 + n
	QR_CELL_PREFIX:  []byte{0x1B, 0x1D, 0x79, 0x53, 0x32},       // ESC GS y S 2 + n
	QR_STORE_PREFIX: []byte{0x1B, 0x1D, 0x79, 0x44, 0x31, 0x00}, // ESC GS y D 1 0 + nL nH + data
	QR_PRINT:        []byte{0x1B, 0x1D, 0x79, 0x50},             // ESC GS y P
}
