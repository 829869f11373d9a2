// internal/codec/charmap.go
package codec

// Unicode to CP850 mapping shared by both command families. Thermal
// printers have no Unicode support; every rune must collapse to a
// single code page byte.
var cp850 = map[rune]byte{
	'ä': 0x84,
	'Ä': 0x8E,
	'ö': 0x94,
	'Ö': 0x99,
	'å': 0x86,
	'Å': 0x8F,
	'ü': 0x81,
	'Ü': 0x9A,
	'é': 0x82,
	'è': 0x8A,
	'à': 0x85,
	'ç': 0x87,
	'ñ': 0xA4,
	'Ñ': 0xA5,
	'ß': 0xE1,
	'°': 0xF8,
	'§': 0xF5,
	'½': 0xAB,
	'¼': 0xAC,
}

// cp858Euro is the euro substitute byte in CP858, the CP850 variant
// most ESC/POS firmwares actually ship.
const cp858Euro = 0xD5

// EncodeEscPos maps text to the ESC/POS code page byte stream. The
// euro sign becomes the single CP858 substitute byte. Total: never
// fails, unmapped runes above 127 become '?'.
func EncodeEscPos(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r == '€':
			out = append(out, cp858Euro)
		case r < 128:
			out = append(out, byte(r))
		default:
			if b, ok := cp850[r]; ok {
				out = append(out, b)
			} else {
				out = append(out, '?')
			}
		}
	}
	return out
}

// EncodeStarLine maps text to the Star Line Mode code page byte
// stream. Star firmwares in the field render the CP858 euro slot
// inconsistently, so the euro sign is expanded to the literal "eur"
// instead. Total: never fails, unmapped runes above 127 become '?'.
func EncodeStarLine(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r == '€':
			out = append(out, 'e', 'u', 'r')
		case r < 128:
			out = append(out, byte(r))
		default:
			if b, ok := cp850[r]; ok {
				out = append(out, b)
			} else {
				out = append(out, '?')
			}
		}
	}
	return out
}
