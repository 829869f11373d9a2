// internal/encoder/layout.go
package encoder

import (
	"strings"
	"unicode/utf8"

	"printer-service/internal/model"
)

// ItemNameSize splits the printable name and size of an item. A name
// carrying a "Name (Size)" suffix wins; otherwise a "Size: X" segment
// inside the semicolon-delimited notes is used; otherwise the size
// field set by the normalizer.
func ItemNameSize(item *model.ReceiptItem) (string, string) {
	name := item.Name
	if idx := strings.LastIndex(name, " ("); idx > 0 && strings.HasSuffix(name, ")") {
		return strings.TrimSpace(name[:idx]), strings.TrimSuffix(name[idx+2:], ")")
	}
	for _, seg := range strings.Split(item.Notes, ";") {
		seg = strings.TrimSpace(seg)
		if rest, ok := cutPrefixFold(seg, "size:"); ok {
			return name, strings.TrimSpace(rest)
		}
	}
	return name, item.Size
}

// cutPrefixFold is strings.CutPrefix with ASCII case folding.
func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

// TwoColumn pads or truncates the left text so the right text ends at
// the paper edge. Widths are counted in runes, not bytes: the code
// page collapses every rune to one printed byte, so UTF-8 byte length
// overstates ä/ö/€ and would pad the line short. Left text is cut with
// an ellipsis on a rune boundary when the right column would not fit
// otherwise.
func TwoColumn(left, right string, width int) string {
	if width < 10 {
		width = 10
	}
	rightWidth := utf8.RuneCountInString(right)
	maxLeft := width - rightWidth - 1
	if maxLeft < 1 {
		maxLeft = 1
	}
	leftRunes := []rune(left)
	if len(leftRunes) > maxLeft {
		if maxLeft > 2 {
			leftRunes = append(leftRunes[:maxLeft-2], '.', '.')
		} else {
			leftRunes = leftRunes[:maxLeft]
		}
		left = string(leftRunes)
	}
	return left + strings.Repeat(" ", width-utf8.RuneCountInString(left)-rightWidth) + right
}

// WrapText word-wraps free text at the given column width. Widths are
// counted in runes and words longer than a full line are hard-split on
// rune boundaries.
func WrapText(s string, width int) []string {
	if width <= 0 {
		width = 42
	}
	var lines []string
	var line string
	lineWidth := 0
	for _, word := range strings.Fields(s) {
		runes := []rune(word)
		for len(runes) > width {
			if line != "" {
				lines = append(lines, line)
				line = ""
				lineWidth = 0
			}
			lines = append(lines, string(runes[:width]))
			runes = runes[width:]
		}
		word = string(runes)
		switch {
		case line == "":
			line = word
			lineWidth = len(runes)
		case lineWidth+1+len(runes) <= width:
			line += " " + word
			lineWidth += 1 + len(runes)
		default:
			lines = append(lines, line)
			line = word
			lineWidth = len(runes)
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// Separator returns a full-width divider line.
func Separator(width int) string {
	if width <= 0 {
		width = 42
	}
	return strings.Repeat("-", width)
}
