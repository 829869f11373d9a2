// internal/normalizer/instructions.go
package normalizer

import (
	"strings"
)

// ParsedInstructions is the result of splitting a semicolon-delimited
// special-instructions string into its labeled segments.
type ParsedInstructions struct {
	Toppings []string
	Size     string
	Special  string
	Notes    []string
}

// ParseInstructions splits "Toppings: a, b; Size: large; Special: x"
// style strings. Segments without a known label are treated as
// free-form notes and deduplicated.
func ParseInstructions(s string) ParsedInstructions {
	var out ParsedInstructions
	seen := map[string]bool{}

	for _, seg := range strings.Split(s, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		lower := strings.ToLower(seg)
		switch {
		case strings.HasPrefix(lower, "toppings:"):
			for _, t := range strings.Split(seg[len("toppings:"):], ",") {
				if t = strings.TrimSpace(t); t != "" {
					out.Toppings = append(out.Toppings, t)
				}
			}
		case strings.HasPrefix(lower, "size:"):
			out.Size = strings.TrimSpace(seg[len("size:"):])
		case strings.HasPrefix(lower, "special:"):
			out.Special = strings.TrimSpace(seg[len("special:"):])
		default:
			if !seen[lower] {
				seen[lower] = true
				out.Notes = append(out.Notes, seg)
			}
		}
	}
	return out
}

// CleanNotes joins the free-form notes back into one string.
func (p ParsedInstructions) CleanNotes() string {
	parts := p.Notes
	if p.Special != "" {
		parts = append([]string{p.Special}, parts...)
	}
	return strings.Join(parts, "; ")
}
