// internal/encoder/resolve.go
package encoder

import (
	"strings"

	"printer-service/internal/model"
)

// Star printers poll on 9101 or answer on the vendor HTTP port in the
// wild; 9100 alone says nothing about the family.
var starKeywords = []string{"star", "tsp", "mc-print", "mcp", "sm-l", "sm-t"}
var escPosKeywords = []string{"epson", "tm-", "citizen", "bixolon", "rongta", "xprinter", "posiflex"}

// ResolveProtocol determines a device's command family with a fixed
// precedence: explicit field, then well-known port, then keyword
// heuristics on name/model strings. Unknown is a legitimate result;
// callers decide the fallback instead of this function guessing.
func ResolveProtocol(device *model.PrinterDevice) model.CommandProtocol {
	if device == nil {
		return model.ProtocolUnknown
	}

	// 1. Explicit configuration wins
	if device.Protocol == model.ProtocolEscPos || device.Protocol == model.ProtocolStarLine {
		return device.Protocol
	}

	// 2. Well-known ports
	switch device.Port {
	case 9101:
		return model.ProtocolStarLine
	case 515:
		return model.ProtocolEscPos
	}

	// 3. Keyword heuristics on advertised strings
	haystack := strings.ToLower(device.Name + " " + device.Metadata.Manufacturer + " " + device.Metadata.Model)
	for _, kw := range starKeywords {
		if strings.Contains(haystack, kw) {
			return model.ProtocolStarLine
		}
	}
	for _, kw := range escPosKeywords {
		if strings.Contains(haystack, kw) {
			return model.ProtocolEscPos
		}
	}

	return model.ProtocolUnknown
}
