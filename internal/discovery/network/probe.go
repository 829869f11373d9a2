// internal/discovery/network/probe.go
package network

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"printer-service/internal/model"
)

// probePorts is the priority-ordered port list. RAW 9100 first: it is
// the strongest printer signal and the one we print to.
var probePorts = []int{9100, 631, 80, 515, 8080}

// probeHost checks one address across all probe ports and scores it.
func (s *Scanner) probeHost(ctx context.Context, address string) *model.DeviceTestResult {
	result := &model.DeviceTestResult{Address: address}
	start := time.Now()

	var keywordHit bool
	for _, port := range probePorts {
		if ctx.Err() != nil {
			break
		}
		if !s.dialPort(ctx, address, port) {
			continue
		}
		result.OpenPorts = append(result.OpenPorts, port)

		if isHTTPPort(port) && !keywordHit {
			body := s.fetchBody(ctx, address, port)
			if manufacturer, modelName, hit := MatchFingerprint(body); hit {
				keywordHit = true
				result.Manufacturer = manufacturer
				result.Model = modelName
			}
		}
	}

	result.Reachable = len(result.OpenPorts) > 0
	result.ResponseTimeMs = int(time.Since(start).Milliseconds())
	result.PrinterScore = FingerprintScore(result.OpenPorts, keywordHit)
	return result
}

// dialPort opens and closes a TCP connection with a bounded timeout.
func (s *Scanner) dialPort(ctx context.Context, address string, port int) bool {
	dialer := &net.Dialer{Timeout: s.config.ProbeTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", address, port))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// fetchBody pulls the web interface front page for fingerprinting.
func (s *Scanner) fetchBody(ctx context.Context, address string, port int) string {
	url := fmt.Sprintf("http://%s:%d/", address, port)
	reqCtx, cancel := context.WithTimeout(ctx, s.config.HTTPTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return ""
	}
	return string(body)
}

func isHTTPPort(port int) bool {
	return port == 80 || port == 8080 || port == 631
}

// portWeights are the per-port contributions to the printer score.
var portWeights = map[int]int{
	9100: 8, // RAW print
	631:  5, // IPP
	515:  4, // LPD
	80:   3, // web interface
	8080: 2, // alternate web
}

const (
	keywordBonus    = 40 // web interface body matched a printer keyword
	rawWebCombo     = 5  // 9100 and 80 together
	legacyPortBonus = 3  // 631 or 515 present
)

// FingerprintScore computes the cumulative printer score for a set of
// open ports. Known port combinations and a web-interface keyword
// match add bonuses on top of the per-port weights.
func FingerprintScore(openPorts []int, keywordHit bool) int {
	score := 0
	open := make(map[int]bool, len(openPorts))
	for _, port := range openPorts {
		score += portWeights[port]
		open[port] = true
	}

	if open[9100] && open[80] {
		score += rawWebCombo
	}
	if open[631] || open[515] {
		score += legacyPortBonus
	}
	if keywordHit {
		score += keywordBonus
	}

	if score > 100 {
		score = 100
	}
	return score
}

// printerKeywords identify a printer's web interface. Manufacturer
// names map to a vendor label; generic firmware strings map to "".
var printerKeywords = []struct {
	keyword      string
	manufacturer string
}{
	{"epson", "Epson"},
	{"tm-t", "Epson"},
	{"star micronics", "Star"},
	{"mc-print", "Star"},
	{"citizen", "Citizen"},
	{"bixolon", "Bixolon"},
	{"zebra", "Zebra"},
	{"hp ", "HP"},
	{"jetdirect", "HP"},
	{"brother", "Brother"},
	{"kyocera", "Kyocera"},
	{"print queue", ""},
	{"printer status", ""},
	{"ipp/", ""},
	{"pdl-datastream", ""},
	{"thermal printer", ""},
}

// MatchFingerprint scans a web interface body against the keyword
// list. Returns the inferred manufacturer and model when a vendor
// keyword matched.
func MatchFingerprint(body string) (manufacturer, modelName string, hit bool) {
	if body == "" {
		return "", "", false
	}
	lower := strings.ToLower(body)
	for _, entry := range printerKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.manufacturer, extractModel(lower, entry.keyword), true
		}
	}
	return "", "", false
}

// extractModel pulls a short model token following a vendor keyword,
// best effort only.
func extractModel(lower, keyword string) string {
	idx := strings.Index(lower, keyword)
	if idx < 0 {
		return ""
	}
	rest := lower[idx:]
	end := len(rest)
	for i, r := range rest {
		if r == '<' || r == '\n' || i > 40 {
			end = i
			break
		}
	}
	token := strings.TrimSpace(rest[:end])
	if len(token) < 4 || len(token) > 40 {
		return ""
	}
	return strings.ToUpper(token[:1]) + token[1:]
}
