package network

import (
	"testing"
)

func TestFingerprintScore(t *testing.T) {
	tests := []struct {
		name       string
		ports      []int
		keywordHit bool
		want       int
	}{
		{
			name:  "no-ports",
			ports: nil,
			want:  0,
		},
		{
			name:  "raw-only",
			ports: []int{9100},
			want:  8,
		},
		{
			name:  "raw-web-ipp",
			ports: []int{9100, 631, 80},
			// 8+5+3 per port, +5 raw/web combo, +3 legacy port
			want: 24,
		},
		{
			name:  "lpd-only",
			ports: []int{515},
			want:  7,
		},
		{
			name:       "keyword-bonus",
			ports:      []int{80},
			keywordHit: true,
			want:       43,
		},
		{
			name:       "all-ports-with-keyword",
			ports:      []int{9100, 631, 80, 515, 8080},
			keywordHit: true,
			want:       70,
		},
		{
			name:  "unknown-port-contributes-nothing",
			ports: []int{22},
			want:  0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FingerprintScore(tc.ports, tc.keywordHit); got != tc.want {
				t.Fatalf("FingerprintScore(%v, %v) = %d, want %d", tc.ports, tc.keywordHit, got, tc.want)
			}
		})
	}
}

func TestFingerprintScoreNeverExceedsCap(t *testing.T) {
	ports := []int{9100, 631, 80, 515, 8080, 9100, 631, 80, 515, 8080, 9100, 631, 80}
	if got := FingerprintScore(ports, true); got > 100 {
		t.Fatalf("score = %d, want <= 100", got)
	}
}

func TestMatchFingerprint(t *testing.T) {
	tests := []struct {
		name             string
		body             string
		wantManufacturer string
		wantHit          bool
	}{
		{
			name:             "epson-status-page",
			body:             "<html><title>EPSON TM-T88V Status</title></html>",
			wantManufacturer: "Epson",
			wantHit:          true,
		},
		{
			name:             "star-mcprint",
			body:             "Welcome to mC-Print3 configuration",
			wantManufacturer: "Star",
			wantHit:          true,
		},
		{
			name:             "generic-firmware-string",
			body:             "device printer status: ready",
			wantManufacturer: "",
			wantHit:          true,
		},
		{
			name:    "unrelated-page",
			body:    "<html>router admin login</html>",
			wantHit: false,
		},
		{
			name:    "empty-body",
			body:    "",
			wantHit: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			manufacturer, _, hit := MatchFingerprint(tc.body)
			if hit != tc.wantHit {
				t.Fatalf("hit = %v, want %v", hit, tc.wantHit)
			}
			if manufacturer != tc.wantManufacturer {
				t.Fatalf("manufacturer = %q, want %q", manufacturer, tc.wantManufacturer)
			}
		})
	}
}
