package encoder

import (
	"testing"

	"printer-service/internal/model"
)

func TestResolveProtocol(t *testing.T) {
	tests := []struct {
		name   string
		device *model.PrinterDevice
		want   model.CommandProtocol
	}{
		{
			name:   "nil-device",
			device: nil,
			want:   model.ProtocolUnknown,
		},
		{
			name:   "explicit-field-wins-over-port",
			device: &model.PrinterDevice{Protocol: model.ProtocolStarLine, Port: 515},
			want:   model.ProtocolStarLine,
		},
		{
			name:   "star-poll-port",
			device: &model.PrinterDevice{Port: 9101},
			want:   model.ProtocolStarLine,
		},
		{
			name:   "lpd-port-implies-escpos",
			device: &model.PrinterDevice{Port: 515},
			want:   model.ProtocolEscPos,
		},
		{
			name:   "star-keyword-in-name",
			device: &model.PrinterDevice{Name: "Star TSP143"},
			want:   model.ProtocolStarLine,
		},
		{
			name: "epson-keyword-in-metadata",
			device: &model.PrinterDevice{
				Name:     "Kitchen",
				Metadata: model.DeviceMetadata{Manufacturer: "EPSON", Model: "TM-T88V"},
			},
			want: model.ProtocolEscPos,
		},
		{
			name:   "star-keyword-beats-escpos-keyword",
			device: &model.PrinterDevice{Name: "mC-Print3", Metadata: model.DeviceMetadata{Model: "Citizen clone"}},
			want:   model.ProtocolStarLine,
		},
		{
			name:   "raw-port-alone-says-nothing",
			device: &model.PrinterDevice{Port: 9100, Name: "front desk"},
			want:   model.ProtocolUnknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveProtocol(tc.device); got != tc.want {
				t.Fatalf("ResolveProtocol = %s, want %s", got, tc.want)
			}
		})
	}
}
