// internal/model/device.go
package model

import (
	"encoding/json"
	"time"
)

// TransportKind represents how a printer is reached
type TransportKind string

const (
	TransportNetwork   TransportKind = "NETWORK"
	TransportBluetooth TransportKind = "BLUETOOTH"
	TransportCloudPoll TransportKind = "CLOUD_POLL"
)

// CommandProtocol represents the printer command language
type CommandProtocol string

const (
	ProtocolEscPos   CommandProtocol = "ESC_POS"
	ProtocolStarLine CommandProtocol = "STAR_LINE"
	ProtocolUnknown  CommandProtocol = "UNKNOWN"
)

// DeviceStatus represents the current connection status of a printer
type DeviceStatus string

const (
	DeviceStatusIdle       DeviceStatus = "IDLE"
	DeviceStatusConnecting DeviceStatus = "CONNECTING"
	DeviceStatusPrinting   DeviceStatus = "PRINTING"
	DeviceStatusError      DeviceStatus = "ERROR"
	DeviceStatusOffline    DeviceStatus = "OFFLINE"
)

// Capability represents what a printer can do
type Capability string

const (
	CapabilityQR      Capability = "QR"
	CapabilityImage   Capability = "IMAGE"
	CapabilityBarcode Capability = "BARCODE"
	CapabilityCut     Capability = "CUT"
)

// JSONObject type for loosely structured metadata
type JSONObject map[string]interface{}

func (j *JSONObject) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// PrinterDevice represents a thermal receipt printer known to the registry
type PrinterDevice struct {
	ID          string          `json:"id" db:"id"`
	Address     string          `json:"address" db:"address"`
	Port        int             `json:"port,omitempty" db:"port"`
	Name        string          `json:"name" db:"name"`
	Transport   TransportKind   `json:"transport" db:"transport"`
	Protocol    CommandProtocol `json:"protocol" db:"protocol"`
	Status      DeviceStatus    `json:"status" db:"status"`
	IsConnected bool            `json:"is_connected" db:"is_connected"`

	// Capability hints used by the encoders
	PaperWidth     int  `json:"paper_width" db:"paper_width"` // characters per line
	SupportsQR     bool `json:"supports_qr" db:"supports_qr"`
	SupportsImage  bool `json:"supports_image" db:"supports_image"`
	SupportsCutter bool `json:"supports_cutter" db:"supports_cutter"`

	// Diagnostic metadata filled in by discovery
	Metadata DeviceMetadata `json:"metadata" db:"metadata"`

	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	LastConnectedAt *time.Time `json:"last_connected_at" db:"last_connected_at"`
}

// DeviceMetadata carries discovery diagnostics for a printer
type DeviceMetadata struct {
	Confidence     int    `json:"confidence"` // printer score 0-100
	ResponseTimeMs int    `json:"response_time_ms"`
	OpenPorts      []int  `json:"open_ports,omitempty"`
	Manufacturer   string `json:"manufacturer,omitempty"`
	Model          string `json:"model,omitempty"`
}

// HasCapability checks a capability hint
func (d *PrinterDevice) HasCapability(capability Capability) bool {
	switch capability {
	case CapabilityQR:
		return d.SupportsQR
	case CapabilityImage:
		return d.SupportsImage
	case CapabilityCut:
		return d.SupportsCutter
	default:
		return false
	}
}

// IsCloudPolled reports whether the device fetches jobs from a server
// queue instead of accepting a push connection.
func (d *PrinterDevice) IsCloudPolled() bool {
	return d.Transport == TransportCloudPoll
}

// IsStale reports whether a saved device should be evicted on load.
// A device older than seven days that was never connected is stale.
func (d *PrinterDevice) IsStale(now time.Time) bool {
	if d.IsConnected || d.LastConnectedAt != nil {
		return false
	}
	return now.Sub(d.CreatedAt) > 7*24*time.Hour
}

// DeviceTestResult is the transient artifact of a single host probe.
// It is consumed immediately to build a PrinterDevice and never persisted.
type DeviceTestResult struct {
	Address        string `json:"address"`
	Reachable      bool   `json:"reachable"`
	OpenPorts      []int  `json:"open_ports"`
	PrinterScore   int    `json:"printer_score"` // 0-100
	ResponseTimeMs int    `json:"response_time_ms"`
	Manufacturer   string `json:"manufacturer,omitempty"`
	Model          string `json:"model,omitempty"`
}

// IsPrinter reports whether the cumulative score crossed the
// classification threshold.
func (r *DeviceTestResult) IsPrinter() bool {
	return r.PrinterScore >= PrinterScoreThreshold
}

// PrinterScoreThreshold is the minimum fingerprint score for a scanned
// host to be classified as a printer.
const PrinterScoreThreshold = 15
