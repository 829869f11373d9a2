// internal/transport/transport.go
package transport

import (
	"context"
	"time"

	"printer-service/internal/model"
)

// Transport delivers raw printer bytes to a device. Implementations
// are stateless per send; the registry owns connection status.
type Transport interface {
	// Kind identifies the transport for logging and fallback order.
	Kind() string

	// Send transmits the command stream to the device.
	Send(ctx context.Context, device *model.PrinterDevice, data []byte) error

	// Test checks reachability without printing.
	Test(ctx context.Context, device *model.PrinterDevice) error
}

// Bridge is the native-bridge contract. The service must tolerate the
// bridge being entirely absent; callers hold it as a nil-able
// interface and fall through to the HTTP path.
type Bridge interface {
	SendRawData(address string, port int, base64Payload string) (bool, error)
	TestConnection(address string, port int) (bool, error)
	GetNetworkInfo() (model.JSONObject, error)
}

// TransportStats tracks per-transport delivery counters.
type TransportStats struct {
	BytesWritten   int64         `json:"bytes_written"`
	OperationCount int64         `json:"operation_count"`
	ErrorCount     int64         `json:"error_count"`
	LastActivity   time.Time     `json:"last_activity"`
	AverageLatency time.Duration `json:"average_latency"`
}

func (s *TransportStats) recordSuccess(bytes int, latency time.Duration) {
	s.BytesWritten += int64(bytes)
	s.OperationCount++
	s.LastActivity = time.Now()
	if s.AverageLatency == 0 {
		s.AverageLatency = latency
	} else {
		s.AverageLatency = (s.AverageLatency + latency) / 2
	}
}
