// internal/transport/tcp.go
package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/model"
)

// TCPConfig carries tunables for the raw-socket transport.
type TCPConfig struct {
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	KeepAlive    bool
}

// DefaultTCPConfig matches the timeouts thermal printers tolerate.
func DefaultTCPConfig() TCPConfig {
	return TCPConfig{
		DialTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		KeepAlive:    true,
	}
}

// TCPTransport writes raw command bytes to the printer's RAW port
// (9100 on almost every network printer).
type TCPTransport struct {
	config TCPConfig
	logger *zap.Logger
	mutex  sync.Mutex
	stats  TransportStats
}

// NewTCPTransport creates a raw-socket transport.
func NewTCPTransport(config TCPConfig, logger *zap.Logger) *TCPTransport {
	return &TCPTransport{
		config: config,
		logger: logger.With(zap.String("transport", "tcp")),
	}
}

// Kind identifies the transport.
func (t *TCPTransport) Kind() string { return "tcp" }

// Send dials the device, writes the full byte stream and closes. A
// fresh connection per job keeps the stream boundary clean; thermal
// printers buffer internally.
func (t *TCPTransport) Send(ctx context.Context, device *model.PrinterDevice, data []byte) error {
	address := fmt.Sprintf("%s:%d", device.Address, device.Port)
	start := time.Now()

	conn, err := t.dial(ctx, address)
	if err != nil {
		t.fail()
		t.logger.Error("TCP dial failed",
			zap.String("address", address),
			zap.Error(err),
		)
		return fmt.Errorf("%w: dial %s: %v", model.ErrConnectionFailed, address, err)
	}
	defer conn.Close()

	if t.config.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(t.config.WriteTimeout))
	}

	n, err := conn.Write(data)
	if err != nil {
		t.fail()
		return fmt.Errorf("%w: write to %s: %v", model.ErrNetworkError, address, err)
	}
	if n != len(data) {
		t.fail()
		return fmt.Errorf("%w: incomplete write to %s: %d of %d bytes", model.ErrNetworkError, address, n, len(data))
	}

	t.mutex.Lock()
	t.stats.recordSuccess(len(data), time.Since(start))
	t.mutex.Unlock()

	t.logger.Debug("Raw data sent",
		zap.String("address", address),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// Test opens and immediately closes a connection.
func (t *TCPTransport) Test(ctx context.Context, device *model.PrinterDevice) error {
	address := fmt.Sprintf("%s:%d", device.Address, device.Port)
	conn, err := t.dial(ctx, address)
	if err != nil {
		return fmt.Errorf("%w: %s unreachable: %v", model.ErrConnectionFailed, address, err)
	}
	return conn.Close()
}

// Stats returns a copy of the delivery counters.
func (t *TCPTransport) Stats() TransportStats {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.stats
}

func (t *TCPTransport) dial(ctx context.Context, address string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: t.config.DialTimeout}
	if t.config.KeepAlive {
		dialer.KeepAlive = 30 * time.Second
	}
	return dialer.DialContext(ctx, "tcp", address)
}

func (t *TCPTransport) fail() {
	t.mutex.Lock()
	t.stats.ErrorCount++
	t.mutex.Unlock()
}
