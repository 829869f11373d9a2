package transport

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"printer-service/internal/model"
)

// stubTransport records calls and returns a fixed error.
type stubTransport struct {
	kind  string
	err   error
	sends int
	tests int
}

func (s *stubTransport) Kind() string { return s.kind }

func (s *stubTransport) Send(ctx context.Context, device *model.PrinterDevice, data []byte) error {
	s.sends++
	return s.err
}

func (s *stubTransport) Test(ctx context.Context, device *model.PrinterDevice) error {
	s.tests++
	return s.err
}

func TestChainStopsAtFirstSuccess(t *testing.T) {
	first := &stubTransport{kind: "bridge", err: model.ErrBridgeUnavailable}
	second := &stubTransport{kind: "tcp"}
	third := &stubTransport{kind: "http"}
	chain := NewChain(zap.NewNop(), first, second, third)

	device := &model.PrinterDevice{ID: "p1"}
	if err := chain.Send(context.Background(), device, []byte("x")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if first.sends != 1 || second.sends != 1 {
		t.Fatalf("fallback order broken: bridge=%d tcp=%d", first.sends, second.sends)
	}
	if third.sends != 0 {
		t.Fatal("chain kept going past a successful transport")
	}
}

func TestChainSurfacesLastError(t *testing.T) {
	tcpErr := errors.New("dial refused")
	httpErr := errors.New("404 from printer")
	chain := NewChain(zap.NewNop(),
		&stubTransport{kind: "tcp", err: tcpErr},
		&stubTransport{kind: "http", err: httpErr},
	)

	err := chain.Send(context.Background(), &model.PrinterDevice{ID: "p1"}, []byte("x"))
	if !errors.Is(err, httpErr) {
		t.Fatalf("err = %v, want the last transport's error", err)
	}
}

func TestChainSkipsNilTransports(t *testing.T) {
	only := &stubTransport{kind: "tcp"}
	chain := NewChain(zap.NewNop(), nil, only, nil)

	if err := chain.Send(context.Background(), &model.PrinterDevice{ID: "p1"}, []byte("x")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if only.sends != 1 {
		t.Fatalf("sends = %d, want 1", only.sends)
	}
}

func TestChainEmptyFails(t *testing.T) {
	chain := NewChain(zap.NewNop())

	err := chain.Send(context.Background(), &model.PrinterDevice{ID: "p1"}, []byte("x"))
	if !errors.Is(err, model.ErrPrintFailed) {
		t.Fatalf("err = %v, want ErrPrintFailed", err)
	}
	if err := chain.Test(context.Background(), &model.PrinterDevice{ID: "p1"}); !errors.Is(err, model.ErrConnectionFailed) {
		t.Fatalf("Test err = %v, want ErrConnectionFailed", err)
	}
}

func TestChainRespectsContextCancellation(t *testing.T) {
	failing := &stubTransport{kind: "tcp", err: errors.New("slow failure")}
	never := &stubTransport{kind: "http"}
	chain := NewChain(zap.NewNop(), failing, never)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := chain.Send(ctx, &model.PrinterDevice{ID: "p1"}, []byte("x"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if never.sends != 0 {
		t.Fatal("chain continued after context cancellation")
	}
}

func TestChainTestFallsThrough(t *testing.T) {
	down := &stubTransport{kind: "bridge", err: model.ErrBridgeUnavailable}
	up := &stubTransport{kind: "tcp"}
	chain := NewChain(zap.NewNop(), down, up)

	if err := chain.Test(context.Background(), &model.PrinterDevice{ID: "p1"}); err != nil {
		t.Fatalf("Test: %v", err)
	}
	if down.tests != 1 || up.tests != 1 {
		t.Fatalf("probe order broken: bridge=%d tcp=%d", down.tests, up.tests)
	}
}
