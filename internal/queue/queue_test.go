package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/model"
	"printer-service/internal/registry"
	"printer-service/internal/repository"
)

// fakeTransport fails the first failFirst sends, then succeeds. Every
// attempt's timestamp is recorded so tests can inspect retry pacing.
type fakeTransport struct {
	mutex     sync.Mutex
	failFirst int
	sends     int
	sent      [][]byte
	attempts  []time.Time
}

func (f *fakeTransport) Kind() string { return "fake" }

func (f *fakeTransport) Send(ctx context.Context, device *model.PrinterDevice, data []byte) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.sends++
	f.attempts = append(f.attempts, time.Now())
	if f.sends <= f.failFirst {
		return errors.New("printer unreachable")
	}
	f.sent = append(f.sent, data)
	return nil
}

func (f *fakeTransport) attemptTimes() []time.Time {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]time.Time(nil), f.attempts...)
}

func (f *fakeTransport) Test(ctx context.Context, device *model.PrinterDevice) error {
	return nil
}

type fakeEncoders struct{}

func (fakeEncoders) Encode(job *model.PrintJob, device *model.PrinterDevice) ([]byte, error) {
	return []byte("encoded"), nil
}

func newTestQueue(t *testing.T, tr *fakeTransport, cfg Config) (*Queue, *registry.Registry) {
	t.Helper()
	logger := zap.NewNop()
	reg := registry.New(repository.NewMemoryStore(), tr, logger)

	device := &model.PrinterDevice{
		ID:        "printer-1",
		Name:      "Test Printer",
		Address:   "10.0.0.5",
		Port:      9100,
		Transport: model.TransportNetwork,
	}
	if err := reg.Register(context.Background(), device); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Connect(context.Background(), device.ID); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	q := New(reg, tr, nil, fakeEncoders{}, nil, cfg, logger)
	return q, reg
}

func fastConfig() Config {
	return Config{
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
		IdleSleep:  time.Millisecond,
	}
}

func waitResult(t *testing.T, done <-chan model.JobResult) model.JobResult {
	t.Helper()
	select {
	case result := <-done:
		return result
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for job result")
		return model.JobResult{}
	}
}

func TestSubmitRejectsUnknownDevice(t *testing.T) {
	q, _ := newTestQueue(t, &fakeTransport{}, fastConfig())

	_, err := q.Submit(&model.PrintJob{DeviceID: "no-such-printer"})
	if !errors.Is(err, model.ErrDeviceNotFound) {
		t.Fatalf("err = %v, want ErrDeviceNotFound", err)
	}
}

func TestSubmitRejectsDisconnectedDevice(t *testing.T) {
	q, reg := newTestQueue(t, &fakeTransport{}, fastConfig())
	if err := reg.Disconnect("printer-1"); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}

	_, err := q.Submit(&model.PrintJob{DeviceID: "printer-1"})
	if !errors.Is(err, model.ErrNotConnected) {
		t.Fatalf("err = %v, want ErrNotConnected", err)
	}
}

func TestSubmitDeduplicatesByOrderNumber(t *testing.T) {
	q, _ := newTestQueue(t, &fakeTransport{}, fastConfig())

	first := &model.PrintJob{DeviceID: "printer-1", OrderNumber: "A-100"}
	if _, err := q.Submit(first); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	_, err := q.Submit(&model.PrintJob{DeviceID: "printer-1", OrderNumber: "A-100"})
	if !errors.Is(err, model.ErrDuplicateJob) {
		t.Fatalf("err = %v, want ErrDuplicateJob", err)
	}

	// a different order is fine
	if _, err := q.Submit(&model.PrintJob{DeviceID: "printer-1", OrderNumber: "A-101"}); err != nil {
		t.Fatalf("distinct order Submit: %v", err)
	}

	if q.Depth() != 2 {
		t.Fatalf("Depth = %d, want 2", q.Depth())
	}
}

func TestJobCompletesAndReleasesOrderNumber(t *testing.T) {
	tr := &fakeTransport{}
	q, _ := newTestQueue(t, tr, fastConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	done, err := q.Submit(&model.PrintJob{
		DeviceID:    "printer-1",
		OrderNumber: "A-200",
		Content:     model.JobContent{Text: "hello"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	result := waitResult(t, done)
	if !result.Success || result.RetryCount != 0 {
		t.Fatalf("result = %+v, want clean success", result)
	}
	if len(tr.sent) != 1 || string(tr.sent[0]) != "encoded" {
		t.Fatalf("transport saw %q", tr.sent)
	}

	// completed job no longer blocks the order number
	if _, err := q.Submit(&model.PrintJob{DeviceID: "printer-1", OrderNumber: "A-200"}); err != nil {
		t.Fatalf("resubmit after completion: %v", err)
	}
}

func TestJobRetriesThenSucceeds(t *testing.T) {
	tr := &fakeTransport{failFirst: 2}
	q, _ := newTestQueue(t, tr, fastConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	done, err := q.Submit(&model.PrintJob{DeviceID: "printer-1", Content: model.JobContent{Text: "x"}})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	result := waitResult(t, done)
	if !result.Success {
		t.Fatalf("result = %+v, want success after retries", result)
	}
	if result.RetryCount != 2 {
		t.Fatalf("retry count = %d, want 2", result.RetryCount)
	}
}

func TestRetryDelaysAreNonDecreasing(t *testing.T) {
	tr := &fakeTransport{failFirst: 2}
	q, _ := newTestQueue(t, tr, Config{
		MaxRetries: 3,
		RetryDelay: 40 * time.Millisecond,
		IdleSleep:  time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	done, err := q.Submit(&model.PrintJob{DeviceID: "printer-1", Content: model.JobContent{Text: "x"}})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result := waitResult(t, done); !result.Success {
		t.Fatalf("result = %+v, want success after retries", result)
	}

	attempts := tr.attemptTimes()
	if len(attempts) != 3 {
		t.Fatalf("attempts = %d, want 3", len(attempts))
	}
	var gaps []time.Duration
	for i := 1; i < len(attempts); i++ {
		gaps = append(gaps, attempts[i].Sub(attempts[i-1]))
	}
	if gaps[0] < 40*time.Millisecond {
		t.Fatalf("first retry came after %v, want at least the retry delay", gaps[0])
	}
	for i := 1; i < len(gaps); i++ {
		if gaps[i] < gaps[i-1] {
			t.Fatalf("retry gap shrank: gap %d = %v, gap %d = %v", i-1, gaps[i-1], i, gaps[i])
		}
	}
}

func TestJobFailsAfterMaxRetries(t *testing.T) {
	tr := &fakeTransport{failFirst: 100}
	q, _ := newTestQueue(t, tr, fastConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	done, err := q.Submit(&model.PrintJob{DeviceID: "printer-1", Content: model.JobContent{Text: "x"}})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	result := waitResult(t, done)
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.RetryCount != 3 {
		t.Fatalf("retry count = %d, want max retries 3", result.RetryCount)
	}
	if result.Err == nil {
		t.Fatal("expected delivery error in result")
	}
}

func TestRawContentSkipsEncoding(t *testing.T) {
	tr := &fakeTransport{}
	q, _ := newTestQueue(t, tr, fastConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	raw := []byte{0x1B, 0x40, 'h', 'i'}
	done, err := q.Submit(&model.PrintJob{DeviceID: "printer-1", Content: model.JobContent{Raw: raw}})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	result := waitResult(t, done)
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
	if len(tr.sent) != 1 || string(tr.sent[0]) != string(raw) {
		t.Fatalf("transport saw %v, want raw bytes unmodified", tr.sent)
	}
}
