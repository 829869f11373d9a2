package network

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestBuildTargets(t *testing.T) {
	s := NewScanner(&Config{
		StaticAddresses: []string{"192.168.1.100", "10.0.0.50"},
	}, nil, nil, zap.NewNop())

	targets := s.buildTargets("192.168.1")

	if len(targets) != 254 {
		t.Fatalf("targets = %d, want every host once", len(targets))
	}
	// in-subnet static address first, out-of-subnet one filtered
	if targets[0] != "192.168.1.100" {
		t.Fatalf("first target = %q, want the static address", targets[0])
	}
	seen := make(map[string]bool)
	for _, address := range targets {
		if seen[address] {
			t.Fatalf("duplicate target %q", address)
		}
		seen[address] = true
	}
	if seen["10.0.0.50"] {
		t.Fatal("out-of-subnet static address included")
	}
}

func TestScanStopsOnCancelledContext(t *testing.T) {
	s := NewScanner(DefaultConfig(), nil, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	devices, err := s.Scan(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(devices) != 0 {
		t.Fatalf("devices = %d, want none", len(devices))
	}
	// a cancelled sweep must not sit in dial timeouts
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("cancelled scan took %v", elapsed)
	}
}
