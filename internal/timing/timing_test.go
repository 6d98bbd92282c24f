package timing

import (
	"context"
	"testing"
	"time"
)

func TestWaitElapses(t *testing.T) {
	start := time.Now()

	if err := Wait(context.Background(), 50*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("returned too early: %v", elapsed)
	}
}

func TestWaitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()

	err := Wait(ctx, 5*time.Second)
	if err == nil {
		t.Fatal("expected context error")
	}

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancelled wait took too long: %v", elapsed)
	}
}

func TestWaitZeroDuration(t *testing.T) {
	if err := Wait(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
