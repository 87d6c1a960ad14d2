package catalog

import (
	"context"
	"testing"
	"time"
)

// ============================================================================
// ImportLimiter Tests
// ============================================================================

func TestLimiterSingleSlot(t *testing.T) {
	l := NewImportLimiter(1)

	if !l.TryAcquire() {
		t.Fatal("first TryAcquire() = false, want true")
	}
	if l.TryAcquire() {
		t.Fatal("second TryAcquire() = true, want false while slot held")
	}
	if l.ActiveCount() != 1 {
		t.Errorf("ActiveCount() = %d, want 1", l.ActiveCount())
	}

	l.Release()
	if !l.TryAcquire() {
		t.Error("TryAcquire() after Release() = false, want true")
	}
	l.Release()
}

func TestLimiterMultipleSlots(t *testing.T) {
	l := NewImportLimiter(3)

	for i := 0; i < 3; i++ {
		if !l.TryAcquire() {
			t.Fatalf("TryAcquire() %d = false, want true", i+1)
		}
	}
	if l.TryAcquire() {
		t.Error("TryAcquire() beyond capacity = true, want false")
	}
	if l.ActiveCount() != 3 {
		t.Errorf("ActiveCount() = %d, want 3", l.ActiveCount())
	}

	for i := 0; i < 3; i++ {
		l.Release()
	}
	if l.ActiveCount() != 0 {
		t.Errorf("ActiveCount() after drain = %d, want 0", l.ActiveCount())
	}
}

func TestLimiterNonPositiveCapacityDefaults(t *testing.T) {
	l := NewImportLimiter(0)
	if l.MaxConcurrent() != DefaultMaxConcurrentImports {
		t.Errorf("MaxConcurrent() = %d, want %d", l.MaxConcurrent(), DefaultMaxConcurrentImports)
	}
}

func TestLimiterWaitForDrain(t *testing.T) {
	l := NewImportLimiter(1)
	if !l.TryAcquire() {
		t.Fatal("TryAcquire() = false")
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		l.Release()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.WaitForDrain(ctx); err != nil {
		t.Errorf("WaitForDrain() error = %v", err)
	}
}

func TestLimiterWaitForDrainTimeout(t *testing.T) {
	l := NewImportLimiter(1)
	if !l.TryAcquire() {
		t.Fatal("TryAcquire() = false")
	}
	defer l.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := l.WaitForDrain(ctx); err == nil {
		t.Error("WaitForDrain() = nil, want context deadline error while slot held")
	}
}
