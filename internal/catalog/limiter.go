// limiter.go implements mutual exclusion for import processing.
//
// The browser original prevented concurrent imports structurally, by
// disabling the upload control while one was in flight. A server cannot
// rely on a disabled button, so the limiter enforces the same guarantee
// with a semaphore: at most maxConcurrent import runs (one, unless
// configured otherwise) hold a slot at a time, and further requests are
// rejected with ErrImportBusy.
//
// The limiter also supports graceful shutdown via WaitForDrain, which
// blocks until all active imports complete.
package catalog

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxConcurrentImports mirrors the original single-import-at-a-time
// behavior.
const DefaultMaxConcurrentImports = 1

// ImportLimiter controls concurrent import processing using a semaphore.
type ImportLimiter struct {
	semaphore chan struct{}

	mu     sync.RWMutex
	active int
}

// NewImportLimiter creates a limiter that allows at most maxConcurrent
// simultaneous imports.
func NewImportLimiter(maxConcurrent int) *ImportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentImports
	}

	return &ImportLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
	}
}

// TryAcquire attempts to acquire an import slot without blocking.
// Returns true if a slot was acquired. The caller MUST call Release when
// the import completes (use defer).
func (l *ImportLimiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return true
	default:
		return false
	}
}

// Release releases a previously acquired slot.
// Must be called exactly once for each successful TryAcquire.
func (l *ImportLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of currently active imports.
func (l *ImportLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// MaxConcurrent returns the maximum allowed concurrent imports.
func (l *ImportLimiter) MaxConcurrent() int {
	return cap(l.semaphore)
}

// WaitForDrain blocks until all active imports complete or the context is
// cancelled. Used for graceful shutdown so an in-flight import finishes
// before termination.
func (l *ImportLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.ActiveCount() == 0 {
				return nil
			}
		}
	}
}
