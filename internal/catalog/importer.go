// importer.go orchestrates bulk imports: decoder branch selection by file
// extension, decode, per-row normalization and validation, a single bulk
// merge of the accepted subset into the store, and per-phase progress
// reporting to subscribed listeners.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultResultRetention is how long a finished import's result stays
// queryable before it is discarded. Nothing about an import is persisted.
const DefaultResultRetention = 5 * time.Minute

// progressNotifyInterval is how many validated rows pass between progress
// notifications within the validating phase.
const progressNotifyInterval = 100

// Importer runs bulk imports against a Store.
type Importer struct {
	store     *Store
	limiter   *ImportLimiter
	retention time.Duration

	mu   sync.RWMutex
	runs map[string]*importRun
}

type importRun struct {
	ID       string
	FileName string
	Progress ImportProgress
	Result   *ImportResult
	Done     chan struct{}

	listenerMu sync.Mutex
	listeners  []chan ImportProgress
	closed     bool
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithMaxConcurrentImports sets how many imports may run at once.
func WithMaxConcurrentImports(n int) ImporterOption {
	return func(im *Importer) { im.limiter = NewImportLimiter(n) }
}

// WithResultRetention sets how long finished results stay queryable.
func WithResultRetention(d time.Duration) ImporterOption {
	return func(im *Importer) {
		if d > 0 {
			im.retention = d
		}
	}
}

// NewImporter creates an Importer that merges accepted rows into store.
func NewImporter(store *Store, opts ...ImporterOption) *Importer {
	im := &Importer{
		store:     store,
		limiter:   NewImportLimiter(DefaultMaxConcurrentImports),
		retention: DefaultResultRetention,
		runs:      make(map[string]*importRun),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Start begins an asynchronous import run and returns its id immediately.
// Use SubscribeProgress for phase updates and Result or Wait for the final
// outcome.
//
// The file extension is checked before anything else: an unsupported type
// is rejected here and never reaches the decoder. When another import
// already holds the limiter slot, Start fails with ErrImportBusy.
func (im *Importer) Start(ctx context.Context, fileName string, data []byte) (string, error) {
	if !SupportedFile(fileName) {
		return "", fmt.Errorf("%w (got %q)", ErrUnsupportedFileType, fileName)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty file: %q", fileName)
	}
	if int64(len(data)) > MaxFileSize {
		return "", fmt.Errorf("file too large: %q exceeds %dMB", fileName, MaxFileSize/(1024*1024))
	}

	if !im.limiter.TryAcquire() {
		slog.Warn("import rejected, all slots busy",
			"file", fileName,
			"max_concurrent", im.limiter.MaxConcurrent(),
		)
		return "", ErrImportBusy
	}

	importID := uuid.New().String()
	run := &importRun{
		ID:       importID,
		FileName: fileName,
		Progress: ImportProgress{
			ImportID: importID,
			FileName: fileName,
			Phase:    PhaseStarting,
		},
		Done: make(chan struct{}),
	}

	im.mu.Lock()
	im.runs[importID] = run
	im.mu.Unlock()

	go im.process(ctx, run, data)

	return importID, nil
}

// process drives one import run to completion. Once started, a run always
// finishes: row failures are captured, not thrown, and only a whole-file
// decode failure aborts with zero store mutation.
func (im *Importer) process(ctx context.Context, run *importRun, data []byte) {
	startTime := time.Now()
	logger := slog.Default().With("import_id", run.ID, "file", run.FileName)

	defer func() {
		run.closeListeners()
		close(run.Done)
		im.limiter.Release()
		im.cleanup(run.ID)
	}()

	run.updateProgress(true, func(p *ImportProgress) { p.Phase = PhaseDecoding })

	rows, err := DecodeFile(run.FileName, data)
	if err != nil {
		logger.Warn("import decode failed", "error", err)
		run.fail(err.Error(), startTime)
		return
	}

	run.updateProgress(true, func(p *ImportProgress) {
		p.Phase = PhaseValidating
		p.TotalRows = len(rows)
	})

	var successful []Product
	var failed []FailedRow

	for i, row := range rows {
		if ctx.Err() != nil {
			logger.Warn("import interrupted", "error", ctx.Err())
			run.fail(fmt.Sprintf("import interrupted: %v", ctx.Err()), startTime)
			return
		}

		product, failure := NormalizeRow(row, i)
		if failure != nil {
			failed = append(failed, *failure)
		} else {
			successful = append(successful, product)
		}

		run.updateProgress(i%progressNotifyInterval == 0, func(p *ImportProgress) {
			p.Accepted = len(successful)
			p.Rejected = len(failed)
		})
	}

	run.updateProgress(true, func(p *ImportProgress) { p.Phase = PhaseMerging })

	// Partial row failures still merge the accepted subset; duplicates
	// against existing ids are accepted silently.
	total := im.store.BulkMerge(successful)

	run.updateProgress(true, func(p *ImportProgress) { p.Phase = PhaseComplete })

	run.Result = &ImportResult{
		ImportID:   run.ID,
		FileName:   run.FileName,
		Successful: successful,
		Failed:     failed,
		Duration:   time.Since(startTime),
	}

	logger.Info("import complete",
		"rows", len(rows),
		"accepted", len(successful),
		"rejected", len(failed),
		"collection_size", total,
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
}

// fail marks the run failed with no store mutation.
func (run *importRun) fail(msg string, startTime time.Time) {
	run.updateProgress(true, func(p *ImportProgress) {
		p.Phase = PhaseFailed
		p.Error = msg
	})
	run.Result = &ImportResult{
		ImportID: run.ID,
		FileName: run.FileName,
		Error:    msg,
		Duration: time.Since(startTime),
	}
}

// SubscribeProgress returns a channel of progress updates for an import.
// The current state is delivered first; the channel closes when the run
// finishes.
func (im *Importer) SubscribeProgress(importID string) (<-chan ImportProgress, error) {
	im.mu.RLock()
	run, ok := im.runs[importID]
	im.mu.RUnlock()
	if !ok {
		return nil, ErrImportNotFound
	}

	ch := make(chan ImportProgress, 16)

	run.listenerMu.Lock()
	defer run.listenerMu.Unlock()

	ch <- run.Progress
	if run.closed {
		close(ch)
		return ch, nil
	}
	run.listeners = append(run.listeners, ch)
	return ch, nil
}

// Result returns the outcome of a finished import, or ErrImportNotFound if
// the run is unknown or its result has been discarded. A nil result with a
// nil error means the run is still in flight.
func (im *Importer) Result(importID string) (*ImportResult, error) {
	im.mu.RLock()
	run, ok := im.runs[importID]
	im.mu.RUnlock()
	if !ok {
		return nil, ErrImportNotFound
	}

	select {
	case <-run.Done:
		return run.Result, nil
	default:
		return nil, nil
	}
}

// Wait blocks until the import finishes and returns its result.
func (im *Importer) Wait(ctx context.Context, importID string) (*ImportResult, error) {
	im.mu.RLock()
	run, ok := im.runs[importID]
	im.mu.RUnlock()
	if !ok {
		return nil, ErrImportNotFound
	}

	select {
	case <-run.Done:
		return run.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// WaitForDrain blocks until all active imports complete. Used for graceful
// shutdown.
func (im *Importer) WaitForDrain(ctx context.Context) error {
	return im.limiter.WaitForDrain(ctx)
}

// ActiveCount returns the number of imports currently running.
func (im *Importer) ActiveCount() int {
	return im.limiter.ActiveCount()
}

// cleanup discards the run's transient state after the retention window.
func (im *Importer) cleanup(importID string) {
	time.AfterFunc(im.retention, func() {
		im.mu.Lock()
		delete(im.runs, importID)
		im.mu.Unlock()
	})
}

// updateProgress applies fn to the run's progress under the listener lock,
// so subscribers attaching mid-run never observe a partial write. The new
// value fans out to listeners when notify is set.
func (run *importRun) updateProgress(notify bool, fn func(*ImportProgress)) {
	run.listenerMu.Lock()
	defer run.listenerMu.Unlock()

	fn(&run.Progress)
	if !notify {
		return
	}
	for _, ch := range run.listeners {
		select {
		case ch <- run.Progress:
		default:
			// Listener is slow; drop the update rather than block the run.
		}
	}
}

func (run *importRun) closeListeners() {
	run.listenerMu.Lock()
	defer run.listenerMu.Unlock()

	run.closed = true
	for _, ch := range run.listeners {
		close(ch)
	}
	run.listeners = nil
}
