package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"drinksales/internal/worker"
)

// SyncProcessorConfig holds configuration for the sync processor
type SyncProcessorConfig struct {
	// PollInterval is how often to check for pending rows (default: 30s)
	PollInterval time.Duration

	// CleanupInterval is how often parked rows are requeued (default: 1h)
	CleanupInterval time.Duration

	// CleanupAge is how long a row stays parked before it is requeued (default: 24h)
	CleanupAge time.Duration
}

// DefaultSyncProcessorConfig returns sensible defaults
func DefaultSyncProcessorConfig() SyncProcessorConfig {
	return SyncProcessorConfig{
		PollInterval:    30 * time.Second,
		CleanupInterval: 1 * time.Hour,
		CleanupAge:      24 * time.Hour,
	}
}

// BatchSyncer syncs one batch of pending transactions.
type BatchSyncer interface {
	ProcessPending(ctx context.Context) (worker.Result, error)
}

// ErrorResetter requeues rows parked with a sync error.
type ErrorResetter interface {
	ResetSyncErrors(ctx context.Context, olderThan time.Duration) (int64, error)
}

// SyncProcessor periodically sweeps pending rows the AMQP path missed.
type SyncProcessor struct {
	syncer   BatchSyncer
	resetter ErrorResetter
	config   SyncProcessorConfig

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewSyncProcessor creates a new sync processor. resetter may be nil.
func NewSyncProcessor(syncer BatchSyncer, resetter ErrorResetter, config SyncProcessorConfig) *SyncProcessor {
	def := DefaultSyncProcessorConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = def.PollInterval
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = def.CleanupInterval
	}
	if config.CleanupAge <= 0 {
		config.CleanupAge = def.CleanupAge
	}
	return &SyncProcessor{syncer: syncer, resetter: resetter, config: config}
}

// Start begins the processing loop. Returns an error if already running.
// The loop also ends when ctx is cancelled, after which Start may be
// called again.
func (p *SyncProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("sync processor is already running")
	}
	p.running = true
	stopCh, doneCh := make(chan struct{}), make(chan struct{})
	p.stopCh, p.doneCh = stopCh, doneCh
	p.mu.Unlock()

	go p.runLoop(ctx, stopCh, doneCh)

	slog.InfoContext(ctx, "Sync processor started", "poll_interval", p.config.PollInterval)
	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *SyncProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	// A concurrent Stop only waits.
	p.stopCh = nil
	p.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
	}

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Sync processor stopped gracefully")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Sync processor stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the processor is currently running
func (p *SyncProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *SyncProcessor) runLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan struct{}) {
	defer func() {
		p.mu.Lock()
		if p.doneCh == doneCh {
			p.running = false
		}
		p.mu.Unlock()
		close(doneCh)
	}()

	pollTicker := time.NewTicker(p.config.PollInterval)
	defer pollTicker.Stop()

	cleanupTicker := time.NewTicker(p.config.CleanupInterval)
	defer cleanupTicker.Stop()

	// Process immediately on startup
	p.processBatch(ctx)

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			slog.InfoContext(ctx, "Sync processor stopped by context", "error", ctx.Err())
			return
		case <-pollTicker.C:
			p.processBatch(ctx)
		case <-cleanupTicker.C:
			p.requeueParked(ctx)
		}
	}
}

func (p *SyncProcessor) processBatch(ctx context.Context) {
	res, err := p.syncer.ProcessPending(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to process sync batch", "error", err)
		return
	}
	if res != (worker.Result{}) {
		slog.InfoContext(ctx, "Sync batch processed",
			"synced", res.Synced,
			"failed", res.Failed,
			"parked", res.Parked)
	}
}

func (p *SyncProcessor) requeueParked(ctx context.Context) {
	if p.resetter == nil {
		return
	}
	if _, err := p.resetter.ResetSyncErrors(ctx, p.config.CleanupAge); err != nil {
		slog.ErrorContext(ctx, "Failed to requeue parked transactions", "error", err)
	}
}
