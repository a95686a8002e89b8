package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"drinksales/internal/worker"
)

type fakeSyncer struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeSyncer) ProcessPending(context.Context) (worker.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return worker.Result{Synced: 1}, nil
}

func (f *fakeSyncer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeResetter struct {
	mu  sync.Mutex
	age time.Duration
}

func (f *fakeResetter) ResetSyncErrors(_ context.Context, olderThan time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.age = olderThan
	return 0, nil
}

func (f *fakeResetter) requeuedWith() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.age
}

// blockingSyncer holds every batch until its context ends.
type blockingSyncer struct{}

func (blockingSyncer) ProcessPending(ctx context.Context) (worker.Result, error) {
	<-ctx.Done()
	return worker.Result{}, ctx.Err()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func fastConfig() SyncProcessorConfig {
	return SyncProcessorConfig{
		PollInterval:    5 * time.Millisecond,
		CleanupInterval: 5 * time.Millisecond,
		CleanupAge:      time.Minute,
	}
}

func TestDefaultSyncProcessorConfig(t *testing.T) {
	config := DefaultSyncProcessorConfig()
	if config.PollInterval != 30*time.Second {
		t.Errorf("expected PollInterval 30s, got %v", config.PollInterval)
	}
	if config.CleanupInterval != time.Hour {
		t.Errorf("expected CleanupInterval 1h, got %v", config.CleanupInterval)
	}
	if config.CleanupAge != 24*time.Hour {
		t.Errorf("expected CleanupAge 24h, got %v", config.CleanupAge)
	}

	p := NewSyncProcessor(&fakeSyncer{}, nil, SyncProcessorConfig{})
	if p.config != config {
		t.Errorf("zero config should fall back to defaults, got %+v", p.config)
	}
}

func TestSyncProcessorConfig_CustomValues(t *testing.T) {
	p := NewSyncProcessor(&fakeSyncer{}, nil, fastConfig())
	if p.config != fastConfig() {
		t.Errorf("custom config should be kept, got %+v", p.config)
	}
}

func TestSyncProcessorLifecycle(t *testing.T) {
	syncer := &fakeSyncer{}
	resetter := &fakeResetter{}
	p := NewSyncProcessor(syncer, resetter, fastConfig())
	ctx := context.Background()

	if p.IsRunning() {
		t.Fatal("processor should not be running initially")
	}
	if err := p.Stop(ctx); err != nil {
		t.Fatalf("Stop should not error when not running: %v", err)
	}
	if err := p.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := p.Start(ctx); err == nil {
		t.Fatal("expected error when starting already running processor")
	}

	waitFor(t, func() bool { return syncer.count() >= 3 && resetter.requeuedWith() != 0 })

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if p.IsRunning() {
		t.Fatal("processor should be stopped")
	}
	if age := resetter.requeuedWith(); age != time.Minute {
		t.Fatalf("expected requeue with cleanup age, got %v", age)
	}
}

func TestSyncProcessorRestartsAfterContextCancel(t *testing.T) {
	syncer := &fakeSyncer{}
	p := NewSyncProcessor(syncer, nil, fastConfig())

	ctx, cancel := context.WithCancel(context.Background())
	if err := p.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	cancel()
	waitFor(t, func() bool { return !p.IsRunning() })

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("restart after cancel: %v", err)
	}
	before := syncer.count()
	waitFor(t, func() bool { return syncer.count() > before })

	stopCtx, stop := context.WithTimeout(context.Background(), time.Second)
	defer stop()
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestSyncProcessorStopTimeout(t *testing.T) {
	p := NewSyncProcessor(blockingSyncer{}, nil, fastConfig())

	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()
	if err := p.Start(runCtx); err != nil {
		t.Fatalf("start: %v", err)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := p.Stop(stopCtx); err == nil {
		t.Fatal("expected timeout while a batch is in flight")
	}
	// A second Stop must not close the stop channel again.
	again, cancelAgain := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancelAgain()
	_ = p.Stop(again)

	// Once the batch returns the loop exits and the processor can start again.
	cancelRun()
	waitFor(t, func() bool { return !p.IsRunning() })
	next, cancelNext := context.WithCancel(context.Background())
	defer cancelNext()
	if err := p.Start(next); err != nil {
		t.Fatalf("restart after timed out stop: %v", err)
	}
}
