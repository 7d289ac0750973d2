/*
watcher.go - Periodic settlement checks

PURPOSE:
  Runs a background goroutine that sweeps all pending invoices on a
  configurable interval and applies the paid transition to any that
  have settled. The interactive pay view does the same check on demand;
  the watcher covers invoices nobody is looking at.

DESIGN:
  - Ticker-driven loop with a stop channel and WaitGroup
  - First sweep runs immediately on Start
  - Each sweep reloads the collection; a cleared history is just an
    empty sweep
*/
package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aliveevie/invoice-flow-btc/invoice"
)

// Watcher periodically reconciles all pending invoices.
type Watcher struct {
	Reconciler    *Reconciler
	CheckInterval time.Duration
	Logger        *slog.Logger

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewWatcher creates a watcher. A non-positive interval falls back to
// 30 seconds.
func NewWatcher(reconciler *Reconciler, interval time.Duration, logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		Reconciler:    reconciler,
		CheckInterval: interval,
		Logger:        logger,
		stop:          make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ticker != nil {
		return
	}
	w.ticker = time.NewTicker(w.CheckInterval)
	w.wg.Add(1)
	go w.run()

	w.Logger.Info("settlement watcher started", "interval", w.CheckInterval)
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ticker == nil {
		return
	}
	w.ticker.Stop()
	close(w.stop)
	w.wg.Wait()
	w.Logger.Info("settlement watcher stopped")
}

func (w *Watcher) run() {
	defer w.wg.Done()

	// Run immediately on start
	w.Sweep(context.Background())

	for {
		select {
		case <-w.ticker.C:
			w.Sweep(context.Background())
		case <-w.stop:
			return
		}
	}
}

// Sweep checks every pending invoice once. Returns how many settled.
func (w *Watcher) Sweep(ctx context.Context) int {
	settled := 0
	for _, inv := range w.Reconciler.Store.Load(ctx) {
		if inv.Status != invoice.StatusPending {
			continue
		}
		updated, err := w.Reconciler.Check(ctx, inv)
		if err != nil {
			w.Logger.Warn("failed to persist settlement", "invoice_id", inv.ID, "error", err)
			continue
		}
		if updated.Status == invoice.StatusPaid {
			settled++
		}
	}
	if settled > 0 {
		w.Logger.Info("sweep completed", "settled", settled)
	}
	return settled
}
