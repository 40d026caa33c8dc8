package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SettingsWarmer periodically refreshes the laboratory settings cache so
// invoice generation rarely has to block on a cold fetch. Fetch errors,
// including rate limiting, are left to the cache's own backoff handling.
type SettingsWarmer struct {
	warm     func(ctx context.Context) error
	interval time.Duration
	logger   *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSettingsWarmer creates a warmer that calls warm every interval
func NewSettingsWarmer(warm func(ctx context.Context) error, interval time.Duration, logger *zap.Logger) *SettingsWarmer {
	return &SettingsWarmer{
		warm:     warm,
		interval: interval,
		logger:   logger,
	}
}

// Name implements Worker
func (w *SettingsWarmer) Name() string {
	return "settings-warmer"
}

// Start implements Worker
func (w *SettingsWarmer) Start(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})

	go w.run(ctx)
	return nil
}

func (w *SettingsWarmer) run(ctx context.Context) {
	defer close(w.done)

	// Warm once at startup, then on the interval
	w.warmOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.warmOnce(ctx)
		}
	}
}

func (w *SettingsWarmer) warmOnce(ctx context.Context) {
	if err := w.warm(ctx); err != nil {
		w.logger.Warn("Settings warm-up fetch failed", zap.Error(err))
	}
}

// Stop implements Worker
func (w *SettingsWarmer) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}
