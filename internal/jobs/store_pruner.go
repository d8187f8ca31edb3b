package jobs

import (
	"context"
	"log/slog"
	"time"
)

// DefaultPruneInterval is how often stale store entries are swept.
const DefaultPruneInterval = time.Hour

// Pruner is a store backend that can drop entries by age.
type Pruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// StorePruner deletes carts and wishlists that have not been written for
// longer than the retention window. Shoppers whose session cookie expired
// can never reach those entries again.
type StorePruner struct {
	pruner    Pruner
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	ticker    *time.Ticker
	done      chan bool
}

func NewStorePruner(pruner Pruner, retention, interval time.Duration) *StorePruner {
	if interval <= 0 {
		interval = DefaultPruneInterval
	}
	return &StorePruner{
		pruner:    pruner,
		retention: retention,
		interval:  interval,
		now:       time.Now,
		done:      make(chan bool),
	}
}

// Start begins the pruning background job
func (p *StorePruner) Start(ctx context.Context) {
	slog.Info("starting store pruner", "interval", p.interval, "retention", p.retention)

	// Run immediately on start
	p.prune(ctx)

	p.ticker = time.NewTicker(p.interval)

	go func() {
		for {
			select {
			case <-p.ticker.C:
				p.prune(ctx)
			case <-ctx.Done():
				return
			case <-p.done:
				slog.Info("store pruner stopped")
				return
			}
		}
	}()
}

// Stop stops the background job
func (p *StorePruner) Stop() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
	close(p.done)
}

func (p *StorePruner) prune(ctx context.Context) {
	cutoff := p.now().Add(-p.retention)

	n, err := p.pruner.PruneBefore(ctx, cutoff)
	if err != nil {
		slog.Error("failed to prune store entries", "error", err, "cutoff", cutoff)
		return
	}
	if n > 0 {
		slog.Info("pruned stale store entries", "count", n, "cutoff", cutoff)
	}
}
