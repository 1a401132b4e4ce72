// Package lifecycle holds the article state machine and the backfill step
// that advances processed articles to published.
package lifecycle

import (
	"context"
	"fmt"

	"feedcore/internal/logger"
	"feedcore/internal/models"
	"feedcore/internal/quality"
	"feedcore/internal/storage"
)

// transitions is the forward-only state table. Anything not listed here is
// not a legal move, including going backward.
var transitions = map[models.Lifecycle][]models.Lifecycle{
	models.LifecycleQueued:    {models.LifecycleProcessed, models.LifecycleBlocked},
	models.LifecycleProcessed: {models.LifecyclePublished},
}

// CanTransition reports whether an article may move from one state to another.
func CanTransition(from, to models.Lifecycle) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// FromReport maps a quality verdict to the article's next state.
func FromReport(report quality.Report) models.Lifecycle {
	if report.LowQuality {
		return models.LifecycleBlocked
	}
	return models.LifecycleProcessed
}

// Backfiller advances processed articles that lack a publication timestamp.
type Backfiller struct {
	store storage.Storage
	log   logger.Logger
}

// NewBackfiller creates a backfiller over the given store.
func NewBackfiller(store storage.Storage, log logger.Logger) *Backfiller {
	return &Backfiller{store: store, log: log}
}

// Run publishes every processed article without a published_at, defaulting
// the timestamp to its creation time. Running it again is a no-op.
func (b *Backfiller) Run(ctx context.Context) (int64, error) {
	advanced, err := b.store.BackfillPublished(ctx)
	if err != nil {
		return 0, fmt.Errorf("backfill published: %w", err)
	}

	if advanced > 0 {
		b.log.Info("articles advanced to published", logger.Int64("count", advanced))
	}

	return advanced, nil
}
