// Package reconciler removes articles whose owning feed is no longer active.
package reconciler

import (
	"context"
	"errors"
	"fmt"

	"feedcore/internal/logger"
	"feedcore/internal/storage"
)

// ErrEmptyActiveSet is returned when no feed is active and Force was not set.
// Proceeding in that state would delete every sourced article.
var ErrEmptyActiveSet = errors.New("no active feeds: refusing to delete all sourced articles")

// Options controls a reconciliation run.
type Options struct {
	// Force lets the run proceed with an empty active-feed set, deleting
	// every article that carries a source.
	Force bool
}

// Result reports what a reconciliation run did.
type Result struct {
	Deleted       int64 `json:"deleted"`
	ActiveSources int   `json:"active_sources"`
	Forced        bool  `json:"forced,omitempty"`
}

// Reconciler deletes orphaned articles. Runs only on explicit trigger,
// never as a side effect of reads.
type Reconciler struct {
	store storage.Storage
	log   logger.Logger
}

// New creates a reconciler over the given store.
func New(store storage.Storage, log logger.Logger) *Reconciler {
	return &Reconciler{store: store, log: log}
}

// Reconcile deletes every sourced article whose source is not among the
// active feeds. An empty active set aborts unless opts.Force is set.
// Articles without a source are never touched.
func (r *Reconciler) Reconcile(ctx context.Context, opts Options) (*Result, error) {
	sourceIDs, err := r.store.ListActiveSourceIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active sources: %w", err)
	}

	if len(sourceIDs) == 0 && !opts.Force {
		return nil, ErrEmptyActiveSet
	}

	deleted, err := r.store.DeleteOrphans(ctx, sourceIDs)
	if err != nil {
		return nil, fmt.Errorf("delete orphans: %w", err)
	}

	if deleted > 0 {
		r.log.Warn("orphaned articles deleted",
			logger.Int64("deleted", deleted),
			logger.Int("active_sources", len(sourceIDs)),
			logger.Bool("forced", opts.Force))
	}

	return &Result{Deleted: deleted, ActiveSources: len(sourceIDs), Forced: opts.Force}, nil
}
