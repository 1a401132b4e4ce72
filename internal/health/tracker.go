package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"feedcore/internal/logger"
	"feedcore/internal/models"
	"feedcore/internal/storage"
)

// Tracker persists fetch outcomes against the feed registry. Updates are
// per-feed read-modify-write, serialized with a per-feed mutex so batch
// workers hitting the same feed cannot lose counts; different feeds never
// conflict.
type Tracker struct {
	store      storage.Storage
	thresholds Thresholds
	log        logger.Logger

	feedMutexes   map[string]*sync.Mutex
	feedMutexLock sync.Mutex
}

func NewTracker(store storage.Storage, thresholds Thresholds, log logger.Logger) *Tracker {
	return &Tracker{
		store:       store,
		thresholds:  thresholds,
		log:         log,
		feedMutexes: make(map[string]*sync.Mutex),
	}
}

func (t *Tracker) feedMutex(feedID string) *sync.Mutex {
	t.feedMutexLock.Lock()
	defer t.feedMutexLock.Unlock()

	mutex, ok := t.feedMutexes[feedID]
	if !ok {
		mutex = &sync.Mutex{}
		t.feedMutexes[feedID] = mutex
	}
	return mutex
}

// RecordOutcome folds one fetch outcome into the feed's health record and
// writes it back. Returns the updated state.
func (t *Tracker) RecordOutcome(ctx context.Context, feedID string, outcome models.Outcome) (State, error) {
	mutex := t.feedMutex(feedID)
	mutex.Lock()
	defer mutex.Unlock()

	feed, err := t.store.GetFeed(ctx, feedID)
	if err != nil {
		return State{}, fmt.Errorf("failed to load feed %s: %w", feedID, err)
	}

	before := State{
		Status:              feed.Status,
		ReliabilityScore:    feed.ReliabilityScore,
		ConsecutiveFailures: feed.ConsecutiveFailures,
		ErrorCount24h:       feed.ErrorCount24h,
		Active:              feed.Active,
	}

	after := Apply(before, outcome, t.thresholds)

	now := time.Now().UTC()
	update := storage.FeedHealthUpdate{
		Status:              after.Status,
		ReliabilityScore:    after.ReliabilityScore,
		ConsecutiveFailures: after.ConsecutiveFailures,
		ErrorCount24h:       after.ErrorCount24h,
		Active:              after.Active,
		LastCheck:           now,
	}
	if outcome == models.OutcomeFailure {
		update.LastErrorAt = &now
	}

	if err := t.store.UpdateFeedHealth(ctx, feedID, update); err != nil {
		return State{}, fmt.Errorf("failed to persist health for feed %s: %w", feedID, err)
	}

	if after.Status != before.Status {
		if after.Status == models.FeedStatusDisabled {
			t.log.Warn("feed disabled after repeated failures",
				logger.String("feed_id", feedID),
				logger.String("source_id", feed.SourceID),
				logger.Int("consecutive_failures", after.ConsecutiveFailures),
				logger.Int("errors_24h", after.ErrorCount24h))
		} else {
			t.log.Info("feed status changed",
				logger.String("feed_id", feedID),
				logger.String("from", string(before.Status)),
				logger.String("to", string(after.Status)))
		}
	}

	return after, nil
}

// ResetAll is the administrative bulk repair: every disabled or error feed
// goes back to healthy and active, and stuck consecutive counters on the
// remaining active feeds are zeroed. Destructive of history.
func (t *Tracker) ResetAll(ctx context.Context) (int64, error) {
	restored, err := t.store.ResetUnhealthyFeeds(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to reset unhealthy feeds: %w", err)
	}

	zeroed, err := t.store.ZeroConsecutiveFailures(ctx)
	if err != nil {
		return restored, fmt.Errorf("failed to zero stuck counters: %w", err)
	}

	t.log.Warn("bulk feed health reset",
		logger.Int64("feeds_restored", restored),
		logger.Int64("counters_zeroed", zeroed))

	return restored, nil
}

// ExpireErrorWindows zeroes the 24h error counter on feeds whose last
// error is older than the window. Called from maintenance, not per fetch.
func (t *Tracker) ExpireErrorWindows(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	reset, err := t.store.ResetStaleErrorCounts(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire error windows: %w", err)
	}
	if reset > 0 {
		t.log.Debug("expired stale error windows", logger.Int64("feeds", reset))
	}
	return reset, nil
}
