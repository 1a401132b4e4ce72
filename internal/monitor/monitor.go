// Package monitor computes the aggregate system health snapshot from
// route probes, recent error volume and registry reliability.
package monitor

import (
	"context"
	"fmt"
	"math"
	"time"

	"feedcore/internal/cache"
	"feedcore/internal/config"
	"feedcore/internal/logger"
	"feedcore/internal/models"
	"feedcore/internal/storage"
)

const (
	defaultSnapshotTTL = 30 * time.Second
	errorWindow        = time.Hour

	// Score weights. A down route costs 10 points, recent errors cost up
	// to 20, and a total reliability collapse costs 30.
	probeFailureCost  = 10
	errorCeiling      = 20
	reliabilityWeight = 30
)

// Scorer produces health snapshots on demand. Snapshots are cached
// briefly and never persisted.
type Scorer struct {
	store  storage.Storage
	prober *RouteProber
	cache  *cache.Manager
	ttl    time.Duration
	log    logger.Logger
}

// NewScorer wires the health scorer. The snapshot TTL follows the
// configured cache TTL.
func NewScorer(store storage.Storage, prober *RouteProber, cacheManager *cache.Manager, cfg *config.Config, log logger.Logger) *Scorer {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}

	return &Scorer{
		store:  store,
		prober: prober,
		cache:  cacheManager,
		ttl:    ttl,
		log:    log,
	}
}

// Snapshot returns the current health snapshot, reusing a cached one
// within the TTL.
func (s *Scorer) Snapshot(ctx context.Context) (*models.HealthSnapshot, error) {
	if cached, ok := s.cache.Snapshot(); ok {
		return cached, nil
	}

	snapshot, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.StoreSnapshot(snapshot, s.ttl)
	return snapshot, nil
}

func (s *Scorer) compute(ctx context.Context) (*models.HealthSnapshot, error) {
	now := time.Now().UTC()

	queue, err := s.store.QueueCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("queue counts: %w", err)
	}

	feeds, err := s.store.FeedStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("feed stats: %w", err)
	}

	errors1h, err := s.store.CountLogs(ctx, "error", now.Add(-errorWindow))
	if err != nil {
		return nil, fmt.Errorf("count recent errors: %w", err)
	}

	routes := s.prober.Probe(ctx)

	snapshot := &models.HealthSnapshot{
		Timestamp:    now,
		HealthScore:  Score(routes, errors1h, feeds),
		Queue:        queue,
		Feeds:        feeds,
		ErrorCount1h: errors1h,
		Routes:       routes,
	}

	s.log.Debug("health snapshot computed",
		logger.Int("score", snapshot.HealthScore),
		logger.Int("errors_1h", errors1h),
		logger.Int("routes", len(routes)))

	return snapshot, nil
}

// Score folds probe failures, recent error volume and mean feed
// reliability into one 0-100 number. An empty registry carries no
// reliability shortfall.
func Score(routes []models.RouteResult, errors1h int, feeds models.FeedStats) int {
	failed := 0
	for _, route := range routes {
		if !route.OK {
			failed++
		}
	}

	errorPenalty := errors1h
	if errorPenalty > errorCeiling {
		errorPenalty = errorCeiling
	}

	mean := feeds.MeanReliability
	if feeds.Total == 0 {
		mean = 100
	}

	score := 100 -
		float64(probeFailureCost*failed) -
		float64(errorPenalty) -
		reliabilityWeight*(1-mean/100)

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(math.Round(score))
}
