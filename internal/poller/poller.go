// Package poller runs the background ingestion tick: one pipeline run,
// then lifecycle backfill and store maintenance.
package poller

import (
	"context"
	"sync"
	"time"

	"feedcore/internal/config"
	"feedcore/internal/health"
	"feedcore/internal/ingest"
	"feedcore/internal/lifecycle"
	"feedcore/internal/logger"
	"feedcore/internal/metrics"
	"feedcore/internal/storage"
)

// SettingPollInterval is the system_settings key that overrides the
// configured tick interval without a restart.
const SettingPollInterval = "ingest.poll_interval"

// Status reports the poller's state for the control endpoints.
type Status struct {
	Running  bool       `json:"running"`
	Interval string     `json:"interval"`
	LastRun  *time.Time `json:"last_run,omitempty"`
}

type Poller struct {
	pipeline   *ingest.Pipeline
	backfiller *lifecycle.Backfiller
	tracker    *health.Tracker
	store      storage.Storage
	metrics    *metrics.Metrics
	log        logger.Logger

	interval     time.Duration
	logRetention time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	running bool
	lastRun time.Time
}

func New(pipeline *ingest.Pipeline, backfiller *lifecycle.Backfiller, tracker *health.Tracker, store storage.Storage, m *metrics.Metrics, cfg *config.Config, log logger.Logger) *Poller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		pipeline:     pipeline,
		backfiller:   backfiller,
		tracker:      tracker,
		store:        store,
		metrics:      m,
		log:          log,
		interval:     cfg.PollInterval,
		logRetention: cfg.LogRetention,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start launches the background loop. Calling it on a running poller is
// a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	p.log.Info("starting ingestion poller", logger.Duration("interval", p.interval))

	p.wg.Add(1)
	go p.loop()
}

// Stop halts the loop and waits for an in-flight tick to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
	p.log.Info("ingestion poller stopped")
}

func (p *Poller) loop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.tickInterval())
	defer ticker.Stop()

	// First tick runs immediately on start.
	p.Tick(p.ctx)

	for {
		select {
		case <-ticker.C:
			p.Tick(p.ctx)
			// Interval overrides take effect from the next tick on.
			ticker.Reset(p.tickInterval())
		case <-p.ctx.Done():
			return
		}
	}
}

// tickInterval reads the settings override, falling back to the
// configured interval.
func (p *Poller) tickInterval() time.Duration {
	value, err := p.store.GetSetting(context.Background(), SettingPollInterval)
	if err != nil || value == "" {
		return p.interval
	}

	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		p.log.Warn("ignoring invalid poll interval override", logger.String("value", value))
		return p.interval
	}
	return parsed
}

// Tick runs one full pass: ingestion, lifecycle backfill, health window
// expiry and log pruning. Maintenance failures are logged and do not fail
// the tick; only a pipeline that could not start does.
func (p *Poller) Tick(ctx context.Context) (*ingest.RunResult, error) {
	result, err := p.pipeline.Run(ctx)
	if err != nil {
		p.log.Error("ingestion run failed", logger.Error(err))
		return nil, err
	}
	p.observe(result)

	if advanced, err := p.backfiller.Run(ctx); err != nil {
		p.log.Error("lifecycle backfill failed", logger.Error(err))
	} else if advanced > 0 {
		p.metrics.RecordPublished(advanced)
	}

	if _, err := p.tracker.ExpireErrorWindows(ctx); err != nil {
		p.log.Error("failed to expire error windows", logger.Error(err))
	}

	if p.logRetention > 0 {
		cutoff := time.Now().UTC().Add(-p.logRetention)
		if _, err := p.store.PruneLogs(ctx, cutoff); err != nil {
			p.log.Error("failed to prune logs", logger.Error(err))
		}
	}

	p.mu.Lock()
	p.lastRun = time.Now().UTC()
	p.mu.Unlock()

	return result, nil
}

func (p *Poller) observe(result *ingest.RunResult) {
	for _, poll := range result.Feeds {
		p.metrics.RecordFeedPoll(poll.Err == "")
	}
	for _, item := range result.Items {
		p.metrics.RecordItem(item.Status)
	}
	p.metrics.ObserveRunDuration(time.Duration(result.DurationMS) * time.Millisecond)
}

// IsRunning reports whether the background loop is active.
func (p *Poller) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

// Status reports the loop state for the control endpoints.
func (p *Poller) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	status := Status{
		Running:  p.running,
		Interval: p.interval.String(),
	}
	if !p.lastRun.IsZero() {
		last := p.lastRun
		status.LastRun = &last
	}
	return status
}
