package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"feedcore/internal/config"
	"feedcore/internal/extractor"
	"feedcore/internal/health"
	"feedcore/internal/lifecycle"
	"feedcore/internal/logger"
	"feedcore/internal/models"
	"feedcore/internal/quality"
	"feedcore/internal/storage"
)

const (
	defaultBatchSize   = 25
	defaultConcurrency = 5
)

// Item statuses beyond the committed lifecycle values.
const statusFailed = "failed"

// Pipeline drains queued articles through extract, grade and commit, and
// polls the registry's active feeds for new items.
type Pipeline struct {
	store       storage.Storage
	extractor   *extractor.Service
	tracker     *health.Tracker
	fetcher     *FeedFetcher
	log         logger.Logger
	batchSize   int
	concurrency int
}

// NewPipeline wires the ingestion pipeline from its stages.
func NewPipeline(store storage.Storage, svc *extractor.Service, tracker *health.Tracker, fetcher *FeedFetcher, cfg *config.Config, log logger.Logger) *Pipeline {
	batchSize := cfg.IngestBatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	concurrency := cfg.IngestConcurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Pipeline{
		store:       store,
		extractor:   svc,
		tracker:     tracker,
		fetcher:     fetcher,
		log:         log,
		batchSize:   batchSize,
		concurrency: concurrency,
	}
}

// RunResult summarizes one ingestion run.
type RunResult struct {
	StartedAt  time.Time           `json:"started_at"`
	DurationMS int64               `json:"duration_ms"`
	Feeds      []PollResult        `json:"feeds"`
	Items      []models.ItemResult `json:"items"`
}

// Run polls every active feed for new items, then processes one batch of
// queued articles. Per-feed and per-article failures are reported in the
// result, never as a run error; the error return covers only a run that
// could not start.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	started := time.Now().UTC()

	feeds, err := p.store.ListFeeds(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list active feeds: %w", err)
	}

	polls := p.pollFeeds(ctx, feeds)

	queued, err := p.store.ListQueued(ctx, p.batchSize)
	if err != nil {
		return nil, fmt.Errorf("list queued articles: %w", err)
	}

	items := p.processBatch(ctx, queued)

	result := &RunResult{
		StartedAt:  started,
		DurationMS: time.Since(started).Milliseconds(),
		Feeds:      polls,
		Items:      items,
	}

	p.log.Info("ingestion run finished",
		logger.Int("feeds", len(polls)),
		logger.Int("articles", len(items)),
		logger.Int64("duration_ms", result.DurationMS))

	return result, nil
}

// pollFeeds polls all feeds concurrently, one goroutine per feed.
func (p *Pipeline) pollFeeds(ctx context.Context, feeds []models.Feed) []PollResult {
	if len(feeds) == 0 {
		return []PollResult{}
	}

	var wg sync.WaitGroup
	results := make(chan PollResult, len(feeds))

	for i := range feeds {
		wg.Add(1)
		go func(feed models.Feed) {
			defer wg.Done()
			poll, err := p.fetcher.Poll(ctx, &feed)
			if err != nil {
				p.log.Warn("feed poll failed",
					logger.String("feed_id", feed.ID),
					logger.String("url", feed.URL),
					logger.Error(err))
			}
			results <- *poll
		}(feeds[i])
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]PollResult, 0, len(feeds))
	for result := range results {
		collected = append(collected, result)
	}
	return collected
}

// processBatch runs the per-article pipeline over the batch with bounded
// concurrency. Results arrive in completion order.
func (p *Pipeline) processBatch(ctx context.Context, articles []models.Article) []models.ItemResult {
	if len(articles) == 0 {
		return []models.ItemResult{}
	}

	workers := p.concurrency
	if workers > len(articles) {
		workers = len(articles)
	}

	jobs := make(chan models.Article, len(articles))
	results := make(chan models.ItemResult, len(articles))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for article := range jobs {
				results <- p.process(ctx, article, false)
			}
		}()
	}

	for _, article := range articles {
		jobs <- article
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]models.ItemResult, 0, len(articles))
	for result := range results {
		collected = append(collected, result)
	}
	return collected
}

// ProcessOne runs extract, grade and commit for a single article,
// optionally forcing a refetch of existing content.
func (p *Pipeline) ProcessOne(ctx context.Context, id string, force bool) (*models.ItemResult, error) {
	article, err := p.store.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	item := p.process(ctx, *article, force)
	return &item, nil
}

// process is the per-article pipeline: extract, grade, commit, then fold
// the fetch outcome into the owning feed. A panic in any stage is reported
// as this article's failure so the batch continues.
func (p *Pipeline) process(ctx context.Context, article models.Article, force bool) (item models.ItemResult) {
	item = models.ItemResult{ID: article.ID, URL: article.URL}

	defer func() {
		if r := recover(); r != nil {
			item.Status = statusFailed
			item.Reason = fmt.Sprintf("panic: %v", r)
			p.log.Error("article processing panicked",
				logger.String("article_id", article.ID),
				logger.Any("panic", r))
		}
	}()

	result, err := p.extractor.Extract(ctx, &article, force)
	if err != nil {
		p.recordFeedOutcome(ctx, article.SourceID, models.OutcomeFailure)
		item.Status = statusFailed
		item.Reason = err.Error()
		return item
	}

	report := quality.Grade(article.Title, result.Content)

	// Regrading never moves an article backward.
	next := article.Lifecycle
	if graded := lifecycle.FromReport(report); lifecycle.CanTransition(article.Lifecycle, graded) {
		next = graded
	}

	commit := storage.ExtractionCommit{
		Content:      result.Content,
		Image:        result.Image,
		Language:     result.Language,
		QualityScore: report.Score,
		LowQuality:   report.LowQuality,
		Lifecycle:    next,
		FetchedAt:    time.Now().UTC(),
	}
	if err := p.store.CommitExtraction(ctx, article.ID, commit); err != nil {
		item.Status = statusFailed
		item.Reason = err.Error()
		return item
	}

	// Synthetic skips carry no fetch outcome for the feed.
	if !result.Skipped {
		p.recordFeedOutcome(ctx, article.SourceID, models.OutcomeSuccess)
	}

	item.Status = string(next)
	if report.LowQuality {
		item.Reason = quality.Summary(report)
	}
	return item
}

// recordFeedOutcome resolves the owning feed for a source and folds in the
// article's fetch outcome. Articles without a resolvable owner carry none.
func (p *Pipeline) recordFeedOutcome(ctx context.Context, sourceID string, outcome models.Outcome) {
	if sourceID == "" {
		return
	}

	feed, err := p.store.GetFeedBySourceID(ctx, sourceID)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		p.log.Error("failed to resolve owning feed",
			logger.String("source_id", sourceID),
			logger.Error(err))
		return
	}

	if _, err := p.tracker.RecordOutcome(ctx, feed.ID, outcome); err != nil {
		p.log.Error("failed to record feed outcome",
			logger.String("feed_id", feed.ID),
			logger.Error(err))
	}
}
