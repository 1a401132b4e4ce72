// Package ingest polls registered feeds for new items and runs the pipeline
// that extracts, grades and commits queued articles.
package ingest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"feedcore/internal/config"
	"feedcore/internal/extractor"
	"feedcore/internal/health"
	"feedcore/internal/logger"
	"feedcore/internal/models"
	"feedcore/internal/storage"
)

// summaryLimit caps the stored length of feed item summaries.
const summaryLimit = 500

// FeedFetcher polls one feed endpoint and queues its new items as articles.
type FeedFetcher struct {
	fetcher   *extractor.Fetcher
	store     storage.Storage
	tracker   *health.Tracker
	parser    *gofeed.Parser
	converter *md.Converter
	log       logger.Logger
}

// NewFeedFetcher creates a fetcher sharing the extractor's HTTP identity.
func NewFeedFetcher(store storage.Storage, tracker *health.Tracker, cfg *config.Config, log logger.Logger) *FeedFetcher {
	return &FeedFetcher{
		fetcher:   extractor.NewFetcher(cfg.UserAgent, cfg.FetchTimeout),
		store:     store,
		tracker:   tracker,
		parser:    gofeed.NewParser(),
		converter: md.NewConverter("", true, nil),
		log:       log,
	}
}

// PollResult reports one feed poll.
type PollResult struct {
	FeedID   string            `json:"feed_id"`
	SourceID string            `json:"source_id"`
	Found    int               `json:"found"`
	Inserted int               `json:"inserted"`
	Status   models.FeedStatus `json:"health_status"`
	Err      string            `json:"error,omitempty"`
}

// feedItem is one discovered entry, whatever the feed format.
type feedItem struct {
	URL         string
	Title       string
	Summary     string
	PublishedAt *time.Time
}

// Poll fetches the feed endpoint, parses it by type and inserts new items
// as queued articles. Known URLs are skipped. The outcome, success or
// failure, is folded into the feed's health record.
func (f *FeedFetcher) Poll(ctx context.Context, feed *models.Feed) (*PollResult, error) {
	result := &PollResult{FeedID: feed.ID, SourceID: feed.SourceID}

	items, err := f.fetchItems(ctx, feed)
	if err != nil {
		result.Err = err.Error()
		result.Status = f.recordOutcome(ctx, feed, models.OutcomeFailure)
		return result, err
	}

	inserted := 0
	for _, item := range items {
		created, insertErr := f.store.InsertArticle(ctx, f.buildArticle(feed, item))
		if insertErr != nil {
			f.log.Error("failed to insert article",
				logger.String("feed_id", feed.ID),
				logger.String("url", item.URL),
				logger.Error(insertErr))
			continue
		}
		if created {
			inserted++
		}
	}

	result.Found = len(items)
	result.Inserted = inserted
	result.Status = f.recordOutcome(ctx, feed, models.OutcomeSuccess)

	f.log.Info("feed polled",
		logger.String("feed_id", feed.ID),
		logger.String("source_id", feed.SourceID),
		logger.Int("found", result.Found),
		logger.Int("inserted", result.Inserted))

	return result, nil
}

func (f *FeedFetcher) recordOutcome(ctx context.Context, feed *models.Feed, outcome models.Outcome) models.FeedStatus {
	state, err := f.tracker.RecordOutcome(ctx, feed.ID, outcome)
	if err != nil {
		f.log.Error("failed to record poll outcome",
			logger.String("feed_id", feed.ID),
			logger.Error(err))
		return feed.Status
	}
	return state.Status
}

func (f *FeedFetcher) fetchItems(ctx context.Context, feed *models.Feed) ([]feedItem, error) {
	body, err := f.fetcher.Fetch(ctx, feed.URL)
	if err != nil {
		return nil, err
	}

	if feed.Type == models.FeedTypeSitemap {
		return f.sitemapItems(ctx, string(body))
	}
	return f.feedItems(string(body))
}

// feedItems parses an RSS or Atom body into items.
func (f *FeedFetcher) feedItems(body string) ([]feedItem, error) {
	parsed, err := f.parser.ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]feedItem, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		link := entryLink(entry)
		if link == "" {
			continue
		}
		items = append(items, feedItem{
			URL:         link,
			Title:       strings.TrimSpace(entry.Title),
			Summary:     f.summarize(entry.Description),
			PublishedAt: entry.PublishedParsed,
		})
	}
	return items, nil
}

// entryLink returns the best available URL for an entry, preferring the
// explicit link and falling back to a URL-shaped GUID.
func entryLink(entry *gofeed.Item) string {
	if entry.Link != "" {
		return entry.Link
	}
	if strings.HasPrefix(entry.GUID, "http") {
		return entry.GUID
	}
	return ""
}

// summarize converts an item's HTML description to markdown, capped.
func (f *FeedFetcher) summarize(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}

	markdown, err := f.converter.ConvertString(description)
	if err != nil {
		markdown = description
	}
	markdown = strings.TrimSpace(markdown)

	runes := []rune(markdown)
	if len(runes) > summaryLimit {
		markdown = string(runes[:summaryLimit])
	}
	return markdown
}

func (f *FeedFetcher) buildArticle(feed *models.Feed, item feedItem) *models.Article {
	return &models.Article{
		ID:          uuid.New().String(),
		SourceID:    feed.SourceID,
		URL:         item.URL,
		Title:       item.Title,
		Summary:     item.Summary,
		Lifecycle:   models.LifecycleQueued,
		PublishedAt: item.PublishedAt,
	}
}

// DeriveSourceID produces the grouping key for a feed URL: its hostname
// with any www prefix removed. Returns "" when the URL has no host.
func DeriveSourceID(feedURL string) string {
	parsed, err := url.Parse(feedURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(host, "www.")
}
