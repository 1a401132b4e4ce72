package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"feedcore/internal/logger"
	"feedcore/internal/models"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	storage, err := NewSQLiteStorage(t.TempDir(), logger.NewNop())
	if err != nil {
		t.Fatalf("Failed to create SQLite storage: %v", err)
	}
	t.Cleanup(func() { storage.Close() })

	return storage
}

func TestSQLiteStorage_FeedLifecycle(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	feed := &models.Feed{
		ID:       "feed-1",
		SourceID: "example.com",
		URL:      "https://example.com/rss.xml",
		Title:    "Example",
		Type:     models.FeedTypeRSS,
		Active:   true,
	}

	if err := storage.CreateFeed(ctx, feed); err != nil {
		t.Fatalf("Failed to create feed: %v", err)
	}

	loaded, err := storage.GetFeed(ctx, "feed-1")
	if err != nil {
		t.Fatalf("Failed to get feed: %v", err)
	}

	if loaded.Status != models.FeedStatusHealthy {
		t.Errorf("Expected new feed status 'healthy', got '%s'", loaded.Status)
	}

	if loaded.ReliabilityScore != 100 {
		t.Errorf("Expected default reliability 100, got %d", loaded.ReliabilityScore)
	}

	byURL, err := storage.GetFeedByURL(ctx, "https://example.com/rss.xml")
	if err != nil {
		t.Fatalf("Failed to get feed by URL: %v", err)
	}
	if byURL.ID != "feed-1" {
		t.Errorf("Expected feed-1 by URL, got '%s'", byURL.ID)
	}

	// Disable the feed and check the active filter
	if err := storage.SetFeedActive(ctx, "feed-1", false); err != nil {
		t.Fatalf("Failed to disable feed: %v", err)
	}

	activeFeeds, err := storage.ListFeeds(ctx, true)
	if err != nil {
		t.Fatalf("Failed to list feeds: %v", err)
	}
	if len(activeFeeds) != 0 {
		t.Errorf("Expected 0 active feeds after disable, got %d", len(activeFeeds))
	}

	disabled, err := storage.GetFeed(ctx, "feed-1")
	if err != nil {
		t.Fatalf("Failed to get feed: %v", err)
	}
	if disabled.Status != models.FeedStatusDisabled {
		t.Errorf("Expected status 'disabled' after disable, got '%s'", disabled.Status)
	}

	// Re-enabling clears the health record
	if err := storage.SetFeedActive(ctx, "feed-1", true); err != nil {
		t.Fatalf("Failed to enable feed: %v", err)
	}

	enabled, err := storage.GetFeed(ctx, "feed-1")
	if err != nil {
		t.Fatalf("Failed to get feed: %v", err)
	}
	if enabled.Status != models.FeedStatusHealthy || !enabled.Active {
		t.Errorf("Expected healthy active feed after enable, got status '%s' active %v", enabled.Status, enabled.Active)
	}

	if _, err := storage.GetFeed(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing feed, got %v", err)
	}
}

func TestSQLiteStorage_GetFeedBySourceID(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	older := time.Now().UTC().Add(-time.Hour)
	feeds := []*models.Feed{
		{ID: "feed-old", SourceID: "example.com", URL: "https://example.com/rss.xml", Type: models.FeedTypeRSS, Active: true, CreatedAt: older},
		{ID: "feed-new", SourceID: "example.com", URL: "https://example.com/sitemap.xml", Type: models.FeedTypeSitemap, Active: true},
		{ID: "feed-off", SourceID: "quiet.org", URL: "https://quiet.org/rss.xml", Type: models.FeedTypeRSS, Active: false},
	}
	for _, feed := range feeds {
		if err := storage.CreateFeed(ctx, feed); err != nil {
			t.Fatalf("Failed to create feed %s: %v", feed.ID, err)
		}
	}

	owner, err := storage.GetFeedBySourceID(ctx, "example.com")
	if err != nil {
		t.Fatalf("Failed to get feed by source: %v", err)
	}
	if owner.ID != "feed-old" {
		t.Errorf("Expected oldest active feed 'feed-old', got '%s'", owner.ID)
	}

	// Inactive feeds do not own articles
	if _, err := storage.GetFeedBySourceID(ctx, "quiet.org"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for inactive source, got %v", err)
	}

	if _, err := storage.GetFeedBySourceID(ctx, "nowhere.net"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown source, got %v", err)
	}
}

func TestSQLiteStorage_UpdateFeedHealth(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	feed := &models.Feed{
		ID:       "feed-1",
		SourceID: "example.com",
		URL:      "https://example.com/rss.xml",
		Type:     models.FeedTypeRSS,
		Active:   true,
	}
	if err := storage.CreateFeed(ctx, feed); err != nil {
		t.Fatalf("Failed to create feed: %v", err)
	}

	now := time.Now().UTC()
	errAt := now
	update := FeedHealthUpdate{
		Status:              models.FeedStatusDegraded,
		ReliabilityScore:    55,
		ConsecutiveFailures: 3,
		ErrorCount24h:       4,
		Active:              true,
		LastCheck:           now,
		LastErrorAt:         &errAt,
	}

	if err := storage.UpdateFeedHealth(ctx, "feed-1", update); err != nil {
		t.Fatalf("Failed to update feed health: %v", err)
	}

	loaded, err := storage.GetFeed(ctx, "feed-1")
	if err != nil {
		t.Fatalf("Failed to get feed: %v", err)
	}

	if loaded.Status != models.FeedStatusDegraded {
		t.Errorf("Expected status 'degraded', got '%s'", loaded.Status)
	}
	if loaded.ReliabilityScore != 55 {
		t.Errorf("Expected reliability 55, got %d", loaded.ReliabilityScore)
	}
	if loaded.ConsecutiveFailures != 3 {
		t.Errorf("Expected 3 consecutive failures, got %d", loaded.ConsecutiveFailures)
	}
	if loaded.LastCheck == nil {
		t.Error("Expected health_last_check to be set")
	}
	if loaded.LastErrorAt == nil {
		t.Error("Expected last_error_at to be set")
	}

	// A success update keeps the previous last_error_at
	successUpdate := FeedHealthUpdate{
		Status:              models.FeedStatusHealthy,
		ReliabilityScore:    65,
		ConsecutiveFailures: 0,
		ErrorCount24h:       4,
		Active:              true,
		LastCheck:           now.Add(time.Minute),
		LastErrorAt:         nil,
	}
	if err := storage.UpdateFeedHealth(ctx, "feed-1", successUpdate); err != nil {
		t.Fatalf("Failed to update feed health: %v", err)
	}

	loaded, err = storage.GetFeed(ctx, "feed-1")
	if err != nil {
		t.Fatalf("Failed to get feed: %v", err)
	}
	if loaded.LastErrorAt == nil {
		t.Error("Expected last_error_at to survive a success update")
	}

	if err := storage.UpdateFeedHealth(ctx, "missing", update); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing feed, got %v", err)
	}
}

func TestSQLiteStorage_ResetUnhealthyFeeds(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	feeds := []*models.Feed{
		{ID: "f-disabled", SourceID: "a.com", URL: "https://a.com/rss", Type: models.FeedTypeRSS, Active: true},
		{ID: "f-error", SourceID: "b.com", URL: "https://b.com/rss", Type: models.FeedTypeRSS, Active: true},
		{ID: "f-healthy", SourceID: "c.com", URL: "https://c.com/rss", Type: models.FeedTypeRSS, Active: true},
	}
	for _, f := range feeds {
		if err := storage.CreateFeed(ctx, f); err != nil {
			t.Fatalf("Failed to create feed: %v", err)
		}
	}

	now := time.Now().UTC()
	if err := storage.UpdateFeedHealth(ctx, "f-disabled", FeedHealthUpdate{
		Status: models.FeedStatusDisabled, ReliabilityScore: 0, ConsecutiveFailures: 12, ErrorCount24h: 30, Active: false, LastCheck: now,
	}); err != nil {
		t.Fatalf("Failed to update feed health: %v", err)
	}
	if err := storage.UpdateFeedHealth(ctx, "f-error", FeedHealthUpdate{
		Status: models.FeedStatusError, ReliabilityScore: 20, ConsecutiveFailures: 6, ErrorCount24h: 8, Active: true, LastCheck: now,
	}); err != nil {
		t.Fatalf("Failed to update feed health: %v", err)
	}
	if err := storage.UpdateFeedHealth(ctx, "f-healthy", FeedHealthUpdate{
		Status: models.FeedStatusHealthy, ReliabilityScore: 90, ConsecutiveFailures: 2, ErrorCount24h: 1, Active: true, LastCheck: now,
	}); err != nil {
		t.Fatalf("Failed to update feed health: %v", err)
	}

	reset, err := storage.ResetUnhealthyFeeds(ctx)
	if err != nil {
		t.Fatalf("Failed to reset unhealthy feeds: %v", err)
	}
	if reset != 2 {
		t.Errorf("Expected 2 feeds reset, got %d", reset)
	}

	zeroed, err := storage.ZeroConsecutiveFailures(ctx)
	if err != nil {
		t.Fatalf("Failed to zero consecutive failures: %v", err)
	}
	if zeroed != 1 {
		t.Errorf("Expected 1 feed zeroed, got %d", zeroed)
	}

	restored, err := storage.GetFeed(ctx, "f-disabled")
	if err != nil {
		t.Fatalf("Failed to get feed: %v", err)
	}
	if restored.Status != models.FeedStatusHealthy || !restored.Active {
		t.Errorf("Expected healthy active feed after reset, got status '%s' active %v", restored.Status, restored.Active)
	}
	if restored.ConsecutiveFailures != 0 || restored.ErrorCount24h != 0 {
		t.Errorf("Expected zeroed counters after reset, got %d/%d", restored.ConsecutiveFailures, restored.ErrorCount24h)
	}

	healthy, err := storage.GetFeed(ctx, "f-healthy")
	if err != nil {
		t.Fatalf("Failed to get feed: %v", err)
	}
	if healthy.ConsecutiveFailures != 0 {
		t.Errorf("Expected stuck counter zeroed on healthy feed, got %d", healthy.ConsecutiveFailures)
	}
	if healthy.ErrorCount24h != 1 {
		t.Errorf("Expected healthy feed error count untouched, got %d", healthy.ErrorCount24h)
	}
}

func TestSQLiteStorage_ResetStaleErrorCounts(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	feed := &models.Feed{ID: "feed-1", SourceID: "a.com", URL: "https://a.com/rss", Type: models.FeedTypeRSS, Active: true}
	if err := storage.CreateFeed(ctx, feed); err != nil {
		t.Fatalf("Failed to create feed: %v", err)
	}

	old := time.Now().UTC().Add(-25 * time.Hour)
	if err := storage.UpdateFeedHealth(ctx, "feed-1", FeedHealthUpdate{
		Status: models.FeedStatusDegraded, ReliabilityScore: 70, ConsecutiveFailures: 3, ErrorCount24h: 9,
		Active: true, LastCheck: old, LastErrorAt: &old,
	}); err != nil {
		t.Fatalf("Failed to update feed health: %v", err)
	}

	reset, err := storage.ResetStaleErrorCounts(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Failed to reset stale error counts: %v", err)
	}
	if reset != 1 {
		t.Errorf("Expected 1 feed reset, got %d", reset)
	}

	loaded, err := storage.GetFeed(ctx, "feed-1")
	if err != nil {
		t.Fatalf("Failed to get feed: %v", err)
	}
	if loaded.ErrorCount24h != 0 {
		t.Errorf("Expected error count zeroed after window passed, got %d", loaded.ErrorCount24h)
	}
}

func TestSQLiteStorage_InsertArticleDeduplicates(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	article := &models.Article{
		ID:       "article-1",
		SourceID: "example.com",
		URL:      "https://example.com/post",
		Title:    "Post",
	}

	inserted, err := storage.InsertArticle(ctx, article)
	if err != nil {
		t.Fatalf("Failed to insert article: %v", err)
	}
	if !inserted {
		t.Error("Expected first insert to report inserted")
	}

	duplicate := &models.Article{
		ID:       "article-2",
		SourceID: "example.com",
		URL:      "https://example.com/post",
		Title:    "Post again",
	}
	inserted, err = storage.InsertArticle(ctx, duplicate)
	if err != nil {
		t.Fatalf("Failed to insert duplicate article: %v", err)
	}
	if inserted {
		t.Error("Expected duplicate URL to be ignored")
	}

	loaded, err := storage.GetArticle(ctx, "article-1")
	if err != nil {
		t.Fatalf("Failed to get article: %v", err)
	}
	if loaded.Lifecycle != models.LifecycleQueued {
		t.Errorf("Expected default lifecycle 'queued', got '%s'", loaded.Lifecycle)
	}
}

func TestSQLiteStorage_QueryArticles(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	now := time.Now().UTC()
	old := now.Add(-8 * 24 * time.Hour)
	recent := now.Add(-time.Hour)

	articles := []*models.Article{
		{ID: "a-old", SourceID: "a.com", URL: "https://a.com/old", Title: "Old", Lifecycle: models.LifecyclePublished, PublishedAt: &old, CreatedAt: old},
		{ID: "a-new", SourceID: "a.com", URL: "https://a.com/new", Title: "New", Lifecycle: models.LifecyclePublished, PublishedAt: &recent, CreatedAt: recent},
		{ID: "a-blocked", SourceID: "a.com", URL: "https://a.com/blocked", Title: "Blocked", Lifecycle: models.LifecycleBlocked, CreatedAt: recent},
		{ID: "a-queued", SourceID: "b.com", URL: "https://b.com/queued", Title: "Queued", Lifecycle: models.LifecycleQueued, CreatedAt: now},
	}
	for _, a := range articles {
		if _, err := storage.InsertArticle(ctx, a); err != nil {
			t.Fatalf("Failed to insert article: %v", err)
		}
	}

	// Default query: 7-day window, blocked excluded
	results, err := storage.QueryArticles(ctx, models.ArticleQuery{})
	if err != nil {
		t.Fatalf("Failed to query articles: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 articles (old and blocked excluded), got %d", len(results))
	}
	if results[0].ID != "a-queued" {
		t.Errorf("Expected newest effective date first, got '%s'", results[0].ID)
	}

	// Blocked visible when requested
	results, err = storage.QueryArticles(ctx, models.ArticleQuery{IncludeBlocked: true})
	if err != nil {
		t.Fatalf("Failed to query articles: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("Expected 3 articles with include_blocked, got %d", len(results))
	}

	// Lifecycle filter wins over the blocked exclusion
	results, err = storage.QueryArticles(ctx, models.ArticleQuery{Lifecycle: models.LifecycleBlocked})
	if err != nil {
		t.Fatalf("Failed to query articles: %v", err)
	}
	if len(results) != 1 || results[0].ID != "a-blocked" {
		t.Errorf("Expected exactly the blocked article, got %d results", len(results))
	}

	// Source filter
	results, err = storage.QueryArticles(ctx, models.ArticleQuery{SourceID: "b.com"})
	if err != nil {
		t.Fatalf("Failed to query articles: %v", err)
	}
	if len(results) != 1 || results[0].ID != "a-queued" {
		t.Errorf("Expected exactly the b.com article, got %d results", len(results))
	}
}

func TestSQLiteStorage_CommitExtraction(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	article := &models.Article{
		ID:         "article-1",
		SourceID:   "example.com",
		URL:        "https://example.com/post",
		Title:      "Post",
		Image:      "https://example.com/existing.jpg",
		FetchError: "HTTP 503",
	}
	if _, err := storage.InsertArticle(ctx, article); err != nil {
		t.Fatalf("Failed to insert article: %v", err)
	}

	fetchedAt := time.Now().UTC()
	commit := ExtractionCommit{
		Content:      "Extracted body text",
		Image:        "",
		Language:     "en",
		QualityScore: 85,
		LowQuality:   false,
		Lifecycle:    models.LifecycleProcessed,
		FetchedAt:    fetchedAt,
	}

	if err := storage.CommitExtraction(ctx, "article-1", commit); err != nil {
		t.Fatalf("Failed to commit extraction: %v", err)
	}

	loaded, err := storage.GetArticle(ctx, "article-1")
	if err != nil {
		t.Fatalf("Failed to get article: %v", err)
	}

	if loaded.Content != "Extracted body text" {
		t.Errorf("Expected committed content, got '%s'", loaded.Content)
	}
	if loaded.Image != "https://example.com/existing.jpg" {
		t.Errorf("Expected pre-existing image to survive empty selection, got '%s'", loaded.Image)
	}
	if loaded.FetchError != "" {
		t.Errorf("Expected fetch error cleared, got '%s'", loaded.FetchError)
	}
	if loaded.Lifecycle != models.LifecycleProcessed {
		t.Errorf("Expected lifecycle 'processed', got '%s'", loaded.Lifecycle)
	}
	if loaded.LastFetchedAt == nil {
		t.Error("Expected last_fetched_at to be stamped")
	}

	// A new image replaces the old one
	commit.Image = "https://example.com/new.jpg"
	if err := storage.CommitExtraction(ctx, "article-1", commit); err != nil {
		t.Fatalf("Failed to commit extraction: %v", err)
	}
	loaded, err = storage.GetArticle(ctx, "article-1")
	if err != nil {
		t.Fatalf("Failed to get article: %v", err)
	}
	if loaded.Image != "https://example.com/new.jpg" {
		t.Errorf("Expected new image committed, got '%s'", loaded.Image)
	}
}

func TestSQLiteStorage_RecordFetchError(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	article := &models.Article{
		ID:       "article-1",
		SourceID: "example.com",
		URL:      "https://example.com/post",
		Title:    "Post",
	}
	if _, err := storage.InsertArticle(ctx, article); err != nil {
		t.Fatalf("Failed to insert article: %v", err)
	}

	if err := storage.RecordFetchError(ctx, "article-1", "HTTP 404", time.Now().UTC()); err != nil {
		t.Fatalf("Failed to record fetch error: %v", err)
	}

	loaded, err := storage.GetArticle(ctx, "article-1")
	if err != nil {
		t.Fatalf("Failed to get article: %v", err)
	}

	if loaded.FetchError != "HTTP 404" {
		t.Errorf("Expected fetch error 'HTTP 404', got '%s'", loaded.FetchError)
	}
	if loaded.Lifecycle != models.LifecycleQueued {
		t.Errorf("Expected lifecycle unchanged by fetch error, got '%s'", loaded.Lifecycle)
	}
	if loaded.LastFetchedAt == nil {
		t.Error("Expected last_fetched_at to be stamped")
	}
}

func TestSQLiteStorage_BackfillPublished(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	createdAt := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Second)
	article := &models.Article{
		ID:        "article-1",
		SourceID:  "example.com",
		URL:       "https://example.com/post",
		Title:     "Post",
		Lifecycle: models.LifecycleProcessed,
		CreatedAt: createdAt,
	}
	if _, err := storage.InsertArticle(ctx, article); err != nil {
		t.Fatalf("Failed to insert article: %v", err)
	}

	advanced, err := storage.BackfillPublished(ctx)
	if err != nil {
		t.Fatalf("Failed to backfill: %v", err)
	}
	if advanced != 1 {
		t.Errorf("Expected 1 article backfilled, got %d", advanced)
	}

	loaded, err := storage.GetArticle(ctx, "article-1")
	if err != nil {
		t.Fatalf("Failed to get article: %v", err)
	}
	if loaded.Lifecycle != models.LifecyclePublished {
		t.Errorf("Expected lifecycle 'published', got '%s'", loaded.Lifecycle)
	}
	if loaded.PublishedAt == nil {
		t.Fatal("Expected published_at to be set")
	}
	if loaded.PublishedAt.Unix() != createdAt.Unix() {
		t.Errorf("Expected published_at to default to created_at %v, got %v", createdAt, loaded.PublishedAt)
	}

	// Second pass is a no-op
	advanced, err = storage.BackfillPublished(ctx)
	if err != nil {
		t.Fatalf("Failed to backfill: %v", err)
	}
	if advanced != 0 {
		t.Errorf("Expected idempotent second pass, got %d articles", advanced)
	}
}

func TestSQLiteStorage_DeleteOrphans(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	articles := []*models.Article{
		{ID: "a1", SourceID: "active.com", URL: "https://active.com/1", Title: "Owned"},
		{ID: "a2", SourceID: "gone.com", URL: "https://gone.com/1", Title: "Orphan"},
		{ID: "a3", SourceID: "", URL: "https://nowhere.com/1", Title: "Unowned"},
	}
	for _, a := range articles {
		if _, err := storage.InsertArticle(ctx, a); err != nil {
			t.Fatalf("Failed to insert article: %v", err)
		}
	}

	deleted, err := storage.DeleteOrphans(ctx, []string{"active.com"})
	if err != nil {
		t.Fatalf("Failed to delete orphans: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected exactly 1 orphan deleted, got %d", deleted)
	}

	if _, err := storage.GetArticle(ctx, "a1"); err != nil {
		t.Errorf("Expected owned article to survive, got %v", err)
	}
	if _, err := storage.GetArticle(ctx, "a2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected orphan deleted, got %v", err)
	}
	if _, err := storage.GetArticle(ctx, "a3"); err != nil {
		t.Errorf("Expected article without source to survive, got %v", err)
	}

	// Empty active set removes everything with a source
	deleted, err = storage.DeleteOrphans(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to delete orphans: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected remaining sourced article deleted, got %d", deleted)
	}
	if _, err := storage.GetArticle(ctx, "a3"); err != nil {
		t.Errorf("Expected article without source to survive empty set, got %v", err)
	}
}

func TestSQLiteStorage_Logs(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	now := time.Now().UTC()
	logs := []struct {
		level string
		at    time.Time
	}{
		{"error", now.Add(-30 * time.Minute)},
		{"error", now.Add(-50 * time.Minute)},
		{"error", now.Add(-2 * time.Hour)},
		{"warn", now.Add(-10 * time.Minute)},
	}
	for _, l := range logs {
		if err := storage.WriteLog(l.level, "boom", `{"component":"test"}`, l.at); err != nil {
			t.Fatalf("Failed to write log: %v", err)
		}
	}

	count, err := storage.CountLogs(ctx, "error", now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("Failed to count logs: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 errors in the last hour, got %d", count)
	}

	entries, err := storage.ListLogs(ctx, "error", 10)
	if err != nil {
		t.Fatalf("Failed to list logs: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("Expected 3 error entries, got %d", len(entries))
	}

	pruned, err := storage.PruneLogs(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("Failed to prune logs: %v", err)
	}
	if pruned != 1 {
		t.Errorf("Expected 1 log pruned, got %d", pruned)
	}
}

func TestSQLiteStorage_Settings(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	value, err := storage.GetSetting(ctx, "ingest.poll_interval")
	if err != nil {
		t.Fatalf("Failed to get missing setting: %v", err)
	}
	if value != "" {
		t.Errorf("Expected empty value for missing setting, got '%s'", value)
	}

	if err := storage.SetSetting(ctx, "ingest.poll_interval", "10m"); err != nil {
		t.Fatalf("Failed to set setting: %v", err)
	}

	value, err = storage.GetSetting(ctx, "ingest.poll_interval")
	if err != nil {
		t.Fatalf("Failed to get setting: %v", err)
	}
	if value != "10m" {
		t.Errorf("Expected '10m', got '%s'", value)
	}

	if err := storage.SetSetting(ctx, "ingest.poll_interval", "30m"); err != nil {
		t.Fatalf("Failed to overwrite setting: %v", err)
	}

	value, err = storage.GetSetting(ctx, "ingest.poll_interval")
	if err != nil {
		t.Fatalf("Failed to get setting: %v", err)
	}
	if value != "30m" {
		t.Errorf("Expected '30m' after overwrite, got '%s'", value)
	}
}

func TestSQLiteStorage_Stats(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	// No feeds: mean reliability reports 100 so an empty registry
	// carries no shortfall in the health score
	stats, err := storage.FeedStats(ctx)
	if err != nil {
		t.Fatalf("Failed to compute feed stats: %v", err)
	}
	if stats.Total != 0 {
		t.Errorf("Expected 0 feeds, got %d", stats.Total)
	}
	if stats.MeanReliability != 100 {
		t.Errorf("Expected mean reliability 100 with no feeds, got %f", stats.MeanReliability)
	}

	feeds := []*models.Feed{
		{ID: "f1", SourceID: "a.com", URL: "https://a.com/rss", Type: models.FeedTypeRSS, Active: true},
		{ID: "f2", SourceID: "b.com", URL: "https://b.com/rss", Type: models.FeedTypeAtom, Active: true},
	}
	for _, f := range feeds {
		if err := storage.CreateFeed(ctx, f); err != nil {
			t.Fatalf("Failed to create feed: %v", err)
		}
	}
	if err := storage.UpdateFeedHealth(ctx, "f2", FeedHealthUpdate{
		Status: models.FeedStatusDisabled, ReliabilityScore: 0, ConsecutiveFailures: 10, ErrorCount24h: 10,
		Active: false, LastCheck: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("Failed to update feed health: %v", err)
	}

	stats, err = storage.FeedStats(ctx)
	if err != nil {
		t.Fatalf("Failed to compute feed stats: %v", err)
	}
	if stats.Total != 2 || stats.Active != 1 || stats.Disabled != 1 {
		t.Errorf("Expected total=2 active=1 disabled=1, got %+v", stats)
	}
	if stats.MeanReliability != 50 {
		t.Errorf("Expected mean reliability 50, got %f", stats.MeanReliability)
	}

	articles := []*models.Article{
		{ID: "a1", SourceID: "a.com", URL: "https://a.com/1", Lifecycle: models.LifecycleQueued},
		{ID: "a2", SourceID: "a.com", URL: "https://a.com/2", Lifecycle: models.LifecycleProcessed},
		{ID: "a3", SourceID: "a.com", URL: "https://a.com/3", Lifecycle: models.LifecyclePublished},
		{ID: "a4", SourceID: "a.com", URL: "https://a.com/4", Lifecycle: models.LifecycleBlocked},
	}
	for _, a := range articles {
		if _, err := storage.InsertArticle(ctx, a); err != nil {
			t.Fatalf("Failed to insert article: %v", err)
		}
	}

	counts, err := storage.QueueCounts(ctx)
	if err != nil {
		t.Fatalf("Failed to compute queue counts: %v", err)
	}
	if counts.Queued != 1 || counts.Processed != 1 || counts.Published != 1 || counts.Blocked != 1 {
		t.Errorf("Expected one article per state, got %+v", counts)
	}
}
