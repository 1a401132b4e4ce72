package lifecycle

import (
	"context"
	"testing"
	"time"

	"feedcore/internal/logger"
	"feedcore/internal/models"
	"feedcore/internal/quality"
	"feedcore/internal/storage"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     models.Lifecycle
		to       models.Lifecycle
		expected bool
	}{
		{"queued to processed", models.LifecycleQueued, models.LifecycleProcessed, true},
		{"queued to blocked", models.LifecycleQueued, models.LifecycleBlocked, true},
		{"processed to published", models.LifecycleProcessed, models.LifecyclePublished, true},
		{"queued to published skips processing", models.LifecycleQueued, models.LifecyclePublished, false},
		{"processed back to queued", models.LifecycleProcessed, models.LifecycleQueued, false},
		{"published back to queued", models.LifecyclePublished, models.LifecycleQueued, false},
		{"blocked to published", models.LifecycleBlocked, models.LifecyclePublished, false},
		{"blocked to processed", models.LifecycleBlocked, models.LifecycleProcessed, false},
		{"same state", models.LifecycleQueued, models.LifecycleQueued, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanTransition(tt.from, tt.to)
			if got != tt.expected {
				t.Errorf("Expected CanTransition(%s, %s) = %v, got %v", tt.from, tt.to, tt.expected, got)
			}
		})
	}
}

func TestFromReport(t *testing.T) {
	if got := FromReport(quality.Report{LowQuality: true}); got != models.LifecycleBlocked {
		t.Errorf("Expected blocked for low quality, got %s", got)
	}
	if got := FromReport(quality.Report{Score: 100}); got != models.LifecycleProcessed {
		t.Errorf("Expected processed for clean report, got %s", got)
	}
}

func TestBackfiller_Run(t *testing.T) {
	store, err := storage.NewSQLiteStorage(t.TempDir(), logger.NewNop())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	published := time.Now().UTC().Add(-time.Hour)

	articles := []*models.Article{
		{ID: "a-processed", SourceID: "s", URL: "https://example.com/1", Lifecycle: models.LifecycleProcessed},
		{ID: "a-queued", SourceID: "s", URL: "https://example.com/2", Lifecycle: models.LifecycleQueued},
		{ID: "a-dated", SourceID: "s", URL: "https://example.com/3", Lifecycle: models.LifecycleProcessed, PublishedAt: &published},
	}
	for _, article := range articles {
		if _, err := store.InsertArticle(ctx, article); err != nil {
			t.Fatalf("Failed to insert article %s: %v", article.ID, err)
		}
	}

	backfiller := NewBackfiller(store, logger.NewNop())

	advanced, err := backfiller.Run(ctx)
	if err != nil {
		t.Fatalf("Failed to run backfill: %v", err)
	}
	if advanced != 1 {
		t.Errorf("Expected 1 article advanced, got %d", advanced)
	}

	moved, err := store.GetArticle(ctx, "a-processed")
	if err != nil {
		t.Fatalf("Failed to get article: %v", err)
	}
	if moved.Lifecycle != models.LifecyclePublished {
		t.Errorf("Expected lifecycle published, got %s", moved.Lifecycle)
	}
	if moved.PublishedAt == nil {
		t.Fatal("Expected published_at to be set")
	}
	if moved.PublishedAt.Unix() != moved.CreatedAt.Unix() {
		t.Errorf("Expected published_at defaulted to created_at, got %v vs %v", moved.PublishedAt, moved.CreatedAt)
	}

	queued, err := store.GetArticle(ctx, "a-queued")
	if err != nil {
		t.Fatalf("Failed to get article: %v", err)
	}
	if queued.Lifecycle != models.LifecycleQueued {
		t.Errorf("Expected queued article untouched, got %s", queued.Lifecycle)
	}

	// Second pass finds nothing to do.
	advanced, err = backfiller.Run(ctx)
	if err != nil {
		t.Fatalf("Failed to run backfill twice: %v", err)
	}
	if advanced != 0 {
		t.Errorf("Expected idempotent second run, got %d advanced", advanced)
	}
}
