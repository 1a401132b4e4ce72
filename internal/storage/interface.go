package storage

import (
	"context"
	"time"

	"feedcore/internal/models"
)

// Storage defines the interface for the persistent store backing the
// registry, the article pipeline, the log sink and system settings.
type Storage interface {
	// Feed registry
	CreateFeed(ctx context.Context, feed *models.Feed) error
	GetFeed(ctx context.Context, id string) (*models.Feed, error)
	GetFeedByURL(ctx context.Context, url string) (*models.Feed, error)
	GetFeedBySourceID(ctx context.Context, sourceID string) (*models.Feed, error)
	ListFeeds(ctx context.Context, activeOnly bool) ([]models.Feed, error)
	SetFeedActive(ctx context.Context, id string, active bool) error
	UpdateFeedHealth(ctx context.Context, id string, update FeedHealthUpdate) error
	ResetUnhealthyFeeds(ctx context.Context) (int64, error)
	ZeroConsecutiveFailures(ctx context.Context) (int64, error)
	ResetStaleErrorCounts(ctx context.Context, cutoff time.Time) (int64, error)
	ListActiveSourceIDs(ctx context.Context) ([]string, error)
	FeedStats(ctx context.Context) (models.FeedStats, error)

	// Articles
	InsertArticle(ctx context.Context, article *models.Article) (bool, error)
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	QueryArticles(ctx context.Context, query models.ArticleQuery) ([]models.Article, error)
	ListQueued(ctx context.Context, limit int) ([]models.Article, error)
	CommitExtraction(ctx context.Context, id string, commit ExtractionCommit) error
	RecordFetchError(ctx context.Context, id, reason string, fetchedAt time.Time) error
	BackfillPublished(ctx context.Context) (int64, error)
	DeleteOrphans(ctx context.Context, activeSourceIDs []string) (int64, error)
	QueueCounts(ctx context.Context) (models.QueueCounts, error)

	// Logs (WriteLog doubles as the logger sink, so it carries no context)
	WriteLog(level, message, logContext string, at time.Time) error
	CountLogs(ctx context.Context, level string, since time.Time) (int, error)
	ListLogs(ctx context.Context, level string, limit int) ([]models.LogEntry, error)
	PruneLogs(ctx context.Context, cutoff time.Time) (int64, error)

	// Settings
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	Ping(ctx context.Context) error
	Close() error
}

// FeedHealthUpdate is the row-scoped write applied after a fetch outcome.
type FeedHealthUpdate struct {
	Status              models.FeedStatus
	ReliabilityScore    int
	ConsecutiveFailures int
	ErrorCount24h       int
	Active              bool
	LastCheck           time.Time
	LastErrorAt         *time.Time
}

// ExtractionCommit carries everything written in the single commit that
// finishes an extract+grade pass over one article.
type ExtractionCommit struct {
	Content      string
	Image        string
	Language     string
	QualityScore int
	LowQuality   bool
	Lifecycle    models.Lifecycle
	FetchedAt    time.Time
}
