package models

import (
	"time"
)

// FeedType identifies how a feed's endpoint is parsed
type FeedType string

const (
	FeedTypeRSS     FeedType = "rss"
	FeedTypeAtom    FeedType = "atom"
	FeedTypeSitemap FeedType = "sitemap"
)

// FeedStatus is the health classification of a feed
type FeedStatus string

const (
	FeedStatusHealthy  FeedStatus = "healthy"
	FeedStatusDegraded FeedStatus = "degraded"
	FeedStatusError    FeedStatus = "error"
	FeedStatusDisabled FeedStatus = "disabled"
)

// Lifecycle is the processing state of an article
type Lifecycle string

const (
	LifecycleQueued    Lifecycle = "queued"
	LifecycleProcessed Lifecycle = "processed"
	LifecycleBlocked   Lifecycle = "blocked"
	LifecyclePublished Lifecycle = "published"
)

// Outcome is the result of a single fetch attempt against a feed
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Feed represents a registered content source
type Feed struct {
	ID                  string     `json:"id" db:"id"`
	SourceID            string     `json:"source_id" db:"source_id"`
	URL                 string     `json:"url" db:"url"`
	Title               string     `json:"title" db:"title"`
	Type                FeedType   `json:"type" db:"type"`
	Active              bool       `json:"active" db:"active"`
	Status              FeedStatus `json:"health_status" db:"health_status"`
	ReliabilityScore    int        `json:"health_reliability_score" db:"health_reliability_score"`
	ConsecutiveFailures int        `json:"health_consecutive_failures" db:"health_consecutive_failures"`
	ErrorCount24h       int        `json:"health_error_count_24h" db:"health_error_count_24h"`
	LastCheck           *time.Time `json:"health_last_check,omitempty" db:"health_last_check"`
	LastErrorAt         *time.Time `json:"last_error_at,omitempty" db:"last_error_at"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// Article represents a single ingested article
type Article struct {
	ID            string     `json:"id" db:"id"`
	SourceID      string     `json:"source_id" db:"source_id"`
	URL           string     `json:"url" db:"url"`
	Title         string     `json:"title" db:"title"`
	Summary       string     `json:"summary" db:"summary"`
	Content       string     `json:"content" db:"content"`
	Image         string     `json:"image" db:"image"`
	Language      string     `json:"language" db:"language"`
	QualityScore  int        `json:"quality_score" db:"quality_score"`
	LowQuality    bool       `json:"low_quality" db:"low_quality"`
	Lifecycle     Lifecycle  `json:"lifecycle" db:"lifecycle"`
	FetchError    string     `json:"fetch_error,omitempty" db:"fetch_error"`
	PublishedAt   *time.Time `json:"published_at,omitempty" db:"published_at"`
	LastFetchedAt *time.Time `json:"last_fetched_at,omitempty" db:"last_fetched_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// LogEntry is a persisted log line consumed by the health scorer
type LogEntry struct {
	ID        int64     `json:"id" db:"id"`
	Level     string    `json:"level" db:"level"`
	Message   string    `json:"message" db:"message"`
	Context   string    `json:"context,omitempty" db:"context"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// ItemResult reports the outcome of one item inside a batch operation
type ItemResult struct {
	ID     string `json:"id"`
	URL    string `json:"url,omitempty"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// ArticleQuery carries the list filters accepted by the articles endpoint
type ArticleQuery struct {
	Lifecycle      Lifecycle `json:"lifecycle"`
	SourceID       string    `json:"source_id"`
	IncludeBlocked bool      `json:"include_blocked"`
	Limit          int       `json:"limit"`
	Offset         int       `json:"offset"`
}

// QueueCounts breaks articles down by lifecycle state
type QueueCounts struct {
	Queued    int `json:"queued" db:"queued"`
	Processed int `json:"processed" db:"processed"`
	Blocked   int `json:"blocked" db:"blocked"`
	Published int `json:"published" db:"published"`
}

// FeedStats summarizes the registry for the health snapshot
type FeedStats struct {
	Total           int     `json:"total" db:"total"`
	Active          int     `json:"active" db:"active"`
	Disabled        int     `json:"disabled" db:"disabled"`
	MeanReliability float64 `json:"mean_reliability" db:"mean_reliability"`
}

// RouteResult is the outcome of probing a single internal route
type RouteResult struct {
	Route     string        `json:"route"`
	Status    int           `json:"status"`
	OK        bool          `json:"ok"`
	LatencyMS int64         `json:"latency_ms"`
	Err       string        `json:"error,omitempty"`
	Latency   time.Duration `json:"-"`
}

// HealthSnapshot is the computed system health report; never persisted
type HealthSnapshot struct {
	Timestamp    time.Time     `json:"timestamp"`
	HealthScore  int           `json:"health_score"`
	Queue        QueueCounts   `json:"queue"`
	Feeds        FeedStats     `json:"feeds"`
	ErrorCount1h int           `json:"error_count_1h"`
	Routes       []RouteResult `json:"routes"`
}
