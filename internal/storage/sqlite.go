package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"feedcore/internal/logger"
	"feedcore/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	feedColumns = "id, source_id, url, title, type, active, health_status, health_reliability_score, health_consecutive_failures, health_error_count_24h, health_last_check, last_error_at, created_at, updated_at"

	articleColumns = "id, source_id, url, title, summary, content, image, language, quality_score, low_quality, lifecycle, fetch_error, published_at, last_fetched_at, created_at, updated_at"

	defaultQueryLimit = 50
	maxQueryLimit     = 200

	// Articles older than this never show up in list queries.
	queryWindow = 7 * 24 * time.Hour
)

// ErrNotFound is returned when a feed or article does not exist.
var ErrNotFound = errors.New("not found")

type SQLiteStorage struct {
	db  *sqlx.DB
	log logger.Logger
}

func NewSQLiteStorage(dataDir string, log logger.Logger) (*SQLiteStorage, error) {
	// Ensure data directory exists with secure permissions (0750)
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "feedcore.db")
	log.Info("initializing database", logger.String("path", dbPath))

	// Check if database exists and validate schema
	needsRecreation := false

	if os.Getenv("FORCE_DB_RECREATE") == "true" {
		log.Warn("force database recreation requested via environment variable")
		needsRecreation = true
	} else if _, err := os.Stat(dbPath); err == nil {
		if !validateSchema(dbPath, log) {
			log.Warn("database schema validation failed, recreating database")
			needsRecreation = true
		}
	}

	if needsRecreation {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite3", dbPath+"?_journal=WAL&_synchronous=NORMAL&_cache_size=10000&_temp_store=MEMORY&_timeout=30000&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = 10000",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			log.Warn("failed to set pragma", logger.String("pragma", pragma), logger.Error(err))
		}
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &SQLiteStorage{
		db:  db,
		log: log,
	}, nil
}

func createTables(db *sqlx.DB) error {
	feedsTable := `
	CREATE TABLE IF NOT EXISTS feeds (
		id TEXT PRIMARY KEY,
		source_id TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT 'rss',
		active INTEGER NOT NULL DEFAULT 1,
		health_status TEXT NOT NULL DEFAULT 'healthy',
		health_reliability_score INTEGER NOT NULL DEFAULT 100,
		health_consecutive_failures INTEGER NOT NULL DEFAULT 0,
		health_error_count_24h INTEGER NOT NULL DEFAULT 0,
		health_last_check DATETIME,
		last_error_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`

	articlesTable := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		source_id TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		language TEXT NOT NULL DEFAULT '',
		quality_score INTEGER NOT NULL DEFAULT 0,
		low_quality INTEGER NOT NULL DEFAULT 0,
		lifecycle TEXT NOT NULL DEFAULT 'queued',
		fetch_error TEXT NOT NULL DEFAULT '',
		published_at DATETIME,
		last_fetched_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`

	logsTable := `
	CREATE TABLE IF NOT EXISTS logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		context TEXT NOT NULL DEFAULT '',
		timestamp DATETIME NOT NULL
	);`

	settingsTable := `
	CREATE TABLE IF NOT EXISTS system_settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL DEFAULT '',
		updated_at DATETIME NOT NULL
	);`

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_feeds_source_id ON feeds(source_id);",
		"CREATE INDEX IF NOT EXISTS idx_feeds_active ON feeds(active);",
		"CREATE INDEX IF NOT EXISTS idx_articles_source_id ON articles(source_id);",
		"CREATE INDEX IF NOT EXISTS idx_articles_lifecycle ON articles(lifecycle);",
		"CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at DESC);",
		"CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at DESC);",
		"CREATE INDEX IF NOT EXISTS idx_logs_level_timestamp ON logs(level, timestamp);",
	}

	for _, table := range []string{feedsTable, articlesTable, logsTable, settingsTable} {
		if _, err := db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	for _, index := range indexes {
		if _, err := db.Exec(index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// validateSchema checks if the database has the expected tables
func validateSchema(dbPath string, log logger.Logger) bool {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		log.Warn("failed to open database for schema validation", logger.Error(err))
		return false
	}
	defer db.Close()

	requiredTables := []string{"feeds", "articles", "logs", "system_settings"}
	for _, table := range requiredTables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			log.Warn("missing table during schema validation", logger.String("table", table))
			return false
		}
	}

	return true
}

// --- Feed registry ---

func (s *SQLiteStorage) CreateFeed(ctx context.Context, feed *models.Feed) error {
	now := time.Now().UTC()
	if feed.CreatedAt.IsZero() {
		feed.CreatedAt = now
	}
	feed.UpdatedAt = now
	if feed.Status == "" {
		feed.Status = models.FeedStatusHealthy
	}
	if feed.ReliabilityScore == 0 {
		feed.ReliabilityScore = 100
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feeds (id, source_id, url, title, type, active, health_status, health_reliability_score, health_consecutive_failures, health_error_count_24h, health_last_check, last_error_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		feed.ID, feed.SourceID, feed.URL, feed.Title, feed.Type, feed.Active,
		feed.Status, feed.ReliabilityScore, feed.ConsecutiveFailures, feed.ErrorCount24h,
		feed.LastCheck, feed.LastErrorAt, feed.CreatedAt, feed.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create feed: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) GetFeed(ctx context.Context, id string) (*models.Feed, error) {
	var feed models.Feed
	err := s.db.GetContext(ctx, &feed, "SELECT "+feedColumns+" FROM feeds WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}
	return &feed, nil
}

func (s *SQLiteStorage) GetFeedByURL(ctx context.Context, url string) (*models.Feed, error) {
	var feed models.Feed
	err := s.db.GetContext(ctx, &feed, "SELECT "+feedColumns+" FROM feeds WHERE url = ?", url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed by url: %w", err)
	}
	return &feed, nil
}

// GetFeedBySourceID resolves the owning feed for a source. When several
// feeds share a source the oldest active one wins.
func (s *SQLiteStorage) GetFeedBySourceID(ctx context.Context, sourceID string) (*models.Feed, error) {
	var feed models.Feed
	err := s.db.GetContext(ctx, &feed,
		"SELECT "+feedColumns+" FROM feeds WHERE source_id = ? AND active = 1 ORDER BY created_at ASC LIMIT 1",
		sourceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed by source: %w", err)
	}
	return &feed, nil
}

func (s *SQLiteStorage) ListFeeds(ctx context.Context, activeOnly bool) ([]models.Feed, error) {
	query := "SELECT " + feedColumns + " FROM feeds"
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY created_at ASC"

	feeds := []models.Feed{}
	if err := s.db.SelectContext(ctx, &feeds, query); err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}
	return feeds, nil
}

func (s *SQLiteStorage) SetFeedActive(ctx context.Context, id string, active bool) error {
	now := time.Now().UTC()

	var result sql.Result
	var err error
	if active {
		// Re-enabling clears the health record so the feed starts fresh
		result, err = s.db.ExecContext(ctx, `
			UPDATE feeds SET active = 1, health_status = ?, health_consecutive_failures = 0, health_error_count_24h = 0, updated_at = ?
			WHERE id = ?`, models.FeedStatusHealthy, now, id)
	} else {
		result, err = s.db.ExecContext(ctx, `
			UPDATE feeds SET active = 0, health_status = ?, updated_at = ?
			WHERE id = ?`, models.FeedStatusDisabled, now, id)
	}
	if err != nil {
		return fmt.Errorf("failed to update feed active flag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) UpdateFeedHealth(ctx context.Context, id string, update FeedHealthUpdate) error {
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE feeds SET
			health_status = ?,
			health_reliability_score = ?,
			health_consecutive_failures = ?,
			health_error_count_24h = ?,
			active = ?,
			health_last_check = ?,
			last_error_at = COALESCE(?, last_error_at),
			updated_at = ?
		WHERE id = ?`,
		update.Status, update.ReliabilityScore, update.ConsecutiveFailures,
		update.ErrorCount24h, update.Active, update.LastCheck, update.LastErrorAt, now, id)
	if err != nil {
		return fmt.Errorf("failed to update feed health: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) ResetUnhealthyFeeds(ctx context.Context) (int64, error) {
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE feeds SET health_status = ?, health_consecutive_failures = 0, health_error_count_24h = 0, active = 1, updated_at = ?
		WHERE health_status IN (?, ?)`,
		models.FeedStatusHealthy, now, models.FeedStatusDisabled, models.FeedStatusError)
	if err != nil {
		return 0, fmt.Errorf("failed to reset unhealthy feeds: %w", err)
	}

	return result.RowsAffected()
}

func (s *SQLiteStorage) ZeroConsecutiveFailures(ctx context.Context) (int64, error) {
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE feeds SET health_consecutive_failures = 0, updated_at = ?
		WHERE active = 1 AND health_consecutive_failures > 0`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to zero consecutive failures: %w", err)
	}

	return result.RowsAffected()
}

func (s *SQLiteStorage) ResetStaleErrorCounts(ctx context.Context, cutoff time.Time) (int64, error) {
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE feeds SET health_error_count_24h = 0, updated_at = ?
		WHERE health_error_count_24h > 0 AND (last_error_at IS NULL OR last_error_at < ?)`, now, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to reset stale error counts: %w", err)
	}

	return result.RowsAffected()
}

func (s *SQLiteStorage) ListActiveSourceIDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	err := s.db.SelectContext(ctx, &ids, "SELECT DISTINCT source_id FROM feeds WHERE active = 1 AND source_id != ''")
	if err != nil {
		return nil, fmt.Errorf("failed to list active source ids: %w", err)
	}
	return ids, nil
}

func (s *SQLiteStorage) FeedStats(ctx context.Context) (models.FeedStats, error) {
	var stats models.FeedStats
	err := s.db.GetContext(ctx, &stats, `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN active = 1 THEN 1 ELSE 0 END), 0) AS active,
			COALESCE(SUM(CASE WHEN health_status = 'disabled' THEN 1 ELSE 0 END), 0) AS disabled,
			COALESCE(AVG(health_reliability_score), 100) AS mean_reliability
		FROM feeds`)
	if err != nil {
		return models.FeedStats{}, fmt.Errorf("failed to compute feed stats: %w", err)
	}
	return stats, nil
}

// --- Articles ---

func (s *SQLiteStorage) InsertArticle(ctx context.Context, article *models.Article) (bool, error) {
	now := time.Now().UTC()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	article.UpdatedAt = now
	if article.Lifecycle == "" {
		article.Lifecycle = models.LifecycleQueued
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO articles (id, source_id, url, title, summary, content, image, language, quality_score, low_quality, lifecycle, fetch_error, published_at, last_fetched_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		article.ID, article.SourceID, article.URL, article.Title, article.Summary,
		article.Content, article.Image, article.Language, article.QualityScore,
		article.LowQuality, article.Lifecycle, article.FetchError,
		article.PublishedAt, article.LastFetchedAt, article.CreatedAt, article.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert article: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows > 0, nil
}

func (s *SQLiteStorage) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	var article models.Article
	err := s.db.GetContext(ctx, &article, "SELECT "+articleColumns+" FROM articles WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return &article, nil
}

func (s *SQLiteStorage) QueryArticles(ctx context.Context, query models.ArticleQuery) ([]models.Article, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	cutoff := time.Now().UTC().Add(-queryWindow)

	builder := sq.Select(articleColumns).
		From("articles").
		Where(sq.Expr("COALESCE(published_at, created_at) >= ?", cutoff))

	if query.Lifecycle != "" {
		builder = builder.Where(sq.Eq{"lifecycle": query.Lifecycle})
	} else if !query.IncludeBlocked {
		builder = builder.Where(sq.NotEq{"lifecycle": models.LifecycleBlocked})
	}

	if query.SourceID != "" {
		builder = builder.Where(sq.Eq{"source_id": query.SourceID})
	}

	sqlStr, args, err := builder.
		OrderBy("COALESCE(published_at, created_at) DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build article query: %w", err)
	}

	articles := []models.Article{}
	if err := s.db.SelectContext(ctx, &articles, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	return articles, nil
}

func (s *SQLiteStorage) ListQueued(ctx context.Context, limit int) ([]models.Article, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	articles := []models.Article{}
	err := s.db.SelectContext(ctx, &articles,
		"SELECT "+articleColumns+" FROM articles WHERE lifecycle = ? ORDER BY created_at ASC LIMIT ?",
		models.LifecycleQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list queued articles: %w", err)
	}
	return articles, nil
}

func (s *SQLiteStorage) CommitExtraction(ctx context.Context, id string, commit ExtractionCommit) error {
	now := time.Now().UTC()

	// Single-row write: content, grade and lifecycle land together, and a
	// previously selected image survives when extraction found none.
	result, err := s.db.ExecContext(ctx, `
		UPDATE articles SET
			content = ?,
			image = CASE WHEN ? = '' THEN image ELSE ? END,
			language = ?,
			quality_score = ?,
			low_quality = ?,
			lifecycle = ?,
			fetch_error = '',
			last_fetched_at = ?,
			updated_at = ?
		WHERE id = ?`,
		commit.Content, commit.Image, commit.Image, commit.Language,
		commit.QualityScore, commit.LowQuality, commit.Lifecycle,
		commit.FetchedAt, now, id)
	if err != nil {
		return fmt.Errorf("failed to commit extraction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) RecordFetchError(ctx context.Context, id, reason string, fetchedAt time.Time) error {
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE articles SET fetch_error = ?, last_fetched_at = ?, updated_at = ?
		WHERE id = ?`, reason, fetchedAt, now, id)
	if err != nil {
		return fmt.Errorf("failed to record fetch error: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) BackfillPublished(ctx context.Context) (int64, error) {
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE articles SET lifecycle = ?, published_at = COALESCE(published_at, created_at, ?), updated_at = ?
		WHERE lifecycle = ? AND published_at IS NULL`,
		models.LifecyclePublished, now, now, models.LifecycleProcessed)
	if err != nil {
		return 0, fmt.Errorf("failed to backfill published articles: %w", err)
	}

	return result.RowsAffected()
}

func (s *SQLiteStorage) DeleteOrphans(ctx context.Context, activeSourceIDs []string) (int64, error) {
	var result sql.Result
	var err error

	if len(activeSourceIDs) == 0 {
		result, err = s.db.ExecContext(ctx, "DELETE FROM articles WHERE source_id != ''")
	} else {
		var query string
		var args []interface{}
		query, args, err = sqlx.In("DELETE FROM articles WHERE source_id != '' AND source_id NOT IN (?)", activeSourceIDs)
		if err != nil {
			return 0, fmt.Errorf("failed to build orphan delete: %w", err)
		}
		result, err = s.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphans: %w", err)
	}

	return result.RowsAffected()
}

func (s *SQLiteStorage) QueueCounts(ctx context.Context) (models.QueueCounts, error) {
	var counts models.QueueCounts
	err := s.db.GetContext(ctx, &counts, `
		SELECT
			COALESCE(SUM(CASE WHEN lifecycle = 'queued' THEN 1 ELSE 0 END), 0) AS queued,
			COALESCE(SUM(CASE WHEN lifecycle = 'processed' THEN 1 ELSE 0 END), 0) AS processed,
			COALESCE(SUM(CASE WHEN lifecycle = 'blocked' THEN 1 ELSE 0 END), 0) AS blocked,
			COALESCE(SUM(CASE WHEN lifecycle = 'published' THEN 1 ELSE 0 END), 0) AS published
		FROM articles`)
	if err != nil {
		return models.QueueCounts{}, fmt.Errorf("failed to compute queue counts: %w", err)
	}
	return counts, nil
}

// --- Logs ---

// WriteLog implements logger.Sink. It takes no context so the logging
// path cannot be cancelled mid-write.
func (s *SQLiteStorage) WriteLog(level, message, logContext string, at time.Time) error {
	if at.IsZero() {
		at = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO logs (level, message, context, timestamp)
		VALUES (?, ?, ?, ?)`, level, message, logContext, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to write log entry: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) CountLogs(ctx context.Context, level string, since time.Time) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM logs WHERE level = ? AND timestamp >= ?", level, since.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to count logs: %w", err)
	}
	return count, nil
}

func (s *SQLiteStorage) ListLogs(ctx context.Context, level string, limit int) ([]models.LogEntry, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}

	entries := []models.LogEntry{}
	var err error
	if level != "" {
		err = s.db.SelectContext(ctx, &entries,
			"SELECT id, level, message, context, timestamp FROM logs WHERE level = ? ORDER BY timestamp DESC LIMIT ?", level, limit)
	} else {
		err = s.db.SelectContext(ctx, &entries,
			"SELECT id, level, message, context, timestamp FROM logs ORDER BY timestamp DESC LIMIT ?", limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	return entries, nil
}

func (s *SQLiteStorage) PruneLogs(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM logs WHERE timestamp < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune logs: %w", err)
	}
	return result.RowsAffected()
}

// --- Settings ---

func (s *SQLiteStorage) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM system_settings WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting: %w", err)
	}
	return value, nil
}

func (s *SQLiteStorage) SetSetting(ctx context.Context, key, value string) error {
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO system_settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now)
	if err != nil {
		return fmt.Errorf("failed to set setting: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
