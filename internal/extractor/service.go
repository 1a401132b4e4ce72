// Package extractor fetches article pages and distills their main content,
// lead image and language.
package extractor

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"

	"feedcore/internal/config"
	"feedcore/internal/logger"
	"feedcore/internal/models"
	"feedcore/internal/storage"
)

// skipContentLength is the existing-content threshold above which extraction
// is a no-op unless forced.
const skipContentLength = 100

// Result is the outcome of one extraction pass.
type Result struct {
	Content  string
	Image    string
	Language string
	Skipped  bool
}

// Service runs the fetch and extraction pipeline for single articles.
type Service struct {
	fetcher  *Fetcher
	store    storage.Storage
	detector lingua.LanguageDetector
	log      logger.Logger
}

// NewService creates the extraction service. The language detector is built
// once here since construction is expensive.
func NewService(store storage.Storage, cfg *config.Config, log logger.Logger) *Service {
	return &Service{
		fetcher:  NewFetcher(cfg.UserAgent, cfg.FetchTimeout),
		store:    store,
		detector: newDetector(),
		log:      log,
	}
}

// Extract fetches the article page and distills content, image and language.
// Articles that already carry content are skipped unless force is set.
// Failures are recorded on the article as a fetch error with a timestamp and
// returned to the caller; the lifecycle is never changed here.
func (s *Service) Extract(ctx context.Context, article *models.Article, force bool) (*Result, error) {
	if utf8.RuneCountInString(article.Content) > skipContentLength && !force {
		return &Result{
			Content:  article.Content,
			Image:    article.Image,
			Language: article.Language,
			Skipped:  true,
		}, nil
	}

	body, err := s.fetcher.Fetch(ctx, article.URL)
	if err != nil {
		return nil, s.fail(ctx, article, err)
	}

	doc, err := Parse(body)
	if err != nil {
		return nil, s.fail(ctx, article, err)
	}

	// Image first: text extraction strips blocks the image scan may need.
	image := SelectImage(doc)

	content := ExtractText(doc)
	if utf8.RuneCountInString(content) < minContentChars {
		return nil, s.fail(ctx, article, &FetchError{Kind: FailTooShort})
	}

	language := detectLanguage(s.detector, article.Title+" "+content)

	return &Result{Content: content, Image: image, Language: language}, nil
}

// fail records the failure on the article and passes the cause through.
func (s *Service) fail(ctx context.Context, article *models.Article, cause error) error {
	if recordErr := s.store.RecordFetchError(ctx, article.ID, cause.Error(), time.Now().UTC()); recordErr != nil {
		s.log.Error("failed to record fetch error",
			logger.String("article_id", article.ID),
			logger.Error(recordErr))
	}

	s.log.Warn("article extraction failed",
		logger.String("article_id", article.ID),
		logger.String("url", article.URL),
		logger.Error(cause))

	return cause
}
