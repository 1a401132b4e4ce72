// Package api exposes the ingestion pipeline, the feed registry and the
// health surfaces over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"feedcore/internal/cache"
	"feedcore/internal/config"
	"feedcore/internal/health"
	"feedcore/internal/ingest"
	"feedcore/internal/lifecycle"
	"feedcore/internal/logger"
	"feedcore/internal/metrics"
	"feedcore/internal/models"
	"feedcore/internal/monitor"
	"feedcore/internal/poller"
	"feedcore/internal/reconciler"
	"feedcore/internal/security"
	"feedcore/internal/storage"
	"feedcore/internal/web"
)

// Deps bundles the components the HTTP layer serves.
type Deps struct {
	Store      storage.Storage
	Pipeline   *ingest.Pipeline
	Tracker    *health.Tracker
	Backfiller *lifecycle.Backfiller
	Reconciler *reconciler.Reconciler
	Scorer     *monitor.Scorer
	Poller     *poller.Poller
	Cache      *cache.Manager
	Metrics    *metrics.Metrics
	Log        logger.Logger
}

type Server struct {
	router        *gin.Engine
	store         storage.Storage
	pipeline      *ingest.Pipeline
	tracker       *health.Tracker
	backfiller    *lifecycle.Backfiller
	reconciler    *reconciler.Reconciler
	scorer        *monitor.Scorer
	poller        *poller.Poller
	cache         *cache.Manager
	metrics       *metrics.Metrics
	log           logger.Logger
	port          int
	cacheTTL      time.Duration
	swaggerServer *web.SwaggerServer
}

func NewServer(deps Deps, cfg *config.Config) *Server {
	router := gin.Default()

	// Setup security middleware
	securityConfig := &security.SecurityConfig{
		EnableRateLimit:       cfg.Security.EnableRateLimit,
		RateLimitPerSecond:    cfg.Security.RateLimitPerSecond,
		RateLimitBurst:        cfg.Security.RateLimitBurst,
		EnableCORS:            cfg.Security.EnableCORS,
		AllowedOrigins:        cfg.Security.AllowedOrigins,
		EnableSecurityHeaders: cfg.Security.EnableSecurityHeaders,
		MaxRequestSize:        cfg.Security.MaxRequestSize,
		EnableRequestID:       cfg.Security.EnableRequestID,
	}
	security.SetupSecurityMiddleware(router, securityConfig)

	server := &Server{
		router:        router,
		store:         deps.Store,
		pipeline:      deps.Pipeline,
		tracker:       deps.Tracker,
		backfiller:    deps.Backfiller,
		reconciler:    deps.Reconciler,
		scorer:        deps.Scorer,
		poller:        deps.Poller,
		cache:         deps.Cache,
		metrics:       deps.Metrics,
		log:           deps.Log,
		port:          cfg.Port,
		cacheTTL:      cfg.CacheTTL,
		swaggerServer: web.NewSwaggerServer(cfg.EnableSwagger),
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	// Liveness and instrumentation
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	// API routes
	api := s.router.Group("/api/v1")
	{
		api.GET("/articles", s.listArticles)
		api.GET("/articles/:id", s.getArticle)
		api.POST("/articles/:id/extract", s.extractArticle)

		api.POST("/ingest/run", s.runIngestion)

		api.GET("/feeds", s.listFeeds)
		api.POST("/feeds", s.registerFeed)
		api.GET("/feeds/:id", s.getFeed)
		api.POST("/feeds/:id/enable", s.enableFeed)
		api.POST("/feeds/:id/disable", s.disableFeed)
		api.POST("/feeds/reset-health", s.resetFeedHealth)

		api.POST("/maintenance/orphans", s.reconcileOrphans)
		api.POST("/maintenance/backfill", s.backfillPublished)

		api.GET("/monitoring/health", s.getMonitoringHealth)

		// Poller control endpoints
		api.GET("/poller/status", s.getPollerStatus)
		api.POST("/poller/run", s.runPollerTick)
	}

	// Register web interfaces
	s.swaggerServer.RegisterRoutes(s.router)
}

func (s *Server) Start() error {
	return s.router.Run(":" + strconv.Itoa(s.port))
}

// StartWithContext serves until the context is cancelled, then drains
// in-flight requests before returning.
func (s *Server) StartWithContext(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"service":       "feedcore",
		"poller_active": s.poller.IsRunning(),
	})
}

func (s *Server) listArticles(c *gin.Context) {
	query := models.ArticleQuery{
		Lifecycle: models.Lifecycle(c.Query("lifecycle")),
		SourceID:  c.Query("source_id"),
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			query.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			query.Offset = offset
		}
	}
	if blockedStr := c.Query("include_blocked"); blockedStr != "" {
		if includeBlocked, err := strconv.ParseBool(blockedStr); err == nil {
			query.IncludeBlocked = includeBlocked
		}
	}

	// The unfiltered listing is the hot path and is served from cache.
	defaultQuery := query == (models.ArticleQuery{})
	if defaultQuery {
		if articles, found := s.cache.RecentArticles(); found {
			c.JSON(http.StatusOK, gin.H{
				"articles": articles,
				"count":    len(articles),
			})
			return
		}
	}

	articles, err := s.store.QueryArticles(c.Request.Context(), query)
	if err != nil {
		s.log.Error("article query failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if defaultQuery {
		s.cache.StoreRecentArticles(articles, s.cacheTTL)
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"count":    len(articles),
	})
}

func (s *Server) getArticle(c *gin.Context) {
	article, err := s.store.GetArticle(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, article)
}

func (s *Server) extractArticle(c *gin.Context) {
	force, _ := strconv.ParseBool(c.Query("force"))

	item, err := s.pipeline.ProcessOne(c.Request.Context(), c.Param("id"), force)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.metrics.RecordItem(item.Status)
	s.cache.Delete(cache.KeyRecentArticles)
	c.JSON(http.StatusOK, item)
}

func (s *Server) runIngestion(c *gin.Context) {
	result, err := s.pipeline.Run(c.Request.Context())
	if err != nil {
		s.log.Error("manual ingestion run failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for _, poll := range result.Feeds {
		s.metrics.RecordFeedPoll(poll.Err == "")
	}
	for _, item := range result.Items {
		s.metrics.RecordItem(item.Status)
	}
	s.metrics.ObserveRunDuration(time.Duration(result.DurationMS) * time.Millisecond)

	s.cache.Delete(cache.KeyRecentArticles)
	c.JSON(http.StatusOK, result)
}

func (s *Server) listFeeds(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.Query("active"))

	feeds, err := s.store.ListFeeds(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feeds": feeds,
		"count": len(feeds),
	})
}

// feedRegistration is the POST /feeds request body.
type feedRegistration struct {
	URL      string `json:"url" binding:"required"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	SourceID string `json:"source_id"`
}

func (s *Server) registerFeed(c *gin.Context) {
	var req feedRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedType := models.FeedTypeRSS
	if req.Type != "" {
		feedType = models.FeedType(strings.ToLower(req.Type))
	}
	switch feedType {
	case models.FeedTypeRSS, models.FeedTypeAtom, models.FeedTypeSitemap:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be one of rss, atom, sitemap"})
		return
	}

	sourceID := req.SourceID
	if sourceID == "" {
		sourceID = ingest.DeriveSourceID(req.URL)
	}
	if sourceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url has no resolvable host"})
		return
	}

	ctx := c.Request.Context()
	existing, err := s.store.GetFeedByURL(ctx, req.URL)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "feed already registered",
			"id":    existing.ID,
		})
		return
	}
	if !errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	feed := &models.Feed{
		ID:       uuid.NewString(),
		SourceID: sourceID,
		URL:      req.URL,
		Title:    req.Title,
		Type:     feedType,
		Active:   true,
	}
	if err := s.store.CreateFeed(ctx, feed); err != nil {
		s.log.Error("feed registration failed",
			logger.String("url", req.URL),
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.log.Info("feed registered",
		logger.String("feed_id", feed.ID),
		logger.String("source_id", feed.SourceID),
		logger.String("url", feed.URL))

	c.JSON(http.StatusCreated, feed)
}

func (s *Server) getFeed(c *gin.Context) {
	feed, err := s.store.GetFeed(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "feed not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, feed)
}

func (s *Server) enableFeed(c *gin.Context) {
	s.setFeedActive(c, true, "Feed enabled")
}

func (s *Server) disableFeed(c *gin.Context) {
	s.setFeedActive(c, false, "Feed disabled")
}

func (s *Server) setFeedActive(c *gin.Context, active bool, message string) {
	id := c.Param("id")

	err := s.store.SetFeedActive(c.Request.Context(), id, active)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "feed not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"id":      id,
	})
}

func (s *Server) resetFeedHealth(c *gin.Context) {
	restored, err := s.tracker.ResetAll(c.Request.Context())
	if err != nil {
		s.log.Error("feed health reset failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Feed health reset",
		"restored": restored,
	})
}

func (s *Server) reconcileOrphans(c *gin.Context) {
	var req struct {
		Force bool `json:"force"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := s.reconciler.Reconcile(c.Request.Context(), reconciler.Options{Force: req.Force})
	if errors.Is(err, reconciler.ErrEmptyActiveSet) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.log.Error("orphan reconciliation failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.metrics.RecordOrphansDeleted(result.Deleted)
	s.cache.Delete(cache.KeyRecentArticles)
	c.JSON(http.StatusOK, result)
}

func (s *Server) backfillPublished(c *gin.Context) {
	published, err := s.backfiller.Run(c.Request.Context())
	if err != nil {
		s.log.Error("publication backfill failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.metrics.RecordPublished(published)
	s.cache.Delete(cache.KeyRecentArticles)
	c.JSON(http.StatusOK, gin.H{
		"message":   "Backfill completed",
		"published": published,
	})
}

func (s *Server) getMonitoringHealth(c *gin.Context) {
	snapshot, err := s.scorer.Snapshot(c.Request.Context())
	if err != nil {
		s.log.Error("health snapshot failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.metrics.SetHealthScore(snapshot.HealthScore)
	s.metrics.SetQueueDepth(snapshot.Queue.Queued)
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) getPollerStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.poller.Status())
}

func (s *Server) runPollerTick(c *gin.Context) {
	result, err := s.poller.Tick(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.cache.Delete(cache.KeyRecentArticles)
	c.JSON(http.StatusOK, result)
}
