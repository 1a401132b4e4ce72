// Package cache wraps an in-memory TTL cache for the hot read paths:
// the monitoring snapshot and the recent-articles listing.
package cache

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"feedcore/internal/models"
)

// Well-known keys. Callers share one Manager, so keys are namespaced.
const (
	KeySnapshot       = "monitoring:snapshot"
	KeyRecentArticles = "articles:recent"
)

type Manager struct {
	cache *cache.Cache
	mu    sync.RWMutex
}

func NewManager(defaultTTL time.Duration) *Manager {
	return &Manager{
		cache: cache.New(defaultTTL, 10*time.Minute),
	}
}

func (m *Manager) Get(key string) (interface{}, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cache.Get(key)
}

func (m *Manager) Set(key string, value interface{}, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Set(key, value, ttl)
}

func (m *Manager) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Delete(key)
}

func (m *Manager) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Flush()
}

// Snapshot returns the cached health snapshot, if one is still fresh.
func (m *Manager) Snapshot() (*models.HealthSnapshot, bool) {
	value, found := m.Get(KeySnapshot)
	if !found {
		return nil, false
	}
	snapshot, ok := value.(*models.HealthSnapshot)
	if !ok || snapshot == nil {
		return nil, false
	}
	return snapshot, true
}

// StoreSnapshot caches a health snapshot for ttl.
func (m *Manager) StoreSnapshot(snapshot *models.HealthSnapshot, ttl time.Duration) {
	m.Set(KeySnapshot, snapshot, ttl)
}

// RecentArticles returns the cached default article listing, if fresh.
func (m *Manager) RecentArticles() ([]models.Article, bool) {
	value, found := m.Get(KeyRecentArticles)
	if !found {
		return nil, false
	}
	articles, ok := value.([]models.Article)
	return articles, ok
}

// StoreRecentArticles caches the default article listing for ttl.
func (m *Manager) StoreRecentArticles(articles []models.Article, ttl time.Duration) {
	m.Set(KeyRecentArticles, articles, ttl)
}
