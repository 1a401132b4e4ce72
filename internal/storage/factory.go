package storage

import (
	"feedcore/internal/config"
	"feedcore/internal/logger"
)

// New creates the SQLite storage instance
func New(cfg *config.Config, log logger.Logger) (Storage, error) {
	return NewSQLiteStorage(cfg.DataDir, log)
}
