package persistence

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"youtube-analytics/infrastructure/logger"
)

// NewSQLiteDB opens (creating if needed) the single local database file
// using native database/sql.
func NewSQLiteDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dir, err)
		}
	}

	// WAL keeps readers unblocked while a search task writes.
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %s: %w", path, err)
	}

	// One writer at a time; the store hands a connection to each logical
	// operation and releases it when done.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite database %s: %w", path, err)
	}
	return db, nil
}

// EnsureSchema creates the videos and search_history tables and their
// indexes if they do not exist.
func EnsureSchema(db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS videos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			video_id TEXT UNIQUE NOT NULL,
			title TEXT NOT NULL,
			channel_name TEXT NOT NULL,
			channel_id TEXT NOT NULL,
			subscriber_count INTEGER DEFAULT 0,
			view_count INTEGER DEFAULT 0,
			like_count INTEGER DEFAULT 0,
			comment_count INTEGER DEFAULT 0,
			duration_seconds INTEGER DEFAULT 0,
			duration_formatted TEXT,
			upload_date DATETIME,
			thumbnail_url TEXT,
			video_url TEXT,
			search_keyword TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS search_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			keyword TEXT NOT NULL,
			results_count INTEGER DEFAULT 0,
			search_date DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_videos_video_id ON videos(video_id)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_view_count ON videos(view_count DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_upload_date ON videos(upload_date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_search_keyword ON videos(search_keyword)`,
		`CREATE INDEX IF NOT EXISTS idx_search_history_keyword ON search_history(keyword)`,
		`CREATE INDEX IF NOT EXISTS idx_search_history_date ON search_history(search_date DESC)`,
	}
	for _, stmt := range indexes {
		if _, err := db.Exec(stmt); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Failed creating index")
		}
	}
	return nil
}
