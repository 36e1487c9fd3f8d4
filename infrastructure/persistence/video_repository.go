package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"youtube-analytics/domain/model"
	"youtube-analytics/domain/repository"
	"youtube-analytics/infrastructure/logger"
	"youtube-analytics/infrastructure/utils"
)

const upsertVideoQuery = `INSERT INTO videos (
		video_id, title, channel_name, channel_id,
		subscriber_count, view_count, like_count, comment_count,
		duration_seconds, duration_formatted, upload_date,
		thumbnail_url, video_url, search_keyword, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(video_id) DO UPDATE SET
		title=excluded.title,
		channel_name=excluded.channel_name,
		channel_id=excluded.channel_id,
		subscriber_count=excluded.subscriber_count,
		view_count=excluded.view_count,
		like_count=excluded.like_count,
		comment_count=excluded.comment_count,
		duration_seconds=excluded.duration_seconds,
		duration_formatted=excluded.duration_formatted,
		upload_date=excluded.upload_date,
		thumbnail_url=excluded.thumbnail_url,
		video_url=excluded.video_url,
		search_keyword=excluded.search_keyword,
		updated_at=excluded.updated_at`

const selectVideoColumns = `SELECT id, video_id, title, channel_name, channel_id,
		subscriber_count, view_count, like_count, comment_count,
		duration_seconds, duration_formatted, upload_date,
		thumbnail_url, video_url, search_keyword, created_at, updated_at
	FROM videos`

// VideoRepository implements repository.IVideoStore over the local SQLite file.
type VideoRepository struct {
	db *sql.DB
}

func NewVideoRepository(db *sql.DB) repository.IVideoStore {
	return &VideoRepository{db: db}
}

// SaveVideo upserts one record keyed on video_id.
func (r *VideoRepository) SaveVideo(ctx context.Context, video *model.Video) error {
	if video == nil {
		return fmt.Errorf("nil video")
	}
	now := time.Now().UTC()
	video.UpdatedAt = now
	if video.CreatedAt.IsZero() {
		video.CreatedAt = now
	}

	_, err := r.db.ExecContext(ctx, upsertVideoQuery, upsertArgs(video)...)
	if err != nil {
		return fmt.Errorf("save video %s: %w", video.VideoID, err)
	}
	return nil
}

// SaveVideosBatch upserts each record independently inside one transaction;
// records with a malformed identifier or a failing statement are skipped and
// logged, never aborting the batch. Returns the count actually saved.
func (r *VideoRepository) SaveVideosBatch(ctx context.Context, videos []model.Video) (int, error) {
	if len(videos) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin batch save: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, upsertVideoQuery)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare batch save: %w", err)
	}
	defer stmt.Close()

	saved := 0
	now := time.Now().UTC()
	for i := range videos {
		v := &videos[i]
		if !utils.IsValidVideoID(v.VideoID) {
			logger.GetLogger().WithField("videoId", v.VideoID).Warn("Skipping record with invalid video id")
			continue
		}
		v.UpdatedAt = now
		if v.CreatedAt.IsZero() {
			v.CreatedAt = now
		}
		if _, execErr := stmt.ExecContext(ctx, upsertArgs(v)...); execErr != nil {
			logger.GetLogger().WithFields(map[string]interface{}{
				"videoId": v.VideoID,
				"error":   execErr,
			}).Warn("Failed to save video in batch")
			continue
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit batch save: %w", err)
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"saved": saved,
		"total": len(videos),
	}).Info("Batch save completed")
	return saved, nil
}

func upsertArgs(v *model.Video) []interface{} {
	var uploadDate interface{}
	if v.UploadDate != nil {
		uploadDate = v.UploadDate.UTC()
	}
	return []interface{}{
		v.VideoID, v.Title, v.ChannelName, v.ChannelID,
		v.SubscriberCount, v.ViewCount, v.LikeCount, v.CommentCount,
		v.DurationSeconds, v.DurationFormatted, uploadDate,
		v.ThumbnailURL, v.VideoURL, v.SearchKeyword, v.CreatedAt, v.UpdatedAt,
	}
}

// GetVideosByKeyword returns stored records for one keyword, view count
// descending.
func (r *VideoRepository) GetVideosByKeyword(ctx context.Context, keyword string, limit int) ([]model.Video, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		selectVideoColumns+` WHERE search_keyword = ? ORDER BY view_count DESC LIMIT ?`,
		keyword, limit)
	if err != nil {
		return nil, fmt.Errorf("query videos by keyword %q: %w", keyword, err)
	}
	defer rows.Close()
	return scanVideos(rows)
}

// GetAllVideos returns stored records, most recently created first.
func (r *VideoRepository) GetAllVideos(ctx context.Context, limit int) ([]model.Video, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		selectVideoColumns+` ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query all videos: %w", err)
	}
	defer rows.Close()
	return scanVideos(rows)
}

func scanVideos(rows *sql.Rows) ([]model.Video, error) {
	videos := make([]model.Video, 0)
	for rows.Next() {
		var v model.Video
		var uploadDate sql.NullTime
		var durationFormatted, thumbnailURL, videoURL, searchKeyword sql.NullString
		if err := rows.Scan(
			&v.ID, &v.VideoID, &v.Title, &v.ChannelName, &v.ChannelID,
			&v.SubscriberCount, &v.ViewCount, &v.LikeCount, &v.CommentCount,
			&v.DurationSeconds, &durationFormatted, &uploadDate,
			&thumbnailURL, &videoURL, &searchKeyword, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan video row: %w", err)
		}
		if uploadDate.Valid {
			t := uploadDate.Time
			v.UploadDate = &t
		}
		v.DurationFormatted = durationFormatted.String
		v.ThumbnailURL = thumbnailURL.String
		v.VideoURL = videoURL.String
		v.SearchKeyword = searchKeyword.String
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// AddSearchHistory appends one history row; rows are never updated.
func (r *VideoRepository) AddSearchHistory(ctx context.Context, keyword string, resultsCount int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO search_history (keyword, results_count, search_date) VALUES (?, ?, ?)`,
		keyword, resultsCount, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("add search history %q: %w", keyword, err)
	}
	return nil
}

// GetSearchHistory returns recent history entries, newest first.
func (r *VideoRepository) GetSearchHistory(ctx context.Context, limit int) ([]model.SearchHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, keyword, results_count, search_date FROM search_history ORDER BY search_date DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("query search history: %w", err)
	}
	defer rows.Close()

	entries := make([]model.SearchHistory, 0, limit)
	for rows.Next() {
		var h model.SearchHistory
		if err := rows.Scan(&h.ID, &h.Keyword, &h.ResultsCount, &h.SearchDate); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}

// GetPopularKeywords groups history by keyword, most searched first.
func (r *VideoRepository) GetPopularKeywords(ctx context.Context, limit int) ([]model.PopularKeyword, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT keyword, COUNT(*) AS search_count FROM search_history GROUP BY keyword ORDER BY search_count DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("query popular keywords: %w", err)
	}
	defer rows.Close()

	keywords := make([]model.PopularKeyword, 0, limit)
	for rows.Next() {
		var k model.PopularKeyword
		if err := rows.Scan(&k.Keyword, &k.Count); err != nil {
			return nil, fmt.Errorf("scan popular keyword row: %w", err)
		}
		keywords = append(keywords, k)
	}
	return keywords, rows.Err()
}

// GetStats returns the aggregate counters shown on the dashboard.
func (r *VideoRepository) GetStats(ctx context.Context) (model.DatabaseStats, error) {
	var stats model.DatabaseStats
	row := r.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM videos),
		(SELECT COUNT(*) FROM search_history),
		(SELECT COUNT(DISTINCT keyword) FROM search_history)`)
	if err := row.Scan(&stats.TotalVideos, &stats.TotalSearches, &stats.UniqueKeywords); err != nil {
		return model.DatabaseStats{}, fmt.Errorf("query database stats: %w", err)
	}
	return stats, nil
}

// CleanupOldHistory deletes history rows older than the given age in days
// and returns the number removed. Video records are never auto-expired.
func (r *VideoRepository) CleanupOldHistory(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		days = 90
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM search_history WHERE search_date < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup old history: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cleanup old history rows affected: %w", err)
	}
	if deleted > 0 {
		logger.GetLogger().WithField("deleted", deleted).Info("Old search history removed")
	}
	return deleted, nil
}
