package model

import "time"

// Video represents one enriched search result persisted locally.
// VideoID is the stable 11-character platform identifier and the upsert key.
type Video struct {
	ID                int64      `json:"id,omitempty"`
	VideoID           string     `json:"video_id"`
	Title             string     `json:"title"`
	ChannelName       string     `json:"channel_name"`
	ChannelID         string     `json:"channel_id"`
	SubscriberCount   int64      `json:"subscriber_count"`
	ViewCount         int64      `json:"view_count"`
	LikeCount         int64      `json:"like_count"`
	CommentCount      int64      `json:"comment_count"`
	DurationSeconds   int        `json:"duration_seconds"`
	DurationFormatted string     `json:"duration_formatted"`
	UploadDate        *time.Time `json:"upload_date,omitempty"`
	ThumbnailURL      string     `json:"thumbnail_url"`
	VideoURL          string     `json:"video_url"`
	SearchKeyword     string     `json:"search_keyword"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// SearchHistory is one append-only row per completed search.
type SearchHistory struct {
	ID           int64     `json:"id,omitempty"`
	Keyword      string    `json:"keyword"`
	ResultsCount int       `json:"results_count"`
	SearchDate   time.Time `json:"search_date"`
}

// PopularKeyword is a search_history aggregate row.
type PopularKeyword struct {
	Keyword string `json:"keyword"`
	Count   int64  `json:"count"`
}

// DatabaseStats holds store-wide aggregate counts.
type DatabaseStats struct {
	TotalVideos    int64 `json:"total_videos"`
	TotalSearches  int64 `json:"total_searches"`
	UniqueKeywords int64 `json:"unique_keywords"`
}

// QuotaUsage is a point-in-time snapshot of estimated API quota consumption.
type QuotaUsage struct {
	Used       int64   `json:"used"`
	Limit      int64   `json:"limit"`
	Remaining  int64   `json:"remaining"`
	Percentage float64 `json:"percentage"`
}
