package repository

import (
	"context"

	"youtube-analytics/domain/model"
)

// IVideoStore is the local persistence layer: upsert keyed on the platform
// video identifier plus the append-only search history.
type IVideoStore interface {
	SaveVideo(ctx context.Context, video *model.Video) error
	// SaveVideosBatch saves each record independently and returns the
	// number actually stored; a bad record never aborts the batch.
	SaveVideosBatch(ctx context.Context, videos []model.Video) (int, error)
	GetVideosByKeyword(ctx context.Context, keyword string, limit int) ([]model.Video, error)
	GetAllVideos(ctx context.Context, limit int) ([]model.Video, error)

	AddSearchHistory(ctx context.Context, keyword string, resultsCount int) error
	GetSearchHistory(ctx context.Context, limit int) ([]model.SearchHistory, error)
	GetPopularKeywords(ctx context.Context, limit int) ([]model.PopularKeyword, error)

	GetStats(ctx context.Context) (model.DatabaseStats, error)
	// CleanupOldHistory deletes history rows older than the given age in
	// days and reports how many were removed. Video rows are never expired.
	CleanupOldHistory(ctx context.Context, days int) (int64, error)
}

// ICredentialStore persists the provider API key outside the process,
// typically in the OS keychain.
type ICredentialStore interface {
	Save(apiKey string) error
	Load() (string, error)
	Delete() error
}
