package usecase

import (
	"context"
	"fmt"

	"youtube-analytics/domain/model"
	"youtube-analytics/domain/repository"
	"youtube-analytics/infrastructure/filecsv"
)

// IVideoUsecase exposes the stored result set and its aggregates.
type IVideoUsecase interface {
	GetVideosByKeyword(ctx context.Context, keyword string, limit int) ([]model.Video, error)
	GetAllVideos(ctx context.Context, limit int) ([]model.Video, error)
	GetSearchHistory(ctx context.Context, limit int) ([]model.SearchHistory, error)
	GetPopularKeywords(ctx context.Context, limit int) ([]model.PopularKeyword, error)
	GetStats(ctx context.Context) (model.DatabaseStats, error)
	ExportByKeyword(ctx context.Context, keyword string, limit int, filename string) (string, error)
}

type VideoUsecase struct {
	store    repository.IVideoStore
	exporter *filecsv.Exporter
}

func NewVideoUsecase(store repository.IVideoStore, exporter *filecsv.Exporter) IVideoUsecase {
	return &VideoUsecase{store: store, exporter: exporter}
}

func (u *VideoUsecase) GetVideosByKeyword(ctx context.Context, keyword string, limit int) ([]model.Video, error) {
	return u.store.GetVideosByKeyword(ctx, keyword, limit)
}

func (u *VideoUsecase) GetAllVideos(ctx context.Context, limit int) ([]model.Video, error) {
	return u.store.GetAllVideos(ctx, limit)
}

func (u *VideoUsecase) GetSearchHistory(ctx context.Context, limit int) ([]model.SearchHistory, error) {
	return u.store.GetSearchHistory(ctx, limit)
}

func (u *VideoUsecase) GetPopularKeywords(ctx context.Context, limit int) ([]model.PopularKeyword, error) {
	return u.store.GetPopularKeywords(ctx, limit)
}

func (u *VideoUsecase) GetStats(ctx context.Context) (model.DatabaseStats, error) {
	return u.store.GetStats(ctx)
}

// ExportByKeyword writes the stored results for a keyword to CSV and
// returns the file path.
func (u *VideoUsecase) ExportByKeyword(ctx context.Context, keyword string, limit int, filename string) (string, error) {
	videos, err := u.store.GetVideosByKeyword(ctx, keyword, limit)
	if err != nil {
		return "", fmt.Errorf("load videos for export: %w", err)
	}
	if len(videos) == 0 {
		return "", fmt.Errorf("no stored videos for keyword %q", keyword)
	}
	return u.exporter.Export(videos, keyword, filename)
}
