package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtube-analytics/domain/model"
)

// stubVideoUsecase scripts the store-facing usecase for handler tests.
type stubVideoUsecase struct {
	videos    []model.Video
	queryErr  error
	stats     model.DatabaseStats
	exportErr error
}

func (s *stubVideoUsecase) GetVideosByKeyword(ctx context.Context, keyword string, limit int) ([]model.Video, error) {
	return s.videos, s.queryErr
}

func (s *stubVideoUsecase) GetAllVideos(ctx context.Context, limit int) ([]model.Video, error) {
	return s.videos, s.queryErr
}

func (s *stubVideoUsecase) GetSearchHistory(ctx context.Context, limit int) ([]model.SearchHistory, error) {
	return nil, s.queryErr
}

func (s *stubVideoUsecase) GetPopularKeywords(ctx context.Context, limit int) ([]model.PopularKeyword, error) {
	return nil, s.queryErr
}

func (s *stubVideoUsecase) GetStats(ctx context.Context) (model.DatabaseStats, error) {
	return s.stats, s.queryErr
}

func (s *stubVideoUsecase) ExportByKeyword(ctx context.Context, keyword string, limit int, filename string) (string, error) {
	if s.exportErr != nil {
		return "", s.exportErr
	}
	return "exports/out.csv", nil
}

func newVideoTestRouter(u *stubVideoUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewVideoHandler(u)
	router := gin.New()
	router.GET("/api/videos", handler.GetVideosByKeyword)
	router.GET("/api/stats", handler.GetStats)
	return router
}

func TestVideoHandler_GetVideosByKeyword(t *testing.T) {
	router := newVideoTestRouter(&stubVideoUsecase{
		videos: []model.Video{{VideoID: "dQw4w9WgXcQ", Title: "A"}},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/videos?keyword=golang+tutorial&limit=5", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool          `json:"success"`
		Count   int           `json:"count"`
		Data    []model.Video `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "dQw4w9WgXcQ", body.Data[0].VideoID)
}

func TestVideoHandler_GetVideosByKeyword_MissingKeyword(t *testing.T) {
	router := newVideoTestRouter(&stubVideoUsecase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVideoHandler_GetVideosByKeyword_StoreError(t *testing.T) {
	router := newVideoTestRouter(&stubVideoUsecase{queryErr: fmt.Errorf("db locked")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/videos?keyword=golang", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestVideoHandler_GetStats(t *testing.T) {
	router := newVideoTestRouter(&stubVideoUsecase{
		stats: model.DatabaseStats{TotalVideos: 12, TotalSearches: 4, UniqueKeywords: 3},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var stats model.DatabaseStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(12), stats.TotalVideos)
}
