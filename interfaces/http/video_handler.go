package http

import (
	"net/http"
	"strconv"

	"youtube-analytics/domain/dto"
	"youtube-analytics/infrastructure/logger"
	"youtube-analytics/usecase"

	"github.com/gin-gonic/gin"
)

// IVideoHandler defines the HTTP handlers over the local store.
type IVideoHandler interface {
	GetVideosByKeyword(ctx *gin.Context)
	GetAllVideos(ctx *gin.Context)
	GetSearchHistory(ctx *gin.Context)
	GetPopularKeywords(ctx *gin.Context)
	GetStats(ctx *gin.Context)
	Export(ctx *gin.Context)
}

type VideoHandler struct {
	videoUseCase usecase.IVideoUsecase
}

func NewVideoHandler(videoUseCase usecase.IVideoUsecase) IVideoHandler {
	return &VideoHandler{videoUseCase: videoUseCase}
}

func queryLimit(ctx *gin.Context, fallback int) int {
	raw := ctx.Query("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

// GetVideosByKeyword handles GET /api/videos?keyword=...&limit=...
func (h *VideoHandler) GetVideosByKeyword(ctx *gin.Context) {
	keyword := ctx.Query("keyword")
	if keyword == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "keyword is required"})
		return
	}
	videos, err := h.videoUseCase.GetVideosByKeyword(ctx.Request.Context(), keyword, queryLimit(ctx, 20))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to query videos by keyword")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query videos"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "count": len(videos), "data": videos})
}

// GetAllVideos handles GET /api/videos/all?limit=...
func (h *VideoHandler) GetAllVideos(ctx *gin.Context) {
	videos, err := h.videoUseCase.GetAllVideos(ctx.Request.Context(), queryLimit(ctx, 100))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to query all videos")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query videos"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "count": len(videos), "data": videos})
}

// GetSearchHistory handles GET /api/history?limit=...
func (h *VideoHandler) GetSearchHistory(ctx *gin.Context) {
	entries, err := h.videoUseCase.GetSearchHistory(ctx.Request.Context(), queryLimit(ctx, 50))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to query search history")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query history"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "count": len(entries), "data": entries})
}

// GetPopularKeywords handles GET /api/history/popular?limit=...
func (h *VideoHandler) GetPopularKeywords(ctx *gin.Context) {
	keywords, err := h.videoUseCase.GetPopularKeywords(ctx.Request.Context(), queryLimit(ctx, 10))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to query popular keywords")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query popular keywords"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": keywords})
}

// GetStats handles GET /api/stats.
func (h *VideoHandler) GetStats(ctx *gin.Context) {
	stats, err := h.videoUseCase.GetStats(ctx.Request.Context())
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to query database stats")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query stats"})
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// Export handles POST /api/export, writing stored results to a CSV file.
func (h *VideoHandler) Export(ctx *gin.Context) {
	var req dto.ExportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}
	path, err := h.videoUseCase.ExportByKeyword(ctx.Request.Context(), req.Keyword, req.Limit, req.Filename)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Export failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed", "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "path": path})
}
