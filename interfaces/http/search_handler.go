package http

import (
	"context"
	"net/http"

	"youtube-analytics/domain/dto"
	"youtube-analytics/domain/repository"
	"youtube-analytics/infrastructure/configuration"
	"youtube-analytics/infrastructure/logger"
	"youtube-analytics/infrastructure/utils"
	"youtube-analytics/usecase"

	"github.com/gin-gonic/gin"
)

// ISearchHandler defines the HTTP handlers around the background search task.
type ISearchHandler interface {
	StartSearch(ctx *gin.Context)
	CancelSearch(ctx *gin.Context)
	SearchStatus(ctx *gin.Context)
	SearchResults(ctx *gin.Context)
	QuotaStatus(ctx *gin.Context)
	ResetQuota(ctx *gin.Context)

	SaveCredential(ctx *gin.Context)
	ValidateCredential(ctx *gin.Context)
	DeleteCredential(ctx *gin.Context)
}

type SearchHandler struct {
	searchUseCase usecase.ISearchUsecase
	searchClient  repository.ISearchClient
	credStore     repository.ICredentialStore
	cfg           *configuration.Config
}

func NewSearchHandler(
	searchUseCase usecase.ISearchUsecase,
	searchClient repository.ISearchClient,
	credStore repository.ICredentialStore,
	cfg *configuration.Config,
) ISearchHandler {
	return &SearchHandler{
		searchUseCase: searchUseCase,
		searchClient:  searchClient,
		credStore:     credStore,
		cfg:           cfg,
	}
}

// StartSearch handles POST /api/search. Zero-valued request fields fall back
// to the configured defaults.
func (h *SearchHandler) StartSearch(ctx *gin.Context) {
	var req dto.SearchStartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	criteria := h.criteriaFromRequest(req)
	if !utils.IsValidKeyword(criteria.Keyword) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid keyword"})
		return
	}

	// The task outlives this request, so it must not inherit the request
	// context.
	err := h.searchUseCase.Start(context.Background(), criteria, usecase.SearchCallbacks{})
	if err != nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Failed to start search", "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusAccepted, gin.H{"success": true, "keyword": criteria.Keyword})
}

func (h *SearchHandler) criteriaFromRequest(req dto.SearchStartRequest) dto.SearchCriteria {
	criteria := dto.DefaultSearchCriteria(utils.SanitizeKeyword(req.Keyword))
	criteria.MaxResults = h.cfg.Search.MaxResults
	criteria.MaxSubscribers = h.cfg.Search.MaxSubscribers
	criteria.MinDurationSeconds = h.cfg.Search.MinDurationSeconds
	criteria.DaysBack = h.cfg.Search.DaysBack

	if req.MaxSubscribers > 0 {
		criteria.MaxSubscribers = req.MaxSubscribers
	}
	if req.MinDurationSeconds > 0 {
		criteria.MinDurationSeconds = req.MinDurationSeconds
	}
	if req.DaysBack > 0 {
		criteria.DaysBack = req.DaysBack
	}
	if req.MinViews > 0 {
		criteria.MinViews = req.MinViews
	}
	if req.MaxResults > 0 {
		criteria.MaxResults = req.MaxResults
	}
	return criteria
}

// CancelSearch handles POST /api/search/cancel.
func (h *SearchHandler) CancelSearch(ctx *gin.Context) {
	h.searchUseCase.Cancel()
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// SearchStatus handles GET /api/search/status.
func (h *SearchHandler) SearchStatus(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.searchUseCase.Status())
}

// SearchResults handles GET /api/search/results, the outcome of the most
// recent completed search.
func (h *SearchHandler) SearchResults(ctx *gin.Context) {
	videos := h.searchUseCase.Results()
	ctx.JSON(http.StatusOK, gin.H{"success": true, "count": len(videos), "data": videos})
}

// QuotaStatus handles GET /api/quota.
func (h *SearchHandler) QuotaStatus(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.searchUseCase.QuotaSnapshot())
}

// ResetQuota handles POST /api/quota/reset, the daily reset hook.
func (h *SearchHandler) ResetQuota(ctx *gin.Context) {
	h.searchClient.ResetQuota()
	ctx.JSON(http.StatusOK, h.searchUseCase.QuotaSnapshot())
}

// SaveCredential handles POST /api/credential. The key is checked for shape
// only; it takes effect on the next application start.
func (h *SearchHandler) SaveCredential(ctx *gin.Context) {
	var req dto.CredentialRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}
	if !utils.IsValidAPIKey(req.APIKey) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "API key has an unexpected format"})
		return
	}
	if err := h.credStore.Save(req.APIKey); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to save credential")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save credential"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// ValidateCredential handles POST /api/credential/validate by probing the
// remote API with the live client.
func (h *SearchHandler) ValidateCredential(ctx *gin.Context) {
	valid := h.searchClient.ValidateCredential(ctx.Request.Context())
	ctx.JSON(http.StatusOK, gin.H{"valid": valid})
}

// DeleteCredential handles DELETE /api/credential.
func (h *SearchHandler) DeleteCredential(ctx *gin.Context) {
	if err := h.credStore.Delete(); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete credential"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
