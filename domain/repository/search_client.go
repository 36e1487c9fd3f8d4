package repository

import (
	"context"

	"youtube-analytics/domain/dto"
	"youtube-analytics/domain/model"
)

// ISearchClient wraps the remote video platform. Search absorbs expected
// failure modes (transport, quota, malformed payloads) and degrades to a
// smaller or empty result set instead of returning an error.
type ISearchClient interface {
	Search(ctx context.Context, criteria dto.SearchCriteria) []model.Video
	ValidateCredential(ctx context.Context) bool
	QuotaSnapshot() model.QuotaUsage
	ResetQuota()
}
