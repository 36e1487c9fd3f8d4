package usecase

import (
	"sort"

	"youtube-analytics/domain/dto"
	"youtube-analytics/domain/model"
	"youtube-analytics/infrastructure/utils"
)

// FilterBySubscribers keeps videos whose channel is at or below the ceiling.
// A non-positive ceiling disables the filter.
func FilterBySubscribers(videos []model.Video, maxSubscribers int64) []model.Video {
	if maxSubscribers <= 0 {
		return videos
	}
	out := make([]model.Video, 0, len(videos))
	for _, v := range videos {
		if utils.SubscriberWithin(v.SubscriberCount, maxSubscribers) {
			out = append(out, v)
		}
	}
	return out
}

// FilterByDuration keeps videos at or above the length floor in seconds.
// A non-positive floor disables the filter.
func FilterByDuration(videos []model.Video, minSeconds int) []model.Video {
	if minSeconds <= 0 {
		return videos
	}
	out := make([]model.Video, 0, len(videos))
	for _, v := range videos {
		if utils.DurationAtLeast(v.DurationSeconds, minSeconds) {
			out = append(out, v)
		}
	}
	return out
}

// FilterByUploadDate keeps videos uploaded within the last daysBack days.
// Videos without an upload date are excluded. A non-positive window
// disables the filter.
func FilterByUploadDate(videos []model.Video, daysBack int) []model.Video {
	if daysBack <= 0 {
		return videos
	}
	out := make([]model.Video, 0, len(videos))
	for _, v := range videos {
		if utils.UploadedWithin(v.UploadDate, daysBack) {
			out = append(out, v)
		}
	}
	return out
}

// FilterByViewCount keeps videos with at least minViews views.
func FilterByViewCount(videos []model.Video, minViews int64) []model.Video {
	if minViews <= 0 {
		return videos
	}
	out := make([]model.Video, 0, len(videos))
	for _, v := range videos {
		if v.ViewCount >= minViews {
			out = append(out, v)
		}
	}
	return out
}

// SortByViewCount orders in place by view count. Equal counts keep their
// relative order.
func SortByViewCount(videos []model.Video, desc bool) {
	sort.SliceStable(videos, func(i, j int) bool {
		if desc {
			return videos[i].ViewCount > videos[j].ViewCount
		}
		return videos[i].ViewCount < videos[j].ViewCount
	})
}

// SortByLikeCount orders in place by like count, stable on ties.
func SortByLikeCount(videos []model.Video, desc bool) {
	sort.SliceStable(videos, func(i, j int) bool {
		if desc {
			return videos[i].LikeCount > videos[j].LikeCount
		}
		return videos[i].LikeCount < videos[j].LikeCount
	})
}

// SortByUploadDate orders in place by upload date. Videos without a date
// always sort after dated ones, keeping their relative order.
func SortByUploadDate(videos []model.Video, desc bool) {
	sort.SliceStable(videos, func(i, j int) bool {
		a, b := videos[i].UploadDate, videos[j].UploadDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		if desc {
			return a.After(*b)
		}
		return a.Before(*b)
	})
}

// SortVideos dispatches on the criteria sort key. Unknown keys fall back to
// view count.
func SortVideos(videos []model.Video, sortBy string, desc bool) {
	switch sortBy {
	case dto.SortByUploadDate:
		SortByUploadDate(videos, desc)
	case dto.SortByLikeCount:
		SortByLikeCount(videos, desc)
	default:
		SortByViewCount(videos, desc)
	}
}

// ApplyAllFilters runs the full pipeline in canonical order: subscriber
// ceiling, duration floor, upload recency, view floor, sort, then cap to
// MaxResults. The input slice is not modified.
func ApplyAllFilters(videos []model.Video, criteria dto.SearchCriteria) []model.Video {
	out := make([]model.Video, len(videos))
	copy(out, videos)

	out = FilterBySubscribers(out, criteria.MaxSubscribers)
	out = FilterByDuration(out, criteria.MinDurationSeconds)
	out = FilterByUploadDate(out, criteria.DaysBack)
	out = FilterByViewCount(out, criteria.MinViews)

	SortVideos(out, criteria.SortBy, criteria.SortDesc)

	if criteria.MaxResults > 0 && len(out) > criteria.MaxResults {
		out = out[:criteria.MaxResults]
	}
	return out
}
