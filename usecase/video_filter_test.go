package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtube-analytics/domain/dto"
	"youtube-analytics/domain/model"
)

func datePtr(daysAgo int) *time.Time {
	t := time.Now().AddDate(0, 0, -daysAgo)
	return &t
}

func TestFilterBySubscribers(t *testing.T) {
	videos := []model.Video{
		{VideoID: "a", SubscriberCount: 500},
		{VideoID: "b", SubscriberCount: 10000},
		{VideoID: "c", SubscriberCount: 10001},
		{VideoID: "d", SubscriberCount: 0},
		{VideoID: "e", SubscriberCount: 999999},
	}

	out := FilterBySubscribers(videos, 10000)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].VideoID)
	assert.Equal(t, "b", out[1].VideoID)
	assert.Equal(t, "d", out[2].VideoID)

	// Disabled ceiling passes everything through.
	assert.Len(t, FilterBySubscribers(videos, 0), 5)
}

func TestFilterByDuration(t *testing.T) {
	videos := []model.Video{
		{VideoID: "a", DurationSeconds: 1199},
		{VideoID: "b", DurationSeconds: 1200},
		{VideoID: "c", DurationSeconds: 4000},
	}
	out := FilterByDuration(videos, 1200)
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].VideoID)
	assert.Equal(t, "c", out[1].VideoID)
}

func TestFilterByUploadDate(t *testing.T) {
	videos := []model.Video{
		{VideoID: "recent", UploadDate: datePtr(5)},
		{VideoID: "old", UploadDate: datePtr(45)},
		{VideoID: "undated", UploadDate: nil},
	}
	out := FilterByUploadDate(videos, 30)
	require.Len(t, out, 1)
	assert.Equal(t, "recent", out[0].VideoID)
}

func TestFilterByViewCount(t *testing.T) {
	videos := []model.Video{
		{VideoID: "a", ViewCount: 100},
		{VideoID: "b", ViewCount: 1000},
	}
	out := FilterByViewCount(videos, 500)
	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].VideoID)
}

func TestSortByViewCount_StableOnTies(t *testing.T) {
	videos := []model.Video{
		{VideoID: "a", ViewCount: 100},
		{VideoID: "b", ViewCount: 900},
		{VideoID: "c", ViewCount: 900},
		{VideoID: "d", ViewCount: 500},
	}
	SortByViewCount(videos, true)
	assert.Equal(t, "b", videos[0].VideoID)
	assert.Equal(t, "c", videos[1].VideoID)
	assert.Equal(t, "d", videos[2].VideoID)
	assert.Equal(t, "a", videos[3].VideoID)

	SortByViewCount(videos, false)
	assert.Equal(t, "a", videos[0].VideoID)
}

func TestSortByUploadDate_UndatedLast(t *testing.T) {
	videos := []model.Video{
		{VideoID: "x", UploadDate: datePtr(10)},
		{VideoID: "undated1", UploadDate: nil},
		{VideoID: "y", UploadDate: datePtr(2)},
		{VideoID: "undated2", UploadDate: nil},
	}
	SortByUploadDate(videos, true)
	assert.Equal(t, "y", videos[0].VideoID)
	assert.Equal(t, "x", videos[1].VideoID)
	// Undated entries sink to the end keeping their relative order.
	assert.Equal(t, "undated1", videos[2].VideoID)
	assert.Equal(t, "undated2", videos[3].VideoID)

	SortByUploadDate(videos, false)
	assert.Equal(t, "x", videos[0].VideoID)
	assert.Equal(t, "y", videos[1].VideoID)
	assert.Equal(t, "undated1", videos[2].VideoID)
	assert.Equal(t, "undated2", videos[3].VideoID)
}

func TestApplyAllFilters(t *testing.T) {
	videos := []model.Video{
		{VideoID: "keep1", SubscriberCount: 5000, DurationSeconds: 2000, UploadDate: datePtr(5), ViewCount: 300},
		{VideoID: "bigchannel", SubscriberCount: 50000, DurationSeconds: 2000, UploadDate: datePtr(5), ViewCount: 900},
		{VideoID: "tooshort", SubscriberCount: 5000, DurationSeconds: 100, UploadDate: datePtr(5), ViewCount: 900},
		{VideoID: "toold", SubscriberCount: 5000, DurationSeconds: 2000, UploadDate: datePtr(60), ViewCount: 900},
		{VideoID: "keep2", SubscriberCount: 5000, DurationSeconds: 2000, UploadDate: datePtr(10), ViewCount: 700},
	}
	criteria := dto.DefaultSearchCriteria("golang tutorial")

	out := ApplyAllFilters(videos, criteria)
	require.Len(t, out, 2)
	assert.Equal(t, "keep2", out[0].VideoID)
	assert.Equal(t, "keep1", out[1].VideoID)

	// The input order is untouched.
	assert.Equal(t, "keep1", videos[0].VideoID)
}

func TestApplyAllFilters_CapsResults(t *testing.T) {
	videos := make([]model.Video, 0, 30)
	for i := 0; i < 30; i++ {
		videos = append(videos, model.Video{
			VideoID:         "video",
			SubscriberCount: 100,
			DurationSeconds: 2000,
			UploadDate:      datePtr(3),
			ViewCount:       int64(i),
		})
	}
	criteria := dto.DefaultSearchCriteria("golang tutorial")
	criteria.MaxResults = 20

	out := ApplyAllFilters(videos, criteria)
	assert.Len(t, out, 20)
	assert.Equal(t, int64(29), out[0].ViewCount)
}

func TestSortVideos_Dispatch(t *testing.T) {
	videos := []model.Video{
		{VideoID: "a", LikeCount: 10, ViewCount: 900},
		{VideoID: "b", LikeCount: 90, ViewCount: 100},
	}

	SortVideos(videos, dto.SortByLikeCount, true)
	assert.Equal(t, "b", videos[0].VideoID)

	SortVideos(videos, "unknown-key", true)
	assert.Equal(t, "a", videos[0].VideoID)
}
