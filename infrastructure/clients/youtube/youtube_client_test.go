package youtube

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	yt "google.golang.org/api/youtube/v3"

	"youtube-analytics/domain/dto"
)

// stubAPI scripts the three remote calls for one test.
type stubAPI struct {
	searchResults []*yt.SearchResult
	searchErr     error
	videos        []*yt.Video
	videosErr     error
	channels      map[string]*yt.Channel
	channelErrs   map[string]error

	searchCalls  int
	videosCalls  int
	channelCalls int
}

func (s *stubAPI) SearchList(ctx context.Context, query string, publishedAfter time.Time, region string, maxResults int64) ([]*yt.SearchResult, error) {
	s.searchCalls++
	return s.searchResults, s.searchErr
}

func (s *stubAPI) VideosList(ctx context.Context, ids []string) ([]*yt.Video, error) {
	s.videosCalls++
	return s.videos, s.videosErr
}

func (s *stubAPI) ChannelsList(ctx context.Context, channelID string) (*yt.Channel, error) {
	s.channelCalls++
	if err, ok := s.channelErrs[channelID]; ok {
		return nil, err
	}
	return s.channels[channelID], nil
}

func videoID(n int) string   { return fmt.Sprintf("video%05d_", n) }
func channelID(n int) string { return fmt.Sprintf("UCchannel%015d", n) }

func searchResult(id string) *yt.SearchResult {
	return &yt.SearchResult{Id: &yt.ResourceId{VideoId: id}}
}

func videoDetail(id, chID, duration string, views uint64, publishedAt time.Time) *yt.Video {
	return &yt.Video{
		Id: id,
		Snippet: &yt.VideoSnippet{
			Title:        "Video " + id,
			ChannelId:    chID,
			ChannelTitle: "Channel " + chID,
			PublishedAt:  publishedAt.Format(time.RFC3339),
		},
		ContentDetails: &yt.VideoContentDetails{Duration: duration},
		Statistics:     &yt.VideoStatistics{ViewCount: views, LikeCount: views / 10, CommentCount: views / 100},
	}
}

func channelWithSubscribers(subs uint64) *yt.Channel {
	return &yt.Channel{Statistics: &yt.ChannelStatistics{SubscriberCount: subs}}
}

func TestSearch_FiltersEnrichesAndRanks(t *testing.T) {
	published := time.Now().AddDate(0, 0, -3)
	v1, v2, v3 := videoID(1), videoID(2), videoID(3)
	c1, c2, c3 := channelID(1), channelID(2), channelID(3)

	stub := &stubAPI{
		searchResults: []*yt.SearchResult{searchResult(v1), searchResult(v2), searchResult(v3)},
		videos: []*yt.Video{
			videoDetail(v1, c1, "PT30M", 5000, published),
			videoDetail(v2, c2, "PT5M", 9000, published), // below the duration floor
			videoDetail(v3, c3, "PT45M", 7000, published),
		},
		channels: map[string]*yt.Channel{
			c1: channelWithSubscribers(5000),
			c2: channelWithSubscribers(5000),
		},
		channelErrs: map[string]error{
			c3: fmt.Errorf("channel lookup unavailable"),
		},
	}
	client := newClient(stub, "KR", 10000)

	criteria := dto.DefaultSearchCriteria("golang tutorial")
	videos := client.Search(context.Background(), criteria)

	// v2 fails the duration floor, v3 loses its channel lookup; only v1 survives.
	require.Len(t, videos, 1)
	assert.Equal(t, v1, videos[0].VideoID)
	assert.Equal(t, int64(5000), videos[0].SubscriberCount)
	assert.Equal(t, 1800, videos[0].DurationSeconds)
	assert.Equal(t, "30:00", videos[0].DurationFormatted)
	assert.Equal(t, "golang tutorial", videos[0].SearchKeyword)
	assert.Equal(t, "https://www.youtube.com/watch?v="+v1, videos[0].VideoURL)
	require.NotNil(t, videos[0].UploadDate)

	// search=100, one detail batch=1, three channel lookups=3.
	assert.Equal(t, int64(104), client.QuotaSnapshot().Used)
}

func TestSearch_RanksByViewCountAndCaps(t *testing.T) {
	published := time.Now().AddDate(0, 0, -3)
	ids := []string{videoID(1), videoID(2), videoID(3)}
	ch := channelID(9)

	stub := &stubAPI{
		searchResults: []*yt.SearchResult{searchResult(ids[0]), searchResult(ids[1]), searchResult(ids[2])},
		videos: []*yt.Video{
			videoDetail(ids[0], ch, "PT30M", 100, published),
			videoDetail(ids[1], ch, "PT30M", 900, published),
			videoDetail(ids[2], ch, "PT30M", 500, published),
		},
		channels: map[string]*yt.Channel{ch: channelWithSubscribers(100)},
	}
	client := newClient(stub, "KR", 10000)

	criteria := dto.DefaultSearchCriteria("golang tutorial")
	criteria.MaxResults = 2
	videos := client.Search(context.Background(), criteria)

	require.Len(t, videos, 2)
	assert.Equal(t, ids[1], videos[0].VideoID)
	assert.Equal(t, ids[2], videos[1].VideoID)
}

func TestSearch_AppliesViewFloor(t *testing.T) {
	published := time.Now().AddDate(0, 0, -3)
	ids := []string{videoID(1), videoID(2), videoID(3)}
	ch := channelID(9)

	stub := &stubAPI{
		searchResults: []*yt.SearchResult{searchResult(ids[0]), searchResult(ids[1]), searchResult(ids[2])},
		videos: []*yt.Video{
			videoDetail(ids[0], ch, "PT30M", 100, published),
			videoDetail(ids[1], ch, "PT30M", 900, published),
			videoDetail(ids[2], ch, "PT30M", 500, published),
		},
		channels: map[string]*yt.Channel{ch: channelWithSubscribers(100)},
	}
	client := newClient(stub, "KR", 10000)

	criteria := dto.DefaultSearchCriteria("golang tutorial")
	criteria.MinViews = 600
	videos := client.Search(context.Background(), criteria)

	require.Len(t, videos, 1)
	assert.Equal(t, ids[1], videos[0].VideoID)
}

func TestSearch_InvalidKeyword(t *testing.T) {
	stub := &stubAPI{}
	client := newClient(stub, "KR", 10000)

	videos := client.Search(context.Background(), dto.DefaultSearchCriteria("bad;keyword"))

	assert.Nil(t, videos)
	assert.Equal(t, 0, stub.searchCalls)
	assert.Equal(t, int64(0), client.QuotaSnapshot().Used)
}

func TestSearch_SearchCallFailureDegrades(t *testing.T) {
	stub := &stubAPI{searchErr: fmt.Errorf("transport down")}
	client := newClient(stub, "KR", 10000)

	videos := client.Search(context.Background(), dto.DefaultSearchCriteria("golang tutorial"))

	assert.Empty(t, videos)
	// The failed call still counts against the estimate.
	assert.Equal(t, int64(searchCost), client.QuotaSnapshot().Used)
}

func TestSearch_DetailBatchFailureDegrades(t *testing.T) {
	stub := &stubAPI{
		searchResults: []*yt.SearchResult{searchResult(videoID(1))},
		videosErr:     fmt.Errorf("batch failed"),
	}
	client := newClient(stub, "KR", 10000)

	videos := client.Search(context.Background(), dto.DefaultSearchCriteria("golang tutorial"))

	assert.Empty(t, videos)
	assert.Equal(t, int64(searchCost+videosCost), client.QuotaSnapshot().Used)
}

func TestValidateCredential(t *testing.T) {
	ok := newClient(&stubAPI{}, "KR", 10000)
	assert.True(t, ok.ValidateCredential(context.Background()))

	denied := newClient(&stubAPI{searchErr: &googleapi.Error{Code: 403, Message: "quotaExceeded"}}, "KR", 10000)
	assert.False(t, denied.ValidateCredential(context.Background()))

	flaky := newClient(&stubAPI{searchErr: fmt.Errorf("connection reset")}, "KR", 10000)
	assert.False(t, flaky.ValidateCredential(context.Background()))
}

func TestQuotaSnapshot(t *testing.T) {
	client := newClient(&stubAPI{}, "KR", 10000)
	client.quotaUsed.Store(250)

	snapshot := client.QuotaSnapshot()
	assert.Equal(t, int64(250), snapshot.Used)
	assert.Equal(t, int64(10000), snapshot.Limit)
	assert.Equal(t, int64(9750), snapshot.Remaining)
	assert.InDelta(t, 2.5, snapshot.Percentage, 0.001)

	client.quotaUsed.Store(12000)
	snapshot = client.QuotaSnapshot()
	assert.Equal(t, int64(0), snapshot.Remaining)
	assert.Equal(t, float64(100), snapshot.Percentage)

	client.ResetQuota()
	assert.Equal(t, int64(0), client.QuotaSnapshot().Used)
}
