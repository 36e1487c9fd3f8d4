package youtube

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"youtube-analytics/domain/dto"
	"youtube-analytics/domain/model"
	"youtube-analytics/domain/repository"
	"youtube-analytics/infrastructure/logger"
	"youtube-analytics/infrastructure/utils"
)

// Quota unit costs per the provider's pricing of the three calls.
const (
	searchCost  = 100
	videosCost  = 1
	channelCost = 1

	// detailBatchSize is the provider's hard cap on ids per videos.list call.
	detailBatchSize = 50
)

// Client implements repository.ISearchClient against the YouTube Data API v3.
// All expected failure modes degrade to a smaller result set; only the quota
// counters are shared across goroutines (single-writer, snapshot reads).
type Client struct {
	api        api
	region     string
	quotaUsed  atomic.Int64
	quotaLimit int64
	limiter    *rate.Limiter
}

// api is the narrow seam over the three remote calls, stubbed in tests.
type api interface {
	SearchList(ctx context.Context, query string, publishedAfter time.Time, region string, maxResults int64) ([]*yt.SearchResult, error)
	VideosList(ctx context.Context, ids []string) ([]*yt.Video, error)
	ChannelsList(ctx context.Context, channelID string) (*yt.Channel, error)
}

// NewClient builds a client in API-key mode. The key is the only credential
// the provider needs for read-only search.
func NewClient(ctx context.Context, apiKey, region string, quotaLimit int64) (repository.ISearchClient, error) {
	service, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return newClient(&serviceAPI{service: service}, region, quotaLimit), nil
}

func newClient(a api, region string, quotaLimit int64) *Client {
	if quotaLimit <= 0 {
		quotaLimit = 10000
	}
	return &Client{
		api:        a,
		region:     region,
		quotaLimit: quotaLimit,
		limiter:    rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
	}
}

// Search turns criteria into a ranked, filtered, capped result list. It
// never returns an error: transport, quota, and data failures shrink the
// result set and are logged where they occur.
func (c *Client) Search(ctx context.Context, criteria dto.SearchCriteria) (videos []model.Video) {
	defer func() {
		if r := recover(); r != nil {
			logger.GetLogger().WithField("panic", r).Error("Unexpected error during search")
			videos = nil
		}
	}()

	if !utils.IsValidKeyword(criteria.Keyword) {
		logger.GetLogger().WithField("keyword", criteria.Keyword).Error("Invalid search keyword")
		return nil
	}
	maxResults := criteria.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	candidates := c.basicSearch(ctx, criteria.Keyword, criteria.DaysBack)
	if len(candidates) == 0 {
		return nil
	}

	videos = c.enrich(ctx, candidates, criteria, maxResults)

	// Equivalent to the canonical pipeline's final sort+cap; the eager
	// per-candidate filters above already applied the same predicates.
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].ViewCount > videos[j].ViewCount
	})
	if len(videos) > maxResults {
		videos = videos[:maxResults]
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"keyword": criteria.Keyword,
		"count":   len(videos),
	}).Info("Search completed")
	return videos
}

// basicSearch issues the single search.list call with all server-side
// filters applied and returns candidate video ids.
func (c *Client) basicSearch(ctx context.Context, keyword string, daysBack int) []string {
	if daysBack <= 0 {
		daysBack = 30
	}
	publishedAfter := time.Now().AddDate(0, 0, -daysBack)

	items, err := c.api.SearchList(ctx, keyword, publishedAfter, c.region, detailBatchSize)
	c.quotaUsed.Add(searchCost)
	if err != nil {
		c.logAPIError(err, "YouTube search call failed")
		return nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil || item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		ids = append(ids, item.Id.VideoId)
	}
	return ids
}

// enrich fetches detail batches and channel statistics, applying the
// per-candidate filters eagerly so failing candidates do not spend further
// quota. It stops requesting new batches once maxResults
// valid records are collected, but always finishes the batch in progress.
func (c *Client) enrich(ctx context.Context, ids []string, criteria dto.SearchCriteria, maxResults int) []model.Video {
	collected := make([]model.Video, 0, maxResults)

	for start := 0; start < len(ids); start += detailBatchSize {
		if len(collected) >= maxResults {
			break
		}
		if start > 0 {
			// Inter-batch pacing to stay under the provider's rate limits.
			if err := c.limiter.Wait(ctx); err != nil {
				logger.GetLogger().WithField("error", err).Warn("Search interrupted between detail batches")
				return collected
			}
		}

		end := start + detailBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		details, err := c.api.VideosList(ctx, ids[start:end])
		c.quotaUsed.Add(videosCost)
		if err != nil {
			c.logAPIError(err, "Video detail batch failed, dropping batch")
			continue
		}

		for _, detail := range details {
			video := c.buildVideo(ctx, detail, criteria)
			if video != nil {
				collected = append(collected, *video)
			}
		}
	}

	return collected
}

// buildVideo enriches one detail record with channel statistics and applies
// the per-candidate filters. Returns nil when the candidate is excluded.
func (c *Client) buildVideo(ctx context.Context, detail *yt.Video, criteria dto.SearchCriteria) *model.Video {
	if detail == nil || detail.Snippet == nil {
		return nil
	}

	subscriberCount, ok := c.channelSubscribers(ctx, detail.Snippet.ChannelId)
	if !ok {
		return nil
	}
	if !utils.SubscriberWithin(subscriberCount, criteria.MaxSubscribers) {
		return nil
	}

	var durationToken string
	if detail.ContentDetails != nil {
		durationToken = detail.ContentDetails.Duration
	}
	durationSeconds, durationFormatted, err := utils.ParseISODuration(durationToken)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"videoId":  detail.Id,
			"duration": durationToken,
		}).Warn("Failed to decode video duration")
	}
	if !utils.DurationAtLeast(durationSeconds, criteria.MinDurationSeconds) {
		return nil
	}

	var viewCount, likeCount, commentCount int64
	if detail.Statistics != nil {
		viewCount = int64(detail.Statistics.ViewCount)
		likeCount = int64(detail.Statistics.LikeCount)
		commentCount = int64(detail.Statistics.CommentCount)
	}
	if criteria.MinViews > 0 && viewCount < criteria.MinViews {
		return nil
	}

	var uploadDate *time.Time
	if detail.Snippet.PublishedAt != "" {
		if t, perr := time.Parse(time.RFC3339, detail.Snippet.PublishedAt); perr == nil {
			uploadDate = &t
		}
	}

	var thumbnailURL string
	if detail.Snippet.Thumbnails != nil && detail.Snippet.Thumbnails.Medium != nil {
		thumbnailURL = detail.Snippet.Thumbnails.Medium.Url
	}

	video := &model.Video{
		VideoID:           detail.Id,
		Title:             detail.Snippet.Title,
		ChannelName:       detail.Snippet.ChannelTitle,
		ChannelID:         detail.Snippet.ChannelId,
		SubscriberCount:   subscriberCount,
		ViewCount:         viewCount,
		LikeCount:         likeCount,
		CommentCount:      commentCount,
		DurationSeconds:   durationSeconds,
		DurationFormatted: durationFormatted,
		UploadDate:        uploadDate,
		ThumbnailURL:      thumbnailURL,
		VideoURL:          utils.BuildVideoURL(detail.Id),
		SearchKeyword:     criteria.Keyword,
	}

	if verr := utils.ValidateVideo(video); verr != nil {
		logger.GetLogger().WithField("error", verr).Warn("Dropping invalid video record")
		return nil
	}
	return video
}

// channelSubscribers fetches the subscriber count for one channel. A lookup
// failure excludes only that candidate.
func (c *Client) channelSubscribers(ctx context.Context, channelID string) (int64, bool) {
	channel, err := c.api.ChannelsList(ctx, channelID)
	c.quotaUsed.Add(channelCost)
	if err != nil || channel == nil || channel.Statistics == nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"channelId": channelID,
			"error":     err,
		}).Warn("Channel statistics lookup failed, skipping video")
		return 0, false
	}
	return int64(channel.Statistics.SubscriberCount), true
}

// ValidateCredential issues a minimal probe call. Authorization denials
// (invalid key or exhausted quota) are logged distinctly from transient
// transport errors.
func (c *Client) ValidateCredential(ctx context.Context) bool {
	_, err := c.api.SearchList(ctx, "test", time.Time{}, "", 1)
	if err == nil {
		logger.GetLogger().Info("API credential validated")
		return true
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == 403 {
		logger.GetLogger().WithField("error", err).Error("API credential rejected: invalid key or quota exhausted")
	} else {
		logger.GetLogger().WithField("error", err).Error("API credential validation failed")
	}
	return false
}

// QuotaSnapshot is a pure read of the estimated quota counters.
func (c *Client) QuotaSnapshot() model.QuotaUsage {
	used := c.quotaUsed.Load()
	remaining := c.quotaLimit - used
	if remaining < 0 {
		remaining = 0
	}
	percentage := float64(used) / float64(c.quotaLimit) * 100
	if percentage > 100 {
		percentage = 100
	}
	return model.QuotaUsage{
		Used:       used,
		Limit:      c.quotaLimit,
		Remaining:  remaining,
		Percentage: percentage,
	}
}

// ResetQuota clears the usage counter (daily reset hook).
func (c *Client) ResetQuota() {
	c.quotaUsed.Store(0)
	logger.GetLogger().Info("API quota usage reset")
}

func (c *Client) logAPIError(err error, msg string) {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == 403 {
		logger.GetLogger().WithField("error", err).Error(msg + " (quota or authorization denied)")
		return
	}
	logger.GetLogger().WithField("error", err).Error(msg)
}

// serviceAPI is the production api implementation over *yt.Service.
type serviceAPI struct {
	service *yt.Service
}

func (s *serviceAPI) SearchList(ctx context.Context, query string, publishedAfter time.Time, region string, maxResults int64) ([]*yt.SearchResult, error) {
	call := s.service.Search.List([]string{"snippet"}).
		Context(ctx).
		Q(query).
		Type("video").
		Order("viewCount").
		VideoDuration("long").
		MaxResults(maxResults)

	if !publishedAfter.IsZero() {
		call = call.PublishedAfter(publishedAfter.UTC().Format(time.RFC3339))
	}
	if region != "" {
		call = call.RegionCode(region)
	}

	response, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("search.list %q: %w", query, err)
	}
	return response.Items, nil
}

func (s *serviceAPI) VideosList(ctx context.Context, ids []string) ([]*yt.Video, error) {
	response, err := s.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Context(ctx).
		Id(strings.Join(ids, ",")).
		Do()
	if err != nil {
		return nil, fmt.Errorf("videos.list: %w", err)
	}
	return response.Items, nil
}

func (s *serviceAPI) ChannelsList(ctx context.Context, channelID string) (*yt.Channel, error) {
	response, err := s.service.Channels.List([]string{"statistics"}).
		Context(ctx).
		Id(channelID).
		Do()
	if err != nil {
		return nil, fmt.Errorf("channels.list %s: %w", channelID, err)
	}
	if len(response.Items) == 0 {
		return nil, fmt.Errorf("channel not found: %s", channelID)
	}
	return response.Items[0], nil
}
