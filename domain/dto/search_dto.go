package dto

import "github.com/spf13/cast"

// Sort keys accepted by SearchCriteria.SortBy.
const (
	SortByViewCount  = "view_count"
	SortByUploadDate = "upload_date"
	SortByLikeCount  = "like_count"
)

// SearchCriteria carries every knob of one search. Treated as immutable
// once constructed; round-trips losslessly through ToMap/FromMap.
type SearchCriteria struct {
	Keyword            string `json:"keyword"`
	MaxSubscribers     int64  `json:"max_subscribers"`
	MinDurationSeconds int    `json:"min_duration_seconds"`
	DaysBack           int    `json:"days_back"`
	MinViews           int64  `json:"min_views"`
	MaxResults         int    `json:"max_results"`
	SortBy             string `json:"sort_by"`
	SortDesc           bool   `json:"sort_desc"`
}

// DefaultSearchCriteria mirrors the shipped configuration defaults.
func DefaultSearchCriteria(keyword string) SearchCriteria {
	return SearchCriteria{
		Keyword:            keyword,
		MaxSubscribers:     10000,
		MinDurationSeconds: 1200,
		DaysBack:           30,
		MinViews:           0,
		MaxResults:         20,
		SortBy:             SortByViewCount,
		SortDesc:           true,
	}
}

// ToMap converts the criteria to a plain key-value map.
func (c SearchCriteria) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"keyword":              c.Keyword,
		"max_subscribers":      c.MaxSubscribers,
		"min_duration_seconds": c.MinDurationSeconds,
		"days_back":            c.DaysBack,
		"min_views":            c.MinViews,
		"max_results":          c.MaxResults,
		"sort_by":              c.SortBy,
		"sort_desc":            c.SortDesc,
	}
}

// SearchCriteriaFromMap rebuilds criteria from a plain map. Numeric values
// arriving as float64 (JSON) or string are coerced.
func SearchCriteriaFromMap(data map[string]interface{}) SearchCriteria {
	return SearchCriteria{
		Keyword:            cast.ToString(data["keyword"]),
		MaxSubscribers:     cast.ToInt64(data["max_subscribers"]),
		MinDurationSeconds: cast.ToInt(data["min_duration_seconds"]),
		DaysBack:           cast.ToInt(data["days_back"]),
		MinViews:           cast.ToInt64(data["min_views"]),
		MaxResults:         cast.ToInt(data["max_results"]),
		SortBy:             cast.ToString(data["sort_by"]),
		SortDesc:           cast.ToBool(data["sort_desc"]),
	}
}

// SearchStartRequest is the HTTP payload that kicks off a search.
// Zero-valued fields fall back to the configured defaults.
type SearchStartRequest struct {
	Keyword            string `json:"keyword" binding:"required"`
	MaxSubscribers     int64  `json:"max_subscribers,omitempty"`
	MinDurationSeconds int    `json:"min_duration_seconds,omitempty"`
	DaysBack           int    `json:"days_back,omitempty"`
	MinViews           int64  `json:"min_views,omitempty"`
	MaxResults         int    `json:"max_results,omitempty"`
}

// SearchStatusResponse reports the state of the background search task.
type SearchStatusResponse struct {
	State    string `json:"state"`
	Progress int    `json:"progress"`
	Keyword  string `json:"keyword,omitempty"`
	Message  string `json:"message,omitempty"`
}

// CredentialRequest carries the provider API key.
type CredentialRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

// ExportRequest asks for a CSV export of stored results.
type ExportRequest struct {
	Keyword  string `json:"keyword" binding:"required"`
	Limit    int    `json:"limit,omitempty"`
	Filename string `json:"filename,omitempty"`
}
