package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSearchCriteria(t *testing.T) {
	c := DefaultSearchCriteria("golang tutorial")
	assert.Equal(t, "golang tutorial", c.Keyword)
	assert.Equal(t, int64(10000), c.MaxSubscribers)
	assert.Equal(t, 1200, c.MinDurationSeconds)
	assert.Equal(t, 30, c.DaysBack)
	assert.Equal(t, 20, c.MaxResults)
	assert.Equal(t, SortByViewCount, c.SortBy)
	assert.True(t, c.SortDesc)
}

func TestSearchCriteria_MapRoundTrip(t *testing.T) {
	original := SearchCriteria{
		Keyword:            "요리 레시피",
		MaxSubscribers:     5000,
		MinDurationSeconds: 600,
		DaysBack:           7,
		MinViews:           1000,
		MaxResults:         50,
		SortBy:             SortByUploadDate,
		SortDesc:           false,
	}

	restored := SearchCriteriaFromMap(original.ToMap())
	assert.Equal(t, original, restored)
}

func TestSearchCriteriaFromMap_CoercesJSONNumbers(t *testing.T) {
	// JSON decoding hands numbers over as float64 and sometimes strings.
	restored := SearchCriteriaFromMap(map[string]interface{}{
		"keyword":              "golang tutorial",
		"max_subscribers":      float64(10000),
		"min_duration_seconds": "1200",
		"days_back":            float64(30),
		"min_views":            "0",
		"max_results":          float64(20),
		"sort_by":              "view_count",
		"sort_desc":            "true",
	})

	assert.Equal(t, DefaultSearchCriteria("golang tutorial"), restored)
}

func TestSearchCriteriaFromMap_MissingKeys(t *testing.T) {
	restored := SearchCriteriaFromMap(map[string]interface{}{"keyword": "golang tutorial"})
	assert.Equal(t, "golang tutorial", restored.Keyword)
	assert.Zero(t, restored.MaxSubscribers)
	assert.Zero(t, restored.MaxResults)
}
