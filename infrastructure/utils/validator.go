package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"youtube-analytics/domain/model"
)

var (
	keywordPattern   = regexp.MustCompile(`^[a-zA-Z0-9가-힣\s\-_\+\&\(\)]+$`)
	videoIDPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	channelIDPattern = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)
	apiKeyPattern    = regexp.MustCompile(`^[A-Za-z0-9_-]{35,45}$`)
	disallowedRunes  = regexp.MustCompile(`[^\w\s가-힣\-\+\&\(\)]`)
	multiSpace       = regexp.MustCompile(`\s+`)
)

// IsValidKeyword reports whether s is a usable search keyword: non-empty,
// at most 100 characters, letters/digits/whitespace and a small
// punctuation allow-list.
func IsValidKeyword(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len([]rune(s)) > 100 {
		return false
	}
	return keywordPattern.MatchString(s)
}

// SanitizeKeyword strips disallowed runes and collapses whitespace.
func SanitizeKeyword(s string) string {
	s = disallowedRunes.ReplaceAllString(s, " ")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// IsValidVideoID reports whether s is an 11-character platform video ID.
func IsValidVideoID(s string) bool {
	return videoIDPattern.MatchString(s)
}

// IsValidChannelID reports whether s is a UC-prefixed 24-character channel ID.
func IsValidChannelID(s string) bool {
	return channelIDPattern.MatchString(s)
}

// IsValidAPIKey checks the credential's shape before it is saved or probed.
func IsValidAPIKey(s string) bool {
	return apiKeyPattern.MatchString(strings.TrimSpace(s))
}

// SubscriberWithin reports 0 <= count <= max.
func SubscriberWithin(count, max int64) bool {
	return count >= 0 && count <= max
}

// DurationAtLeast reports seconds >= min.
func DurationAtLeast(seconds, min int) bool {
	return seconds >= min
}

// UploadedWithin reports whether t falls inside the trailing daysBack
// window. An absent timestamp never passes.
func UploadedWithin(t *time.Time, daysBack int) bool {
	if t == nil {
		return false
	}
	cutoff := time.Now().AddDate(0, 0, -daysBack)
	return !t.Before(cutoff)
}

// ValidateVideo checks that all required fields of a merged record are
// present and well-formed. The error names the first offending field.
func ValidateVideo(v *model.Video) error {
	if v == nil {
		return fmt.Errorf("nil video record")
	}
	if v.Title == "" {
		return fmt.Errorf("video %s: empty title", v.VideoID)
	}
	if v.ChannelName == "" {
		return fmt.Errorf("video %s: empty channel name", v.VideoID)
	}
	if !IsValidVideoID(v.VideoID) {
		return fmt.Errorf("invalid video id %q", v.VideoID)
	}
	if !IsValidChannelID(v.ChannelID) {
		return fmt.Errorf("video %s: invalid channel id %q", v.VideoID, v.ChannelID)
	}
	return nil
}

// IsValidVideoRecord is the predicate form of ValidateVideo.
func IsValidVideoRecord(v *model.Video) bool {
	return ValidateVideo(v) == nil
}

// BuildVideoURL returns the canonical watch URL for a video ID.
func BuildVideoURL(videoID string) string {
	if videoID == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + videoID
}

// BuildChannelURL returns the canonical channel URL for a channel ID.
func BuildChannelURL(channelID string) string {
	if channelID == "" {
		return ""
	}
	return "https://www.youtube.com/channel/" + channelID
}

var videoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{11})`),
}

// ExtractVideoID pulls the 11-character ID out of a watch/short/embed URL,
// returning "" when none is found.
func ExtractVideoID(url string) string {
	for _, p := range videoURLPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}
