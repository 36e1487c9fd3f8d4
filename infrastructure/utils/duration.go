package utils

import (
	"fmt"
	"regexp"
	"strconv"
)

// iso8601Duration matches the subset of ISO 8601 durations the platform
// emits for videos, e.g. "PT20M15S", "PT1H2M5S", "P1DT2H".
var iso8601Duration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseISODuration decodes a platform duration token into total seconds and
// the matching clock string. Malformed input yields (0, "0:00") and a
// non-nil error the caller is expected to log rather than propagate.
func ParseISODuration(token string) (int, string, error) {
	if token == "" || token == "P" || token == "PT" {
		return 0, "0:00", fmt.Errorf("empty duration token %q", token)
	}

	m := iso8601Duration.FindStringSubmatch(token)
	if m == nil {
		return 0, "0:00", fmt.Errorf("malformed duration token %q", token)
	}

	total := 0
	for i, mult := range []int{86400, 3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, "0:00", fmt.Errorf("malformed duration token %q: %w", token, err)
		}
		total += n * mult
	}

	return total, FormatSeconds(total), nil
}

// FormatSeconds renders seconds as a clock string: zero-padded M:SS under an
// hour, H:MM:SS otherwise. Negative input yields "0:00".
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		return "0:00"
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatCount renders large counts compactly for export, e.g. 1234 -> "1.2K".
func FormatCount(n int64) string {
	switch {
	case n < 0:
		return "0"
	case n < 1000:
		return strconv.FormatInt(n, 10)
	case n < 1000000:
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	default:
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}
