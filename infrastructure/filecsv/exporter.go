package filecsv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"youtube-analytics/domain/model"
	"youtube-analytics/infrastructure/logger"
	"youtube-analytics/infrastructure/utils"
)

var unsafeFilenameRunes = regexp.MustCompile(`[^a-zA-Z0-9가-힣_-]+`)

// Exporter writes result sets to delimited files under a fixed directory.
type Exporter struct {
	dir            string
	filenameFormat string
}

// NewExporter creates the export directory if needed. filenameFormat takes
// the sanitized keyword and a timestamp, e.g. "youtube_search_%s_%s.csv".
func NewExporter(dir, filenameFormat string) (*Exporter, error) {
	if dir == "" {
		dir = "exports"
	}
	if filenameFormat == "" {
		filenameFormat = "youtube_search_%s_%s.csv"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory %s: %w", dir, err)
	}
	return &Exporter{dir: dir, filenameFormat: filenameFormat}, nil
}

// Export writes the videos to a CSV file and returns its path. An explicit
// filename overrides the configured template.
func (e *Exporter) Export(videos []model.Video, keyword, filename string) (string, error) {
	if len(videos) == 0 {
		return "", fmt.Errorf("no videos to export")
	}

	if filename == "" {
		safeKeyword := unsafeFilenameRunes.ReplaceAllString(keyword, "_")
		if safeKeyword == "" {
			safeKeyword = "search"
		}
		filename = fmt.Sprintf(e.filenameFormat, safeKeyword, time.Now().Format("20060102_150405"))
	}
	path := filepath.Join(e.dir, filename)

	file, err := os.Create(path)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while creating export file")
		return "", fmt.Errorf("create export file %s: %w", path, err)
	}
	defer file.Close()

	// UTF-8 BOM so spreadsheet tools detect the encoding.
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return "", fmt.Errorf("write BOM: %w", err)
	}

	w := csv.NewWriter(file)
	header := []string{
		"rank", "title", "channel", "subscribers", "views", "likes",
		"comments", "duration", "upload_date", "video_url", "keyword",
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for i, v := range videos {
		uploadDate := ""
		if v.UploadDate != nil {
			uploadDate = v.UploadDate.Format("2006-01-02")
		}
		record := []string{
			strconv.Itoa(i + 1),
			v.Title,
			v.ChannelName,
			utils.FormatCount(v.SubscriberCount),
			utils.FormatCount(v.ViewCount),
			utils.FormatCount(v.LikeCount),
			utils.FormatCount(v.CommentCount),
			v.DurationFormatted,
			uploadDate,
			v.VideoURL,
			v.SearchKeyword,
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush export file: %w", err)
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"path":  path,
		"count": len(videos),
	}).Info("CSV export completed")
	return path, nil
}
