package movies

import (
	"strings"
	"time"
)

const (
	sourceDateLayout  = "2006-01-02"
	displayDateLayout = "01/02/2006"
)

// FormatReleaseDate converts a source date (YYYY-MM-DD) to display format (MM/DD/YYYY).
// An empty date stays empty.
func FormatReleaseDate(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	t, err := time.Parse(sourceDateLayout, raw)
	if err != nil {
		return "", err
	}
	return t.Format(displayDateLayout), nil
}

// PosterURL joins an image base URL and a raw poster path with exactly one slash.
// An empty path stays empty.
func PosterURL(base, path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
