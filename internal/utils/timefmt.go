package utils

import (
	"time"
)

const (
	timestampLayout   = "2006-01-02 15:04"
	fileStampLayout   = "20060102-1504"
	generatedAtLayout = "2006-01-02T15:04:05Z"
)

// FormatTimestamp returns the provided time formatted using the local time zone
// and a layout that includes date and minutes (locale-sensitive via system TZ).
func FormatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.In(time.Local).Format(timestampLayout)
}

// FormatFileStamp returns a compact timestamp suitable for file names.
func FormatFileStamp(value time.Time) string {
	return value.In(time.Local).Format(fileStampLayout)
}

// FormatGeneratedAt returns the UTC timestamp recorded in dump headers.
func FormatGeneratedAt(value time.Time) string {
	return value.UTC().Format(generatedAtLayout)
}
