package utils

import (
	"testing"
	"time"
)

// TestFormatFileSize verifies human-readable size formatting.
func TestFormatFileSize(testingInstance *testing.T) {
	testCases := []struct {
		bytes    int64
		expected string
	}{
		{bytes: -1, expected: "0b"},
		{bytes: 0, expected: "0b"},
		{bytes: 123, expected: "123b"},
		{bytes: 1024, expected: "1kb"},
		{bytes: 1536, expected: "1.5kb"},
		{bytes: 10 * 1024, expected: "10kb"},
		{bytes: 2 * 1024 * 1024, expected: "2mb"},
	}
	for _, testCase := range testCases {
		if actual := FormatFileSize(testCase.bytes); actual != testCase.expected {
			testingInstance.Errorf("FormatFileSize(%d) = %q, want %q", testCase.bytes, actual, testCase.expected)
		}
	}
}

// TestFormatGeneratedAt verifies dump header timestamps are rendered in UTC.
func TestFormatGeneratedAt(testingInstance *testing.T) {
	value := time.Date(2024, time.March, 5, 17, 30, 9, 0, time.FixedZone("CET", 3600))
	expected := "2024-03-05T16:30:09Z"
	if actual := FormatGeneratedAt(value); actual != expected {
		testingInstance.Errorf("FormatGeneratedAt = %q, want %q", actual, expected)
	}
}

// TestFormatTimestampZero verifies the zero time renders as an empty string.
func TestFormatTimestampZero(testingInstance *testing.T) {
	if actual := FormatTimestamp(time.Time{}); actual != "" {
		testingInstance.Errorf("expected empty string for zero time, got %q", actual)
	}
}
