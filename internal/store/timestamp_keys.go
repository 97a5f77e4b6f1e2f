package store

import (
	"fmt"
	"strings"
	"time"
)

// formatSortableTimestamp renders a timestamp so lexicographic key order
// matches chronological order. Nanoseconds are zero-padded to a fixed
// width of 9 digits; the full stamp is always 30 characters.
func formatSortableTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05") + fmt.Sprintf(".%09d", t.Nanosecond()) + "Z"
}

// formatTimestampIndexKey creates a chronological index key.
// Format: {prefix}{scopeID}:{timestamp}:{recordID}.
// Example: idx:msgs:conv:usr_a_usr_b:2026-01-15T10:30:00.123456789Z:msg_abc.
func formatTimestampIndexKey(prefix, scopeID string, t time.Time, recordID string) []byte {
	return fmt.Appendf(nil, "%s%s:%s:%s", prefix, scopeID, formatSortableTimestamp(t), recordID)
}

// parseTimestampIndexKeyRaw extracts the record ID from a chronological
// index key once the full scope prefix (including trailing colon) is
// known. The timestamp is fixed width, so colons inside it never
// confuse the split.
func parseTimestampIndexKeyRaw(key, prefix string) (string, error) {
	if !strings.HasPrefix(key, prefix) {
		return "", fmt.Errorf("invalid timestamp key: missing prefix %s", prefix)
	}

	remainder := strings.TrimPrefix(key, prefix)

	const timestampLen = 30
	if len(remainder) < timestampLen+2 {
		return "", fmt.Errorf("invalid timestamp key format: %s", key)
	}

	return remainder[timestampLen+1:], nil
}
