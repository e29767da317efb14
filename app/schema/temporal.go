package schema

import (
	"strconv"
	"strings"
	"time"
)

// ParseInstantMillis tries the engine's common temporal wire shapes and
// returns epoch milliseconds. Timezone-less formats are interpreted as
// UTC, matching how the analytic engine renders TIMESTAMP values.
func ParseInstantMillis(s string) (int64, bool) {
	ss := strings.TrimSpace(s)
	if ss == "" {
		return 0, false
	}

	// Integer epochs first: avoids a pile of failed time.Parse attempts
	// for the numeric timestamps common in exported data.
	if n, err := strconv.ParseInt(ss, 10, 64); err == nil {
		if n > 1_000_000_000_000 {
			// Epoch milliseconds (13+ digits)
			return n, true
		}
		// Epoch seconds
		return n * 1000, true
	}

	// Explicit timezone formats
	if t, err := time.Parse(time.RFC3339Nano, ss); err == nil {
		return t.UnixMilli(), true
	}
	if t, err := time.Parse("2006-01-02 15:04:05Z07:00", ss); err == nil {
		return t.UnixMilli(), true
	}
	if t, err := time.Parse("2006-01-02 15:04:05.999999999Z07:00", ss); err == nil {
		return t.UnixMilli(), true
	}

	// Timezone-less formats, fractional seconds tolerated
	if t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", ss, time.UTC); err == nil {
		return t.UnixMilli(), true
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05.999999999", ss, time.UTC); err == nil {
		return t.UnixMilli(), true
	}

	// Date only
	if t, err := time.ParseInLocation("2006-01-02", ss, time.UTC); err == nil {
		return t.UnixMilli(), true
	}

	return 0, false
}
