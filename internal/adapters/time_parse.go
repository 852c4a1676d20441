package adapters

import (
	"strings"
	"time"
)

// parseTimeFlexible parses the timestamp formats seen in checker and
// PyPI responses. Returns the zero time when nothing matches.
func parseTimeFlexible(value string) time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

// parseTimePointer is parseTimeFlexible returning nil for missing or
// unparseable values, for nullable release timestamps.
func parseTimePointer(value string) *time.Time {
	parsed := parseTimeFlexible(value)
	if parsed.IsZero() {
		return nil
	}
	return &parsed
}
