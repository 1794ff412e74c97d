package query

import (
	"strings"
	"time"
)

// Window is a half-open interval [Start, End) covering exactly one
// calendar day in the local sense, expressed as UTC instants.
type Window struct {
	Start time.Time
	End   time.Time
}

// Fallback layouts tried for date tokens that are neither relative
// keywords nor plain YYYY-MM-DD.
var windowLayouts = []string{
	time.RFC3339,
	time.RFC1123,
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"01/02/2006",
}

// ResolveWindow parses a date token into a one-day window relative to now.
// Recognized: "today", "tomorrow", "yesterday" (case-insensitive),
// "YYYY-MM-DD", and a handful of common layouts as fallback. ok is false
// when the token is unparseable.
func ResolveWindow(token string, now time.Time) (Window, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Window{}, false
	}

	loc := now.Location()

	switch strings.ToLower(token) {
	case "today":
		return dayWindow(now, loc), true
	case "tomorrow":
		return dayWindow(now.AddDate(0, 0, 1), loc), true
	case "yesterday":
		return dayWindow(now.AddDate(0, 0, -1), loc), true
	}

	day, err := time.ParseInLocation("2006-01-02", token, loc)
	if err == nil {
		return dayWindow(day, loc), true
	}

	for _, layout := range windowLayouts {
		t, parseErr := time.ParseInLocation(layout, token, loc)
		if parseErr == nil {
			return dayWindow(t.In(loc), loc), true
		}
	}

	return Window{}, false
}

// dayWindow zeroes the time of t and spans one calendar day.
func dayWindow(t time.Time, loc *time.Location) Window {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)

	return Window{
		Start: start.UTC(),
		End:   start.AddDate(0, 0, 1).UTC(),
	}
}
