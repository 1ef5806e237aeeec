// Package expiry parses the deadline given to "domains list --expiring".
package expiry

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Matches: "30d", "2w", "3mo", "1y", optionally prefixed with "in "
var relativeRegex = regexp.MustCompile(`^(?:in\s+)?(\d+)\s*(y|mo|w|d)$`)

// ParseDeadline turns a human-friendly expression into an absolute deadline.
// Supports relative spans ("30d", "in 2w", "3mo", "1y"), "today", "tomorrow",
// "end of month", YYYY-MM-DD dates and RFC3339 timestamps. Date-only forms
// resolve to the end of that day.
func ParseDeadline(s string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty expiry expression")
	}

	input := strings.ToLower(raw)

	switch input {
	case "today":
		return endOfDay(now), nil
	case "tomorrow":
		return endOfDay(now.AddDate(0, 0, 1)), nil
	case "end of month", "eom":
		firstOfNext := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
		return endOfDay(firstOfNext.AddDate(0, 0, -1)), nil
	}

	if matches := relativeRegex.FindStringSubmatch(input); len(matches) == 3 {
		value, err := strconv.Atoi(matches[1])
		if err != nil || value < 1 {
			return time.Time{}, fmt.Errorf("invalid expiry span %q", raw)
		}
		return applySpan(now, value, matches[2]), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", raw, now.Location()); err == nil {
		return endOfDay(t), nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("invalid expiry expression %q (use e.g. 30d, 3mo, 2027-01-31)", raw)
}

// Before reports whether expiresAt is set and falls on or before deadline.
// Domains without an expiry (hosted only) never match.
func Before(expiresAt *time.Time, deadline time.Time) bool {
	return expiresAt != nil && !expiresAt.IsZero() && !expiresAt.After(deadline)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

func applySpan(now time.Time, value int, unit string) time.Time {
	switch unit {
	case "y":
		return now.AddDate(value, 0, 0)
	case "mo":
		return now.AddDate(0, value, 0)
	case "w":
		return now.AddDate(0, 0, 7*value)
	default:
		return now.AddDate(0, 0, value)
	}
}
