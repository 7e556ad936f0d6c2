package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const maxLimit = 500

// parseLimit reads ?limit=, falling back to def and capping at maxLimit.
func parseLimit(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	return min(limit, maxLimit), nil
}

// parseSince reads ?since= as a date or RFC3339 timestamp. Without it the
// window starts defaultDays ago.
func parseSince(r *http.Request, defaultDays int) (time.Time, error) {
	raw := r.URL.Query().Get("since")
	if raw == "" {
		return time.Now().AddDate(0, 0, -defaultDays), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid since %q: use YYYY-MM-DD or RFC3339", raw)
	}
	return t, nil
}
