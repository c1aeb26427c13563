package validate

import (
	"net/url"
	"strconv"
	"time"

	"github.com/homigo-app/homigo-backend/internal/apperr"
)

const dateLayout = "2006-01-02"

// ParseDate accepts a calendar date, either bare ("2006-01-02") or as an
// RFC 3339 timestamp, and normalizes it to midnight UTC.
func ParseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, apperr.Validation(field + " is required")
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		y, m, d := t.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, apperr.Validation("Invalid " + field + " format, expected YYYY-MM-DD")
}

// PageQuery reads page/limit query params, falling back to page 1, limit 10
// on anything missing or malformed.
func PageQuery(q url.Values) (page, limit int) {
	page, limit = 1, 10
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return page, limit
}

// ID parses a numeric path parameter.
func ID(field, value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return 0, apperr.Validation("Invalid " + field)
	}
	return n, nil
}

// Float reads an optional float query param, returning nil when absent.
func Float(q url.Values, key string) *float64 {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
