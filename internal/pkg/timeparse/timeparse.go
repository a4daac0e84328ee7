// Package timeparse normalizes the heterogeneous timestamp encodings the
// upstream feeds publish into timezone-aware UTC instants. The entity resolver
// buckets pre-match candidates by exact equality of these instants, so every
// value is rounded to the second and no tolerance window is ever applied.
package timeparse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseable is returned when a timestamp string matches none of the known
// formats. Callers treat it as "skip this record", never as fatal.
var ErrUnparseable = errors.New("timeparse: unparseable timestamp")

// formats is tried in order. All naive formats are interpreted as UTC; local
// time is never guessed.
var formats = []string{
	"02 Jan 2006 15:04:05 MST", // "25 Dec 2024 15:30:00 GMT"
	"02 Jan 2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
}

// Normalize converts a time in any supported source encoding to a UTC instant
// rounded to the second. Aware inputs are converted, never reinterpreted;
// naive inputs are assumed UTC.
func Normalize(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return truncate(t), nil
	case int64:
		return time.Unix(t, 0).UTC(), nil
	case int:
		return time.Unix(int64(t), 0).UTC(), nil
	case float64:
		return time.Unix(int64(t), 0).UTC(), nil
	case string:
		return ParseString(t)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrUnparseable, v)
	}
}

// ParseString tries the fixed format list, then bare epoch seconds.
func ParseString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrUnparseable)
	}
	for _, layout := range formats {
		if t, err := time.Parse(layout, s); err == nil {
			return truncate(t), nil
		}
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
}

// FromUnix converts Unix seconds to a UTC instant.
func FromUnix(secs int64) time.Time {
	return time.Unix(secs, 0).UTC()
}

// FromUnixMillis converts Unix milliseconds to a UTC instant rounded to the
// second, matching the bovada-style feeds that publish startTime in ms.
func FromUnixMillis(ms int64) time.Time {
	return time.Unix(ms/1000, 0).UTC()
}

func truncate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
