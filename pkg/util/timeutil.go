package util

import "time"

// NowUTC returns the current time in UTC, truncated to microseconds so
// values round-trip unchanged through timestamp columns.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
