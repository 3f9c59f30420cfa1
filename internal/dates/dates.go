// Package dates provides the canonical date handling for tracker fields.
//
// Entity `created`/`updated` fields carry YYYY-MM-DD dates; the index and
// check reports carry RFC3339 timestamps. Both shapes are accepted on read.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the on-disk format of entity date fields.
const DateLayout = "2006-01-02"

// Today formats now as an entity date.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// Parse reads a tracker date. It accepts YYYY-MM-DD and RFC3339.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("invalid date: empty")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", s)
}

// DaysSince returns the whole days elapsed between then and now.
func DaysSince(now, then time.Time) int {
	return int(now.Sub(then).Hours() / 24)
}
