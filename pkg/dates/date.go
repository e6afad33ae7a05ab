package dates

import (
	"fmt"
	"time"
)

// Layout is the wire and storage format for calendar dates. Dates in this
// format compare correctly as plain strings, which is what the repositories
// rely on when filtering ranges in queries.
const Layout = "2006-01-02"

// Date is a calendar date with no time component, held as an ISO-8601
// YYYY-MM-DD string.
type Date string

// Parse validates s as a calendar date and returns it as a Date.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return "", fmt.Errorf("invalid calendar date %q: %w", s, err)
	}
	// Round-trip guards against inputs like 2024-6-01 that time.Parse
	// would otherwise normalize.
	if t.Format(Layout) != s {
		return "", fmt.Errorf("invalid calendar date %q: must be YYYY-MM-DD", s)
	}
	return Date(s), nil
}

// Today returns the current calendar date in UTC.
func Today() Date {
	return Date(time.Now().UTC().Format(Layout))
}

// IsValid reports whether d holds a well-formed YYYY-MM-DD value.
func (d Date) IsValid() bool {
	_, err := Parse(string(d))
	return err == nil
}

func (d Date) String() string {
	return string(d)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return string(d) < string(other)
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return string(d) > string(other)
}
