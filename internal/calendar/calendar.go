// Package calendar resolves the civil-date keys that scope daily draws.
package calendar

import (
	"fmt"
	"regexp"
	"time"
)

// DayKeyLayout is the civil date format used as the temporal half of every
// draw key.
const DayKeyLayout = "2006-01-02"

// dayKeyRegex matches a well-formed YYYY-MM-DD day key.
var dayKeyRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Window holds the three day keys relevant to "now" in a given timezone.
type Window struct {
	Yesterday string `json:"yesterday"`
	Today     string `json:"today"`
	Tomorrow  string `json:"tomorrow"`
}

// Resolve computes the calendar window for the given IANA timezone and
// instant. Day arithmetic uses AddDate on the civil date, not a fixed 24h
// offset, so keys stay correct across DST transitions and month/year
// boundaries.
func Resolve(tz string, now time.Time) (Window, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Window{}, fmt.Errorf("unknown timezone %q: %w", tz, err)
	}

	local := now.In(loc)
	// Anchor on the civil date at noon so AddDate cannot be skewed by a DST
	// transition shifting midnight.
	civil := time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, loc)

	return Window{
		Yesterday: civil.AddDate(0, 0, -1).Format(DayKeyLayout),
		Today:     civil.Format(DayKeyLayout),
		Tomorrow:  civil.AddDate(0, 0, 1).Format(DayKeyLayout),
	}, nil
}

// DayKey returns the civil date key for the given instant in the given
// timezone.
func DayKey(tz string, now time.Time) (string, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", fmt.Errorf("unknown timezone %q: %w", tz, err)
	}
	return now.In(loc).Format(DayKeyLayout), nil
}

// ValidDayKey reports whether s is a well-formed, parseable YYYY-MM-DD key.
func ValidDayKey(s string) bool {
	if !dayKeyRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse(DayKeyLayout, s)
	return err == nil
}
