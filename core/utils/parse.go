package utils

import (
	"time"
)

// Year bounds accepted for upstream date fields. Anything outside is treated
// as garbage and coerced to absent.
const (
	YearMin = 1880
	YearMax = 2100
)

// dateTimeLayouts are the fallback layouts tried when a timestamp is not
// RFC 3339. The upstream feed usually sends RFC 3339 with a trailing Z, but
// naive timestamps have been observed.
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// dateLayouts are the layouts tried for date-only fields, most specific first.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDateTime parses an upstream timestamp. Zoned timestamps are converted
// to UTC. Parse failures coerce to nil, never an error: a malformed timestamp
// must not abort record processing.
func ParseDateTime(s string) *time.Time {
	if s == "" {
		return nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		u := t.UTC()
		return &u
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			u := t.UTC()
			return &u
		}
	}

	return nil
}

// ParseDate parses an upstream date field. A bare four-digit year is accepted
// as January 1st of that year. Years outside [YearMin, YearMax] and anything
// unparseable coerce to nil.
func ParseDate(s string) *time.Time {
	if s == "" {
		return nil
	}

	if len(s) == 4 && isDigits(s) {
		year := 0
		for _, r := range s {
			year = year*10 + int(r-'0')
		}
		if !ValidYear(year) {
			return nil
		}
		d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return &d
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if !ValidYear(t.Year()) {
				return nil
			}
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}

	return nil
}

// ValidYear reports whether year is inside the accepted bounds.
func ValidYear(year int) bool {
	return year >= YearMin && year <= YearMax
}

// ValidRating reports whether a rating is inside the 0..10 scale.
func ValidRating(rating float64) bool {
	return rating >= 0.0 && rating <= 10.0
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
