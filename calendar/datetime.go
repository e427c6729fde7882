package calendar

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDateTime = errors.New("could not parse date and time")

var (
	weekdayPrefix = regexp.MustCompile(`(?i)^(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tues|tue|wed|thurs|thur|thu|fri|sat|sun)\.?(?:,\s*|\s+)`)
	clockPattern  = regexp.MustCompile(`(?i)^(\d{1,2})[:.](\d{1,2})\s*(AM|PM)$`)
)

var dateLayouts = []string{
	"1/2/2006",
	"1/2/06",
	"2006-01-02",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// StripWeekday removes a leading weekday name such as "Saturday," from a date.
func StripWeekday(date string) string {
	return strings.TrimSpace(weekdayPrefix.ReplaceAllString(strings.TrimSpace(date), ""))
}

// ParseDate parses a calendar date in one of the accepted layouts. The
// result is midnight in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	clean := StripWeekday(date)
	if clean == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, clean, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", date)
}

// ParseClock parses "8:30 PM", "8.30pm" and similar 12-hour times into a
// 24-hour hour and minute.
func ParseClock(clock string) (hour, minute int, err error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(clock))
	if m == nil {
		return 0, 0, fmt.Errorf("invalid time format: %s", clock)
	}

	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time format: %s", clock)
	}

	isPM := strings.EqualFold(m[3], "PM")
	if isPM && hour != 12 {
		hour += 12
	} else if !isPM && hour == 12 {
		hour = 0
	}
	return hour, minute, nil
}

// CombineDateTime turns a raw date and time into an instant in loc. The
// joined text is tried first; failing that the date is parsed alone and the
// separately parsed clock is applied to it.
func CombineDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	cleanDate := StripWeekday(date)
	cleanClock := strings.TrimSpace(clock)
	joined := cleanDate + " " + cleanClock

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout+" 3:04 PM", joined, loc); err == nil {
			return t, nil
		}
	}

	day, err := ParseDate(cleanDate, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %s", ErrInvalidDateTime, date, clock)
	}
	hour, minute, err := ParseClock(cleanClock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %s", ErrInvalidDateTime, date, clock)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc), nil
}
