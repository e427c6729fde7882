package calendar

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aweist/schedule-importer/models"
)

const (
	// ICS timestamps are UTC in basic form (YYYYMMDDTHHMMSSZ)
	stampLayout = "20060102T150405Z"

	matchDuration   = 2 * time.Hour
	reminderTrigger = "-PT30M"

	maxLineOctets = 75
)

const DefaultProductID = "-//USTA Schedule Importer//EN"

type Options struct {
	// Location the raw date and time strings are read in. Defaults to time.Local.
	Location  *time.Location
	ProductID string
}

// GenerateICS builds an iCalendar document with one event per record.
// The output depends only on its arguments; generatedAt feeds the UIDs and
// DTSTAMP. Any record whose date and time cannot be combined aborts the
// whole document.
func GenerateICS(records []models.MatchRecord, generatedAt time.Time, opts Options) (string, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	productID := opts.ProductID
	if productID == "" {
		productID = DefaultProductID
	}

	dtStamp := generatedAt.UTC().Format(stampLayout)

	var ics strings.Builder
	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:"+productID)
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")

	for i, match := range records {
		n := i + 1

		startTime, err := CombineDateTime(match.Date, match.Time, loc)
		if err != nil {
			return "", fmt.Errorf("match %d (ID %s): %w", n, match.MatchID, err)
		}
		endTime := startTime.Add(matchDuration)

		writeLine(&ics, "BEGIN:VEVENT")
		writeLine(&ics, fmt.Sprintf("UID:match-%d-%s", n, dtStamp))
		writeLine(&ics, "DTSTAMP:"+dtStamp)
		writeLine(&ics, "DTSTART:"+startTime.UTC().Format(stampLayout))
		writeLine(&ics, "DTEND:"+endTime.UTC().Format(stampLayout))
		writeLine(&ics, "SUMMARY:"+escapeICS("Tennis Match vs "+match.Opponent()))
		writeLine(&ics, "DESCRIPTION:"+escapeICS(description(match)))
		writeLine(&ics, "LOCATION:"+escapeICS(match.Facility))
		writeLine(&ics, "STATUS:CONFIRMED")
		writeLine(&ics, "TRANSP:OPAQUE")

		writeLine(&ics, "BEGIN:VALARM")
		writeLine(&ics, "TRIGGER:"+reminderTrigger)
		writeLine(&ics, "ACTION:DISPLAY")
		writeLine(&ics, "DESCRIPTION:Tennis match reminder")
		writeLine(&ics, "END:VALARM")

		writeLine(&ics, "END:VEVENT")
	}

	writeLine(&ics, "END:VCALENDAR")
	return ics.String(), nil
}

func description(match models.MatchRecord) string {
	side := "Away"
	if match.IsHomeMatch {
		side = "Home"
	}
	return fmt.Sprintf("Match ID: %s\n%s Match\nOpponent: %s\nCaptain: %s",
		match.MatchID, side, match.Opponent(), match.OpposingCaptain())
}

// writeLine appends one content line, folded at 75 octets, ending in CRLF.
func writeLine(b *strings.Builder, line string) {
	first := true
	for len(line) > 0 {
		limit := maxLineOctets
		if !first {
			// continuation lines start with a space
			limit--
			b.WriteString(" ")
		}
		if len(line) <= limit {
			b.WriteString(line)
			break
		}

		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		if cut == 0 {
			cut = limit
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n")
		line = line[cut:]
		first = false
	}
	b.WriteString("\r\n")
}

// escapeICS escapes special characters for ICS TEXT values. Invalid UTF-8
// is replaced with U+FFFD.
func escapeICS(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	return s
}
