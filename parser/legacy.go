package parser

import (
	"fmt"
	"strings"

	"github.com/aweist/schedule-importer/models"
)

// legacyMatch accumulates one "Date:/Time:/Opponent:/Location:" block.
type legacyMatch struct {
	started  bool
	date     string
	time     string
	opponent string
	location string
}

func (m *legacyMatch) missing() []string {
	var fields []string
	if m.date == "" {
		fields = append(fields, "date")
	}
	if m.time == "" {
		fields = append(fields, "time")
	}
	if m.opponent == "" {
		fields = append(fields, "opponent")
	}
	if m.location == "" {
		fields = append(fields, "location")
	}
	return fields
}

func (m *legacyMatch) record() models.MatchRecord {
	return models.MatchRecord{
		MatchID:         models.LegacyMatchID,
		Date:            m.date,
		Time:            m.time,
		HomeTeam:        "Your Team",
		HomeCaptain:     "You",
		VisitingTeam:    m.opponent,
		VisitingCaptain: "TBD",
		Facility:        m.location,
		IsHomeMatch:     true,
	}
}

// cutField reports whether s starts with the case-insensitive key and
// returns the trimmed remainder.
func cutField(s, key string) (string, bool) {
	if len(s) < len(key) || !strings.EqualFold(s[:len(key)], key) {
		return "", false
	}
	return strings.TrimSpace(s[len(key):]), true
}

// parseLegacy reads the older key-value schedule format. A "Date:" line
// starts a new match; the other keys fill in the current one.
func parseLegacy(lines []line) models.ParseOutcome {
	outcome := models.ParseOutcome{Records: []models.MatchRecord{}, Errors: []string{}}

	current := &legacyMatch{}
	lineNumber := 0

	flush := func() {
		if !current.started {
			return
		}
		if missing := current.missing(); len(missing) > 0 {
			outcome.Errors = append(outcome.Errors,
				fmt.Sprintf("Match at line %d: Missing required fields: %s", lineNumber, strings.Join(missing, ", ")))
		} else {
			outcome.Records = append(outcome.Records, current.record())
		}
		current = &legacyMatch{}
	}

	for _, l := range lines {
		lineNumber = l.Number

		if v, ok := cutField(l.Text, "date:"); ok {
			flush()
			current.started = true
			current.date = v
		} else if v, ok := cutField(l.Text, "time:"); ok {
			current.started = true
			current.time = v
		} else if v, ok := cutField(l.Text, "opponent:"); ok {
			current.started = true
			current.opponent = v
		} else if v, ok := cutField(l.Text, "location:"); ok {
			current.started = true
			current.location = v
		}
	}
	flush()

	return outcome
}
