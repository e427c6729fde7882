package parser

import (
	"strings"

	"github.com/aweist/schedule-importer/models"
)

// HomeMatcher decides whether a team name belongs to the viewing side.
type HomeMatcher interface {
	IsHomeTeam(team string) bool
}

// TeamIdentifiers matches a team whose name contains every identifier,
// case-insensitively. An empty set matches nothing.
type TeamIdentifiers []string

func (ids TeamIdentifiers) IsHomeTeam(team string) bool {
	if len(ids) == 0 {
		return false
	}
	teamLower := strings.ToLower(team)
	for _, id := range ids {
		if !strings.Contains(teamLower, strings.ToLower(strings.TrimSpace(id))) {
			return false
		}
	}
	return true
}

type TextParser struct {
	home HomeMatcher
}

func NewTextParser(home HomeMatcher) *TextParser {
	if home == nil {
		home = TeamIdentifiers(nil)
	}
	return &TextParser{home: home}
}

// ParseSchedule extracts match records from pasted schedule text. The
// tabular format is tried first; the legacy key-value format is only used
// when the tabular pass finds neither records nor errors.
func (p *TextParser) ParseSchedule(text string) models.ParseOutcome {
	outcome := p.parseTabular(text)
	if len(outcome.Records) > 0 || len(outcome.Errors) > 0 {
		return outcome
	}
	return parseLegacy(splitLines(text))
}

func (p *TextParser) parseTabular(text string) models.ParseOutcome {
	outcome := models.ParseOutcome{Records: []models.MatchRecord{}, Errors: []string{}}

	for _, seg := range segmentLines(normalizeLines(text)) {
		c, err := classify(seg)
		if err != nil {
			outcome.Errors = append(outcome.Errors, err.Error())
			continue
		}

		record, err := c.parse(p.home)
		if err != nil {
			outcome.Errors = append(outcome.Errors, err.Error())
			continue
		}
		outcome.Records = append(outcome.Records, record)
	}

	return outcome
}
