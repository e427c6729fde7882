package parser

import (
	"fmt"
	"strings"

	"github.com/aweist/schedule-importer/models"
)

// parseError is a user-facing diagnostic tied to the match that produced it.
type parseError struct {
	matchID string
	line    int
	msg     string
}

func (e *parseError) Error() string {
	if e.matchID == "" {
		return fmt.Sprintf("Match starting at line %d: %s", e.line, e.msg)
	}
	return fmt.Sprintf("Match %s at line %d: %s", e.matchID, e.line, e.msg)
}

// chunk is one segment classified by shape. Each variant carries only the
// lines it reads.
type chunk interface {
	parse(home HomeMatcher) (models.MatchRecord, error)
}

// header holds what every variant extracts from the first data line.
type header struct {
	matchID string
	start   int
	date    string
	time    string
	raw     string
	words   []string
}

func (h header) errorf(format string, args ...any) error {
	return &parseError{matchID: h.matchID, line: h.start, msg: fmt.Sprintf(format, args...)}
}

func (h header) record(homeTeam, homeCaptain, visitingTeam, visitingCaptain string, facility []string, home HomeMatcher) models.MatchRecord {
	return models.MatchRecord{
		MatchID:         h.matchID,
		Date:            h.date,
		Time:            h.time,
		HomeTeam:        homeTeam,
		HomeCaptain:     homeCaptain,
		VisitingTeam:    visitingTeam,
		VisitingCaptain: visitingCaptain,
		Facility:        strings.Join(facility, " "),
		IsHomeMatch:     home.IsHomeTeam(homeTeam),
	}
}

// twoLine: [id, date time home-team captain visiting-team captain facility]
type twoLine struct {
	header
}

// threeLine is pattern A: the first data line reaches into the visiting team.
type threeLine struct {
	header
	line3 string
}

// threeLineFallback is pattern B: the first data line only holds the start
// of the home team.
type threeLineFallback struct {
	header
	line3 string
}

// fourLine: both team names wrap.
type fourLine struct {
	header
	line3 string
	line4 string
}

// patternAMinWords is the residual word count on the first data line at or
// above which a 3-line chunk is read as pattern A.
const patternAMinWords = 4

func classify(seg segment) (chunk, error) {
	if len(seg) < 2 {
		return nil, &parseError{line: seg.start(), msg: fmt.Sprintf("Not enough lines (found %d, expected at least 2)", len(seg))}
	}
	if len(seg) > 4 {
		return nil, &parseError{matchID: seg.matchID(), line: seg.start(), msg: fmt.Sprintf("Unexpected format with %d lines", len(seg))}
	}

	h, err := readHeader(seg)
	if err != nil {
		return nil, err
	}

	switch len(seg) {
	case 2:
		return twoLine{header: h}, nil
	case 3:
		if len(h.words) >= patternAMinWords {
			return threeLine{header: h, line3: seg[2].Text}, nil
		}
		return threeLineFallback{header: h, line3: seg[2].Text}, nil
	default:
		return fourLine{header: h, line3: seg[2].Text, line4: seg[3].Text}, nil
	}
}

func readHeader(seg segment) (header, error) {
	h := header{
		matchID: seg.matchID(),
		start:   seg.start(),
		raw:     seg[1].Text,
	}

	date, rest, okDate := extractDate(h.raw)
	clock, rest, okTime := extractTime(rest)
	if !okDate || !okTime {
		return h, h.errorf("Could not extract date and time from line: %q", h.raw)
	}

	h.date = date
	h.time = clock
	h.words = words(rest)
	return h, nil
}

func (c twoLine) parse(home HomeMatcher) (models.MatchRecord, error) {
	ws := c.words
	levels := levelIndices(ws)
	if len(levels) < 2 {
		return models.MatchRecord{}, c.errorf("Could not parse 2-line format - unable to identify team boundaries")
	}
	first, second := levels[0], levels[1]

	homeCaptain, _, ok := takeName(ws[first+1 : second])
	if !ok {
		return models.MatchRecord{}, c.errorf("Could not parse 2-line format - unable to identify team boundaries")
	}
	visitingTeam := strings.Join(ws[first+1+captainWords:second+1], " ")

	visitingCaptain, facility, ok := takeName(ws[second+1:])
	if !ok {
		return models.MatchRecord{}, c.errorf("Could not parse 2-line format - missing visiting captain")
	}

	homeTeam := strings.Join(ws[:first+1], " ")
	return c.record(homeTeam, homeCaptain, visitingTeam, visitingCaptain, facility, home), nil
}

func (c threeLine) parse(home HomeMatcher) (models.MatchRecord, error) {
	// A level that belongs to the visiting fragment leaves no home captain,
	// which is reported as an error rather than re-split.
	team, rest, ok := splitAtLevel(c.words)
	if !ok {
		// Without a level token assume a two-word team name.
		team, rest = c.words[:2], c.words[2:]
	}

	homeCaptain, visitingPart1, ok := takeName(rest)
	if !ok {
		return models.MatchRecord{}, c.failed()
	}

	line3 := words(c.line3)
	if len(line3) < 1+captainWords {
		return models.MatchRecord{}, c.failed()
	}
	visitingCaptain, facility, _ := takeName(line3[1:])

	homeTeam := strings.Join(team, " ")
	visitingTeam := joinWords(strings.Join(visitingPart1, " "), line3[0])
	return c.record(homeTeam, homeCaptain, visitingTeam, visitingCaptain, facility, home), nil
}

func (c threeLine) failed() error {
	return c.errorf("Could not parse 3-line format. Line 2: %q, Line 3: %q", c.raw, c.line3)
}

func (c threeLineFallback) parse(home HomeMatcher) (models.MatchRecord, error) {
	line3 := words(c.line3)
	// home fragment, home captain, two-word visiting team, visiting captain
	if len(line3) < 1+captainWords+2+captainWords {
		return models.MatchRecord{}, c.errorf("Could not parse 3-line format. Line 2: %q, Line 3: %q", c.raw, c.line3)
	}

	homeTeam := joinWords(strings.Join(c.words, " "), line3[0])
	homeCaptain, rest, _ := takeName(line3[1:])
	visitingTeam := strings.Join(rest[:2], " ")
	visitingCaptain, facility, _ := takeName(rest[2:])

	return c.record(homeTeam, homeCaptain, visitingTeam, visitingCaptain, facility, home), nil
}

func (c fourLine) parse(home HomeMatcher) (models.MatchRecord, error) {
	line3 := words(c.line3)

	homePart2, rest, ok := splitAtLevel(line3)
	if !ok {
		if len(line3) < 1+captainWords {
			return models.MatchRecord{}, c.errorf("Line 3 format error. Expected at least 3 words. Got: %q", c.line3)
		}
		homePart2, rest = line3[:1], line3[1:]
	}

	homeCaptain, visitingPart1, ok := takeName(rest)
	if !ok {
		return models.MatchRecord{}, c.errorf("Line 3 format error. Missing home captain after team level. Got: %q", c.line3)
	}

	line4 := words(c.line4)
	if len(line4) < 1+captainWords+1 {
		return models.MatchRecord{}, c.errorf("Line 4 format error. Expected at least 4 words. Got: %q", c.line4)
	}
	visitingCaptain, facility, _ := takeName(line4[1:])

	homeTeam := joinWords(strings.Join(c.words, " "), strings.Join(homePart2, " "))
	visitingTeam := joinWords(strings.Join(visitingPart1, " "), line4[0])
	return c.record(homeTeam, homeCaptain, visitingTeam, visitingCaptain, facility, home), nil
}
