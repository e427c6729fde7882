package parser

import (
	"regexp"
	"strings"
)

// The heuristics below recover column boundaries from wrapped table rows.
// They assume team names may end with a "3.5" style level token and that
// captain names are exactly two words.

var (
	datePattern  = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)
	timePattern  = regexp.MustCompile(`(?i)\d{1,2}:\d{2}\s*(?:AM|PM)`)
	levelPattern = regexp.MustCompile(`^\d\.\d$`)
)

const captainWords = 2

// extractDate returns the first M/D/YYYY token in s and s with that token removed.
func extractDate(s string) (date, rest string, ok bool) {
	date = datePattern.FindString(s)
	if date == "" {
		return "", s, false
	}
	return date, strings.Replace(s, date, "", 1), true
}

// extractTime returns the first H:MM AM/PM token in s and s with that token removed.
func extractTime(s string) (clock, rest string, ok bool) {
	clock = timePattern.FindString(s)
	if clock == "" {
		return "", s, false
	}
	return clock, strings.Replace(s, clock, "", 1), true
}

// words splits s on runs of whitespace.
func words(s string) []string {
	return strings.Fields(s)
}

func isLevel(word string) bool {
	return levelPattern.MatchString(word)
}

// levelIndices lists the positions of every level token in ws.
func levelIndices(ws []string) []int {
	var idx []int
	for i, w := range ws {
		if isLevel(w) {
			idx = append(idx, i)
		}
	}
	return idx
}

// splitAtLevel splits ws after the first level token. The token stays with
// the team part.
func splitAtLevel(ws []string) (team, rest []string, ok bool) {
	for i, w := range ws {
		if isLevel(w) {
			return ws[:i+1], ws[i+1:], true
		}
	}
	return nil, ws, false
}

// takeName consumes a captain name from the front of ws.
func takeName(ws []string) (name string, rest []string, ok bool) {
	if len(ws) < captainWords {
		return "", ws, false
	}
	return strings.Join(ws[:captainWords], " "), ws[captainWords:], true
}

func joinWords(parts ...string) string {
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
