package parser

import (
	"strings"
)

// line is a trimmed, non-empty input line. Number is its 1-based position
// among the non-empty lines of the pasted text.
type line struct {
	Number int
	Text   string
}

// segment is the run of lines belonging to one match, starting at its ID line.
type segment []line

func (s segment) start() int {
	if len(s) == 0 {
		return 0
	}
	return s[0].Number
}

func (s segment) matchID() string {
	if len(s) == 0 {
		return ""
	}
	return s[0].Text
}

func splitLines(text string) []line {
	var lines []line
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		lines = append(lines, line{Number: len(lines) + 1, Text: raw})
	}
	return lines
}

// normalizeLines splits text into non-empty trimmed lines and drops a leading
// "Match ID" header row.
func normalizeLines(text string) []line {
	lines := splitLines(text)
	if len(lines) > 0 && strings.Contains(strings.ToLower(lines[0].Text), "match id") {
		lines = lines[1:]
	}
	return lines
}

func isMatchIDLine(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// segmentLines groups lines into per-match segments bounded by match-ID
// lines. Lines before the first ID line belong to no segment.
func segmentLines(lines []line) []segment {
	var starts []int
	for i, l := range lines {
		if isMatchIDLine(l.Text) {
			starts = append(starts, i)
		}
	}

	segments := make([]segment, 0, len(starts))
	for i, start := range starts {
		end := len(lines)
		if i < len(starts)-1 {
			end = starts[i+1]
		}
		segments = append(segments, segment(lines[start:end]))
	}
	return segments
}
