package models

import (
	"encoding/json"
)

// LegacyMatchID marks records produced from the key-value "Date:/Time:" format.
const LegacyMatchID = "legacy"

// MatchRecord is one scheduled match as recovered from pasted text. Date and
// Time keep their raw textual form; the calendar package canonicalizes them.
type MatchRecord struct {
	MatchID         string `json:"matchId"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	HomeTeam        string `json:"homeTeam"`
	HomeCaptain     string `json:"homeCaptain"`
	VisitingTeam    string `json:"visitingTeam"`
	VisitingCaptain string `json:"visitingCaptain"`
	Facility        string `json:"facility"`
	IsHomeMatch     bool   `json:"isHomeMatch"`
}

// Opponent is the other side's team name relative to IsHomeMatch.
func (m MatchRecord) Opponent() string {
	if m.IsHomeMatch {
		return m.VisitingTeam
	}
	return m.HomeTeam
}

// OpposingCaptain is the captain of the Opponent team.
func (m MatchRecord) OpposingCaptain() string {
	if m.IsHomeMatch {
		return m.VisitingCaptain
	}
	return m.HomeCaptain
}

func (m MatchRecord) MarshalJSON() ([]byte, error) {
	type record MatchRecord
	return json.Marshal(struct {
		record
		Opponent string `json:"opponent"`
	}{
		record:   record(m),
		Opponent: m.Opponent(),
	})
}

type ParseOutcome struct {
	Records []MatchRecord `json:"records"`
	Errors  []string      `json:"errors"`
}

type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
