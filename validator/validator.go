package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aweist/schedule-importer/calendar"
	"github.com/aweist/schedule-importer/models"
)

var timePattern = regexp.MustCompile(`(?i)^(1[0-2]|0?[1-9])[:.]([0-5]?[0-9])\s*(AM|PM)$`)

// ValidateSchedule checks every record independently. Errors block calendar
// generation; warnings never affect IsValid.
func ValidateSchedule(matches []models.MatchRecord) models.ValidationResult {
	result := models.ValidationResult{Errors: []string{}, Warnings: []string{}}

	if len(matches) == 0 {
		result.Errors = append(result.Errors, "No matches found to validate")
		return result
	}

	seen := make(map[string]int)

	for i, match := range matches {
		matchNumber := i + 1

		if !isValidDate(match.Date) {
			result.Errors = append(result.Errors, fmt.Sprintf("Match %d: Invalid date format - %s", matchNumber, match.Date))
		}

		if !isValidTime(match.Time) {
			result.Errors = append(result.Errors, fmt.Sprintf("Match %d: Invalid time format - %s", matchNumber, match.Time))
		}

		if strings.TrimSpace(match.Opponent()) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Match %d: Opponent cannot be empty", matchNumber))
		}

		if strings.TrimSpace(match.Facility) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Match %d: Facility cannot be empty", matchNumber))
		}

		facility := strings.ToLower(match.Facility)
		if strings.Contains(facility, "tbd") || strings.Contains(facility, "to be determined") {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Match %d: Facility is marked as TBD", matchNumber))
		}

		id := strings.TrimSpace(match.MatchID)
		switch {
		case id == "":
			result.Warnings = append(result.Warnings, fmt.Sprintf("Match %d: Match ID is missing", matchNumber))
		case id == models.LegacyMatchID:
		default:
			if first, ok := seen[id]; ok {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("Match %d: Duplicate match ID %s (same as match %d)", matchNumber, id, first))
			} else {
				seen[id] = matchNumber
			}
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

func isValidDate(date string) bool {
	if strings.TrimSpace(date) == "" {
		return false
	}
	_, err := calendar.ParseDate(date, time.UTC)
	return err == nil
}

func isValidTime(clock string) bool {
	return timePattern.MatchString(strings.TrimSpace(clock))
}
