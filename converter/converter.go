package converter

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/itbasis/go-clock"

	"github.com/aweist/schedule-importer/calendar"
	"github.com/aweist/schedule-importer/models"
	"github.com/aweist/schedule-importer/parser"
	"github.com/aweist/schedule-importer/validator"
)

var (
	ErrNoText          = errors.New("no schedule text provided")
	ErrInvalidSchedule = errors.New("schedule has validation errors")
)

// C is the conversion pipeline as seen by the CLI and the web server.
type C interface {
	Parse(text string) models.ParseOutcome
	Validate(records []models.MatchRecord) models.ValidationResult
	Calendar(records []models.MatchRecord) (string, error)
	Convert(text string) (*Result, error)
	Now() time.Time
}

// Result is one full run over a pasted schedule.
type Result struct {
	Outcome    models.ParseOutcome     `json:"outcome"`
	Validation models.ValidationResult `json:"validation"`
	Calendar   string                  `json:"-"`
}

type Converter struct {
	parser   *parser.TextParser
	clock    clock.Clock
	calendar calendar.Options
}

type Config struct {
	HomeTeam  parser.HomeMatcher
	Location  *time.Location
	ProductID string
	Clock     clock.Clock
}

func New(config Config) *Converter {
	clk := config.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Converter{
		parser: parser.NewTextParser(config.HomeTeam),
		clock:  clk,
		calendar: calendar.Options{
			Location:  config.Location,
			ProductID: config.ProductID,
		},
	}
}

func (c *Converter) Now() time.Time {
	return c.clock.Now()
}

// Parse extracts match records. Blank text short-circuits with a single
// "No schedule text provided" error.
func (c *Converter) Parse(text string) models.ParseOutcome {
	if strings.TrimSpace(text) == "" {
		return models.ParseOutcome{
			Records: []models.MatchRecord{},
			Errors:  []string{"No schedule text provided"},
		}
	}

	outcome := c.parser.ParseSchedule(text)
	log.Printf("Parsed %d matches with %d errors", len(outcome.Records), len(outcome.Errors))
	return outcome
}

func (c *Converter) Validate(records []models.MatchRecord) models.ValidationResult {
	result := validator.ValidateSchedule(records)
	if !result.IsValid {
		log.Printf("Validation found %d errors and %d warnings", len(result.Errors), len(result.Warnings))
	}
	return result
}

// Calendar serializes records with a generation timestamp read once from
// the clock.
func (c *Converter) Calendar(records []models.MatchRecord) (string, error) {
	ics, err := calendar.GenerateICS(records, c.clock.Now(), c.calendar)
	if err != nil {
		return "", fmt.Errorf("generating calendar: %w", err)
	}
	return ics, nil
}

// Convert runs the whole pipeline. The calendar is only generated when
// validation passes; otherwise ErrInvalidSchedule is returned alongside the
// partial result so callers can show what went wrong.
func (c *Converter) Convert(text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}

	result := &Result{}
	result.Outcome = c.Parse(text)
	result.Validation = c.Validate(result.Outcome.Records)

	if !result.Validation.IsValid {
		return result, ErrInvalidSchedule
	}

	ics, err := c.Calendar(result.Outcome.Records)
	if err != nil {
		log.Printf("Error generating calendar: %v", err)
		return result, err
	}
	result.Calendar = ics

	log.Printf("Generated calendar with %d matches", len(result.Outcome.Records))
	return result, nil
}
