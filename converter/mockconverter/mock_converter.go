package mockconverter

import (
	"time"

	"github.com/aweist/schedule-importer/converter"
	"github.com/aweist/schedule-importer/models"
	"github.com/stretchr/testify/mock"
)

type C struct {
	mock.Mock
}

func (c *C) Parse(text string) models.ParseOutcome {
	args := c.Called(text)
	return args.Get(0).(models.ParseOutcome)
}

func (c *C) Validate(records []models.MatchRecord) models.ValidationResult {
	args := c.Called(records)
	return args.Get(0).(models.ValidationResult)
}

func (c *C) Calendar(records []models.MatchRecord) (string, error) {
	args := c.Called(records)
	return args.String(0), args.Error(1)
}

func (c *C) Convert(text string) (*converter.Result, error) {
	args := c.Called(text)

	var res *converter.Result
	if args.Get(0) != nil {
		res = args.Get(0).(*converter.Result)
	}

	return res, args.Error(1)
}

func (c *C) Now() time.Time {
	args := c.Called()
	return args.Get(0).(time.Time)
}
