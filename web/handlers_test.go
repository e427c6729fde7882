package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/stretchr/testify/mock"

	"github.com/aweist/schedule-importer/converter"
	"github.com/aweist/schedule-importer/converter/mockconverter"
	"github.com/aweist/schedule-importer/models"
	"github.com/aweist/schedule-importer/parser"
)

const schedule = `Match ID  Date  Time  Home Team  Captain  Visiting Team  Captain  Facility
1011235997
6/14/2025 8:30 AM Chestnut Oaks Mercurio 3.5 Robert Mercurio Woodlake McCoy 3.5 Dave McCoy Chestnut Oaks Recreation Association`

var testOpts = Options{Port: "0", CORSOrigins: []string{"https://importer.example.com"}, MaxBytes: 1 << 16}

func homeMatch() models.MatchRecord {
	return models.MatchRecord{
		MatchID:         "1011235997",
		Date:            "6/14/2025",
		Time:            "8:30 AM",
		HomeTeam:        "Chestnut Oaks Mercurio 3.5",
		HomeCaptain:     "Robert Mercurio",
		VisitingTeam:    "Woodlake McCoy 3.5",
		VisitingCaptain: "Dave McCoy",
		Facility:        "Chestnut Oaks Recreation Association",
		IsHomeMatch:     true,
	}
}

func serve(ctrl converter.C, method, path, body string) *httptest.ResponseRecorder {
	router := getRouter(ctrl, newRender(), testOpts)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	ctrl := &mockconverter.C{}

	w := serve(ctrl, http.MethodGet, "/healthz", "")

	if w.Code != http.StatusOK {
		t.Errorf("unexpected status code. Got: %d", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Errorf("unexpected body: %q", w.Body.String())
	}
}

func TestParseHandler(t *testing.T) {
	ctrl := &mockconverter.C{}
	ctrl.On("Parse", schedule).Return(models.ParseOutcome{
		Records: []models.MatchRecord{homeMatch()},
		Errors:  []string{},
	})

	w := serve(ctrl, http.MethodPost, "/api/parse", schedule)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status code. Got: %d, body: %s", w.Code, w.Body.String())
	}

	var got struct {
		Records []map[string]any `json:"records"`
		Errors  []string         `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(got.Records) != 1 || got.Records[0]["opponent"] != "Woodlake McCoy 3.5" {
		t.Errorf("unexpected records: %v", got.Records)
	}
	if got.Errors == nil || len(got.Errors) != 0 {
		t.Errorf("errors should be an empty list, got %v", got.Errors)
	}
	ctrl.AssertExpectations(t)
}

func TestValidateHandler(t *testing.T) {
	records := []models.MatchRecord{homeMatch()}

	ctrl := &mockconverter.C{}
	ctrl.On("Parse", schedule).Return(models.ParseOutcome{Records: records, Errors: []string{}})
	ctrl.On("Validate", records).Return(models.ValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{"Match 1: Facility is marked as TBD"},
	})

	w := serve(ctrl, http.MethodPost, "/api/validate", schedule)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status code. Got: %d", w.Code)
	}

	var got validateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if !got.Validation.IsValid || len(got.Validation.Warnings) != 1 {
		t.Errorf("unexpected validation: %+v", got.Validation)
	}
	if len(got.Records) != 1 {
		t.Errorf("expected 1 record, got %d", len(got.Records))
	}
	ctrl.AssertExpectations(t)
}

func TestCalendarHandler_success(t *testing.T) {
	ctrl := &mockconverter.C{}
	ctrl.On("Convert", schedule).Return(&converter.Result{Calendar: "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"}, nil)
	ctrl.On("Now").Return(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	w := serve(ctrl, http.MethodPost, "/api/calendar", schedule)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status code. Got: %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("unexpected content type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="usta-schedule-2025-06-01.ics"` {
		t.Errorf("unexpected content disposition: %s", cd)
	}
	if w.Body.String() != "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n" {
		t.Errorf("unexpected body: %q", w.Body.String())
	}
	ctrl.AssertExpectations(t)
}

func TestCalendarHandler_invalidSchedule(t *testing.T) {
	result := &converter.Result{
		Outcome: models.ParseOutcome{
			Records: []models.MatchRecord{},
			Errors:  []string{"Match 1011235997 at line 2: Not enough lines (found 1, expected at least 2)"},
		},
		Validation: models.ValidationResult{
			IsValid:  false,
			Errors:   []string{"No matches found to validate"},
			Warnings: []string{},
		},
	}

	ctrl := &mockconverter.C{}
	ctrl.On("Convert", mock.Anything).Return(result, converter.ErrInvalidSchedule)

	w := serve(ctrl, http.MethodPost, "/api/calendar", "1011235997")

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status code. Got: %d", w.Code)
	}

	var got errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if got.Validation == nil || got.Validation.Errors[0] != "No matches found to validate" {
		t.Errorf("unexpected validation: %+v", got.Validation)
	}
	if len(got.Errors) != 1 {
		t.Errorf("expected the parse error to be returned, got %v", got.Errors)
	}
	ctrl.AssertNotCalled(t, "Now")
}

func TestCalendarHandler_noText(t *testing.T) {
	ctrl := &mockconverter.C{}
	ctrl.On("Convert", "").Return(nil, converter.ErrNoText)

	w := serve(ctrl, http.MethodPost, "/api/calendar", "")

	if w.Code != http.StatusBadRequest {
		t.Errorf("unexpected status code. Got: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No schedule text provided") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestParseHandler_bodyTooLarge(t *testing.T) {
	ctrl := &mockconverter.C{}

	w := serve(ctrl, http.MethodPost, "/api/parse", strings.Repeat("x", int(testOpts.MaxBytes)+1))

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("unexpected status code. Got: %d", w.Code)
	}
	ctrl.AssertNotCalled(t, "Parse", mock.Anything)
}

func TestRouter_methodNotAllowed(t *testing.T) {
	w := serve(&mockconverter.C{}, http.MethodGet, "/api/calendar", "")

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("unexpected status code. Got: %d", w.Code)
	}
}

func TestRouter_corsPreflight(t *testing.T) {
	router := getRouter(&mockconverter.C{}, newRender(), testOpts)

	req := httptest.NewRequest(http.MethodOptions, "/api/calendar", nil)
	req.Header.Set("Origin", "https://importer.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://importer.example.com" {
		t.Errorf("unexpected allowed origin: %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/calendar", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unknown origin should not be allowed, got %q", got)
	}
}

func TestCalendarHandler_realConverter(t *testing.T) {
	mockClock := clock.NewMock()
	mockClock.Set(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	ctrl := converter.New(converter.Config{
		HomeTeam: parser.TeamIdentifiers{"chestnut oaks", "mercurio"},
		Location: time.UTC,
		Clock:    mockClock,
	})

	w := serve(ctrl, http.MethodPost, "/api/calendar", schedule)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status code. Got: %d, body: %s", w.Code, w.Body.String())
	}

	body := w.Body.String()
	for _, want := range []string{
		"SUMMARY:Tennis Match vs Woodlake McCoy 3.5\r\n",
		"DTSTART:20250614T083000Z\r\n",
		"DTEND:20250614T103000Z\r\n",
		"UID:match-1-20250601T120000Z\r\n",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("calendar missing %q:\n%s", want, body)
		}
	}
}
