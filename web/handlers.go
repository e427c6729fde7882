package web

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/unrolled/render"

	"github.com/aweist/schedule-importer/converter"
	"github.com/aweist/schedule-importer/exporter"
	"github.com/aweist/schedule-importer/models"
)

type validateResponse struct {
	Records    []models.MatchRecord    `json:"records"`
	Errors     []string                `json:"errors"`
	Validation models.ValidationResult `json:"validation"`
}

type errorResponse struct {
	Error      string                   `json:"error"`
	Records    []models.MatchRecord     `json:"records,omitempty"`
	Errors     []string                 `json:"errors,omitempty"`
	Validation *models.ValidationResult `json:"validation,omitempty"`
}

func healthHandler(render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Text(w, http.StatusOK, "ok")
	}
}

func parseHandler(ctrl converter.C, render *render.Render, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, ok := readText(w, r, render, maxBytes)
		if !ok {
			return
		}

		render.JSON(w, http.StatusOK, ctrl.Parse(text))
	}
}

func validateHandler(ctrl converter.C, render *render.Render, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, ok := readText(w, r, render, maxBytes)
		if !ok {
			return
		}

		outcome := ctrl.Parse(text)
		render.JSON(w, http.StatusOK, validateResponse{
			Records:    outcome.Records,
			Errors:     outcome.Errors,
			Validation: ctrl.Validate(outcome.Records),
		})
	}
}

func calendarHandler(ctrl converter.C, render *render.Render, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, ok := readText(w, r, render, maxBytes)
		if !ok {
			return
		}

		result, err := ctrl.Convert(text)
		if err != nil {
			if errors.Is(err, converter.ErrNoText) {
				render.JSON(w, http.StatusBadRequest, errorResponse{Error: "No schedule text provided"})
				return
			}

			resp := errorResponse{Error: err.Error()}
			if result != nil {
				resp.Records = result.Outcome.Records
				resp.Errors = result.Outcome.Errors
				resp.Validation = &result.Validation
			}
			render.JSON(w, http.StatusUnprocessableEntity, resp)
			return
		}

		filename := exporter.DefaultFilename(ctrl.Now())
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		render.Data(w, http.StatusOK, []byte(result.Calendar))
	}
}

// readText reads the whole request body as schedule text. On failure the
// response has already been written.
func readText(w http.ResponseWriter, r *http.Request, render *render.Render, maxBytes int64) (string, bool) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			render.JSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error: fmt.Sprintf("schedule text exceeds %d bytes", tooLarge.Limit),
			})
			return "", false
		}

		log.Printf("Error reading request body: %v", err)
		render.JSON(w, http.StatusBadRequest, errorResponse{Error: "could not read request body"})
		return "", false
	}

	return string(body), true
}
