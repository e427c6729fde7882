package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

const filenamePrefix = "usta-schedule"

// DefaultFilename names an export after the day it was generated.
func DefaultFilename(now time.Time) string {
	return fmt.Sprintf("%s-%s.ics", filenamePrefix, now.Format("2006-01-02"))
}

type FileExporter struct {
	path string
}

func NewFileExporter(path string) *FileExporter {
	return &FileExporter{path: path}
}

func (e *FileExporter) GetType() string {
	return "file"
}

func (e *FileExporter) Path() string {
	return e.path
}

// Export writes the document to a temporary file next to the target and
// renames it into place, so a failed export never leaves a truncated file.
func (e *FileExporter) Export(ics string) error {
	dir := filepath.Dir(e.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".schedule-*.ics")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.WriteString(tmp, ics); err != nil {
		tmp.Close()
		return fmt.Errorf("writing calendar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing calendar file: %w", err)
	}

	if err := os.Rename(tmp.Name(), e.path); err != nil {
		return fmt.Errorf("moving calendar into place: %w", err)
	}
	return nil
}

type WriterExporter struct {
	w io.Writer
}

func NewWriterExporter(w io.Writer) *WriterExporter {
	return &WriterExporter{w: w}
}

func (e *WriterExporter) GetType() string {
	return "writer"
}

func (e *WriterExporter) Export(ics string) error {
	if _, err := io.WriteString(e.w, ics); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}
