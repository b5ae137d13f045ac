// Package export renders tabular report results to CSV and PDF files.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// Format is an export file format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts "csv" or "pdf" in any case, with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Engine dispatches exports to the format writers.
type Engine struct {
	logger zerolog.Logger
	now    func() time.Time
}

// NewEngine creates a new export Engine
func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{logger: logger, now: time.Now}
}

// Export writes result to path in format. title is only used by PDF.
func (e *Engine) Export(ctx context.Context, format Format, result *models.TabularResult, path, title string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewExportError(string(format), path, err)
	}

	var err error
	switch format {
	case FormatCSV:
		err = ToCSV(result, path)
	case FormatPDF:
		err = writePDF(result, path, title, e.now())
	default:
		err = apperrors.NewExportError(string(format), path, fmt.Errorf("unsupported export format %q", format))
	}
	if err != nil {
		e.logger.Error().Err(err).Str("format", string(format)).Str("path", path).Msg("Export failed")
		return err
	}
	e.logger.Debug().Str("format", string(format)).Str("path", path).Int("rows", len(result.Rows)).Msg("Export written")
	return nil
}

func checkResult(format Format, result *models.TabularResult, path string) error {
	if result == nil || len(result.Headers) == 0 {
		return apperrors.NewExportError(string(format), path, fmt.Errorf("result has no columns"))
	}
	for i, row := range result.Rows {
		if len(row) != len(result.Headers) {
			return apperrors.NewExportError(string(format), path,
				fmt.Errorf("row %d has %d values, want %d", i+1, len(row), len(result.Headers)))
		}
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
