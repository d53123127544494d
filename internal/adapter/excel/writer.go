// Package excel renders statistics into an xlsx workbook.
package excel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/heartmarshall/painstats-backend/internal/domain"
)

const (
	phoneHeader = "Phone Number"

	fileMode os.FileMode = 0o644
)

// Writer writes statistics to a fixed file path. The file is replaced on
// every call; concurrent calls are serialized.
type Writer struct {
	path  string
	sheet string
	log   *slog.Logger

	mu sync.Mutex
}

// NewWriter creates a Writer for the given file path and sheet name.
func NewWriter(path, sheet string, logger *slog.Logger) *Writer {
	return &Writer{
		path:  path,
		sheet: sheet,
		log:   logger.With("adapter", "excel"),
	}
}

// Path returns the file the writer replaces.
func (w *Writer) Path() string { return w.path }

// Write renders s and returns the path of the written file.
func (w *Writer) Write(ctx context.Context, s *domain.Statistics) (string, error) {
	if s == nil {
		return "", errors.New("excel: nil statistics")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), w.sheet); err != nil {
		return "", fmt.Errorf("excel: rename sheet: %w", err)
	}

	if err := w.fill(f, s); err != nil {
		return "", err
	}

	if err := w.save(f); err != nil {
		return "", err
	}

	w.log.DebugContext(ctx, "workbook written",
		slog.String("path", w.path),
		slog.Int("months", len(s.Months)),
		slog.Int("rows", s.RowCount()),
	)

	return w.path, nil
}

func (w *Writer) fill(f *excelize.File, s *domain.Statistics) error {
	header, err := f.NewStyle(headerStyle())
	if err != nil {
		return fmt.Errorf("excel: header style: %w", err)
	}

	if err := w.setRow(f, 1, []any{phoneHeader}); err != nil {
		return err
	}
	if err := w.setRow(f, 2, []any{s.PhoneNumber}); err != nil {
		return err
	}

	row := 3
	for _, m := range s.Months {
		if len(m.Rows) > 0 {
			first, err := domain.ParseDisplayTime(m.Rows[0].CreatedAt)
			if err != nil {
				return fmt.Errorf("excel: month %s: %w", m.Label, err)
			}
			if err := w.setRow(f, row, []any{monthHeading(first)}); err != nil {
				return err
			}
			row++
		}

		columns := make([]any, len(domain.StatColumns))
		for i, c := range domain.StatColumns {
			columns[i] = c
		}
		if err := w.setRow(f, row, columns); err != nil {
			return err
		}
		if err := w.styleRow(f, row, len(columns), header); err != nil {
			return err
		}
		row++

		for _, r := range m.Rows {
			values, err := cells(r)
			if err != nil {
				return fmt.Errorf("excel: record %s: %w", r.Number, err)
			}
			if err := w.setRow(f, row, values); err != nil {
				return err
			}
			row++
		}

		// blank separator
		row++
	}

	return nil
}

func (w *Writer) setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("excel: row %d: %w", row, err)
	}
	if err := f.SetSheetRow(w.sheet, cell, &values); err != nil {
		return fmt.Errorf("excel: write row %d: %w", row, err)
	}
	return nil
}

func (w *Writer) styleRow(f *excelize.File, row, width, style int) error {
	from, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("excel: row %d: %w", row, err)
	}
	to, err := excelize.CoordinatesToCellName(width, row)
	if err != nil {
		return fmt.Errorf("excel: row %d: %w", row, err)
	}
	if err := f.SetCellStyle(w.sheet, from, to, style); err != nil {
		return fmt.Errorf("excel: style row %d: %w", row, err)
	}
	return nil
}

// save writes the workbook next to the target and renames it into place, so
// readers never see a partially written file.
func (w *Writer) save(f *excelize.File) error {
	dir := filepath.Dir(w.path)

	tmp, err := os.CreateTemp(dir, ".export-*.xlsx")
	if err != nil {
		return fmt.Errorf("excel: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("excel: write workbook: %w", err)
	}
	// CreateTemp opens the file owner-only; the export is read by other processes.
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("excel: chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("excel: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		return fmt.Errorf("excel: replace %s: %w", w.path, err)
	}
	return nil
}

// cells converts a row into cell values in column order. Timestamps lose
// their display suffix; absent values become empty cells.
func cells(r domain.StatRow) ([]any, error) {
	created, err := plainTime(r.CreatedAt)
	if err != nil {
		return nil, err
	}
	updated, err := plainTime(r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	values := []any{
		r.Number,
		created,
		updated,
		r.HeadacheToday,
		r.MedicamentToday,
		nil,
		optional(r.PainArea),
		optional(r.AreaDetail),
		optional(r.PainType),
		optional(r.Comments),
	}
	if r.PainIntensity != nil {
		values[5] = *r.PainIntensity
	}
	return values, nil
}

func plainTime(s string) (string, error) {
	t, err := domain.ParseDisplayTime(s)
	if err != nil {
		return "", err
	}
	return t.Format(domain.DisplayTimeLayout), nil
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func headerStyle() *excelize.Style {
	border := func(side string) excelize.Border {
		return excelize.Border{Type: side, Color: "000000", Style: 1}
	}
	return &excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F7DC6F"}, Pattern: 1},
		Border: []excelize.Border{
			border("left"), border("top"), border("right"), border("bottom"),
		},
	}
}
