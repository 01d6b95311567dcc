// Package workbook implements tabular.Store on an .xlsx workbook kept in a
// Blob (local file or S3 object). Every call loads the workbook afresh;
// writes are serialized and saved back whole.
package workbook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/blocksearch/internal/logging"
	"github.com/dmitrijs2005/blocksearch/internal/server/tabular"
	"github.com/xuri/excelize/v2"
)

type Store struct {
	blob   Blob
	mu     sync.Mutex
	logger logging.Logger
}

var _ tabular.Store = (*Store)(nil)

func New(blob Blob, l logging.Logger) *Store {
	return &Store{blob: blob, logger: l.With("module", "workbook")}
}

func (s *Store) open(ctx context.Context) (*excelize.File, error) {
	data, err := s.blob.Load(ctx)
	if errors.Is(err, ErrBlobNotFound) {
		return excelize.NewFile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("workbook load: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("workbook open: %w", err)
	}
	return f, nil
}

func (s *Store) save(ctx context.Context, f *excelize.File) error {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("workbook encode: %w", err)
	}
	if err := s.blob.Save(ctx, buf.Bytes()); err != nil {
		return fmt.Errorf("workbook save: %w", err)
	}
	return nil
}

func hasSheet(f *excelize.File, name string) bool {
	idx, err := f.GetSheetIndex(name)
	return err == nil && idx != -1
}

func (s *Store) ReadRange(ctx context.Context, r tabular.Range, render tabular.Render) ([]tabular.Row, error) {
	b, err := r.Bounds()
	if err != nil {
		return nil, err
	}

	f, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !hasSheet(f, r.Sheet) {
		return nil, fmt.Errorf("%w: %s", tabular.ErrSheetNotFound, r)
	}

	raw, err := f.GetRows(r.Sheet, excelize.Options{RawCellValue: render == tabular.Unformatted})
	if err != nil {
		return nil, fmt.Errorf("workbook read %s: %w", r, err)
	}

	var numeric func(col, row int) bool
	if render == tabular.Unformatted {
		numeric = numericCell(f, r.Sheet)
	}

	rows := window(raw, b, numeric)
	s.logger.Debug(ctx, "range read", "range", r.String(), "rows", len(rows))
	return rows, nil
}

// numericCell reports whether the cell at 1-based col, row holds a number.
// Numbers are stored without a type attribute or with "n"; text cells
// keep their string form even when it parses as a number.
func numericCell(f *excelize.File, sheet string) func(col, row int) bool {
	return func(col, row int) bool {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return false
		}
		t, err := f.GetCellType(sheet, cell)
		if err != nil {
			return false
		}
		return t == excelize.CellTypeUnset || t == excelize.CellTypeNumber
	}
}

// window cuts the bounds out of the sheet's rows and trims trailing empties.
// Cells for which numeric returns true come back as float64.
func window(raw [][]string, b tabular.Bounds, numeric func(col, row int) bool) []tabular.Row {
	last := len(raw)
	if b.LastRow != 0 && b.LastRow < last {
		last = b.LastRow
	}

	var rows []tabular.Row
	for i := b.FirstRow - 1; i < last; i++ {
		src := raw[i]
		end := min(b.LastCol, len(src))
		for end >= b.FirstCol && src[end-1] == "" {
			end--
		}

		var row tabular.Row
		for c := b.FirstCol - 1; c < end; c++ {
			row = append(row, cellValue(src[c], numeric != nil && numeric(c+1, i+1)))
		}
		rows = append(rows, row)
	}

	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func cellValue(v string, numeric bool) any {
	if numeric && v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return v
}

func (s *Store) AppendRow(ctx context.Context, r tabular.Range, values []any) error {
	b, err := r.Bounds()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer f.Close()

	if !hasSheet(f, r.Sheet) {
		return fmt.Errorf("%w: %s", tabular.ErrSheetNotFound, r)
	}

	raw, err := f.GetRows(r.Sheet)
	if err != nil {
		return fmt.Errorf("workbook read %s: %w", r, err)
	}

	next := max(lastDataRow(raw, b)+1, b.FirstRow)
	if err := setRow(f, r.Sheet, b.FirstCol, next, values); err != nil {
		return err
	}
	return s.save(ctx, f)
}

// lastDataRow is the 1-based index of the last row holding a value inside
// the column window, or 0.
func lastDataRow(raw [][]string, b tabular.Bounds) int {
	for i := len(raw) - 1; i >= 0; i-- {
		row := raw[i]
		for c := b.FirstCol - 1; c < min(b.LastCol, len(row)); c++ {
			if row[c] != "" {
				return i + 1
			}
		}
	}
	return 0
}

func setRow(f *excelize.File, sheet string, col, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("workbook write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func (s *Store) UpdateRange(ctx context.Context, r tabular.Range, values [][]any) error {
	b, err := r.Bounds()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer f.Close()

	if !hasSheet(f, r.Sheet) {
		return fmt.Errorf("%w: %s", tabular.ErrSheetNotFound, r)
	}

	for i, row := range values {
		if err := setRow(f, r.Sheet, b.FirstCol, b.FirstRow+i, row); err != nil {
			return err
		}
	}
	return s.save(ctx, f)
}

// EnsureSheet adds the sheet if missing. An xlsx sheet has no fixed grid,
// so rows and cols are accepted for interface parity only.
func (s *Store) EnsureSheet(ctx context.Context, name string, rows, cols int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open(ctx)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if hasSheet(f, name) {
		return false, nil
	}

	if _, err := f.NewSheet(name); err != nil {
		return false, fmt.Errorf("workbook add sheet %s: %w", name, err)
	}
	if err := s.save(ctx, f); err != nil {
		return false, err
	}

	s.logger.Info(ctx, "sheet created", "sheet", name, "rows", rows, "cols", cols)
	return true, nil
}
