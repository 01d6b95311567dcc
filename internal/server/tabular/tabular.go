// Package tabular is the adapter between the services and the spreadsheet
// used as a data store. A Store reads and writes rectangular ranges of
// cells addressed in A1 notation; backends live in the sub-packages.
package tabular

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// ErrSheetNotFound is returned when a range names a sheet that does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// Render selects how cell values come back from a read.
type Render int

const (
	// Formatted returns the display strings, as a user sees them.
	Formatted Render = iota
	// Unformatted returns raw values: numbers stay numbers.
	Unformatted
)

func (r Render) String() string {
	if r == Unformatted {
		return "unformatted"
	}
	return "formatted"
}

// Row is one fetched row. A cell is a string, a number or nil; cells past
// len(row) are missing.
type Row []any

// Cell returns the string form of cell i. Missing and nil cells are "".
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return CellString(r[i])
}

// CellString renders a cell value the way the spreadsheet displays it.
// Integral numbers print without a decimal point.
func CellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprint(t)
	}
}

// Store is a remote tabular data source. No implementation caches: every
// call is a round trip to the backing service or blob.
type Store interface {
	// ReadRange returns the rows of r in order. Trailing empty rows and
	// trailing empty cells are not returned.
	ReadRange(ctx context.Context, r Range, render Render) ([]Row, error)

	// AppendRow writes values on the first row after the data in r.
	AppendRow(ctx context.Context, r Range, values []any) error

	// UpdateRange overwrites cells starting at the top-left corner of r.
	UpdateRange(ctx context.Context, r Range, values [][]any) error

	// EnsureSheet creates the sheet with the given grid size unless it
	// already exists. created reports whether a sheet was added.
	EnsureSheet(ctx context.Context, name string, rows, cols int) (created bool, err error)
}
