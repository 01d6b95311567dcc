// Package layouts maps spreadsheet columns to named fields. Each dataset
// has a fixed table of (column index, field, default) checked at startup
// against the width of its range.
package layouts

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blocksearch/internal/server/tabular"
)

// NoColumn marks an optional key column the dataset does not have.
const NoColumn = -1

// Column binds a 0-based index inside the range window to a field name.
type Column struct {
	Index   int
	Field   string
	Default string
}

type Layout struct {
	Name    string
	Range   tabular.Range
	Render  tabular.Render
	Columns []Column

	BlockColumn     int
	PartColumn      int
	ThicknessColumn int
}

// Validate reports every problem with the table, not just the first.
func (l Layout) Validate() error {
	b, err := l.Range.Bounds()
	if err != nil {
		return fmt.Errorf("layout %s: %w", l.Name, err)
	}
	width := b.Width()

	var errs []error
	seen := make(map[string]struct{}, len(l.Columns))
	for _, c := range l.Columns {
		if c.Field == "" {
			errs = append(errs, fmt.Errorf("layout %s: column %d has no field name", l.Name, c.Index))
		}
		if _, dup := seen[c.Field]; dup {
			errs = append(errs, fmt.Errorf("layout %s: duplicate field %q", l.Name, c.Field))
		}
		seen[c.Field] = struct{}{}
		if c.Index < 0 || c.Index >= width {
			errs = append(errs, fmt.Errorf("layout %s: field %q index %d outside %s (width %d)", l.Name, c.Field, c.Index, l.Range, width))
		}
	}

	if l.BlockColumn < 0 || l.BlockColumn >= width {
		errs = append(errs, fmt.Errorf("layout %s: block column %d outside %s", l.Name, l.BlockColumn, l.Range))
	}
	for name, idx := range map[string]int{"part": l.PartColumn, "thickness": l.ThicknessColumn} {
		if idx != NoColumn && (idx < 0 || idx >= width) {
			errs = append(errs, fmt.Errorf("layout %s: %s column %d outside %s", l.Name, name, idx, l.Range))
		}
	}

	return errors.Join(errs...)
}

// Key returns the cell at idx, or "" for NoColumn and missing cells.
func (l Layout) Key(row tabular.Row, idx int) string {
	if idx == NoColumn {
		return ""
	}
	return row.Cell(idx)
}

// Extract maps a row to field values. Short rows and empty cells take the
// column default.
func (l Layout) Extract(row tabular.Row) map[string]string {
	out := make(map[string]string, len(l.Columns))
	for _, c := range l.Columns {
		v := row.Cell(c.Index)
		if v == "" {
			v = c.Default
		}
		out[c.Field] = v
	}
	return out
}

// Fields lists the field names in column order.
func (l Layout) Fields() []string {
	out := make([]string, len(l.Columns))
	for i, c := range l.Columns {
		out[i] = c.Field
	}
	return out
}

func columns(fields ...string) []Column {
	out := make([]Column, len(fields))
	for i, f := range fields {
		out[i] = Column{Index: i, Field: f}
	}
	return out
}

var Search = Layout{
	Name:   "search",
	Range:  tabular.MustParseRange("Data2!A2:L"),
	Render: tabular.Formatted,
	Columns: columns(
		"blockNo", "partNo", "thickness", "nos", "lCm", "hCm",
		"wCm", "status", "date", "mc", "color1", "color2",
	),
	BlockColumn:     0,
	PartColumn:      1,
	ThicknessColumn: 2,
}

// DisReport reads O:R from row 1; o_column and p_column repeat the block
// and thickness cells for display.
var DisReport = Layout{
	Name:   "dis-report",
	Range:  tabular.MustParseRange("Data2!O:R"),
	Render: tabular.Unformatted,
	Columns: []Column{
		{Index: 0, Field: "blockNo"},
		{Index: 1, Field: "thickness"},
		{Index: 0, Field: "o_column"},
		{Index: 1, Field: "p_column"},
		{Index: 2, Field: "q_column"},
		{Index: 3, Field: "r_column"},
	},
	BlockColumn:     0,
	PartColumn:      NoColumn,
	ThicknessColumn: 1,
}

var DisRpt = Layout{
	Name:            "dis-rpt",
	Range:           tabular.MustParseRange("Data3!A2:E"),
	Render:          tabular.Formatted,
	Columns:         columns("blockNo", "partNo", "thickness", "nos", "m2"),
	BlockColumn:     0,
	PartColumn:      1,
	ThicknessColumn: 2,
}
