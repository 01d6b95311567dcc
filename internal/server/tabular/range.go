package tabular

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Range is a sheet name plus an A1 address such as "A2:L" or "O:R".
type Range struct {
	Sheet   string
	Address string
}

func (r Range) String() string {
	if r.Address == "" {
		return r.Sheet
	}
	return r.Sheet + "!" + r.Address
}

// ParseRange splits "Sheet!A2:L" into a Range and checks the address.
func ParseRange(s string) (Range, error) {
	sheet, addr, ok := strings.Cut(s, "!")
	if !ok || sheet == "" || addr == "" {
		return Range{}, fmt.Errorf("invalid range %q", s)
	}
	r := Range{Sheet: sheet, Address: addr}
	if _, err := r.Bounds(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// MustParseRange is ParseRange for package-level literals.
func MustParseRange(s string) Range {
	r, err := ParseRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Bounds is the resolved window of a Range. Columns and rows are 1-based
// and inclusive; LastRow is 0 when the window is open at the bottom.
type Bounds struct {
	FirstCol int
	LastCol  int
	FirstRow int
	LastRow  int
}

// Width is the number of columns in the window.
func (b Bounds) Width() int {
	return b.LastCol - b.FirstCol + 1
}

// Bounds resolves the address. "O:R" covers whole columns from row 1;
// "A2:L" starts at row 2 and runs to the end of the sheet.
func (r Range) Bounds() (Bounds, error) {
	from, to, ok := strings.Cut(r.Address, ":")
	if !ok {
		to = from
	}

	c1, r1, err := splitRef(from)
	if err != nil {
		return Bounds{}, fmt.Errorf("range %s: %w", r, err)
	}
	c2, r2, err := splitRef(to)
	if err != nil {
		return Bounds{}, fmt.Errorf("range %s: %w", r, err)
	}

	b := Bounds{FirstCol: c1, LastCol: c2, FirstRow: r1, LastRow: r2}
	if b.FirstRow == 0 {
		b.FirstRow = 1
	}
	if b.FirstCol > b.LastCol || (b.LastRow != 0 && b.LastRow < b.FirstRow) {
		return Bounds{}, fmt.Errorf("range %s: end before start", r)
	}
	return b, nil
}

// splitRef parses "AB12" or "AB" into a column number and a row (0 if absent).
func splitRef(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) && isLetter(ref[i]) {
		i++
	}
	if i == 0 {
		return 0, 0, fmt.Errorf("missing column in %q", ref)
	}

	col, err = excelize.ColumnNameToNumber(ref[:i])
	if err != nil {
		return 0, 0, err
	}

	if i == len(ref) {
		return col, 0, nil
	}
	row, err = strconv.Atoi(ref[i:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("invalid row in %q", ref)
	}
	return col, row, nil
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
