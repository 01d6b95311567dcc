package layouts

import (
	"fmt"

	"github.com/dmitrijs2005/blocksearch/internal/server/tabular"
)

// UserSheet describes the sheet that stores accounts: a lookup window
// without the header row, an append window covering every stored column
// and the header written when the sheet is created.
type UserSheet struct {
	Layout

	Append      tabular.Range
	HeaderRange tabular.Range
	Header      []any
	Rows        int
}

const (
	UserID       = 0
	UserName     = 1
	UserPassword = 2
)

var Users = UserSheet{
	Layout: Layout{
		Name:            "users",
		Range:           tabular.MustParseRange("User!A2:C"),
		Render:          tabular.Formatted,
		Columns:         columns("id", "username", "password"),
		BlockColumn:     UserName,
		PartColumn:      NoColumn,
		ThicknessColumn: NoColumn,
	},
	Append:      tabular.MustParseRange("User!A:D"),
	HeaderRange: tabular.MustParseRange("User!A1:D1"),
	Header:      []any{"ID", "Username", "Password", "Email"},
	Rows:        1000,
}

// Cols is the grid width requested when the sheet has to be created.
func (u UserSheet) Cols() int {
	return len(u.Header)
}

func (u UserSheet) Validate() error {
	if err := u.Layout.Validate(); err != nil {
		return err
	}

	for _, r := range []tabular.Range{u.Append, u.HeaderRange} {
		if r.Sheet != u.Range.Sheet {
			return fmt.Errorf("layout %s: %s is on a different sheet than %s", u.Name, r, u.Range)
		}
	}

	ab, err := u.Append.Bounds()
	if err != nil {
		return err
	}
	hb, err := u.HeaderRange.Bounds()
	if err != nil {
		return err
	}
	if ab.Width() != len(u.Header) || hb.Width() != len(u.Header) {
		return fmt.Errorf("layout %s: header has %d cells, append window %d, header window %d",
			u.Name, len(u.Header), ab.Width(), hb.Width())
	}
	if u.Rows <= 0 {
		return fmt.Errorf("layout %s: sheet capacity must be positive", u.Name)
	}
	return nil
}

// ValidateAll checks every built-in layout. Called once at startup.
func ValidateAll() error {
	for _, l := range []Layout{Search, DisReport, DisRpt} {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	return Users.Validate()
}
