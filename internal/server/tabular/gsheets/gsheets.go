// Package gsheets implements tabular.Store on top of the Google Sheets API v4.
package gsheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/blocksearch/internal/logging"
	"github.com/dmitrijs2005/blocksearch/internal/server/tabular"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	valueInputRaw          = "RAW"
	valueRenderUnformatted = "UNFORMATTED_VALUE"
)

type Store struct {
	svc           *sheets.Service
	spreadsheetID string
	logger        logging.Logger
}

var _ tabular.Store = (*Store)(nil)

// New builds a Store for one spreadsheet. Credentials and endpoint come
// from opts, e.g. option.WithCredentialsFile.
func New(ctx context.Context, spreadsheetID string, l logging.Logger, opts ...option.ClientOption) (*Store, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &Store{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		logger:        l.With("module", "gsheets"),
	}, nil
}

func (s *Store) ReadRange(ctx context.Context, r tabular.Range, render tabular.Render) ([]tabular.Row, error) {
	call := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, r.String()).Context(ctx)
	if render == tabular.Unformatted {
		call = call.ValueRenderOption(valueRenderUnformatted)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, mapError(r, err)
	}

	rows := make([]tabular.Row, 0, len(resp.Values))
	for _, v := range resp.Values {
		rows = append(rows, tabular.Row(v))
	}

	s.logger.Debug(ctx, "range read", "range", r.String(), "rows", len(rows))
	return rows, nil
}

func (s *Store) AppendRow(ctx context.Context, r tabular.Range, values []any) error {
	vr := &sheets.ValueRange{Values: [][]any{values}}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, r.String(), vr).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return mapError(r, err)
	}
	return nil
}

func (s *Store) UpdateRange(ctx context.Context, r tabular.Range, values [][]any) error {
	vr := &sheets.ValueRange{Values: values}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, r.String(), vr).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return mapError(r, err)
	}
	return nil
}

func (s *Store) EnsureSheet(ctx context.Context, name string, rows, cols int) (bool, error) {
	ss, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return false, fmt.Errorf("sheets api: %w", err)
	}

	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == name {
			return false, nil
		}
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: name,
					GridProperties: &sheets.GridProperties{
						RowCount:    int64(rows),
						ColumnCount: int64(cols),
					},
				},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return false, fmt.Errorf("sheets api: %w", err)
	}

	s.logger.Info(ctx, "sheet created", "sheet", name, "rows", rows, "cols", cols)
	return true, nil
}

// mapError turns the API's answer for an unknown sheet into
// tabular.ErrSheetNotFound and wraps everything else.
func mapError(r tabular.Range, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusBadRequest &&
		strings.Contains(gerr.Message, "Unable to parse range") {
		return fmt.Errorf("%w: %s", tabular.ErrSheetNotFound, r)
	}
	return fmt.Errorf("sheets api: %w", err)
}
