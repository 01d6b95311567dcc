// Package services contains server-side business logic: the dataset
// queries behind the read endpoints and account handling.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/blocksearch/internal/logging"
	"github.com/dmitrijs2005/blocksearch/internal/server/layouts"
	"github.com/dmitrijs2005/blocksearch/internal/server/models"
	"github.com/dmitrijs2005/blocksearch/internal/server/tabular"
)

// Query selects rows by block number. PartNo and Thickness are optional:
// empty (after trimming) matches any value.
type Query struct {
	BlockNo   string
	PartNo    string
	Thickness string
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (q Query) normalized() Query {
	return Query{
		BlockNo:   normalize(q.BlockNo),
		PartNo:    normalize(q.PartNo),
		Thickness: normalize(q.Thickness),
	}
}

// alwaysKept survive pruning even when empty in every matched row.
var alwaysKept = []string{"blockNo", "partNo", "thickness"}

// SearchService answers the three read queries. It holds no state; every
// call reads the dataset's range afresh.
type SearchService struct {
	store  tabular.Store
	logger logging.Logger
}

func NewSearchService(store tabular.Store, l logging.Logger) *SearchService {
	return &SearchService{store: store, logger: l.With("module", "search")}
}

// Search returns the matching rows of the search dataset with every field
// that is empty across all matches removed.
func (s *SearchService) Search(ctx context.Context, q Query) ([]models.Record, error) {
	matches, err := s.match(ctx, layouts.Search, q)
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, len(matches))
	for i, m := range matches {
		results[i] = models.NewSearchResult(m)
	}
	return prune(results), nil
}

// DisReport ignores PartNo: the dataset has no part column.
func (s *SearchService) DisReport(ctx context.Context, q Query) ([]models.DisReportResult, error) {
	matches, err := s.match(ctx, layouts.DisReport, q)
	if err != nil {
		return nil, err
	}

	out := make([]models.DisReportResult, len(matches))
	for i, m := range matches {
		out[i] = models.NewDisReportResult(m)
	}
	return out, nil
}

func (s *SearchService) DisRpt(ctx context.Context, q Query) ([]models.DisRptResult, error) {
	matches, err := s.match(ctx, layouts.DisRpt, q)
	if err != nil {
		return nil, err
	}

	out := make([]models.DisRptResult, len(matches))
	for i, m := range matches {
		out[i] = models.NewDisRptResult(m)
	}
	return out, nil
}

// match reads the layout's range and returns the extracted fields of every
// matching row, in sheet order. A blank block number matches nothing and
// does not touch the store.
func (s *SearchService) match(ctx context.Context, l layouts.Layout, q Query) ([]map[string]string, error) {
	q = q.normalized()
	if q.BlockNo == "" {
		return nil, nil
	}

	rows, err := s.store.ReadRange(ctx, l.Range, l.Render)
	if err != nil {
		return nil, fmt.Errorf("%s: read %s: %w", l.Name, l.Range, err)
	}

	var out []map[string]string
	for _, row := range rows {
		block := normalize(l.Key(row, l.BlockColumn))
		if block == "" || block != q.BlockNo {
			continue
		}
		if !optionalMatch(l, row, l.PartColumn, q.PartNo) || !optionalMatch(l, row, l.ThicknessColumn, q.Thickness) {
			continue
		}
		out = append(out, l.Extract(row))
	}

	s.logger.Debug(ctx, "dataset scanned", "dataset", l.Name, "rows", len(rows), "matched", len(out))
	return out, nil
}

func optionalMatch(l layouts.Layout, row tabular.Row, col int, want string) bool {
	if want == "" || col == layouts.NoColumn {
		return true
	}
	return normalize(l.Key(row, col)) == want
}

// prune keeps the fields that are non-empty in at least one result plus
// alwaysKept. The field set is computed once so every record has the
// same shape.
func prune(results []models.SearchResult) []models.Record {
	keep := make(map[string]bool, len(alwaysKept))
	for _, f := range alwaysKept {
		keep[f] = true
	}

	records := make([]models.Record, len(results))
	for i, r := range results {
		records[i] = r.Record()
		for _, f := range records[i] {
			if strings.TrimSpace(f.Value) != "" {
				keep[f.Name] = true
			}
		}
	}

	for i := range records {
		records[i] = records[i].Keep(keep)
	}
	return records
}
