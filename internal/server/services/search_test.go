package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/blocksearch/internal/logging"
	"github.com/dmitrijs2005/blocksearch/internal/server/models"
	"github.com/dmitrijs2005/blocksearch/internal/server/tabular"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearch(rows map[string][]tabular.Row) (*SearchService, *fakeStore) {
	fs := &fakeStore{rows: rows}
	return NewSearchService(fs, logging.NopLogger{}), fs
}

func fieldNames(r models.Record) []string {
	out := make([]string, len(r))
	for i, f := range r {
		out[i] = f.Name
	}
	return out
}

func TestSearch_ScenarioFullRow(t *testing.T) {
	svc, fs := newSearch(map[string][]tabular.Row{
		"Data2!A2:L": {
			{"B1", "P1", "10", "5", "2", "3", "4", "OK", "2024-01-01", "M1", "red", ""},
		},
	})

	got, err := svc.Search(context.Background(), Query{BlockNo: "b1"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	b, err := json.Marshal(got[0])
	require.NoError(t, err)
	assert.Equal(t,
		`{"blockNo":"B1","partNo":"P1","thickness":"10","nos":"5","lCm":"2","hCm":"3","wCm":"4","status":"OK","date":"2024-01-01","mc":"M1","color1":"red"}`,
		string(b))

	assert.Equal(t, []string{"Data2!A2:L"}, fs.reads)
	assert.Equal(t, []tabular.Render{tabular.Formatted}, fs.renders)
}

func TestSearch_EmptyBlockRowsExcluded(t *testing.T) {
	svc, _ := newSearch(map[string][]tabular.Row{
		"Data2!A2:L": {{"", "P1", "10"}, {"  ", "P1", "10"}, {}, {nil, "P1"}, {"B1", "P1", "10"}},
		"Data3!A2:E": {{"", "P1", "10", "1", "2"}, {"B1", "P1", "10", "1", "2"}},
		"Data2!O:R":  {{"", "10", "Q", "R"}, {"B1", "10", "Q", "R"}},
	})
	ctx := context.Background()

	s, err := svc.Search(ctx, Query{BlockNo: "B1"})
	require.NoError(t, err)
	assert.Len(t, s, 1)

	r, err := svc.DisRpt(ctx, Query{BlockNo: "B1"})
	require.NoError(t, err)
	assert.Len(t, r, 1)

	d, err := svc.DisReport(ctx, Query{BlockNo: "B1"})
	require.NoError(t, err)
	assert.Len(t, d, 1)
}

func TestMatching_CaseAndWhitespaceInsensitive(t *testing.T) {
	svc, _ := newSearch(map[string][]tabular.Row{
		"Data2!A2:L": {{" b1 ", "p-1", "10MM"}},
		"Data3!A2:E": {{"B1", " P-1", "10mm ", "3", "4.5"}},
		"Data2!O:R":  {{"B1 ", "10mm", "Q", "R"}},
	})
	ctx := context.Background()
	q := Query{BlockNo: "  B1", PartNo: "P-1 ", Thickness: " 10mm"}

	s, err := svc.Search(ctx, q)
	require.NoError(t, err)
	assert.Len(t, s, 1)

	r, err := svc.DisRpt(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []models.DisRptResult{{BlockNo: "B1", PartNo: " P-1", Thickness: "10mm ", Nos: "3", M2: "4.5"}}, r)

	d, err := svc.DisReport(ctx, q)
	require.NoError(t, err)
	assert.Len(t, d, 1)
}

func TestMatching_OptionalParamsAreWildcards(t *testing.T) {
	rows := []tabular.Row{
		{"B1", "P1", "10"},
		{"B1", "P2", "20"},
		{"B1", "", ""},
		{"B2", "P1", "10"},
	}
	svc, _ := newSearch(map[string][]tabular.Row{"Data2!A2:L": rows})
	ctx := context.Background()

	tests := []struct {
		name  string
		q     Query
		parts []string
	}{
		{"absent", Query{BlockNo: "B1"}, []string{"P1", "P2", ""}},
		{"empty strings", Query{BlockNo: "B1", PartNo: "", Thickness: ""}, []string{"P1", "P2", ""}},
		{"whitespace only", Query{BlockNo: "B1", PartNo: "  ", Thickness: "\t"}, []string{"P1", "P2", ""}},
		{"part only", Query{BlockNo: "B1", PartNo: "p2"}, []string{"P2"}},
		{"thickness only", Query{BlockNo: "B1", Thickness: "10"}, []string{"P1"}},
		{"both", Query{BlockNo: "B1", PartNo: "P1", Thickness: "20"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Search(ctx, tt.q)
			require.NoError(t, err)

			var parts []string
			for _, r := range got {
				v, _ := r.Get("partNo")
				parts = append(parts, v)
			}
			assert.Equal(t, tt.parts, parts)
		})
	}
}

func TestSearch_PruningKeepsMandatoryAndSharedShape(t *testing.T) {
	svc, _ := newSearch(map[string][]tabular.Row{
		"Data2!A2:L": {
			{"B1", "", "", "5"},
			{"B1", "P2", "", "", "", "", "", "OK"},
			{"B1", "P3", "", "", "", "", "", "", "", "", " ", ""},
		},
	})

	got, err := svc.Search(context.Background(), Query{BlockNo: "B1"})
	require.NoError(t, err)
	require.Len(t, got, 3)

	want := []string{"blockNo", "partNo", "thickness", "nos", "status"}
	for _, r := range got {
		assert.Empty(t, cmp.Diff(want, fieldNames(r)))
	}

	v, ok := got[1].Get("nos")
	assert.True(t, ok)
	assert.Equal(t, "", v, "kept field is present even where empty")

	_, ok = got[0].Get("color1")
	assert.False(t, ok, "whitespace-only color1 counts as empty")
}

func TestSearch_NoMatches(t *testing.T) {
	svc, _ := newSearch(map[string][]tabular.Row{"Data2!A2:L": {{"B2"}}})

	got, err := svc.Search(context.Background(), Query{BlockNo: "B1"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestBlankBlockSkipsStore(t *testing.T) {
	svc, fs := newSearch(nil)
	ctx := context.Background()

	s, err := svc.Search(ctx, Query{BlockNo: "   ", PartNo: "P1"})
	require.NoError(t, err)
	assert.Empty(t, s)

	d, err := svc.DisReport(ctx, Query{})
	require.NoError(t, err)
	assert.Empty(t, d)

	r, err := svc.DisRpt(ctx, Query{})
	require.NoError(t, err)
	assert.Empty(t, r)

	assert.Empty(t, fs.reads)
}

func TestDisReport_Scenario(t *testing.T) {
	svc, fs := newSearch(map[string][]tabular.Row{
		"Data2!O:R": {
			{"Block", "Thk", "Q head", "R head"},
			{"B1", float64(10), "Q", "R"},
			{"B1", float64(12), "Q2", "R2"},
		},
	})

	got, err := svc.DisReport(context.Background(), Query{BlockNo: "B1", PartNo: "ignored", Thickness: "10"})
	require.NoError(t, err)
	assert.Equal(t, []models.DisReportResult{{
		BlockNo: "B1", Thickness: "10", OColumn: "B1", PColumn: "10", QColumn: "Q", RColumn: "R",
	}}, got)
	assert.Equal(t, []tabular.Render{tabular.Unformatted}, fs.renders)
}

func TestDisRpt_ShortRowsMapToEmpty(t *testing.T) {
	svc, _ := newSearch(map[string][]tabular.Row{"Data3!A2:E": {{"B1", "P1"}}})

	got, err := svc.DisRpt(context.Background(), Query{BlockNo: "B1"})
	require.NoError(t, err)
	assert.Equal(t, []models.DisRptResult{{BlockNo: "B1", PartNo: "P1"}}, got)
}

func TestStoreErrorsPropagate(t *testing.T) {
	boom := errors.New("quota exceeded")
	fs := &fakeStore{readErr: boom}
	svc := NewSearchService(fs, logging.NopLogger{})
	ctx := context.Background()

	_, err := svc.Search(ctx, Query{BlockNo: "B1"})
	require.ErrorIs(t, err, boom)
	_, err = svc.DisReport(ctx, Query{BlockNo: "B1"})
	require.ErrorIs(t, err, boom)
	_, err = svc.DisRpt(ctx, Query{BlockNo: "B1"})
	require.ErrorIs(t, err, boom)
}

func TestSearch_Idempotent(t *testing.T) {
	svc, _ := newSearch(map[string][]tabular.Row{
		"Data2!A2:L": {
			{"B1", "P2", "10", "", "", "", "", "", "", "", "red"},
			{"B1", "P1", "10"},
			{"B3"},
			{"b1", "P3", "12", "1"},
		},
	})
	ctx := context.Background()
	q := Query{BlockNo: "B1"}

	first, err := svc.Search(ctx, q)
	require.NoError(t, err)
	for range 5 {
		again, err := svc.Search(ctx, q)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(first, again))
	}

	var parts []string
	for _, r := range first {
		v, _ := r.Get("partNo")
		parts = append(parts, v)
	}
	assert.Equal(t, []string{"P2", "P1", "P3"}, parts, "sheet order preserved")
}
