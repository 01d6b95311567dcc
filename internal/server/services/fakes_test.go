package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/blocksearch/internal/server/tabular"
)

// fakeStore serves fixed rows per range and counts reads.
type fakeStore struct {
	mu      sync.Mutex
	rows    map[string][]tabular.Row
	readErr error
	reads   []string
	renders []tabular.Render
}

func (f *fakeStore) ReadRange(_ context.Context, r tabular.Range, render tabular.Render) ([]tabular.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, r.String())
	f.renders = append(f.renders, render)
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.rows[r.String()], nil
}

func (f *fakeStore) AppendRow(context.Context, tabular.Range, []any) error     { return nil }
func (f *fakeStore) UpdateRange(context.Context, tabular.Range, [][]any) error { return nil }
func (f *fakeStore) EnsureSheet(context.Context, string, int, int) (bool, error) {
	return false, nil
}
