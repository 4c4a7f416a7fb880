package search

import (
	"context"
	"errors"
	"testing"

	"github.com/sawtai/sawt/internal/domain"
)

type stubEmbedder struct {
	vector []float32
	err    error
}

func (s stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.vector, s.err
}

type stubIndex struct {
	results []Result
	err     error
}

func (s stubIndex) Name() string { return "stub" }
func (s stubIndex) Upsert(ctx context.Context, itemID int64, vector []float32, metadata map[string]any) error {
	return nil
}
func (s stubIndex) Search(ctx context.Context, vector []float32, topK int) ([]Result, error) {
	return s.results, s.err
}

type stubLexical struct {
	results []domain.SearchResult
}

func (s stubLexical) LexicalSearch(query string, k int) []domain.SearchResult {
	return s.results
}

func TestSearchMenuUsesVectorWhenAvailable(t *testing.T) {
	engine := NewEngine(
		stubEmbedder{vector: []float32{0.1, 0.2}},
		stubIndex{results: []Result{{ItemID: 1, Score: 0.9}}},
		stubLexical{},
	)

	results, err := engine.SearchMenu(context.Background(), "برجر", 5)
	if err != nil {
		t.Fatalf("SearchMenu: %v", err)
	}
	if len(results) != 1 || results[0].Item.ID != 1 {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestSearchMenuFiltersLowScoreVectorHits(t *testing.T) {
	engine := NewEngine(
		stubEmbedder{vector: []float32{0.1}},
		stubIndex{results: []Result{{ItemID: 1, Score: 0.1}}},
		stubLexical{results: []domain.SearchResult{{Item: domain.MenuItem{ID: 2}, Score: 1.0}}},
	)

	results, err := engine.SearchMenu(context.Background(), "برجر", 5)
	if err != nil {
		t.Fatalf("SearchMenu: %v", err)
	}
	if len(results) != 1 || results[0].Item.ID != 2 {
		t.Fatalf("expected fallback to lexical result, got %+v", results)
	}
}

func TestSearchMenuFallsBackToLexicalOnEmbedError(t *testing.T) {
	engine := NewEngine(
		stubEmbedder{err: errors.New("embed failed")},
		stubIndex{},
		stubLexical{results: []domain.SearchResult{{Item: domain.MenuItem{ID: 3}, Score: 1.0}}},
	)

	results, err := engine.SearchMenu(context.Background(), "برجر", 5)
	if err != nil {
		t.Fatalf("SearchMenu: %v", err)
	}
	if len(results) != 1 || results[0].Item.ID != 3 {
		t.Fatalf("expected lexical fallback, got %+v", results)
	}
}

func TestSearchMenuLexicalOnlyWhenNoVectorBackend(t *testing.T) {
	engine := NewEngine(nil, nil, stubLexical{results: []domain.SearchResult{{Item: domain.MenuItem{ID: 4}, Score: 1.0}}})

	results, err := engine.SearchMenu(context.Background(), "برجر", 5)
	if err != nil {
		t.Fatalf("SearchMenu: %v", err)
	}
	if len(results) != 1 || results[0].Item.ID != 4 {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestSearchMenuErrorsWithoutAnyBackend(t *testing.T) {
	engine := NewEngine(nil, nil, nil)
	if _, err := engine.SearchMenu(context.Background(), "برجر", 5); err == nil {
		t.Error("expected error when no backend is configured")
	}
}
