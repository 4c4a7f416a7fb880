// Package search provides menu search over embeddings with a lexical
// fallback, grounded on the teacher's pkg/vector provider set
// (pinecone.go, qdrant.go) generalized from a generic document store down
// to the single "menu item" shape this domain needs (spec.md §4.3, §6).
package search

import (
	"context"
	"fmt"

	"github.com/sawtai/sawt/internal/domain"
)

// Result is one scored hit against the menu index.
type Result struct {
	ItemID int64   `json:"item_id"`
	Score  float32 `json:"score"`
}

// lexicalCutoff discards vector-index hits scoring below it; when none
// survive, SearchMenu falls back to lexical search, whose results are not
// filtered by this cutoff.
const lexicalCutoff = 0.3

// Embedder turns text into a vector, grounded on the teacher's LLM
// provider embedding calls (pkg/llms).
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Index is a vector store that can be searched for the nearest menu items
// to a query vector. Implemented by PineconeIndex, QdrantIndex and
// ChromemIndex.
type Index interface {
	Name() string
	Upsert(ctx context.Context, itemID int64, vector []float32, metadata map[string]any) error
	Search(ctx context.Context, vector []float32, topK int) ([]Result, error)
}

// LexicalSearcher is satisfied by internal/catalog.Catalog; kept as a
// narrow interface so search doesn't import catalog's full surface.
type LexicalSearcher interface {
	LexicalSearch(query string, k int) []domain.SearchResult
}

// Engine combines an embedding-backed Index with a LexicalSearcher
// fallback, used when no Index is configured or the Index errors.
type Engine struct {
	embedder Embedder
	index    Index
	lexical  LexicalSearcher
}

// NewEngine builds a search Engine. index and embedder may be nil, in
// which case SearchMenu always falls back to lexical search — the
// configuration the teacher's chromem-go default represents for a
// from-scratch deployment with no external vector service running.
func NewEngine(embedder Embedder, index Index, lexical LexicalSearcher) *Engine {
	return &Engine{embedder: embedder, index: index, lexical: lexical}
}

// SearchMenu returns up to k menu item ids most relevant to query. It
// tries the vector index first (when configured) and falls back to
// lexical substring search on any embedding or index failure, per
// spec.md §4.3 "search_menu degrades gracefully".
func (e *Engine) SearchMenu(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	if e.index != nil && e.embedder != nil {
		results, err := e.vectorSearch(ctx, query, k)
		if err == nil && len(results) > 0 {
			return results, nil
		}
	}

	if e.lexical == nil {
		return nil, fmt.Errorf("search: no lexical fallback configured")
	}
	return e.lexical.LexicalSearch(query, k), nil
}

func (e *Engine) vectorSearch(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := e.index.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	var out []domain.SearchResult
	for _, hit := range hits {
		if hit.Score < lexicalCutoff {
			continue
		}
		out = append(out, domain.SearchResult{Item: domain.MenuItem{ID: hit.ItemID}, Score: float64(hit.Score)})
	}
	return out, nil
}
