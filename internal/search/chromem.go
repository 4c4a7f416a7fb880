package search

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	chromem "github.com/philippgille/chromem-go"
)

// ChromemIndex is a pure-Go, in-process vector index backed by
// github.com/philippgille/chromem-go. It needs no external service and is
// the local/dev vector backend selected by SAWT_VECTOR_BACKEND=chromem
// (with no backend configured, search is lexical only), grounded on the
// teacher's pkg/vector/chromem.go ChromemProvider (same identity-embedding-
// function trick: vectors are always pre-computed by our own Embedder,
// chromem is used purely as the similarity index).
type ChromemIndex struct {
	db         *chromem.DB
	collection *chromem.Collection
}

const chromemCollectionName = "sawt-menu"

// NewChromemIndex builds an empty in-memory chromem index with no
// persistence. Nothing in this module upserts menu items into it, so its
// searches return no hits until a caller does.
func NewChromemIndex() (*ChromemIndex, error) {
	db := chromem.NewDB()
	identityEmbed := func(ctx context.Context, text string) ([]float32, error) {
		return nil, fmt.Errorf("chromem: embedding function should not be invoked, vectors are pre-computed")
	}
	col, err := db.GetOrCreateCollection(chromemCollectionName, nil, identityEmbed)
	if err != nil {
		return nil, fmt.Errorf("chromem: create collection: %w", err)
	}
	return &ChromemIndex{db: db, collection: col}, nil
}

// Name satisfies Index.
func (c *ChromemIndex) Name() string { return "chromem" }

// Upsert satisfies Index.
func (c *ChromemIndex) Upsert(ctx context.Context, itemID int64, vector []float32, metadata map[string]any) error {
	strMetadata := make(map[string]string, len(metadata))
	for k, v := range metadata {
		strMetadata[k] = fmt.Sprint(v)
	}
	doc := chromem.Document{
		ID:        strconv.FormatInt(itemID, 10),
		Metadata:  strMetadata,
		Embedding: vector,
	}
	if err := c.collection.AddDocuments(ctx, []chromem.Document{doc}, runtime.NumCPU()); err != nil {
		return fmt.Errorf("chromem: upsert: %w", err)
	}
	return nil
}

// Search satisfies Index.
func (c *ChromemIndex) Search(ctx context.Context, vector []float32, topK int) ([]Result, error) {
	results, err := c.collection.QueryEmbedding(ctx, vector, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: search: %w", err)
	}

	out := make([]Result, 0, len(results))
	for _, r := range results {
		itemID, parseErr := strconv.ParseInt(r.ID, 10, 64)
		if parseErr != nil {
			continue
		}
		out = append(out, Result{ItemID: itemID, Score: r.Similarity})
	}
	return out, nil
}

var _ Index = (*ChromemIndex)(nil)
