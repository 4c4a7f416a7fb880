package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"
)

// QdrantConfig configures the Qdrant-backed menu index, the alternate
// vector backend to Pinecone (spec.md §6 "at most one vector backend is
// configured at a time").
type QdrantConfig struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
}

// QdrantIndex stores menu item embeddings in a single Qdrant collection,
// ported from the teacher's pkg/vector.QdrantProvider.
type QdrantIndex struct {
	client     *qdrant.Client
	collection string
}

// NewQdrantIndex dials Qdrant and returns an Index over cfg.Collection.
func NewQdrantIndex(cfg QdrantConfig) (*QdrantIndex, error) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 6334
	}
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: create client for %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	collection := cfg.Collection
	if collection == "" {
		collection = "sawt-menu"
	}
	return &QdrantIndex{client: client, collection: collection}, nil
}

func (q *QdrantIndex) Name() string { return "qdrant" }

func (q *QdrantIndex) ensureCollection(ctx context.Context, dim int) error {
	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("qdrant: check collection: %w", err)
	}
	if exists {
		return nil
	}
	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dim),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("qdrant: create collection: %w", err)
	}
	return nil
}

// Upsert writes a single menu item's embedding and metadata.
func (q *QdrantIndex) Upsert(ctx context.Context, itemID int64, vector []float32, metadata map[string]any) error {
	if err := q.ensureCollection(ctx, len(vector)); err != nil {
		return err
	}

	payload := make(map[string]*qdrant.Value, len(metadata))
	for k, v := range metadata {
		val, err := qdrant.NewValue(v)
		if err != nil {
			return fmt.Errorf("qdrant: convert metadata %q: %w", k, err)
		}
		payload[k] = val
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Points: []*qdrant.PointStruct{{
			Id:      qdrant.NewIDNum(uint64(itemID)),
			Vectors: qdrant.NewVectors(vector...),
			Payload: payload,
		}},
	})
	if err != nil {
		return fmt.Errorf("qdrant: upsert point: %w", err)
	}
	return nil
}

// Search returns the topK nearest menu items to vector.
func (q *QdrantIndex) Search(ctx context.Context, vector []float32, topK int) ([]Result, error) {
	resp, err := q.client.GetPointsClient().Search(ctx, &qdrant.SearchPoints{
		CollectionName: q.collection,
		Vector:         vector,
		Limit:          uint64(topK),
		WithPayload:    qdrant.NewWithPayload(false),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: search: %w", err)
	}

	out := make([]Result, 0, len(resp.Result))
	for _, point := range resp.Result {
		if point.Id == nil || point.Id.PointIdOptions == nil {
			continue
		}
		switch idType := point.Id.PointIdOptions.(type) {
		case *qdrant.PointId_Num:
			out = append(out, Result{ItemID: int64(idType.Num), Score: point.Score})
		case *qdrant.PointId_Uuid:
			itemID, convErr := strconv.ParseInt(idType.Uuid, 10, 64)
			if convErr != nil {
				continue
			}
			out = append(out, Result{ItemID: itemID, Score: point.Score})
		}
	}
	return out, nil
}

var _ Index = (*QdrantIndex)(nil)
