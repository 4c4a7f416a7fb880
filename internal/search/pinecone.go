package search

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pinecone-io/go-pinecone/pinecone"
	"google.golang.org/protobuf/types/known/structpb"
)

// PineconeConfig configures the Pinecone-backed menu index.
type PineconeConfig struct {
	APIKey    string
	Host      string
	IndexName string
}

// PineconeIndex stores menu item embeddings in a single Pinecone index,
// ported from the teacher's pkg/vector.PineconeProvider and narrowed to
// the int64-item-id shape this domain needs.
type PineconeIndex struct {
	client    *pinecone.Client
	indexName string
}

// NewPineconeIndex dials Pinecone and returns an Index over cfg.IndexName.
func NewPineconeIndex(cfg PineconeConfig) (*PineconeIndex, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone: api key is required")
	}

	params := pinecone.NewClientParams{ApiKey: cfg.APIKey}
	if cfg.Host != "" {
		params.Host = cfg.Host
	}
	client, err := pinecone.NewClient(params)
	if err != nil {
		return nil, fmt.Errorf("pinecone: create client: %w", err)
	}

	indexName := cfg.IndexName
	if indexName == "" {
		indexName = "sawt-menu"
	}
	return &PineconeIndex{client: client, indexName: indexName}, nil
}

func (p *PineconeIndex) Name() string { return "pinecone" }

func (p *PineconeIndex) connection(ctx context.Context) (*pinecone.IndexConnection, error) {
	idx, err := p.client.DescribeIndex(ctx, p.indexName)
	if err != nil {
		return nil, fmt.Errorf("pinecone: describe index %s: %w", p.indexName, err)
	}
	conn, err := p.client.Index(pinecone.NewIndexConnParams{Host: idx.Host})
	if err != nil {
		return nil, fmt.Errorf("pinecone: connect to index: %w", err)
	}
	return conn, nil
}

// Upsert writes a single menu item's embedding and metadata.
func (p *PineconeIndex) Upsert(ctx context.Context, itemID int64, vector []float32, metadata map[string]any) error {
	conn, err := p.connection(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	var meta *pinecone.Metadata
	if len(metadata) > 0 {
		meta, err = structpb.NewStruct(metadata)
		if err != nil {
			return fmt.Errorf("pinecone: convert metadata: %w", err)
		}
	}

	_, err = conn.UpsertVectors(ctx, []*pinecone.Vector{{
		Id:       strconv.FormatInt(itemID, 10),
		Values:   vector,
		Metadata: meta,
	}})
	if err != nil {
		return fmt.Errorf("pinecone: upsert vector: %w", err)
	}
	return nil
}

// Search returns the topK nearest menu items to vector.
func (p *PineconeIndex) Search(ctx context.Context, vector []float32, topK int) ([]Result, error) {
	conn, err := p.connection(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	resp, err := conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(topK),
		IncludeMetadata: false,
		IncludeValues:   false,
	})
	if err != nil {
		return nil, fmt.Errorf("pinecone: query: %w", err)
	}

	out := make([]Result, 0, len(resp.Matches))
	for _, match := range resp.Matches {
		if match.Vector == nil {
			continue
		}
		itemID, err := strconv.ParseInt(match.Vector.Id, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, Result{ItemID: itemID, Score: match.Score})
	}
	return out, nil
}

var _ Index = (*PineconeIndex)(nil)
