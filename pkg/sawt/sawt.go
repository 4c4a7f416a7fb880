// Package sawt is the public facade over the conversation orchestration
// core: a single Handle entry point that the HTTP transport (or any other
// caller) drives one user message through, grounded on the teacher's thin
// pkg/hector facade over its deeper agent/team internals.
package sawt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sawtai/sawt/internal/catalog"
	"github.com/sawtai/sawt/internal/config"
	"github.com/sawtai/sawt/internal/hours"
	"github.com/sawtai/sawt/internal/llm"
	"github.com/sawtai/sawt/internal/orchestrator"
	"github.com/sawtai/sawt/internal/search"
	"github.com/sawtai/sawt/internal/store"
	"github.com/sawtai/sawt/internal/tool"
)

// Core wires every package into one running conversation orchestration
// instance and exposes the single Handle operation.
type Core struct {
	DB           *store.DB
	Catalog      *catalog.Catalog
	Orchestrator *orchestrator.Orchestrator
}

// Build assembles a Core from resolved configuration: opens the database,
// loads the catalog cache, selects the LLM provider and vector backend,
// registers every tool, and constructs the Orchestrator.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Core, error) {
	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	menu, err := catalog.New(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	promos := catalog.NewPromoRepository(db)
	orders := store.NewOrderStore(db)
	sessions := store.NewSessionStore(db, time.Duration(cfg.SessionExpiryHours)*time.Hour)

	provider, err := buildProvider(cfg)
	if err != nil {
		return nil, err
	}

	engine, err := buildSearchEngine(cfg, menu)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	gate := hours.Gate{OpeningHour: cfg.OpeningHour, ClosingHour: cfg.ClosingHour, Location: loc}

	registry := tool.NewRegistry()
	registry.Register(&tool.CheckDeliveryDistrict{Catalog: menu})
	registry.Register(&tool.SetOrderType{Catalog: menu})
	registry.Register(&tool.SearchMenu{Engine: engine, Catalog: menu})
	registry.Register(&tool.GetItemDetails{Catalog: menu})
	registry.Register(&tool.AddToOrder{Catalog: menu})
	registry.Register(&tool.GetCurrentOrder{})
	registry.Register(&tool.UpdateOrderItem{})
	registry.Register(&tool.RemoveFromOrder{})
	registry.Register(&tool.CalculateTotal{Promo: promos, DeliveryFeeHalalas: cfg.DeliveryFeeHalalas})
	registry.Register(&tool.ConfirmOrder{Orders: orders, Promo: promos, Hours: gate, DeliveryFeeHalalas: cfg.DeliveryFeeHalalas})

	orch := orchestrator.New(sessions, provider, registry, gate, logger)

	return &Core{DB: db, Catalog: menu, Orchestrator: orch}, nil
}

// Handle routes a single user message through the orchestrator and returns
// the Arabic assistant reply.
func (c *Core) Handle(ctx context.Context, sessionID, userText string) (string, error) {
	return c.Orchestrator.Turn(ctx, sessionID, userText)
}

func buildProvider(cfg *config.Config) (llm.Provider, error) {
	switch cfg.LLMProvider {
	case "openai":
		return llm.NewOpenAIProvider(cfg.LLMAPIKey, cfg.LLMModel)
	default:
		return llm.NewAnthropicProvider(cfg.LLMAPIKey, cfg.LLMModel)
	}
}

func buildSearchEngine(cfg *config.Config, menu *catalog.Catalog) (*search.Engine, error) {
	var embedder search.Embedder
	var index search.Index
	var err error

	switch cfg.VectorBackend {
	case "pinecone":
		embedder, err = search.NewOpenAIEmbedder(cfg.VectorAPIKey, "")
		if err != nil {
			return nil, err
		}
		index, err = search.NewPineconeIndex(search.PineconeConfig{APIKey: cfg.VectorAPIKey, IndexName: cfg.VectorIndex})
		if err != nil {
			return nil, err
		}
	case "qdrant":
		embedder, err = search.NewOpenAIEmbedder(cfg.VectorAPIKey, "")
		if err != nil {
			return nil, err
		}
		index, err = search.NewQdrantIndex(search.QdrantConfig{APIKey: cfg.VectorAPIKey, Collection: cfg.VectorIndex})
		if err != nil {
			return nil, err
		}
	case "chromem":
		if cfg.VectorAPIKey != "" {
			embedder, err = search.NewOpenAIEmbedder(cfg.VectorAPIKey, "")
			if err != nil {
				return nil, err
			}
		}
		index, err = search.NewChromemIndex()
		if err != nil {
			return nil, err
		}
	}

	return search.NewEngine(embedder, index, menu), nil
}
