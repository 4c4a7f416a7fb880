// Package tool implements the LLM-callable tool registry of spec.md §4.4:
// each tool declares a JSON Schema (via invopop/jsonschema) and mutates or
// reads session/cart/catalog state. Grounded on the teacher's
// pkg/tools.Tool interface, narrowed from its streaming/source-discovery
// machinery to the single synchronous Execute this domain needs.
package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/mitchellh/mapstructure"

	"github.com/sawtai/sawt/internal/domain"
)

// Result is the JSON-serializable outcome of a tool call. The assistant
// never parses its own prose for state — session changes come only from
// tool execution: each tool's Execute and the orchestrator's reconcile of
// Result.Data (spec.md §4.1 "tool results are the sole source of truth").
type Result struct {
	OK      bool           `json:"ok"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Tool is one LLM-callable capability bound to a session.
type Tool interface {
	Name() string
	Description() string
	Schema() map[string]any
	Execute(ctx context.Context, session *domain.Session, args map[string]any) (Result, error)
}

// Definition mirrors internal/llm.ToolDefinition; tool exposes its own copy
// so this package has no import dependency on internal/llm.
type Definition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Registry holds every tool available to the agent loop.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool, panicking on a duplicate name since that is
// always a wiring bug caught at startup, never a runtime condition.
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name()]; exists {
		panic(fmt.Sprintf("tool: %q already registered", t.Name()))
	}
	r.tools[t.Name()] = t
	r.order = append(r.order, t.Name())
}

// Definitions returns every registered tool's schema, in registration
// order, for handing to an internal/llm.Provider.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, Definition{Name: t.Name(), Description: t.Description(), Parameters: t.Schema()})
	}
	return defs
}

// Execute looks up name and runs it against session with the decoded
// arguments.
func (r *Registry) Execute(ctx context.Context, name string, session *domain.Session, args map[string]any) (Result, error) {
	t, ok := r.tools[name]
	if !ok {
		return Result{}, fmt.Errorf("tool: %q is not registered", name)
	}
	return t.Execute(ctx, session, args)
}

// decodeArgs loosely decodes a raw argument map into a typed struct via
// mapstructure, tolerating the numeric-as-string and missing-field
// looseness of LLM-produced JSON (spec.md §4.4).
func decodeArgs[T any](raw map[string]any) (T, error) {
	var out T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		return out, fmt.Errorf("tool: build decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return out, fmt.Errorf("tool: decode arguments: %w", err)
	}
	return out, nil
}

// schemaFor generates a JSON Schema for T's exported fields using
// invopop/jsonschema, the teacher's schema-generation library
// (pkg/tool/functiontool/schema.go).
func schemaFor[T any]() map[string]any {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(new(T))

	raw, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("tool: marshal schema: %v", err))
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		panic(fmt.Sprintf("tool: unmarshal schema: %v", err))
	}
	delete(m, "$schema")
	delete(m, "$id")
	return m
}
