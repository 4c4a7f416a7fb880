package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIEmbedderEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer auth header")
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "text-embedding-3-small" {
			t.Errorf("Model = %q, want default", req.Model)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(embedResponse{
			Data: []struct {
				Embedding []float32 `json:"embedding"`
			}{{Embedding: []float32{0.1, 0.2, 0.3}}},
		})
	}))
	defer server.Close()

	e, err := NewOpenAIEmbedder("test-key", "")
	if err != nil {
		t.Fatalf("NewOpenAIEmbedder: %v", err)
	}
	e.host = server.URL

	vector, err := e.Embed(context.Background(), "برجر لحم")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vector) != 3 {
		t.Fatalf("unexpected vector length: %v", vector)
	}
}

func TestNewOpenAIEmbedderRequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIEmbedder("", ""); err == nil {
		t.Error("expected error for empty api key")
	}
}
