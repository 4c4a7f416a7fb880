package agent

import (
	"context"
	"testing"

	"github.com/sawtai/sawt/internal/domain"
	"github.com/sawtai/sawt/internal/llm"
	"github.com/sawtai/sawt/internal/tool"
)

type stubTool struct {
	name    string
	calls   int
	session *domain.Session
	fail    bool
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return "stub tool for tests" }
func (s *stubTool) Schema() map[string]any {
	return map[string]any{"type": "object"}
}
func (s *stubTool) Execute(ctx context.Context, session *domain.Session, args map[string]any) (tool.Result, error) {
	s.calls++
	s.session = session
	if s.fail {
		return tool.Result{OK: false, Message: "تعذر إتمام العملية"}, nil
	}
	return tool.Result{OK: true, Message: "تم", Data: map[string]any{"ok": true}}, nil
}

func TestRunnerRunTurnExecutesToolsThenReturnsText(t *testing.T) {
	registry := tool.NewRegistry()
	toolStub := &stubTool{name: "get_current_order"}
	registry.Register(toolStub)

	provider := &stubProvider{
		texts: []string{"سأتحقق من طلبك", "تفضل، هذا طلبك الحالي [HANDOFF:checkout]"},
		toolCalls: [][]llm.ToolCall{
			{{ID: "1", Name: "get_current_order", Arguments: map[string]any{}}},
			nil,
		},
	}

	runner := NewRunner(provider, registry, nil)
	session := &domain.Session{}
	role := Roles[RoleOrder]

	outcome, err := runner.RunTurn(context.Background(), session, role, "", "ما هو طلبي؟")
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if toolStub.calls != 1 {
		t.Errorf("expected tool to be called once, got %d", toolStub.calls)
	}
	if outcome.Text != "تفضل، هذا طلبك الحالي" {
		t.Errorf("Text = %q", outcome.Text)
	}
	if outcome.Handoff != "checkout" {
		t.Errorf("Handoff = %q, want checkout", outcome.Handoff)
	}
	if len(outcome.ToolCalls) != 1 || outcome.ToolCalls[0].Name != "get_current_order" {
		t.Errorf("ToolCalls = %+v", outcome.ToolCalls)
	}
	if outcome.Failure != FailureNone {
		t.Errorf("Failure = %v, want none", outcome.Failure)
	}
}

func TestRunnerRunTurnRecursionLimitProducesFallback(t *testing.T) {
	registry := tool.NewRegistry()
	toolStub := &stubTool{name: "get_current_order"}
	registry.Register(toolStub)

	// The stub always returns a tool call, never a final answer, so the
	// loop should exhaust the role's recursion limit.
	call := llm.ToolCall{ID: "x", Name: "get_current_order", Arguments: map[string]any{}}
	texts := make([]string, 10)
	toolCalls := make([][]llm.ToolCall, 10)
	for i := range texts {
		texts[i] = "..."
		toolCalls[i] = []llm.ToolCall{call}
	}
	provider := &stubProvider{texts: texts, toolCalls: toolCalls}

	runner := NewRunner(provider, registry, nil)
	session := &domain.Session{}
	role := Roles[RoleGreeting] // RecursionLimit: 6

	outcome, err := runner.RunTurn(context.Background(), session, role, "", "مرحبا")
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if outcome.Failure != FailureIntegrity {
		t.Errorf("Failure = %v, want integrity", outcome.Failure)
	}
	if outcome.Text == "" {
		t.Error("expected a fallback message")
	}
	if toolStub.calls != role.RecursionLimit {
		t.Errorf("expected %d tool calls, got %d", role.RecursionLimit, toolStub.calls)
	}
}

func TestRunnerRunTurnProviderErrorRetriesThenApologizes(t *testing.T) {
	registry := tool.NewRegistry()
	provider := &stubProvider{err: context.DeadlineExceeded}
	runner := NewRunner(provider, registry, nil)

	outcome, err := runner.RunTurn(context.Background(), &domain.Session{}, Roles[RoleGreeting], "", "مرحبا")
	if err != nil {
		t.Fatalf("RunTurn: %v, want a nil error with an apology instead", err)
	}
	if outcome.Failure != FailureTransient {
		t.Errorf("Failure = %v, want transient", outcome.Failure)
	}
	if outcome.Text == "" {
		t.Error("expected a non-empty apology text")
	}
	if outcome.Handoff != "" {
		t.Error("expected no handoff on a failed turn, so FSM state is left unchanged")
	}
	if provider.calls != 2 {
		t.Errorf("calls = %d, want 2 (one retry)", provider.calls)
	}
}

func TestRunnerRunTurnProviderErrorRetriesThenSucceeds(t *testing.T) {
	registry := tool.NewRegistry()
	provider := &stubProvider{
		err:      context.DeadlineExceeded,
		errCalls: 1,
		texts:    []string{"أهلاً بك"},
	}
	runner := NewRunner(provider, registry, nil)

	outcome, err := runner.RunTurn(context.Background(), &domain.Session{}, Roles[RoleGreeting], "", "مرحبا")
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if outcome.Failure != FailureNone {
		t.Errorf("Failure = %v, want none after a successful retry", outcome.Failure)
	}
	if outcome.Text != "أهلاً بك" {
		t.Errorf("Text = %q", outcome.Text)
	}
}

func TestRunnerRunTurnAbortsAfterTwoConsecutiveSameToolFailures(t *testing.T) {
	registry := tool.NewRegistry()
	toolStub := &stubTool{name: "confirm_order", fail: true}
	registry.Register(toolStub)

	call := llm.ToolCall{ID: "x", Name: "confirm_order", Arguments: map[string]any{}}
	provider := &stubProvider{
		texts:     []string{"...", "...", "سأحاول مرة أخرى [HANDOFF:end]"},
		toolCalls: [][]llm.ToolCall{{call}, {call}, nil},
	}

	runner := NewRunner(provider, registry, nil)
	session := &domain.Session{}
	role := Roles[RoleCheckout]

	outcome, err := runner.RunTurn(context.Background(), session, role, "", "أكد الطلب")
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if outcome.Failure != FailureIntegrity {
		t.Errorf("Failure = %v, want integrity", outcome.Failure)
	}
	if toolStub.calls != 2 {
		t.Errorf("expected the loop to abort after 2 calls, got %d", toolStub.calls)
	}
	if outcome.Handoff != "" {
		t.Error("expected no handoff once the loop aborts on repeated tool failure")
	}
}
