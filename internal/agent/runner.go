package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sawtai/sawt/internal/domain"
	"github.com/sawtai/sawt/internal/llm"
	"github.com/sawtai/sawt/internal/tool"
)

// ToolCallRecord pairs an executed tool call with its result, handed back
// to the Orchestrator as the authoritative reconciliation feed (spec.md
// §4.2's "tool-result is the only source of truth" rule).
type ToolCallRecord struct {
	Name   string
	Args   map[string]any
	Result tool.Result
}

// TurnOutcome is what one agent turn produced.
type TurnOutcome struct {
	Text        string
	Handoff     string
	ToolCalls   []ToolCallRecord
	NewMessages []domain.HistoryMessage
	Failure     FailureKind
}

// Runner drives the LLM↔tool loop of spec.md §4.2 for a single role turn.
type Runner struct {
	Provider llm.Provider
	Tools    *tool.Registry
	Logger   *slog.Logger
}

// NewRunner builds a Runner over the given provider and tool registry.
func NewRunner(provider llm.Provider, tools *tool.Registry, logger *slog.Logger) *Runner {
	return &Runner{Provider: provider, Tools: tools, Logger: logger}
}

// apologyAr is the generic Arabic apology spec.md §4.11 requires on a
// second consecutive LLM-call failure or a recursion-limit breach — in
// both cases the turn ends without changing FSM state.
const apologyAr = "عذراً، واجهت صعوبة في إكمال طلبك الآن، هل يمكنك إعادة صياغة ما تحتاجه؟"

// RunTurn executes one role's conversation turn: submit prompt + thread,
// dispatch any tool calls sequentially against the Tool Registry, and
// repeat until the model responds with no tool calls or the role's
// recursion limit is hit (spec.md §4.2, steps 1-4).
func (r *Runner) RunTurn(ctx context.Context, session *domain.Session, role Role, handoffHint, userText string) (TurnOutcome, error) {
	messages, forceSummarize := BuildContext(session, role, handoffHint, userText)
	_ = forceSummarize // consulted by the Orchestrator after RunTurn returns

	toolDefs := toolDefinitions(r.Tools, role.ToolNames)

	outcome := TurnOutcome{
		NewMessages: []domain.HistoryMessage{{Role: domain.RoleUser, Content: userText}},
	}

	// lastFailedTool/consecutiveToolFailures track spec.md §4.11's
	// two-consecutive-same-tool-failure abort, across iterations of this
	// turn's loop.
	var lastFailedTool string
	var consecutiveToolFailures int

	for iteration := 0; iteration < role.RecursionLimit; iteration++ {
		completion, err := r.Provider.Generate(ctx, role.SystemPrompt, messages, toolDefs)
		if err != nil {
			// Retry the agent turn once on an LLM call failure; on a
			// second failure emit a generic apology and leave FSM state
			// untouched (spec.md §4.11) rather than bubbling a raw error.
			completion, err = r.Provider.Generate(ctx, role.SystemPrompt, messages, toolDefs)
		}
		if err != nil {
			outcome.Failure = FailureTransient
			outcome.Text = apologyAr
			if r.Logger != nil {
				r.Logger.Warn("llm generate failed twice", "role", role.Name, "error", err)
			}
			return outcome, nil
		}

		if len(completion.ToolCalls) == 0 {
			cleaned, handoff := ExtractHandoff(completion.Text)
			outcome.Text = cleaned
			outcome.Handoff = handoff
			outcome.NewMessages = append(outcome.NewMessages, domain.HistoryMessage{Role: domain.RoleAssistant, Content: cleaned})
			return outcome, nil
		}

		assistantMsg := llm.Message{Role: "assistant", Content: completion.Text, ToolCalls: completion.ToolCalls}
		messages = append(messages, assistantMsg)

		if r.Logger != nil {
			names := make([]string, len(completion.ToolCalls))
			for i, tc := range completion.ToolCalls {
				names[i] = tc.Name
			}
			r.Logger.Debug("agent iteration", "role", role.Name, "iteration", iteration, "tools", names)
		}

		// Parallel tool calls within one response execute sequentially in
		// listed order; each sees the mutations of the previous ones
		// (spec.md §4.2).
		for _, call := range completion.ToolCalls {
			result, execErr := r.Tools.Execute(ctx, call.Name, session, call.Arguments)
			if execErr != nil {
				outcome.Failure = FailureProgrammer
				return outcome, fmt.Errorf("agent %s: tool %s: %w", role.Name, call.Name, execErr)
			}

			record := ToolCallRecord{Name: call.Name, Args: call.Arguments, Result: result}
			outcome.ToolCalls = append(outcome.ToolCalls, record)

			toolContent := result.Message
			if raw, mErr := json.Marshal(result); mErr == nil {
				toolContent = string(raw)
			}
			messages = append(messages, llm.Message{Role: "tool", Content: toolContent, ToolCallID: call.ID, Name: call.Name})
			outcome.NewMessages = append(outcome.NewMessages, domain.HistoryMessage{
				Role: domain.RoleTool, Content: toolContent, ToolCallID: call.ID, ToolName: call.Name,
			})

			if !result.OK && call.Name == lastFailedTool {
				consecutiveToolFailures++
			} else if !result.OK {
				lastFailedTool = call.Name
				consecutiveToolFailures = 1
			} else {
				lastFailedTool = ""
				consecutiveToolFailures = 0
			}

			if consecutiveToolFailures >= 2 {
				outcome.Failure = FailureIntegrity
				outcome.Text = apologyAr
				if r.Logger != nil {
					r.Logger.Warn("tool failed twice consecutively, aborting loop", "role", role.Name, "tool", call.Name)
				}
				return outcome, nil
			}
		}
	}

	outcome.Failure = FailureIntegrity
	outcome.Text = apologyAr
	if r.Logger != nil {
		r.Logger.Warn("recursion limit reached", "role", role.Name, "limit", role.RecursionLimit)
	}
	return outcome, nil
}
