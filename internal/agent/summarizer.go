package agent

import (
	"context"
	"fmt"

	"github.com/sawtai/sawt/internal/domain"
	"github.com/sawtai/sawt/internal/llm"
)

// Summarizer produces the ≤500-token Arabic rolling summary that replaces
// raw history in future prompts (spec.md §4.5, §4.8), grounded on
// original_source's agents/summarizer_agent.py turn-counting approach: a
// single LLM call, no tools.
type Summarizer struct {
	Provider llm.Provider
}

// Summarize folds the session's full conversation history (not the
// windowed slice RunTurn uses) into a fresh Arabic summary and stores it
// on the session.
func (s *Summarizer) Summarize(ctx context.Context, session *domain.Session) error {
	role := Roles[RoleSummarizer]

	messages := make([]llm.Message, 0, len(session.ConversationHistory)+1)
	if session.ConversationSummary != "" {
		messages = append(messages, llm.Message{Role: "assistant", Content: "الملخص السابق: " + session.ConversationSummary})
	}
	for _, m := range session.ConversationHistory {
		messages = append(messages, llm.Message{Role: string(m.Role), Content: m.Content})
	}

	completion, err := s.Provider.Generate(ctx, role.SystemPrompt, messages, nil)
	if err != nil {
		return fmt.Errorf("summarize session %s: %w", session.ID, err)
	}

	session.ConversationSummary = completion.Text
	return nil
}

// significantEdges are the FSM transitions that force an immediate
// summarization pass regardless of the turn-count schedule (spec.md
// §4.5, §4.8).
var significantEdges = map[[2]domain.FSMState]bool{
	{domain.StateGreeting, domain.StateLocation}: true,
	{domain.StateLocation, domain.StateOrdering}: true,
	{domain.StateOrdering, domain.StateCheckout}: true,
}

// ShouldSummarize reports whether a transition from `from` to `to`, the
// current user-turn count, or a forced-by-token-threshold flag should
// trigger a summarization pass (spec.md §4.8: significant edge, every
// fifth user turn, or token-threshold breach).
func ShouldSummarize(from, to domain.FSMState, userTurnCount int, tokenThresholdBreached bool) bool {
	if significantEdges[[2]domain.FSMState{from, to}] {
		return true
	}
	if userTurnCount > 0 && userTurnCount%5 == 0 {
		return true
	}
	return tokenThresholdBreached
}
