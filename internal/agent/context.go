package agent

import (
	"unicode"

	"github.com/sawtai/sawt/internal/domain"
	"github.com/sawtai/sawt/internal/llm"
)

// messageOverheadTokens is added per message on top of its character-based
// estimate, spec.md §4.7.
const messageOverheadTokens = 4.0

// tokenThreshold forces a summarization pass regardless of schedule once
// the built prompt context crosses this estimate, spec.md §4.7.
const tokenThreshold = 2000.0

// TokenEstimate is the heuristic token counter of spec.md §4.7: Arabic
// characters count ~0.5 token, any other rune ~0.25 token.
func TokenEstimate(text string) float64 {
	var total float64
	for _, r := range text {
		if isArabicRune(r) {
			total += 0.5
		} else {
			total += 0.25
		}
	}
	return total
}

func isArabicRune(r rune) bool {
	return unicode.Is(unicode.Arabic, r)
}

// messageTokenEstimate adds the per-message overhead to TokenEstimate.
func messageTokenEstimate(m domain.HistoryMessage) float64 {
	return TokenEstimate(m.Content) + messageOverheadTokens
}

// BuildContext assembles the message thread sent to the LLM for one role
// turn: system prompt is passed separately to llm.Provider.Generate; this
// builds the rest — summary, handoff hint, windowed history, current user
// turn — per spec.md §4.7's ordering. Returns the messages plus whether the
// token threshold was breached (forcing an out-of-schedule summarization).
func BuildContext(session *domain.Session, role Role, handoffHint string, userText string) ([]llm.Message, bool) {
	var messages []llm.Message

	if session.ConversationSummary != "" {
		messages = append(messages, llm.Message{Role: "assistant", Content: "معلومات سابقة: " + session.ConversationSummary})
	}
	if handoffHint != "" {
		messages = append(messages, llm.Message{Role: "assistant", Content: "معلومات: " + handoffHint})
	}

	window := windowedHistory(session.ConversationHistory, role.HistoryWindow)
	for _, m := range window {
		messages = append(messages, llm.Message{Role: string(m.Role), Content: m.Content, ToolCallID: m.ToolCallID, Name: m.ToolName})
	}
	messages = append(messages, llm.Message{Role: "user", Content: userText})

	var estimate float64
	for _, m := range messages {
		estimate += TokenEstimate(m.Content) + messageOverheadTokens
	}
	return messages, estimate > tokenThreshold
}

// windowedHistory returns the last n messages of history, oldest first.
func windowedHistory(history []domain.HistoryMessage, n int) []domain.HistoryMessage {
	if n <= 0 || len(history) == 0 {
		return nil
	}
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
