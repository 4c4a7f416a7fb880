package agent

import (
	"context"
	"testing"

	"github.com/sawtai/sawt/internal/domain"
)

func TestSummarizerOverwritesConversationSummary(t *testing.T) {
	summarizer := &Summarizer{Provider: &stubProvider{texts: []string{"ملخص جديد للمحادثة"}}}
	session := &domain.Session{
		ConversationSummary: "ملخص قديم",
		ConversationHistory: []domain.HistoryMessage{
			{Role: domain.RoleUser, Content: "أريد طلب برجر"},
			{Role: domain.RoleAssistant, Content: "تم إضافة البرجر"},
		},
	}

	if err := summarizer.Summarize(context.Background(), session); err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if session.ConversationSummary != "ملخص جديد للمحادثة" {
		t.Errorf("ConversationSummary = %q, want the new summary", session.ConversationSummary)
	}
}

func TestShouldSummarizeSignificantEdge(t *testing.T) {
	if !ShouldSummarize(domain.StateGreeting, domain.StateLocation, 1, false) {
		t.Error("expected significant-edge transition to force summarization")
	}
	if ShouldSummarize(domain.StateOrdering, domain.StateOrdering, 1, false) {
		t.Error("unrelated transition should not force summarization")
	}
}

func TestShouldSummarizeEveryFifthTurn(t *testing.T) {
	if !ShouldSummarize(domain.StateOrdering, domain.StateOrdering, 5, false) {
		t.Error("expected turn 5 to force summarization")
	}
	if ShouldSummarize(domain.StateOrdering, domain.StateOrdering, 4, false) {
		t.Error("turn 4 should not force summarization")
	}
}

func TestShouldSummarizeTokenThresholdBreach(t *testing.T) {
	if !ShouldSummarize(domain.StateOrdering, domain.StateOrdering, 1, true) {
		t.Error("expected token threshold breach to force summarization")
	}
}
