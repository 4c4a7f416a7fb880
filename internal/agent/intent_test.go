package agent

import (
	"context"
	"testing"

	"github.com/sawtai/sawt/internal/llm"
)

type stubProvider struct {
	texts     []string
	toolCalls [][]llm.ToolCall
	calls     int
	err       error
	// errCalls, when set, makes Generate fail with err on only the first
	// errCalls invocations before falling through to texts/toolCalls —
	// used to test retry-then-succeed. err alone (errCalls == 0) fails
	// every call.
	errCalls int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Generate(ctx context.Context, system string, messages []llm.Message, tools []llm.ToolDefinition) (llm.Completion, error) {
	if s.err != nil && (s.errCalls == 0 || s.calls < s.errCalls) {
		s.calls++
		return llm.Completion{}, s.err
	}
	i := s.calls
	s.calls++
	if i >= len(s.texts) {
		i = len(s.texts) - 1
	}
	var calls []llm.ToolCall
	if i < len(s.toolCalls) {
		calls = s.toolCalls[i]
	}
	return llm.Completion{Text: s.texts[i], ToolCalls: calls}, nil
}

func TestIntentClassifierParsesValidJSON(t *testing.T) {
	classifier := &IntentClassifier{Provider: &stubProvider{texts: []string{
		`{"intent":"complaint","confidence":0.9,"rationale":"شكوى واضحة"}`,
	}}}

	result, err := classifier.Classify(context.Background(), "الطلب وصل بارد")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if result.Intent != IntentComplaint {
		t.Errorf("Intent = %q, want complaint", result.Intent)
	}
}

func TestIntentClassifierFallsBackOnMalformedJSON(t *testing.T) {
	classifier := &IntentClassifier{Provider: &stubProvider{texts: []string{"ليس جيسون صالح"}}}

	result, err := classifier.Classify(context.Background(), "أريد طلب برجر")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if result.Intent != IntentOrdering {
		t.Errorf("Intent = %q, want ordering fallback", result.Intent)
	}
}

func TestIntentClassifierFallsBackOnInvalidIntentString(t *testing.T) {
	classifier := &IntentClassifier{Provider: &stubProvider{texts: []string{
		`{"intent":"unknown_value","confidence":0.5}`,
	}}}

	result, err := classifier.Classify(context.Background(), "؟")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if result.Intent != IntentOrdering {
		t.Errorf("Intent = %q, want ordering fallback", result.Intent)
	}
}

func TestIntentClassifierRetriesOnceThenSucceeds(t *testing.T) {
	classifier := &IntentClassifier{Provider: &stubProvider{
		err:      context.DeadlineExceeded,
		errCalls: 1,
		texts:    []string{`{"intent":"inquiry","confidence":0.7}`},
	}}

	result, err := classifier.Classify(context.Background(), "كم سعر البرجر؟")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if result.Intent != IntentInquiry {
		t.Errorf("Intent = %q, want inquiry after one retry", result.Intent)
	}
}

func TestIntentClassifierFallsBackAfterTwoProviderFailures(t *testing.T) {
	classifier := &IntentClassifier{Provider: &stubProvider{err: context.DeadlineExceeded}}

	result, err := classifier.Classify(context.Background(), "أريد طلب برجر")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if result.Intent != IntentOrdering {
		t.Errorf("Intent = %q, want ordering fallback", result.Intent)
	}
}

func TestIntentTrigger(t *testing.T) {
	cases := map[Intent]string{
		IntentOrdering:  "intent_ordering",
		IntentComplaint: "intent_complaint",
		IntentInquiry:   "intent_inquiry",
		IntentOther:     "intent_other",
	}
	for intent, want := range cases {
		if got := intent.Trigger(); got != want {
			t.Errorf("%s.Trigger() = %q, want %q", intent, got, want)
		}
	}
}
