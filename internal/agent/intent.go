package agent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sawtai/sawt/internal/llm"
)

// Intent is the classified customer intent on entering S1_INTENT (spec.md
// §4.5).
type Intent string

const (
	IntentOrdering  Intent = "ordering"
	IntentComplaint Intent = "complaint"
	IntentInquiry   Intent = "inquiry"
	IntentOther     Intent = "other"
)

// IntentResult is the intent classifier's structured output.
type IntentResult struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// IntentClassifier runs the single classification call on the user's
// first message of a conversation cycle, grounded on original_source's
// agents/intent_classifier.py. The call goes through Provider.Generate,
// which sends the provider's own configured temperature (0.3 for both
// built-in providers); the intent role's Temperature field is not passed
// to the provider.
type IntentClassifier struct {
	Provider llm.Provider
}

// fallbackIntentResult is the permissive default on any classification
// failure, per spec.md §4.5's explicit fallback rule — a misbehaving
// classifier should never block someone trying to order food.
var fallbackIntentResult = IntentResult{Intent: IntentOrdering, Confidence: 0, Rationale: "تعذر تصنيف النية، تم الافتراض أنها طلب"}

// Classify asks the LLM to classify userText and parses its JSON object
// response. On a provider failure it retries once (spec.md §4.11); on a
// second failure, or on a malformed/unrecognized response either time, it
// falls back to IntentOrdering rather than bubbling a raw error.
func (c *IntentClassifier) Classify(ctx context.Context, userText string) (IntentResult, error) {
	role := Roles[RoleIntent]
	messages := []llm.Message{{Role: "user", Content: userText}}

	completion, err := c.Provider.Generate(ctx, role.SystemPrompt, messages, nil)
	if err != nil {
		completion, err = c.Provider.Generate(ctx, role.SystemPrompt, messages, nil)
	}
	if err != nil {
		return fallbackIntentResult, nil
	}

	var result IntentResult
	text := strings.TrimSpace(completion.Text)
	if err := json.Unmarshal([]byte(text), &result); err != nil || !validIntent(result.Intent) {
		return fallbackIntentResult, nil
	}
	return result, nil
}

func validIntent(i Intent) bool {
	switch i {
	case IntentOrdering, IntentComplaint, IntentInquiry, IntentOther:
		return true
	default:
		return false
	}
}

// Trigger maps a classified intent to the orchestrator trigger that
// advances the FSM out of S1_INTENT, grounded on original_source's
// intent_to_trigger mapping.
func (i Intent) Trigger() string {
	switch i {
	case IntentOrdering:
		return "intent_ordering"
	case IntentComplaint:
		return "intent_complaint"
	case IntentInquiry:
		return "intent_inquiry"
	default:
		return "intent_other"
	}
}
