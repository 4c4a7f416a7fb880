// Package agent implements the per-turn LLM↔tool loop (spec.md §4.2), the
// handoff marker protocol (§4.6), conversation-history windowing (§4.7),
// and the summarizer and intent-classifier internal roles (§4.5/§4.8).
// Grounded on the teacher's pkg/reasoning chain-of-thought iterate-until-
// no-tool-calls engine and its prompt_slots.go pattern of keeping prompt
// text as data rather than inline string literals.
package agent

import (
	_ "embed"

	"github.com/sawtai/sawt/internal/llm"
	"github.com/sawtai/sawt/internal/tool"
)

//go:embed prompts/greeting_ar.txt
var greetingPrompt string

//go:embed prompts/location_ar.txt
var locationPrompt string

//go:embed prompts/order_ar.txt
var orderPrompt string

//go:embed prompts/checkout_ar.txt
var checkoutPrompt string

//go:embed prompts/intent_ar.txt
var intentPrompt string

//go:embed prompts/summarizer_ar.txt
var summarizerPrompt string

//go:embed prompts/complaint_ar.txt
var complaintPrompt string

//go:embed prompts/fallback_ar.txt
var fallbackPrompt string

// RoleName identifies one of the fixed conversational personas.
type RoleName string

const (
	RoleGreeting   RoleName = "greeting"
	RoleLocation   RoleName = "location"
	RoleOrder      RoleName = "order"
	RoleCheckout   RoleName = "checkout"
	RoleIntent     RoleName = "intent"
	RoleSummarizer RoleName = "summarizer"
	RoleComplaint  RoleName = "complaint"
	RoleFallback   RoleName = "fallback"
)

// Role is a role's fixed persona, allowed tool subset, context window
// size, and recursion limit (spec.md §4.2, §4.5, §4.7).
type Role struct {
	Name           RoleName
	SystemPrompt   string
	ToolNames      []string
	HistoryWindow  int
	RecursionLimit int
	Temperature    float64
}

// Roles is the fixed table of conversational personas, grounded 1:1 on
// spec.md §4.5's role list plus the supplemental Complaint role (see
// SPEC_FULL.md §4.5) that covers state S_COMPLAINT, which spec.md's FSM
// table requires but its role list does not name.
var Roles = map[RoleName]Role{
	RoleGreeting: {
		Name:           RoleGreeting,
		SystemPrompt:   greetingPrompt,
		ToolNames:      nil,
		HistoryWindow:  4,
		RecursionLimit: 6,
		Temperature:    0.4,
	},
	RoleLocation: {
		Name:           RoleLocation,
		SystemPrompt:   locationPrompt,
		ToolNames:      []string{"check_delivery_district", "set_order_type"},
		HistoryWindow:  5,
		RecursionLimit: 6,
		Temperature:    0.3,
	},
	RoleOrder: {
		Name:         RoleOrder,
		SystemPrompt: orderPrompt,
		ToolNames: []string{
			"search_menu", "get_item_details", "add_to_order",
			"get_current_order", "update_order_item", "remove_from_order",
		},
		HistoryWindow:  6,
		RecursionLimit: 8,
		Temperature:    0.4,
	},
	RoleCheckout: {
		Name:           RoleCheckout,
		SystemPrompt:   checkoutPrompt,
		ToolNames:      []string{"calculate_total", "confirm_order", "get_current_order"},
		HistoryWindow:  6,
		RecursionLimit: 15,
		Temperature:    0.2,
	},
	RoleIntent: {
		Name:           RoleIntent,
		SystemPrompt:   intentPrompt,
		ToolNames:      nil,
		HistoryWindow:  4,
		RecursionLimit: 1,
		Temperature:    0.2,
	},
	RoleSummarizer: {
		Name:           RoleSummarizer,
		SystemPrompt:   summarizerPrompt,
		ToolNames:      nil,
		HistoryWindow:  0,
		RecursionLimit: 1,
		Temperature:    0.2,
	},
	RoleComplaint: {
		Name:           RoleComplaint,
		SystemPrompt:   complaintPrompt,
		ToolNames:      nil,
		HistoryWindow:  4,
		RecursionLimit: 6,
		Temperature:    0.3,
	},
	RoleFallback: {
		Name:           RoleFallback,
		SystemPrompt:   fallbackPrompt,
		ToolNames:      nil,
		HistoryWindow:  4,
		RecursionLimit: 6,
		Temperature:    0.3,
	},
}

// toolDefinitions narrows a tool.Registry down to the llm.ToolDefinition
// schemas for the names a role is allowed to call.
func toolDefinitions(registry *tool.Registry, names []string) []llm.ToolDefinition {
	if len(names) == 0 {
		return nil
	}
	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[n] = true
	}

	defs := make([]llm.ToolDefinition, 0, len(names))
	for _, d := range registry.Definitions() {
		if allowed[d.Name] {
			defs = append(defs, llm.ToolDefinition{Name: d.Name, Description: d.Description, Parameters: d.Parameters})
		}
	}
	return defs
}
