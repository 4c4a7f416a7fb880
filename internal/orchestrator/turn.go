package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sawtai/sawt/internal/agent"
	"github.com/sawtai/sawt/internal/domain"
	"github.com/sawtai/sawt/internal/hours"
	"github.com/sawtai/sawt/internal/llm"
	"github.com/sawtai/sawt/internal/store"
	"github.com/sawtai/sawt/internal/textutil"
	"github.com/sawtai/sawt/internal/tool"
)

// cancelConfirmationAr is returned when a user-text cancellation phrase is
// detected, short-circuiting the role turn (spec.md §4.1, §8's
// cancel-from-any-state property).
const cancelConfirmationAr = "تم إلغاء طلبك وتفريغ السلة، يسعدنا خدمتك في أي وقت آخر."

// Orchestrator is the single authority for session state transitions,
// grounded on spec.md §4.1's data-flow: classify/dispatch to the state's
// role, run its LLM↔tool loop, reconcile tool-result side effects into the
// session, apply the handoff trigger, and persist.
type Orchestrator struct {
	Sessions *store.SessionStore
	Runner   *agent.Runner
	Intent   *agent.IntentClassifier
	Summary  *agent.Summarizer
	Hours    hours.Gate
	Logger   *slog.Logger

	locks *locks
}

// New builds an Orchestrator.
func New(sessions *store.SessionStore, provider llm.Provider, tools *tool.Registry, hoursGate hours.Gate, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		Sessions: sessions,
		Runner:   agent.NewRunner(provider, tools, logger),
		Intent:   &agent.IntentClassifier{Provider: provider},
		Summary:  &agent.Summarizer{Provider: provider},
		Hours:    hoursGate,
		Logger:   logger,
		locks:    newLocks(),
	}
}

// Turn processes one user message for a session: load, serialize on the
// session's lock, run the FSM-dispatched role turn, reconcile, persist.
func (o *Orchestrator) Turn(ctx context.Context, sessionID, userText string) (string, error) {
	unlock := o.locks.lock(sessionID)
	defer unlock()

	session, err := o.Sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load session %s: %w", sessionID, err)
	}

	reply, err := o.runOnce(ctx, session, userText)
	if err != nil {
		return "", err
	}

	if saveErr := o.Sessions.Save(ctx, session); saveErr != nil {
		return "", fmt.Errorf("save session %s: %w", sessionID, saveErr)
	}
	return reply, nil
}

func (o *Orchestrator) runOnce(ctx context.Context, session *domain.Session, userText string) (string, error) {
	// Checked against the state the user was actually in when they sent
	// this message, before TriggerStart moves a fresh session out of
	// INIT — a brand-new session has nothing to cancel.
	if session.State != domain.StateInit && session.State != domain.StateFinalized && textutil.IsCancellationPhrase(userText) {
		Apply(session, TriggerCancel)
		return cancelConfirmationAr, nil
	}

	if session.State == domain.StateInit {
		Apply(session, TriggerStart)
	}

	if session.State == domain.StateIntent {
		classified, err := o.Intent.Classify(ctx, userText)
		if err != nil {
			return "", err
		}
		Apply(session, Trigger(classified.Intent.Trigger()))
	}

	// Entering GREETING, the restaurant's hours gate is checked
	// programmatically rather than guessed by the LLM, per spec.md
	// §4.10 — the Greeting role's prompt never needs to know the time.
	if session.State == domain.StateGreeting && !o.Hours.IsOpen(time.Now()) {
		Apply(session, TriggerRestaurantClosed)
		return "عذراً، المطعم مغلق حالياً. " + o.Hours.NextOpeningDescriptionAr(), nil
	}

	role, ok := agent.Roles[agent.RoleName(RoleForState(session.State))]
	if !ok {
		role = agent.Roles[agent.RoleComplaint]
	}

	fromState := session.State
	hint := handoffHint(session)

	outcome, err := o.Runner.RunTurn(ctx, session, role, hint, userText)
	if err != nil && outcome.Failure != agent.FailureIntegrity {
		return "", err
	}

	session.ConversationHistory = append(session.ConversationHistory, outcome.NewMessages...)
	session.UserTurnCount++

	reconcile(session, outcome.ToolCalls)

	trigger := mapHandoff(fromState, outcome.Handoff)
	if trigger != "" {
		Apply(session, trigger)
	}

	if ShouldSummarize(fromState, session.State, session.UserTurnCount, false) {
		if sErr := o.Summary.Summarize(ctx, session); sErr != nil && o.Logger != nil {
			o.Logger.Warn("summarization failed", "session", session.ID, "error", sErr)
		}
	}

	return outcome.Text, nil
}

// mapHandoff resolves a role's [HANDOFF:<target>] marker, read in the
// context of the state it was emitted from, into the orchestrator Trigger
// that the transition table expects (spec.md §4.6).
func mapHandoff(from domain.FSMState, target string) Trigger {
	// "cancel" is a valid handoff target from any role that owns a
	// non-FINALIZED state, mirroring original_source's per-role
	// next_action == "cancel" branch (checkout_agent.py, order_agent.py,
	// location_agent.py) rather than a single role's handoff set.
	if target == "cancel" {
		switch from {
		case domain.StateIntent, domain.StateGreeting, domain.StateLocation,
			domain.StateOrdering, domain.StateCheckout, domain.StateComplaint, domain.StateFallback:
			return TriggerCancel
		}
	}

	switch from {
	case domain.StateGreeting:
		switch target {
		case "location":
			return TriggerConfirmOrder
		case "end":
			return TriggerNotOrdering
		}
	case domain.StateLocation:
		switch target {
		case "order":
			return TriggerAddressValid
		case "checkout":
			return TriggerAddressValid // breadcrumb override resolves destination in Apply
		}
	case domain.StateOrdering:
		switch target {
		case "checkout":
			return TriggerCheckout
		case "location":
			return TriggerModifyLocation
		}
	case domain.StateCheckout:
		switch target {
		case "end":
			return TriggerOrderConfirmed
		case "order":
			return TriggerModifyOrder
		case "location":
			return TriggerModifyLocation
		}
	case domain.StateComplaint:
		switch target {
		case "resolved":
			return TriggerResolved
		case "escalate":
			return TriggerEscalate
		}
	case domain.StateFallback:
		switch target {
		case "retry":
			return TriggerRetry
		case "exit":
			return TriggerExit
		}
	}
	return ""
}

// handoffHint builds the short Arabic context-seed string the next role's
// prompt receives (spec.md §4.6 step 5).
func handoffHint(session *domain.Session) string {
	switch {
	case session.State == domain.StateLocation && session.CameFromCheckout:
		return "العميل يعدّل عنوان التوصيل قبل إتمام الدفع، أعده لصفحة الدفع بعد الانتهاء"
	case session.State == domain.StateOrdering && session.CameFromCheckout:
		return "العميل يعدّل السلة قبل إتمام الدفع"
	case session.State == domain.StateLocation && session.CameFromOrder:
		return "العميل لديه أصناف في السلة بالفعل وغيّر رأيه بخصوص التوصيل أو الاستلام"
	case session.OrderType == domain.OrderTypeDelivery:
		return "العميل جاهز يختار أكله، نوع الطلب: توصيل"
	case session.OrderType == domain.OrderTypePickup:
		return "العميل جاهز يختار أكله، نوع الطلب: استلام"
	default:
		return ""
	}
}

// reconcile scans the turn's tool results for the well-known shapes that
// carry state-changing side effects, and copies them into the session.
// Tools write their own changes (cart, order type, location, promo code,
// customer details) into the session inside Execute; reconcile covers the
// side effects that only appear in Result.Data (confirm_order's order
// number). Assistant prose never updates Session fields (spec.md §4.2).
func reconcile(session *domain.Session, calls []agent.ToolCallRecord) {
	for _, call := range calls {
		if !call.Result.OK || call.Result.Data == nil {
			continue
		}
		switch call.Name {
		case "confirm_order":
			if orderNumber, ok := call.Result.Data["order_number"]; ok {
				if session.Metadata == nil {
					session.Metadata = map[string]any{}
				}
				session.Metadata["last_order_number"] = orderNumber
			}
		}
	}
}
