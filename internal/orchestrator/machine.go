// Package orchestrator implements the per-session turn loop of spec.md
// §2/§4.1: the finite-state machine over domain.FSMState, breadcrumb
// handling for backward handoffs, and the per-session mutex registry that
// serializes concurrent turns on the same conversation. Grounded on
// original_source's state/machine.py TRANSITIONS table and session_state.py.
package orchestrator

import "github.com/sawtai/sawt/internal/domain"

// Trigger names a state-transition event, mirroring original_source's
// Trigger enum.
type Trigger string

const (
	TriggerStart             Trigger = "start"
	TriggerRetry             Trigger = "retry"
	TriggerExit              Trigger = "exit"
	TriggerIntentOrdering    Trigger = "intent_ordering"
	TriggerIntentComplaint   Trigger = "intent_complaint"
	TriggerIntentInquiry     Trigger = "intent_inquiry"
	TriggerIntentOther       Trigger = "intent_other"
	TriggerConfirmOrder      Trigger = "confirm_order"
	TriggerNotOrdering       Trigger = "not_ordering"
	TriggerAddressValid      Trigger = "address_valid"
	TriggerAddressInvalid    Trigger = "address_invalid"
	TriggerPickupChosen      Trigger = "pickup_chosen"
	TriggerRestaurantClosed  Trigger = "restaurant_closed"
	TriggerCheckout          Trigger = "checkout"
	TriggerContinueOrdering  Trigger = "continue_ordering"
	TriggerOrderConfirmed    Trigger = "order_confirmed"
	TriggerModifyOrder       Trigger = "modify_order"
	TriggerCancel            Trigger = "cancel"
	TriggerResolved          Trigger = "resolved"
	TriggerEscalate          Trigger = "escalate"

	// TriggerModifyLocation is [ADDED]: original_source's TRANSITIONS table
	// has no direct ORDERING/CHECKOUT → LOCATION edge, yet spec.md §4.5
	// names "location (backward)" as a valid handoff target for both the
	// Order and Checkout roles. Ported as a new edge rather than silently
	// dropped; the came_from_* breadcrumb set alongside it tells Apply
	// which state to return to once LOCATION finishes (see Apply below).
	TriggerModifyLocation Trigger = "modify_location"
)

// transitions is the state transition table, a direct port of
// original_source's TRANSITIONS dict.
var transitions = map[domain.FSMState]map[Trigger]domain.FSMState{
	domain.StateInit: {
		TriggerStart:  domain.StateIntent,
		TriggerCancel: domain.StateInit,
	},
	domain.StateIntent: {
		TriggerIntentOrdering:  domain.StateGreeting,
		TriggerIntentComplaint: domain.StateComplaint,
		TriggerIntentInquiry:   domain.StateFallback,
		TriggerIntentOther:     domain.StateFallback,
		TriggerCancel:          domain.StateInit,
	},
	domain.StateGreeting: {
		TriggerConfirmOrder:     domain.StateLocation,
		TriggerNotOrdering:      domain.StateFallback,
		TriggerRestaurantClosed: domain.StateFinalized,
		TriggerCancel:           domain.StateInit,
	},
	domain.StateLocation: {
		TriggerAddressValid:     domain.StateOrdering,
		TriggerPickupChosen:     domain.StateOrdering,
		TriggerRestaurantClosed: domain.StateFinalized,
		TriggerCancel:           domain.StateInit,
	},
	domain.StateOrdering: {
		TriggerCheckout:         domain.StateCheckout,
		TriggerContinueOrdering: domain.StateOrdering,
		TriggerModifyLocation:   domain.StateLocation,
		TriggerCancel:           domain.StateInit,
	},
	domain.StateCheckout: {
		TriggerOrderConfirmed: domain.StateFinalized,
		TriggerModifyOrder:    domain.StateOrdering,
		TriggerModifyLocation: domain.StateLocation,
		TriggerCancel:         domain.StateInit,
	},
	domain.StateFinalized: {
		TriggerStart: domain.StateIntent,
	},
	domain.StateComplaint: {
		TriggerResolved: domain.StateGreeting,
		TriggerEscalate: domain.StateFinalized,
		TriggerCancel:   domain.StateInit,
	},
	domain.StateFallback: {
		TriggerRetry:          domain.StateIntent,
		TriggerExit:           domain.StateFinalized,
		TriggerIntentOrdering: domain.StateGreeting,
		TriggerCancel:         domain.StateInit,
	},
}

// NextState returns the state reached from current by trigger, and
// whether that transition is defined.
func NextState(current domain.FSMState, trigger Trigger) (domain.FSMState, bool) {
	next, ok := transitions[current][trigger]
	return next, ok
}

// Apply transitions session.State via trigger in place, tracking the
// "came_from_*" breadcrumbs that let a later backward handoff know which
// state to return to (spec.md §4.1, §8.2). Returns false if the
// transition is not defined for the session's current state.
func Apply(session *domain.Session, trigger Trigger) bool {
	// LOCATION's forward exit (address validated or pickup chosen) lands
	// back in CHECKOUT instead of ORDERING when the visit to LOCATION was
	// itself a backward handoff from CHECKOUT (spec.md §4.1's breadcrumb
	// disambiguation).
	if session.State == domain.StateLocation && session.CameFromCheckout &&
		(trigger == TriggerAddressValid || trigger == TriggerPickupChosen) {
		session.CameFromCheckout = false
		session.CameFromOrder = false
		session.State = domain.StateCheckout
		return true
	}

	next, ok := NextState(session.State, trigger)
	if !ok {
		return false
	}

	// cancel empties the cart and clears customer/location/order-type
	// state in addition to moving the FSM, per spec.md §4.1's "resets FSM
	// to INIT and empties the cart" and §8's cancel-from-any-state
	// property. domain.Session.Reset handles all of it, including the
	// breadcrumbs the switch below would otherwise clear.
	if trigger == TriggerCancel {
		session.Reset()
		return true
	}

	switch {
	case trigger == TriggerModifyOrder:
		session.CameFromCheckout = true
	case session.State == domain.StateCheckout && trigger == TriggerModifyLocation:
		session.CameFromCheckout = true
	case session.State == domain.StateOrdering && trigger == TriggerModifyLocation:
		session.CameFromOrder = true
	case trigger == TriggerCheckout:
		session.CameFromCheckout = false
		session.CameFromOrder = false
	}

	session.State = next
	return true
}

// RoleForState returns the agent role name that owns a state, a direct
// port of original_source's get_agent_for_state.
func RoleForState(state domain.FSMState) string {
	switch state {
	case domain.StateInit, domain.StateIntent:
		return "intent"
	case domain.StateGreeting:
		return "greeting"
	case domain.StateLocation:
		return "location"
	case domain.StateOrdering:
		return "order"
	case domain.StateCheckout:
		return "checkout"
	case domain.StateFinalized:
		return "summarizer"
	case domain.StateComplaint:
		return "complaint"
	default:
		return "fallback"
	}
}
