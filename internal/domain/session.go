// Package domain holds the plain data types shared by every component of
// the conversation orchestration core: sessions, carts, menu items, and the
// durable order/cart invariants that the orchestrator enforces.
package domain

import "time"

// FSMState is one of the per-session conversation states.
type FSMState string

const (
	StateInit      FSMState = "INIT"
	StateIntent    FSMState = "INTENT"
	StateGreeting  FSMState = "GREETING"
	StateLocation  FSMState = "LOCATION"
	StateOrdering  FSMState = "ORDERING"
	StateCheckout  FSMState = "CHECKOUT"
	StateFinalized FSMState = "FINALIZED"
	StateComplaint FSMState = "COMPLAINT"
	StateFallback  FSMState = "FALLBACK"
)

// OrderType is how the customer wants to receive the order.
type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypePickup   OrderType = "pickup"
)

// Role identifies the speaker of a conversation-history message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// HistoryMessage is one turn of raw conversation history, preserved only
// until it is folded into the session's rolling summary (see §4.7/§4.8 of
// SPEC_FULL.md).
type HistoryMessage struct {
	Role       Role   `json:"role"`
	Content    string `json:"content"`
	ToolCallID string `json:"tool_call_id,omitempty"`
	ToolName   string `json:"tool_name,omitempty"`
}

// Location is the customer's delivery location, or a bare placeholder when
// the order type is pickup.
type Location struct {
	AreaID   *int64 `json:"area_id,omitempty"`
	AreaName string `json:"area_name,omitempty"`
	Street   string `json:"street,omitempty"`
	Building string `json:"building,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Complete reports whether all fields required for a delivery address are
// present (area/street/building). Pickup orders never need this.
func (l Location) Complete() bool {
	return l.AreaName != "" && l.Street != "" && l.Building != ""
}

// CartItemModifier is one selected modifier on a cart line.
type CartItemModifier struct {
	ModifierID  int64  `json:"modifier_id"`
	Name        string `json:"name"`
	PriceDelta  int64  `json:"price_delta_halalas"`
}

// CartItem is one line of the cart. LineTotal is computed once at insertion
// time from the menu price snapshot and is never recomputed from live menu
// data (invariant: see SPEC_FULL.md §3 / spec.md §8.1).
type CartItem struct {
	MenuItemID int64               `json:"menu_item_id"`
	Name       string              `json:"name"`
	Quantity   int                 `json:"quantity"`
	UnitPrice  int64               `json:"unit_price_halalas"`
	LineTotal  int64               `json:"line_total_halalas"`
	Modifiers  []CartItemModifier  `json:"modifiers,omitempty"`
	Notes      string              `json:"notes,omitempty"`
}

// Recompute sets LineTotal from UnitPrice, Modifiers and Quantity. Called
// only when a line is first created or its quantity/modifiers change; it
// must never be driven by fresh catalog data once the line exists.
func (c *CartItem) Recompute() {
	base := c.UnitPrice
	for _, m := range c.Modifiers {
		base += m.PriceDelta
	}
	c.LineTotal = base * int64(c.Quantity)
}

// Cart is the ordered sequence of cart lines plus the convenience subtotal.
type Cart []CartItem

// Subtotal sums every line's LineTotal.
func (c Cart) Subtotal() int64 {
	var sum int64
	for _, item := range c {
		sum += item.LineTotal
	}
	return sum
}

// IndexOf returns the index of the line matching (menuItemID, notes), or -1.
// Matching by (item, notes) pair is what lets add_to_order merge duplicate
// additions by summing quantity (spec.md §4.4).
func (c Cart) IndexOf(menuItemID int64, notes string) int {
	for i, item := range c {
		if item.MenuItemID == menuItemID && item.Notes == notes {
			return i
		}
	}
	return -1
}

// Session is the durable per-session conversational + order state.
type Session struct {
	ID      string   `json:"id"`
	State   FSMState `json:"fsm_state"`

	CustomerName  string `json:"customer_name,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`

	Location  Location  `json:"location"`
	OrderType OrderType `json:"order_type,omitempty"`

	Cart              Cart   `json:"cart"`
	AppliedPromoCode  string `json:"applied_promo_code,omitempty"`

	ConversationHistory []HistoryMessage `json:"conversation_history"`
	ConversationSummary string           `json:"conversation_summary,omitempty"`

	CameFromCheckout bool `json:"came_from_checkout"`
	CameFromOrder    bool `json:"came_from_order"`

	Metadata map[string]any `json:"metadata,omitempty"`

	UserTurnCount int `json:"user_turn_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its inactivity window as of
// the given wall-clock time.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Reset clears conversational and cart state back to a fresh INIT session,
// keeping the identifier. Used by the `cancel` trigger (spec.md §4.1, §8.8).
func (s *Session) Reset() {
	s.State = StateInit
	s.CustomerName = ""
	s.CustomerPhone = ""
	s.Location = Location{}
	s.OrderType = ""
	s.Cart = nil
	s.AppliedPromoCode = ""
	s.CameFromCheckout = false
	s.CameFromOrder = false
}
