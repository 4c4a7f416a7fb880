package domain

import (
	"testing"
	"time"
)

func TestCartItemRecompute(t *testing.T) {
	item := CartItem{
		UnitPrice: 1000,
		Quantity:  2,
		Modifiers: []CartItemModifier{
			{Name: "Large", PriceDelta: 500},
		},
	}
	item.Recompute()
	if item.LineTotal != 3000 {
		t.Errorf("LineTotal = %d, want 3000", item.LineTotal)
	}
}

func TestCartSubtotal(t *testing.T) {
	cart := Cart{
		{LineTotal: 1000},
		{LineTotal: 2500},
	}
	if got := cart.Subtotal(); got != 3500 {
		t.Errorf("Subtotal() = %d, want 3500", got)
	}
}

func TestCartIndexOf(t *testing.T) {
	cart := Cart{
		{MenuItemID: 1, Notes: ""},
		{MenuItemID: 2, Notes: "no onions"},
	}
	if idx := cart.IndexOf(2, "no onions"); idx != 1 {
		t.Errorf("IndexOf matching = %d, want 1", idx)
	}
	if idx := cart.IndexOf(2, ""); idx != -1 {
		t.Errorf("IndexOf with mismatched notes = %d, want -1", idx)
	}
	if idx := cart.IndexOf(99, ""); idx != -1 {
		t.Errorf("IndexOf missing item = %d, want -1", idx)
	}
}

func TestLocationComplete(t *testing.T) {
	if (Location{}).Complete() {
		t.Error("empty location should not be complete")
	}
	full := Location{AreaName: "النرجس", Street: "شارع الملك فهد", Building: "12"}
	if !full.Complete() {
		t.Error("full location should be complete")
	}
	partial := Location{AreaName: "النرجس"}
	if partial.Complete() {
		t.Error("partial location should not be complete")
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	s := &Session{ExpiresAt: now.Add(-time.Minute)}
	if !s.Expired(now) {
		t.Error("expected session to be expired")
	}
	s.ExpiresAt = now.Add(time.Minute)
	if s.Expired(now) {
		t.Error("expected session to not be expired")
	}
}

func TestSessionReset(t *testing.T) {
	s := &Session{
		ID:               "abc",
		State:            StateCheckout,
		CustomerName:     "محمد",
		CustomerPhone:    "0501234567",
		Location:         Location{AreaName: "النرجس"},
		OrderType:        OrderTypeDelivery,
		Cart:             Cart{{MenuItemID: 1}},
		AppliedPromoCode: "SAVE10",
		CameFromCheckout: true,
		CameFromOrder:    true,
	}
	s.Reset()

	if s.ID != "abc" {
		t.Error("Reset must not clear the session ID")
	}
	if s.State != StateInit {
		t.Errorf("State = %v, want StateInit", s.State)
	}
	if s.CustomerName != "" || s.CustomerPhone != "" {
		t.Error("Reset must clear customer details")
	}
	if s.Cart != nil {
		t.Error("Reset must clear the cart")
	}
	if s.CameFromCheckout || s.CameFromOrder {
		t.Error("Reset must clear breadcrumb flags")
	}
}

func TestOrderNumber(t *testing.T) {
	o := Order{ID: 42}
	if got := o.OrderNumber(); got != "ORD-000042" {
		t.Errorf("OrderNumber() = %q, want ORD-000042", got)
	}
}
