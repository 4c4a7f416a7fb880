package domain

import (
	"fmt"
	"time"
)

// OrderStatus tracks order lifecycle; this core only ever writes "confirmed".
type OrderStatus string

const OrderStatusConfirmed OrderStatus = "confirmed"

// Order is the append-only header row written atomically with its line
// items and their modifiers by confirm_order (spec.md §4.4, §4.9).
type Order struct {
	ID            int64       `json:"id"`
	SessionID     string      `json:"session_id"`
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone"`
	OrderType     OrderType   `json:"order_type"`
	DeliveryArea  *int64      `json:"delivery_area_id,omitempty"`
	Subtotal      int64       `json:"subtotal_halalas"`
	DeliveryFee   int64       `json:"delivery_fee_halalas"`
	Discount      int64       `json:"discount_halalas"`
	Total         int64       `json:"total_halalas"`
	PromoCodeID   *int64      `json:"promo_code_id,omitempty"`
	Status        OrderStatus `json:"status"`
	Notes         string      `json:"notes,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// OrderNumber formats the user-facing order identifier (spec.md §6).
func (o Order) OrderNumber() string {
	return fmt.Sprintf("ORD-%06d", o.ID)
}

// OrderItem is one persisted line of a confirmed order.
type OrderItem struct {
	ID            int64               `json:"id"`
	OrderID       int64               `json:"order_id"`
	MenuItemID    int64               `json:"menu_item_id"`
	NameAr        string              `json:"name_ar"`
	Quantity      int                 `json:"quantity"`
	UnitPrice     int64               `json:"unit_price_halalas"`
	TotalPrice    int64               `json:"total_price_halalas"`
	Notes         string              `json:"notes,omitempty"`
	Modifiers     []OrderItemModifier `json:"modifiers,omitempty"`
}

// OrderItemModifier is a persisted modifier selection on an order item.
type OrderItemModifier struct {
	ID             int64  `json:"id"`
	OrderItemID    int64  `json:"order_item_id"`
	ModifierID     int64  `json:"modifier_id"`
	NameAr         string `json:"name_ar"`
	PriceDelta     int64  `json:"price_delta_halalas"`
}
