package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sawtai/sawt/internal/domain"
)

// OrderStore writes confirmed orders atomically (header + items + item
// modifiers + promo usage increment), grounded on original_source's
// OrderRepository.create_order, which does the same within one
// transaction (spec.md §4.4, invariant §8.5).
type OrderStore struct {
	db *DB
}

// NewOrderStore builds an OrderStore over the shared database handle.
func NewOrderStore(db *DB) *OrderStore {
	return &OrderStore{db: db}
}

// CreateOrderParams is the input to CreateOrder; PromoCode is nil when no
// promo was applied.
type CreateOrderParams struct {
	SessionID     string
	CustomerName  string
	CustomerPhone string
	OrderType     domain.OrderType
	DeliveryArea  *int64
	Subtotal      int64
	DeliveryFee   int64
	Discount      int64
	Total         int64
	PromoCodeID   *int64
	Notes         string
	Items         domain.Cart
}

// CreateOrder writes the order header, every cart line as an order_item,
// every cart-line modifier as an order_item_modifier, and — iff a promo was
// applied — increments that promo's usage_count, all inside one
// transaction. On any error nothing is written (spec.md §4.4, §4.11).
func (s *OrderStore) CreateOrder(ctx context.Context, p CreateOrderParams) (*domain.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now()
	orderID, err := s.insertOrderHeader(ctx, tx, p, now)
	if err != nil {
		return nil, err
	}

	for _, item := range p.Items {
		orderItemID, err := s.insertOrderItem(ctx, tx, orderID, item)
		if err != nil {
			return nil, err
		}
		for _, mod := range item.Modifiers {
			if err := s.insertOrderItemModifier(ctx, tx, orderItemID, mod); err != nil {
				return nil, err
			}
		}
	}

	if p.PromoCodeID != nil {
		if err := s.incrementPromoUsage(ctx, tx, *p.PromoCodeID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}

	return &domain.Order{
		ID:            orderID,
		SessionID:     p.SessionID,
		CustomerName:  p.CustomerName,
		CustomerPhone: p.CustomerPhone,
		OrderType:     p.OrderType,
		DeliveryArea:  p.DeliveryArea,
		Subtotal:      p.Subtotal,
		DeliveryFee:   p.DeliveryFee,
		Discount:      p.Discount,
		Total:         p.Total,
		PromoCodeID:   p.PromoCodeID,
		Status:        domain.OrderStatusConfirmed,
		Notes:         p.Notes,
		CreatedAt:     now,
	}, nil
}

func (s *OrderStore) insertOrderHeader(ctx context.Context, tx *sql.Tx, p CreateOrderParams, now time.Time) (int64, error) {
	query := s.db.Rebind(`INSERT INTO orders (
		session_id, customer_name, customer_phone, order_type, delivery_area_id,
		subtotal_halalas, delivery_fee_halalas, discount_halalas, total_halalas,
		promo_code_id, status, notes, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'confirmed', ?, ?)`)

	if s.db.Dialect == DialectPostgres {
		query += ` RETURNING id`
		var id int64
		err := tx.QueryRowContext(ctx, query,
			p.SessionID, p.CustomerName, p.CustomerPhone, string(p.OrderType), p.DeliveryArea,
			p.Subtotal, p.DeliveryFee, p.Discount, p.Total, p.PromoCodeID, p.Notes, now,
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("insert order: %w", err)
		}
		return id, nil
	}

	res, err := tx.ExecContext(ctx, query,
		p.SessionID, p.CustomerName, p.CustomerPhone, string(p.OrderType), p.DeliveryArea,
		p.Subtotal, p.DeliveryFee, p.Discount, p.Total, p.PromoCodeID, p.Notes, now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return res.LastInsertId()
}

func (s *OrderStore) insertOrderItem(ctx context.Context, tx *sql.Tx, orderID int64, item domain.CartItem) (int64, error) {
	query := s.db.Rebind(`INSERT INTO order_items (
		order_id, menu_item_id, name_ar, quantity, unit_price_halalas, total_price_halalas, notes
	) VALUES (?, ?, ?, ?, ?, ?, ?)`)

	if s.db.Dialect == DialectPostgres {
		query += ` RETURNING id`
		var id int64
		err := tx.QueryRowContext(ctx, query, orderID, item.MenuItemID, item.Name, item.Quantity, item.UnitPrice, item.LineTotal, item.Notes).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("insert order item: %w", err)
		}
		return id, nil
	}

	res, err := tx.ExecContext(ctx, query, orderID, item.MenuItemID, item.Name, item.Quantity, item.UnitPrice, item.LineTotal, item.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert order item: %w", err)
	}
	return res.LastInsertId()
}

func (s *OrderStore) insertOrderItemModifier(ctx context.Context, tx *sql.Tx, orderItemID int64, mod domain.CartItemModifier) error {
	query := s.db.Rebind(`INSERT INTO order_item_modifiers (
		order_item_id, modifier_id, name_ar, price_delta_halalas
	) VALUES (?, ?, ?, ?)`)
	_, err := tx.ExecContext(ctx, query, orderItemID, mod.ModifierID, mod.Name, mod.PriceDelta)
	if err != nil {
		return fmt.Errorf("insert order item modifier: %w", err)
	}
	return nil
}

func (s *OrderStore) incrementPromoUsage(ctx context.Context, tx *sql.Tx, promoCodeID int64) error {
	query := s.db.Rebind(`UPDATE promo_codes SET usage_count = usage_count + 1 WHERE id = ?`)
	if _, err := tx.ExecContext(ctx, query, promoCodeID); err != nil {
		return fmt.Errorf("increment promo usage: %w", err)
	}
	return nil
}
