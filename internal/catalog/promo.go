package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sawtai/sawt/internal/domain"
	"github.com/sawtai/sawt/internal/store"
)

// ErrPromoNotFound is returned when no promo code row matches.
var ErrPromoNotFound = errors.New("promo code not found")

// PromoReason enumerates why ValidatePromo rejected a code, mirroring
// original_source's PromoRepository.validate_promo rejection branches
// (spec.md §4.3, §8.8).
type PromoReason string

const (
	PromoOK             PromoReason = "ok"
	PromoNotFound       PromoReason = "not_found"
	PromoInactive       PromoReason = "inactive"
	PromoExpired        PromoReason = "expired"
	PromoNotYetValid    PromoReason = "not_yet_valid"
	PromoUsageExhausted PromoReason = "usage_exhausted"
	PromoBelowMinOrder  PromoReason = "below_min_order"
)

// PromoValidation is the result of checking a code against an order subtotal.
type PromoValidation struct {
	Reason         PromoReason
	Promo          domain.PromoCode
	DiscountHalalas int64
}

// PromoRepository reads promo_codes directly (not cached, since usage_count
// changes on every confirmed order and must always be read fresh).
type PromoRepository struct {
	db *store.DB
}

// NewPromoRepository builds a PromoRepository over the shared database handle.
func NewPromoRepository(db *store.DB) *PromoRepository {
	return &PromoRepository{db: db}
}

func (r *PromoRepository) find(ctx context.Context, code string) (domain.PromoCode, error) {
	query := r.db.Rebind(`SELECT id, code, discount_type, value_halalas, min_order_halalas,
		max_discount_halalas, usage_limit, usage_count, is_active, valid_from, valid_until
		FROM promo_codes WHERE code = ?`)

	var (
		p                          domain.PromoCode
		discountType               string
		minOrder, maxDiscount      sql.NullInt64
		usageLimit                 sql.NullInt64
		validFrom, validUntil      sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, strings.ToUpper(strings.TrimSpace(code))).Scan(
		&p.ID, &p.Code, &discountType, &p.Value, &minOrder, &maxDiscount,
		&usageLimit, &p.UsageCount, &p.IsActive, &validFrom, &validUntil,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PromoCode{}, ErrPromoNotFound
	}
	if err != nil {
		return domain.PromoCode{}, fmt.Errorf("query promo_codes: %w", err)
	}

	p.DiscountType = domain.DiscountType(discountType)
	if minOrder.Valid {
		p.MinOrder = &minOrder.Int64
	}
	if maxDiscount.Valid {
		p.MaxDiscount = &maxDiscount.Int64
	}
	if usageLimit.Valid {
		v := int(usageLimit.Int64)
		p.UsageLimit = &v
	}
	if validFrom.Valid {
		p.ValidFrom = &validFrom.Time
	}
	if validUntil.Valid {
		p.ValidUntil = &validUntil.Time
	}
	return p, nil
}

// ValidatePromo applies the full rule chain from original_source's
// validate_promo: active -> within validity window -> usage limit ->
// min_order -> compute discount, clamped to the subtotal.
func (r *PromoRepository) ValidatePromo(ctx context.Context, code string, subtotalHalalas int64, now time.Time) (PromoValidation, error) {
	promo, err := r.find(ctx, code)
	if errors.Is(err, ErrPromoNotFound) {
		return PromoValidation{Reason: PromoNotFound}, nil
	}
	if err != nil {
		return PromoValidation{}, err
	}

	if !promo.IsActive {
		return PromoValidation{Reason: PromoInactive, Promo: promo}, nil
	}
	if promo.ValidFrom != nil && now.Before(*promo.ValidFrom) {
		return PromoValidation{Reason: PromoNotYetValid, Promo: promo}, nil
	}
	if promo.ValidUntil != nil && now.After(*promo.ValidUntil) {
		return PromoValidation{Reason: PromoExpired, Promo: promo}, nil
	}
	if promo.UsageLimit != nil && promo.UsageCount >= *promo.UsageLimit {
		return PromoValidation{Reason: PromoUsageExhausted, Promo: promo}, nil
	}
	if promo.MinOrder != nil && subtotalHalalas < *promo.MinOrder {
		return PromoValidation{Reason: PromoBelowMinOrder, Promo: promo}, nil
	}

	discount := computeDiscount(promo, subtotalHalalas)
	return PromoValidation{Reason: PromoOK, Promo: promo, DiscountHalalas: discount}, nil
}

func computeDiscount(p domain.PromoCode, subtotal int64) int64 {
	var discount int64
	switch p.DiscountType {
	case domain.DiscountPercentage:
		discount = subtotal * p.Value / 10000 // value stored as basis points, e.g. 1500 = 15%
		if p.MaxDiscount != nil && discount > *p.MaxDiscount {
			discount = *p.MaxDiscount
		}
	case domain.DiscountFixed:
		discount = p.Value
	}
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
