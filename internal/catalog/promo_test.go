package catalog

import (
	"testing"

	"github.com/sawtai/sawt/internal/domain"
)

func TestComputeDiscountPercentageClampedByMax(t *testing.T) {
	maxDiscount := int64(300)
	p := domain.PromoCode{DiscountType: domain.DiscountPercentage, Value: 1500, MaxDiscount: &maxDiscount}
	got := computeDiscount(p, 5000)
	if got != 300 {
		t.Errorf("computeDiscount = %d, want 300 (clamped by max)", got)
	}
}

func TestComputeDiscountPercentageUnclamped(t *testing.T) {
	p := domain.PromoCode{DiscountType: domain.DiscountPercentage, Value: 1000}
	got := computeDiscount(p, 5000)
	if got != 500 {
		t.Errorf("computeDiscount = %d, want 500 (10%% of 5000)", got)
	}
}

func TestComputeDiscountFixedCannotExceedSubtotal(t *testing.T) {
	p := domain.PromoCode{DiscountType: domain.DiscountFixed, Value: 10000}
	got := computeDiscount(p, 2000)
	if got != 2000 {
		t.Errorf("computeDiscount = %d, want 2000 (capped at subtotal)", got)
	}
}

func TestComputeDiscountFixedBelowSubtotal(t *testing.T) {
	p := domain.PromoCode{DiscountType: domain.DiscountFixed, Value: 500}
	got := computeDiscount(p, 2000)
	if got != 500 {
		t.Errorf("computeDiscount = %d, want 500", got)
	}
}
