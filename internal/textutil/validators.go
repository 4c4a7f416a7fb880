package textutil

import (
	"regexp"
	"strings"
)

var (
	phoneSeparators  = regexp.MustCompile(`[\s\-().]`)
	localPhonePattern = regexp.MustCompile(`^05\d{8}$`)
	nameCharPattern   = regexp.MustCompile(`^[\p{Arabic}a-zA-Z\s]+$`)
)

// ValidateSaudiPhone normalizes numerals and separators, folds the
// international prefixes (+966/966) to the local 05XXXXXXXX form, and
// validates the result. Returns the normalized phone and "" on success, or
// ("", errorAr) on failure (spec.md §4.9).
func ValidateSaudiPhone(raw string) (string, string) {
	phone := NormalizeNumerals(raw)
	phone = phoneSeparators.ReplaceAllString(phone, "")

	switch {
	case strings.HasPrefix(phone, "+966"):
		phone = "0" + phone[4:]
	case strings.HasPrefix(phone, "966"):
		phone = "0" + phone[3:]
	}

	if !localPhonePattern.MatchString(phone) {
		return "", "رقم الجوال غير صحيح. يجب أن يبدأ بـ 05 ويتكون من 10 أرقام"
	}
	return phone, ""
}

// ValidateCustomerName requires at least two non-space characters, Arabic
// or Latin letters and spaces only, with internal whitespace collapsed.
func ValidateCustomerName(raw string) (string, string) {
	trimmed := strings.TrimSpace(raw)
	if len([]rune(strings.ReplaceAll(trimmed, " ", ""))) < 2 {
		return "", "يرجى إدخال اسم صحيح (حرفين على الأقل)"
	}

	cleaned := strings.Join(strings.Fields(trimmed), " ")
	if !nameCharPattern.MatchString(cleaned) {
		return "", "الاسم يجب أن يحتوي على حروف فقط"
	}
	return cleaned, ""
}

// ValidateQuantity enforces the [1, 99] bound on cart-item quantities.
func ValidateQuantity(qty int) string {
	if qty < 1 {
		return "الكمية يجب أن تكون 1 على الأقل"
	}
	if qty > 99 {
		return "الحد الأقصى للكمية هو 99"
	}
	return ""
}

// Address is the cleaned {area, street, building} triple for a delivery
// order.
type Address struct {
	Area     string
	Street   string
	Building string
}

// ValidateAddress requires area/street/building to all be non-empty
// (only meaningful for delivery order types). Returns the cleaned address,
// whether it is complete, and the Arabic names of any missing fields.
func ValidateAddress(area, street, building string) (Address, bool, []string) {
	var missing []string
	var addr Address

	if len(strings.TrimSpace(area)) < 2 {
		missing = append(missing, "الحي/المنطقة")
	} else {
		addr.Area = strings.TrimSpace(area)
	}

	if len(strings.TrimSpace(street)) < 2 {
		missing = append(missing, "الشارع")
	} else {
		addr.Street = strings.TrimSpace(street)
	}

	if len(strings.TrimSpace(building)) < 1 {
		missing = append(missing, "رقم المبنى/الفيلا")
	} else {
		addr.Building = NormalizeNumerals(strings.TrimSpace(building))
	}

	return addr, len(missing) == 0, missing
}
