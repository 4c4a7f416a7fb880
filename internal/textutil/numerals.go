// Package textutil implements the input-normalization and validation rules
// of spec.md §4.9: numeral normalization, Saudi phone validation, customer
// name validation, quantity bounds, address completeness, and the
// diacritic/alef-insensitive area-name normalization used by coverage
// lookup (§4.3). Ported from original_source/src/sawt/utils/numeral_converter.py
// and arabic_utils.py in the teacher's idiom (plain funcs, stdlib regexp).
package textutil

import "strings"

var arabicIndicToWestern = map[rune]rune{
	'٠': '0', '١': '1', '٢': '2', '٣': '3', '٤': '4',
	'٥': '5', '٦': '6', '٧': '7', '٨': '8', '٩': '9',
}

var extendedArabicToWestern = map[rune]rune{
	'۰': '0', '۱': '1', '۲': '2', '۳': '3', '۴': '4',
	'۵': '5', '۶': '6', '۷': '7', '۸': '8', '۹': '9',
}

// NormalizeNumerals converts Arabic-Indic (٠-٩) and Persian/Urdu (۰-۹)
// digits to ASCII 0-9, leaving everything else untouched. Idempotent:
// norm(norm(s)) == norm(s) (spec.md §8.6).
func NormalizeNumerals(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if w, ok := arabicIndicToWestern[r]; ok {
			b.WriteRune(w)
			continue
		}
		if w, ok := extendedArabicToWestern[r]; ok {
			b.WriteRune(w)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
