package textutil

import (
	"regexp"
	"strings"
)

var diacritics = regexp.MustCompile(`[\x{064B}-\x{065F}\x{0670}]`)

var alefVariants = regexp.MustCompile(`[أإآا]`)

var areaPrefixes = []string{"حي ", "منطقة ", "شارع ", "طريق "}

// CleanArabicText strips tashkeel diacritics, unifies alef variants to the
// plain alef, normalizes teh marbuta to heh, removes tatweel, and collapses
// whitespace. Grounded on original_source's clean_arabic_text.
func CleanArabicText(text string) string {
	if text == "" {
		return ""
	}
	text = diacritics.ReplaceAllString(text, "")
	text = alefVariants.ReplaceAllString(text, "ا")
	text = strings.ReplaceAll(text, "ة", "ه")
	text = strings.ReplaceAll(text, "ـ", "")
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeAreaName applies CleanArabicText, strips one leading
// district-noun prefix ("حي ", "منطقة ", …), then strips a leading Arabic
// definite article "ال", so that "حي النرجس", "النرجس", and the bare noun
// "نرجس" all normalize to the same key (spec.md §4.3, §8.7). The original's
// normalize_area_name docstring claims the same but never implements the
// article strip; ported here to actually satisfy it.
func NormalizeAreaName(name string) string {
	name = CleanArabicText(name)
	for _, prefix := range areaPrefixes {
		// Clean the prefix the same way, so "منطقة " matches after teh
		// marbuta has become heh.
		prefix = CleanArabicText(prefix) + " "
		if strings.HasPrefix(name, prefix) {
			name = name[len(prefix):]
			break
		}
	}
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "ال") && len(name) > len("ال") {
		name = name[len("ال"):]
	}
	return strings.TrimSpace(name)
}

// cancellationPhrases are the explicit cancellation markers ported from
// original_source's is_negative_ar. The original mixes these in with
// general negation words ("لا", "مو", "ما ابي") under one helper, but that
// helper is itself never called anywhere in original_source — folding
// plain "لا" in here would make an ordinary "no" to a modifier question
// cancel the whole order, so only the words that unambiguously mean
// cancellation are kept.
var cancellationPhrases = []string{"الغاء", "الغي", "كنسل", "cancel"}

// IsCancellationPhrase reports whether text explicitly asks to cancel the
// order, per spec.md §4.1's "any (non-FINALIZED) | cancel | INIT" trigger.
func IsCancellationPhrase(text string) bool {
	cleaned := CleanArabicText(text)
	lower := strings.ToLower(cleaned)
	for _, phrase := range cancellationPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
