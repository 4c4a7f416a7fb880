package textutil

import "testing"

func TestCleanArabicText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"strips_diacritics", "مَرْحَبًا", "مرحبا"},
		{"unifies_alef", "أحمد إبراهيم آمال أمل", "احمد ابراهيم امال امل"},
		{"teh_marbuta_to_heh", "مدرسة", "مدرسه"},
		{"removes_tatweel", "مرحـــبا", "مرحبا"},
		{"collapses_whitespace", "مرحبا   بك", "مرحبا بك"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CleanArabicText(tc.in)
			if got != tc.want {
				t.Errorf("CleanArabicText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeAreaName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"with_hayy_prefix", "حي النرجس", "نرجس"},
		{"without_prefix", "النرجس", "نرجس"},
		{"bare_noun", "نرجس", "نرجس"},
		{"with_mantiqa_prefix", "منطقة الملز", "ملز"},
		{"diacritics_and_prefix", "حي النَّرجس", "نرجس"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeAreaName(tc.in)
			if got != tc.want {
				t.Errorf("NormalizeAreaName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsCancellationPhrase(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"cancel_verb", "بدي الغي الطلب", true},
		{"cancel_noun", "الغاء الطلب من فضلك", true},
		{"loanword", "I want to cancel", true},
		{"slang", "كنسل الطلب", true},
		{"plain_no_is_not_cancellation", "لا، ما أبي صلصة", false},
		{"unrelated", "أبغى برجر لحم", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsCancellationPhrase(tc.in); got != tc.want {
				t.Errorf("IsCancellationPhrase(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeAreaNameMatchesAcrossVariants(t *testing.T) {
	a := NormalizeAreaName("حي النرجس")
	b := NormalizeAreaName("النرجس")
	c := NormalizeAreaName("نرجس")
	if a != b || b != c {
		t.Errorf("expected equal normalization, got %q vs %q vs %q", a, b, c)
	}
}
