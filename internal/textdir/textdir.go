// Package textdir holds the Arabic/Latin script heuristics used to pick
// text directionality and to guess a prompt's language.
package textdir

import "unicode"

// Direction values for rendering hints.
const (
	RTL = "rtl"
	LTR = "ltr"
)

func isArabicRune(r rune) bool {
	switch {
	case r >= 0x0600 && r <= 0x06FF: // Arabic
		return true
	case r >= 0x0750 && r <= 0x077F: // Arabic Supplement
		return true
	case r >= 0x08A0 && r <= 0x08FF: // Arabic Extended-A
		return true
	case r >= 0xFB50 && r <= 0xFDFF: // Presentation Forms-A
		return true
	case r >= 0xFE70 && r <= 0xFEFF: // Presentation Forms-B
		return true
	}
	return false
}

// IsArabic reports whether Arabic letters outnumber Latin letters in s.
// Digits, punctuation and whitespace are ignored.
func IsArabic(s string) bool {
	var arabic, latin int
	for _, r := range s {
		switch {
		case isArabicRune(r):
			arabic++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}
	return arabic > latin && arabic > 0
}

// Direction returns "rtl" for Arabic-dominant text, "ltr" otherwise.
func Direction(s string) string {
	if IsArabic(s) {
		return RTL
	}
	return LTR
}

// DetectLanguage guesses "ar" or "fr" from the script. The dashboard only
// handles these two languages, so Latin text is assumed French.
func DetectLanguage(s string) string {
	if IsArabic(s) {
		return "ar"
	}
	return "fr"
}
