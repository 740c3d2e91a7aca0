// Package textmatch implements the string comparison primitives used by
// document verification. OCR output is noisy, so comparisons run over
// normalized text and tolerate partial corruption.
package textmatch

import "strings"

// DefaultThreshold is the minimum overlap ratio FuzzyMatch will report
const DefaultThreshold = 0.5

// Normalize lowercases s and strips everything outside [a-z0-9].
// Idempotent; empty in, empty out.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FuzzyMatch scores the similarity of a and b in [0,1].
//
// Exact normalized equality scores 1.0 and substring containment in either
// direction scores 0.95. Otherwise the score is a bag-of-characters overlap:
// for each character of the shorter string, count whether it occurs anywhere
// in the longer one, divided by the length of the longer string. The overlap
// branch is intentionally not edit distance; it trades precision for
// tolerance of OCR character damage. Scores below threshold collapse to 0.
func FuzzyMatch(a, b string, threshold float64) float64 {
	na := Normalize(a)
	nb := Normalize(b)

	// An empty side can never be a meaningful match and would divide by zero
	if na == "" || nb == "" {
		return 0
	}

	if na == nb {
		return 1.0
	}

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 0.95
	}

	shorter, longer := na, nb
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	matches := 0
	for _, r := range shorter {
		if strings.ContainsRune(longer, r) {
			matches++
		}
	}

	ratio := float64(matches) / float64(len(longer))
	if ratio < threshold {
		return 0
	}
	return ratio
}

// Contains reports whether the normalized needle occurs in the normalized haystack
func Contains(haystack, needle string) bool {
	n := Normalize(needle)
	if n == "" {
		return false
	}
	return strings.Contains(Normalize(haystack), n)
}
