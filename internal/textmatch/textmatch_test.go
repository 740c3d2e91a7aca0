package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Juan Dela Cruz", "juandelacruz"},
		{"BP-2025-000123", "bp2025000123"},
		{"  MIXED  case 42! ", "mixedcase42"},
		{"ñ-é-ü", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in))
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "Juan Dela Cruz", "DRIVER'S LICENSE No. N01-23-456789", "ü42ü"}
	for _, s := range inputs {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestFuzzyMatchIdentical(t *testing.T) {
	assert.Equal(t, 1.0, FuzzyMatch("Juan", "JUAN", DefaultThreshold))
	assert.Equal(t, 1.0, FuzzyMatch("Dela Cruz", "delacruz", DefaultThreshold))
}

func TestFuzzyMatchSubstring(t *testing.T) {
	// containment in either direction
	assert.Equal(t, 0.95, FuzzyMatch("Juan", "Juan Dela Cruz", DefaultThreshold))
	assert.Equal(t, 0.95, FuzzyMatch("Juan Dela Cruz", "Juan", DefaultThreshold))
}

func TestFuzzyMatchEmpty(t *testing.T) {
	assert.Equal(t, 0.0, FuzzyMatch("", "anything", DefaultThreshold))
	assert.Equal(t, 0.0, FuzzyMatch("anything", "", DefaultThreshold))
	assert.Equal(t, 0.0, FuzzyMatch("", "", DefaultThreshold))
	// normalization can empty a non-empty input
	assert.Equal(t, 0.0, FuzzyMatch("!!!", "anything", DefaultThreshold))
}

func TestFuzzyMatchOverlapRatio(t *testing.T) {
	// "abcd" vs "abxy": shorter=longer=4 chars, a and b found in the other,
	// ratio = 2/4 = 0.5 which meets the default threshold
	got := FuzzyMatch("abcd", "abxy", DefaultThreshold)
	assert.InDelta(t, 0.5, got, 1e-9)

	// below threshold collapses to zero
	assert.Equal(t, 0.0, FuzzyMatch("abcd", "axyz", DefaultThreshold))
}

func TestFuzzyMatchAsymmetricOverlap(t *testing.T) {
	// The overlap branch divides by the longer string, so the general case is
	// symmetric in arguments but the documented behavior depends on which
	// side is longer, not on argument order.
	a, b := "abcde", "abcxyzw"
	assert.Equal(t, FuzzyMatch(a, b, 0), FuzzyMatch(b, a, 0))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("JUAN  DELACRUZ", "Dela Cruz"))
	assert.False(t, Contains("some text", "Juan"))
	assert.False(t, Contains("some text", "!!!"))
}
