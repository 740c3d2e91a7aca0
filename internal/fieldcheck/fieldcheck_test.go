package fieldcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const noisyIDText = `
REPUBLIC OF THE PHILIPPINES
DRIVER'S LICENSE
JUAN  DELACRUZ
License No: N01-23-456789
`

func TestVerifyOwnerNameBothParts(t *testing.T) {
	res := VerifyOwnerName("Juan", "", "Dela Cruz", noisyIDText)
	assert.True(t, res.First.Matched)
	assert.True(t, res.Last.Matched)
	assert.True(t, res.AnyMatch)
	assert.True(t, res.AllMatch)
}

func TestVerifyOwnerNameOnlyFirst(t *testing.T) {
	res := VerifyOwnerName("Juan", "", "Reyes", "text mentioning only Juan")
	assert.True(t, res.First.Matched)
	assert.False(t, res.Last.Matched)
	assert.False(t, res.AnyMatch)
}

func TestVerifyOwnerNameMiddleNeverGatesAnyMatch(t *testing.T) {
	res := VerifyOwnerName("Juan", "Santos", "Dela Cruz", noisyIDText)
	assert.True(t, res.AnyMatch, "missing middle must not fail the passing condition")
	assert.False(t, res.AllMatch)
}

func TestVerifyOwnerNameMissingRequiredParts(t *testing.T) {
	res := VerifyOwnerName("", "", "Dela Cruz", noisyIDText)
	assert.False(t, res.AnyMatch)
	assert.False(t, res.AllMatch)
}

func TestVerifyBusinessName(t *testing.T) {
	text := "MAYOR'S PERMIT issued to ALING NENA SARI-SARI STORE operating at ..."

	hit := VerifyBusinessName("Aling Nena Sari-Sari Store", text)
	assert.True(t, hit.Matched)
	assert.Greater(t, hit.Confidence, BusinessNameThreshold)

	miss := VerifyBusinessName("Completely Different Trading", text)
	assert.False(t, miss.Matched)

	empty := VerifyBusinessName("", text)
	assert.False(t, empty.Matched)
}

func TestVerifyIDNumberDirect(t *testing.T) {
	res := VerifyIDNumber("N01-23-456789", noisyIDText)
	assert.True(t, res.Matched)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestVerifyIDNumberViaLicenseLabel(t *testing.T) {
	// partial declared number still accepted through the labelled extraction
	res := VerifyIDNumber("N0123456789", "my license number: N01-23-456789 here")
	assert.True(t, res.Matched)
}

func TestVerifyIDNumberAbsent(t *testing.T) {
	res := VerifyIDNumber("X99-88-777777", noisyIDText)
	assert.False(t, res.Matched)

	assert.False(t, VerifyIDNumber("", noisyIDText).Matched)
}

func TestVerifyIDNumberPunctuationOnlyNeverMatches(t *testing.T) {
	// "--" normalizes to "" and must not contains-match the extracted license number
	assert.False(t, VerifyIDNumber("--", noisyIDText).Matched)
	assert.False(t, VerifyIDNumber("..", noisyIDText).Matched)
}
