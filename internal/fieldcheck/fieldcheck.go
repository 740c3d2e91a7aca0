// Package fieldcheck verifies that the identity and business fields declared
// on a permit application actually appear in OCR-extracted document text.
// Each check tolerates partial OCR corruption.
package fieldcheck

import (
	"regexp"
	"strings"

	"github.com/kabalen/permitdocs/internal/textmatch"
)

// BusinessNameThreshold is the minimum fuzzy score for a business-name match
const BusinessNameThreshold = 0.6

// MatchResult is the outcome of one field check
type MatchResult struct {
	Matched    bool    `json:"matched"`
	Confidence float64 `json:"confidence"`
	Value      string  `json:"value"`
}

// NameResult is the outcome of the owner-name check
type NameResult struct {
	First  MatchResult `json:"first"`
	Middle MatchResult `json:"middle"`
	Last   MatchResult `json:"last"`

	// AnyMatch is the passing condition: both first and last name found
	AnyMatch bool `json:"any_match"`
	// AllMatch additionally requires the middle name when one was supplied
	AllMatch bool `json:"all_match"`
}

func matchNamePart(part, text string) MatchResult {
	if part == "" {
		return MatchResult{Value: part}
	}
	score := textmatch.FuzzyMatch(part, text, textmatch.DefaultThreshold)
	matched := score > 0 || textmatch.Contains(text, part)
	return MatchResult{
		Matched:    matched,
		Confidence: score,
		Value:      part,
	}
}

// VerifyOwnerName checks that the applicant's name appears in text.
// First and last name are both required; a missing middle name never fails
// the check.
func VerifyOwnerName(first, middle, last, text string) NameResult {
	res := NameResult{
		First:  matchNamePart(first, text),
		Middle: matchNamePart(middle, text),
		Last:   matchNamePart(last, text),
	}

	if first == "" || last == "" {
		return res
	}

	res.AnyMatch = res.First.Matched && res.Last.Matched
	res.AllMatch = res.AnyMatch && (middle == "" || res.Middle.Matched)
	return res
}

// VerifyBusinessName checks that the registered business name appears in text
func VerifyBusinessName(businessName, text string) MatchResult {
	if businessName == "" {
		return MatchResult{Value: businessName}
	}
	score := textmatch.FuzzyMatch(businessName, text, textmatch.DefaultThreshold)
	return MatchResult{
		Matched:    score > BusinessNameThreshold,
		Confidence: score,
		Value:      businessName,
	}
}

// licenseNoPattern extracts values following "license no." / "lic number:" style labels
var licenseNoPattern = regexp.MustCompile(`(?i)(?:license|lic)\.?\s*(?:no|number)\.?\s*[:.]?\s*([A-Za-z0-9-]+)`)

// VerifyIDNumber checks that the declared ID number appears in text, either
// directly (normalized containment in both directions) or via a labelled
// license-number extraction.
func VerifyIDNumber(idNumber, text string) MatchResult {
	if idNumber == "" {
		return MatchResult{Value: idNumber}
	}

	expected := textmatch.Normalize(idNumber)
	if expected == "" {
		// A declared number of pure punctuation would contains-match every
		// extracted license number below
		return MatchResult{Value: idNumber}
	}

	if strings.Contains(textmatch.Normalize(text), expected) {
		return MatchResult{Matched: true, Confidence: 1.0, Value: idNumber}
	}

	for _, m := range licenseNoPattern.FindAllStringSubmatch(text, -1) {
		extracted := textmatch.Normalize(m[1])
		if extracted == "" {
			continue
		}
		if extracted == expected ||
			strings.Contains(extracted, expected) ||
			strings.Contains(expected, extracted) {
			return MatchResult{Matched: true, Confidence: 0.95, Value: idNumber}
		}
	}

	return MatchResult{Value: idNumber}
}
