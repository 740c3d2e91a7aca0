// Package docclass classifies OCR-extracted text against the keyword
// signatures of the supporting documents required by permit applications,
// and detects which kind of government ID an uploaded file is.
package docclass

import "strings"

// TypeMatch is the outcome of classifying text against one category
type TypeMatch struct {
	Matched    bool    `json:"matched"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
}

// DetectDocumentType scores text against the keyword signature of category.
// Matching is a case-insensitive substring test per keyword; a single hit is
// enough to count as matched.
func DetectDocumentType(text, category string) TypeMatch {
	keywords, ok := categoryKeywords[category]
	if !ok || len(keywords) == 0 {
		return TypeMatch{}
	}

	lower := strings.ToLower(text)
	count := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			count++
		}
	}

	return TypeMatch{
		Matched:    count > 0,
		Confidence: float64(count) / float64(len(keywords)),
		MatchCount: count,
	}
}
