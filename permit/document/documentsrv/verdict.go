package documentsrv

import (
	"fmt"

	"github.com/kabalen/permitdocs/internal/docclass"
	"github.com/kabalen/permitdocs/internal/fieldcheck"
	"github.com/kabalen/permitdocs/permit/document"
)

// evaluate applies the acceptance policy for one category to the extracted
// text. Every sub-check runs and is reported even when an earlier one already
// decided the verdict, so the applicant sees the full checklist.
func evaluate(category document.Category, expected document.ExpectedFields, text string) *document.Verdict {
	if category.IsID() {
		return evaluateID(category, expected, text)
	}

	typeMatch := docclass.DetectDocumentType(text, category.String())
	ownerName := fieldcheck.VerifyOwnerName(
		expected.OwnerFirstName, expected.OwnerMiddleName, expected.OwnerLastName, text)
	businessName := fieldcheck.VerifyBusinessName(expected.BusinessName, text)

	verdict := &document.Verdict{
		Results: document.VerificationResults{
			DocumentType: document.TypeResult{
				Detected:   typeMatch.Matched,
				Confidence: typeMatch.Confidence,
				MatchCount: typeMatch.MatchCount,
			},
			OwnerName:    ownerName,
			BusinessName: businessName,
		},
	}

	if !typeMatch.Matched {
		verdict.InvalidReasons = append(verdict.InvalidReasons,
			fmt.Sprintf("Wrong document type uploaded. Expected: %s.", category.Label()))
		return verdict
	}

	if category.GatesOnBusinessName() {
		if !businessName.Matched {
			verdict.InvalidReasons = append(verdict.InvalidReasons,
				"Business name was not found on the permit copy.")
			return verdict
		}
		verdict.IsVerified = true
		return verdict
	}

	if !ownerName.AnyMatch {
		verdict.InvalidReasons = append(verdict.InvalidReasons,
			"Owner name was not found on the document.")
		return verdict
	}

	verdict.IsVerified = true
	return verdict
}

// evaluateID gates the valid-ID categories. These are the strictest slots:
// the document must look like a government ID of the declared type, carry the
// owner's name, and carry the declared ID number. Failures are itemized as a
// checklist so the applicant can fix the exact field.
func evaluateID(category document.Category, expected document.ExpectedFields, text string) *document.Verdict {
	detected := docclass.DetectIDType(text)
	ownerName := fieldcheck.VerifyOwnerName(
		expected.OwnerFirstName, expected.OwnerMiddleName, expected.OwnerLastName, text)
	idNumber := fieldcheck.VerifyIDNumber(expected.IDNumber, text)

	idType := document.IDTypeResult{Expected: expected.IDType}
	if detected != nil {
		idType.Detected = detected.Type
		idType.Confidence = detected.Confidence
		idType.MatchCount = detected.MatchCount
		idType.Matched = docclass.CompatibleIDTypes(expected.IDType, detected.Type)
	}

	verdict := &document.Verdict{
		Results: document.VerificationResults{
			DocumentType: document.TypeResult{
				Detected:   detected != nil,
				Confidence: idType.Confidence,
				MatchCount: idType.MatchCount,
			},
			OwnerName: ownerName,
			IDNumber:  &idNumber,
			IDType:    &idType,
		},
	}

	if detected == nil {
		verdict.InvalidReasons = append(verdict.InvalidReasons,
			fmt.Sprintf("Wrong document type uploaded. Expected: %s.", category.Label()))
		return verdict
	}

	var checklist []string
	allPassed := true

	if ownerName.AnyMatch {
		checklist = append(checklist, "✓ Owner name found on the ID")
	} else {
		checklist = append(checklist, "❌ Owner name not found on the ID")
		allPassed = false
	}

	if idNumber.Matched {
		checklist = append(checklist, "✓ ID number matches the declared number")
	} else {
		checklist = append(checklist, "❌ ID number not found on the ID")
		allPassed = false
	}

	if idType.Matched {
		checklist = append(checklist, "✓ ID type matches the declared type")
	} else {
		checklist = append(checklist, fmt.Sprintf(
			"❌ ID type mismatch: document appears to be %s but %s was declared",
			idType.Detected, idType.Expected))
		allPassed = false
	}

	if allPassed {
		verdict.IsVerified = true
		return verdict
	}

	verdict.InvalidReasons = checklist
	return verdict
}
