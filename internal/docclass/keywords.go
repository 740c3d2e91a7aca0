package docclass

import "sort"

// Document category names. These are the wire values used by the API and
// stored with verification records.
const (
	CategoryBarangayClearance  = "barangay_clearance"
	CategoryBIRCertificate     = "bir_certificate"
	CategoryLeaseOrTitle       = "lease_or_title"
	CategoryFSIC               = "fsic"
	CategoryOwnerValidID       = "owner_valid_id"
	CategoryOwnerScannedID     = "owner_scanned_id"
	CategoryDTIRegistration    = "dti_registration"
	CategorySECRegistration    = "sec_registration"
	CategoryRenewalPermitCopy  = "renewal_permit_copy"
	CategoryPreviousPermitCopy = "previous_permit_copy"
)

// categoryKeywords is the classification signature per category: a document
// is considered to be of the expected kind when at least one keyword appears
// in the extracted text. Deliberately permissive to tolerate OCR noise.
var categoryKeywords = map[string][]string{
	CategoryBarangayClearance: {
		"barangay clearance",
		"brgy clearance",
		"barangay certification",
		"clearance",
		"certification",
		"punong barangay",
		"barangay captain",
		"lupon",
		"katarungang pambarangay",
		"sangguniang barangay",
		"barangay secretary",
	},
	CategoryBIRCertificate: {
		"bureau of internal revenue",
		"certificate of registration",
		"form 2303",
		"taxpayer identification number",
		"revenue district office",
		"rdo code",
		"annual registration fee",
		"registered activity",
		"tax type",
	},
	CategoryLeaseOrTitle: {
		"contract of lease",
		"lease agreement",
		"lessor",
		"lessee",
		"transfer certificate of title",
		"original certificate of title",
		"condominium certificate of title",
		"registry of deeds",
		"deed of absolute sale",
		"tax declaration",
		"monthly rental",
	},
	CategoryFSIC: {
		"fire safety inspection certificate",
		"fsic",
		"bureau of fire protection",
		"fire code of the philippines",
		"fire marshal",
		"city fire marshal",
		"ra 9514",
		"fire safety",
	},
	CategoryOwnerValidID: {
		"republic of the philippines",
		"identification card",
		"id no",
		"valid until",
		"date of birth",
		"nationality",
		"signature",
	},
	CategoryOwnerScannedID: {
		"republic of the philippines",
		"identification card",
		"id no",
		"valid until",
		"date of birth",
		"nationality",
		"signature",
	},
	CategoryDTIRegistration: {
		"department of trade and industry",
		"business name registration",
		"certificate of business name",
		"business name act",
		"act 3883",
		"this certifies that the business name",
	},
	CategorySECRegistration: {
		"securities and exchange commission",
		"certificate of incorporation",
		"articles of incorporation",
		"articles of partnership",
		"revised corporation code",
		"company registration and monitoring department",
	},
	CategoryRenewalPermitCopy: {
		"business permit",
		"mayor's permit",
		"mayors permit",
		"permit to operate",
		"permit no",
		"office of the mayor",
		"business permits and licensing office",
		"bplo",
		"line of business",
	},
	CategoryPreviousPermitCopy: {
		"business permit",
		"mayor's permit",
		"mayors permit",
		"permit to operate",
		"permit no",
		"office of the mayor",
		"business permits and licensing office",
		"bplo",
		"line of business",
	},
}

// categoryLabels are the human-readable names used in rejection reasons
var categoryLabels = map[string]string{
	CategoryBarangayClearance:  "Barangay Clearance",
	CategoryBIRCertificate:     "BIR Certificate of Registration",
	CategoryLeaseOrTitle:       "Contract of Lease or Land Title",
	CategoryFSIC:               "Fire Safety Inspection Certificate",
	CategoryOwnerValidID:       "Owner's Valid ID",
	CategoryOwnerScannedID:     "Scanned Copy of Owner's Valid ID",
	CategoryDTIRegistration:    "DTI Business Name Registration",
	CategorySECRegistration:    "SEC Certificate of Registration",
	CategoryRenewalPermitCopy:  "Copy of Business Permit for Renewal",
	CategoryPreviousPermitCopy: "Copy of Previous Business Permit",
}

// Label returns the display name of a category, falling back to its raw name
func Label(category string) string {
	if l, ok := categoryLabels[category]; ok {
		return l
	}
	return category
}

// KnownCategory reports whether the category has a classification signature
func KnownCategory(category string) bool {
	_, ok := categoryKeywords[category]
	return ok
}

// IsIDCategory reports whether the category is gated by the ID-type detector
// rather than by its keyword signature
func IsIDCategory(category string) bool {
	return category == CategoryOwnerValidID || category == CategoryOwnerScannedID
}

// Categories returns all known category names in a stable order
func Categories() []string {
	out := make([]string, 0, len(categoryKeywords))
	for c := range categoryKeywords {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
