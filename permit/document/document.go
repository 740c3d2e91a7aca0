package document

import (
	"time"

	"github.com/kabalen/permitdocs/internal/docclass"
	"github.com/kabalen/permitdocs/internal/fieldcheck"
	"github.com/kabalen/permitdocs/pkg/kernel"
)

// Category is the expected kind of supporting document for one upload slot
type Category string

const (
	CategoryBarangayClearance  Category = docclass.CategoryBarangayClearance
	CategoryBIRCertificate     Category = docclass.CategoryBIRCertificate
	CategoryLeaseOrTitle       Category = docclass.CategoryLeaseOrTitle
	CategoryFSIC               Category = docclass.CategoryFSIC
	CategoryOwnerValidID       Category = docclass.CategoryOwnerValidID
	CategoryOwnerScannedID     Category = docclass.CategoryOwnerScannedID
	CategoryDTIRegistration    Category = docclass.CategoryDTIRegistration
	CategorySECRegistration    Category = docclass.CategorySECRegistration
	CategoryRenewalPermitCopy  Category = docclass.CategoryRenewalPermitCopy
	CategoryPreviousPermitCopy Category = docclass.CategoryPreviousPermitCopy
)

func (c Category) String() string { return string(c) }

// Label returns the display name used in rejection reasons
func (c Category) Label() string { return docclass.Label(string(c)) }

// IsKnown reports whether the category has a classification signature
func (c Category) IsKnown() bool { return docclass.KnownCategory(string(c)) }

// IsID reports whether the slot expects a government ID; ID slots are gated
// by the ID-type detector instead of the keyword signature
func (c Category) IsID() bool { return docclass.IsIDCategory(string(c)) }

// GatesOnBusinessName reports whether the slot passes on a business-name
// match instead of an owner-name match (permit copies in the renewal and
// liquor flows).
func (c Category) GatesOnBusinessName() bool {
	return c == CategoryRenewalPermitCopy || c == CategoryPreviousPermitCopy
}

// ExpectedFields are the application-form values a document must corroborate
type ExpectedFields struct {
	OwnerFirstName  string `json:"owner_first_name"`
	OwnerMiddleName string `json:"owner_middle_name,omitempty"`
	OwnerLastName   string `json:"owner_last_name"`
	BusinessName    string `json:"business_name"`
	IDNumber        string `json:"id_number,omitempty"`
	IDType          string `json:"id_type,omitempty"`
}

// TypeResult is the document-type classification outcome
type TypeResult struct {
	Detected   bool    `json:"detected"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
}

// IDTypeResult compares the declared ID type with the detected one
type IDTypeResult struct {
	Expected   string  `json:"expected"`
	Detected   string  `json:"detected"`
	Matched    bool    `json:"matched"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
}

// VerificationResults collects every sub-check of one verification attempt
type VerificationResults struct {
	DocumentType TypeResult              `json:"document_type"`
	OwnerName    fieldcheck.NameResult   `json:"owner_name"`
	BusinessName fieldcheck.MatchResult  `json:"business_name"`
	IDNumber     *fieldcheck.MatchResult `json:"id_number,omitempty"`
	IDType       *IDTypeResult           `json:"id_type,omitempty"`
}

// Verdict is the accept/reject outcome of one verification attempt.
// Created fresh per attempt; a re-upload discards the previous one.
type Verdict struct {
	IsVerified     bool                `json:"is_verified"`
	Results        VerificationResults `json:"results"`
	InvalidReasons []string            `json:"invalid_reasons,omitempty"`
}

// Status of a verification slot
type Status string

const (
	StatusIdle      Status = "idle"
	StatusVerifying Status = "verifying"
	StatusVerified  Status = "verified"
	StatusRejected  Status = "rejected"
	StatusErrored   Status = "errored"
)

// State is the live state of one (application, category) verification slot.
// Terminal states are exited only by a fresh user action.
type State struct {
	Status      Status   `json:"status"`
	IsVerifying bool     `json:"is_verifying"`
	IsVerified  bool     `json:"is_verified"`
	Results     *Verdict `json:"results,omitempty"`
	Error       string   `json:"error,omitempty"`
	Progress    int      `json:"progress"`
}

// Record is a persisted verification outcome
type Record struct {
	ID            kernel.VerificationID `db:"id" json:"id"`
	ApplicationID kernel.ApplicationID  `db:"application_id" json:"application_id"`
	Category      Category              `db:"category" json:"category"`
	Status        Status                `db:"status" json:"status"`

	FileName string `db:"file_name" json:"file_name"`
	FilePath string `db:"file_path" json:"file_path,omitempty"`
	FileType string `db:"file_type" json:"file_type"`

	Verdict        *Verdict `db:"verdict" json:"verdict,omitempty"`
	InvalidReasons []string `db:"invalid_reasons" json:"invalid_reasons,omitempty"`
	ErrorMessage   string   `db:"error_message" json:"error_message,omitempty"`

	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}
