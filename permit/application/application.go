package application

import (
	"time"

	"github.com/kabalen/permitdocs/pkg/kernel"
	"github.com/kabalen/permitdocs/permit/document"
)

// Type is the kind of business-permit application being filed
type Type string

const (
	TypeNew       Type = "new"
	TypeRenewal   Type = "renewal"
	TypeLiquor    Type = "liquor"
	TypeAmendment Type = "amendment"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeNew, TypeRenewal, TypeLiquor, TypeAmendment:
		return true
	}
	return false
}

// Status of a permit application
type Status string

const (
	StatusDraft       Status = "draft"
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
)

// PermitApplication is one business-permit application filed with the LGU
type PermitApplication struct {
	ID          kernel.ApplicationID `db:"id" json:"id"`
	ReferenceNo kernel.ReferenceNo   `db:"reference_no" json:"reference_no"`
	Type        Type                 `db:"type" json:"type"`
	Status      Status               `db:"status" json:"status"`

	OwnerFirstName  string `db:"owner_first_name" json:"owner_first_name"`
	OwnerMiddleName string `db:"owner_middle_name" json:"owner_middle_name,omitempty"`
	OwnerLastName   string `db:"owner_last_name" json:"owner_last_name"`

	BusinessName    string     `db:"business_name" json:"business_name"`
	BusinessAddress string     `db:"business_address" json:"business_address,omitempty"`
	TIN             kernel.TIN `db:"tin" json:"tin,omitempty"`

	// ID declared by the owner; checked against the uploaded valid ID
	DeclaredIDType   string `db:"declared_id_type" json:"declared_id_type,omitempty"`
	DeclaredIDNumber string `db:"declared_id_number" json:"declared_id_number,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ExpectedFields builds the values a supporting document must corroborate
func (a *PermitApplication) ExpectedFields() document.ExpectedFields {
	return document.ExpectedFields{
		OwnerFirstName:  a.OwnerFirstName,
		OwnerMiddleName: a.OwnerMiddleName,
		OwnerLastName:   a.OwnerLastName,
		BusinessName:    a.BusinessName,
		IDNumber:        a.DeclaredIDNumber,
		IDType:          a.DeclaredIDType,
	}
}

// requiredCategories lists the document slots each application type must fill
var requiredCategories = map[Type][]document.Category{
	TypeNew: {
		document.CategoryBarangayClearance,
		document.CategoryLeaseOrTitle,
		document.CategoryDTIRegistration,
		document.CategoryOwnerValidID,
	},
	TypeRenewal: {
		document.CategoryRenewalPermitCopy,
		document.CategoryBIRCertificate,
		document.CategoryBarangayClearance,
		document.CategoryOwnerValidID,
	},
	TypeLiquor: {
		document.CategoryPreviousPermitCopy,
		document.CategoryBarangayClearance,
		document.CategoryFSIC,
		document.CategoryOwnerValidID,
	},
	TypeAmendment: {
		document.CategoryPreviousPermitCopy,
		document.CategoryOwnerValidID,
	},
}

// RequiredCategories returns the document slots this application must fill
func (a *PermitApplication) RequiredCategories() []document.Category {
	return requiredCategories[a.Type]
}

// ChecklistItem is the verification standing of one required document slot
type ChecklistItem struct {
	Category document.Category `json:"category"`
	Label    string            `json:"label"`
	Status   document.Status   `json:"status"`
	Verified bool              `json:"verified"`
}

// Checklist summarizes an application's document verification standing
type Checklist struct {
	ApplicationID kernel.ApplicationID `json:"application_id"`
	Items         []ChecklistItem      `json:"items"`
	Complete      bool                 `json:"complete"`
}
